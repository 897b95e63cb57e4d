package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/customer"
	"gorm.io/gorm"
)

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID within a store
func (r *GormCustomerRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*customer.Customer, error) {
	var c customer.Customer
	if err := r.db.WithContext(ctx).Scopes(StoreScope(storeID)).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// FindByEmail finds a customer by email within a store
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, storeID uuid.UUID, email string) (*customer.Customer, error) {
	var c customer.Customer
	err := r.db.WithContext(ctx).Scopes(StoreScope(storeID)).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// FindByResetToken finds the customer holding a password reset token
func (r *GormCustomerRepository) FindByResetToken(ctx context.Context, storeID uuid.UUID, token string) (*customer.Customer, error) {
	if token == "" {
		return nil, notFound(gorm.ErrRecordNotFound)
	}
	var c customer.Customer
	if err := r.db.WithContext(ctx).Scopes(StoreScope(storeID)).Where("reset_token = ?", token).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// List returns a page of customers matching the criteria
func (r *GormCustomerRepository) List(ctx context.Context, criteria customer.CustomerCriteria) ([]customer.Customer, int64, error) {
	q := r.db.WithContext(ctx).Model(&customer.Customer{}).Scopes(StoreScope(criteria.StoreID))
	if criteria.Email != "" {
		q = q.Where("LOWER(email) LIKE ? ESCAPE '\\'", Like(criteria.Email))
	}
	if criteria.FirstName != "" {
		q = q.Where("LOWER(first_name) LIKE ? ESCAPE '\\'", Like(criteria.FirstName))
	}
	if criteria.LastName != "" {
		q = q.Where("LOWER(last_name) LIKE ? ESCAPE '\\'", Like(criteria.LastName))
	}
	name := criteria.Name
	if name == "" {
		name = criteria.Search
	}
	if name != "" {
		pattern := Like(name)
		q = q.Where("LOWER(first_name) LIKE ? ESCAPE '\\' OR LOWER(last_name) LIKE ? ESCAPE '\\' OR LOWER(email) LIKE ? ESCAPE '\\'", pattern, pattern, pattern)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []customer.Customer
	err := q.Scopes(OrderBy(criteria.Criteria, CustomerSortFields, "email"), Paginate(criteria.Criteria)).Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ExistsByEmail checks whether the email is registered in the store
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, storeID uuid.UUID, email string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&customer.Customer{}).Scopes(StoreScope(storeID)).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))))
}

// ClearExpiredResetTokens clears reset tokens whose expiry has passed
func (r *GormCustomerRepository) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Model(&customer.Customer{}).
		Where("reset_token <> '' AND reset_token_expires_at < ?", time.Now()).
		Updates(map[string]any{"reset_token": "", "reset_token_expires_at": nil})
	return res.RowsAffected, res.Error
}

// Save creates or updates a customer
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// Delete removes a customer
func (r *GormCustomerRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Scopes(StoreScope(storeID)).Delete(&customer.Customer{}, "id = ?", id))
}
