package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/user"
	"gorm.io/gorm"
)

// GormUserRepository implements UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// FindByUsername finds a user by login name
func (r *GormUserRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// ExistsByUsername checks whether a username is taken
func (r *GormUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&user.User{}).Where("username = ?", username))
}

// List returns a page of users matching the criteria
func (r *GormUserRepository) List(ctx context.Context, criteria user.UserCriteria) ([]user.User, int64, error) {
	q := r.db.WithContext(ctx).Model(&user.User{})
	if criteria.StoreID != nil {
		q = q.Scopes(StoreScope(*criteria.StoreID))
	}
	if criteria.Username != "" {
		q = q.Where("LOWER(username) LIKE ? ESCAPE '\\'", Like(criteria.Username))
	}
	if criteria.Email != "" {
		q = q.Where("LOWER(email) LIKE ? ESCAPE '\\'", Like(criteria.Email))
	}
	if criteria.Search != "" {
		pattern := Like(criteria.Search)
		q = q.Where("LOWER(username) LIKE ? ESCAPE '\\' OR LOWER(first_name) LIKE ? ESCAPE '\\' OR LOWER(last_name) LIKE ? ESCAPE '\\'", pattern, pattern, pattern)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []user.User
	err := q.Scopes(OrderBy(criteria.Criteria, UserSortFields, "username"), Paginate(criteria.Criteria)).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, u *user.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

// Delete removes a user
func (r *GormUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&user.User{}, "id = ?", id))
}
