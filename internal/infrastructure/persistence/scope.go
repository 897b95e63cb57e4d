package persistence

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// StoreScope restricts a query to one merchant store
func StoreScope(storeID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("merchant_store_id = ?", storeID)
	}
}

// Paginate applies the offset and limit of a criteria
func Paginate(c shared.Criteria) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(c.Offset()).Limit(c.Limit())
	}
}

// OrderBy sorts by a whitelisted column, falling back to defaultField
func OrderBy(c shared.Criteria, allowed map[string]bool, defaultField string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(ValidateSortField(c.OrderByField, allowed, defaultField) + " " + strings.ToUpper(c.Direction()))
	}
}

// ValidateSortField returns sortField when it is whitelisted, otherwise defaultField
func ValidateSortField(sortField string, allowed map[string]bool, defaultField string) string {
	f := strings.ToLower(strings.TrimSpace(sortField))
	if allowed[f] {
		return f
	}
	return defaultField
}

// Like builds a case-insensitive contains pattern. Wildcards in s are escaped
// with a backslash, so queries must use LIKE ? ESCAPE '\'.
func Like(s string) string {
	s = strings.NewReplacer("%", `\%`, "_", `\_`).Replace(strings.ToLower(strings.TrimSpace(s)))
	return "%" + s + "%"
}

// Allowed sort columns per listing
var (
	StoreSortFields    = map[string]bool{"code": true, "name": true, "created_at": true}
	ProductSortFields  = map[string]bool{"sku": true, "price": true, "sort_order": true, "created_at": true}
	ContentSortFields  = map[string]bool{"code": true, "sort_order": true, "created_at": true}
	CustomerSortFields = map[string]bool{"email": true, "last_name": true, "first_name": true, "created_at": true}
	UserSortFields     = map[string]bool{"username": true, "email": true, "last_access": true, "created_at": true}
	OrderSortFields    = map[string]bool{"date_purchased": true, "total": true, "status": true, "number": true}
)

// notFound maps gorm's missing-row error to the domain sentinel
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

// affected turns a zero-row delete or update into ErrNotFound
func affected(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// exists counts rows matching the query
func exists(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
