package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/reference"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMerchantStoreRepository implements MerchantStoreRepository using GORM
type GormMerchantStoreRepository struct {
	db *gorm.DB
}

// NewGormMerchantStoreRepository creates a new GormMerchantStoreRepository
func NewGormMerchantStoreRepository(db *gorm.DB) *GormMerchantStoreRepository {
	return &GormMerchantStoreRepository{db: db}
}

// FindByID finds a store by ID
func (r *GormMerchantStoreRepository) FindByID(ctx context.Context, id uuid.UUID) (*merchant.MerchantStore, error) {
	var store merchant.MerchantStore
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error; err != nil {
		return nil, notFound(err)
	}
	return &store, nil
}

// FindByCode finds a store by its unique code
func (r *GormMerchantStoreRepository) FindByCode(ctx context.Context, code string) (*merchant.MerchantStore, error) {
	var store merchant.MerchantStore
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&store).Error; err != nil {
		return nil, notFound(err)
	}
	return &store, nil
}

// ExistsByCode checks whether a store code is taken
func (r *GormMerchantStoreRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&merchant.MerchantStore{}).Where("code = ?", code))
}

// List returns a page of stores matching the criteria
func (r *GormMerchantStoreRepository) List(ctx context.Context, criteria merchant.MerchantStoreCriteria) ([]merchant.MerchantStore, int64, error) {
	q := r.db.WithContext(ctx).Model(&merchant.MerchantStore{})
	if criteria.Code != "" {
		q = q.Where("LOWER(code) LIKE ? ESCAPE '\\'", Like(criteria.Code))
	}
	name := criteria.Name
	if name == "" {
		name = criteria.Search
	}
	if name != "" {
		q = q.Where("LOWER(name) LIKE ? ESCAPE '\\'", Like(name))
	}
	if criteria.Retailers {
		q = q.Where("retailer = ?", true)
	}
	if criteria.ParentID != nil {
		q = q.Where("parent_id = ? OR id = ?", *criteria.ParentID, *criteria.ParentID)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var stores []merchant.MerchantStore
	err := q.Scopes(OrderBy(criteria.Criteria, StoreSortFields, "code"), Paginate(criteria.Criteria)).Find(&stores).Error
	if err != nil {
		return nil, 0, err
	}
	return stores, total, nil
}

// FindChildren returns the stores whose parent is parentID
func (r *GormMerchantStoreRepository) FindChildren(ctx context.Context, parentID uuid.UUID) ([]merchant.MerchantStore, error) {
	var stores []merchant.MerchantStore
	err := r.db.WithContext(ctx).Where("parent_id = ?", parentID).Order("code ASC").Find(&stores).Error
	return stores, err
}

// Save creates or updates a store
func (r *GormMerchantStoreRepository) Save(ctx context.Context, store *merchant.MerchantStore) error {
	return r.db.WithContext(ctx).Save(store).Error
}

// Delete removes a store
func (r *GormMerchantStoreRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&merchant.MerchantStore{}, "id = ?", id))
}

// GormLanguageRepository implements LanguageRepository using GORM
type GormLanguageRepository struct {
	db *gorm.DB
}

// NewGormLanguageRepository creates a new GormLanguageRepository
func NewGormLanguageRepository(db *gorm.DB) *GormLanguageRepository {
	return &GormLanguageRepository{db: db}
}

// FindByCode finds a language by ISO code
func (r *GormLanguageRepository) FindByCode(ctx context.Context, code string) (*reference.Language, error) {
	var lang reference.Language
	if err := r.db.WithContext(ctx).Where("code = ?", strings.ToLower(code)).First(&lang).Error; err != nil {
		return nil, notFound(err)
	}
	return &lang, nil
}

// FindAll returns every language by sort order
func (r *GormLanguageRepository) FindAll(ctx context.Context) ([]reference.Language, error) {
	var langs []reference.Language
	err := r.db.WithContext(ctx).Order("sort_order ASC, code ASC").Find(&langs).Error
	return langs, err
}

// Save inserts a language, keeping the existing row when the code is known
func (r *GormLanguageRepository) Save(ctx context.Context, language *reference.Language) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "code"}},
		DoUpdates: clause.AssignmentColumns([]string{"sort_order", "updated_at"}),
	}).Create(language).Error
}
