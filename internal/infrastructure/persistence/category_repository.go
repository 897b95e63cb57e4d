package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormCategoryRepository implements CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: trackVersions(db)}
}

func (r *GormCategoryRepository) scoped(ctx context.Context, storeID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Scopes(StoreScope(storeID)).Preload("Descriptions")
}

// FindByID finds a category by ID within a store
func (r *GormCategoryRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.scoped(ctx, storeID).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// FindByCode finds a category by its store-unique code
func (r *GormCategoryRepository) FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.scoped(ctx, storeID).Where("code = ?", code).First(&category).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// FindBySeUrl finds a category by the friendly URL of one of its descriptions
func (r *GormCategoryRepository) FindBySeUrl(ctx context.Context, storeID uuid.UUID, lang, seUrl string) (*catalog.Category, error) {
	sub := r.db.Model(&catalog.CategoryDescription{}).Select("category_id").
		Where("language = ? AND se_url = ?", lang, seUrl)
	var category catalog.Category
	if err := r.scoped(ctx, storeID).Where("id IN (?)", sub).First(&category).Error; err != nil {
		return nil, notFound(err)
	}
	return &category, nil
}

// FindByIDs returns the categories of the store among ids
func (r *GormCategoryRepository) FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]catalog.Category, error) {
	if len(ids) == 0 {
		return []catalog.Category{}, nil
	}
	var categories []catalog.Category
	err := r.scoped(ctx, storeID).Where("id IN ?", ids).Order("sort_order ASC").Find(&categories).Error
	return categories, err
}

// ListByStore returns all categories of a store, parents before children
func (r *GormCategoryRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]catalog.Category, error) {
	var categories []catalog.Category
	err := r.scoped(ctx, storeID).Order("depth ASC, sort_order ASC").Find(&categories).Error
	return categories, err
}

// ListByStoreAndParent returns the direct children of parent, or the roots
func (r *GormCategoryRepository) ListByStoreAndParent(ctx context.Context, storeID uuid.UUID, parent *catalog.Category) ([]catalog.Category, error) {
	q := r.scoped(ctx, storeID)
	if parent == nil {
		q = q.Where("parent_id IS NULL")
	} else {
		q = q.Where("parent_id = ?", parent.ID)
	}
	var categories []catalog.Category
	err := q.Order("sort_order ASC").Find(&categories).Error
	return categories, err
}

// ListByLineage returns every descendant of the category at path
func (r *GormCategoryRepository) ListByLineage(ctx context.Context, storeID uuid.UUID, path string) ([]catalog.Category, error) {
	var categories []catalog.Category
	err := r.scoped(ctx, storeID).
		Where("path LIKE ?", path+"/%").
		Order("depth ASC, sort_order ASC").
		Find(&categories).Error
	return categories, err
}

// CountProductsByCategories counts the products linked to each category
func (r *GormCategoryRepository) CountProductsByCategories(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(ids))
	if len(ids) == 0 {
		return counts, nil
	}
	var rows []struct {
		CategoryID uuid.UUID
		Total      int64
	}
	err := r.db.WithContext(ctx).
		Table("product_categories pc").
		Select("pc.category_id AS category_id, COUNT(*) AS total").
		Joins("JOIN products p ON p.id = pc.product_id").
		Where("p.merchant_store_id = ? AND pc.category_id IN ?", storeID, ids).
		Group("pc.category_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.CategoryID] = row.Total
	}
	return counts, nil
}

// HasChildren reports whether any category has id as its parent
func (r *GormCategoryRepository) HasChildren(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&catalog.Category{}).Where("parent_id = ?", id))
}

// ExistsByCode checks whether the code is taken in the store
func (r *GormCategoryRepository) ExistsByCode(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&catalog.Category{}).Scopes(StoreScope(storeID)).Where("code = ?", code))
}

// Save creates or updates a category with its descriptions
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveVersioned(tx, category, func(tx *gorm.DB) error {
			return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(category).Error
		})
	})
}

// SaveAll saves several categories in one transaction
func (r *GormCategoryRepository) SaveAll(ctx context.Context, categories []catalog.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range categories {
			c := &categories[i]
			if err := saveVersioned(tx, c, func(tx *gorm.DB) error { return tx.Save(c).Error }); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a category, its descriptions and its product links
func (r *GormCategoryRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_categories WHERE category_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("category_id = ?", id).Delete(&catalog.CategoryDescription{}).Error; err != nil {
			return err
		}
		return affected(tx.Scopes(StoreScope(storeID)).Delete(&catalog.Category{}, "id = ?", id))
	})
}
