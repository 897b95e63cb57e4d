package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"gorm.io/gorm"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: trackVersions(db)}
}

func (r *GormProductRepository) scoped(ctx context.Context, storeID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Scopes(StoreScope(storeID)).
		Preload("Descriptions").
		Preload("Categories").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Preload("Images.Descriptions")
}

// FindByID finds a product by ID within a store
func (r *GormProductRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.scoped(ctx, storeID).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// FindBySku finds a product by its store-unique SKU
func (r *GormProductRepository) FindBySku(ctx context.Context, storeID uuid.UUID, sku string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.scoped(ctx, storeID).Where("sku = ?", sku).First(&product).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// FindBySeUrl finds a product by a localized friendly URL
func (r *GormProductRepository) FindBySeUrl(ctx context.Context, storeID uuid.UUID, lang, seUrl string) (*catalog.Product, error) {
	sub := r.db.Model(&catalog.ProductDescription{}).Select("product_id").
		Where("language = ? AND se_url = ?", lang, seUrl)
	var product catalog.Product
	if err := r.scoped(ctx, storeID).Where("id IN (?)", sub).First(&product).Error; err != nil {
		return nil, notFound(err)
	}
	return &product, nil
}

// List returns a page of products matching the criteria and the total count
func (r *GormProductRepository) List(ctx context.Context, criteria catalog.ProductCriteria) ([]catalog.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&catalog.Product{}).Scopes(StoreScope(criteria.StoreID))

	if len(criteria.CategoryIDs) > 0 {
		q = q.Where("id IN (?)", r.db.Table("product_categories").Select("product_id").
			Where("category_id IN ?", criteria.CategoryIDs))
	}
	if criteria.Manufacturer != "" {
		q = q.Where("manufacturer = ?", criteria.Manufacturer)
	}
	if criteria.ProductType != "" {
		q = q.Where("product_type_id IN (?)", r.db.Model(&catalog.ProductType{}).Select("id").
			Where("merchant_store_id = ? AND code = ?", criteria.StoreID, criteria.ProductType))
	}
	if criteria.Sku != "" {
		q = q.Where("LOWER(sku) LIKE ? ESCAPE '\\'", Like(criteria.Sku))
	}
	name := criteria.Name
	if name == "" {
		name = criteria.Search
	}
	if name != "" {
		desc := r.db.Model(&catalog.ProductDescription{}).Select("product_id").Where("LOWER(name) LIKE ? ESCAPE '\\'", Like(name))
		if criteria.Language != "" {
			desc = desc.Where("language = ?", criteria.Language)
		}
		q = q.Where("id IN (?)", desc)
	}
	if criteria.AvailableOnly {
		q = q.Where("available = ?", true)
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []catalog.Product
	err := q.Scopes(OrderBy(criteria.Criteria, ProductSortFields, "sort_order"), Paginate(criteria.Criteria)).
		Preload("Descriptions").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// ListByStore returns every product of a store
func (r *GormProductRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]catalog.Product, error) {
	var products []catalog.Product
	err := r.db.WithContext(ctx).Scopes(StoreScope(storeID)).
		Preload("Descriptions").
		Order("sort_order ASC").
		Find(&products).Error
	return products, err
}

// ExistsBySku checks whether the SKU is taken in the store
func (r *GormProductRepository) ExistsBySku(ctx context.Context, storeID uuid.UUID, sku string) (bool, error) {
	return exists(r.db.WithContext(ctx).Model(&catalog.Product{}).Scopes(StoreScope(storeID)).Where("sku = ?", sku))
}

// Save creates or updates a product, its descriptions, images and category links
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		categories := product.Categories
		err := saveVersioned(tx, product, func(tx *gorm.DB) error {
			return tx.Session(&gorm.Session{FullSaveAssociations: true}).Omit("Categories").Save(product).Error
		})
		if err != nil {
			return err
		}
		keep := make([]uuid.UUID, 0, len(product.Images))
		for _, img := range product.Images {
			keep = append(keep, img.ID)
		}
		stale := tx.Where("product_id = ?", product.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&catalog.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Model(product).Association("Categories").Replace(categories)
	})
}

// Delete removes a product and everything attached to it
func (r *GormProductRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM product_categories WHERE product_id = ?", id).Error; err != nil {
			return err
		}
		images := tx.Model(&catalog.ProductImage{}).Select("id").Where("product_id = ?", id)
		if err := tx.Where("product_image_id IN (?)", images).Delete(&catalog.ProductImageDescription{}).Error; err != nil {
			return err
		}
		for _, model := range []any{&catalog.ProductImage{}, &catalog.ProductDescription{}, &catalog.ProductAvailability{}} {
			if err := tx.Where("product_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		return affected(tx.Scopes(StoreScope(storeID)).Delete(&catalog.Product{}, "id = ?", id))
	})
}

// GormProductTypeRepository implements ProductTypeRepository using GORM
type GormProductTypeRepository struct {
	db *gorm.DB
}

// NewGormProductTypeRepository creates a new GormProductTypeRepository
func NewGormProductTypeRepository(db *gorm.DB) *GormProductTypeRepository {
	return &GormProductTypeRepository{db: db}
}

// FindByID finds a product type by ID within a store
func (r *GormProductTypeRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*catalog.ProductType, error) {
	var pt catalog.ProductType
	err := r.db.WithContext(ctx).Scopes(StoreScope(storeID)).Preload("Descriptions").Where("id = ?", id).First(&pt).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &pt, nil
}

// FindByCode finds a product type by code within a store
func (r *GormProductTypeRepository) FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*catalog.ProductType, error) {
	var pt catalog.ProductType
	err := r.db.WithContext(ctx).Scopes(StoreScope(storeID)).Preload("Descriptions").Where("code = ?", code).First(&pt).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &pt, nil
}

// List returns the product types of a store
func (r *GormProductTypeRepository) List(ctx context.Context, storeID uuid.UUID) ([]catalog.ProductType, error) {
	var types []catalog.ProductType
	err := r.db.WithContext(ctx).Scopes(StoreScope(storeID)).Preload("Descriptions").Order("code ASC").Find(&types).Error
	return types, err
}

// Save creates or updates a product type
func (r *GormProductTypeRepository) Save(ctx context.Context, productType *catalog.ProductType) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(productType).Error
}

// Delete removes a product type
func (r *GormProductTypeRepository) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_type_id = ?", id).Delete(&catalog.ProductTypeDescription{}).Error; err != nil {
			return err
		}
		return affected(tx.Scopes(StoreScope(storeID)).Delete(&catalog.ProductType{}, "id = ?", id))
	})
}
