package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductImageRepository implements ProductImageRepository using GORM
type GormProductImageRepository struct {
	db *gorm.DB
}

// NewGormProductImageRepository creates a new GormProductImageRepository
func NewGormProductImageRepository(db *gorm.DB) *GormProductImageRepository {
	return &GormProductImageRepository{db: db}
}

// FindByID finds a product image by ID
func (r *GormProductImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductImage, error) {
	var img catalog.ProductImage
	if err := r.db.WithContext(ctx).Preload("Descriptions").Where("id = ?", id).First(&img).Error; err != nil {
		return nil, notFound(err)
	}
	return &img, nil
}

// FindByProduct returns the images of a product by sort order
func (r *GormProductImageRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductImage, error) {
	var images []catalog.ProductImage
	err := r.db.WithContext(ctx).Preload("Descriptions").
		Where("product_id = ?", productID).
		Order("sort_order ASC").
		Find(&images).Error
	return images, err
}

// Save creates or updates an image with its alt texts
func (r *GormProductImageRepository) Save(ctx context.Context, image *catalog.ProductImage) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(image).Error
}

// SaveAll saves several images of a product in one transaction
func (r *GormProductImageRepository) SaveAll(ctx context.Context, images []catalog.ProductImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveImages(tx, images)
	})
}

// Delete removes an image with its alt texts and rewrites the remaining
// images, whose order and default flag may have changed
func (r *GormProductImageRepository) Delete(ctx context.Context, id uuid.UUID, remaining []catalog.ProductImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_image_id = ?", id).Delete(&catalog.ProductImageDescription{}).Error; err != nil {
			return err
		}
		if err := affected(tx.Delete(&catalog.ProductImage{}, "id = ?", id)); err != nil {
			return err
		}
		return saveImages(tx, remaining)
	})
}

func saveImages(tx *gorm.DB, images []catalog.ProductImage) error {
	for i := range images {
		if err := tx.Save(&images[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// GormProductVariantImageRepository implements ProductVariantImageRepository using GORM
type GormProductVariantImageRepository struct {
	db *gorm.DB
}

// NewGormProductVariantImageRepository creates a new GormProductVariantImageRepository
func NewGormProductVariantImageRepository(db *gorm.DB) *GormProductVariantImageRepository {
	return &GormProductVariantImageRepository{db: db}
}

// FindByID finds a variant image by ID
func (r *GormProductVariantImageRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductVariantImage, error) {
	var img catalog.ProductVariantImage
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&img).Error; err != nil {
		return nil, notFound(err)
	}
	return &img, nil
}

// FindByProduct returns the images of every variant of a store product
func (r *GormProductVariantImageRepository) FindByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]catalog.ProductVariantImage, error) {
	var images []catalog.ProductVariantImage
	err := r.db.WithContext(ctx).
		Joins("JOIN product_variants v ON v.id = product_variant_images.product_variant_id").
		Joins("JOIN products p ON p.id = v.product_id").
		Where("p.id = ? AND p.merchant_store_id = ?", productID, storeID).
		Order("v.sort_order ASC").
		Find(&images).Error
	return images, err
}

// Save creates or updates a variant image
func (r *GormProductVariantImageRepository) Save(ctx context.Context, image *catalog.ProductVariantImage) error {
	return r.db.WithContext(ctx).Save(image).Error
}

// Delete removes a variant image
func (r *GormProductVariantImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&catalog.ProductVariantImage{}, "id = ?", id))
}

// GormProductAvailabilityRepository implements ProductAvailabilityRepository using GORM
type GormProductAvailabilityRepository struct {
	db *gorm.DB
}

// NewGormProductAvailabilityRepository creates a new GormProductAvailabilityRepository
func NewGormProductAvailabilityRepository(db *gorm.DB) *GormProductAvailabilityRepository {
	return &GormProductAvailabilityRepository{db: db}
}

// FindByID finds an availability record by ID
func (r *GormProductAvailabilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductAvailability, error) {
	var a catalog.ProductAvailability
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

// FindByProduct returns every availability record of a product
func (r *GormProductAvailabilityRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductAvailability, error) {
	var list []catalog.ProductAvailability
	err := r.db.WithContext(ctx).Where("product_id = ?", productID).Order("region ASC").Find(&list).Error
	return list, err
}

// FindByProductAndRegion returns the record for a region, falling back to the all-regions one
func (r *GormProductAvailabilityRepository) FindByProductAndRegion(ctx context.Context, productID uuid.UUID, region string) (*catalog.ProductAvailability, error) {
	var list []catalog.ProductAvailability
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND region IN ?", productID, []string{region, catalog.RegionAll}).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	var fallback *catalog.ProductAvailability
	for i := range list {
		if list[i].Region == region {
			return &list[i], nil
		}
		fallback = &list[i]
	}
	if fallback == nil {
		return nil, notFound(gorm.ErrRecordNotFound)
	}
	return fallback, nil
}

// ListByStoreAndRegion returns the availability records of a store's products for a region
func (r *GormProductAvailabilityRepository) ListByStoreAndRegion(ctx context.Context, storeID uuid.UUID, region string) ([]catalog.ProductAvailability, error) {
	var list []catalog.ProductAvailability
	err := r.db.WithContext(ctx).
		Joins("JOIN products p ON p.id = product_availabilities.product_id").
		Where("p.merchant_store_id = ? AND product_availabilities.region IN ?", storeID, []string{region, catalog.RegionAll}).
		Find(&list).Error
	return list, err
}

// Save creates or updates an availability record
func (r *GormProductAvailabilityRepository) Save(ctx context.Context, availability *catalog.ProductAvailability) error {
	return r.db.WithContext(ctx).Save(availability).Error
}

// AdjustQuantity changes the stock with one UPDATE guarded on the stored
// quantity, so concurrent orders cannot take the same units.
func (r *GormProductAvailabilityRepository) AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).Model(&catalog.ProductAvailability{}).
		Where("id = ? AND quantity + ? >= 0", id, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return shared.WrapDomainError("INSUFFICIENT_STOCK",
		fmt.Sprintf("Cannot remove %d units, not enough in stock", -delta), shared.ErrInsufficientStock)
}

// Delete removes an availability record
func (r *GormProductAvailabilityRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Delete(&catalog.ProductAvailability{}, "id = ?", id))
}
