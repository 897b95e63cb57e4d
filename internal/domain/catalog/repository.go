package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// ProductCriteria filters product listings
type ProductCriteria struct {
	shared.Criteria
	StoreID       uuid.UUID   `criteria:"-"`
	CategoryIDs   []uuid.UUID `criteria:"CategoryIDs"`
	Manufacturer  string      `criteria:"Manufacturer"`
	ProductType   string      `criteria:"ProductType"`
	Sku           string      `criteria:"Sku"`
	Name          string      `criteria:"Name"`
	AvailableOnly bool        `criteria:"AvailableOnly"`
}

// CategoryRepository persists categories
type CategoryRepository interface {
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Category, error)
	FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*Category, error)
	FindBySeUrl(ctx context.Context, storeID uuid.UUID, lang, seUrl string) (*Category, error)
	FindByIDs(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) ([]Category, error)
	// ListByStore returns all categories of the store ordered by depth and sort order
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]Category, error)
	// ListByStoreAndParent returns the direct children of parent; a nil parent returns the roots
	ListByStoreAndParent(ctx context.Context, storeID uuid.UUID, parent *Category) ([]Category, error)
	// ListByLineage returns every descendant of the category with the given path
	ListByLineage(ctx context.Context, storeID uuid.UUID, path string) ([]Category, error)
	CountProductsByCategories(ctx context.Context, storeID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]int64, error)
	HasChildren(ctx context.Context, id uuid.UUID) (bool, error)
	ExistsByCode(ctx context.Context, storeID uuid.UUID, code string) (bool, error)
	Save(ctx context.Context, category *Category) error
	SaveAll(ctx context.Context, categories []Category) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}

// ProductRepository persists products
type ProductRepository interface {
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Product, error)
	FindBySku(ctx context.Context, storeID uuid.UUID, sku string) (*Product, error)
	FindBySeUrl(ctx context.Context, storeID uuid.UUID, lang, seUrl string) (*Product, error)
	List(ctx context.Context, criteria ProductCriteria) ([]Product, int64, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]Product, error)
	ExistsBySku(ctx context.Context, storeID uuid.UUID, sku string) (bool, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}

// ProductTypeRepository persists product types
type ProductTypeRepository interface {
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*ProductType, error)
	FindByCode(ctx context.Context, storeID uuid.UUID, code string) (*ProductType, error)
	List(ctx context.Context, storeID uuid.UUID) ([]ProductType, error)
	Save(ctx context.Context, productType *ProductType) error
	Delete(ctx context.Context, storeID, id uuid.UUID) error
}

// ProductAvailabilityRepository persists stock records
type ProductAvailabilityRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductAvailability, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductAvailability, error)
	FindByProductAndRegion(ctx context.Context, productID uuid.UUID, region string) (*ProductAvailability, error)
	ListByStoreAndRegion(ctx context.Context, storeID uuid.UUID, region string) ([]ProductAvailability, error)
	Save(ctx context.Context, availability *ProductAvailability) error
	// AdjustQuantity adds delta to the stored quantity in a single conditional
	// write and returns ErrInsufficientStock when the stock would go negative.
	AdjustQuantity(ctx context.Context, id uuid.UUID, delta int) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductImageRepository persists product images
type ProductImageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductImage, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductImage, error)
	Save(ctx context.Context, image *ProductImage) error
	SaveAll(ctx context.Context, images []ProductImage) error
	// Delete removes an image and saves the remaining images of its product
	// in the same transaction
	Delete(ctx context.Context, id uuid.UUID, remaining []ProductImage) error
}

// ProductVariantImageRepository reads variant images
type ProductVariantImageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductVariantImage, error)
	// FindByProduct returns the images of every variant of a product in a store
	FindByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]ProductVariantImage, error)
	Save(ctx context.Context, image *ProductVariantImage) error
	Delete(ctx context.Context, id uuid.UUID) error
}
