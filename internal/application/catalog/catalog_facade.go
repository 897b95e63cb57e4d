package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// CatalogFacade is the storefront read side of the catalog plus image upload
type CatalogFacade struct {
	categories *CategoryService
	products   *ProductService
	images     *ProductImageService
}

// NewCatalogFacade creates a new CatalogFacade
func NewCatalogFacade(categories *CategoryService, products *ProductService, images *ProductImageService) *CatalogFacade {
	return &CatalogFacade{
		categories: categories,
		products:   products,
		images:     images,
	}
}

// ListCategories returns the visible category tree of a store
func (f *CatalogFacade) ListCategories(ctx context.Context, storeID uuid.UUID, lang string) ([]CategoryResponse, error) {
	return f.categories.Tree(ctx, storeID, lang, false)
}

// GetCategory returns a visible category with its direct children
func (f *CatalogFacade) GetCategory(ctx context.Context, storeID, id uuid.UUID, lang string) (*CategoryResponse, error) {
	category, err := f.categories.GetByID(ctx, storeID, id, lang)
	if err != nil {
		return nil, err
	}
	if !category.Visible {
		return nil, shared.ErrNotFound
	}
	children, err := f.categories.Children(ctx, storeID, &id, lang)
	if err != nil {
		return nil, err
	}
	for _, c := range children {
		if c.Visible {
			category.Children = append(category.Children, c)
		}
	}
	return category, nil
}

// ListProducts returns a page of available products
func (f *CatalogFacade) ListProducts(ctx context.Context, criteria catalog.ProductCriteria) (shared.Paginated[ProductResponse], error) {
	criteria.AvailableOnly = true
	return f.products.List(ctx, criteria)
}

// GetProduct returns an available product
func (f *CatalogFacade) GetProduct(ctx context.Context, storeID, id uuid.UUID, lang string) (*ProductResponse, error) {
	product, err := f.products.GetByID(ctx, storeID, id, lang)
	if err != nil {
		return nil, err
	}
	if !product.Available {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

// GetProductBySeUrl returns an available product by its friendly url in lang
func (f *CatalogFacade) GetProductBySeUrl(ctx context.Context, storeID uuid.UUID, lang, seUrl string) (*ProductResponse, error) {
	product, err := f.products.GetBySeUrl(ctx, storeID, lang, seUrl)
	if err != nil {
		return nil, err
	}
	if !product.Available {
		return nil, shared.ErrNotFound
	}
	return product, nil
}

// UploadProductImage stores a product image in both sizes
func (f *CatalogFacade) UploadProductImage(ctx context.Context, storeID uuid.UUID, storeCode string, productID uuid.UUID, lang string, req UploadImageRequest) (*ImageResponse, error) {
	return f.images.Upload(ctx, storeID, storeCode, productID, lang, req)
}
