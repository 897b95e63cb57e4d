package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo  catalog.ProductRepository
	categoryRepo catalog.CategoryRepository
	typeRepo     catalog.ProductTypeRepository
	events       shared.EventPublisher
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	typeRepo catalog.ProductTypeRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		typeRepo:     typeRepo,
		events:       events,
		logger:       logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, storeID uuid.UUID, lang string, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySku(ctx, storeID, req.Sku)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.WrapDomainError("ALREADY_EXISTS", "Product with this SKU already exists", shared.ErrAlreadyExists)
	}

	product, err := catalog.NewProduct(storeID, req.Sku, req.Price)
	if err != nil {
		return nil, err
	}
	if req.Available != nil {
		product.Available = *req.Available
	}
	product.DateAvailable = req.DateAvailable
	product.Manufacturer = req.Manufacturer
	product.SortOrder = req.SortOrder
	if err := product.SetDimensions(req.Weight, req.Length, req.Width, req.Height); err != nil {
		return nil, err
	}
	product.MarkVirtual(req.Virtual)

	if err := s.applyType(ctx, product, req.ProductType); err != nil {
		return nil, err
	}
	if err := s.applyCategories(ctx, product, req.CategoryIDs); err != nil {
		return nil, err
	}
	if err := applyProductDescriptions(product, req.Descriptions); err != nil {
		return nil, err
	}

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product, lang)
	return &resp, nil
}

// Update changes the product fields present in the request
func (s *ProductService) Update(ctx context.Context, storeID, id uuid.UUID, lang string, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}

	if req.Price != nil {
		if err := product.UpdatePrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Available != nil {
		product.Available = *req.Available
	}
	if req.DateAvailable != nil {
		product.DateAvailable = req.DateAvailable
	}
	if req.Manufacturer != nil {
		product.Manufacturer = *req.Manufacturer
	}
	if req.SortOrder != nil {
		product.SortOrder = *req.SortOrder
	}
	if req.Weight != nil || req.Length != nil || req.Width != nil || req.Height != nil {
		w, l, wd, h := product.Weight, product.Length, product.Width, product.Height
		if req.Weight != nil {
			w = *req.Weight
		}
		if req.Length != nil {
			l = *req.Length
		}
		if req.Width != nil {
			wd = *req.Width
		}
		if req.Height != nil {
			h = *req.Height
		}
		if err := product.SetDimensions(w, l, wd, h); err != nil {
			return nil, err
		}
	}
	if req.Virtual != nil {
		product.MarkVirtual(*req.Virtual)
	}
	if req.ProductType != nil {
		if err := s.applyType(ctx, product, *req.ProductType); err != nil {
			return nil, err
		}
	}
	if req.CategoryIDs != nil {
		if err := s.applyCategories(ctx, product, *req.CategoryIDs); err != nil {
			return nil, err
		}
	}
	if err := applyProductDescriptions(product, req.Descriptions); err != nil {
		return nil, err
	}
	product.IncrementVersion()

	if err := s.save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product, lang)
	return &resp, nil
}

// GetByID retrieves a product
func (s *ProductService) GetByID(ctx context.Context, storeID, id uuid.UUID, lang string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product, lang)
	return &resp, nil
}

// GetBySeUrl retrieves a product by its friendly url in lang
func (s *ProductService) GetBySeUrl(ctx context.Context, storeID uuid.UUID, lang, seUrl string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySeUrl(ctx, storeID, lang, seUrl)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product, lang)
	return &resp, nil
}

// List returns a page of products matching the criteria
func (s *ProductService) List(ctx context.Context, criteria catalog.ProductCriteria) (shared.Paginated[ProductResponse], error) {
	products, total, err := s.productRepo.List(ctx, criteria)
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, ToProductResponse(&products[i], criteria.Language))
	}
	return shared.NewPaginated(items, total, criteria.Page(), criteria.Limit()), nil
}

// SkuExists reports whether a SKU is taken in the store
func (s *ProductService) SkuExists(ctx context.Context, storeID uuid.UUID, sku string) (bool, error) {
	return s.productRepo.ExistsBySku(ctx, storeID, sku)
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, storeID, id); err != nil {
		return err
	}
	if err := s.events.Publish(ctx, catalog.NewProductEvent(catalog.EventTypeProductDeleted, product)); err != nil {
		s.logger.Warn("Failed to publish product event", zap.Error(err))
	}
	return nil
}

func (s *ProductService) save(ctx context.Context, product *catalog.Product) error {
	if err := s.productRepo.Save(ctx, product); err != nil {
		return err
	}
	product.MarkSaved()
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish product event", zap.Error(err))
	}
	return nil
}

func (s *ProductService) applyType(ctx context.Context, product *catalog.Product, code string) error {
	if code == "" {
		product.ProductTypeID = nil
		return nil
	}
	t, err := s.typeRepo.FindByCode(ctx, product.MerchantStoreID, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("INVALID_PRODUCT_TYPE", "Product type not found: "+code)
		}
		return err
	}
	product.ProductTypeID = &t.ID
	return nil
}

func (s *ProductService) applyCategories(ctx context.Context, product *catalog.Product, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return product.AssignCategories(nil)
	}
	categories, err := s.categoryRepo.FindByIDs(ctx, product.MerchantStoreID, ids)
	if err != nil {
		return err
	}
	if len(categories) != len(uniqueIDs(ids)) {
		return shared.NewDomainError("INVALID_CATEGORY", "One or more categories were not found")
	}
	return product.AssignCategories(categories)
}

func applyProductDescriptions(p *catalog.Product, in []ProductDescriptionInput) error {
	for _, d := range in {
		if err := p.SetDescription(d.Language, d.Name, d.Description, d.SeUrl); err != nil {
			return err
		}
		if desc := p.DescriptionFor(d.Language); desc != nil {
			desc.MetaTitle = d.MetaTitle
			desc.MetaDescription = d.MetaDescription
		}
	}
	return nil
}

func uniqueIDs(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
