package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductTypeService manages the product types of a store
type ProductTypeService struct {
	typeRepo    catalog.ProductTypeRepository
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewProductTypeService creates a new ProductTypeService
func NewProductTypeService(typeRepo catalog.ProductTypeRepository, productRepo catalog.ProductRepository, logger *zap.Logger) *ProductTypeService {
	return &ProductTypeService{
		typeRepo:    typeRepo,
		productRepo: productRepo,
		logger:      logger,
	}
}

// List returns every product type of the store
func (s *ProductTypeService) List(ctx context.Context, storeID uuid.UUID, lang string) ([]ProductTypeResponse, error) {
	types, err := s.typeRepo.List(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]ProductTypeResponse, 0, len(types))
	for i := range types {
		out = append(out, ToProductTypeResponse(&types[i], lang))
	}
	return out, nil
}

// GetByID retrieves a product type
func (s *ProductTypeService) GetByID(ctx context.Context, storeID, id uuid.UUID, lang string) (*ProductTypeResponse, error) {
	t, err := s.typeRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductTypeResponse(t, lang)
	return &resp, nil
}

// Create creates a product type
func (s *ProductTypeService) Create(ctx context.Context, storeID uuid.UUID, lang string, req ProductTypeRequest) (*ProductTypeResponse, error) {
	if _, err := s.typeRepo.FindByCode(ctx, storeID, req.Code); err == nil {
		return nil, shared.WrapDomainError("ALREADY_EXISTS", "Product type with this code already exists", shared.ErrAlreadyExists)
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	t, err := catalog.NewProductType(storeID, req.Code, req.AllowAddToCart)
	if err != nil {
		return nil, err
	}
	if req.Visible != nil {
		t.Visible = *req.Visible
	}
	for _, n := range req.Names {
		if err := t.SetName(n.Language, n.Name); err != nil {
			return nil, err
		}
	}
	if err := s.typeRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToProductTypeResponse(t, lang)
	return &resp, nil
}

// Update changes a product type. The code is immutable.
func (s *ProductTypeService) Update(ctx context.Context, storeID, id uuid.UUID, lang string, req ProductTypeRequest) (*ProductTypeResponse, error) {
	t, err := s.typeRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if req.Code != t.Code {
		return nil, shared.NewDomainError("INVALID_CODE", "Product type code cannot be changed")
	}
	if req.Visible != nil {
		t.Visible = *req.Visible
	}
	t.AllowAddToCart = req.AllowAddToCart
	for _, n := range req.Names {
		if err := t.SetName(n.Language, n.Name); err != nil {
			return nil, err
		}
	}
	t.Touch()
	t.IncrementVersion()
	if err := s.typeRepo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToProductTypeResponse(t, lang)
	return &resp, nil
}

// Delete removes a product type that no product uses
func (s *ProductTypeService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	t, err := s.typeRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return err
	}
	_, total, err := s.productRepo.List(ctx, catalog.ProductCriteria{
		Criteria:    shared.Criteria{MaxCount: 1},
		StoreID:     storeID,
		ProductType: t.Code,
	})
	if err != nil {
		return err
	}
	if total > 0 {
		return shared.WrapDomainError("IN_USE", "Product type is used by products", shared.ErrInvalidState)
	}
	return s.typeRepo.Delete(ctx, storeID, id)
}

// EnsureDefaults creates the GENERAL and DIGITAL types when a store has none
func (s *ProductTypeService) EnsureDefaults(ctx context.Context, storeID uuid.UUID) error {
	defaults := []struct {
		code      string
		addToCart bool
		name      string
	}{
		{catalog.ProductTypeGeneral, true, "General"},
		{catalog.ProductTypeDigital, true, "Digital product"},
	}
	for _, d := range defaults {
		_, err := s.typeRepo.FindByCode(ctx, storeID, d.code)
		if err == nil {
			continue
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return err
		}
		t, err := catalog.NewProductType(storeID, d.code, d.addToCart)
		if err != nil {
			return err
		}
		if err := t.SetName("en", d.name); err != nil {
			return err
		}
		if err := s.typeRepo.Save(ctx, t); err != nil {
			return err
		}
		s.logger.Info("Created default product type", zap.String("store_id", storeID.String()), zap.String("code", d.code))
	}
	return nil
}
