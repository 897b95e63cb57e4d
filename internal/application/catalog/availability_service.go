package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductAvailabilityService manages stock and ordering rules per region
type ProductAvailabilityService struct {
	availabilityRepo catalog.ProductAvailabilityRepository
	productRepo      catalog.ProductRepository
	logger           *zap.Logger
}

// NewProductAvailabilityService creates a new ProductAvailabilityService
func NewProductAvailabilityService(
	availabilityRepo catalog.ProductAvailabilityRepository,
	productRepo catalog.ProductRepository,
	logger *zap.Logger,
) *ProductAvailabilityService {
	return &ProductAvailabilityService{
		availabilityRepo: availabilityRepo,
		productRepo:      productRepo,
		logger:           logger,
	}
}

// GetByProduct lists the availabilities of a product
func (s *ProductAvailabilityService) GetByProduct(ctx context.Context, storeID, productID uuid.UUID) ([]AvailabilityResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, storeID, productID); err != nil {
		return nil, err
	}
	list, err := s.availabilityRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toAvailabilityResponses(list), nil
}

// GetByStoreAndRegion lists the availabilities of the store's products in a region
func (s *ProductAvailabilityService) GetByStoreAndRegion(ctx context.Context, storeID uuid.UUID, region string) ([]AvailabilityResponse, error) {
	if region == "" {
		region = catalog.RegionAll
	}
	list, err := s.availabilityRepo.ListByStoreAndRegion(ctx, storeID, region)
	if err != nil {
		return nil, err
	}
	return toAvailabilityResponses(list), nil
}

// Save creates the availability of a product for the request region or replaces the existing one
func (s *ProductAvailabilityService) Save(ctx context.Context, storeID, productID uuid.UUID, req AvailabilityRequest) (*AvailabilityResponse, error) {
	if _, err := s.productRepo.FindByID(ctx, storeID, productID); err != nil {
		return nil, err
	}
	region := req.Region
	if region == "" {
		region = catalog.RegionAll
	}

	a, err := s.availabilityRepo.FindByProductAndRegion(ctx, productID, region)
	switch {
	case err == nil && a.Region == region:
		if req.Quantity < 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
		}
		a.Quantity = req.Quantity
	case err == nil, errors.Is(err, shared.ErrNotFound):
		a, err = catalog.NewProductAvailability(productID, region, req.Quantity)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	min := req.QuantityOrderMin
	if min == 0 {
		min = 1
	}
	if err := a.SetOrderLimits(min, req.QuantityOrderMax); err != nil {
		return nil, err
	}
	a.FreeShipping = req.FreeShipping
	if req.Status != nil {
		a.Status = *req.Status
	}
	a.DateAvailable = req.DateAvailable
	a.Touch()

	if err := s.availabilityRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAvailabilityResponse(a)
	return &resp, nil
}

// Adjust adds delta units to an availability. Negative deltas cannot exceed the stock.
func (s *ProductAvailabilityService) Adjust(ctx context.Context, storeID, id uuid.UUID, delta int) (*AvailabilityResponse, error) {
	a, err := s.findOwned(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := a.Adjust(delta); err != nil {
		return nil, err
	}
	if err := s.availabilityRepo.AdjustQuantity(ctx, id, delta); err != nil {
		return nil, err
	}
	if a, err = s.availabilityRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Debug("Stock adjusted",
		zap.String("availability_id", id.String()),
		zap.Int("delta", delta),
		zap.Int("quantity", a.Quantity))
	resp := ToAvailabilityResponse(a)
	return &resp, nil
}

// Delete removes an availability
func (s *ProductAvailabilityService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	if _, err := s.findOwned(ctx, storeID, id); err != nil {
		return err
	}
	return s.availabilityRepo.Delete(ctx, id)
}

// findOwned loads an availability and checks its product belongs to the store
func (s *ProductAvailabilityService) findOwned(ctx context.Context, storeID, id uuid.UUID) (*catalog.ProductAvailability, error) {
	a, err := s.availabilityRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, storeID, a.ProductID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func toAvailabilityResponses(list []catalog.ProductAvailability) []AvailabilityResponse {
	out := make([]AvailabilityResponse, 0, len(list))
	for i := range list {
		out = append(out, ToAvailabilityResponse(&list[i]))
	}
	return out
}
