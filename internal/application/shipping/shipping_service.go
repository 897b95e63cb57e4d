package shipping

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/domain/shared/valueobject"
	"github.com/salesmanager/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OriginRequest represents the shipping origin of a store
type OriginRequest struct {
	Active  bool                `json:"active"`
	Address valueobject.Address `json:"address" binding:"required"`
}

// OriginResponse represents a shipping origin in API responses
type OriginResponse struct {
	ID      uuid.UUID           `json:"id"`
	Active  bool                `json:"active"`
	Address valueobject.Address `json:"address"`
}

// ConfigurationRequest represents a store's shipping rules
type ConfigurationRequest struct {
	ShippingType        string          `json:"shipping_type" binding:"required,enumci=NATIONAL INTERNATIONAL"`
	ShipToCountries     []string        `json:"ship_to_countries" binding:"required,min=1,dive,len=2"`
	FreeShippingEnabled bool            `json:"free_shipping_enabled"`
	FreeShippingAmount  decimal.Decimal `json:"free_shipping_amount"`
	HandlingFees        decimal.Decimal `json:"handling_fees"`
	PricePerWeightUnit  decimal.Decimal `json:"price_per_weight_unit"`
}

// ConfigurationResponse represents a store's shipping rules in API responses
type ConfigurationResponse struct {
	ShippingType        string          `json:"shipping_type"`
	ShipToCountries     []string        `json:"ship_to_countries"`
	FreeShippingEnabled bool            `json:"free_shipping_enabled"`
	FreeShippingAmount  decimal.Decimal `json:"free_shipping_amount"`
	HandlingFees        decimal.Decimal `json:"handling_fees"`
	PricePerWeightUnit  decimal.Decimal `json:"price_per_weight_unit"`
}

// QuoteRequest asks for the shipping price of a cart
type QuoteRequest struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Weight   decimal.Decimal `json:"weight"`
	Country  string          `json:"country" binding:"required,len=2"`
}

func toConfigurationResponse(c *shipping.ShippingConfiguration) ConfigurationResponse {
	countries := c.Countries()
	if countries == nil {
		countries = []string{}
	}
	return ConfigurationResponse{
		ShippingType:        string(c.ShippingType),
		ShipToCountries:     countries,
		FreeShippingEnabled: c.FreeShippingEnabled,
		FreeShippingAmount:  c.FreeShippingAmount,
		HandlingFees:        c.HandlingFees,
		PricePerWeightUnit:  c.PricePerWeightUnit,
	}
}

// ShippingService manages shipping origins, configuration and quotes
type ShippingService struct {
	originRepo shipping.ShippingOriginRepository
	configRepo shipping.ShippingConfigurationRepository
	logger     *zap.Logger
}

// NewShippingService creates a new shipping service
func NewShippingService(originRepo shipping.ShippingOriginRepository, configRepo shipping.ShippingConfigurationRepository, logger *zap.Logger) *ShippingService {
	return &ShippingService{originRepo: originRepo, configRepo: configRepo, logger: logger}
}

// GetOrigin returns the store's shipping origin
func (s *ShippingService) GetOrigin(ctx context.Context, storeID uuid.UUID) (*OriginResponse, error) {
	o, err := s.originRepo.FindByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	return &OriginResponse{ID: o.ID, Active: o.Active, Address: o.Address}, nil
}

// SaveOrigin creates or replaces the store's shipping origin
func (s *ShippingService) SaveOrigin(ctx context.Context, storeID uuid.UUID, req OriginRequest) (*OriginResponse, error) {
	addr := req.Address
	addr.Country = strings.ToUpper(addr.Country)

	o, err := s.originRepo.FindByStore(ctx, storeID)
	switch {
	case err == nil:
		if err := o.Relocate(addr, req.Active); err != nil {
			return nil, err
		}
	case errors.Is(err, shared.ErrNotFound):
		o, err = shipping.NewShippingOrigin(storeID, addr)
		if err != nil {
			return nil, err
		}
		o.Active = req.Active
	default:
		return nil, err
	}

	if err := s.originRepo.Save(ctx, o); err != nil {
		return nil, err
	}
	return &OriginResponse{ID: o.ID, Active: o.Active, Address: o.Address}, nil
}

// DeleteOrigin removes the store's shipping origin
func (s *ShippingService) DeleteOrigin(ctx context.Context, storeID uuid.UUID) error {
	return s.originRepo.Delete(ctx, storeID)
}

// GetConfiguration returns the store's shipping rules. A store without
// rules ships nationally to its own country at no cost.
func (s *ShippingService) GetConfiguration(ctx context.Context, store *merchant.MerchantStore) (*ConfigurationResponse, error) {
	c, err := s.configuration(ctx, store)
	if err != nil {
		return nil, err
	}
	resp := toConfigurationResponse(c)
	return &resp, nil
}

func (s *ShippingService) configuration(ctx context.Context, store *merchant.MerchantStore) (*shipping.ShippingConfiguration, error) {
	c, err := s.configRepo.FindByStore(ctx, store.ID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return shipping.NewShippingConfiguration(store.ID, store.Address.Country), nil
}

// SaveConfiguration replaces the store's shipping rules
func (s *ShippingService) SaveConfiguration(ctx context.Context, store *merchant.MerchantStore, req ConfigurationRequest) (*ConfigurationResponse, error) {
	c, err := s.configuration(ctx, store)
	if err != nil {
		return nil, err
	}
	countries := make([]string, 0, len(req.ShipToCountries))
	for _, cc := range req.ShipToCountries {
		countries = append(countries, strings.ToUpper(strings.TrimSpace(cc)))
	}
	c.ShippingType = shipping.ShippingType(strings.ToUpper(req.ShippingType))
	c.ShipToCountries = strings.Join(countries, ",")
	c.FreeShippingEnabled = req.FreeShippingEnabled
	c.FreeShippingAmount = req.FreeShippingAmount
	c.HandlingFees = req.HandlingFees
	c.PricePerWeightUnit = req.PricePerWeightUnit
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.Touch()
	c.IncrementVersion()

	if err := s.configRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Shipping configuration saved",
		zap.String("store", store.Code),
		zap.String("type", string(c.ShippingType)))
	resp := toConfigurationResponse(c)
	return &resp, nil
}

// ComputeShippingQuote prices a cart shipment to country
func (s *ShippingService) ComputeShippingQuote(ctx context.Context, store *merchant.MerchantStore, req QuoteRequest) (*shipping.Quote, error) {
	if req.Subtotal.IsNegative() || req.Weight.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Subtotal and weight cannot be negative")
	}
	c, err := s.configuration(ctx, store)
	if err != nil {
		return nil, err
	}
	return c.ComputeQuote(req.Subtotal, req.Weight, req.Country)
}
