package shipping

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ShippingOrigin is the address a store ships from. A store has at most one.
type ShippingOrigin struct {
	shared.StoreAggregateRoot
	Active  bool                `gorm:"not null;default:true"`
	Address valueobject.Address `gorm:"embedded;embeddedPrefix:origin_"`
}

// TableName returns the table name for GORM
func (ShippingOrigin) TableName() string {
	return "shipping_origins"
}

// NewShippingOrigin creates an active origin for a store
func NewShippingOrigin(storeID uuid.UUID, address valueobject.Address) (*ShippingOrigin, error) {
	if err := address.Validate(); err != nil {
		return nil, shared.WrapDomainError("INVALID_ADDRESS", "Shipping origin address is not valid", err)
	}
	return &ShippingOrigin{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Active:             true,
		Address:            address,
	}, nil
}

// Relocate replaces the origin address
func (o *ShippingOrigin) Relocate(address valueobject.Address, active bool) error {
	if err := address.Validate(); err != nil {
		return shared.WrapDomainError("INVALID_ADDRESS", "Shipping origin address is not valid", err)
	}
	o.Address = address
	o.Active = active
	o.Touch()
	o.IncrementVersion()
	return nil
}

// ShippingType limits where a store ships
type ShippingType string

const (
	ShippingTypeNational      ShippingType = "NATIONAL"
	ShippingTypeInternational ShippingType = "INTERNATIONAL"
)

// ShippingConfiguration holds a store's shipping rules
type ShippingConfiguration struct {
	shared.StoreAggregateRoot
	ShippingType        ShippingType    `gorm:"type:varchar(20);not null;default:'NATIONAL'"`
	ShipToCountries     string          `gorm:"type:varchar(255)"` // comma separated ISO codes
	FreeShippingEnabled bool            `gorm:"not null;default:false"`
	FreeShippingAmount  decimal.Decimal `gorm:"type:decimal(19,4);not null;default:0"`
	HandlingFees        decimal.Decimal `gorm:"type:decimal(19,4);not null;default:0"`
	PricePerWeightUnit  decimal.Decimal `gorm:"type:decimal(19,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (ShippingConfiguration) TableName() string {
	return "shipping_configurations"
}

// NewShippingConfiguration creates a national configuration with no fees
func NewShippingConfiguration(storeID uuid.UUID, country string) *ShippingConfiguration {
	return &ShippingConfiguration{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		ShippingType:       ShippingTypeNational,
		ShipToCountries:    strings.ToUpper(country),
		FreeShippingAmount: decimal.Zero,
		HandlingFees:       decimal.Zero,
		PricePerWeightUnit: decimal.Zero,
	}
}

// Countries returns the destination countries
func (c *ShippingConfiguration) Countries() []string {
	if c.ShipToCountries == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(c.ShipToCountries, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ShipsTo reports whether the store ships to country
func (c *ShippingConfiguration) ShipsTo(country string) bool {
	country = strings.ToUpper(country)
	for _, cc := range c.Countries() {
		if cc == country {
			return true
		}
	}
	return false
}

// Validate checks amounts and destinations
func (c *ShippingConfiguration) Validate() error {
	if c.ShippingType != ShippingTypeNational && c.ShippingType != ShippingTypeInternational {
		return shared.NewDomainError("INVALID_SHIPPING_TYPE", "Shipping type must be NATIONAL or INTERNATIONAL")
	}
	if c.HandlingFees.IsNegative() || c.FreeShippingAmount.IsNegative() || c.PricePerWeightUnit.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Shipping amounts cannot be negative")
	}
	if len(c.Countries()) == 0 {
		return shared.NewDomainError("INVALID_COUNTRY", "At least one destination country is required")
	}
	if c.ShippingType == ShippingTypeNational && len(c.Countries()) > 1 {
		return shared.NewDomainError("INVALID_COUNTRY", "National shipping allows a single country")
	}
	return nil
}

// Quote is the computed shipping price of a cart
type Quote struct {
	Country      string          `json:"country"`
	FreeShipping bool            `json:"free_shipping"`
	Handling     decimal.Decimal `json:"handling"`
	Shipping     decimal.Decimal `json:"shipping"`
	Total        decimal.Decimal `json:"total"`
}

// ComputeQuote prices a shipment: handling fees plus weight times the unit price.
// Free shipping applies when enabled and the subtotal reaches the threshold.
func (c *ShippingConfiguration) ComputeQuote(subtotal, weight decimal.Decimal, country string) (*Quote, error) {
	if !c.ShipsTo(country) {
		return nil, shared.NewDomainError("SHIPPING_UNAVAILABLE", "Store does not ship to "+country)
	}
	q := &Quote{Country: strings.ToUpper(country)}
	if c.FreeShippingEnabled && subtotal.GreaterThanOrEqual(c.FreeShippingAmount) {
		q.FreeShipping = true
		q.Handling = decimal.Zero
		q.Shipping = decimal.Zero
		q.Total = decimal.Zero
		return q, nil
	}
	q.Handling = c.HandlingFees
	q.Shipping = weight.Mul(c.PricePerWeightUnit).Round(2)
	q.Total = q.Handling.Add(q.Shipping)
	return q, nil
}

// ShippingOriginRepository persists shipping origins
type ShippingOriginRepository interface {
	FindByStore(ctx context.Context, storeID uuid.UUID) (*ShippingOrigin, error)
	Save(ctx context.Context, origin *ShippingOrigin) error
	Delete(ctx context.Context, storeID uuid.UUID) error
}

// ShippingConfigurationRepository persists shipping configurations
type ShippingConfigurationRepository interface {
	FindByStore(ctx context.Context, storeID uuid.UUID) (*ShippingConfiguration, error)
	Save(ctx context.Context, cfg *ShippingConfiguration) error
}
