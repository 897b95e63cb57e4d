package catalog

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// RegionAll is the availability region matching every country
const RegionAll = "*"

// ProductAvailability is the stock and ordering rule of a product in a region
type ProductAvailability struct {
	shared.BaseEntity
	ProductID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Region           string    `gorm:"type:varchar(2);not null;default:'*'"`
	Quantity         int       `gorm:"not null;default:0"`
	QuantityOrderMin int       `gorm:"not null;default:1"`
	QuantityOrderMax int       `gorm:"not null;default:0"` // 0 means unlimited
	FreeShipping     bool      `gorm:"not null;default:false"`
	Status           bool      `gorm:"not null;default:true"`
	DateAvailable    *time.Time
}

// TableName returns the table name for GORM
func (ProductAvailability) TableName() string {
	return "product_availabilities"
}

// NewProductAvailability creates an availability record. An empty region means all regions.
func NewProductAvailability(productID uuid.UUID, region string, quantity int) (*ProductAvailability, error) {
	if quantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if region == "" {
		region = RegionAll
	}
	if region != RegionAll && len(region) != 2 {
		return nil, shared.NewDomainError("INVALID_REGION", "Region must be '*' or a 2-letter country code")
	}
	return &ProductAvailability{
		BaseEntity:       shared.NewBaseEntity(),
		ProductID:        productID,
		Region:           region,
		Quantity:         quantity,
		QuantityOrderMin: 1,
		Status:           true,
	}, nil
}

// SetOrderLimits sets the per-order quantity bounds. max 0 disables the upper bound.
func (a *ProductAvailability) SetOrderLimits(min, max int) error {
	if min < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum order quantity must be at least 1")
	}
	if max != 0 && max < min {
		return shared.NewDomainError("INVALID_QUANTITY", "Maximum order quantity cannot be lower than the minimum")
	}
	a.QuantityOrderMin = min
	a.QuantityOrderMax = max
	a.Touch()
	return nil
}

// Adjust changes the stock level by delta. Stock never goes below zero.
func (a *ProductAvailability) Adjust(delta int) error {
	if a.Quantity+delta < 0 {
		return shared.WrapDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Cannot remove %d units, only %d in stock", -delta, a.Quantity), shared.ErrInsufficientStock)
	}
	a.Quantity += delta
	a.Touch()
	return nil
}

// CanOrder validates an order quantity against the availability rules
func (a *ProductAvailability) CanOrder(quantity int, at time.Time) error {
	if !a.Status {
		return shared.NewDomainError("NOT_AVAILABLE", "Product is not available")
	}
	if a.DateAvailable != nil && a.DateAvailable.After(at) {
		return shared.NewDomainError("NOT_AVAILABLE", "Product is not available yet")
	}
	if quantity < a.QuantityOrderMin {
		return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Minimum order quantity is %d", a.QuantityOrderMin))
	}
	if a.QuantityOrderMax > 0 && quantity > a.QuantityOrderMax {
		return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Maximum order quantity is %d", a.QuantityOrderMax))
	}
	if quantity > a.Quantity {
		return shared.ErrInsufficientStock
	}
	return nil
}

// Matches reports whether the record applies to the given country
func (a *ProductAvailability) Matches(country string) bool {
	return a.Region == RegionAll || a.Region == country
}
