package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an order
type Status string

const (
	StatusOrdered   Status = "ORDERED"
	StatusProcessed Status = "PROCESSED"
	StatusDelivered Status = "DELIVERED"
	StatusCanceled  Status = "CANCELED"
	StatusRefunded  Status = "REFUNDED"
)

// transitions lists the statuses reachable from each status
var transitions = map[Status][]Status{
	StatusOrdered:   {StatusProcessed, StatusCanceled},
	StatusProcessed: {StatusDelivered, StatusCanceled},
	StatusDelivered: {StatusRefunded},
}

// IsValid checks the status value
func (s Status) IsValid() bool {
	switch s {
	case StatusOrdered, StatusProcessed, StatusDelivered, StatusCanceled, StatusRefunded:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// CanTransitionTo reports whether next is reachable from s
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// Order is a customer purchase in a merchant store
type Order struct {
	shared.StoreAggregateRoot
	Number        string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerEmail string          `gorm:"type:varchar(96);not null"`
	Status        Status          `gorm:"type:varchar(20);not null;index"`
	Currency      string          `gorm:"type:varchar(3);not null"`
	SubTotal      decimal.Decimal `gorm:"type:decimal(19,4);not null;default:0"`
	ShippingTotal decimal.Decimal `gorm:"type:decimal(19,4);not null;default:0"`
	TaxTotal      decimal.Decimal `gorm:"type:decimal(19,4);not null;default:0"`
	Total         decimal.Decimal `gorm:"type:decimal(19,4);not null;default:0"`
	DatePurchased time.Time       `gorm:"not null;index"`
	Language      string          `gorm:"type:varchar(5);not null;default:'en'"`

	Billing  valueobject.Address `gorm:"embedded;embeddedPrefix:billing_"`
	Delivery valueobject.Address `gorm:"embedded;embeddedPrefix:delivery_"`

	Products []OrderProduct       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	History  []OrderStatusHistory `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// OrderProduct is a purchased line
type OrderProduct struct {
	shared.BaseEntity
	OrderID   uuid.UUID              `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID              `gorm:"type:uuid;not null"`
	Sku       string                 `gorm:"type:varchar(100);not null"`
	Name      string                 `gorm:"type:varchar(120);not null"`
	Quantity  int                    `gorm:"not null"`
	UnitPrice decimal.Decimal        `gorm:"type:decimal(19,4);not null"`
	Downloads []OrderProductDownload `gorm:"foreignKey:OrderProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (OrderProduct) TableName() string {
	return "order_products"
}

// LineTotal returns quantity times unit price
func (p OrderProduct) LineTotal() decimal.Decimal {
	return p.UnitPrice.Mul(decimal.NewFromInt(int64(p.Quantity)))
}

// OrderStatusHistory records a status change
type OrderStatusHistory struct {
	shared.BaseEntity
	OrderID          uuid.UUID `gorm:"type:uuid;not null;index"`
	Status           Status    `gorm:"type:varchar(20);not null"`
	Comments         string    `gorm:"type:text"`
	CustomerNotified bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (OrderStatusHistory) TableName() string {
	return "order_status_history"
}

// LineInput describes a product line when placing an order
type LineInput struct {
	ProductID uuid.UUID
	Sku       string
	Name      string
	Quantity  int
	UnitPrice decimal.Decimal
}

// NewOrder places an order in ORDERED status
func NewOrder(storeID, customerID uuid.UUID, email, currency string, lines []LineInput) (*Order, error) {
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "An order needs at least one product")
	}
	if len(currency) != 3 {
		return nil, shared.NewDomainError("INVALID_CURRENCY", "Currency must be a 3-letter ISO code")
	}

	o := &Order{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		CustomerID:         customerID,
		CustomerEmail:      strings.ToLower(email),
		Status:             StatusOrdered,
		Currency:           strings.ToUpper(currency),
		DatePurchased:      time.Now(),
		ShippingTotal:      decimal.Zero,
		TaxTotal:           decimal.Zero,
		Language:           "en",
	}
	o.Number = GenerateNumber(o.ID, o.DatePurchased)

	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Quantity for %s must be positive", l.Sku))
		}
		if l.UnitPrice.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Price for %s cannot be negative", l.Sku))
		}
		o.Products = append(o.Products, OrderProduct{
			BaseEntity: shared.NewBaseEntity(),
			OrderID:    o.ID,
			ProductID:  l.ProductID,
			Sku:        l.Sku,
			Name:       l.Name,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
		})
	}
	o.recalculate()
	o.appendHistory(StatusOrdered, "", false)
	return o, nil
}

// GenerateNumber builds a human readable order number from the purchase date and id
func GenerateNumber(id uuid.UUID, at time.Time) string {
	return at.Format("20060102") + "-" + strings.ToUpper(id.String()[:8])
}

// SetCharges sets shipping and tax totals
func (o *Order) SetCharges(shipping, tax decimal.Decimal) error {
	if shipping.IsNegative() || tax.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Charges cannot be negative")
	}
	o.ShippingTotal = shipping
	o.TaxTotal = tax
	o.recalculate()
	return nil
}

func (o *Order) recalculate() {
	sub := decimal.Zero
	for _, p := range o.Products {
		sub = sub.Add(p.LineTotal())
	}
	o.SubTotal = sub
	o.Total = sub.Add(o.ShippingTotal).Add(o.TaxTotal)
}

func (o *Order) appendHistory(status Status, comments string, notified bool) {
	o.History = append(o.History, OrderStatusHistory{
		BaseEntity:       shared.NewBaseEntity(),
		OrderID:          o.ID,
		Status:           status,
		Comments:         comments,
		CustomerNotified: notified,
	})
}

// ChangeStatus moves the order along the workflow and records the change
func (o *Order) ChangeStatus(next Status, comments string, notifyCustomer bool) error {
	if !next.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+string(next))
	}
	if !o.Status.CanTransitionTo(next) {
		return shared.WrapDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot change order status from %s to %s", o.Status, next), shared.ErrInvalidState)
	}
	previous := o.Status
	o.Status = next
	o.appendHistory(next, comments, notifyCustomer)
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewStatusChangedEvent(o, previous, comments, notifyCustomer))
	return nil
}

// ProductByID returns the order line with the given id
func (o *Order) ProductByID(id uuid.UUID) *OrderProduct {
	for i := range o.Products {
		if o.Products[i].ID == id {
			return &o.Products[i]
		}
	}
	return nil
}
