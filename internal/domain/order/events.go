package order

import (
	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// AggregateTypeOrder is the aggregate type of order events
const AggregateTypeOrder = "Order"

// EventTypeOrderStatusChanged is published when an order changes status
const EventTypeOrderStatusChanged = "OrderStatusChanged"

// StatusChangedEvent carries the data needed to notify the customer
type StatusChangedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID `json:"order_id"`
	Number         string    `json:"number"`
	CustomerEmail  string    `json:"customer_email"`
	Language       string    `json:"language"`
	PreviousStatus Status    `json:"previous_status"`
	NewStatus      Status    `json:"new_status"`
	Comments       string    `json:"comments,omitempty"`
	NotifyCustomer bool      `json:"notify_customer"`
}

// NewStatusChangedEvent creates a status change event
func NewStatusChangedEvent(o *Order, previous Status, comments string, notify bool) *StatusChangedEvent {
	return &StatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderStatusChanged, AggregateTypeOrder, o.ID, o.MerchantStoreID),
		OrderID:         o.ID,
		Number:          o.Number,
		CustomerEmail:   o.CustomerEmail,
		Language:        o.Language,
		PreviousStatus:  previous,
		NewStatus:       o.Status,
		Comments:        comments,
		NotifyCustomer:  notify,
	}
}
