package customer

import (
	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// AggregateTypeCustomer is the aggregate type of customer events
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCustomerRegistered     = "CustomerRegistered"
	EventTypePasswordResetRequested = "CustomerPasswordResetRequested"
)

// CustomerEvent is published on registration and password reset requests
type CustomerEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	Language   string    `json:"language"`
	ResetToken string    `json:"-"`
}

// NewCustomerEvent creates a customer event of the given type
func NewCustomerEvent(eventType string, c *Customer) *CustomerEvent {
	return &CustomerEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCustomer, c.ID, c.MerchantStoreID),
		CustomerID:      c.ID,
		Email:           c.Email,
		FirstName:       c.FirstName,
		Language:        c.DefaultLanguage,
		ResetToken:      c.ResetToken,
	}
}
