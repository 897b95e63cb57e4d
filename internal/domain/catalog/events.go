package catalog

import (
	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeCategory = "Category"
	AggregateTypeProduct  = "Product"
)

// Event type constants
const (
	EventTypeCategoryCreated = "CategoryCreated"
	EventTypeCategoryUpdated = "CategoryUpdated"
	EventTypeCategoryDeleted = "CategoryDeleted"
	EventTypeProductSaved    = "ProductSaved"
	EventTypeProductDeleted  = "ProductDeleted"
)

// CategoryEvent is published when a category is created, changed or removed
type CategoryEvent struct {
	shared.BaseDomainEvent
	CategoryID uuid.UUID  `json:"category_id"`
	Code       string     `json:"code"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
}

// NewCategoryEvent creates a category event of the given type
func NewCategoryEvent(eventType string, c *Category) *CategoryEvent {
	return &CategoryEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeCategory, c.ID, c.MerchantStoreID),
		CategoryID:      c.ID,
		Code:            c.Code,
		ParentID:        c.ParentID,
	}
}

// ProductEvent is published when a product is saved or deleted.
// Names carries the product name per language, used by the search index.
type ProductEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID         `json:"product_id"`
	Sku       string            `json:"sku"`
	Names     map[string]string `json:"names"`
}

// NewProductEvent creates a product event of the given type
func NewProductEvent(eventType string, p *Product) *ProductEvent {
	names := make(map[string]string, len(p.Descriptions))
	for _, d := range p.Descriptions {
		names[d.Language] = d.Name
	}
	return &ProductEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, AggregateTypeProduct, p.ID, p.MerchantStoreID),
		ProductID:       p.ID,
		Sku:             p.Sku,
		Names:           names,
	}
}
