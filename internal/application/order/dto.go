package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/order"
	"github.com/salesmanager/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LineRequest is one product of an order being placed
type LineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderRequest represents a checkout. Missing addresses default to the customer's.
type PlaceOrderRequest struct {
	Lines    []LineRequest        `json:"products" binding:"required,min=1,dive"`
	Currency string               `json:"currency" binding:"omitempty,len=3"`
	Billing  *valueobject.Address `json:"billing"`
	Delivery *valueobject.Address `json:"delivery"`
	Tax      decimal.Decimal      `json:"tax"`
}

// ChangeStatusRequest moves an order along the workflow
type ChangeStatusRequest struct {
	Status         string `json:"status" binding:"required,enumci=ORDERED PROCESSED DELIVERED CANCELED REFUNDED"`
	Comments       string `json:"comments" binding:"max=1000"`
	NotifyCustomer bool   `json:"notify_customer"`
}

// AddDownloadRequest grants a download for a line of an order
type AddDownloadRequest struct {
	OrderProductID uuid.UUID `json:"order_product_id" binding:"required"`
	FileName       string    `json:"file_name" binding:"required,max=255"`
	MaxDays        int       `json:"max_days" binding:"omitempty,min=1"`
	MaxCount       int       `json:"max_count" binding:"omitempty,min=0"`
}

// OrderProductResponse represents an order line in API responses
type OrderProductResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProductID uuid.UUID       `json:"product_id"`
	Sku       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"price"`
	Total     decimal.Decimal `json:"total"`
}

// StatusHistoryResponse represents one workflow step
type StatusHistoryResponse struct {
	Status           string    `json:"status"`
	Comments         string    `json:"comments,omitempty"`
	CustomerNotified bool      `json:"customer_notified"`
	Date             time.Time `json:"date"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID               `json:"id"`
	Number        string                  `json:"number"`
	CustomerID    uuid.UUID               `json:"customer_id"`
	CustomerEmail string                  `json:"customer_email"`
	Status        string                  `json:"status"`
	Currency      string                  `json:"currency"`
	SubTotal      decimal.Decimal         `json:"sub_total"`
	Shipping      decimal.Decimal         `json:"shipping"`
	Tax           decimal.Decimal         `json:"tax"`
	Total         decimal.Decimal         `json:"total"`
	DatePurchased time.Time               `json:"date_purchased"`
	Billing       valueobject.Address     `json:"billing"`
	Delivery      valueobject.Address     `json:"delivery"`
	Products      []OrderProductResponse  `json:"products"`
	History       []StatusHistoryResponse `json:"history,omitempty"`
}

// ToOrderResponse converts an order to its response form
func ToOrderResponse(o *order.Order) OrderResponse {
	products := make([]OrderProductResponse, 0, len(o.Products))
	for _, p := range o.Products {
		products = append(products, OrderProductResponse{
			ID:        p.ID,
			ProductID: p.ProductID,
			Sku:       p.Sku,
			Name:      p.Name,
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
			Total:     p.LineTotal(),
		})
	}
	var history []StatusHistoryResponse
	for _, h := range o.History {
		history = append(history, StatusHistoryResponse{
			Status:           string(h.Status),
			Comments:         h.Comments,
			CustomerNotified: h.CustomerNotified,
			Date:             h.CreatedAt,
		})
	}
	return OrderResponse{
		ID:            o.ID,
		Number:        o.Number,
		CustomerID:    o.CustomerID,
		CustomerEmail: o.CustomerEmail,
		Status:        string(o.Status),
		Currency:      o.Currency,
		SubTotal:      o.SubTotal,
		Shipping:      o.ShippingTotal,
		Tax:           o.TaxTotal,
		Total:         o.Total,
		DatePurchased: o.DatePurchased,
		Billing:       o.Billing,
		Delivery:      o.Delivery,
		Products:      products,
		History:       history,
	}
}

// DownloadResponse represents a download grant
type DownloadResponse struct {
	ID             uuid.UUID `json:"id"`
	OrderProductID uuid.UUID `json:"order_product_id"`
	FileName       string    `json:"file_name"`
	DownloadCount  int       `json:"download_count"`
	MaxCount       int       `json:"max_count"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// ToDownloadResponse converts a download grant to its response form
func ToDownloadResponse(d *order.OrderProductDownload) DownloadResponse {
	return DownloadResponse{
		ID:             d.ID,
		OrderProductID: d.OrderProductID,
		FileName:       d.OrderProductFilename,
		DownloadCount:  d.DownloadCount,
		MaxCount:       d.MaxCount,
		ExpiresAt:      d.ExpiresAt(),
	}
}

// DownloadedFile is the content served for a download grant
type DownloadedFile struct {
	FileName string
	MimeType string
	Body     []byte
}
