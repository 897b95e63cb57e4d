package order

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// OrderCriteria filters order listings
type OrderCriteria struct {
	shared.Criteria
	StoreID      uuid.UUID  `criteria:"-"`
	CustomerID   *uuid.UUID `criteria:"CustomerID"`
	Status       Status     `criteria:"Status"`
	CustomerName string     `criteria:"CustomerName"`
	Email        string     `criteria:"Email"`
}

// OrderRepository persists orders
type OrderRepository interface {
	FindByID(ctx context.Context, storeID, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, storeID uuid.UUID, number string) (*Order, error)
	// FindByProductLineID returns the order owning the given order line
	FindByProductLineID(ctx context.Context, storeID, orderProductID uuid.UUID) (*Order, error)
	List(ctx context.Context, criteria OrderCriteria) ([]Order, int64, error)
	Save(ctx context.Context, order *Order) error
}

// OrderProductDownloadRepository persists download grants
type OrderProductDownloadRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderProductDownload, error)
	// FindByOrderID returns the download grants of every line of an order in a store
	FindByOrderID(ctx context.Context, storeID, orderID uuid.UUID) ([]OrderProductDownload, error)
	Save(ctx context.Context, download *OrderProductDownload) error
	// Consume counts one download in a single conditional write, failing with
	// DOWNLOAD_EXHAUSTED once the stored count has reached the limit
	Consume(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes grants created before cutoff minus their validity and returns the count
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
