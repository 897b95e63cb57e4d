package order

import (
	"context"

	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/order"
)

// TransactionScope runs order placement atomically: the order and the stock
// it consumes are written in the same database transaction.
type TransactionScope interface {
	// Execute runs fn within a transaction, rolling back when fn returns an error.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories gives access to the repositories bound to the current transaction
type TransactionalRepositories interface {
	OrderRepo() order.OrderRepository
	AvailabilityRepo() catalog.ProductAvailabilityRepository
}

// NoOpTransactionScope runs fn directly against the given repositories.
// Useful for tests and for stores without transaction support.
type NoOpTransactionScope struct {
	orderRepo        order.OrderRepository
	availabilityRepo catalog.ProductAvailabilityRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(orderRepo order.OrderRepository, availabilityRepo catalog.ProductAvailabilityRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{orderRepo: orderRepo, availabilityRepo: availabilityRepo}
}

// Execute runs fn without a transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// OrderRepo returns the order repository
func (s *NoOpTransactionScope) OrderRepo() order.OrderRepository {
	return s.orderRepo
}

// AvailabilityRepo returns the availability repository
func (s *NoOpTransactionScope) AvailabilityRepo() catalog.ProductAvailabilityRepository {
	return s.availabilityRepo
}
