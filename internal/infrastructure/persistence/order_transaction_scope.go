package persistence

import (
	"context"

	apporder "github.com/salesmanager/backend/internal/application/order"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/order"
	"gorm.io/gorm"
)

// GormOrderTransactionScope implements TransactionScope using GORM transactions.
// Orders and the stock they consume are committed or rolled back together.
type GormOrderTransactionScope struct {
	db *gorm.DB
}

// NewGormOrderTransactionScope creates a new GormOrderTransactionScope.
func NewGormOrderTransactionScope(db *gorm.DB) *GormOrderTransactionScope {
	return &GormOrderTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormOrderTransactionScope) Execute(ctx context.Context, fn func(repos apporder.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormOrderRepositories{tx: tx})
	})
}

type gormOrderRepositories struct {
	tx *gorm.DB
}

func (r *gormOrderRepositories) OrderRepo() order.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormOrderRepositories) AvailabilityRepo() catalog.ProductAvailabilityRepository {
	return NewGormProductAvailabilityRepository(r.tx)
}

var _ apporder.TransactionScope = (*GormOrderTransactionScope)(nil)
var _ apporder.TransactionalRepositories = (*gormOrderRepositories)(nil)
