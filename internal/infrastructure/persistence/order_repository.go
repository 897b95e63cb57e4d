package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/order"
	"github.com/salesmanager/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: trackVersions(db)}
}

func (r *GormOrderRepository) scoped(ctx context.Context, storeID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Scopes(StoreScope(storeID)).
		Preload("Products").
		Preload("Products.Downloads").
		Preload("History", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
}

// FindByID finds an order by ID within a store
func (r *GormOrderRepository) FindByID(ctx context.Context, storeID, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.scoped(ctx, storeID).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// FindByNumber finds an order by its public number
func (r *GormOrderRepository) FindByNumber(ctx context.Context, storeID uuid.UUID, number string) (*order.Order, error) {
	var o order.Order
	if err := r.scoped(ctx, storeID).Where("number = ?", number).First(&o).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// FindByProductLineID finds the order owning an order line
func (r *GormOrderRepository) FindByProductLineID(ctx context.Context, storeID, orderProductID uuid.UUID) (*order.Order, error) {
	owner := r.db.Model(&order.OrderProduct{}).Select("order_id").Where("id = ?", orderProductID)
	var o order.Order
	if err := r.scoped(ctx, storeID).Where("id IN (?)", owner).First(&o).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// List returns a page of orders, newest first unless another order is requested
func (r *GormOrderRepository) List(ctx context.Context, criteria order.OrderCriteria) ([]order.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&order.Order{}).Scopes(StoreScope(criteria.StoreID))
	if criteria.CustomerID != nil {
		q = q.Where("customer_id = ?", *criteria.CustomerID)
	}
	if criteria.Status != "" {
		q = q.Where("status = ?", criteria.Status)
	}
	if criteria.Email != "" {
		q = q.Where("LOWER(customer_email) LIKE ? ESCAPE '\\'", Like(criteria.Email))
	}
	if criteria.CustomerName != "" {
		pattern := Like(criteria.CustomerName)
		q = q.Where("LOWER(billing_first_name) LIKE ? ESCAPE '\\' OR LOWER(billing_last_name) LIKE ? ESCAPE '\\'", pattern, pattern)
	}
	if criteria.Search != "" {
		q = q.Where("LOWER(number) LIKE ? ESCAPE '\\'", Like(criteria.Search))
	}

	q = q.Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	c := criteria.Criteria
	if c.OrderByField == "" {
		c.OrderByField, c.OrderBy = "date_purchased", "DESC"
	}
	var orders []order.Order
	err := q.Scopes(OrderBy(c, OrderSortFields, "date_purchased"), Paginate(c)).
		Preload("Products").
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save creates or updates an order with its lines and history
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return saveVersioned(tx, o, func(tx *gorm.DB) error {
			return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(o).Error
		})
	})
}

// GormOrderProductDownloadRepository implements OrderProductDownloadRepository using GORM
type GormOrderProductDownloadRepository struct {
	db *gorm.DB
}

// NewGormOrderProductDownloadRepository creates a new GormOrderProductDownloadRepository
func NewGormOrderProductDownloadRepository(db *gorm.DB) *GormOrderProductDownloadRepository {
	return &GormOrderProductDownloadRepository{db: db}
}

// FindByID finds a download grant by ID
func (r *GormOrderProductDownloadRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.OrderProductDownload, error) {
	var d order.OrderProductDownload
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

// FindByOrderID returns the download grants of an order
func (r *GormOrderProductDownloadRepository) FindByOrderID(ctx context.Context, storeID, orderID uuid.UUID) ([]order.OrderProductDownload, error) {
	var list []order.OrderProductDownload
	err := r.db.WithContext(ctx).
		Joins("JOIN order_products op ON op.id = order_product_downloads.order_product_id").
		Joins("JOIN orders o ON o.id = op.order_id").
		Where("o.id = ? AND o.merchant_store_id = ?", orderID, storeID).
		Order("order_product_downloads.created_at ASC").
		Find(&list).Error
	return list, err
}

// Save creates or updates a download grant
func (r *GormOrderProductDownloadRepository) Save(ctx context.Context, download *order.OrderProductDownload) error {
	return r.db.WithContext(ctx).Save(download).Error
}

// Consume increments the download count unless the limit is already reached.
// A max count of zero means unlimited downloads.
func (r *GormOrderProductDownloadRepository) Consume(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Model(&order.OrderProductDownload{}).
		Where("id = ? AND (download_max_count <= 0 OR download_count < download_max_count)", id).
		Update("download_count", gorm.Expr("download_count + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	return shared.NewDomainError("DOWNLOAD_EXHAUSTED", "Maximum number of downloads reached")
}

// DeleteExpired removes every grant whose validity window ended before now
func (r *GormOrderProductDownloadRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var expired []uuid.UUID
	var batch []order.OrderProductDownload
	err := r.db.WithContext(ctx).
		Where("created_at < ?", now).
		FindInBatches(&batch, 500, func(tx *gorm.DB, _ int) error {
			for i := range batch {
				if batch[i].IsExpired(now) {
					expired = append(expired, batch[i].ID)
				}
			}
			return nil
		}).Error
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}
	res := r.db.WithContext(ctx).Where("id IN ?", expired).Delete(&order.OrderProductDownload{})
	return res.RowsAffected, res.Error
}
