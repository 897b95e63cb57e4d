package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/domain/customer"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/order"
	"github.com/salesmanager/backend/internal/domain/reference"
	"github.com/salesmanager/backend/internal/domain/shipping"
	"github.com/salesmanager/backend/internal/domain/user"
	"github.com/salesmanager/backend/internal/infrastructure/config"
	applog "github.com/salesmanager/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Database holds the database connection
type Database struct {
	DB *gorm.DB
}

// NewDatabase opens the configured database and tunes the connection pool
func NewDatabase(cfg *config.DatabaseConfig, zl *zap.Logger, logLevel string) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN())
	default:
		dialector = postgres.Open(cfg.DSN())
	}

	gcfg := &gorm.Config{
		Logger:                 applog.NewGormLogger(zl, applog.MapGormLogLevel(logLevel)),
		SkipDefaultTransaction: true,
	}
	if cfg.Driver != "sqlite" {
		gcfg.PrepareStmt = true
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Driver == "sqlite" {
		// a single connection keeps an in-memory database alive and serializes writers
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
		sqlDB.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if err := TrackVersions(db); err != nil {
		return nil, fmt.Errorf("failed to register version tracking: %w", err)
	}
	return &Database{DB: db}, nil
}

// Models lists every persisted type, in dependency order
func Models() []any {
	return []any{
		&reference.Language{},
		&merchant.MerchantStore{},
		&catalog.ProductType{},
		&catalog.ProductTypeDescription{},
		&catalog.Category{},
		&catalog.CategoryDescription{},
		&catalog.Product{},
		&catalog.ProductDescription{},
		&catalog.ProductAvailability{},
		&catalog.ProductImage{},
		&catalog.ProductImageDescription{},
		&catalog.ProductVariant{},
		&catalog.ProductVariantImage{},
		&content.Content{},
		&content.ContentDescription{},
		&customer.Customer{},
		&user.User{},
		&shipping.ShippingOrigin{},
		&shipping.ShippingConfiguration{},
		&order.Order{},
		&order.OrderProduct{},
		&order.OrderStatusHistory{},
		&order.OrderProductDownload{},
	}
}

// AutoMigrate creates the schema from the models. SQL migrations own the
// postgres schema; this is used for sqlite development databases and tests.
func (d *Database) AutoMigrate() error {
	return d.DB.AutoMigrate(Models()...)
}

// Close closes the database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

// Ping checks if the database connection is alive
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Transaction executes fn within a database transaction
func (d *Database) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return d.DB.WithContext(ctx).Transaction(fn)
}
