package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shipping"
	"gorm.io/gorm"
)

// GormShippingOriginRepository implements ShippingOriginRepository using GORM
type GormShippingOriginRepository struct {
	db *gorm.DB
}

// NewGormShippingOriginRepository creates a new GormShippingOriginRepository
func NewGormShippingOriginRepository(db *gorm.DB) *GormShippingOriginRepository {
	return &GormShippingOriginRepository{db: db}
}

// FindByStore returns the shipping origin of a store
func (r *GormShippingOriginRepository) FindByStore(ctx context.Context, storeID uuid.UUID) (*shipping.ShippingOrigin, error) {
	var origin shipping.ShippingOrigin
	if err := r.db.WithContext(ctx).Scopes(StoreScope(storeID)).First(&origin).Error; err != nil {
		return nil, notFound(err)
	}
	return &origin, nil
}

// Save creates or updates a shipping origin
func (r *GormShippingOriginRepository) Save(ctx context.Context, origin *shipping.ShippingOrigin) error {
	return r.db.WithContext(ctx).Save(origin).Error
}

// Delete removes the shipping origin of a store
func (r *GormShippingOriginRepository) Delete(ctx context.Context, storeID uuid.UUID) error {
	return affected(r.db.WithContext(ctx).Scopes(StoreScope(storeID)).Delete(&shipping.ShippingOrigin{}))
}

// GormShippingConfigurationRepository implements ShippingConfigurationRepository using GORM
type GormShippingConfigurationRepository struct {
	db *gorm.DB
}

// NewGormShippingConfigurationRepository creates a new GormShippingConfigurationRepository
func NewGormShippingConfigurationRepository(db *gorm.DB) *GormShippingConfigurationRepository {
	return &GormShippingConfigurationRepository{db: db}
}

// FindByStore returns the shipping configuration of a store
func (r *GormShippingConfigurationRepository) FindByStore(ctx context.Context, storeID uuid.UUID) (*shipping.ShippingConfiguration, error) {
	var cfg shipping.ShippingConfiguration
	if err := r.db.WithContext(ctx).Scopes(StoreScope(storeID)).First(&cfg).Error; err != nil {
		return nil, notFound(err)
	}
	return &cfg, nil
}

// Save creates or updates a shipping configuration
func (r *GormShippingConfigurationRepository) Save(ctx context.Context, cfg *shipping.ShippingConfiguration) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}
