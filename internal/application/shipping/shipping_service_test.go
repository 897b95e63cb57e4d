package shipping

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/domain/shared/valueobject"
	"github.com/salesmanager/backend/internal/domain/shipping"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockOriginRepository is a mock implementation of ShippingOriginRepository
type MockOriginRepository struct {
	mock.Mock
}

func (m *MockOriginRepository) FindByStore(ctx context.Context, storeID uuid.UUID) (*shipping.ShippingOrigin, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.ShippingOrigin), args.Error(1)
}

func (m *MockOriginRepository) Save(ctx context.Context, origin *shipping.ShippingOrigin) error {
	return m.Called(ctx, origin).Error(0)
}

func (m *MockOriginRepository) Delete(ctx context.Context, storeID uuid.UUID) error {
	return m.Called(ctx, storeID).Error(0)
}

// MockConfigurationRepository is a mock implementation of ShippingConfigurationRepository
type MockConfigurationRepository struct {
	mock.Mock
}

func (m *MockConfigurationRepository) FindByStore(ctx context.Context, storeID uuid.UUID) (*shipping.ShippingConfiguration, error) {
	args := m.Called(ctx, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipping.ShippingConfiguration), args.Error(1)
}

func (m *MockConfigurationRepository) Save(ctx context.Context, cfg *shipping.ShippingConfiguration) error {
	return m.Called(ctx, cfg).Error(0)
}

func newTestShippingService() (*ShippingService, *MockOriginRepository, *MockConfigurationRepository) {
	origins := new(MockOriginRepository)
	configs := new(MockConfigurationRepository)
	return NewShippingService(origins, configs, zap.NewNop()), origins, configs
}

func canadianStore(t *testing.T) *merchant.MerchantStore {
	t.Helper()
	store, err := merchant.NewMerchantStore("DEFAULT", "Default", "d@example.com")
	require.NoError(t, err)
	store.Address = valueobject.Address{Street: "1 Main", City: "Montreal", Country: "CA"}
	return store
}

func TestShippingService_SaveOrigin_Upsert(t *testing.T) {
	service, origins, _ := newTestShippingService()
	ctx := context.Background()
	storeID := uuid.New()
	addr := valueobject.Address{Street: "1 Main", City: "Montreal", Country: "ca"}

	origins.On("FindByStore", ctx, storeID).Return(nil, shared.ErrNotFound).Once()
	origins.On("Save", ctx, mock.AnythingOfType("*shipping.ShippingOrigin")).Return(nil)

	created, err := service.SaveOrigin(ctx, storeID, OriginRequest{Active: true, Address: addr})
	require.NoError(t, err)
	assert.Equal(t, "CA", created.Address.Country)

	existing, err := shipping.NewShippingOrigin(storeID, valueobject.Address{Street: "1 Main", City: "Montreal", Country: "CA"})
	require.NoError(t, err)
	origins.On("FindByStore", ctx, storeID).Return(existing, nil).Once()

	moved, err := service.SaveOrigin(ctx, storeID, OriginRequest{
		Active:  false,
		Address: valueobject.Address{Street: "9 Rue", City: "Quebec", Country: "CA"},
	})
	require.NoError(t, err)
	assert.Equal(t, existing.ID, moved.ID)
	assert.False(t, moved.Active)
	assert.Equal(t, "Quebec", existing.Address.City)
}

func TestShippingService_GetConfiguration_Default(t *testing.T) {
	service, _, configs := newTestShippingService()
	ctx := context.Background()
	store := canadianStore(t)

	configs.On("FindByStore", ctx, store.ID).Return(nil, shared.ErrNotFound)

	resp, err := service.GetConfiguration(ctx, store)

	require.NoError(t, err)
	assert.Equal(t, "NATIONAL", resp.ShippingType)
	assert.Equal(t, []string{"CA"}, resp.ShipToCountries)
}

func TestShippingService_SaveConfiguration_Invalid(t *testing.T) {
	service, _, configs := newTestShippingService()
	ctx := context.Background()
	store := canadianStore(t)

	configs.On("FindByStore", ctx, store.ID).Return(nil, shared.ErrNotFound)

	_, err := service.SaveConfiguration(ctx, store, ConfigurationRequest{
		ShippingType:    "national",
		ShipToCountries: []string{"ca", "us"},
	})

	assert.Equal(t, "INVALID_COUNTRY", shared.ErrorCode(err))
	configs.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestShippingService_ComputeShippingQuote(t *testing.T) {
	service, _, configs := newTestShippingService()
	ctx := context.Background()
	store := canadianStore(t)
	cfg := shipping.NewShippingConfiguration(store.ID, "CA")
	cfg.ShippingType = shipping.ShippingTypeInternational
	cfg.ShipToCountries = "CA,US"
	cfg.HandlingFees = decimal.NewFromInt(5)
	cfg.PricePerWeightUnit = decimal.RequireFromString("1.5")
	cfg.FreeShippingEnabled = true
	cfg.FreeShippingAmount = decimal.NewFromInt(100)

	configs.On("FindByStore", ctx, store.ID).Return(cfg, nil)

	tests := []struct {
		name     string
		subtotal string
		country  string
		total    string
		free     bool
		code     string
	}{
		{name: "weight based", subtotal: "50", country: "us", total: "11"},
		{name: "free above threshold", subtotal: "100", country: "CA", total: "0", free: true},
		{name: "not shipped", subtotal: "50", country: "FR", code: "SHIPPING_UNAVAILABLE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := service.ComputeShippingQuote(ctx, store, QuoteRequest{
				Subtotal: decimal.RequireFromString(tt.subtotal),
				Weight:   decimal.NewFromInt(4),
				Country:  tt.country,
			})
			if tt.code != "" {
				assert.Equal(t, tt.code, shared.ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.free, q.FreeShipping)
			assert.True(t, decimal.RequireFromString(tt.total).Equal(q.Total), q.Total.String())
		})
	}
}
