package shipping

import (
	"testing"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewShippingOrigin(t *testing.T) {
	addr, err := valueobject.NewAddress("1 Main", "Toronto", "M5V", "CA")
	require.NoError(t, err)

	origin, err := NewShippingOrigin(uuid.New(), addr)
	require.NoError(t, err)
	assert.True(t, origin.Active)

	_, err = NewShippingOrigin(uuid.New(), valueobject.Address{})
	assert.Error(t, err)

	require.NoError(t, origin.Relocate(addr, false))
	assert.False(t, origin.Active)
	assert.Equal(t, 2, origin.Version)
}

func TestShippingConfiguration_ComputeQuote(t *testing.T) {
	cfg := NewShippingConfiguration(uuid.New(), "ca")
	cfg.HandlingFees = decimal.NewFromInt(2)
	cfg.PricePerWeightUnit = decimal.NewFromFloat(1.5)
	require.NoError(t, cfg.Validate())

	t.Run("weight based", func(t *testing.T) {
		q, err := cfg.ComputeQuote(decimal.NewFromInt(40), decimal.NewFromInt(3), "CA")
		require.NoError(t, err)
		assert.False(t, q.FreeShipping)
		assert.True(t, q.Total.Equal(decimal.NewFromFloat(6.5)), q.Total.String())
	})

	t.Run("free shipping over threshold", func(t *testing.T) {
		cfg.FreeShippingEnabled = true
		cfg.FreeShippingAmount = decimal.NewFromInt(50)
		q, err := cfg.ComputeQuote(decimal.NewFromInt(50), decimal.NewFromInt(3), "ca")
		require.NoError(t, err)
		assert.True(t, q.FreeShipping)
		assert.True(t, q.Total.IsZero())
	})

	t.Run("unsupported country", func(t *testing.T) {
		_, err := cfg.ComputeQuote(decimal.NewFromInt(1), decimal.NewFromInt(1), "US")
		assert.Error(t, err)
	})
}

func TestShippingConfiguration_Validate(t *testing.T) {
	cfg := NewShippingConfiguration(uuid.New(), "CA,US")
	assert.Error(t, cfg.Validate(), "national with two countries")

	cfg.ShippingType = ShippingTypeInternational
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.ShipsTo("us"))

	cfg.HandlingFees = decimal.NewFromInt(-1)
	assert.Error(t, cfg.Validate())
}
