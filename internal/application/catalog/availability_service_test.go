package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newAvailabilityFixture() (*ProductAvailabilityService, *MockAvailabilityRepository, *MockProductRepository) {
	availabilities := new(MockAvailabilityRepository)
	products := new(MockProductRepository)
	return NewProductAvailabilityService(availabilities, products, zap.NewNop()), availabilities, products
}

func TestAvailabilityService_Save_CreatesRegion(t *testing.T) {
	service, availabilities, products := newAvailabilityFixture()
	ctx := context.Background()
	storeID := uuid.New()
	product := mustProduct(t, storeID, "TR-001")
	all, _ := catalog.NewProductAvailability(product.ID, catalog.RegionAll, 50)

	products.On("FindByID", ctx, storeID, product.ID).Return(product, nil)
	// the repository falls back to the "*" record when CA has none
	availabilities.On("FindByProductAndRegion", ctx, product.ID, "CA").Return(all, nil)
	availabilities.On("Save", ctx, mock.MatchedBy(func(a *catalog.ProductAvailability) bool {
		return a.ID != all.ID && a.Region == "CA"
	})).Return(nil)

	resp, err := service.Save(ctx, storeID, product.ID, AvailabilityRequest{
		Region:           "CA",
		Quantity:         10,
		QuantityOrderMax: 3,
	})

	require.NoError(t, err)
	assert.Equal(t, "CA", resp.Region)
	assert.Equal(t, 10, resp.Quantity)
	assert.Equal(t, 1, resp.QuantityOrderMin)
	assert.Equal(t, 3, resp.QuantityOrderMax)
	assert.Equal(t, 50, all.Quantity)
	availabilities.AssertExpectations(t)
}

func TestAvailabilityService_Save_ReplacesExisting(t *testing.T) {
	service, availabilities, products := newAvailabilityFixture()
	ctx := context.Background()
	storeID := uuid.New()
	product := mustProduct(t, storeID, "TR-001")
	existing, _ := catalog.NewProductAvailability(product.ID, catalog.RegionAll, 5)
	disabled := false

	products.On("FindByID", ctx, storeID, product.ID).Return(product, nil)
	availabilities.On("FindByProductAndRegion", ctx, product.ID, catalog.RegionAll).Return(existing, nil)
	availabilities.On("Save", ctx, existing).Return(nil)

	resp, err := service.Save(ctx, storeID, product.ID, AvailabilityRequest{Quantity: 12, Status: &disabled})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, resp.ID)
	assert.Equal(t, 12, resp.Quantity)
	assert.False(t, resp.Status)
}

func TestAvailabilityService_Save_InvalidLimits(t *testing.T) {
	service, availabilities, products := newAvailabilityFixture()
	ctx := context.Background()
	storeID := uuid.New()
	product := mustProduct(t, storeID, "TR-001")

	products.On("FindByID", ctx, storeID, product.ID).Return(product, nil)
	availabilities.On("FindByProductAndRegion", ctx, product.ID, catalog.RegionAll).Return(nil, shared.ErrNotFound)

	_, err := service.Save(ctx, storeID, product.ID, AvailabilityRequest{
		Quantity:         1,
		QuantityOrderMin: 5,
		QuantityOrderMax: 2,
	})

	assert.Equal(t, "INVALID_QUANTITY", shared.ErrorCode(err))
	availabilities.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAvailabilityService_Adjust(t *testing.T) {
	tests := []struct {
		name     string
		delta    int
		wantQty  int
		wantCode string
	}{
		{"add stock", 5, 12, ""},
		{"remove stock", -7, 0, ""},
		{"negative stock", -8, 7, "INSUFFICIENT_STOCK"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, availabilities, products := newAvailabilityFixture()
			ctx := context.Background()
			storeID := uuid.New()
			product := mustProduct(t, storeID, "TR-001")
			a, _ := catalog.NewProductAvailability(product.ID, "", 7)

			availabilities.On("FindByID", ctx, a.ID).Return(a, nil)
			products.On("FindByID", ctx, storeID, product.ID).Return(product, nil)
			availabilities.On("AdjustQuantity", ctx, a.ID, tt.delta).Return(nil).Maybe()

			resp, err := service.Adjust(ctx, storeID, a.ID, tt.delta)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, shared.ErrorCode(err))
				assert.ErrorIs(t, err, shared.ErrInsufficientStock)
				availabilities.AssertNotCalled(t, "AdjustQuantity", mock.Anything, mock.Anything, mock.Anything)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantQty, resp.Quantity)
			}
			assert.Equal(t, tt.wantQty, a.Quantity)
		})
	}
}

func TestAvailabilityService_Adjust_StockTakenMeanwhile(t *testing.T) {
	service, availabilities, products := newAvailabilityFixture()
	ctx := context.Background()
	storeID := uuid.New()
	product := mustProduct(t, storeID, "TR-001")
	a, _ := catalog.NewProductAvailability(product.ID, "", 3)

	availabilities.On("FindByID", ctx, a.ID).Return(a, nil).Once()
	products.On("FindByID", ctx, storeID, product.ID).Return(product, nil)
	availabilities.On("AdjustQuantity", ctx, a.ID, -3).
		Return(shared.WrapDomainError("INSUFFICIENT_STOCK", "gone", shared.ErrInsufficientStock))

	_, err := service.Adjust(ctx, storeID, a.ID, -3)

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	availabilities.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAvailabilityService_Delete_OtherStore(t *testing.T) {
	service, availabilities, products := newAvailabilityFixture()
	ctx := context.Background()
	storeID := uuid.New()
	a, _ := catalog.NewProductAvailability(uuid.New(), "", 1)

	availabilities.On("FindByID", ctx, a.ID).Return(a, nil)
	products.On("FindByID", ctx, storeID, a.ProductID).Return(nil, shared.ErrNotFound)

	err := service.Delete(ctx, storeID, a.ID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	availabilities.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
