package integration

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/customer"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain runs before any tests and handles cleanup
func TestMain(m *testing.M) {
	code := m.Run()
	CleanupSharedContainer()
	os.Exit(code)
}

func TestMerchantStoreRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	repo := persistence.NewGormMerchantStoreRepository(testDB.DB)
	ctx := context.Background()

	t.Run("default store is seeded", func(t *testing.T) {
		store, err := repo.FindByCode(ctx, merchant.DefaultStoreCode)
		require.NoError(t, err)
		assert.Equal(t, "USD", store.Currency)
		assert.True(t, store.Retailer)
	})

	t.Run("children of a retailer", func(t *testing.T) {
		parent := testDB.CreateTestStore("RETAIL")
		child, err := merchant.NewMerchantStore("CHILD_"+uuid.NewString()[:8], "Child", "child@example.com")
		require.NoError(t, err)
		child.ParentID = &parent.ID
		require.NoError(t, repo.Save(ctx, child))

		children, err := repo.FindChildren(ctx, parent.ID)
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, child.Code, children[0].Code)
	})

	t.Run("code existence", func(t *testing.T) {
		store := testDB.CreateTestStore("EXISTS")

		exists, err := repo.ExistsByCode(ctx, store.Code)
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByCode(ctx, "NOPE_"+uuid.NewString()[:8])
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestProductRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	repo := persistence.NewGormProductRepository(testDB.DB)
	ctx := context.Background()
	store := testDB.CreateTestStore("CATALOG")

	t.Run("Save and FindByID", func(t *testing.T) {
		product, err := catalog.NewProduct(store.ID, "PROD-001", decimal.RequireFromString("19.99"))
		require.NoError(t, err)
		require.NoError(t, product.SetDescription("en", "Travel mug", "Keeps coffee warm", ""))
		require.NoError(t, product.SetDescription("fr", "Tasse de voyage", "", "tasse-voyage"))

		require.NoError(t, repo.Save(ctx, product))

		found, err := repo.FindByID(ctx, store.ID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "PROD-001", found.Sku)
		assert.True(t, found.Price.Equal(decimal.RequireFromString("19.99")))
		assert.Len(t, found.Descriptions, 2)
	})

	t.Run("FindBySeUrl per language", func(t *testing.T) {
		found, err := repo.FindBySeUrl(ctx, store.ID, "fr", "tasse-voyage")
		require.NoError(t, err)
		assert.Equal(t, "PROD-001", found.Sku)

		_, err = repo.FindBySeUrl(ctx, store.ID, "en", "tasse-voyage")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("List with pagination", func(t *testing.T) {
		for _, sku := range []string{"LIST-A", "LIST-B", "LIST-C", "LIST-D"} {
			testDB.CreateTestProduct(store.ID, sku, "5")
		}

		criteria := catalog.ProductCriteria{StoreID: store.ID, Sku: "LIST-"}
		criteria.MaxCount = 3
		page, total, err := repo.List(ctx, criteria)
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		assert.Len(t, page, 3)

		criteria.StartIndex = 3
		page, _, err = repo.List(ctx, criteria)
		require.NoError(t, err)
		assert.Len(t, page, 1)
	})

	t.Run("Delete", func(t *testing.T) {
		product := testDB.CreateTestProduct(store.ID, "DELETE-ME", "1")
		require.NoError(t, repo.Delete(ctx, store.ID, product.ID))

		_, err := repo.FindByID(ctx, store.ID, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestStoreIsolation_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	ctx := context.Background()
	storeA := testDB.CreateTestStore("STORE_A")
	storeB := testDB.CreateTestStore("STORE_B")

	t.Run("products are invisible to other stores", func(t *testing.T) {
		repo := persistence.NewGormProductRepository(testDB.DB)
		product := testDB.CreateTestProduct(storeA.ID, "SHARED-SKU", "10")

		_, err := repo.FindByID(ctx, storeB.ID, product.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		_, err = repo.FindBySku(ctx, storeB.ID, "SHARED-SKU")
		assert.ErrorIs(t, err, shared.ErrNotFound)

		// the same sku may be reused by another store
		other := testDB.CreateTestProduct(storeB.ID, "SHARED-SKU", "12")
		found, err := repo.FindBySku(ctx, storeB.ID, "SHARED-SKU")
		require.NoError(t, err)
		assert.Equal(t, other.ID, found.ID)
	})

	t.Run("customer emails are unique per store", func(t *testing.T) {
		repo := persistence.NewGormCustomerRepository(testDB.DB)

		a, err := customer.NewCustomer(storeA.ID, "jane@example.com", "hash", "Jane", "Doe")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, a))

		b, err := customer.NewCustomer(storeB.ID, "jane@example.com", "hash", "Jane", "Doe")
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, b))

		exists, err := repo.ExistsByEmail(ctx, storeA.ID, "JANE@example.com")
		require.NoError(t, err)
		assert.True(t, exists)

		found, err := repo.FindByEmail(ctx, storeB.ID, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, b.ID, found.ID)

		_, err = repo.FindByID(ctx, storeB.ID, a.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestProductAvailabilityRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	repo := persistence.NewGormProductAvailabilityRepository(testDB.DB)
	ctx := context.Background()
	store := testDB.CreateTestStore("STOCK")
	product := testDB.CreateTestProduct(store.ID, "STOCKED", "3")

	testDB.CreateTestAvailability(product.ID, catalog.RegionAll, 5)
	testDB.CreateTestAvailability(product.ID, "CA", 2)

	t.Run("country record wins over all regions", func(t *testing.T) {
		found, err := repo.FindByProductAndRegion(ctx, product.ID, "CA")
		require.NoError(t, err)
		assert.Equal(t, 2, found.Quantity)
	})

	t.Run("other countries fall back to all regions", func(t *testing.T) {
		found, err := repo.FindByProductAndRegion(ctx, product.ID, "US")
		require.NoError(t, err)
		assert.Equal(t, catalog.RegionAll, found.Region)
		assert.Equal(t, 5, found.Quantity)
	})

	t.Run("one record per region", func(t *testing.T) {
		duplicate, err := catalog.NewProductAvailability(product.ID, "CA", 1)
		require.NoError(t, err)
		assert.Error(t, repo.Save(ctx, duplicate))
	})
}
