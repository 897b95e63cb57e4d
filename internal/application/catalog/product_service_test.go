package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type productFixture struct {
	service    *ProductService
	products   *MockProductRepository
	categories *MockCategoryRepository
	types      *MockProductTypeRepository
	events     *recordingPublisher
}

func newProductFixture() *productFixture {
	f := &productFixture{
		products:   new(MockProductRepository),
		categories: new(MockCategoryRepository),
		types:      new(MockProductTypeRepository),
		events:     &recordingPublisher{},
	}
	f.service = NewProductService(f.products, f.categories, f.types, f.events, zap.NewNop())
	return f
}

func mustProduct(t *testing.T, storeID uuid.UUID, sku string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(storeID, sku, decimal.NewFromInt(25))
	require.NoError(t, err)
	require.NoError(t, p.SetDescription("en", "Trail Runner", "A shoe", ""))
	return p
}

func TestProductService_Create_Success(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	storeID := uuid.New()
	category := mustCategory(t, storeID, "shoes", nil)
	productType, _ := catalog.NewProductType(storeID, catalog.ProductTypeGeneral, true)

	req := CreateProductRequest{
		Sku:         "TR-001",
		Price:       decimal.NewFromFloat(89.99),
		ProductType: catalog.ProductTypeGeneral,
		Weight:      decimal.NewFromFloat(1.2),
		CategoryIDs: []uuid.UUID{category.ID},
		Descriptions: []ProductDescriptionInput{
			{Language: "en", Name: "Trail Runner", MetaTitle: "Trail Runner | Shoes"},
			{Language: "fr", Name: "Coureur de sentier"},
		},
	}

	f.products.On("ExistsBySku", ctx, storeID, "TR-001").Return(false, nil)
	f.types.On("FindByCode", ctx, storeID, catalog.ProductTypeGeneral).Return(productType, nil)
	f.categories.On("FindByIDs", ctx, storeID, req.CategoryIDs).Return([]catalog.Category{*category}, nil)
	f.products.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	resp, err := f.service.Create(ctx, storeID, "fr", req)

	require.NoError(t, err)
	assert.Equal(t, "TR-001", resp.Sku)
	assert.True(t, resp.Price.Equal(decimal.NewFromFloat(89.99)))
	assert.Equal(t, "Coureur de sentier", resp.Name)
	assert.Equal(t, "coureur-de-sentier", resp.SeUrl)
	assert.Equal(t, &productType.ID, resp.ProductTypeID)
	require.Len(t, resp.Categories, 1)
	assert.Equal(t, "shoes", resp.Categories[0].Code)
	assert.Equal(t, []string{catalog.EventTypeProductSaved}, f.events.types())
}

func TestProductService_Create_DuplicateSku(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	storeID := uuid.New()

	f.products.On("ExistsBySku", ctx, storeID, "TR-001").Return(true, nil)

	_, err := f.service.Create(ctx, storeID, "en", CreateProductRequest{
		Sku:          "TR-001",
		Descriptions: []ProductDescriptionInput{{Language: "en", Name: "Trail Runner"}},
	})

	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	f.products.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductService_Create_UnknownCategory(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	storeID := uuid.New()
	missing := uuid.New()

	f.products.On("ExistsBySku", ctx, storeID, "TR-001").Return(false, nil)
	f.categories.On("FindByIDs", ctx, storeID, []uuid.UUID{missing}).Return([]catalog.Category{}, nil)

	_, err := f.service.Create(ctx, storeID, "en", CreateProductRequest{
		Sku:          "TR-001",
		CategoryIDs:  []uuid.UUID{missing},
		Descriptions: []ProductDescriptionInput{{Language: "en", Name: "Trail Runner"}},
	})

	assert.Equal(t, "INVALID_CATEGORY", shared.ErrorCode(err))
}

func TestProductService_Create_UnknownType(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	storeID := uuid.New()

	f.products.On("ExistsBySku", ctx, storeID, "TR-001").Return(false, nil)
	f.types.On("FindByCode", ctx, storeID, "GADGET").Return(nil, shared.ErrNotFound)

	_, err := f.service.Create(ctx, storeID, "en", CreateProductRequest{
		Sku:          "TR-001",
		ProductType:  "GADGET",
		Descriptions: []ProductDescriptionInput{{Language: "en", Name: "Trail Runner"}},
	})

	assert.Equal(t, "INVALID_PRODUCT_TYPE", shared.ErrorCode(err))
}

func TestProductService_Update_PartialFields(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	storeID := uuid.New()
	product := mustProduct(t, storeID, "TR-001")
	price := decimal.NewFromInt(99)
	virtual := true
	weight := decimal.NewFromFloat(0.5)

	f.products.On("FindByID", ctx, storeID, product.ID).Return(product, nil)
	f.products.On("Save", ctx, product).Return(nil)

	resp, err := f.service.Update(ctx, storeID, product.ID, "en", UpdateProductRequest{
		Price:   &price,
		Virtual: &virtual,
		Weight:  &weight,
		Descriptions: []ProductDescriptionInput{
			{Language: "en", Name: "Trail Runner", MetaDescription: "Light and fast"},
		},
	})

	require.NoError(t, err)
	assert.True(t, resp.Price.Equal(price))
	assert.True(t, resp.Virtual)
	assert.False(t, resp.Shippable)
	assert.True(t, resp.Weight.Equal(weight))
	assert.Equal(t, "Light and fast", resp.MetaDescription)
	f.categories.AssertNotCalled(t, "FindByIDs", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductService_Update_ClearsCategories(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	storeID := uuid.New()
	product := mustProduct(t, storeID, "TR-001")
	product.Categories = []catalog.Category{*mustCategory(t, storeID, "shoes", nil)}
	empty := []uuid.UUID{}

	f.products.On("FindByID", ctx, storeID, product.ID).Return(product, nil)
	f.products.On("Save", ctx, product).Return(nil)

	resp, err := f.service.Update(ctx, storeID, product.ID, "en", UpdateProductRequest{CategoryIDs: &empty})

	require.NoError(t, err)
	assert.Empty(t, resp.Categories)
}

func TestProductService_List(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	storeID := uuid.New()
	criteria := catalog.ProductCriteria{
		Criteria: shared.Criteria{StartIndex: 20, MaxCount: 10, Language: "en"},
		StoreID:  storeID,
		Name:     "trail",
	}
	products := []catalog.Product{*mustProduct(t, storeID, "TR-001"), *mustProduct(t, storeID, "TR-002")}

	f.products.On("List", ctx, criteria).Return(products, int64(22), nil)

	page, err := f.service.List(ctx, criteria)

	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(22), page.Total)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, "Trail Runner", page.Items[0].Name)
}

func TestProductService_Delete(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	storeID := uuid.New()
	product := mustProduct(t, storeID, "TR-001")

	f.products.On("FindByID", ctx, storeID, product.ID).Return(product, nil)
	f.products.On("Delete", ctx, storeID, product.ID).Return(nil)

	require.NoError(t, f.service.Delete(ctx, storeID, product.ID))
	assert.Equal(t, []string{catalog.EventTypeProductDeleted}, f.events.types())
}

func TestProductService_GetBySeUrl_NotFound(t *testing.T) {
	f := newProductFixture()
	ctx := context.Background()
	storeID := uuid.New()

	f.products.On("FindBySeUrl", ctx, storeID, "en", "missing").Return(nil, shared.ErrNotFound)

	_, err := f.service.GetBySeUrl(ctx, storeID, "en", "missing")

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
