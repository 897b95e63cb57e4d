// Package integration provides integration testing for the SalesManager backend API.
// This file drives the customer journey through the HTTP router against a real database.
package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	customerapp "github.com/salesmanager/backend/internal/application/customer"
	merchantapp "github.com/salesmanager/backend/internal/application/merchant"
	orderapp "github.com/salesmanager/backend/internal/application/order"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
	"github.com/salesmanager/backend/internal/infrastructure/config"
	"github.com/salesmanager/backend/internal/infrastructure/event"
	"github.com/salesmanager/backend/internal/infrastructure/persistence"
	"github.com/salesmanager/backend/internal/infrastructure/telemetry"
	"github.com/salesmanager/backend/internal/infrastructure/token"
	"github.com/salesmanager/backend/internal/interfaces/http/handler"
	"github.com/salesmanager/backend/internal/interfaces/http/middleware"
	"github.com/salesmanager/backend/internal/interfaces/http/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(
		customerapp.RegisterRequest{},
		customerapp.ChangePasswordRequest{},
		customerapp.ResetPasswordRequest{},
	); err != nil {
		panic(err)
	}
}

// newStorefrontAPI wires the customer facing routes the way the server does
func newStorefrontAPI(t *testing.T, testDB *TestDB) *gin.Engine {
	t.Helper()

	log := zap.NewNop()
	storeRepo := persistence.NewGormMerchantStoreRepository(testDB.DB)
	customerRepo := persistence.NewGormCustomerRepository(testDB.DB)
	productRepo := persistence.NewGormProductRepository(testDB.DB)
	availabilityRepo := persistence.NewGormProductAvailabilityRepository(testDB.DB)
	orderRepo := persistence.NewGormOrderRepository(testDB.DB)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                 "integration-access-secret-0123456789",
		RefreshSecret:          "integration-refresh-secret-0123456789",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "salesmanager-test",
		MaxRefreshCount:        3,
	})
	revocations := auth.NewRevocationList(nil, "")
	tokenizer, err := token.NewTokenizer("integration-token-secret")
	require.NoError(t, err)
	bus := event.NewBus(log)

	storeService := merchantapp.NewStoreService(storeRepo, persistence.NewGormLanguageRepository(testDB.DB), log)
	customerService := customerapp.NewCustomerService(
		customerRepo, auth.NewPasswordHasher(4), jwtService, tokenizer, revocations, bus,
		customerapp.DefaultCustomerServiceConfig(), log,
	)
	orderService := orderapp.NewOrderService(
		orderRepo,
		persistence.NewGormOrderProductDownloadRepository(testDB.DB),
		productRepo, availabilityRepo, customerRepo,
		persistence.NewGormOrderTransactionScope(testDB.DB),
		log,
	)

	engine := gin.New()
	r := router.NewRouter(engine)
	r.Use(middleware.MerchantStore(storeService), middleware.Locale())
	router.RegisterAPI(r, router.Handlers{
		Store:    handler.NewStoreHandler(storeService),
		Customer: handler.NewCustomerHandler(customerService, telemetry.NopShopMetrics()),
		Order:    handler.NewOrderHandler(orderService),
	}, router.Guards{
		Customer: middleware.JWTAuth(middleware.JWTMiddlewareConfig{
			JWTService:  jwtService,
			Revocations: revocations,
			Principal:   auth.PrincipalCustomer,
			Logger:      log,
		}),
	})
	r.Setup()
	return engine
}

type apiCall struct {
	method string
	path   string
	store  string
	token  string
	body   any
}

func (c apiCall) do(t *testing.T, engine *gin.Engine) (int, gjson.Result) {
	t.Helper()

	var buf bytes.Buffer
	if c.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(c.body))
	}
	req := httptest.NewRequest(c.method, c.path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if c.store != "" {
		req.Header.Set(middleware.StoreCodeHeader, c.store)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w.Code, gjson.ParseBytes(w.Body.Bytes())
}

func TestStorefrontAPI_CustomerJourney(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewSharedTestDB(t)
	engine := newStorefrontAPI(t, testDB)
	store := testDB.CreateTestStore("SHOP")
	lamp := testDB.CreateTestProduct(store.ID, "LAMP", "40")
	testDB.CreateTestAvailability(lamp.ID, "CA", 3)

	address := map[string]string{"street": "1 Rue Principale", "city": "Montreal", "country": "CA"}
	register := apiCall{
		method: http.MethodPost,
		path:   "/api/v1/customer/register",
		store:  store.Code,
		body: map[string]any{
			"email":           "Shopper@Example.com",
			"password":        "s3cret-pass",
			"repeat_password": "s3cret-pass",
			"first_name":      "Sam",
			"last_name":       "Shopper",
			"billing":         address,
			"delivery":        address,
		},
	}

	status, body := register.do(t, engine)
	require.Equal(t, http.StatusCreated, status, body.Raw)
	assert.Equal(t, "shopper@example.com", body.Get("data.customer.email").String())

	t.Run("email is taken in this store only", func(t *testing.T) {
		status, body := register.do(t, engine)
		assert.Equal(t, http.StatusConflict, status, body.Raw)

		other := register
		other.store = testDB.CreateTestStore("ELSEWHERE").Code
		status, _ = other.do(t, engine)
		assert.Equal(t, http.StatusCreated, status)
	})

	status, body = apiCall{
		method: http.MethodPost,
		path:   "/api/v1/customer/login",
		store:  store.Code,
		body:   map[string]string{"email": "shopper@example.com", "password": "s3cret-pass"},
	}.do(t, engine)
	require.Equal(t, http.StatusOK, status, body.Raw)
	accessToken := body.Get("data.token.access_token").String()
	require.NotEmpty(t, accessToken)

	t.Run("wrong password is refused", func(t *testing.T) {
		status, _ := apiCall{
			method: http.MethodPost,
			path:   "/api/v1/customer/login",
			store:  store.Code,
			body:   map[string]string{"email": "shopper@example.com", "password": "nope-nope"},
		}.do(t, engine)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("place and list orders", func(t *testing.T) {
		status, body := apiCall{
			method: http.MethodPost,
			path:   "/api/v1/auth/customer/orders",
			store:  store.Code,
			token:  accessToken,
			body: map[string]any{
				"products": []map[string]any{{"product_id": lamp.ID.String(), "quantity": 2}},
			},
		}.do(t, engine)
		require.Equal(t, http.StatusCreated, status, body.Raw)
		assert.Equal(t, "ORDERED", body.Get("data.status").String())
		assert.Equal(t, "LAMP", body.Get("data.products.0.sku").String())
		orderID := body.Get("data.id").String()

		status, body = apiCall{
			method: http.MethodGet,
			path:   "/api/v1/auth/customer/orders",
			store:  store.Code,
			token:  accessToken,
		}.do(t, engine)
		require.Equal(t, http.StatusOK, status, body.Raw)
		assert.EqualValues(t, 1, body.Get("meta.total").Int())
		assert.Equal(t, orderID, body.Get("data.0.id").String())
	})

	t.Run("stock cannot be oversold", func(t *testing.T) {
		status, body := apiCall{
			method: http.MethodPost,
			path:   "/api/v1/auth/customer/orders",
			store:  store.Code,
			token:  accessToken,
			body: map[string]any{
				"products": []map[string]any{{"product_id": lamp.ID.String(), "quantity": 2}},
			},
		}.do(t, engine)
		assert.Equal(t, http.StatusUnprocessableEntity, status, body.Raw)
		assert.False(t, body.Get("success").Bool())
	})

	t.Run("tokens are bound to their store", func(t *testing.T) {
		status, _ := apiCall{
			method: http.MethodGet,
			path:   "/api/v1/auth/customer/orders",
			store:  "DEFAULT",
			token:  accessToken,
		}.do(t, engine)
		assert.Equal(t, http.StatusForbidden, status)
	})

	t.Run("anonymous requests are rejected", func(t *testing.T) {
		status, _ := apiCall{
			method: http.MethodGet,
			path:   "/api/v1/auth/customer/orders",
			store:  store.Code,
		}.do(t, engine)
		assert.Equal(t, http.StatusUnauthorized, status)
	})
}
