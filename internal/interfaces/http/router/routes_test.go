package router

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
	"github.com/salesmanager/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abortWith(status int) gin.HandlerFunc {
	return func(c *gin.Context) { c.AbortWithStatus(status) }
}

func withClaims(claims *auth.Claims) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ClaimsKey, claims)
		c.Next()
	}
}

// newTestEngine mounts every route. Handlers are never reached: each test
// relies on a guard answering first.
func newTestEngine(t *testing.T, g Guards) (*gin.Engine, *merchant.MerchantStore, []*DomainGroup) {
	t.Helper()

	store, err := merchant.NewMerchantStore("DEFAULT", "Default store", "shop@example.com")
	require.NoError(t, err)
	setStore := func(c *gin.Context) {
		c.Set(middleware.StoreKey, store)
		c.Next()
	}

	engine := gin.New()
	r := NewRouter(engine).Use(setStore)
	groups := RegisterAPI(r, Handlers{}, g)
	RegisterStatic(engine, Handlers{}, setStore)
	RegisterSystem(engine, r, nil)
	r.Setup()
	return engine, store, groups
}

func TestRegisterAPI_Routes(t *testing.T) {
	engine, _, groups := newTestEngine(t, Guards{})

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /health",
		"GET /ready",
		"GET /api/v1/system/info",
		"GET /api/v1/store/:code",
		"GET /api/v1/products/slug/:seUrl",
		"GET /api/v1/products/:id/variants/images",
		"POST /api/v1/customer/register",
		"POST /api/v1/shipping/quote",
		"GET /api/v1/auth/customer/orders/:id",
		"GET /api/v1/orders/download/:id",
		"POST /api/v1/auth/login",
		"POST /api/v1/private/logout",
		"GET /api/v1/private/users/me",
		"DELETE /api/v1/private/stores/:code",
		"PUT /api/v1/private/products/:id/images/:imageId/default",
		"GET /api/v1/private/orders/:id/invoice",
		"PUT /api/v1/private/products/:id/availability",
		"POST /api/v1/private/availability/:availabilityId/adjust",
		"POST /api/v1/private/content/folders/remove",
		"PUT /api/v1/private/shipping/configuration",
		"POST /api/v1/private/search/index",
		"GET /static/products/:sku/:size/:name",
		"GET /static/files/:type/:name",
	}
	for _, route := range expected {
		assert.True(t, registered[route], "route %s should be registered", route)
	}

	// every declared route is mounted below the API prefix
	for _, group := range groups {
		for _, info := range group.Routes() {
			assert.True(t, registered[info.Method+" /api/v1"+info.Path], "route %s %s of %s", info.Method, info.Path, info.Group)
		}
	}
}

func TestRegisterAPI_Guards(t *testing.T) {
	t.Run("administration requires an admin token", func(t *testing.T) {
		engine, _, _ := newTestEngine(t, Guards{Admin: abortWith(http.StatusUnauthorized)})
		assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/private/orders").Code)
		assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodGet, "/api/v1/private/users/me").Code)
	})

	t.Run("group restrictions apply per area", func(t *testing.T) {
		claims := &auth.Claims{Principal: auth.PrincipalAdmin, Groups: []string{"ADMIN_CATALOGUE"}}
		engine, store, _ := newTestEngine(t, Guards{Admin: withClaims(claims)})
		claims.StoreID = store.ID.String()

		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/private/users").Code)
		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/private/orders").Code)
		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodPut, "/api/v1/private/shipping/origin").Code)
	})

	t.Run("tokens of another store are refused", func(t *testing.T) {
		claims := &auth.Claims{Principal: auth.PrincipalCustomer, StoreID: uuid.NewString()}
		engine, _, _ := newTestEngine(t, Guards{Customer: withClaims(claims)})
		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/auth/customer/profile").Code)
		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/orders/download/"+uuid.NewString()).Code)
	})

	t.Run("captcha protects registration and reset requests", func(t *testing.T) {
		engine, _, _ := newTestEngine(t, Guards{Captcha: abortWith(http.StatusBadRequest)})
		assert.Equal(t, http.StatusBadRequest, serve(engine, http.MethodPost, "/api/v1/customer/register").Code)
		assert.Equal(t, http.StatusBadRequest, serve(engine, http.MethodPost, "/api/v1/customer/password/reset/request").Code)
	})

	t.Run("sign-in is throttled", func(t *testing.T) {
		engine, _, _ := newTestEngine(t, Guards{Login: abortWith(http.StatusTooManyRequests)})
		assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodPost, "/api/v1/auth/login").Code)
		assert.Equal(t, http.StatusTooManyRequests, serve(engine, http.MethodPost, "/api/v1/customer/login").Code)
	})
}
