package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "v1", r.apiVersion)
	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.registrars)

	r = NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "/api/v2", r.BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	group := NewDomainGroup("catalog", "/catalog")
	group.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	r.Register(group).Setup()

	w := serve(engine, http.MethodGet, "/api/v1/catalog/ping")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
}

func TestRouterUse(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine).Use(func(c *gin.Context) {
		c.Header("X-Store-Code", "DEFAULT")
		c.Next()
	})

	group := NewDomainGroup("shop", "")
	group.GET("/products", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(group).Setup()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, "DEFAULT", serve(engine, http.MethodGet, "/api/v1/products").Header().Get("X-Store-Code"))
	// routes outside the API prefix are not affected
	assert.Empty(t, serve(engine, http.MethodGet, "/health").Header().Get("X-Store-Code"))
}

func TestDomainGroupMethods(t *testing.T) {
	tests := []struct {
		method   string
		register func(*DomainGroup, string, ...gin.HandlerFunc) *DomainGroup
		status   int
	}{
		{http.MethodGet, (*DomainGroup).GET, http.StatusOK},
		{http.MethodPost, (*DomainGroup).POST, http.StatusCreated},
		{http.MethodPut, (*DomainGroup).PUT, http.StatusOK},
		{http.MethodPatch, (*DomainGroup).PATCH, http.StatusOK},
		{http.MethodDelete, (*DomainGroup).DELETE, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			engine := gin.New()
			g := NewDomainGroup("orders", "/orders")
			status := tt.status
			tt.register(g, "/:id", func(c *gin.Context) { c.Status(status) })
			g.RegisterRoutes(engine.Group("/api/v1"))

			assert.Equal(t, tt.status, serve(engine, tt.method, "/api/v1/orders/123").Code)
		})
	}
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("content", "/content")
	g.Use(func(c *gin.Context) {
		c.Header("X-Test-Middleware", "applied")
		c.Next()
	})
	g.GET("/pages", func(c *gin.Context) { c.Status(http.StatusOK) })

	sub := g.Group("boxes", "/boxes")
	sub.Use(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusForbidden)
	})
	sub.GET("", func(c *gin.Context) { c.Status(http.StatusOK) })

	g.RegisterRoutes(engine.Group("/api/v1"))

	w := serve(engine, http.MethodGet, "/api/v1/content/pages")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))

	// sub-groups inherit the parent middleware and add their own
	w = serve(engine, http.MethodGet, "/api/v1/content/boxes")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
}

func TestDomainGroupRoutes(t *testing.T) {
	g := NewDomainGroup("catalog", "/catalog")
	g.GET("/products", func(c *gin.Context) {})
	categories := g.Group("categories", "/categories")
	categories.POST("", func(c *gin.Context) {})
	categories.DELETE("/:id", func(c *gin.Context) {})

	assert.Equal(t, []RouteInfo{
		{Group: "catalog", Method: http.MethodGet, Path: "/catalog/products"},
		{Group: "categories", Method: http.MethodPost, Path: "/catalog/categories"},
		{Group: "categories", Method: http.MethodDelete, Path: "/catalog/categories/:id"},
	}, g.Routes())
}
