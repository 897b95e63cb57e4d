package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	goleak.VerifyTestMain(m)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := w.Body.String()
	require.True(t, gjson.Valid(body), body)
	assert.False(t, gjson.Get(body, "success").Bool())
	return gjson.Get(body, "error.code").String()
}

func TestCORS(t *testing.T) {
	r := newRouter(CORS())

	t.Run("default config sets no origin header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := serve(r, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight answers 204", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/test", nil)
		req.Header.Set("Origin", "http://shop.example")
		assert.Equal(t, http.StatusNoContent, serve(r, req).Code)
	})
}

func TestCORSWithConfig(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"http://shop.example"}
	r := newRouter(CORSWithConfig(cfg))

	t.Run("allowed origin is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "http://shop.example")
		w := serve(r, req)

		assert.Equal(t, "http://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), StoreCodeHeader)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), CaptchaHeader)
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unknown origin is ignored", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "http://other.example")
		assert.Empty(t, serve(r, req).Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard", func(t *testing.T) {
		wr := newRouter(CORSWithConfig(CORSConfig{AllowOrigins: []string{"*"}, AllowMethods: []string{"GET"}}))
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Origin", "http://any.example")
		assert.Equal(t, "*", serve(wr, req).Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	tests := []struct {
		name     string
		header   string
		generate bool
	}{
		{"generated when absent", "", true},
		{"client id kept", "req-123", false},
		{"oversized id replaced", strings.Repeat("x", MaxRequestIDLength+1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.header != "" {
				req.Header.Set(RequestIDHeader, tt.header)
			}
			w := serve(r, req)

			id := w.Header().Get(RequestIDHeader)
			assert.Equal(t, id, w.Body.String())
			if tt.generate {
				assert.Len(t, id, 36)
			} else {
				assert.Equal(t, tt.header, id)
			}
		})
	}
}

func TestSecureWithConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		w := serve(newRouter(Secure()), httptest.NewRequest(http.MethodGet, "/test", nil))

		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("hsts", func(t *testing.T) {
		cfg := DefaultSecurityConfig()
		cfg.HSTSEnabled = true
		w := serve(newRouter(SecureWithConfig(cfg)), httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
	})
}

func TestBodyLimit(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), BodyLimit(16))
	r.POST("/test", func(c *gin.Context) {
		var body map[string]any
		if err := c.ShouldBindJSON(&body); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.Status(http.StatusOK)
	})

	t.Run("small body passes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"a":1}`))
		req.Header.Set("Content-Type", "application/json")
		assert.Equal(t, http.StatusOK, serve(r, req).Code)
	})

	t.Run("declared length too large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(`{"name":"a long value"}`))
		req.Header.Set("Content-Type", "application/json")
		w := serve(r, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "ERR_REQUEST_TOO_LARGE", errorCode(t, w))
		assert.NotEmpty(t, gjson.Get(w.Body.String(), "error.request_id").String())
	})

	t.Run("zero disables", func(t *testing.T) {
		open := gin.New()
		open.Use(BodyLimit(0))
		open.POST("/test", func(c *gin.Context) { c.Status(http.StatusOK) })
		req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(strings.Repeat("x", 1024)))
		assert.Equal(t, http.StatusOK, serve(open, req).Code)
	})
}

func TestRateLimit(t *testing.T) {
	limiter := NewRateLimiter(2, time.Minute, 2)
	defer limiter.Close()
	r := newRouter(RequestID(), RateLimit(limiter))

	request := func(store string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		if store != "" {
			req.Header.Set(StoreCodeHeader, store)
		}
		return serve(r, req)
	}

	first := request("")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, http.StatusOK, request("").Code)

	blocked := request("")
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "ERR_RATE_LIMITED", errorCode(t, blocked))
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	// another store gets its own bucket
	assert.Equal(t, http.StatusOK, request("OTHER").Code)
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0, 0, 0)
	defer limiter.Close()

	assert.Equal(t, 1, limiter.Remaining("k"))
	assert.True(t, limiter.Allow("k"))
	assert.False(t, limiter.Allow("k"))
	assert.Equal(t, 0, limiter.Remaining("k"))

	limiter.Close()
}
