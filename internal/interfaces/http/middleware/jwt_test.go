package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/domain/user"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
	"github.com/salesmanager/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "middleware-test-secret-32-chars!!",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "salesmanager-test",
		MaxRefreshCount:        3,
	})
}

func issue(t *testing.T, svc *auth.JWTService, in auth.TokenInput) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(in)
	require.NoError(t, err)
	return pair.AccessToken
}

func adminToken(t *testing.T, svc *auth.JWTService, storeID uuid.UUID, groups ...user.Group) string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = string(g)
	}
	return issue(t, svc, auth.TokenInput{
		Principal: auth.PrincipalAdmin,
		SubjectID: uuid.New(),
		StoreID:   storeID,
		StoreCode: merchant.DefaultStoreCode,
		Username:  "admin",
		Groups:    names,
	})
}

func authRequest(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if token != "" {
		req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	}
	return req
}

type failingRevocations struct {
	auth.RevocationList
}

func (failingRevocations) IsRevoked(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}

func (failingRevocations) IsSubjectRevoked(context.Context, string, time.Time) (bool, error) {
	return false, errors.New("redis down")
}

func TestJWTAuth(t *testing.T) {
	svc := testJWTService()
	revocations := auth.NewMemoryRevocationList()

	r := gin.New()
	r.Use(RequestID(), JWTAuth(JWTMiddlewareConfig{
		JWTService:  svc,
		Revocations: revocations,
		Principal:   auth.PrincipalAdmin,
	}))
	r.GET("/test", func(c *gin.Context) {
		claims := GetClaims(c)
		c.String(http.StatusOK, claims.Username)
	})

	t.Run("valid admin token", func(t *testing.T) {
		w := serve(r, authRequest(adminToken(t, svc, uuid.New(), user.GroupAdmin)))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "admin", w.Body.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := serve(r, authRequest(""))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", errorCode(t, w))
	})

	t.Run("garbage token", func(t *testing.T) {
		w := serve(r, authRequest("not-a-jwt"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", errorCode(t, w))
	})

	t.Run("customer token on admin route", func(t *testing.T) {
		token := issue(t, svc, auth.TokenInput{
			Principal: auth.PrincipalCustomer,
			SubjectID: uuid.New(),
			StoreID:   uuid.New(),
			StoreCode: merchant.DefaultStoreCode,
		})
		w := serve(r, authRequest(token))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN_TYPE", errorCode(t, w))
	})

	t.Run("revoked jti", func(t *testing.T) {
		token := adminToken(t, svc, uuid.New(), user.GroupAdmin)
		claims, err := svc.ValidateAccessToken(token)
		require.NoError(t, err)
		require.NoError(t, revocations.Revoke(context.Background(), claims.ID, time.Minute))

		w := serve(r, authRequest(token))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "TOKEN_REVOKED", errorCode(t, w))
	})

	t.Run("revocation outage fails open", func(t *testing.T) {
		open := gin.New()
		open.Use(JWTAuth(JWTMiddlewareConfig{JWTService: svc, Revocations: failingRevocations{}}))
		open.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := serve(open, authRequest(adminToken(t, svc, uuid.New())))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestHandleAuthErrorCodes(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{auth.ErrExpiredToken, "TOKEN_EXPIRED"},
		{auth.ErrInvalidTokenType, "INVALID_TOKEN_TYPE"},
		{auth.ErrTokenNotYetValid, "TOKEN_NOT_VALID"},
		{auth.ErrTokenRevoked, "TOKEN_REVOKED"},
		{auth.ErrInvalidClaims, "INVALID_TOKEN"},
		{errors.New("other"), "ERR_UNAUTHORIZED"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			r := gin.New()
			r.GET("/test", func(c *gin.Context) {
				handleAuthError(c, JWTMiddlewareConfig{Logger: zap.NewNop()}, tt.err, "failed")
			})
			w := serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, tt.code, errorCode(t, w))
		})
	}
}

func TestOptionalJWTAuth(t *testing.T) {
	svc := testJWTService()
	r := gin.New()
	r.Use(OptionalJWTAuth(svc))
	r.GET("/test", func(c *gin.Context) {
		if GetClaims(c) == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, "authenticated")
	})

	assert.Equal(t, "anonymous", serve(r, authRequest("")).Body.String())
	assert.Equal(t, "anonymous", serve(r, authRequest("broken")).Body.String())
	assert.Equal(t, "authenticated", serve(r, authRequest(adminToken(t, svc, uuid.New()))).Body.String())
}

func storeWithID(id uuid.UUID) *merchant.MerchantStore {
	s := &merchant.MerchantStore{Code: merchant.DefaultStoreCode, DefaultLanguage: "en", SupportedLanguages: "en"}
	s.ID = id
	return s
}

type staticResolver struct {
	stores map[string]*merchant.MerchantStore
}

func (r staticResolver) Resolve(_ context.Context, code string) (*merchant.MerchantStore, error) {
	if s, ok := r.stores[code]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func TestRequireGroups(t *testing.T) {
	svc := testJWTService()
	r := gin.New()
	r.Use(JWTAuth(JWTMiddlewareConfig{JWTService: svc}), RequireGroups(user.GroupAdmin, user.GroupAdminCatalogue))
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name   string
		groups []user.Group
		status int
	}{
		{"member", []user.Group{user.GroupAdminCatalogue}, http.StatusOK},
		{"superadmin", []user.Group{user.GroupSuperAdmin}, http.StatusOK},
		{"other group", []user.Group{user.GroupAdminOrder}, http.StatusForbidden},
		{"no group", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(r, authRequest(adminToken(t, svc, uuid.New(), tt.groups...)))
			assert.Equal(t, tt.status, w.Code)
		})
	}

	t.Run("no claims", func(t *testing.T) {
		bare := newRouter(RequireGroups(user.GroupAdmin))
		assert.Equal(t, http.StatusUnauthorized, serve(bare, authRequest("")).Code)
	})
}

func TestRequireStoreAccess(t *testing.T) {
	svc := testJWTService()
	storeID := uuid.New()
	resolver := staticResolver{stores: map[string]*merchant.MerchantStore{
		merchant.DefaultStoreCode: storeWithID(storeID),
	}}

	r := gin.New()
	r.Use(MerchantStore(resolver), JWTAuth(JWTMiddlewareConfig{JWTService: svc}), RequireStoreAccess())
	r.GET("/test", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, serve(r, authRequest(adminToken(t, svc, storeID, user.GroupAdmin))).Code)
	assert.Equal(t, http.StatusForbidden, serve(r, authRequest(adminToken(t, svc, uuid.New(), user.GroupAdmin))).Code)
	assert.Equal(t, http.StatusOK, serve(r, authRequest(adminToken(t, svc, uuid.New(), user.GroupSuperAdmin))).Code)
}
