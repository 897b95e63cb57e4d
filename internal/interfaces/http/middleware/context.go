// Package middleware provides the gin middleware chain of the storefront API.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
	"github.com/salesmanager/backend/internal/infrastructure/locale"
	"github.com/salesmanager/backend/internal/interfaces/http/dto"
)

// Gin context keys set by the middleware chain
const (
	RequestIDKey = "request_id"
	ClaimsKey    = "jwt_claims"
	StoreKey     = "merchant_store"
	StoreCodeKey = "store_code"
	LanguageKey  = "language"

	RequestIDHeader = "X-Request-ID"
	StoreCodeHeader = "X-Store-Code"
	CaptchaHeader   = "X-Recaptcha-Response"
	AuthHeaderKey   = "Authorization"
	BearerPrefix    = "Bearer "
)

// GetRequestID returns the request id assigned by RequestID
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(RequestIDKey); id != "" {
		return id
	}
	id := c.GetHeader(RequestIDHeader)
	if len(id) > MaxRequestIDLength {
		return id[:MaxRequestIDLength]
	}
	return id
}

// GetClaims returns the validated token claims, or nil on anonymous requests
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetStore returns the merchant store resolved for the request
func GetStore(c *gin.Context) *merchant.MerchantStore {
	if v, ok := c.Get(StoreKey); ok {
		if store, ok := v.(*merchant.MerchantStore); ok {
			return store
		}
	}
	return nil
}

// GetLanguage returns the resolved language code
func GetLanguage(c *gin.Context) string {
	if lang := c.GetString(LanguageKey); lang != "" {
		return lang
	}
	return locale.FromContext(c.Request.Context())
}

// abort answers with the standard error envelope and stops the chain
func abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}

// abortWithError derives status and code from an application error
func abortWithError(c *gin.Context, err error) {
	code := dto.ErrCodeInternal
	message := "An unexpected error occurred"
	status := dto.StatusForError(err)
	if status < 500 {
		code, message = errorCodeAndMessage(err)
	}
	_ = c.Error(err)
	abort(c, status, code, message)
}
