package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/infrastructure/locale"
	"github.com/salesmanager/backend/internal/infrastructure/logger"
)

// StoreResolver loads a merchant store by code
type StoreResolver interface {
	Resolve(ctx context.Context, code string) (*merchant.MerchantStore, error)
}

// MerchantStore resolves the store a request targets from the store query
// parameter, then the X-Store-Code header, defaulting to DEFAULT
func MerchantStore(resolver StoreResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := strings.TrimSpace(c.Query("store"))
		if code == "" {
			code = strings.TrimSpace(c.GetHeader(StoreCodeHeader))
		}
		if code == "" {
			code = merchant.DefaultStoreCode
		}

		store, err := resolver.Resolve(c.Request.Context(), code)
		if err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(StoreKey, store)
		c.Set(StoreCodeKey, store.Code)
		c.Request = c.Request.WithContext(logger.WithStoreCode(c.Request.Context(), store.Code))
		c.Next()
	}
}

// Locale resolves the request language against the store's languages from
// the lang query parameter and the Accept-Language header. It must run after
// MerchantStore.
func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		def, supported := locale.Fallback, []string(nil)
		if store := GetStore(c); store != nil {
			def, supported = store.DefaultLanguage, store.Languages()
		}

		tag := locale.ResolveLocale(def, supported, c.Query("lang"), c.GetHeader("Accept-Language"))
		code := locale.Code(tag)

		c.Set(LanguageKey, code)
		c.Request = c.Request.WithContext(locale.WithLanguage(c.Request.Context(), code))
		c.Header("Content-Language", code)
		c.Next()
	}
}
