package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salesmanager/backend/internal/domain/user"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
	"github.com/salesmanager/backend/internal/interfaces/http/dto"
)

// RequireGroups lets through administrators belonging to any of the groups.
// SUPERADMIN passes every check.
func RequireGroups(groups ...user.Group) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil || claims.Principal != auth.PrincipalAdmin {
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if claims.InGroup(string(user.GroupSuperAdmin)) {
			c.Next()
			return
		}
		for _, g := range groups {
			if claims.InGroup(string(g)) {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, dto.ErrCodeForbidden, "Insufficient permissions")
	}
}

// RequireStoreAccess refuses tokens bound to another store than the one the
// request targets. Superadmins may act on every store.
func RequireStoreAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		store := GetStore(c)
		if claims == nil || store == nil {
			abort(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if claims.Principal == auth.PrincipalAdmin && claims.InGroup(string(user.GroupSuperAdmin)) {
			c.Next()
			return
		}
		if claims.StoreID != store.ID.String() {
			abort(c, http.StatusForbidden, dto.ErrCodeForbidden, "Token is not valid for this store")
			return
		}
		c.Next()
	}
}
