package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
	"github.com/salesmanager/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// Revocations is optional; revoked tokens and invalidated subjects are refused
	Revocations auth.RevocationList
	// Principal restricts the accepted tokens to admins or customers
	Principal auth.Principal
	Logger    *zap.Logger
}

// JWTAuth authenticates requests with a bearer access token
func JWTAuth(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		raw, ok := bearerToken(c)
		if !ok {
			handleAuthError(c, cfg, auth.ErrInvalidToken, "Missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(raw)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}
		if cfg.Principal != "" && claims.Principal != cfg.Principal {
			handleAuthError(c, cfg, auth.ErrInvalidTokenType, "Token issued to another principal")
			return
		}

		if cfg.Revocations != nil {
			ctx := c.Request.Context()
			// revocation lookups fail open
			if claims.ID != "" {
				revoked, err := cfg.Revocations.IsRevoked(ctx, claims.ID)
				if err != nil {
					cfg.Logger.Error("Failed to check token revocation", zap.String("jti", claims.ID), zap.Error(err))
				} else if revoked {
					handleAuthError(c, cfg, auth.ErrTokenRevoked, "Token has been revoked")
					return
				}
			}
			if claims.IssuedAt != nil {
				revoked, err := cfg.Revocations.IsSubjectRevoked(ctx, claims.Subject, claims.IssuedAt.Time)
				if err != nil {
					cfg.Logger.Error("Failed to check subject revocation", zap.String("subject", claims.Subject), zap.Error(err))
				} else if revoked {
					handleAuthError(c, cfg, auth.ErrTokenRevoked, "Session has been invalidated")
					return
				}
			}
		}

		c.Set(ClaimsKey, claims)
		ctx := logger.WithUserID(c.Request.Context(), claims.Subject)
		c.Request = c.Request.WithContext(ctx)

		cfg.Logger.Debug("JWT authentication successful",
			zap.String("subject", claims.Subject),
			zap.String("principal", string(claims.Principal)),
			zap.String("store", claims.StoreCode),
		)
		c.Next()
	}
}

// OptionalJWTAuth extracts claims when a valid token is present and lets
// anonymous requests through
func OptionalJWTAuth(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, ok := bearerToken(c); ok {
			if claims, err := jwtService.ValidateAccessToken(raw); err == nil {
				c.Set(ClaimsKey, claims)
				c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.Subject))
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
	return raw, raw != ""
}

// handleAuthError answers 401 with a code naming the failure
func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	cfg.Logger.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code, text := "UNAUTHORIZED", "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, text = "TOKEN_EXPIRED", "Token has expired"
	case errors.Is(err, auth.ErrInvalidTokenType):
		code, text = "INVALID_TOKEN_TYPE", "Invalid token type"
	case errors.Is(err, auth.ErrTokenNotYetValid):
		code, text = "TOKEN_NOT_VALID", "Token is not yet valid"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, text = "TOKEN_REVOKED", "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims):
		code, text = "INVALID_TOKEN", "Invalid token"
	}
	abort(c, http.StatusUnauthorized, code, text)
}
