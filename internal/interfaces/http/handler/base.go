package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
	"github.com/salesmanager/backend/internal/infrastructure/logger"
	"github.com/salesmanager/backend/internal/interfaces/http/dto"
	"github.com/salesmanager/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Paged sends a page of items with pagination meta
func Paged[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPagedResponse(page))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// HandleError converts application errors to HTTP responses. Server side
// failures are logged and answered with a generic message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	status := dto.StatusForError(err)
	if status >= http.StatusInternalServerError {
		logger.GetGinLogger(c).Error("Request failed", zap.Error(err))
	}

	var domainErr *shared.DomainError
	isDomain := errors.As(err, &domainErr)
	if status >= http.StatusInternalServerError || !isDomain {
		code := dto.ErrCodeInternal
		switch status {
		case http.StatusBadGateway:
			code = dto.ErrCodeIntegration
		case http.StatusServiceUnavailable:
			code = dto.ErrCodeServiceUnavailable
		}
		if status == http.StatusServiceUnavailable && domainErr != nil {
			h.Error(c, status, code, domainErr.Message)
			return
		}
		h.Error(c, status, code, "An unexpected error occurred")
		return
	}
	h.Error(c, status, domainErr.Code, domainErr.Message)
}

// BindJSON binds and validates the request body, answering 400 on failure
func (h *BaseHandler) BindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleBindError(c, err)
		return false
	}
	return true
}

// PathUUID parses a uuid path parameter, answering 400 when malformed
func (h *BaseHandler) PathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

// Store returns the merchant store resolved by the store middleware
func (h *BaseHandler) Store(c *gin.Context) *merchant.MerchantStore {
	return middleware.GetStore(c)
}

// Language returns the resolved request language
func (h *BaseHandler) Language(c *gin.Context) string {
	return middleware.GetLanguage(c)
}

// Claims returns the authenticated token claims, answering 401 when absent
func (h *BaseHandler) Claims(c *gin.Context) (*auth.Claims, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return nil, false
	}
	return claims, true
}

// Subject returns the authenticated subject id
func (h *BaseHandler) Subject(c *gin.Context) (uuid.UUID, bool) {
	claims, ok := h.Claims(c)
	if !ok {
		return uuid.Nil, false
	}
	id, err := claims.SubjectID()
	if err != nil {
		h.Unauthorized(c, "Invalid token subject")
		return uuid.Nil, false
	}
	return id, true
}

// SendFile streams a stored file as an attachment or inline
func (h *BaseHandler) SendFile(c *gin.Context, name, mimeType string, body []byte, attachment bool) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	if attachment {
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	}
	c.Data(http.StatusOK, mimeType, body)
}
