package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/interfaces/http/dto"
	"github.com/salesmanager/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestBaseHandlerSuccess(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/", nil)

	h.Success(c, map[string]string{"key": "value"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "value", gjson.Get(w.Body.String(), "data.key").String())
}

func TestBaseHandlerCreatedAndNoContent(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodPost, "/", nil)
	h.Created(c, map[string]string{"id": "123"})
	assert.Equal(t, http.StatusCreated, w.Code)

	c, w = newTestContext(http.MethodDelete, "/", nil)
	h.NoContent(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestPaged(t *testing.T) {
	c, w := newTestContext(http.MethodGet, "/", nil)

	Paged(c, shared.NewPaginated([]string{"a", "b"}, 12, 2, 2))

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), gjson.Get(body, "data.#").Int())
	assert.Equal(t, int64(12), gjson.Get(body, "meta.total").Int())
	assert.Equal(t, int64(2), gjson.Get(body, "meta.page").Int())
}

func TestBaseHandlerHandleError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{
			name:           "not found sentinel",
			err:            shared.WrapDomainError("PRODUCT_NOT_FOUND", "Product not found", shared.ErrNotFound),
			expectedStatus: http.StatusNotFound,
			expectedCode:   "PRODUCT_NOT_FOUND",
			expectedMsg:    "Product not found",
		},
		{
			name:           "already exists",
			err:            shared.WrapDomainError("ALREADY_EXISTS", "Store with this code already exists", shared.ErrAlreadyExists),
			expectedStatus: http.StatusConflict,
			expectedCode:   dto.ErrCodeAlreadyExists,
			expectedMsg:    "Store with this code already exists",
		},
		{
			name:           "invalid code prefix",
			err:            shared.NewDomainError("INVALID_PATH", "Folder path cannot contain '..'"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "INVALID_PATH",
			expectedMsg:    "Folder path cannot contain '..'",
		},
		{
			name:           "download exhausted",
			err:            shared.NewDomainError("DOWNLOAD_EXHAUSTED", "Download count exhausted"),
			expectedStatus: http.StatusGone,
			expectedCode:   "DOWNLOAD_EXHAUSTED",
			expectedMsg:    "Download count exhausted",
		},
		{
			name:           "printing disabled keeps its message",
			err:            shared.NewDomainError("PRINTING_DISABLED", "Invoice printing is not configured"),
			expectedStatus: http.StatusServiceUnavailable,
			expectedCode:   dto.ErrCodeServiceUnavailable,
			expectedMsg:    "Invoice printing is not configured",
		},
		{
			name:           "integration failure",
			err:            shared.WrapDomainError("STORAGE_FAILED", "bucket unreachable", shared.ErrIntegration),
			expectedStatus: http.StatusBadGateway,
			expectedCode:   dto.ErrCodeIntegration,
			expectedMsg:    "An unexpected error occurred",
		},
		{
			name:           "plain error is hidden",
			err:            fmt.Errorf("pq: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   dto.ErrCodeInternal,
			expectedMsg:    "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &BaseHandler{}
			c, w := newTestContext(http.MethodGet, "/", nil)
			c.Set(middleware.RequestIDKey, "req-1")

			h.HandleError(c, tt.err)

			body := w.Body.String()
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.False(t, gjson.Get(body, "success").Bool())
			assert.Equal(t, tt.expectedCode, gjson.Get(body, "error.code").String())
			assert.Equal(t, tt.expectedMsg, gjson.Get(body, "error.message").String())
			assert.Equal(t, "req-1", gjson.Get(body, "error.request_id").String())
			require.Len(t, c.Errors, 1)
			assert.True(t, errors.Is(c.Errors[0].Err, tt.err))
		})
	}
}

func TestBaseHandlerHandleErrorNil(t *testing.T) {
	h := &BaseHandler{}
	c, w := newTestContext(http.MethodGet, "/", nil)
	h.HandleError(c, nil)
	assert.Empty(t, w.Body.String())
	assert.Empty(t, c.Errors)
}

func TestBaseHandlerPathUUID(t *testing.T) {
	h := &BaseHandler{}

	id := uuid.New()
	c, _ := newTestContext(http.MethodGet, "/", nil)
	c.AddParam("id", id.String())
	got, ok := h.PathUUID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	c, w := newTestContext(http.MethodGet, "/", nil)
	c.AddParam("id", "not-a-uuid")
	_, ok = h.PathUUID(c, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid id format", gjson.Get(w.Body.String(), "error.message").String())
}

func TestBaseHandlerClaims(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext(http.MethodGet, "/", nil)
	_, ok := h.Claims(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	c, _ = newTestContext(http.MethodGet, "/", nil)
	claims := withAdmin(c, "DEFAULT", "ADMIN")
	id, ok := h.Subject(c)
	require.True(t, ok)
	assert.Equal(t, claims.Subject, id.String())
}

func TestBaseHandlerSendFile(t *testing.T) {
	h := &BaseHandler{}

	c, w := newTestContext(http.MethodGet, "/", nil)
	h.SendFile(c, "manual.pdf", "application/pdf", []byte("%PDF"), true)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="manual.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF", w.Body.String())

	c, w = newTestContext(http.MethodGet, "/", nil)
	h.SendFile(c, "logo", "", []byte{1, 2}, false)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "application/octet-stream", w.Header().Get("Content-Type"))
}
