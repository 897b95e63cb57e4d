package handler

import (
	"net/http"
	"strings"
	"testing"

	merchantapp "github.com/salesmanager/backend/internal/application/merchant"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/reference"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

func newStoreHandler() (*StoreHandler, *MockStoreRepository, *MockLanguageRepository) {
	storeRepo := new(MockStoreRepository)
	langRepo := new(MockLanguageRepository)
	service := merchantapp.NewStoreService(storeRepo, langRepo, zap.NewNop())
	return NewStoreHandler(service), storeRepo, langRepo
}

func TestStoreHandler_Get(t *testing.T) {
	h, storeRepo, _ := newStoreHandler()
	store := testStore("DEFAULT")
	storeRepo.On("FindByCode", mock.Anything, "DEFAULT").Return(store, nil)
	storeRepo.On("FindByCode", mock.Anything, "MISSING").Return(nil, shared.ErrNotFound)

	c, w := newTestContext(http.MethodGet, "/api/v1/store/DEFAULT", nil)
	c.AddParam("code", "DEFAULT")
	h.Get(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "DEFAULT", gjson.Get(w.Body.String(), "data.code").String())

	c, w = newTestContext(http.MethodGet, "/api/v1/store/MISSING", nil)
	c.AddParam("code", "MISSING")
	h.Get(c)
	assert.Equal(t, http.StatusNotFound, w.Code)

	storeRepo.AssertExpectations(t)
}

func TestStoreHandler_Children(t *testing.T) {
	t.Run("other store administrator is refused", func(t *testing.T) {
		h, storeRepo, _ := newStoreHandler()
		c, w := newTestContext(http.MethodGet, "/api/v1/private/stores/RETAIL/children", nil)
		c.AddParam("code", "RETAIL")
		withAdmin(c, "DEFAULT", "ADMIN")

		h.Children(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
		storeRepo.AssertNotCalled(t, "FindByCode", mock.Anything, mock.Anything)
	})

	t.Run("superadmin sees any retailer", func(t *testing.T) {
		h, storeRepo, _ := newStoreHandler()
		retailer := testStore("RETAIL")
		retailer.Retailer = true
		child := testStore("CHILD")
		storeRepo.On("FindByCode", mock.Anything, "RETAIL").Return(retailer, nil)
		storeRepo.On("FindChildren", mock.Anything, retailer.ID).Return([]merchant.MerchantStore{*child}, nil)

		c, w := newTestContext(http.MethodGet, "/api/v1/private/stores/RETAIL/children", nil)
		c.AddParam("code", "RETAIL")
		withAdmin(c, "DEFAULT", "SUPERADMIN")

		h.Children(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "CHILD", gjson.Get(w.Body.String(), "data.0.code").String())
	})
}

func TestStoreHandler_Create(t *testing.T) {
	t.Run("duplicate code", func(t *testing.T) {
		h, storeRepo, _ := newStoreHandler()
		storeRepo.On("ExistsByCode", mock.Anything, "SHOP").Return(true, nil)

		c, w := newTestContext(http.MethodPost, "/api/v1/private/stores",
			strings.NewReader(`{"code":"SHOP","name":"Shop","email":"shop@example.com"}`))
		h.Create(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		storeRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("missing required fields", func(t *testing.T) {
		h, _, _ := newStoreHandler()
		c, w := newTestContext(http.MethodPost, "/api/v1/private/stores", strings.NewReader(`{"code":"SHOP"}`))
		h.Create(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStoreHandler_DeleteDefault(t *testing.T) {
	h, storeRepo, _ := newStoreHandler()
	c, w := newTestContext(http.MethodDelete, "/api/v1/private/stores/DEFAULT", nil)
	c.AddParam("code", merchant.DefaultStoreCode)

	h.Delete(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "DEFAULT_STORE", gjson.Get(w.Body.String(), "error.code").String())
	storeRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestStoreHandler_CodeExists(t *testing.T) {
	h, storeRepo, _ := newStoreHandler()
	storeRepo.On("ExistsByCode", mock.Anything, "DEFAULT").Return(true, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/private/stores/unique?code=DEFAULT", nil)
	h.CodeExists(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, gjson.Get(w.Body.String(), "data.exists").Bool())

	c, w = newTestContext(http.MethodGet, "/api/v1/private/stores/unique", nil)
	h.CodeExists(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStoreHandler_Languages(t *testing.T) {
	h, _, langRepo := newStoreHandler()
	langRepo.On("FindAll", mock.Anything).Return([]reference.Language{{Code: "en"}, {Code: "fr"}}, nil)

	c, w := newTestContext(http.MethodGet, "/api/v1/languages", nil)
	h.Languages(c)

	body := w.Body.String()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2), gjson.Get(body, "data.#").Int())
	assert.Equal(t, "fr", gjson.Get(body, "data.1.code").String())
}
