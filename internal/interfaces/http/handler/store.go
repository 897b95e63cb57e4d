package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	merchantapp "github.com/salesmanager/backend/internal/application/merchant"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/user"
	"github.com/salesmanager/backend/internal/infrastructure/criteria"
	"github.com/salesmanager/backend/internal/interfaces/http/dto"
)

var storeCriteriaMapping = criteria.PagingMapping.Merge(criteria.Mapping{
	"code":      "Code",
	"name":      "Name",
	"retailers": "Retailers",
})

// StoreHandler handles merchant store endpoints
type StoreHandler struct {
	BaseHandler
	storeService *merchantapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *merchantapp.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// Get godoc
// @ID           getStore
// @Summary      Get a merchant store
// @Description  Public description of a store by code
// @Tags         stores
// @Produce      json
// @Param        code path string true "Store code"
// @Success      200 {object} APIResponse[merchantapp.StoreResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /store/{code} [get]
func (h *StoreHandler) Get(c *gin.Context) {
	store, err := h.storeService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// List godoc
// @ID           listStores
// @Summary      List merchant stores
// @Tags         stores
// @Produce      json
// @Param        start query int false "Start index"
// @Param        count query int false "Max count"
// @Param        code query string false "Code filter"
// @Param        name query string false "Name filter"
// @Param        retailers query bool false "Retailers only"
// @Success      200 {object} APIResponse[[]merchantapp.StoreResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/stores [get]
func (h *StoreHandler) List(c *gin.Context) {
	var crit merchant.MerchantStoreCriteria
	if err := criteria.BindQuery(c, storeCriteriaMapping, &crit); err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := h.storeService.List(c.Request.Context(), crit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Children godoc
// @ID           listStoreChildren
// @Summary      List the retail children of a store
// @Tags         stores
// @Produce      json
// @Param        code path string true "Store code"
// @Success      200 {object} APIResponse[[]merchantapp.StoreResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/stores/{code}/children [get]
func (h *StoreHandler) Children(c *gin.Context) {
	if !h.canManage(c, c.Param("code")) {
		return
	}
	children, err := h.storeService.Children(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, children)
}

// Create godoc
// @ID           createStore
// @Summary      Create a merchant store
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        request body merchantapp.CreateStoreRequest true "Store"
// @Success      201 {object} APIResponse[merchantapp.StoreResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/stores [post]
func (h *StoreHandler) Create(c *gin.Context) {
	var req merchantapp.CreateStoreRequest
	if !h.BindJSON(c, &req) {
		return
	}
	store, err := h.storeService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, store)
}

// Update godoc
// @ID           updateStore
// @Summary      Update a merchant store
// @Tags         stores
// @Accept       json
// @Produce      json
// @Param        code path string true "Store code"
// @Param        request body merchantapp.UpdateStoreRequest true "Store"
// @Success      200 {object} APIResponse[merchantapp.StoreResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/stores/{code} [put]
func (h *StoreHandler) Update(c *gin.Context) {
	code := c.Param("code")
	if !h.canManage(c, code) {
		return
	}
	var req merchantapp.UpdateStoreRequest
	if !h.BindJSON(c, &req) {
		return
	}
	store, err := h.storeService.Update(c.Request.Context(), code, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// Delete godoc
// @ID           deleteStore
// @Summary      Delete a merchant store
// @Tags         stores
// @Param        code path string true "Store code"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/stores/{code} [delete]
func (h *StoreHandler) Delete(c *gin.Context) {
	if err := h.storeService.Delete(c.Request.Context(), c.Param("code")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CodeExists godoc
// @ID           checkStoreCode
// @Summary      Check whether a store code is taken
// @Tags         stores
// @Produce      json
// @Param        code query string true "Store code"
// @Success      200 {object} APIResponse[dto.CodeExistsResponse]
// @Security     BearerAuth
// @Router       /private/stores/unique [get]
func (h *StoreHandler) CodeExists(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		h.BadRequest(c, "code is required")
		return
	}
	exists, err := h.storeService.CodeExists(c.Request.Context(), code)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CodeExistsResponse{Exists: exists})
}

// Languages godoc
// @ID           listLanguages
// @Summary      List reference languages
// @Tags         stores
// @Produce      json
// @Success      200 {object} APIResponse[[]merchantapp.LanguageResponse]
// @Router       /languages [get]
func (h *StoreHandler) Languages(c *gin.Context) {
	langs, err := h.storeService.Languages(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, langs)
}

// canManage allows superadmins on every store and other administrators on their own
func (h *StoreHandler) canManage(c *gin.Context, code string) bool {
	claims, ok := h.Claims(c)
	if !ok {
		return false
	}
	if claims.InGroup(string(user.GroupSuperAdmin)) || claims.StoreCode == code {
		return true
	}
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, "Token is not valid for this store")
	return false
}
