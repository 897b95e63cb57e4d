package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/salesmanager/backend/internal/application/catalog"
)

// ProductTypeHandler handles product type endpoints
type ProductTypeHandler struct {
	BaseHandler
	types *catalogapp.ProductTypeService
}

// NewProductTypeHandler creates a new ProductTypeHandler
func NewProductTypeHandler(types *catalogapp.ProductTypeService) *ProductTypeHandler {
	return &ProductTypeHandler{types: types}
}

// List godoc
// @ID           listProductTypes
// @Summary      Product types of the store
// @Tags         product-types
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.ProductTypeResponse]
// @Security     BearerAuth
// @Router       /private/product-types [get]
func (h *ProductTypeHandler) List(c *gin.Context) {
	types, err := h.types.List(c.Request.Context(), h.Store(c).ID, h.Language(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, types)
}

// Get godoc
// @ID           getProductType
// @Summary      Get a product type
// @Tags         product-types
// @Produce      json
// @Param        id path string true "Product type ID"
// @Success      200 {object} APIResponse[catalogapp.ProductTypeResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/product-types/{id} [get]
func (h *ProductTypeHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	t, err := h.types.GetByID(c.Request.Context(), h.Store(c).ID, id, h.Language(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Create godoc
// @ID           createProductType
// @Summary      Create a product type
// @Tags         product-types
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.ProductTypeRequest true "Product type"
// @Success      201 {object} APIResponse[catalogapp.ProductTypeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/product-types [post]
func (h *ProductTypeHandler) Create(c *gin.Context) {
	var req catalogapp.ProductTypeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	t, err := h.types.Create(c.Request.Context(), h.Store(c).ID, h.Language(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, t)
}

// Update godoc
// @ID           updateProductType
// @Summary      Update a product type
// @Tags         product-types
// @Accept       json
// @Produce      json
// @Param        id path string true "Product type ID"
// @Param        request body catalogapp.ProductTypeRequest true "Product type"
// @Success      200 {object} APIResponse[catalogapp.ProductTypeResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/product-types/{id} [put]
func (h *ProductTypeHandler) Update(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ProductTypeRequest
	if !h.BindJSON(c, &req) {
		return
	}
	t, err := h.types.Update(c.Request.Context(), h.Store(c).ID, id, h.Language(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, t)
}

// Delete godoc
// @ID           deleteProductType
// @Summary      Delete a product type no product uses
// @Tags         product-types
// @Param        id path string true "Product type ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/product-types/{id} [delete]
func (h *ProductTypeHandler) Delete(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.types.Delete(c.Request.Context(), h.Store(c).ID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
