package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/salesmanager/backend/internal/application/catalog"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/infrastructure/criteria"
	"github.com/salesmanager/backend/internal/interfaces/http/dto"
)

var productCriteriaMapping = criteria.PagingMapping.Merge(criteria.Mapping{
	"category":     "CategoryIDs",
	"manufacturer": "Manufacturer",
	"type":         "ProductType",
	"sku":          "Sku",
	"name":         "Name",
	"available":    "AvailableOnly",
})

// ProductHandler handles product endpoints
type ProductHandler struct {
	BaseHandler
	catalog  *catalogapp.CatalogFacade
	products *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(catalog *catalogapp.CatalogFacade, products *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{catalog: catalog, products: products}
}

// bindCriteria reads the list parameters, scoping them to the request store and language
func (h *ProductHandler) bindCriteria(c *gin.Context) (catalog.ProductCriteria, bool) {
	var crit catalog.ProductCriteria
	if err := criteria.BindQuery(c, productCriteriaMapping, &crit); err != nil {
		h.HandleError(c, err)
		return crit, false
	}
	store := h.Store(c)
	crit.StoreID = store.ID
	crit.StoreCode = store.Code
	crit.Language = h.Language(c)
	return crit, true
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Description  Available products of the store matching the filters
// @Tags         products
// @Produce      json
// @Param        start query int false "Start index"
// @Param        count query int false "Max count"
// @Param        category query []string false "Category IDs" collectionFormat(csv)
// @Param        manufacturer query string false "Manufacturer"
// @Param        type query string false "Product type code"
// @Param        name query string false "Name contains"
// @Param        lang query string false "Language"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	crit, ok := h.bindCriteria(c)
	if !ok {
		return
	}
	crit.AvailableOnly = true
	page, err := h.catalog.ListProducts(c.Request.Context(), crit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Get godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	product, err := h.catalog.GetProduct(c.Request.Context(), h.Store(c).ID, id, h.Language(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// GetBySeUrl godoc
// @ID           getProductBySeUrl
// @Summary      Get a product by its friendly url in the request language
// @Tags         products
// @Produce      json
// @Param        seUrl path string true "Friendly url"
// @Param        lang query string false "Language"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/slug/{seUrl} [get]
func (h *ProductHandler) GetBySeUrl(c *gin.Context) {
	product, err := h.catalog.GetProductBySeUrl(c.Request.Context(), h.Store(c).ID, h.Language(c), c.Param("seUrl"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// AdminList godoc
// @ID           listProductsAdmin
// @Summary      List every product of the store
// @Tags         products
// @Produce      json
// @Param        start query int false "Start index"
// @Param        count query int false "Max count"
// @Param        sku query string false "SKU"
// @Param        available query bool false "Available only"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /private/products [get]
func (h *ProductHandler) AdminList(c *gin.Context) {
	crit, ok := h.bindCriteria(c)
	if !ok {
		return
	}
	page, err := h.products.List(c.Request.Context(), crit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.products.Create(c.Request.Context(), h.Store(c).ID, h.Language(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.UpdateProductRequest true "Product"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.BindJSON(c, &req) {
		return
	}
	product, err := h.products.Update(c.Request.Context(), h.Store(c).ID, id, h.Language(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.products.Delete(c.Request.Context(), h.Store(c).ID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SkuExists godoc
// @ID           checkProductSku
// @Summary      Check whether a SKU is taken
// @Tags         products
// @Produce      json
// @Param        code query string true "SKU"
// @Success      200 {object} APIResponse[dto.CodeExistsResponse]
// @Security     BearerAuth
// @Router       /private/products/unique [get]
func (h *ProductHandler) SkuExists(c *gin.Context) {
	sku := c.Query("code")
	if sku == "" {
		h.BadRequest(c, "code is required")
		return
	}
	exists, err := h.products.SkuExists(c.Request.Context(), h.Store(c).ID, sku)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CodeExistsResponse{Exists: exists})
}
