package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/salesmanager/backend/internal/application/catalog"
	"github.com/salesmanager/backend/internal/interfaces/http/dto"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	BaseHandler
	catalog    *catalogapp.CatalogFacade
	categories *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(catalog *catalogapp.CatalogFacade, categories *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog, categories: categories}
}

// List godoc
// @ID           listCategories
// @Summary      Category tree of the store
// @Description  Visible categories nested by parent, localized in the request language
// @Tags         categories
// @Produce      json
// @Param        store query string false "Store code"
// @Param        lang query string false "Language"
// @Success      200 {object} APIResponse[[]catalogapp.CategoryResponse]
// @Router       /category [get]
func (h *CategoryHandler) List(c *gin.Context) {
	tree, err := h.catalog.ListCategories(c.Request.Context(), h.Store(c).ID, h.Language(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tree)
}

// Get godoc
// @ID           getCategory
// @Summary      Get a category
// @Tags         categories
// @Produce      json
// @Param        id path string true "Category ID"
// @Success      200 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /category/{id} [get]
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	category, err := h.catalog.GetCategory(c.Request.Context(), h.Store(c).ID, id, h.Language(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// GetBySeUrl godoc
// @ID           getCategoryBySeUrl
// @Summary      Get a category by its friendly url
// @Tags         categories
// @Produce      json
// @Param        seUrl path string true "Friendly url"
// @Success      200 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /category/slug/{seUrl} [get]
func (h *CategoryHandler) GetBySeUrl(c *gin.Context) {
	category, err := h.categories.GetBySeUrl(c.Request.Context(), h.Store(c).ID, h.Language(c), c.Param("seUrl"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// AdminTree godoc
// @ID           listCategoriesAdmin
// @Summary      Full category tree including hidden categories
// @Tags         categories
// @Produce      json
// @Success      200 {object} APIResponse[[]catalogapp.CategoryResponse]
// @Security     BearerAuth
// @Router       /private/categories [get]
func (h *CategoryHandler) AdminTree(c *gin.Context) {
	tree, err := h.categories.Tree(c.Request.Context(), h.Store(c).ID, h.Language(c), true)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tree)
}

// Children godoc
// @ID           listCategoryChildren
// @Summary      Direct children of a category, or the roots without parent
// @Tags         categories
// @Produce      json
// @Param        parent query string false "Parent category ID"
// @Success      200 {object} APIResponse[[]catalogapp.CategoryResponse]
// @Security     BearerAuth
// @Router       /private/categories/children [get]
func (h *CategoryHandler) Children(c *gin.Context) {
	var parent *uuid.UUID
	if raw := c.Query("parent"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid parent format")
			return
		}
		parent = &id
	}
	children, err := h.categories.Children(c.Request.Context(), h.Store(c).ID, parent, h.Language(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, children)
}

// Create godoc
// @ID           createCategory
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateCategoryRequest true "Category"
// @Success      201 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/categories [post]
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	category, err := h.categories.Create(c.Request.Context(), h.Store(c).ID, h.Language(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// Update godoc
// @ID           updateCategory
// @Summary      Update or move a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id path string true "Category ID"
// @Param        request body catalogapp.UpdateCategoryRequest true "Category"
// @Success      200 {object} APIResponse[catalogapp.CategoryResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/categories/{id} [put]
func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateCategoryRequest
	if !h.BindJSON(c, &req) {
		return
	}
	category, err := h.categories.Update(c.Request.Context(), h.Store(c).ID, id, h.Language(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete godoc
// @ID           deleteCategory
// @Summary      Delete a category without children
// @Tags         categories
// @Param        id path string true "Category ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.categories.Delete(c.Request.Context(), h.Store(c).ID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CodeExists godoc
// @ID           checkCategoryCode
// @Summary      Check whether a category code is taken
// @Description  Answers the admin console AJAX envelope; status 9998 means the code exists
// @Tags         categories
// @Produce      json
// @Param        code query string true "Category code"
// @Success      200 {object} object
// @Security     BearerAuth
// @Router       /private/categories/unique [get]
func (h *CategoryHandler) CodeExists(c *gin.Context) {
	exists, err := h.categories.CodeExists(c.Request.Context(), h.Store(c).ID, c.Query("code"))
	codeExistsAjax(c, exists, err)
}

// codeExistsAjax answers a uniqueness check with the AJAX envelope
func codeExistsAjax(c *gin.Context, exists bool, err error) {
	resp := dto.NewAjaxResponse(dto.ResponseStatusSuccess)
	switch {
	case err != nil:
		resp.SetErrorMessage(err)
	case exists:
		resp.Status = dto.ResponseStatusCodeAlreadyExist
	}
	resp.Send(c)
}
