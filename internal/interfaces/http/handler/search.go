package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	searchapp "github.com/salesmanager/backend/internal/application/search"
)

// SearchHandler handles product search requests
type SearchHandler struct {
	BaseHandler
	searchFacade *searchapp.SearchFacade
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchFacade *searchapp.SearchFacade) *SearchHandler {
	return &SearchHandler{searchFacade: searchFacade}
}

// Search godoc
// @ID           searchProducts
// @Summary      Search available products by name
// @Tags         search
// @Produce      json
// @Param        q query string true "Query"
// @Param        start query int false "Start index"
// @Param        count query int false "Max count"
// @Param        lang query string false "Language"
// @Success      200 {object} APIResponse[searchapp.SearchResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	start, _ := strconv.Atoi(c.Query("start"))
	count, _ := strconv.Atoi(c.Query("count"))
	resp, err := h.searchFacade.Search(c.Request.Context(), h.Store(c), h.Language(c), c.Query("q"), start, count)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Autocomplete godoc
// @ID           autocompleteProducts
// @Summary      Suggest product names starting with a prefix
// @Tags         search
// @Produce      json
// @Param        q query string true "Prefix"
// @Param        count query int false "Max suggestions"
// @Param        lang query string false "Language"
// @Success      200 {object} APIResponse[[]string]
// @Router       /search/autocomplete [get]
func (h *SearchHandler) Autocomplete(c *gin.Context) {
	count, _ := strconv.Atoi(c.Query("count"))
	values, err := h.searchFacade.Autocomplete(c.Request.Context(), h.Store(c), h.Language(c), c.Query("q"), count)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if values == nil {
		values = []string{}
	}
	h.Success(c, values)
}

// Reindex godoc
// @ID           reindexProducts
// @Summary      Rebuild the autocomplete index of the store
// @Tags         search
// @Produce      json
// @Success      200 {object} APIResponse[CountData]
// @Security     BearerAuth
// @Router       /private/search/index [post]
func (h *SearchHandler) Reindex(c *gin.Context) {
	n, err := h.searchFacade.Reindex(c.Request.Context(), h.Store(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, CountData{Count: int64(n)})
}
