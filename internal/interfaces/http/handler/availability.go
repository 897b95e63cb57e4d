package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/salesmanager/backend/internal/application/catalog"
)

// AvailabilityHandler handles product stock endpoints
type AvailabilityHandler struct {
	BaseHandler
	availability *catalogapp.ProductAvailabilityService
}

// NewAvailabilityHandler creates a new AvailabilityHandler
func NewAvailabilityHandler(availability *catalogapp.ProductAvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

// ListByProduct godoc
// @ID           listProductAvailability
// @Summary      Availability records of a product
// @Tags         availability
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[[]catalogapp.AvailabilityResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/products/{id}/availability [get]
func (h *AvailabilityHandler) ListByProduct(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	list, err := h.availability.GetByProduct(c.Request.Context(), h.Store(c).ID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// ListByRegion godoc
// @ID           listRegionAvailability
// @Summary      Availability records of the store in a region
// @Tags         availability
// @Produce      json
// @Param        region query string false "Region code, * for all regions"
// @Success      200 {object} APIResponse[[]catalogapp.AvailabilityResponse]
// @Security     BearerAuth
// @Router       /private/availability [get]
func (h *AvailabilityHandler) ListByRegion(c *gin.Context) {
	list, err := h.availability.GetByStoreAndRegion(c.Request.Context(), h.Store(c).ID, c.DefaultQuery("region", "*"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Save godoc
// @ID           saveProductAvailability
// @Summary      Create or update the availability of a product in a region
// @Tags         availability
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.AvailabilityRequest true "Availability"
// @Success      200 {object} APIResponse[catalogapp.AvailabilityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/products/{id}/availability [put]
func (h *AvailabilityHandler) Save(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.AvailabilityRequest
	if !h.BindJSON(c, &req) {
		return
	}
	a, err := h.availability.Save(c.Request.Context(), h.Store(c).ID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// Adjust godoc
// @ID           adjustStock
// @Summary      Change the quantity of an availability record
// @Description  Refused when the quantity would become negative
// @Tags         availability
// @Accept       json
// @Produce      json
// @Param        availabilityId path string true "Availability ID"
// @Param        request body catalogapp.AdjustStockRequest true "Delta"
// @Success      200 {object} APIResponse[catalogapp.AvailabilityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/availability/{availabilityId}/adjust [post]
func (h *AvailabilityHandler) Adjust(c *gin.Context) {
	id, ok := h.PathUUID(c, "availabilityId")
	if !ok {
		return
	}
	var req catalogapp.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}
	a, err := h.availability.Adjust(c.Request.Context(), h.Store(c).ID, id, req.Delta)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// Delete godoc
// @ID           deleteAvailability
// @Summary      Remove an availability record
// @Tags         availability
// @Param        availabilityId path string true "Availability ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/availability/{availabilityId} [delete]
func (h *AvailabilityHandler) Delete(c *gin.Context) {
	id, ok := h.PathUUID(c, "availabilityId")
	if !ok {
		return
	}
	if err := h.availability.Delete(c.Request.Context(), h.Store(c).ID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
