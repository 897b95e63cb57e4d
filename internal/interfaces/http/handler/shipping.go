package handler

import (
	"github.com/gin-gonic/gin"
	shippingapp "github.com/salesmanager/backend/internal/application/shipping"
)

// ShippingHandler handles shipping origin, configuration and quote requests
type ShippingHandler struct {
	BaseHandler
	shippingService *shippingapp.ShippingService
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(shippingService *shippingapp.ShippingService) *ShippingHandler {
	return &ShippingHandler{shippingService: shippingService}
}

// GetOrigin godoc
// @ID           getShippingOrigin
// @Summary      Shipping origin of the store
// @Tags         shipping
// @Produce      json
// @Success      200 {object} APIResponse[shippingapp.OriginResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/shipping/origin [get]
func (h *ShippingHandler) GetOrigin(c *gin.Context) {
	resp, err := h.shippingService.GetOrigin(c.Request.Context(), h.Store(c).ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SaveOrigin godoc
// @ID           saveShippingOrigin
// @Summary      Create or replace the shipping origin of the store
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Param        request body shippingapp.OriginRequest true "Origin"
// @Success      200 {object} APIResponse[shippingapp.OriginResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/shipping/origin [put]
func (h *ShippingHandler) SaveOrigin(c *gin.Context) {
	var req shippingapp.OriginRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.shippingService.SaveOrigin(c.Request.Context(), h.Store(c).ID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteOrigin godoc
// @ID           deleteShippingOrigin
// @Summary      Remove the shipping origin of the store
// @Tags         shipping
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/shipping/origin [delete]
func (h *ShippingHandler) DeleteOrigin(c *gin.Context) {
	if err := h.shippingService.DeleteOrigin(c.Request.Context(), h.Store(c).ID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// GetConfiguration godoc
// @ID           getShippingConfiguration
// @Summary      Shipping rules of the store
// @Description  Stores without saved rules ship nationally to their own country
// @Tags         shipping
// @Produce      json
// @Success      200 {object} APIResponse[shippingapp.ConfigurationResponse]
// @Security     BearerAuth
// @Router       /private/shipping/configuration [get]
func (h *ShippingHandler) GetConfiguration(c *gin.Context) {
	resp, err := h.shippingService.GetConfiguration(c.Request.Context(), h.Store(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SaveConfiguration godoc
// @ID           saveShippingConfiguration
// @Summary      Replace the shipping rules of the store
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Param        request body shippingapp.ConfigurationRequest true "Rules"
// @Success      200 {object} APIResponse[shippingapp.ConfigurationResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/shipping/configuration [put]
func (h *ShippingHandler) SaveConfiguration(c *gin.Context) {
	var req shippingapp.ConfigurationRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.shippingService.SaveConfiguration(c.Request.Context(), h.Store(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Quote godoc
// @ID           quoteShipping
// @Summary      Price a shipment
// @Tags         shipping
// @Accept       json
// @Produce      json
// @Param        request body shippingapp.QuoteRequest true "Cart"
// @Success      200 {object} APIResponse[shipping.Quote]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /shipping/quote [post]
func (h *ShippingHandler) Quote(c *gin.Context) {
	var req shippingapp.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}
	quote, err := h.shippingService.ComputeShippingQuote(c.Request.Context(), h.Store(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}
