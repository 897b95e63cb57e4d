package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	orderapp "github.com/salesmanager/backend/internal/application/order"
	"github.com/salesmanager/backend/internal/domain/order"
	"github.com/salesmanager/backend/internal/infrastructure/criteria"
)

var orderCriteriaMapping = criteria.PagingMapping.Merge(criteria.Mapping{
	"customer": "CustomerID",
	"status":   "Status",
	"name":     "CustomerName",
	"email":    "Email",
})

// OrderHandler handles checkout, order administration and downloads
type OrderHandler struct {
	BaseHandler
	orderService *orderapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Place godoc
// @ID           placeOrder
// @Summary      Place an order for the authenticated customer
// @Description  Prices the lines, reserves stock and adds shipping in one transaction
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body orderapp.PlaceOrderRequest true "Checkout"
// @Success      201 {object} APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/customer/orders [post]
func (h *OrderHandler) Place(c *gin.Context) {
	customerID, ok := h.Subject(c)
	if !ok {
		return
	}
	var req orderapp.PlaceOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.PlaceOrder(c.Request.Context(), h.Store(c), customerID, h.Language(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CustomerOrders godoc
// @ID           listCustomerOrders
// @Summary      Orders of the authenticated customer
// @Tags         orders
// @Produce      json
// @Param        start query int false "Start index"
// @Param        count query int false "Max count"
// @Success      200 {object} APIResponse[[]orderapp.OrderResponse]
// @Security     BearerAuth
// @Router       /auth/customer/orders [get]
func (h *OrderHandler) CustomerOrders(c *gin.Context) {
	customerID, ok := h.Subject(c)
	if !ok {
		return
	}
	var crit order.OrderCriteria
	if err := criteria.BindQuery(c, criteria.PagingMapping, &crit); err != nil {
		h.HandleError(c, err)
		return
	}
	crit.StoreID = h.Store(c).ID
	crit.CustomerID = &customerID
	page, err := h.orderService.List(c.Request.Context(), crit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// CustomerOrder godoc
// @ID           getCustomerOrder
// @Summary      One order of the authenticated customer
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/customer/orders/{id} [get]
func (h *OrderHandler) CustomerOrder(c *gin.Context) {
	customerID, ok := h.Subject(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orderService.GetByID(c.Request.Context(), h.Store(c).ID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if resp.CustomerID != customerID {
		h.NotFound(c, "Order not found")
		return
	}
	h.Success(c, resp)
}

// Download godoc
// @ID           downloadOrderFile
// @Summary      Download a purchased file
// @Description  Counts one use of the grant; refused once expired or exhausted
// @Tags         orders
// @Produce      application/octet-stream
// @Param        id path string true "Download ID"
// @Success      200 {file} file
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /orders/download/{id} [get]
func (h *OrderHandler) Download(c *gin.Context) {
	customerID, ok := h.Subject(c)
	if !ok {
		return
	}
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	file, err := h.orderService.Download(c.Request.Context(), h.Store(c), customerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SendFile(c, file.FileName, file.MimeType, file.Body, true)
}

// List godoc
// @ID           listOrders
// @Summary      List orders of the store
// @Tags         orders
// @Produce      json
// @Param        start query int false "Start index"
// @Param        count query int false "Max count"
// @Param        status query string false "Status"
// @Param        customer query string false "Customer ID"
// @Param        name query string false "Customer name contains"
// @Param        email query string false "Customer email"
// @Success      200 {object} APIResponse[[]orderapp.OrderResponse]
// @Security     BearerAuth
// @Router       /private/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var crit order.OrderCriteria
	if err := criteria.BindQuery(c, orderCriteriaMapping, &crit); err != nil {
		h.HandleError(c, err)
		return
	}
	crit.StoreID = h.Store(c).ID
	crit.Status = order.Status(strings.ToUpper(string(crit.Status)))
	page, err := h.orderService.List(c.Request.Context(), crit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Get godoc
// @ID           getOrder
// @Summary      Get an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.orderService.GetByID(c.Request.Context(), h.Store(c).ID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber godoc
// @ID           getOrderByNumber
// @Summary      Get an order by its number
// @Tags         orders
// @Produce      json
// @Param        number path string true "Order number"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/orders/number/{number} [get]
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	resp, err := h.orderService.GetByNumber(c.Request.Context(), h.Store(c).ID, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangeStatus godoc
// @ID           changeOrderStatus
// @Summary      Move an order along its workflow
// @Description  ORDERED, PROCESSED, DELIVERED; CANCELED from any open status; REFUNDED after delivery
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body orderapp.ChangeStatusRequest true "Status"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/orders/{id}/status [put]
func (h *OrderHandler) ChangeStatus(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req orderapp.ChangeStatusRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.ChangeStatus(c.Request.Context(), h.Store(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Downloads godoc
// @ID           listOrderDownloads
// @Summary      Download grants of an order
// @Tags         orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[[]orderapp.DownloadResponse]
// @Security     BearerAuth
// @Router       /private/orders/{id}/downloads [get]
func (h *OrderHandler) Downloads(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	list, err := h.orderService.Downloads(c.Request.Context(), h.Store(c).ID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// AddDownload godoc
// @ID           addOrderDownload
// @Summary      Grant a download for a line of an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body orderapp.AddDownloadRequest true "Grant"
// @Success      201 {object} APIResponse[orderapp.DownloadResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/orders/{id}/downloads [post]
func (h *OrderHandler) AddDownload(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req orderapp.AddDownloadRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.AddDownload(c.Request.Context(), h.Store(c).ID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Invoice godoc
// @ID           getOrderInvoice
// @Summary      Invoice of an order as PDF
// @Tags         orders
// @Produce      application/pdf
// @Param        id path string true "Order ID"
// @Success      200 {file} file
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/orders/{id}/invoice [get]
func (h *OrderHandler) Invoice(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	pdf, name, err := h.orderService.Invoice(c.Request.Context(), h.Store(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
