package handler

import (
	"github.com/gin-gonic/gin"
	customerapp "github.com/salesmanager/backend/internal/application/customer"
	"github.com/salesmanager/backend/internal/domain/customer"
	"github.com/salesmanager/backend/internal/infrastructure/criteria"
	"github.com/salesmanager/backend/internal/infrastructure/telemetry"
	"github.com/salesmanager/backend/internal/interfaces/http/dto"
)

var customerCriteriaMapping = criteria.PagingMapping.Merge(criteria.Mapping{
	"email":     "Email",
	"firstName": "FirstName",
	"lastName":  "LastName",
	"name":      "Name",
})

// CustomerHandler handles storefront customer and customer administration endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *customerapp.CustomerService
	metrics         *telemetry.ShopMetrics
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *customerapp.CustomerService, metrics *telemetry.ShopMetrics) *CustomerHandler {
	if metrics == nil {
		metrics = telemetry.NopShopMetrics()
	}
	return &CustomerHandler{customerService: customerService, metrics: metrics}
}

// Register godoc
// @ID           registerCustomer
// @Summary      Register a customer
// @Description  Creates the customer in the request store and returns a token pair. Requires a captcha response when captcha is enabled.
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        X-Captcha-Response header string false "reCAPTCHA response"
// @Param        request body customerapp.RegisterRequest true "Customer"
// @Success      201 {object} APIResponse[customerapp.AuthResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /customer/register [post]
func (h *CustomerHandler) Register(c *gin.Context) {
	var req customerapp.RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}
	store := h.Store(c)
	resp, err := h.customerService.Register(c.Request.Context(), store, h.Language(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.metrics.CustomerRegistered(c.Request.Context(), store.Code)
	h.Created(c, resp)
}

// Login godoc
// @ID           loginCustomer
// @Summary      Customer login
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body customerapp.LoginRequest true "Credentials"
// @Success      200 {object} APIResponse[customerapp.AuthResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /customer/login [post]
func (h *CustomerHandler) Login(c *gin.Context) {
	var req customerapp.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.customerService.Authenticate(c.Request.Context(), h.Store(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RequestPasswordReset godoc
// @ID           requestCustomerPasswordReset
// @Summary      Mail a password reset link
// @Description  Always answers success so that registered emails cannot be discovered
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body customerapp.PasswordResetRequest true "Email"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Router       /customer/password/reset/request [post]
func (h *CustomerHandler) RequestPasswordReset(c *gin.Context) {
	var req customerapp.PasswordResetRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.customerService.RequestPasswordReset(c.Request.Context(), h.Store(c), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "If the email is registered, a reset link has been sent"})
}

// ResetPassword godoc
// @ID           resetCustomerPassword
// @Summary      Set a new password with a mailed token
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body customerapp.ResetPasswordRequest true "Token and password"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Router       /customer/password/reset [post]
func (h *CustomerHandler) ResetPassword(c *gin.Context) {
	var req customerapp.ResetPasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.customerService.ResetPassword(c.Request.Context(), h.Store(c), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Password has been reset"})
}

// Profile godoc
// @ID           getCustomerProfile
// @Summary      Profile of the authenticated customer
// @Tags         customers
// @Produce      json
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/customer/profile [get]
func (h *CustomerHandler) Profile(c *gin.Context) {
	id, ok := h.Subject(c)
	if !ok {
		return
	}
	resp, err := h.customerService.GetByID(c.Request.Context(), h.Store(c).ID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateProfile godoc
// @ID           updateCustomerProfile
// @Summary      Update the profile of the authenticated customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body customerapp.UpdateCustomerRequest true "Profile"
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/customer/profile [put]
func (h *CustomerHandler) UpdateProfile(c *gin.Context) {
	id, ok := h.Subject(c)
	if !ok {
		return
	}
	var req customerapp.UpdateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	// customers cannot deactivate themselves
	req.Active = nil
	resp, err := h.customerService.Update(c.Request.Context(), h.Store(c).ID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangePassword godoc
// @ID           changeCustomerPassword
// @Summary      Change the password of the authenticated customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body customerapp.ChangePasswordRequest true "Passwords"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/customer/password [put]
func (h *CustomerHandler) ChangePassword(c *gin.Context) {
	id, ok := h.Subject(c)
	if !ok {
		return
	}
	var req customerapp.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.customerService.ChangePassword(c.Request.Context(), h.Store(c).ID, id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Password has been changed"})
}

// List godoc
// @ID           listCustomers
// @Summary      List customers of the store
// @Tags         customers
// @Produce      json
// @Param        start query int false "Start index"
// @Param        count query int false "Max count"
// @Param        email query string false "Email"
// @Param        name query string false "First or last name contains"
// @Success      200 {object} APIResponse[[]customerapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /private/customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var crit customer.CustomerCriteria
	if err := criteria.BindQuery(c, customerCriteriaMapping, &crit); err != nil {
		h.HandleError(c, err)
		return
	}
	crit.StoreID = h.Store(c).ID
	page, err := h.customerService.List(c.Request.Context(), crit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Get godoc
// @ID           getCustomer
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	resp, err := h.customerService.GetByID(c.Request.Context(), h.Store(c).ID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID"
// @Param        request body customerapp.UpdateCustomerRequest true "Customer"
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req customerapp.UpdateCustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.customerService.Update(c.Request.Context(), h.Store(c).ID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Tags         customers
// @Param        id path string true "Customer ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.customerService.Delete(c.Request.Context(), h.Store(c).ID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// EmailExists godoc
// @ID           checkCustomerEmail
// @Summary      Check whether an email is registered in the store
// @Tags         customers
// @Produce      json
// @Param        email query string true "Email"
// @Success      200 {object} APIResponse[dto.CodeExistsResponse]
// @Router       /customer/unique [get]
func (h *CustomerHandler) EmailExists(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		h.BadRequest(c, "email is required")
		return
	}
	exists, err := h.customerService.EmailExists(c.Request.Context(), h.Store(c).ID, email)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CodeExistsResponse{Exists: exists})
}
