package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	userapp "github.com/salesmanager/backend/internal/application/user"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/domain/user"
	"github.com/salesmanager/backend/internal/infrastructure/criteria"
	"github.com/salesmanager/backend/internal/interfaces/http/dto"
)

var userCriteriaMapping = criteria.PagingMapping.Merge(criteria.Mapping{
	"username": "Username",
	"email":    "Email",
})

// UserHandler handles administrator management requests
type UserHandler struct {
	BaseHandler
	userFacade *userapp.UserFacade
}

// NewUserHandler creates a new user handler
func NewUserHandler(userFacade *userapp.UserFacade) *UserHandler {
	return &UserHandler{userFacade: userFacade}
}

// caller loads the authenticated administrator, answering the request on failure
func (h *UserHandler) caller(c *gin.Context) (*user.User, bool) {
	claims, ok := h.Claims(c)
	if !ok {
		return nil, false
	}
	u, err := h.userFacade.Current(c.Request.Context(), claims)
	if err != nil {
		h.HandleError(c, err)
		return nil, false
	}
	return u, true
}

// List godoc
// @ID           listUsers
// @Summary      List administrators
// @Description  Super administrators see every store, others only their own
// @Tags         users
// @Produce      json
// @Param        start query int false "Start index"
// @Param        count query int false "Max count"
// @Param        username query string false "Username"
// @Param        email query string false "Email"
// @Success      200 {object} APIResponse[[]userapp.UserResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/users [get]
func (h *UserHandler) List(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var crit user.UserCriteria
	if err := criteria.BindQuery(c, userCriteriaMapping, &crit); err != nil {
		h.HandleError(c, err)
		return
	}
	page, err := h.userFacade.List(c.Request.Context(), caller, crit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Get godoc
// @ID           getUser
// @Summary      Get an administrator
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[userapp.UserResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	resp, err := h.userFacade.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create godoc
// @ID           createUser
// @Summary      Create an administrator
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body userapp.CreateUserRequest true "User"
// @Success      201 {object} APIResponse[userapp.UserResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	var req userapp.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.userFacade.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Delete godoc
// @ID           deleteUser
// @Summary      Delete an administrator
// @Tags         users
// @Param        id path string true "User ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	caller, ok := h.caller(c)
	if !ok {
		return
	}
	if err := h.userFacade.Delete(c.Request.Context(), caller, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UsernameExists godoc
// @ID           checkUsername
// @Summary      Check whether a username is taken
// @Tags         users
// @Produce      json
// @Param        username query string true "Username"
// @Success      200 {object} APIResponse[dto.CodeExistsResponse]
// @Security     BearerAuth
// @Router       /private/users/unique [get]
func (h *UserHandler) UsernameExists(c *gin.Context) {
	username := c.Query("username")
	if username == "" {
		h.BadRequest(c, "username is required")
		return
	}
	_, err := h.userFacade.FindByUserName(c.Request.Context(), username)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.CodeExistsResponse{Exists: err == nil})
}
