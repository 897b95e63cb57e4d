package handler

import (
	"github.com/gin-gonic/gin"
	userapp "github.com/salesmanager/backend/internal/application/user"
)

// AuthHandler handles administrator authentication requests
type AuthHandler struct {
	BaseHandler
	userFacade *userapp.UserFacade
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userFacade *userapp.UserFacade) *AuthHandler {
	return &AuthHandler{userFacade: userFacade}
}

// Login godoc
// @ID           loginUser
// @Summary      Administrator login
// @Description  Authenticate an administrator with username and password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body userapp.LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[userapp.LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req userapp.LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.userFacade.Authenticate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Refresh godoc
// @ID           refreshUserToken
// @Summary      Exchange a refresh token for a new token pair
// @Description  Refresh tokens are single use
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body userapp.RefreshRequest true "Refresh token"
// @Success      200 {object} APIResponse[userapp.LoginResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req userapp.RefreshRequest
	if !h.BindJSON(c, &req) {
		return
	}
	resp, err := h.userFacade.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Logout godoc
// @ID           logoutUser
// @Summary      Revoke the current access token
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[MessageData]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := h.Claims(c)
	if !ok {
		return
	}
	if err := h.userFacade.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Logged out successfully"})
}

// Me godoc
// @ID           getCurrentUser
// @Summary      The authenticated administrator
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[userapp.UserResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/users/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := h.Claims(c)
	if !ok {
		return
	}
	u, err := h.userFacade.Current(c.Request.Context(), claims)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, userapp.ToUserResponse(u))
}

// ChangePassword godoc
// @ID           changeUserPassword
// @Summary      Change the password of the authenticated administrator
// @Description  Tokens issued before the change stop being accepted
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body userapp.ChangePasswordRequest true "Passwords"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/users/me/password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	id, ok := h.Subject(c)
	if !ok {
		return
	}
	var req userapp.ChangePasswordRequest
	if !h.BindJSON(c, &req) {
		return
	}
	if err := h.userFacade.ChangePassword(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Password changed successfully"})
}
