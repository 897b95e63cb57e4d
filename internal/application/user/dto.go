package user

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/user"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
)

// LoginRequest represents an administrator login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// CreateUserRequest represents a request to create an administrator
type CreateUserRequest struct {
	Username        string   `json:"username" binding:"required,min=3,max=100"`
	Email           string   `json:"email" binding:"required,email,max=96"`
	Password        string   `json:"password" binding:"required,min=6,max=72"`
	RepeatPassword  string   `json:"repeat_password" binding:"required"`
	FirstName       string   `json:"first_name" binding:"max=64"`
	LastName        string   `json:"last_name" binding:"max=64"`
	StoreCode       string   `json:"store" binding:"omitempty,max=100"`
	Groups          []string `json:"groups" binding:"required,min=1,dive,enum=SUPERADMIN ADMIN ADMIN_CATALOGUE ADMIN_ORDER ADMIN_CONTENT ADMIN_SHIPPING ADMIN_RETAIL"`
	DefaultLanguage string   `json:"language" binding:"omitempty,min=2,max=5"`
}

// FieldMatches lists the fields that must carry equal values
func (CreateUserRequest) FieldMatches() [][2]string {
	return [][2]string{{"Password", "RepeatPassword"}}
}

// ChangePasswordRequest represents an administrator password change
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	Password        string `json:"password" binding:"required,min=6,max=72"`
	RepeatPassword  string `json:"repeat_password" binding:"required"`
}

// FieldMatches lists the fields that must carry equal values
func (ChangePasswordRequest) FieldMatches() [][2]string {
	return [][2]string{{"Password", "RepeatPassword"}}
}

// UserResponse represents an administrator in API responses
type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	FirstName       string     `json:"first_name,omitempty"`
	LastName        string     `json:"last_name,omitempty"`
	Active          bool       `json:"active"`
	StoreID         uuid.UUID  `json:"merchant_store_id"`
	Groups          []string   `json:"groups"`
	DefaultLanguage string     `json:"language"`
	LastAccess      *time.Time `json:"last_access,omitempty"`
	LoginTime       *time.Time `json:"login_time,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// ToUserResponse converts an administrator to its response form
func ToUserResponse(u *user.User) UserResponse {
	groups := make([]string, 0)
	for _, g := range u.GroupList() {
		groups = append(groups, string(g))
	}
	return UserResponse{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Active:          u.Active,
		StoreID:         u.MerchantStoreID,
		Groups:          groups,
		DefaultLanguage: u.DefaultLanguage,
		LastAccess:      u.LastAccess,
		LoginTime:       u.LoginTime,
		CreatedAt:       u.CreatedAt,
	}
}

// LoginResponse is returned on login and refresh
type LoginResponse struct {
	Token *auth.TokenPair `json:"token"`
	User  UserResponse    `json:"user"`
}
