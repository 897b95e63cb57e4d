package customer

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/customer"
	"github.com/salesmanager/backend/internal/domain/shared/valueobject"
	"github.com/salesmanager/backend/internal/infrastructure/auth"
)

// RegisterRequest represents a storefront sign-up
type RegisterRequest struct {
	Email           string              `json:"email" binding:"required,email,max=96"`
	Password        string              `json:"password" binding:"required,min=6,max=72"`
	RepeatPassword  string              `json:"repeat_password" binding:"required"`
	FirstName       string              `json:"first_name" binding:"required,max=64"`
	LastName        string              `json:"last_name" binding:"required,max=64"`
	Company         string              `json:"company" binding:"max=100"`
	Gender          string              `json:"gender" binding:"omitempty,enum=M F"`
	DefaultLanguage string              `json:"language" binding:"omitempty,min=2,max=5"`
	Billing         valueobject.Address `json:"billing"`
	Delivery        valueobject.Address `json:"delivery"`
	CaptchaResponse string              `json:"captcha_response"`
}

// FieldMatches lists the fields that must carry equal values
func (RegisterRequest) FieldMatches() [][2]string {
	return [][2]string{{"Password", "RepeatPassword"}}
}

// LoginRequest represents a customer login
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordRequest represents a password change by a logged-in customer or user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	Password        string `json:"password" binding:"required,min=6,max=72"`
	RepeatPassword  string `json:"repeat_password" binding:"required"`
}

// FieldMatches lists the fields that must carry equal values
func (ChangePasswordRequest) FieldMatches() [][2]string {
	return [][2]string{{"Password", "RepeatPassword"}}
}

// PasswordResetRequest asks for a reset link by email
type PasswordResetRequest struct {
	Email           string `json:"email" binding:"required,email"`
	CaptchaResponse string `json:"captcha_response"`
}

// ResetPasswordRequest sets a new password with a mailed token
type ResetPasswordRequest struct {
	Token          string `json:"token" binding:"required"`
	Password       string `json:"password" binding:"required,min=6,max=72"`
	RepeatPassword string `json:"repeat_password" binding:"required"`
}

// FieldMatches lists the fields that must carry equal values
func (ResetPasswordRequest) FieldMatches() [][2]string {
	return [][2]string{{"Password", "RepeatPassword"}}
}

// UpdateCustomerRequest represents a profile update
type UpdateCustomerRequest struct {
	FirstName       string               `json:"first_name" binding:"required,max=64"`
	LastName        string               `json:"last_name" binding:"required,max=64"`
	Company         string               `json:"company" binding:"max=100"`
	Gender          string               `json:"gender" binding:"omitempty,enum=M F"`
	DateOfBirth     *time.Time           `json:"date_of_birth"`
	DefaultLanguage string               `json:"language" binding:"omitempty,min=2,max=5"`
	Active          *bool                `json:"active"`
	Billing         *valueobject.Address `json:"billing"`
	Delivery        *valueobject.Address `json:"delivery"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID              uuid.UUID           `json:"id"`
	Email           string              `json:"email"`
	Nick            string              `json:"nick"`
	FirstName       string              `json:"first_name"`
	LastName        string              `json:"last_name"`
	Company         string              `json:"company,omitempty"`
	Gender          string              `json:"gender,omitempty"`
	DateOfBirth     *time.Time          `json:"date_of_birth,omitempty"`
	DefaultLanguage string              `json:"language"`
	Active          bool                `json:"active"`
	Billing         valueobject.Address `json:"billing"`
	Delivery        valueobject.Address `json:"delivery"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// ToCustomerResponse converts a customer to its response form
func ToCustomerResponse(c *customer.Customer) CustomerResponse {
	return CustomerResponse{
		ID:              c.ID,
		Email:           c.Email,
		Nick:            c.Nick,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Company:         c.Company,
		Gender:          string(c.Gender),
		DateOfBirth:     c.DateOfBirth,
		DefaultLanguage: c.DefaultLanguage,
		Active:          c.Active,
		Billing:         c.Billing,
		Delivery:        c.Delivery,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

// AuthResponse is returned on registration and login
type AuthResponse struct {
	Token    *auth.TokenPair  `json:"token"`
	Customer CustomerResponse `json:"customer"`
}
