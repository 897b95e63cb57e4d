package merchant

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/shared/valueobject"
)

// CreateStoreRequest represents a request to create a merchant store
type CreateStoreRequest struct {
	Code               string              `json:"code" binding:"required,min=1,max=100"`
	Name               string              `json:"name" binding:"required,min=1,max=100"`
	Email              string              `json:"email" binding:"required,email,max=60"`
	Phone              string              `json:"phone" binding:"max=50"`
	DomainName         string              `json:"domain_name" binding:"max=80"`
	DefaultLanguage    string              `json:"default_language" binding:"omitempty,min=2,max=5"`
	SupportedLanguages []string            `json:"supported_languages"`
	Currency           string              `json:"currency" binding:"omitempty,len=3"`
	WeightUnit         string              `json:"weight_unit" binding:"omitempty,enum=LB KG"`
	SizeUnit           string              `json:"size_unit" binding:"omitempty,enum=IN CM"`
	Retailer           bool                `json:"retailer"`
	ParentCode         string              `json:"parent_code" binding:"max=100"`
	Address            valueobject.Address `json:"address"`
}

// UpdateStoreRequest represents a request to update a merchant store
type UpdateStoreRequest struct {
	Name               string               `json:"name" binding:"required,min=1,max=100"`
	Email              string               `json:"email" binding:"omitempty,email,max=60"`
	Phone              string               `json:"phone" binding:"max=50"`
	DomainName         string               `json:"domain_name" binding:"max=80"`
	DefaultLanguage    string               `json:"default_language" binding:"omitempty,min=2,max=5"`
	SupportedLanguages []string             `json:"supported_languages"`
	Currency           string               `json:"currency" binding:"omitempty,len=3"`
	WeightUnit         string               `json:"weight_unit" binding:"omitempty,enum=LB KG"`
	SizeUnit           string               `json:"size_unit" binding:"omitempty,enum=IN CM"`
	UseCache           *bool                `json:"use_cache"`
	Address            *valueobject.Address `json:"address"`
}

// StoreResponse represents a merchant store in API responses
type StoreResponse struct {
	ID                 uuid.UUID           `json:"id"`
	Code               string              `json:"code"`
	Name               string              `json:"name"`
	Email              string              `json:"email"`
	Phone              string              `json:"phone,omitempty"`
	DomainName         string              `json:"domain_name,omitempty"`
	DefaultLanguage    string              `json:"default_language"`
	SupportedLanguages []string            `json:"supported_languages"`
	Currency           string              `json:"currency"`
	WeightUnit         string              `json:"weight_unit"`
	SizeUnit           string              `json:"size_unit"`
	Retailer           bool                `json:"retailer"`
	ParentID           *uuid.UUID          `json:"parent_id,omitempty"`
	UseCache           bool                `json:"use_cache"`
	Address            valueobject.Address `json:"address"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
	Version            int                 `json:"version"`
}

// ToStoreResponse converts a merchant store
func ToStoreResponse(s *merchant.MerchantStore) StoreResponse {
	return StoreResponse{
		ID:                 s.ID,
		Code:               s.Code,
		Name:               s.Name,
		Email:              s.Email,
		Phone:              s.Phone,
		DomainName:         s.DomainName,
		DefaultLanguage:    s.DefaultLanguage,
		SupportedLanguages: s.Languages(),
		Currency:           s.Currency,
		WeightUnit:         s.WeightUnit,
		SizeUnit:           s.SizeUnit,
		Retailer:           s.Retailer,
		ParentID:           s.ParentID,
		UseCache:           s.UseCache,
		Address:            s.Address,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
		Version:            s.Version,
	}
}

// LanguageResponse represents a reference language
type LanguageResponse struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
}
