package merchant

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/domain/shared/valueobject"
)

// DefaultStoreCode is the code of the store created by the initial migration
const DefaultStoreCode = "DEFAULT"

var storeCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,100}$`)

// MerchantStore is a storefront. Retailer stores may own child stores.
type MerchantStore struct {
	shared.BaseAggregateRoot
	Code               string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name               string     `gorm:"type:varchar(100);not null"`
	Email              string     `gorm:"type:varchar(60);not null"`
	Phone              string     `gorm:"type:varchar(50)"`
	DomainName         string     `gorm:"type:varchar(80)"`
	DefaultLanguage    string     `gorm:"type:varchar(5);not null;default:'en'"`
	SupportedLanguages string     `gorm:"type:varchar(100);not null;default:'en'"` // comma separated language codes
	Currency           string     `gorm:"type:varchar(3);not null;default:'USD'"`
	WeightUnit         string     `gorm:"type:varchar(5);not null;default:'LB'"`
	SizeUnit           string     `gorm:"type:varchar(5);not null;default:'IN'"`
	Retailer           bool       `gorm:"not null;default:false"`
	ParentID           *uuid.UUID `gorm:"type:uuid;index"`
	UseCache           bool       `gorm:"not null;default:false"`

	Address valueobject.Address `gorm:"embedded;embeddedPrefix:store_"`
}

// TableName returns the table name for GORM
func (MerchantStore) TableName() string {
	return "merchant_stores"
}

// NewMerchantStore creates a new store with sane unit and language defaults
func NewMerchantStore(code, name, email string) (*MerchantStore, error) {
	if err := ValidateStoreCode(code); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot exceed 100 characters")
	}
	if strings.TrimSpace(email) == "" {
		return nil, shared.NewDomainError("INVALID_STORE_EMAIL", "Store email cannot be empty")
	}

	store := &MerchantStore{
		BaseAggregateRoot:  shared.NewBaseAggregateRoot(),
		Code:               code,
		Name:               name,
		Email:              strings.TrimSpace(email),
		DefaultLanguage:    "en",
		SupportedLanguages: "en",
		Currency:           "USD",
		WeightUnit:         "LB",
		SizeUnit:           "IN",
	}
	return store, nil
}

// ValidateStoreCode checks the store code format
func ValidateStoreCode(code string) error {
	if !storeCodePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_STORE_CODE", "Store code must be 1-100 letters, digits, '-' or '_'")
	}
	return nil
}

// Languages returns the supported language codes, default language first
func (s *MerchantStore) Languages() []string {
	langs := []string{s.DefaultLanguage}
	for _, l := range strings.Split(s.SupportedLanguages, ",") {
		l = strings.TrimSpace(l)
		if l == "" || l == s.DefaultLanguage {
			continue
		}
		langs = append(langs, l)
	}
	return langs
}

// SetLanguages sets the default and supported languages
func (s *MerchantStore) SetLanguages(defaultLang string, supported []string) error {
	defaultLang = strings.ToLower(strings.TrimSpace(defaultLang))
	if len(defaultLang) < 2 {
		return shared.NewDomainError("INVALID_LANGUAGE", "Default language is required")
	}
	seen := map[string]bool{defaultLang: true}
	list := []string{defaultLang}
	for _, l := range supported {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		list = append(list, l)
	}
	s.DefaultLanguage = defaultLang
	s.SupportedLanguages = strings.Join(list, ",")
	s.Touch()
	return nil
}

// SupportsLanguage reports whether lang is one of the store languages
func (s *MerchantStore) SupportsLanguage(lang string) bool {
	for _, l := range s.Languages() {
		if strings.EqualFold(l, lang) {
			return true
		}
	}
	return false
}

// AttachTo makes this store a child of a retailer store
func (s *MerchantStore) AttachTo(parent *MerchantStore) error {
	if parent == nil {
		s.ParentID = nil
		return nil
	}
	if parent.ID == s.ID {
		return shared.NewDomainError("INVALID_PARENT", "Store cannot be its own parent")
	}
	if !parent.Retailer {
		return shared.NewDomainError("INVALID_PARENT", "Parent store must be a retailer")
	}
	s.ParentID = &parent.ID
	s.Touch()
	return nil
}

// Update applies editable store attributes
func (s *MerchantStore) Update(name, email, phone, domain, currency string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_STORE_NAME", "Store name cannot be empty")
	}
	s.Name = name
	if email != "" {
		s.Email = strings.TrimSpace(email)
	}
	s.Phone = phone
	s.DomainName = domain
	if currency != "" {
		s.Currency = strings.ToUpper(currency)
	}
	s.Touch()
	s.IncrementVersion()
	return nil
}
