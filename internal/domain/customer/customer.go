package customer

import (
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/domain/shared/valueobject"
)

// Gender values accepted for a customer
type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

// Customer is a storefront shopper account
type Customer struct {
	shared.StoreAggregateRoot
	Email           string     `gorm:"type:varchar(96);not null;index"`
	Nick            string     `gorm:"type:varchar(96)"`
	Password        string     `gorm:"type:varchar(60)" json:"-"`
	FirstName       string     `gorm:"type:varchar(64)"`
	LastName        string     `gorm:"type:varchar(64)"`
	Company         string     `gorm:"type:varchar(100)"`
	Gender          Gender     `gorm:"type:varchar(1)"`
	DateOfBirth     *time.Time `gorm:"type:date"`
	DefaultLanguage string     `gorm:"type:varchar(5);not null;default:'en'"`
	Anonymous       bool       `gorm:"not null;default:false"`
	Active          bool       `gorm:"not null;default:true"`

	Billing  valueobject.Address `gorm:"embedded;embeddedPrefix:billing_"`
	Delivery valueobject.Address `gorm:"embedded;embeddedPrefix:delivery_"`

	ResetToken          string     `gorm:"type:varchar(255);index" json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates an active customer with an already hashed password
func NewCustomer(storeID uuid.UUID, email, passwordHash, firstName, lastName string) (*Customer, error) {
	email, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}

	c := &Customer{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Email:              email,
		Nick:               email,
		Password:           passwordHash,
		FirstName:          strings.TrimSpace(firstName),
		LastName:           strings.TrimSpace(lastName),
		DefaultLanguage:    "en",
		Active:             true,
	}
	c.AddDomainEvent(NewCustomerEvent(EventTypeCustomerRegistered, c))
	return c, nil
}

// NormalizeEmail validates and lower-cases an email address
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	return email, nil
}

// FullName returns "first last"
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// ChangePassword replaces the password hash and clears any pending reset
func (c *Customer) ChangePassword(hash string) {
	c.Password = hash
	c.ClearResetToken()
	c.Touch()
	c.IncrementVersion()
}

// StartPasswordReset records a reset token valid until expiresAt
func (c *Customer) StartPasswordReset(token string, expiresAt time.Time) {
	c.ResetToken = token
	c.ResetTokenExpiresAt = &expiresAt
	c.Touch()
	c.AddDomainEvent(NewCustomerEvent(EventTypePasswordResetRequested, c))
}

// ValidateResetToken checks the token against the pending reset
func (c *Customer) ValidateResetToken(token string, now time.Time) error {
	if c.ResetToken == "" || c.ResetToken != token {
		return shared.NewDomainError("INVALID_TOKEN", "Password reset token is not valid")
	}
	if c.ResetTokenExpiresAt == nil || now.After(*c.ResetTokenExpiresAt) {
		return shared.NewDomainError("TOKEN_EXPIRED", "Password reset token has expired")
	}
	return nil
}

// ClearResetToken removes the pending reset
func (c *Customer) ClearResetToken() {
	c.ResetToken = ""
	c.ResetTokenExpiresAt = nil
}

// UpdateProfile applies editable profile fields
func (c *Customer) UpdateProfile(firstName, lastName, company string, gender Gender, lang string) error {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if gender != "" && gender != GenderMale && gender != GenderFemale {
		return shared.NewDomainError("INVALID_GENDER", "Gender must be M or F")
	}
	c.FirstName = strings.TrimSpace(firstName)
	c.LastName = strings.TrimSpace(lastName)
	c.Company = company
	c.Gender = gender
	if lang != "" {
		c.DefaultLanguage = strings.ToLower(lang)
	}
	c.Touch()
	c.IncrementVersion()
	return nil
}

// SetAddresses sets billing and delivery addresses. An empty delivery address copies billing.
func (c *Customer) SetAddresses(billing, delivery valueobject.Address) error {
	if err := billing.Validate(); err != nil {
		return shared.WrapDomainError("INVALID_ADDRESS", "Billing address is not valid", err)
	}
	if delivery.IsEmpty() {
		delivery = billing
	} else if err := delivery.Validate(); err != nil {
		return shared.WrapDomainError("INVALID_ADDRESS", "Delivery address is not valid", err)
	}
	c.Billing = billing
	c.Delivery = delivery
	c.Touch()
	return nil
}

// Deactivate disables login
func (c *Customer) Deactivate() {
	c.Active = false
	c.Touch()
	c.IncrementVersion()
}
