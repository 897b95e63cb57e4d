package valueobject

import (
	"fmt"
	"strings"
)

// Address is a postal address embedded in customers, orders and shipping origins.
// Country is an ISO 3166-1 alpha-2 code.
type Address struct {
	FirstName  string `gorm:"type:varchar(64)" json:"first_name,omitempty"`
	LastName   string `gorm:"type:varchar(64)" json:"last_name,omitempty"`
	Company    string `gorm:"type:varchar(100)" json:"company,omitempty"`
	Street     string `gorm:"type:varchar(256)" json:"street"`
	City       string `gorm:"type:varchar(100)" json:"city"`
	State      string `gorm:"type:varchar(100)" json:"state,omitempty"`
	PostalCode string `gorm:"type:varchar(20)" json:"postal_code,omitempty"`
	Country    string `gorm:"type:varchar(2)" json:"country"`
	Phone      string `gorm:"type:varchar(32)" json:"phone,omitempty"`
}

// NewAddress creates a validated address
func NewAddress(street, city, postalCode, country string) (Address, error) {
	addr := Address{
		Street:     strings.TrimSpace(street),
		City:       strings.TrimSpace(city),
		PostalCode: strings.TrimSpace(postalCode),
		Country:    strings.ToUpper(strings.TrimSpace(country)),
	}
	if err := addr.Validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// Validate checks the mandatory address parts
func (a Address) Validate() error {
	if a.Street == "" {
		return fmt.Errorf("street cannot be empty")
	}
	if len(a.Street) > 256 {
		return fmt.Errorf("street cannot exceed 256 characters")
	}
	if a.City == "" {
		return fmt.Errorf("city cannot be empty")
	}
	if len(a.Country) != 2 {
		return fmt.Errorf("country must be a 2-letter ISO code")
	}
	if len(a.PostalCode) > 20 {
		return fmt.Errorf("postal code cannot exceed 20 characters")
	}
	return nil
}

// IsEmpty reports whether no address part is set
func (a Address) IsEmpty() bool {
	return a.Street == "" && a.City == "" && a.PostalCode == "" && a.Country == ""
}

// String renders the address on a single line
func (a Address) String() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}
