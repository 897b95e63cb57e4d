package catalog

import (
	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// Product type codes created for every store
const (
	ProductTypeGeneral = "GENERAL"
	ProductTypeDigital = "DIGITAL"
)

// ProductType groups products that share behavior (general goods, downloads, ...)
type ProductType struct {
	shared.StoreAggregateRoot
	Code           string                   `gorm:"type:varchar(100);not null;index"`
	Visible        bool                     `gorm:"not null;default:true"`
	AllowAddToCart bool                     `gorm:"not null;default:true"`
	Descriptions   []ProductTypeDescription `gorm:"foreignKey:ProductTypeID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductType) TableName() string {
	return "product_types"
}

// ProductTypeDescription holds the localized name of a product type
type ProductTypeDescription struct {
	shared.Description
	ProductTypeID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// TableName returns the table name for GORM
func (ProductTypeDescription) TableName() string {
	return "product_type_descriptions"
}

// NewProductType creates a product type
func NewProductType(storeID uuid.UUID, code string, allowAddToCart bool) (*ProductType, error) {
	if err := validateCategoryCode(code); err != nil {
		return nil, shared.NewDomainError("INVALID_CODE", "Product type code can only contain letters, numbers, underscores, and hyphens")
	}
	return &ProductType{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Code:               code,
		Visible:            true,
		AllowAddToCart:     allowAddToCart,
	}, nil
}

// SetName adds or replaces the name for a language
func (t *ProductType) SetName(lang, name string) error {
	desc, err := shared.NewDescription(lang, name)
	if err != nil {
		return err
	}
	for i := range t.Descriptions {
		if t.Descriptions[i].Language == desc.Language {
			t.Descriptions[i].Name = desc.Name
			return nil
		}
	}
	t.Descriptions = append(t.Descriptions, ProductTypeDescription{Description: desc, ProductTypeID: t.ID})
	return nil
}
