package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is a sellable catalog item of a merchant store
type Product struct {
	shared.StoreAggregateRoot
	Sku           string          `gorm:"type:varchar(100);not null;index"`
	Price         decimal.Decimal `gorm:"type:decimal(19,4);not null;default:0"`
	Available     bool            `gorm:"not null;default:true"`
	DateAvailable *time.Time
	ProductTypeID *uuid.UUID      `gorm:"type:uuid;index"`
	Manufacturer  string          `gorm:"type:varchar(100);index"`
	Weight        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Length        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Width         decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Height        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Shippable     bool            `gorm:"not null;default:true"`
	Virtual       bool            `gorm:"not null;default:false"`
	SortOrder     int             `gorm:"not null;default:0"`

	Descriptions []ProductDescription `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Categories   []Category           `gorm:"many2many:product_categories;"`
	Images       []ProductImage       `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// ProductDescription is the per-language name and SEO data of a product
type ProductDescription struct {
	shared.Description
	ProductID       uuid.UUID `gorm:"type:uuid;not null;index"`
	SeUrl           string    `gorm:"column:se_url;type:varchar(120);index"`
	MetaTitle       string    `gorm:"type:varchar(100)"`
	MetaDescription string    `gorm:"type:varchar(255)"`
	Highlights      string    `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (ProductDescription) TableName() string {
	return "product_descriptions"
}

// NewProduct creates a new product
func NewProduct(storeID uuid.UUID, sku string, price decimal.Decimal) (*Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if len(sku) > 100 {
		return nil, shared.NewDomainError("INVALID_SKU", "Product SKU cannot exceed 100 characters")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}

	return &Product{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Sku:                sku,
		Price:              price,
		Available:          true,
		Shippable:          true,
	}, nil
}

// SetDescription adds or replaces the description for a language
func (p *Product) SetDescription(lang, name, description, seUrl string) error {
	desc, err := shared.NewDescription(lang, name)
	if err != nil {
		return err
	}
	desc.Description = description
	if seUrl == "" {
		seUrl = shared.Slugify(name)
	}
	for i := range p.Descriptions {
		if p.Descriptions[i].Language == desc.Language {
			p.Descriptions[i].Name = desc.Name
			p.Descriptions[i].Description.Description = description
			p.Descriptions[i].SeUrl = seUrl
			p.Touch()
			return nil
		}
	}
	p.Descriptions = append(p.Descriptions, ProductDescription{
		Description: desc,
		ProductID:   p.ID,
		SeUrl:       seUrl,
	})
	p.Touch()
	return nil
}

// DescriptionFor returns the description in lang, falling back to the first one
func (p *Product) DescriptionFor(lang string) *ProductDescription {
	idx := shared.FindLocalized(p.Descriptions, lang, "")
	if idx < 0 {
		return nil
	}
	return &p.Descriptions[idx]
}

// UpdatePrice changes the product price
func (p *Product) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	p.Price = price
	p.Touch()
	p.IncrementVersion()
	return nil
}

// SetDimensions sets weight and package size. Virtual products cannot be shipped.
func (p *Product) SetDimensions(weight, length, width, height decimal.Decimal) error {
	for _, v := range []decimal.Decimal{weight, length, width, height} {
		if v.IsNegative() {
			return shared.NewDomainError("INVALID_DIMENSION", "Product dimensions cannot be negative")
		}
	}
	p.Weight, p.Length, p.Width, p.Height = weight, length, width, height
	p.Touch()
	return nil
}

// MarkVirtual flags the product as a downloadable item
func (p *Product) MarkVirtual(virtual bool) {
	p.Virtual = virtual
	if virtual {
		p.Shippable = false
	}
	p.Touch()
}

// AssignCategories replaces the category links of the product
func (p *Product) AssignCategories(categories []Category) error {
	for _, c := range categories {
		if c.MerchantStoreID != p.MerchantStoreID {
			return shared.NewDomainError("INVALID_CATEGORY", "Category belongs to another store")
		}
	}
	p.Categories = categories
	p.Touch()
	return nil
}

// IsAvailableAt reports whether the product can be sold at the given time
func (p *Product) IsAvailableAt(t time.Time) bool {
	if !p.Available {
		return false
	}
	return p.DateAvailable == nil || !p.DateAvailable.After(t)
}

// MarkSaved records the ProductSaved event
func (p *Product) MarkSaved() {
	p.AddDomainEvent(NewProductEvent(EventTypeProductSaved, p))
}

// AddImage attaches an image. The first image becomes the default one.
func (p *Product) AddImage(img ProductImage) *ProductImage {
	img.ProductID = p.ID
	if len(p.Images) == 0 {
		img.DefaultImage = true
	} else if img.DefaultImage {
		for i := range p.Images {
			p.Images[i].DefaultImage = false
		}
	}
	if img.SortOrder == 0 {
		img.SortOrder = len(p.Images)
	}
	p.Images = append(p.Images, img)
	p.Touch()
	return &p.Images[len(p.Images)-1]
}

// SetDefaultImage makes the given image the product's default one
func (p *Product) SetDefaultImage(imageID uuid.UUID) error {
	found := false
	for i := range p.Images {
		if p.Images[i].ID == imageID {
			found = true
		}
	}
	if !found {
		return shared.ErrNotFound
	}
	for i := range p.Images {
		p.Images[i].DefaultImage = p.Images[i].ID == imageID
	}
	p.Touch()
	return nil
}

// RemoveImage detaches an image. Removing the default image promotes the
// remaining image with the lowest sort order.
func (p *Product) RemoveImage(imageID uuid.UUID) (*ProductImage, error) {
	idx := -1
	for i := range p.Images {
		if p.Images[i].ID == imageID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, shared.ErrNotFound
	}
	removed := p.Images[idx]
	p.Images = append(p.Images[:idx], p.Images[idx+1:]...)

	if removed.DefaultImage && len(p.Images) > 0 {
		next := 0
		for i := range p.Images {
			if p.Images[i].SortOrder < p.Images[next].SortOrder {
				next = i
			}
		}
		p.Images[next].DefaultImage = true
	}
	p.Touch()
	return &removed, nil
}

// DefaultImage returns the default image or nil
func (p *Product) DefaultImage() *ProductImage {
	for i := range p.Images {
		if p.Images[i].DefaultImage {
			return &p.Images[i]
		}
	}
	return nil
}
