package catalog

import (
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// ImageType tells whether an image is stored by the platform or referenced by URL
type ImageType int

const (
	ImageTypeInternal ImageType = 0
	ImageTypeExternal ImageType = 1
)

// ImageSize names the stored resized variants of a product image
type ImageSize string

const (
	ImageSizeSmall ImageSize = "SMALL"
	ImageSizeLarge ImageSize = "LARGE"
)

// allowedImageExtensions lists the image formats the platform stores
var allowedImageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// ProductImage is an image attached to a product
type ProductImage struct {
	shared.BaseEntity
	ProductID    uuid.UUID                 `gorm:"type:uuid;not null;index"`
	ImageName    string                    `gorm:"type:varchar(100);not null"`
	ImageType    ImageType                 `gorm:"not null;default:0"`
	ExternalURL  string                    `gorm:"column:external_url;type:varchar(255)"`
	DefaultImage bool                      `gorm:"not null;default:false"`
	SortOrder    int                       `gorm:"not null;default:0"`
	Descriptions []ProductImageDescription `gorm:"foreignKey:ProductImageID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// ProductImageDescription holds the localized alt text of a product image
type ProductImageDescription struct {
	shared.Description
	ProductImageID uuid.UUID `gorm:"type:uuid;not null;index"`
	AltTag         string    `gorm:"type:varchar(100)"`
}

// TableName returns the table name for GORM
func (ProductImageDescription) TableName() string {
	return "product_image_descriptions"
}

// NewProductImage creates an internally stored image
func NewProductImage(imageName string) (*ProductImage, error) {
	name := strings.TrimSpace(filepath.Base(imageName))
	if name == "" || name == "." || name == "/" {
		return nil, shared.NewDomainError("INVALID_IMAGE_NAME", "Image name cannot be empty")
	}
	if len(name) > 100 {
		return nil, shared.NewDomainError("INVALID_IMAGE_NAME", "Image name cannot exceed 100 characters")
	}
	if !allowedImageExtensions[strings.ToLower(filepath.Ext(name))] {
		return nil, shared.NewDomainError("INVALID_IMAGE_TYPE", "Image must be a png, jpg or gif file")
	}
	return &ProductImage{
		BaseEntity: shared.NewBaseEntity(),
		ImageName:  name,
		ImageType:  ImageTypeInternal,
	}, nil
}

// NewExternalProductImage creates an image referenced by URL
func NewExternalProductImage(url string) (*ProductImage, error) {
	url = strings.TrimSpace(url)
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return nil, shared.NewDomainError("INVALID_IMAGE_URL", "External image URL must be http or https")
	}
	return &ProductImage{
		BaseEntity:  shared.NewBaseEntity(),
		ImageName:   filepath.Base(url),
		ImageType:   ImageTypeExternal,
		ExternalURL: url,
	}, nil
}

// SetAltTag adds or replaces the alt text for a language
func (i *ProductImage) SetAltTag(lang, name, altTag string) error {
	desc, err := shared.NewDescription(lang, name)
	if err != nil {
		return err
	}
	for k := range i.Descriptions {
		if i.Descriptions[k].Language == desc.Language {
			i.Descriptions[k].Name = desc.Name
			i.Descriptions[k].AltTag = altTag
			return nil
		}
	}
	i.Descriptions = append(i.Descriptions, ProductImageDescription{
		Description:    desc,
		ProductImageID: i.ID,
		AltTag:         altTag,
	})
	return nil
}

// StoragePath returns the file manager path of a resized variant:
// <sku>/<size>/<image name>
func (i *ProductImage) StoragePath(sku string, size ImageSize) string {
	return sku + "/" + string(size) + "/" + i.ImageName
}

// ProductVariant is a purchasable option of a product (size, color, ...)
type ProductVariant struct {
	shared.BaseEntity
	ProductID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	Sku              string                `gorm:"type:varchar(100);not null"`
	Code             string                `gorm:"type:varchar(100);not null"`
	Available        bool                  `gorm:"not null;default:true"`
	DefaultSelection bool                  `gorm:"not null;default:false"`
	SortOrder        int                   `gorm:"not null;default:0"`
	Images           []ProductVariantImage `gorm:"foreignKey:ProductVariantID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (ProductVariant) TableName() string {
	return "product_variants"
}

// ProductVariantImage is an image attached to a product variant
type ProductVariantImage struct {
	shared.BaseEntity
	ProductVariantID uuid.UUID `gorm:"type:uuid;not null;index"`
	ImageName        string    `gorm:"type:varchar(100);not null"`
	ExternalURL      string    `gorm:"column:external_url;type:varchar(255)"`
	DefaultImage     bool      `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (ProductVariantImage) TableName() string {
	return "product_variant_images"
}
