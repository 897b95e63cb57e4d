package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CategoryDescriptionInput is the localized part of a category request
type CategoryDescriptionInput struct {
	Language        string `json:"language" binding:"required,min=2,max=5"`
	Name            string `json:"name" binding:"required,min=1,max=120"`
	SeUrl           string `json:"se_url" binding:"max=120"`
	MetaDescription string `json:"meta_description" binding:"max=255"`
}

// CreateCategoryRequest represents a request to create a category
type CreateCategoryRequest struct {
	Code         string                     `json:"code" binding:"required,min=1,max=100"`
	ParentID     *uuid.UUID                 `json:"parent_id"`
	SortOrder    int                        `json:"sort_order"`
	Visible      *bool                      `json:"visible"`
	Featured     bool                       `json:"featured"`
	Descriptions []CategoryDescriptionInput `json:"descriptions" binding:"required,min=1,dive"`
}

// UpdateCategoryRequest represents a request to update a category.
// ParentID moves the category; Root moves it to the top level.
type UpdateCategoryRequest struct {
	ParentID     *uuid.UUID                 `json:"parent_id"`
	Root         bool                       `json:"root"`
	SortOrder    *int                       `json:"sort_order"`
	Visible      *bool                      `json:"visible"`
	Featured     *bool                      `json:"featured"`
	Descriptions []CategoryDescriptionInput `json:"descriptions" binding:"omitempty,dive"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID              uuid.UUID          `json:"id"`
	Code            string             `json:"code"`
	ParentID        *uuid.UUID         `json:"parent_id,omitempty"`
	Depth           int                `json:"depth"`
	SortOrder       int                `json:"sort_order"`
	Visible         bool               `json:"visible"`
	Featured        bool               `json:"featured"`
	Language        string             `json:"language,omitempty"`
	Name            string             `json:"name,omitempty"`
	SeUrl           string             `json:"se_url,omitempty"`
	MetaDescription string             `json:"meta_description,omitempty"`
	ProductCount    int64              `json:"product_count"`
	Children        []CategoryResponse `json:"children,omitempty"`
	Version         int                `json:"version"`
}

// ToCategoryResponse converts a category, localized in lang
func ToCategoryResponse(c *catalog.Category, lang string) CategoryResponse {
	resp := CategoryResponse{
		ID:        c.ID,
		Code:      c.Code,
		ParentID:  c.ParentID,
		Depth:     c.Depth,
		SortOrder: c.SortOrder,
		Visible:   c.Visible,
		Featured:  c.Featured,
		Version:   c.Version,
	}
	if d := c.DescriptionFor(lang); d != nil {
		resp.Language = d.Language
		resp.Name = d.Name
		resp.SeUrl = d.SeUrl
		resp.MetaDescription = d.MetaDescription
	}
	return resp
}

// ProductDescriptionInput is the localized part of a product request
type ProductDescriptionInput struct {
	Language        string `json:"language" binding:"required,min=2,max=5"`
	Name            string `json:"name" binding:"required,min=1,max=120"`
	Description     string `json:"description"`
	SeUrl           string `json:"se_url" binding:"max=120"`
	MetaTitle       string `json:"meta_title" binding:"max=100"`
	MetaDescription string `json:"meta_description" binding:"max=255"`
}

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Sku           string                    `json:"sku" binding:"required,min=1,max=100"`
	Price         decimal.Decimal           `json:"price"`
	Available     *bool                     `json:"available"`
	DateAvailable *time.Time                `json:"date_available"`
	ProductType   string                    `json:"product_type" binding:"max=100"`
	Manufacturer  string                    `json:"manufacturer" binding:"max=100"`
	Weight        decimal.Decimal           `json:"weight"`
	Length        decimal.Decimal           `json:"length"`
	Width         decimal.Decimal           `json:"width"`
	Height        decimal.Decimal           `json:"height"`
	Virtual       bool                      `json:"virtual"`
	SortOrder     int                       `json:"sort_order"`
	CategoryIDs   []uuid.UUID               `json:"category_ids"`
	Descriptions  []ProductDescriptionInput `json:"descriptions" binding:"required,min=1,dive"`
}

// UpdateProductRequest represents a request to update a product. Nil fields are left unchanged.
type UpdateProductRequest struct {
	Price         *decimal.Decimal          `json:"price"`
	Available     *bool                     `json:"available"`
	DateAvailable *time.Time                `json:"date_available"`
	ProductType   *string                   `json:"product_type" binding:"omitempty,max=100"`
	Manufacturer  *string                   `json:"manufacturer" binding:"omitempty,max=100"`
	Weight        *decimal.Decimal          `json:"weight"`
	Length        *decimal.Decimal          `json:"length"`
	Width         *decimal.Decimal          `json:"width"`
	Height        *decimal.Decimal          `json:"height"`
	Virtual       *bool                     `json:"virtual"`
	SortOrder     *int                      `json:"sort_order"`
	CategoryIDs   *[]uuid.UUID              `json:"category_ids"`
	Descriptions  []ProductDescriptionInput `json:"descriptions" binding:"omitempty,dive"`
}

// CategoryRef is the short category form embedded in product responses
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Code string    `json:"code"`
	Name string    `json:"name,omitempty"`
}

// ImageResponse represents a product image
type ImageResponse struct {
	ID           uuid.UUID `json:"id"`
	ImageName    string    `json:"image_name"`
	External     bool      `json:"external"`
	ExternalURL  string    `json:"external_url,omitempty"`
	DefaultImage bool      `json:"default_image"`
	SortOrder    int       `json:"sort_order"`
	AltTag       string    `json:"alt_tag,omitempty"`
	SmallPath    string    `json:"small_path,omitempty"`
	LargePath    string    `json:"large_path,omitempty"`
}

// VariantImageResponse represents a product variant image
type VariantImageResponse struct {
	ID               uuid.UUID `json:"id"`
	ProductVariantID uuid.UUID `json:"product_variant_id"`
	ImageName        string    `json:"image_name"`
	ExternalURL      string    `json:"external_url,omitempty"`
	DefaultImage     bool      `json:"default_image"`
	Path             string    `json:"path,omitempty"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID              uuid.UUID       `json:"id"`
	Sku             string          `json:"sku"`
	Price           decimal.Decimal `json:"price"`
	Available       bool            `json:"available"`
	DateAvailable   *time.Time      `json:"date_available,omitempty"`
	ProductTypeID   *uuid.UUID      `json:"product_type_id,omitempty"`
	Manufacturer    string          `json:"manufacturer,omitempty"`
	Weight          decimal.Decimal `json:"weight"`
	Length          decimal.Decimal `json:"length"`
	Width           decimal.Decimal `json:"width"`
	Height          decimal.Decimal `json:"height"`
	Shippable       bool            `json:"shippable"`
	Virtual         bool            `json:"virtual"`
	SortOrder       int             `json:"sort_order"`
	Language        string          `json:"language,omitempty"`
	Name            string          `json:"name,omitempty"`
	Description     string          `json:"description,omitempty"`
	SeUrl           string          `json:"se_url,omitempty"`
	MetaTitle       string          `json:"meta_title,omitempty"`
	MetaDescription string          `json:"meta_description,omitempty"`
	Categories      []CategoryRef   `json:"categories"`
	Images          []ImageResponse `json:"images"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Version         int             `json:"version"`
}

// ToProductResponse converts a product, localized in lang
func ToProductResponse(p *catalog.Product, lang string) ProductResponse {
	resp := ProductResponse{
		ID:            p.ID,
		Sku:           p.Sku,
		Price:         p.Price,
		Available:     p.Available,
		DateAvailable: p.DateAvailable,
		ProductTypeID: p.ProductTypeID,
		Manufacturer:  p.Manufacturer,
		Weight:        p.Weight,
		Length:        p.Length,
		Width:         p.Width,
		Height:        p.Height,
		Shippable:     p.Shippable,
		Virtual:       p.Virtual,
		SortOrder:     p.SortOrder,
		Categories:    make([]CategoryRef, 0, len(p.Categories)),
		Images:        make([]ImageResponse, 0, len(p.Images)),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
		Version:       p.Version,
	}
	if d := p.DescriptionFor(lang); d != nil {
		resp.Language = d.Language
		resp.Name = d.Name
		resp.Description = d.Description.Description
		resp.SeUrl = d.SeUrl
		resp.MetaTitle = d.MetaTitle
		resp.MetaDescription = d.MetaDescription
	}
	for i := range p.Categories {
		ref := CategoryRef{ID: p.Categories[i].ID, Code: p.Categories[i].Code}
		if d := p.Categories[i].DescriptionFor(lang); d != nil {
			ref.Name = d.Name
		}
		resp.Categories = append(resp.Categories, ref)
	}
	for i := range p.Images {
		resp.Images = append(resp.Images, ToImageResponse(p.Sku, &p.Images[i], lang))
	}
	return resp
}

// ToImageResponse converts an image. Internal images expose their storage paths.
func ToImageResponse(sku string, img *catalog.ProductImage, lang string) ImageResponse {
	resp := ImageResponse{
		ID:           img.ID,
		ImageName:    img.ImageName,
		External:     img.ImageType == catalog.ImageTypeExternal,
		ExternalURL:  img.ExternalURL,
		DefaultImage: img.DefaultImage,
		SortOrder:    img.SortOrder,
	}
	if !resp.External {
		resp.SmallPath = img.StoragePath(sku, catalog.ImageSizeSmall)
		resp.LargePath = img.StoragePath(sku, catalog.ImageSizeLarge)
	}
	for _, d := range img.Descriptions {
		if d.Language == lang || resp.AltTag == "" {
			resp.AltTag = d.AltTag
		}
	}
	return resp
}

// ToVariantImageResponse converts a variant image. Stored images live next to
// the product's LARGE images.
func ToVariantImageResponse(sku string, img *catalog.ProductVariantImage) VariantImageResponse {
	resp := VariantImageResponse{
		ID:               img.ID,
		ProductVariantID: img.ProductVariantID,
		ImageName:        img.ImageName,
		ExternalURL:      img.ExternalURL,
		DefaultImage:     img.DefaultImage,
	}
	if img.ExternalURL == "" {
		resp.Path = sku + "/" + string(catalog.ImageSizeLarge) + "/" + img.ImageName
	}
	return resp
}

// ProductTypeRequest represents a request to create or update a product type
type ProductTypeRequest struct {
	Code           string          `json:"code" binding:"required,min=1,max=100"`
	Visible        *bool           `json:"visible"`
	AllowAddToCart bool            `json:"allow_add_to_cart"`
	Names          []LocalizedName `json:"names" binding:"omitempty,dive"`
}

// LocalizedName is a name in one language
type LocalizedName struct {
	Language string `json:"language" binding:"required,min=2,max=5"`
	Name     string `json:"name" binding:"required,min=1,max=120"`
}

// ProductTypeResponse represents a product type in API responses
type ProductTypeResponse struct {
	ID             uuid.UUID `json:"id"`
	Code           string    `json:"code"`
	Visible        bool      `json:"visible"`
	AllowAddToCart bool      `json:"allow_add_to_cart"`
	Name           string    `json:"name,omitempty"`
}

// ToProductTypeResponse converts a product type, localized in lang
func ToProductTypeResponse(t *catalog.ProductType, lang string) ProductTypeResponse {
	resp := ProductTypeResponse{
		ID:             t.ID,
		Code:           t.Code,
		Visible:        t.Visible,
		AllowAddToCart: t.AllowAddToCart,
	}
	for _, d := range t.Descriptions {
		if d.Language == lang || resp.Name == "" {
			resp.Name = d.Name
		}
	}
	return resp
}

// AvailabilityRequest represents a request to create or update a product availability
type AvailabilityRequest struct {
	Region           string     `json:"region" binding:"omitempty,max=2"`
	Quantity         int        `json:"quantity" binding:"min=0"`
	QuantityOrderMin int        `json:"quantity_order_min" binding:"omitempty,min=1"`
	QuantityOrderMax int        `json:"quantity_order_max" binding:"min=0"`
	FreeShipping     bool       `json:"free_shipping"`
	Status           *bool      `json:"status"`
	DateAvailable    *time.Time `json:"date_available"`
}

// AdjustStockRequest changes the quantity of an availability by Delta
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// AvailabilityResponse represents a product availability
type AvailabilityResponse struct {
	ID               uuid.UUID  `json:"id"`
	ProductID        uuid.UUID  `json:"product_id"`
	Region           string     `json:"region"`
	Quantity         int        `json:"quantity"`
	QuantityOrderMin int        `json:"quantity_order_min"`
	QuantityOrderMax int        `json:"quantity_order_max"`
	FreeShipping     bool       `json:"free_shipping"`
	Status           bool       `json:"status"`
	DateAvailable    *time.Time `json:"date_available,omitempty"`
}

// ToAvailabilityResponse converts an availability record
func ToAvailabilityResponse(a *catalog.ProductAvailability) AvailabilityResponse {
	return AvailabilityResponse{
		ID:               a.ID,
		ProductID:        a.ProductID,
		Region:           a.Region,
		Quantity:         a.Quantity,
		QuantityOrderMin: a.QuantityOrderMin,
		QuantityOrderMax: a.QuantityOrderMax,
		FreeShipping:     a.FreeShipping,
		Status:           a.Status,
		DateAvailable:    a.DateAvailable,
	}
}
