package content

import (
	"strings"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// ContentType classifies managed content
type ContentType string

const (
	ContentTypePage    ContentType = "PAGE"
	ContentTypeBox     ContentType = "BOX"
	ContentTypeSection ContentType = "SECTION"
)

// IsValid checks the content type
func (t ContentType) IsValid() bool {
	switch t {
	case ContentTypePage, ContentTypeBox, ContentTypeSection:
		return true
	}
	return false
}

// ContentPosition is where a box is rendered in the storefront layout
type ContentPosition string

const (
	ContentPositionLeft  ContentPosition = "LEFT"
	ContentPositionRight ContentPosition = "RIGHT"
)

// Content is a CMS page, box or section of a merchant store
type Content struct {
	shared.StoreAggregateRoot
	Code            string               `gorm:"type:varchar(100);not null;index"`
	ContentType     ContentType          `gorm:"type:varchar(10);not null;index"`
	ContentPosition ContentPosition      `gorm:"type:varchar(10)"`
	Visible         bool                 `gorm:"not null;default:false"`
	LinkToMenu      bool                 `gorm:"not null;default:false"`
	SortOrder       int                  `gorm:"not null;default:0"`
	ProductGroup    string               `gorm:"type:varchar(100)"`
	Descriptions    []ContentDescription `gorm:"foreignKey:ContentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (Content) TableName() string {
	return "contents"
}

// ContentDescription is the localized body and SEO data of a content entry
type ContentDescription struct {
	shared.Description
	ContentID          uuid.UUID `gorm:"type:uuid;not null;index"`
	SeUrl              string    `gorm:"column:se_url;type:varchar(120);index"`
	MetatagTitle       string    `gorm:"type:varchar(100)"`
	MetatagDescription string    `gorm:"type:varchar(255)"`
	MetatagKeywords    string    `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (ContentDescription) TableName() string {
	return "content_descriptions"
}

// ContentName is the lightweight projection used for menus and listings
type ContentName struct {
	ID          uuid.UUID   `json:"id"`
	Code        string      `json:"code"`
	ContentType ContentType `json:"content_type"`
	Language    string      `json:"language"`
	Name        string      `json:"name"`
	SeUrl       string      `json:"se_url"`
	SortOrder   int         `json:"sort_order"`
}

// NewContent creates a content entry
func NewContent(storeID uuid.UUID, code string, contentType ContentType) (*Content, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Content code cannot be empty")
	}
	if len(code) > 100 {
		return nil, shared.NewDomainError("INVALID_CODE", "Content code cannot exceed 100 characters")
	}
	if !contentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type must be PAGE, BOX or SECTION")
	}
	return &Content{
		StoreAggregateRoot: shared.NewStoreAggregateRoot(storeID),
		Code:               code,
		ContentType:        contentType,
	}, nil
}

// DescriptionInput carries the editable localized fields of a content entry
type DescriptionInput struct {
	Language           string
	Name               string
	Title              string
	Body               string
	SeUrl              string
	MetatagTitle       string
	MetatagDescription string
	MetatagKeywords    string
}

// SetDescription adds or replaces the description for a language
func (c *Content) SetDescription(in DescriptionInput) error {
	desc, err := shared.NewDescription(in.Language, in.Name)
	if err != nil {
		return err
	}
	desc.Title = in.Title
	desc.Description = in.Body
	seUrl := in.SeUrl
	if seUrl == "" {
		seUrl = shared.Slugify(in.Name)
	}
	entry := ContentDescription{
		Description:        desc,
		ContentID:          c.ID,
		SeUrl:              seUrl,
		MetatagTitle:       in.MetatagTitle,
		MetatagDescription: in.MetatagDescription,
		MetatagKeywords:    in.MetatagKeywords,
	}
	for i := range c.Descriptions {
		if c.Descriptions[i].Language == desc.Language {
			entry.ID = c.Descriptions[i].ID
			entry.CreatedAt = c.Descriptions[i].CreatedAt
			c.Descriptions[i] = entry
			c.Touch()
			return nil
		}
	}
	c.Descriptions = append(c.Descriptions, entry)
	c.Touch()
	return nil
}

// DescriptionFor returns the description in lang, falling back to the first one
func (c *Content) DescriptionFor(lang string) *ContentDescription {
	idx := shared.FindLocalized(c.Descriptions, lang, "")
	if idx < 0 {
		return nil
	}
	return &c.Descriptions[idx]
}

// Place sets the box position and menu behavior
func (c *Content) Place(position ContentPosition, linkToMenu bool, sortOrder int) error {
	if position != "" && position != ContentPositionLeft && position != ContentPositionRight {
		return shared.NewDomainError("INVALID_POSITION", "Content position must be LEFT or RIGHT")
	}
	if c.ContentType != ContentTypeBox && position != "" {
		return shared.NewDomainError("INVALID_POSITION", "Only boxes have a position")
	}
	c.ContentPosition = position
	c.LinkToMenu = linkToMenu
	c.SortOrder = sortOrder
	c.Touch()
	return nil
}

// Publish makes the content visible in the storefront
func (c *Content) Publish() {
	c.Visible = true
	c.Touch()
	c.IncrementVersion()
}

// Unpublish hides the content
func (c *Content) Unpublish() {
	c.Visible = false
	c.Touch()
	c.IncrementVersion()
}
