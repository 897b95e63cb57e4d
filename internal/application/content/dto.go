package content

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/content"
)

// ContentDescriptionInput is the localized part of a content request
type ContentDescriptionInput struct {
	Language           string `json:"language" binding:"required,min=2,max=5"`
	Name               string `json:"name" binding:"required,min=1,max=120"`
	Title              string `json:"title" binding:"max=120"`
	Body               string `json:"description"`
	SeUrl              string `json:"se_url" binding:"max=120"`
	MetatagTitle       string `json:"metatag_title" binding:"max=100"`
	MetatagDescription string `json:"metatag_description" binding:"max=255"`
	MetatagKeywords    string `json:"metatag_keywords" binding:"max=255"`
}

// ContentRequest represents a request to create or update a page, box or section
type ContentRequest struct {
	Code            string                    `json:"code" binding:"required,min=1,max=100"`
	ContentType     string                    `json:"content_type" binding:"required,enumci=PAGE BOX SECTION"`
	ContentPosition string                    `json:"content_position" binding:"omitempty,enumci=LEFT RIGHT"`
	Visible         bool                      `json:"visible"`
	LinkToMenu      bool                      `json:"link_to_menu"`
	SortOrder       int                       `json:"sort_order"`
	ProductGroup    string                    `json:"product_group" binding:"max=100"`
	Descriptions    []ContentDescriptionInput `json:"descriptions" binding:"required,min=1,dive"`
}

// ContentResponse represents a content entry localized in one language
type ContentResponse struct {
	ID                 uuid.UUID `json:"id"`
	Code               string    `json:"code"`
	ContentType        string    `json:"content_type"`
	ContentPosition    string    `json:"content_position,omitempty"`
	Visible            bool      `json:"visible"`
	LinkToMenu         bool      `json:"link_to_menu"`
	SortOrder          int       `json:"sort_order"`
	ProductGroup       string    `json:"product_group,omitempty"`
	Language           string    `json:"language,omitempty"`
	Name               string    `json:"name,omitempty"`
	Title              string    `json:"title,omitempty"`
	Body               string    `json:"description,omitempty"`
	SeUrl              string    `json:"se_url,omitempty"`
	MetatagTitle       string    `json:"metatag_title,omitempty"`
	MetatagDescription string    `json:"metatag_description,omitempty"`
	MetatagKeywords    string    `json:"metatag_keywords,omitempty"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// ToContentResponse converts a content entry, localized in lang
func ToContentResponse(c *content.Content, lang string) ContentResponse {
	resp := ContentResponse{
		ID:              c.ID,
		Code:            c.Code,
		ContentType:     string(c.ContentType),
		ContentPosition: string(c.ContentPosition),
		Visible:         c.Visible,
		LinkToMenu:      c.LinkToMenu,
		SortOrder:       c.SortOrder,
		ProductGroup:    c.ProductGroup,
		UpdatedAt:       c.UpdatedAt,
	}
	if d := c.DescriptionFor(lang); d != nil {
		resp.Language = d.Language
		resp.Name = d.Name
		resp.Title = d.Title
		resp.Body = d.Description.Description
		resp.SeUrl = d.SeUrl
		resp.MetatagTitle = d.MetatagTitle
		resp.MetatagDescription = d.MetatagDescription
		resp.MetatagKeywords = d.MetatagKeywords
	}
	return resp
}

// ContentFileRequest carries an uploaded content file
type ContentFileRequest struct {
	FileName        string
	MimeType        string
	FileContentType content.FileContentType
	Path            string
	Body            []byte
}

// ContentFileResponse describes a stored content file
type ContentFileResponse struct {
	FileName        string `json:"file_name"`
	MimeType        string `json:"mime_type,omitempty"`
	FileContentType string `json:"file_content_type"`
	Path            string `json:"path,omitempty"`
	Size            int64  `json:"size"`
}

// ToContentFileResponse converts a stored file without its body
func ToContentFileResponse(f *content.OutputContentFile) ContentFileResponse {
	return ContentFileResponse{
		FileName:        f.FileName,
		MimeType:        f.MimeType,
		FileContentType: string(f.FileContentType),
		Path:            f.Path,
		Size:            f.Size,
	}
}
