package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	contentapp "github.com/salesmanager/backend/internal/application/content"
	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/infrastructure/criteria"
	"github.com/salesmanager/backend/internal/interfaces/http/dto"
	"github.com/salesmanager/backend/internal/interfaces/http/middleware"
)

var contentCriteriaMapping = criteria.PagingMapping.Merge(criteria.Mapping{
	"type":    "ContentType",
	"code":    "Code",
	"visible": "Visible",
})

// ContentHandler handles pages, boxes and static content files
type ContentHandler struct {
	BaseHandler
	contentService *contentapp.ContentService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(contentService *contentapp.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

// Pages godoc
// @ID           listContentPages
// @Summary      Visible pages of the store
// @Tags         content
// @Produce      json
// @Param        lang query string false "Language"
// @Success      200 {object} APIResponse[[]content.ContentName]
// @Router       /content/pages [get]
func (h *ContentHandler) Pages(c *gin.Context) {
	names, err := h.contentService.ListNames(c.Request.Context(), h.Store(c).ID, h.Language(c), content.ContentTypePage)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, names)
}

// Boxes godoc
// @ID           listContentBoxes
// @Summary      Visible boxes of the store with their body
// @Tags         content
// @Produce      json
// @Param        lang query string false "Language"
// @Success      200 {object} APIResponse[[]contentapp.ContentResponse]
// @Router       /content/boxes [get]
func (h *ContentHandler) Boxes(c *gin.Context) {
	boxes, err := h.contentService.ListVisible(c.Request.Context(), h.Store(c).ID, h.Language(c), content.ContentTypeBox)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, boxes)
}

// GetByCode godoc
// @ID           getContentByCode
// @Summary      Get a page or box by code in the request language
// @Tags         content
// @Produce      json
// @Param        code path string true "Content code"
// @Param        lang query string false "Language"
// @Success      200 {object} APIResponse[contentapp.ContentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /content/{code} [get]
func (h *ContentHandler) GetByCode(c *gin.Context) {
	item, err := h.contentService.GetByCode(c.Request.Context(), h.Store(c).ID, c.Param("code"), h.Language(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// GetBySeUrl godoc
// @ID           getContentBySeUrl
// @Summary      Get a page by its friendly url
// @Tags         content
// @Produce      json
// @Param        seUrl path string true "Friendly url"
// @Success      200 {object} APIResponse[contentapp.ContentResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /content/slug/{seUrl} [get]
func (h *ContentHandler) GetBySeUrl(c *gin.Context) {
	item, err := h.contentService.GetBySeUrl(c.Request.Context(), h.Store(c).ID, h.Language(c), c.Param("seUrl"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// List godoc
// @ID           listContent
// @Summary      Search content of the store
// @Tags         content
// @Produce      json
// @Param        type query []string false "PAGE, BOX or SECTION" collectionFormat(csv)
// @Param        code query string false "Code"
// @Param        visible query bool false "Visibility"
// @Param        q query string false "Name contains"
// @Success      200 {object} APIResponse[[]contentapp.ContentResponse]
// @Security     BearerAuth
// @Router       /private/content [get]
func (h *ContentHandler) List(c *gin.Context) {
	var crit content.ContentCriteria
	if err := criteria.BindQuery(c, contentCriteriaMapping, &crit); err != nil {
		h.HandleError(c, err)
		return
	}
	crit.StoreID = h.Store(c).ID
	crit.Language = h.Language(c)
	for i, t := range crit.ContentType {
		crit.ContentType[i] = content.ContentType(strings.ToUpper(string(t)))
	}
	page, err := h.contentService.List(c.Request.Context(), crit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paged(c, page)
}

// Get godoc
// @ID           getContent
// @Summary      Get a content entry
// @Tags         content
// @Produce      json
// @Param        id path string true "Content ID"
// @Success      200 {object} APIResponse[contentapp.ContentResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/content/{id} [get]
func (h *ContentHandler) Get(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	item, err := h.contentService.GetByID(c.Request.Context(), h.Store(c).ID, id, h.Language(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Create godoc
// @ID           createContent
// @Summary      Create a page, box or section
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        request body contentapp.ContentRequest true "Content"
// @Success      201 {object} APIResponse[contentapp.ContentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/content [post]
func (h *ContentHandler) Create(c *gin.Context) {
	var req contentapp.ContentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.contentService.Create(c.Request.Context(), h.Store(c).ID, h.Language(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Update godoc
// @ID           updateContent
// @Summary      Update a content entry
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        id path string true "Content ID"
// @Param        request body contentapp.ContentRequest true "Content"
// @Success      200 {object} APIResponse[contentapp.ContentResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/content/{id} [put]
func (h *ContentHandler) Update(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req contentapp.ContentRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.contentService.Update(c.Request.Context(), h.Store(c).ID, id, h.Language(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @ID           deleteContent
// @Summary      Delete a content entry
// @Tags         content
// @Param        id path string true "Content ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/content/{id} [delete]
func (h *ContentHandler) Delete(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.contentService.Delete(c.Request.Context(), h.Store(c).ID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CodeExists godoc
// @ID           checkContentCode
// @Summary      Check whether a content code is taken
// @Description  Answers the admin console AJAX envelope; status 9998 means the code exists
// @Tags         content
// @Produce      json
// @Param        code query string true "Content code"
// @Success      200 {object} object
// @Security     BearerAuth
// @Router       /private/content/unique [get]
func (h *ContentHandler) CodeExists(c *gin.Context) {
	exists, err := h.contentService.CodeExists(c.Request.Context(), h.Store(c).ID, c.Query("code"))
	codeExistsAjax(c, exists, err)
}

// fileType reads the file content type query parameter, IMAGE by default
func fileType(c *gin.Context) content.FileContentType {
	return content.FileContentType(strings.ToUpper(c.DefaultQuery("type", string(content.FileContentTypeImage))))
}

// ListFiles godoc
// @ID           listContentFiles
// @Summary      Names of the stored files of a type
// @Description  Answers the admin console AJAX envelope with one {name} entry per file
// @Tags         content-files
// @Produce      json
// @Param        type query string false "File content type" default(IMAGE)
// @Success      200 {object} object
// @Security     BearerAuth
// @Router       /private/content/files [get]
func (h *ContentHandler) ListFiles(c *gin.Context) {
	resp := dto.NewAjaxResponse(dto.ResponseStatusSuccess)
	names, err := h.contentService.ListContentFiles(c.Request.Context(), h.Store(c).Code, fileType(c))
	if err != nil {
		resp.SetErrorMessage(err)
		resp.Send(c)
		return
	}
	for _, name := range names {
		resp.AddEntry(map[string]any{"name": name})
	}
	resp.Send(c)
}

// UploadFile godoc
// @ID           uploadContentFile
// @Summary      Store a static file or image
// @Description  Images are stored under IMAGE and other files under STATIC_FILE unless type is given
// @Tags         content-files
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "File"
// @Param        type formData string false "File content type"
// @Param        path formData string false "Folder"
// @Success      200 {object} object
// @Security     BearerAuth
// @Router       /private/content/files [post]
func (h *ContentHandler) UploadFile(c *gin.Context) {
	resp := dto.NewAjaxResponse(dto.ResponseStatusSuccess)
	header, err := c.FormFile(uploadField)
	if err != nil {
		resp.AddValidationMessage(uploadField, "A file is required")
		resp.Send(c)
		return
	}
	body, err := readUpload(header)
	if err != nil {
		resp.SetErrorMessage(err)
		resp.Send(c)
		return
	}

	req := contentapp.ContentFileRequest{
		FileName:        header.Filename,
		MimeType:        header.Header.Get("Content-Type"),
		FileContentType: content.FileContentType(strings.ToUpper(c.PostForm("type"))),
		Path:            c.PostForm("path"),
		Body:            body,
	}
	stored, err := h.contentService.AddContentFile(c.Request.Context(), h.Store(c).Code, req)
	if err != nil {
		resp.SetErrorMessage(err)
		resp.Send(c)
		return
	}
	resp.Status = dto.ResponseStatusOperationCompleted
	resp.AddDataEntry("file", stored)
	resp.Send(c)
}

// GetFile godoc
// @ID           getContentFile
// @Summary      Serve a stored content file
// @Tags         content-files
// @Param        type path string true "File content type"
// @Param        name path string true "File name"
// @Param        path query string false "Folder"
// @Success      200 {file} file
// @Failure      404 {object} ErrorResponse
// @Router       /static/files/{type}/{name} [get]
func (h *ContentHandler) GetFile(c *gin.Context) {
	ft := content.FileContentType(strings.ToUpper(c.Param("type")))
	file, err := h.contentService.GetContentFile(c.Request.Context(), h.Store(c).Code, ft, c.Query("path"), c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SendFile(c, file.FileName, file.MimeType, file.Body, ft == content.FileContentTypeStaticFile)
}

// RemoveFile godoc
// @ID           removeContentFile
// @Summary      Remove a stored content file
// @Tags         content-files
// @Produce      json
// @Param        name query string true "File name"
// @Param        type query string false "File content type" default(IMAGE)
// @Param        path query string false "Folder"
// @Success      200 {object} object
// @Security     BearerAuth
// @Router       /private/content/files [delete]
func (h *ContentHandler) RemoveFile(c *gin.Context) {
	resp := dto.NewAjaxResponse(dto.ResponseStatusOperationCompleted)
	err := h.contentService.RemoveContentFile(c.Request.Context(), h.Store(c).Code, fileType(c), c.Query("path"), c.Query("name"))
	if err != nil {
		resp.SetErrorMessage(err)
	}
	resp.Send(c)
}

// folderRequest names a folder below a parent path
type folderRequest struct {
	FolderName string `json:"folder_name" binding:"required,max=100"`
	Path       string `json:"path" binding:"max=255"`
}

// ListFolders godoc
// @ID           listContentFolders
// @Summary      Image folders below a path
// @Tags         content-files
// @Produce      json
// @Param        path query string false "Parent folder"
// @Success      200 {object} object
// @Security     BearerAuth
// @Router       /private/content/folders [get]
func (h *ContentHandler) ListFolders(c *gin.Context) {
	resp := dto.NewAjaxResponse(dto.ResponseStatusSuccess)
	folders, err := h.contentService.ListFolders(c.Request.Context(), h.Store(c).Code, c.Query("path"))
	if err != nil {
		resp.SetErrorMessage(err)
		resp.Send(c)
		return
	}
	for _, f := range folders {
		resp.AddEntry(map[string]any{"folder": f})
	}
	resp.Send(c)
}

// AddFolder godoc
// @ID           addContentFolder
// @Summary      Create an image folder
// @Tags         content-files
// @Accept       json
// @Produce      json
// @Param        request body folderRequest true "Folder"
// @Success      200 {object} object
// @Security     BearerAuth
// @Router       /private/content/folders [post]
func (h *ContentHandler) AddFolder(c *gin.Context) {
	h.folderOperation(c, h.contentService.AddFolder)
}

// RemoveFolder godoc
// @ID           removeContentFolder
// @Summary      Remove an image folder
// @Tags         content-files
// @Accept       json
// @Produce      json
// @Param        request body folderRequest true "Folder"
// @Success      200 {object} object
// @Security     BearerAuth
// @Router       /private/content/folders/remove [post]
func (h *ContentHandler) RemoveFolder(c *gin.Context) {
	h.folderOperation(c, h.contentService.RemoveFolder)
}

type folderFunc func(ctx context.Context, storeCode, folderName, path string) error

func (h *ContentHandler) folderOperation(c *gin.Context, op folderFunc) {
	resp := dto.NewAjaxResponse(dto.ResponseStatusOperationCompleted)
	var req folderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		details := middleware.FormatValidationErrors(err)
		if len(details) == 0 {
			resp.SetErrorMessage(err)
		}
		for _, d := range details {
			resp.AddValidationMessage(d.Field, d.Message)
		}
		resp.Send(c)
		return
	}
	if err := op(c.Request.Context(), h.Store(c).Code, req.FolderName, req.Path); err != nil {
		resp.SetErrorMessage(err)
	}
	resp.Send(c)
}
