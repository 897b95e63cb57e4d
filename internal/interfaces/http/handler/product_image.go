package handler

import (
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/salesmanager/backend/internal/application/catalog"
	"github.com/salesmanager/backend/internal/domain/catalog"
)

// uploadField is the multipart field carrying uploaded files
const uploadField = "file"

// ProductImageHandler handles product image endpoints
type ProductImageHandler struct {
	BaseHandler
	catalog *catalogapp.CatalogFacade
	images  *catalogapp.ProductImageService
}

// NewProductImageHandler creates a new ProductImageHandler
func NewProductImageHandler(catalog *catalogapp.CatalogFacade, images *catalogapp.ProductImageService) *ProductImageHandler {
	return &ProductImageHandler{catalog: catalog, images: images}
}

// List godoc
// @ID           listProductImages
// @Summary      Images of a product
// @Tags         product-images
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[[]catalogapp.ImageResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id}/images [get]
func (h *ProductImageHandler) List(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	images, err := h.images.List(c.Request.Context(), h.Store(c).ID, id, h.Language(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, images)
}

// VariantImages godoc
// @ID           listProductVariantImages
// @Summary      Images of the variants of a product
// @Tags         product-images
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} APIResponse[[]catalogapp.VariantImageResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /products/{id}/variants/images [get]
func (h *ProductImageHandler) VariantImages(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	images, err := h.images.VariantImages(c.Request.Context(), h.Store(c).ID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, images)
}

// Upload godoc
// @ID           uploadProductImage
// @Summary      Upload a product image
// @Description  The image is stored in SMALL and LARGE sizes. The first image of a product becomes its default.
// @Tags         product-images
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        file formData file true "Image file"
// @Param        default_image formData bool false "Make it the default image"
// @Param        alt_tag formData string false "Alt text in the request language"
// @Success      201 {object} APIResponse[catalogapp.ImageResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/products/{id}/images [post]
func (h *ProductImageHandler) Upload(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	header, err := c.FormFile(uploadField)
	if err != nil {
		h.BadRequest(c, "An image file is required")
		return
	}
	body, err := readUpload(header)
	if err != nil {
		h.BadRequest(c, "Unable to read the uploaded file")
		return
	}

	lang := h.Language(c)
	req := catalogapp.UploadImageRequest{
		FileName: header.Filename,
		Body:     body,
	}
	req.DefaultImage, _ = strconv.ParseBool(c.PostForm("default_image"))
	if alt := strings.TrimSpace(c.PostForm("alt_tag")); alt != "" {
		req.AltTags = []catalogapp.ImageAltTag{{Language: lang, Name: header.Filename, AltTag: alt}}
	}

	store := h.Store(c)
	image, err := h.catalog.UploadProductImage(c.Request.Context(), store.ID, store.Code, id, lang, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, image)
}

// AddExternal godoc
// @ID           addExternalProductImage
// @Summary      Attach an image hosted elsewhere
// @Tags         product-images
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.ExternalImageRequest true "External image"
// @Success      201 {object} APIResponse[catalogapp.ImageResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/products/{id}/images/external [post]
func (h *ProductImageHandler) AddExternal(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ExternalImageRequest
	if !h.BindJSON(c, &req) {
		return
	}
	image, err := h.images.AddExternal(c.Request.Context(), h.Store(c).ID, id, h.Language(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, image)
}

// SetDefault godoc
// @ID           setDefaultProductImage
// @Summary      Make an image the default image of its product
// @Tags         product-images
// @Param        id path string true "Product ID"
// @Param        imageId path string true "Image ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/products/{id}/images/{imageId}/default [put]
func (h *ProductImageHandler) SetDefault(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	imageID, ok := h.PathUUID(c, "imageId")
	if !ok {
		return
	}
	if err := h.images.SetDefault(c.Request.Context(), h.Store(c).ID, id, imageID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete godoc
// @ID           deleteProductImage
// @Summary      Remove an image and its stored files
// @Tags         product-images
// @Param        id path string true "Product ID"
// @Param        imageId path string true "Image ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /private/products/{id}/images/{imageId} [delete]
func (h *ProductImageHandler) Delete(c *gin.Context) {
	id, ok := h.PathUUID(c, "id")
	if !ok {
		return
	}
	imageID, ok := h.PathUUID(c, "imageId")
	if !ok {
		return
	}
	store := h.Store(c)
	if err := h.images.Delete(c.Request.Context(), store.ID, store.Code, id, imageID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// File godoc
// @ID           getProductImageFile
// @Summary      Serve a stored product image
// @Tags         product-images
// @Produce      image/png,image/jpeg,image/gif
// @Param        sku path string true "Product SKU"
// @Param        size path string true "SMALL or LARGE"
// @Param        name path string true "Image name"
// @Success      200 {file} file
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /static/products/{sku}/{size}/{name} [get]
func (h *ProductImageHandler) File(c *gin.Context) {
	size := catalog.ImageSize(strings.ToUpper(c.Param("size")))
	file, err := h.images.GetImageFile(c.Request.Context(), h.Store(c).Code, c.Param("sku"), size, c.Param("name"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=86400")
	h.SendFile(c, file.FileName, file.MimeType, file.Body, false)
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
