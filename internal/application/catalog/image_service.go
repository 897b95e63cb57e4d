package catalog

import (
	"bytes"
	"context"
	"image"
	"mime"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/catalog"
	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/infrastructure/config"
	"github.com/salesmanager/backend/internal/infrastructure/imaging"
	"github.com/salesmanager/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// UploadImageRequest carries a product image file
type UploadImageRequest struct {
	FileName     string
	Body         []byte
	DefaultImage bool
	AltTags      []ImageAltTag
}

// ImageAltTag is the alt text of an image in one language
type ImageAltTag struct {
	Language string `json:"language" binding:"required,min=2,max=5"`
	Name     string `json:"name" binding:"required"`
	AltTag   string `json:"alt_tag" binding:"max=100"`
}

// ExternalImageRequest attaches an image hosted elsewhere
type ExternalImageRequest struct {
	URL          string        `json:"url" binding:"required,url"`
	DefaultImage bool          `json:"default_image"`
	AltTags      []ImageAltTag `json:"alt_tags" binding:"omitempty,dive"`
}

// ProductImageService stores product images in the SMALL and LARGE sizes
type ProductImageService struct {
	productRepo catalog.ProductRepository
	imageRepo   catalog.ProductImageRepository
	variantRepo catalog.ProductVariantImageRepository
	files       content.FileStore
	cfg         config.ImageConfig
	metrics     *telemetry.ShopMetrics
	logger      *zap.Logger
}

// NewProductImageService creates a new ProductImageService
func NewProductImageService(
	productRepo catalog.ProductRepository,
	imageRepo catalog.ProductImageRepository,
	variantRepo catalog.ProductVariantImageRepository,
	files content.FileStore,
	cfg config.ImageConfig,
	metrics *telemetry.ShopMetrics,
	logger *zap.Logger,
) *ProductImageService {
	if metrics == nil {
		metrics = telemetry.NopShopMetrics()
	}
	return &ProductImageService{
		productRepo: productRepo,
		imageRepo:   imageRepo,
		variantRepo: variantRepo,
		files:       files,
		cfg:         cfg,
		metrics:     metrics,
		logger:      logger,
	}
}

// List returns the images of a product
func (s *ProductImageService) List(ctx context.Context, storeID, productID uuid.UUID, lang string) ([]ImageResponse, error) {
	product, err := s.productRepo.FindByID(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	out := make([]ImageResponse, 0, len(product.Images))
	for i := range product.Images {
		out = append(out, ToImageResponse(product.Sku, &product.Images[i], lang))
	}
	return out, nil
}

// VariantImages returns the images attached to the variants of a product
func (s *ProductImageService) VariantImages(ctx context.Context, storeID, productID uuid.UUID) ([]VariantImageResponse, error) {
	product, err := s.productRepo.FindByID(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	images, err := s.variantRepo.FindByProduct(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	out := make([]VariantImageResponse, 0, len(images))
	for i := range images {
		out = append(out, ToVariantImageResponse(product.Sku, &images[i]))
	}
	return out, nil
}

// Upload resizes an image into its SMALL and LARGE variants, stores both and
// attaches the image to the product
func (s *ProductImageService) Upload(ctx context.Context, storeID uuid.UUID, storeCode string, productID uuid.UUID, lang string, req UploadImageRequest) (resp *ImageResponse, err error) {
	ctx, span := telemetry.StartSpan(ctx, "catalog.UploadProductImage",
		attribute.String("store.code", storeCode),
		attribute.String("image.name", req.FileName))
	defer telemetry.EndSpan(span, &err)

	product, err := s.productRepo.FindByID(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	img, err := catalog.NewProductImage(req.FileName)
	if err != nil {
		return nil, err
	}
	for _, existing := range product.Images {
		if existing.ImageType == catalog.ImageTypeInternal && existing.ImageName == img.ImageName {
			return nil, shared.WrapDomainError("ALREADY_EXISTS", "Product already has an image named "+img.ImageName, shared.ErrAlreadyExists)
		}
	}
	if err := applyAltTags(img, req.AltTags); err != nil {
		return nil, err
	}

	files, err := s.resize(product.Sku, img.ImageName, req.Body)
	if err != nil {
		return nil, err
	}
	if err := s.files.AddFiles(ctx, storeCode, files); err != nil {
		return nil, err
	}

	img.DefaultImage = req.DefaultImage
	attached := product.AddImage(*img)
	if err := s.productRepo.Save(ctx, product); err != nil {
		s.removeFiles(ctx, storeCode, product.Sku, img.ImageName)
		return nil, err
	}

	s.metrics.ImageUploaded(ctx, storeCode)
	s.logger.Info("Product image uploaded",
		zap.String("store", storeCode),
		zap.String("sku", product.Sku),
		zap.String("image", img.ImageName))

	out := ToImageResponse(product.Sku, attached, lang)
	return &out, nil
}

// AddExternal attaches an image referenced by URL. Nothing is stored.
func (s *ProductImageService) AddExternal(ctx context.Context, storeID, productID uuid.UUID, lang string, req ExternalImageRequest) (*ImageResponse, error) {
	product, err := s.productRepo.FindByID(ctx, storeID, productID)
	if err != nil {
		return nil, err
	}
	img, err := catalog.NewExternalProductImage(req.URL)
	if err != nil {
		return nil, err
	}
	if err := applyAltTags(img, req.AltTags); err != nil {
		return nil, err
	}
	img.DefaultImage = req.DefaultImage
	attached := product.AddImage(*img)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	out := ToImageResponse(product.Sku, attached, lang)
	return &out, nil
}

// SetDefault makes an image the default one of its product
func (s *ProductImageService) SetDefault(ctx context.Context, storeID, productID, imageID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, storeID, productID)
	if err != nil {
		return err
	}
	if err := product.SetDefaultImage(imageID); err != nil {
		return err
	}
	return s.imageRepo.SaveAll(ctx, product.Images)
}

// Delete detaches an image and removes its stored files
func (s *ProductImageService) Delete(ctx context.Context, storeID uuid.UUID, storeCode string, productID, imageID uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, storeID, productID)
	if err != nil {
		return err
	}
	removed, err := product.RemoveImage(imageID)
	if err != nil {
		return err
	}
	if err := s.imageRepo.Delete(ctx, removed.ID, product.Images); err != nil {
		return err
	}
	if removed.ImageType == catalog.ImageTypeInternal {
		s.removeFiles(ctx, storeCode, product.Sku, removed.ImageName)
	}
	return nil
}

// GetImageFile reads a stored variant of a product image
func (s *ProductImageService) GetImageFile(ctx context.Context, storeCode, sku string, size catalog.ImageSize, name string) (*content.OutputContentFile, error) {
	if size != catalog.ImageSizeSmall && size != catalog.ImageSizeLarge {
		return nil, shared.NewDomainError("INVALID_IMAGE_SIZE", "Image size must be SMALL or LARGE")
	}
	if err := content.ValidateFileName(name); err != nil {
		return nil, err
	}
	return s.files.GetFile(ctx, storeCode, content.FileContentTypeProduct, sku+"/"+string(size), name)
}

func (s *ProductImageService) resize(sku, name string, body []byte) ([]content.InputContentFile, error) {
	if len(body) == 0 {
		return nil, shared.NewDomainError("INVALID_IMAGE", "Image file is empty")
	}
	src, _, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_IMAGE", "Image could not be decoded", shared.ErrInvalidInput)
	}
	format, err := imaging.FormatFromName(name)
	if err != nil {
		return nil, shared.WrapDomainError("INVALID_IMAGE_TYPE", "Image must be a png, jpg or gif file", shared.ErrInvalidInput)
	}

	mimeType := mime.TypeByExtension(filepath.Ext(name))
	sizes := []struct {
		size catalog.ImageSize
		w, h int
	}{
		{catalog.ImageSizeSmall, s.cfg.SmallWidth, s.cfg.SmallHeight},
		{catalog.ImageSizeLarge, s.cfg.LargeWidth, s.cfg.LargeHeight},
	}
	out := make([]content.InputContentFile, 0, len(sizes))
	for _, v := range sizes {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, s.scale(src, v.w, v.h), format); err != nil {
			return nil, err
		}
		out = append(out, content.InputContentFile{
			FileName:        name,
			MimeType:        mimeType,
			FileContentType: content.FileContentTypeProduct,
			Path:            sku + "/" + string(v.size),
			Body:            buf.Bytes(),
		})
	}
	return out, nil
}

// scale fits src in maxW x maxH. Quality mode uses the progressive resizer.
func (s *ProductImageService) scale(src image.Image, maxW, maxH int) image.Image {
	if maxW <= 0 || maxH <= 0 {
		return src
	}
	if s.cfg.Quality {
		return imaging.ResizeWithRatio(src, maxW, maxH)
	}
	b := src.Bounds()
	w, h := imaging.FitDimensions(b.Dx(), b.Dy(), maxW, maxH)
	if w == b.Dx() && h == b.Dy() {
		return src
	}
	return imaging.Resize(src, w, h)
}

func (s *ProductImageService) removeFiles(ctx context.Context, storeCode, sku, name string) {
	for _, size := range []catalog.ImageSize{catalog.ImageSizeSmall, catalog.ImageSizeLarge} {
		if err := s.files.RemoveFile(ctx, storeCode, content.FileContentTypeProduct, sku+"/"+string(size), name); err != nil {
			s.logger.Warn("Failed to remove product image file",
				zap.String("store", storeCode),
				zap.String("sku", sku),
				zap.String("size", string(size)),
				zap.Error(err))
		}
	}
}

func applyAltTags(img *catalog.ProductImage, tags []ImageAltTag) error {
	for _, t := range tags {
		if err := img.SetAltTag(t.Language, t.Name, t.AltTag); err != nil {
			return err
		}
	}
	return nil
}
