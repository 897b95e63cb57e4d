package content

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ContentService manages pages, boxes and sections plus the store's static files
type ContentService struct {
	contentRepo content.ContentRepository
	files       *StaticContentFileManager
	logger      *zap.Logger
}

// NewContentService creates a new ContentService
func NewContentService(contentRepo content.ContentRepository, files *StaticContentFileManager, logger *zap.Logger) *ContentService {
	return &ContentService{
		contentRepo: contentRepo,
		files:       files,
		logger:      logger,
	}
}

// Create creates a content entry
func (s *ContentService) Create(ctx context.Context, storeID uuid.UUID, lang string, req ContentRequest) (*ContentResponse, error) {
	exists, err := s.contentRepo.ExistsByCode(ctx, storeID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.WrapDomainError("ALREADY_EXISTS", "Content with this code already exists", shared.ErrAlreadyExists)
	}

	c, err := content.NewContent(storeID, req.Code, content.ContentType(strings.ToUpper(req.ContentType)))
	if err != nil {
		return nil, err
	}
	if err := apply(c, req); err != nil {
		return nil, err
	}
	if err := s.contentRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToContentResponse(c, lang)
	return &resp, nil
}

// Update changes a content entry. Code and type are immutable.
func (s *ContentService) Update(ctx context.Context, storeID, id uuid.UUID, lang string, req ContentRequest) (*ContentResponse, error) {
	c, err := s.contentRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if req.Code != c.Code {
		return nil, shared.NewDomainError("INVALID_CODE", "Content code cannot be changed")
	}
	if !strings.EqualFold(req.ContentType, string(c.ContentType)) {
		return nil, shared.NewDomainError("INVALID_CONTENT_TYPE", "Content type cannot be changed")
	}
	if err := apply(c, req); err != nil {
		return nil, err
	}
	if err := s.contentRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToContentResponse(c, lang)
	return &resp, nil
}

func apply(c *content.Content, req ContentRequest) error {
	if err := c.Place(content.ContentPosition(strings.ToUpper(req.ContentPosition)), req.LinkToMenu, req.SortOrder); err != nil {
		return err
	}
	c.ProductGroup = req.ProductGroup
	if req.Visible {
		c.Publish()
	} else {
		c.Unpublish()
	}
	for _, d := range req.Descriptions {
		if err := c.SetDescription(content.DescriptionInput{
			Language:           d.Language,
			Name:               d.Name,
			Title:              d.Title,
			Body:               d.Body,
			SeUrl:              d.SeUrl,
			MetatagTitle:       d.MetatagTitle,
			MetatagDescription: d.MetatagDescription,
			MetatagKeywords:    d.MetatagKeywords,
		}); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a content entry for administration
func (s *ContentService) GetByID(ctx context.Context, storeID, id uuid.UUID, lang string) (*ContentResponse, error) {
	c, err := s.contentRepo.FindByID(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	resp := ToContentResponse(c, lang)
	return &resp, nil
}

// GetByCode retrieves visible content in one language
func (s *ContentService) GetByCode(ctx context.Context, storeID uuid.UUID, code, lang string) (*ContentResponse, error) {
	c, err := s.contentRepo.FindByCodeAndLanguage(ctx, storeID, code, lang)
	if err != nil {
		return nil, err
	}
	if !c.Visible {
		return nil, shared.ErrNotFound
	}
	resp := ToContentResponse(c, lang)
	return &resp, nil
}

// GetBySeUrl retrieves visible content by its friendly url in lang
func (s *ContentService) GetBySeUrl(ctx context.Context, storeID uuid.UUID, lang, seUrl string) (*ContentResponse, error) {
	c, err := s.contentRepo.FindBySeUrl(ctx, storeID, lang, seUrl)
	if err != nil {
		return nil, err
	}
	if !c.Visible {
		return nil, shared.ErrNotFound
	}
	resp := ToContentResponse(c, lang)
	return &resp, nil
}

// ListVisible returns the visible content of the given types, sorted for display
func (s *ContentService) ListVisible(ctx context.Context, storeID uuid.UUID, lang string, types ...content.ContentType) ([]ContentResponse, error) {
	list, err := s.contentRepo.ListByType(ctx, storeID, types, lang)
	if err != nil {
		return nil, err
	}
	out := make([]ContentResponse, 0, len(list))
	for i := range list {
		if list[i].Visible {
			out = append(out, ToContentResponse(&list[i], lang))
		}
	}
	return out, nil
}

// ListNames returns the menu projection of the given content types
func (s *ContentService) ListNames(ctx context.Context, storeID uuid.UUID, lang string, types ...content.ContentType) ([]content.ContentName, error) {
	return s.contentRepo.ListNameByType(ctx, storeID, types, lang)
}

// List returns a page of content matching the criteria
func (s *ContentService) List(ctx context.Context, criteria content.ContentCriteria) (shared.Paginated[ContentResponse], error) {
	list, total, err := s.contentRepo.FindByCriteria(ctx, criteria)
	if err != nil {
		return shared.Paginated[ContentResponse]{}, err
	}
	items := make([]ContentResponse, 0, len(list))
	for i := range list {
		items = append(items, ToContentResponse(&list[i], criteria.Language))
	}
	return shared.NewPaginated(items, total, criteria.Page(), criteria.Limit()), nil
}

// CodeExists reports whether a content code is taken in the store
func (s *ContentService) CodeExists(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	return s.contentRepo.ExistsByCode(ctx, storeID, code)
}

// Delete removes a content entry
func (s *ContentService) Delete(ctx context.Context, storeID, id uuid.UUID) error {
	return s.contentRepo.Delete(ctx, storeID, id)
}

// AddContentFile stores a static file or image of the store
func (s *ContentService) AddContentFile(ctx context.Context, storeCode string, req ContentFileRequest) (*ContentFileResponse, error) {
	fileType := req.FileContentType
	if fileType == "" {
		fileType = content.FileContentTypeImage
		if !strings.HasPrefix(req.MimeType, "image/") {
			fileType = content.FileContentTypeStaticFile
		}
	}
	path, err := content.CleanFolderPath(req.Path)
	if err != nil {
		return nil, err
	}
	file := content.InputContentFile{
		FileName:        req.FileName,
		MimeType:        req.MimeType,
		FileContentType: fileType,
		Path:            path,
		Body:            req.Body,
	}
	if err := s.files.AddFile(ctx, storeCode, file); err != nil {
		return nil, err
	}
	s.logger.Info("Content file stored",
		zap.String("store", storeCode),
		zap.String("type", string(fileType)),
		zap.String("file", req.FileName))
	return &ContentFileResponse{
		FileName:        file.FileName,
		MimeType:        file.MimeType,
		FileContentType: string(file.FileContentType),
		Path:            file.Path,
		Size:            int64(len(file.Body)),
	}, nil
}

// GetContentFile reads a publicly served file with its body. Types that are
// not public answer not found.
func (s *ContentService) GetContentFile(ctx context.Context, storeCode string, fileType content.FileContentType, path, name string) (*content.OutputContentFile, error) {
	if !fileType.IsPublic() {
		return nil, shared.WrapDomainError("FILE_NOT_FOUND", "File not found", shared.ErrNotFound)
	}
	clean, err := content.CleanFolderPath(path)
	if err != nil {
		return nil, err
	}
	return s.files.GetFile(ctx, storeCode, fileType, clean, name)
}

// RemoveContentFile deletes a stored file
func (s *ContentService) RemoveContentFile(ctx context.Context, storeCode string, fileType content.FileContentType, path, name string) error {
	clean, err := content.CleanFolderPath(path)
	if err != nil {
		return err
	}
	return s.files.RemoveFile(ctx, storeCode, fileType, clean, name)
}

// ListContentFiles lists the file names of a content type
func (s *ContentService) ListContentFiles(ctx context.Context, storeCode string, fileType content.FileContentType) ([]string, error) {
	if !fileType.IsValid() {
		return nil, shared.NewDomainError("INVALID_FILE_CONTENT_TYPE", "Unknown file content type: "+string(fileType))
	}
	return s.files.GetFileNames(ctx, storeCode, fileType)
}

// AddFolder creates an image folder
func (s *ContentService) AddFolder(ctx context.Context, storeCode, folderName, path string) error {
	clean, err := content.CleanFolderPath(path)
	if err != nil {
		return err
	}
	return s.files.AddFolder(ctx, storeCode, folderName, clean)
}

// RemoveFolder deletes an image folder
func (s *ContentService) RemoveFolder(ctx context.Context, storeCode, folderName, path string) error {
	clean, err := content.CleanFolderPath(path)
	if err != nil {
		return err
	}
	return s.files.RemoveFolder(ctx, storeCode, folderName, clean)
}

// ListFolders lists the image folders below path
func (s *ContentService) ListFolders(ctx context.Context, storeCode, path string) ([]string, error) {
	clean, err := content.CleanFolderPath(path)
	if err != nil {
		return nil, err
	}
	return s.files.ListFolders(ctx, storeCode, clean)
}
