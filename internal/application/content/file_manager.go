package content

import (
	"context"
	"strings"

	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/domain/merchant"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// StaticContentFileManager routes file and folder operations to the
// configured storage strategies after checking store code and file names
type StaticContentFileManager struct {
	put          content.FilePut
	get          content.FileGet
	remove       content.FileRemove
	folderPut    content.FolderPut
	folderRemove content.FolderRemove
	folderList   content.FolderList
}

// NewStaticContentFileManager creates a manager backed by a single store implementing every strategy
func NewStaticContentFileManager(store content.FileStore) *StaticContentFileManager {
	return &StaticContentFileManager{
		put:          store,
		get:          store,
		remove:       store,
		folderPut:    store,
		folderRemove: store,
		folderList:   store,
	}
}

func checkStore(storeCode string) error {
	if err := merchant.ValidateStoreCode(storeCode); err != nil {
		return shared.WrapDomainError("INVALID_STORE_CODE", "Invalid merchant store code", shared.ErrInvalidInput)
	}
	return nil
}

// AddFile stores one file
func (m *StaticContentFileManager) AddFile(ctx context.Context, storeCode string, file content.InputContentFile) error {
	if err := checkStore(storeCode); err != nil {
		return err
	}
	if err := file.Validate(); err != nil {
		return err
	}
	return m.put.AddFile(ctx, storeCode, file)
}

// AddFiles stores several files
func (m *StaticContentFileManager) AddFiles(ctx context.Context, storeCode string, files []content.InputContentFile) error {
	if err := checkStore(storeCode); err != nil {
		return err
	}
	for i := range files {
		if err := files[i].Validate(); err != nil {
			return err
		}
	}
	return m.put.AddFiles(ctx, storeCode, files)
}

// GetFile reads one file
func (m *StaticContentFileManager) GetFile(ctx context.Context, storeCode string, fileType content.FileContentType, path, fileName string) (*content.OutputContentFile, error) {
	if err := checkStore(storeCode); err != nil {
		return nil, err
	}
	if err := content.ValidateFileName(fileName); err != nil {
		return nil, err
	}
	return m.get.GetFile(ctx, storeCode, fileType, path, fileName)
}

// GetFiles reads every file of a content type
func (m *StaticContentFileManager) GetFiles(ctx context.Context, storeCode string, fileType content.FileContentType) ([]content.OutputContentFile, error) {
	if err := checkStore(storeCode); err != nil {
		return nil, err
	}
	return m.get.GetFiles(ctx, storeCode, fileType)
}

// GetFileNames lists the file names of a content type
func (m *StaticContentFileManager) GetFileNames(ctx context.Context, storeCode string, fileType content.FileContentType) ([]string, error) {
	if err := checkStore(storeCode); err != nil {
		return nil, err
	}
	return m.get.GetFileNames(ctx, storeCode, fileType)
}

// RemoveFile deletes one file
func (m *StaticContentFileManager) RemoveFile(ctx context.Context, storeCode string, fileType content.FileContentType, path, fileName string) error {
	if err := checkStore(storeCode); err != nil {
		return err
	}
	if err := content.ValidateFileName(fileName); err != nil {
		return err
	}
	return m.remove.RemoveFile(ctx, storeCode, fileType, path, fileName)
}

// RemoveFiles deletes every file of a store
func (m *StaticContentFileManager) RemoveFiles(ctx context.Context, storeCode string) error {
	if err := checkStore(storeCode); err != nil {
		return err
	}
	return m.remove.RemoveFiles(ctx, storeCode)
}

// AddFolder creates a folder below path
func (m *StaticContentFileManager) AddFolder(ctx context.Context, storeCode, folderName, path string) error {
	if err := checkStore(storeCode); err != nil {
		return err
	}
	if err := content.ValidateFileName(strings.TrimSpace(folderName)); err != nil {
		return err
	}
	return m.folderPut.AddFolder(ctx, storeCode, folderName, path)
}

// RemoveFolder deletes a folder
func (m *StaticContentFileManager) RemoveFolder(ctx context.Context, storeCode, folderName, path string) error {
	if err := checkStore(storeCode); err != nil {
		return err
	}
	if err := content.ValidateFileName(strings.TrimSpace(folderName)); err != nil {
		return err
	}
	return m.folderRemove.RemoveFolder(ctx, storeCode, folderName, path)
}

// ListFolders lists the folders below path
func (m *StaticContentFileManager) ListFolders(ctx context.Context, storeCode, path string) ([]string, error) {
	if err := checkStore(storeCode); err != nil {
		return nil, err
	}
	return m.folderList.ListFolders(ctx, storeCode, path)
}

var _ content.FileStore = (*StaticContentFileManager)(nil)
