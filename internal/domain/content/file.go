package content

import (
	"context"
	"path"
	"strings"

	"github.com/salesmanager/backend/internal/domain/shared"
)

// FileContentType is the bucket a static file belongs to
type FileContentType string

const (
	FileContentTypeImage          FileContentType = "IMAGE"
	FileContentTypeStaticFile     FileContentType = "STATIC_FILE"
	FileContentTypeProduct        FileContentType = "PRODUCT"
	FileContentTypeProductDigital FileContentType = "PRODUCT_DIGITAL"
	FileContentTypeProperty       FileContentType = "PROPERTY"
	FileContentTypeManufacturer   FileContentType = "MANUFACTURER"
	FileContentTypeLogo           FileContentType = "LOGO"
)

// IsValid checks the file content type
func (t FileContentType) IsValid() bool {
	switch t {
	case FileContentTypeImage, FileContentTypeStaticFile, FileContentTypeProduct,
		FileContentTypeProductDigital, FileContentTypeProperty, FileContentTypeManufacturer,
		FileContentTypeLogo:
		return true
	}
	return false
}

// IsPublic reports whether files of this type may be served without
// authentication. Digital products are only released through order downloads.
func (t FileContentType) IsPublic() bool {
	return t.IsValid() && t != FileContentTypeProductDigital
}

// InputContentFile is a file to be stored
type InputContentFile struct {
	FileName        string
	MimeType        string
	FileContentType FileContentType
	// Path is an optional folder below the content type root
	Path string
	Body []byte
}

// OutputContentFile is a stored file
type OutputContentFile struct {
	FileName        string
	MimeType        string
	FileContentType FileContentType
	Path            string
	Size            int64
	Body            []byte
}

// Validate checks the file name and content type
func (f *InputContentFile) Validate() error {
	if err := ValidateFileName(f.FileName); err != nil {
		return err
	}
	if !f.FileContentType.IsValid() {
		return shared.NewDomainError("INVALID_FILE_CONTENT_TYPE", "Unknown file content type: "+string(f.FileContentType))
	}
	if _, err := CleanFolderPath(f.Path); err != nil {
		return err
	}
	return nil
}

// ValidateFileName rejects empty names and names that escape their folder
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if len(name) > 255 {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot exceed 255 characters")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return shared.NewDomainError("INVALID_FILE_NAME", "File name cannot contain path separators")
	}
	return nil
}

// CleanFolderPath normalizes a folder path to "a/b/c" form (no leading or
// trailing slash) and rejects paths that climb out of the root.
func CleanFolderPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	cleaned := path.Clean("/" + strings.ReplaceAll(p, `\`, "/"))
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", shared.NewDomainError("INVALID_PATH", "Folder path cannot contain '..'")
		}
	}
	return strings.Trim(cleaned, "/"), nil
}

// FilePut stores files
type FilePut interface {
	AddFile(ctx context.Context, storeCode string, file InputContentFile) error
	AddFiles(ctx context.Context, storeCode string, files []InputContentFile) error
}

// FileGet reads files
type FileGet interface {
	GetFile(ctx context.Context, storeCode string, fileType FileContentType, path, fileName string) (*OutputContentFile, error)
	GetFiles(ctx context.Context, storeCode string, fileType FileContentType) ([]OutputContentFile, error)
	GetFileNames(ctx context.Context, storeCode string, fileType FileContentType) ([]string, error)
}

// FileRemove deletes files
type FileRemove interface {
	RemoveFile(ctx context.Context, storeCode string, fileType FileContentType, path, fileName string) error
	RemoveFiles(ctx context.Context, storeCode string) error
}

// FolderPut creates folders
type FolderPut interface {
	AddFolder(ctx context.Context, storeCode, folderName, path string) error
}

// FolderRemove deletes folders
type FolderRemove interface {
	RemoveFolder(ctx context.Context, storeCode, folderName, path string) error
}

// FolderList lists folders
type FolderList interface {
	ListFolders(ctx context.Context, storeCode, path string) ([]string, error)
}

// FileStore is a backend implementing every file and folder strategy
type FileStore interface {
	FilePut
	FileGet
	FileRemove
	FolderPut
	FolderRemove
	FolderList
}
