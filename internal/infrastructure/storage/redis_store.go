package storage

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/domain/shared"
)

var _ content.FileStore = (*RedisFileStore)(nil)

var allFileTypes = []content.FileContentType{
	content.FileContentTypeImage,
	content.FileContentTypeStaticFile,
	content.FileContentTypeProduct,
	content.FileContentTypeProductDigital,
	content.FileContentTypeProperty,
	content.FileContentTypeManufacturer,
	content.FileContentTypeLogo,
}

// RedisFileStore keeps content files in Redis hashes: one hash of bodies and
// one of MIME types per store and content type, keyed by "<path>/<name>",
// plus a set of folder paths per store.
type RedisFileStore struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisFileStore creates a store on an existing client
func NewRedisFileStore(client redis.UniversalClient, keyPrefix string) *RedisFileStore {
	if keyPrefix == "" {
		keyPrefix = "sm"
	}
	return &RedisFileStore{client: client, keyPrefix: keyPrefix}
}

func (s *RedisFileStore) bodiesKey(storeCode string, t content.FileContentType) string {
	return fmt.Sprintf("%s:files:%s:%s", s.keyPrefix, storeCode, t)
}

func (s *RedisFileStore) mimeKey(storeCode string, t content.FileContentType) string {
	return fmt.Sprintf("%s:mime:%s:%s", s.keyPrefix, storeCode, t)
}

func (s *RedisFileStore) foldersKey(storeCode string) string {
	return fmt.Sprintf("%s:folders:%s", s.keyPrefix, storeCode)
}

func field(folder, name string) string {
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func integrationErr(msg string, err error) error {
	return shared.WrapDomainError("INTEGRATION_ERROR", msg, err)
}

// AddFile stores one file
func (s *RedisFileStore) AddFile(ctx context.Context, storeCode string, file content.InputContentFile) error {
	return s.AddFiles(ctx, storeCode, []content.InputContentFile{file})
}

// AddFiles stores several files atomically
func (s *RedisFileStore) AddFiles(ctx context.Context, storeCode string, files []content.InputContentFile) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, f := range files {
			folder, err := content.CleanFolderPath(f.Path)
			if err != nil {
				return err
			}
			key := field(folder, f.FileName)
			pipe.HSet(ctx, s.bodiesKey(storeCode, f.FileContentType), key, f.Body)
			pipe.HSet(ctx, s.mimeKey(storeCode, f.FileContentType), key, f.MimeType)
		}
		return nil
	})
	if err != nil {
		var de *shared.DomainError
		if errors.As(err, &de) {
			return err
		}
		return integrationErr("failed to store files", err)
	}
	return nil
}

// GetFile reads one file
func (s *RedisFileStore) GetFile(ctx context.Context, storeCode string, fileType content.FileContentType, folder, fileName string) (*content.OutputContentFile, error) {
	folder, err := content.CleanFolderPath(folder)
	if err != nil {
		return nil, err
	}
	key := field(folder, fileName)
	body, err := s.client.HGet(ctx, s.bodiesKey(storeCode, fileType), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, integrationErr("failed to read file "+fileName, err)
	}
	mime, err := s.client.HGet(ctx, s.mimeKey(storeCode, fileType), key).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, integrationErr("failed to read file type "+fileName, err)
	}
	return &content.OutputContentFile{
		FileName:        fileName,
		MimeType:        mime,
		FileContentType: fileType,
		Path:            folder,
		Size:            int64(len(body)),
		Body:            body,
	}, nil
}

// GetFiles reads every file of a content type
func (s *RedisFileStore) GetFiles(ctx context.Context, storeCode string, fileType content.FileContentType) ([]content.OutputContentFile, error) {
	bodies, err := s.client.HGetAll(ctx, s.bodiesKey(storeCode, fileType)).Result()
	if err != nil {
		return nil, integrationErr("failed to list files", err)
	}
	mimes, err := s.client.HGetAll(ctx, s.mimeKey(storeCode, fileType)).Result()
	if err != nil {
		return nil, integrationErr("failed to list file types", err)
	}
	keys := make([]string, 0, len(bodies))
	for k := range bodies {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	files := make([]content.OutputContentFile, 0, len(keys))
	for _, k := range keys {
		folder, name := path.Split(k)
		body := []byte(bodies[k])
		files = append(files, content.OutputContentFile{
			FileName:        name,
			MimeType:        mimes[k],
			FileContentType: fileType,
			Path:            strings.TrimSuffix(folder, "/"),
			Size:            int64(len(body)),
			Body:            body,
		})
	}
	return files, nil
}

// GetFileNames lists the relative names of every file of a content type
func (s *RedisFileStore) GetFileNames(ctx context.Context, storeCode string, fileType content.FileContentType) ([]string, error) {
	names, err := s.client.HKeys(ctx, s.bodiesKey(storeCode, fileType)).Result()
	if err != nil {
		return nil, integrationErr("failed to list file names", err)
	}
	sort.Strings(names)
	return names, nil
}

// RemoveFile deletes one file
func (s *RedisFileStore) RemoveFile(ctx context.Context, storeCode string, fileType content.FileContentType, folder, fileName string) error {
	folder, err := content.CleanFolderPath(folder)
	if err != nil {
		return err
	}
	key := field(folder, fileName)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, s.bodiesKey(storeCode, fileType), key)
		pipe.HDel(ctx, s.mimeKey(storeCode, fileType), key)
		return nil
	})
	if err != nil {
		return integrationErr("failed to delete file "+fileName, err)
	}
	return nil
}

// RemoveFiles deletes every file and folder of a store
func (s *RedisFileStore) RemoveFiles(ctx context.Context, storeCode string) error {
	keys := []string{s.foldersKey(storeCode)}
	for _, t := range allFileTypes {
		keys = append(keys, s.bodiesKey(storeCode, t), s.mimeKey(storeCode, t))
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return integrationErr("failed to delete store files", err)
	}
	return nil
}

// AddFolder registers a folder and its missing ancestors
func (s *RedisFileStore) AddFolder(ctx context.Context, storeCode, folderName, parent string) error {
	full, err := content.CleanFolderPath(path.Join(parent, folderName))
	if err != nil {
		return err
	}
	if full == "" {
		return shared.NewDomainError("INVALID_PATH", "Folder name cannot be empty")
	}
	members := []any{}
	for p := full; p != "." && p != ""; p = path.Dir(p) {
		members = append(members, p)
	}
	if err := s.client.SAdd(ctx, s.foldersKey(storeCode), members...).Err(); err != nil {
		return integrationErr("failed to create folder "+folderName, err)
	}
	return nil
}

// RemoveFolder deletes a folder, its sub folders and the IMAGE files inside them
func (s *RedisFileStore) RemoveFolder(ctx context.Context, storeCode, folderName, parent string) error {
	full, err := content.CleanFolderPath(path.Join(parent, folderName))
	if err != nil {
		return err
	}
	folders, err := s.client.SMembers(ctx, s.foldersKey(storeCode)).Result()
	if err != nil {
		return integrationErr("failed to read folders", err)
	}
	files, err := s.client.HKeys(ctx, s.bodiesKey(storeCode, content.FileContentTypeImage)).Result()
	if err != nil {
		return integrationErr("failed to read files", err)
	}

	var staleFolders, staleFiles []string
	for _, f := range folders {
		if f == full || strings.HasPrefix(f, full+"/") {
			staleFolders = append(staleFolders, f)
		}
	}
	for _, f := range files {
		if strings.HasPrefix(f, full+"/") {
			staleFiles = append(staleFiles, f)
		}
	}
	if len(staleFolders) == 0 {
		return shared.ErrNotFound
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		members := make([]any, len(staleFolders))
		for i, f := range staleFolders {
			members[i] = f
		}
		pipe.SRem(ctx, s.foldersKey(storeCode), members...)
		if len(staleFiles) > 0 {
			pipe.HDel(ctx, s.bodiesKey(storeCode, content.FileContentTypeImage), staleFiles...)
			pipe.HDel(ctx, s.mimeKey(storeCode, content.FileContentTypeImage), staleFiles...)
		}
		return nil
	})
	if err != nil {
		return integrationErr("failed to delete folder "+folderName, err)
	}
	return nil
}

// ListFolders returns the direct sub folders of parent
func (s *RedisFileStore) ListFolders(ctx context.Context, storeCode, parent string) ([]string, error) {
	parent, err := content.CleanFolderPath(parent)
	if err != nil {
		return nil, err
	}
	all, err := s.client.SMembers(ctx, s.foldersKey(storeCode)).Result()
	if err != nil {
		return nil, integrationErr("failed to read folders", err)
	}
	var children []string
	for _, f := range all {
		dir := path.Dir(f)
		if dir == "." {
			dir = ""
		}
		if dir == parent {
			children = append(children, path.Base(f))
		}
	}
	sort.Strings(children)
	return children, nil
}
