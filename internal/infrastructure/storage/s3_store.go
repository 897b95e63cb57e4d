// Package storage provides the content file store backends.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/salesmanager/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ content.FileStore = (*S3FileStore)(nil)

// s3API is the subset of the S3 client used by the store
type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3FileStore keeps content files in an S3 compatible bucket.
// Files live at <prefix>/<store>/<content type>/<path>/<name>; folders are
// zero-byte keys ending in "/" under the IMAGE tree.
type S3FileStore struct {
	client        s3API
	presignClient *s3.PresignClient
	bucket        string
	prefix        string
	presignExpiry time.Duration
	logger        *zap.Logger
}

// S3Option configures an S3FileStore
type S3Option func(*S3FileStore)

// WithLogger sets the store logger
func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3FileStore) {
		s.logger = logger
	}
}

// NewS3FileStore creates a store from configuration. Static keys are used when
// set, otherwise the default AWS credential chain.
func NewS3FileStore(ctx context.Context, cfg *config.StorageConfig, opts ...S3Option) (*S3FileStore, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretKey == "") {
		return nil, errors.New("storage access key and secret key must be set together")
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	store := newS3FileStore(client, cfg.Bucket, cfg.Prefix)
	store.presignClient = s3.NewPresignClient(client)
	if cfg.PresignExpiry > 0 {
		store.presignExpiry = cfg.PresignExpiry
	}
	for _, opt := range opts {
		opt(store)
	}
	return store, nil
}

func newS3FileStore(client s3API, bucket, prefix string) *S3FileStore {
	return &S3FileStore{
		client:        client,
		bucket:        bucket,
		prefix:        strings.Trim(prefix, "/"),
		presignExpiry: 15 * time.Minute,
		logger:        zap.NewNop(),
	}
}

// EnsureBucket creates the bucket when it does not exist
func (s *S3FileStore) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

func (s *S3FileStore) storeRoot(storeCode string) string {
	if s.prefix == "" {
		return storeCode + "/"
	}
	return s.prefix + "/" + storeCode + "/"
}

func (s *S3FileStore) typeRoot(storeCode string, fileType content.FileContentType) string {
	return s.storeRoot(storeCode) + string(fileType) + "/"
}

func (s *S3FileStore) fileKey(storeCode string, fileType content.FileContentType, folder, name string) string {
	if folder == "" {
		return s.typeRoot(storeCode, fileType) + name
	}
	return s.typeRoot(storeCode, fileType) + folder + "/" + name
}

func (s *S3FileStore) folderKey(storeCode, folder, parent string) string {
	return s.typeRoot(storeCode, content.FileContentTypeImage) + path.Join(parent, folder) + "/"
}

// AddFile uploads one file
func (s *S3FileStore) AddFile(ctx context.Context, storeCode string, file content.InputContentFile) error {
	folder, err := content.CleanFolderPath(file.Path)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.fileKey(storeCode, file.FileContentType, folder, file.FileName)),
		Body:        bytes.NewReader(file.Body),
		ContentType: aws.String(file.MimeType),
	})
	if err != nil {
		return shared.WrapDomainError("INTEGRATION_ERROR", "failed to upload file "+file.FileName, err)
	}
	return nil
}

// AddFiles uploads several files, stopping at the first failure
func (s *S3FileStore) AddFiles(ctx context.Context, storeCode string, files []content.InputContentFile) error {
	for _, f := range files {
		if err := s.AddFile(ctx, storeCode, f); err != nil {
			return err
		}
	}
	return nil
}

// GetFile downloads one file
func (s *S3FileStore) GetFile(ctx context.Context, storeCode string, fileType content.FileContentType, folder, fileName string) (*content.OutputContentFile, error) {
	folder, err := content.CleanFolderPath(folder)
	if err != nil {
		return nil, err
	}
	return s.get(ctx, s.fileKey(storeCode, fileType, folder, fileName), fileType, folder, fileName)
}

func (s *S3FileStore) get(ctx context.Context, key string, fileType content.FileContentType, folder, fileName string) (*content.OutputContentFile, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, shared.ErrNotFound
		}
		return nil, shared.WrapDomainError("INTEGRATION_ERROR", "failed to download file "+fileName, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read object body: %w", err)
	}
	return &content.OutputContentFile{
		FileName:        fileName,
		MimeType:        aws.ToString(out.ContentType),
		FileContentType: fileType,
		Path:            folder,
		Size:            int64(len(body)),
		Body:            body,
	}, nil
}

// list returns every key below prefix, following continuation tokens
func (s *S3FileStore) list(ctx context.Context, prefix, delimiter string) ([]types.Object, []string, error) {
	var objects []types.Object
	var prefixes []string
	var token *string
	for {
		in := &s3.ListObjectsV2Input{
			Bucket:            aws.String(s.bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		}
		if delimiter != "" {
			in.Delimiter = aws.String(delimiter)
		}
		out, err := s.client.ListObjectsV2(ctx, in)
		if err != nil {
			return nil, nil, shared.WrapDomainError("INTEGRATION_ERROR", "failed to list files", err)
		}
		objects = append(objects, out.Contents...)
		for _, p := range out.CommonPrefixes {
			prefixes = append(prefixes, aws.ToString(p.Prefix))
		}
		if !aws.ToBool(out.IsTruncated) {
			return objects, prefixes, nil
		}
		token = out.NextContinuationToken
	}
}

// GetFiles downloads every file of a content type
func (s *S3FileStore) GetFiles(ctx context.Context, storeCode string, fileType content.FileContentType) ([]content.OutputContentFile, error) {
	root := s.typeRoot(storeCode, fileType)
	objects, _, err := s.list(ctx, root, "")
	if err != nil {
		return nil, err
	}
	files := make([]content.OutputContentFile, 0, len(objects))
	for _, obj := range objects {
		key := aws.ToString(obj.Key)
		if strings.HasSuffix(key, "/") {
			continue
		}
		rel := strings.TrimPrefix(key, root)
		folder, name := path.Split(rel)
		f, err := s.get(ctx, key, fileType, strings.TrimSuffix(folder, "/"), name)
		if err != nil {
			return nil, err
		}
		files = append(files, *f)
	}
	return files, nil
}

// GetFileNames lists the relative names of every file of a content type
func (s *S3FileStore) GetFileNames(ctx context.Context, storeCode string, fileType content.FileContentType) ([]string, error) {
	root := s.typeRoot(storeCode, fileType)
	objects, _, err := s.list(ctx, root, "")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(objects))
	for _, obj := range objects {
		key := aws.ToString(obj.Key)
		if strings.HasSuffix(key, "/") {
			continue
		}
		names = append(names, strings.TrimPrefix(key, root))
	}
	return names, nil
}

// RemoveFile deletes one file
func (s *S3FileStore) RemoveFile(ctx context.Context, storeCode string, fileType content.FileContentType, folder, fileName string) error {
	folder, err := content.CleanFolderPath(folder)
	if err != nil {
		return err
	}
	return s.delete(ctx, s.fileKey(storeCode, fileType, folder, fileName))
}

func (s *S3FileStore) delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return shared.WrapDomainError("INTEGRATION_ERROR", "failed to delete "+key, err)
	}
	return nil
}

func (s *S3FileStore) deletePrefix(ctx context.Context, prefix string) error {
	objects, _, err := s.list(ctx, prefix, "")
	if err != nil {
		return err
	}
	for _, obj := range objects {
		if err := s.delete(ctx, aws.ToString(obj.Key)); err != nil {
			return err
		}
	}
	return nil
}

// RemoveFiles deletes every file and folder of a store
func (s *S3FileStore) RemoveFiles(ctx context.Context, storeCode string) error {
	return s.deletePrefix(ctx, s.storeRoot(storeCode))
}

// AddFolder creates a folder below parent
func (s *S3FileStore) AddFolder(ctx context.Context, storeCode, folderName, parent string) error {
	parent, err := content.CleanFolderPath(parent)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.folderKey(storeCode, folderName, parent)),
		Body:   bytes.NewReader(nil),
	})
	if err != nil {
		return shared.WrapDomainError("INTEGRATION_ERROR", "failed to create folder "+folderName, err)
	}
	return nil
}

// RemoveFolder deletes a folder with everything below it
func (s *S3FileStore) RemoveFolder(ctx context.Context, storeCode, folderName, parent string) error {
	parent, err := content.CleanFolderPath(parent)
	if err != nil {
		return err
	}
	return s.deletePrefix(ctx, s.folderKey(storeCode, folderName, parent))
}

// ListFolders returns the direct sub folders of parent
func (s *S3FileStore) ListFolders(ctx context.Context, storeCode, parent string) ([]string, error) {
	parent, err := content.CleanFolderPath(parent)
	if err != nil {
		return nil, err
	}
	root := s.typeRoot(storeCode, content.FileContentTypeImage)
	if parent != "" {
		root += parent + "/"
	}
	_, prefixes, err := s.list(ctx, root, "/")
	if err != nil {
		return nil, err
	}
	folders := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		folders = append(folders, strings.TrimSuffix(strings.TrimPrefix(p, root), "/"))
	}
	return folders, nil
}

// DownloadURL returns a presigned GET URL for a file
func (s *S3FileStore) DownloadURL(ctx context.Context, storeCode string, fileType content.FileContentType, folder, fileName string) (string, time.Time, error) {
	if s.presignClient == nil {
		return "", time.Time{}, errors.New("presigning is not configured")
	}
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.fileKey(storeCode, fileType, folder, fileName)),
	}, s3.WithPresignExpires(s.presignExpiry))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate download URL: %w", err)
	}
	return req.URL, time.Now().Add(s.presignExpiry), nil
}
