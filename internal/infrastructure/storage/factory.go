package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewFileStore builds the content file store selected by storage.backend.
// The S3 bucket is created on first use.
func NewFileStore(ctx context.Context, cfg *config.StorageConfig, rdb redis.UniversalClient, logger *zap.Logger) (content.FileStore, error) {
	switch cfg.Backend {
	case "redis":
		if rdb == nil {
			return nil, fmt.Errorf("redis file store requires a redis client")
		}
		logger.Info("Using Redis content file store")
		return NewRedisFileStore(rdb, cfg.Prefix), nil
	case "s3", "":
		store, err := NewS3FileStore(ctx, cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Using S3 content file store", zap.String("bucket", cfg.Bucket))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
