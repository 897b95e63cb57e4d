package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/salesmanager/backend/internal/domain/content"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRedis connects to SM_TEST_REDIS_ADDR and skips when no server is reachable
func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	addr := os.Getenv("SM_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("redis not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisFileStore(t *testing.T) {
	client := newTestRedis(t)
	ctx := context.Background()
	store := NewRedisFileStore(client, "smtest:"+t.Name())
	t.Cleanup(func() { _ = store.RemoveFiles(ctx, "DEFAULT") })

	require.NoError(t, store.AddFolder(ctx, "DEFAULT", "summer", "banners"))
	require.NoError(t, store.AddFile(ctx, "DEFAULT", content.InputContentFile{
		FileName: "a.png", MimeType: "image/png", FileContentType: content.FileContentTypeImage,
		Path: "banners/summer", Body: []byte("png"),
	}))

	roots, err := store.ListFolders(ctx, "DEFAULT", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"banners"}, roots)

	f, err := store.GetFile(ctx, "DEFAULT", content.FileContentTypeImage, "banners/summer", "a.png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", f.MimeType)
	assert.Equal(t, []byte("png"), f.Body)

	names, err := store.GetFileNames(ctx, "DEFAULT", content.FileContentTypeImage)
	require.NoError(t, err)
	assert.Equal(t, []string{"banners/summer/a.png"}, names)

	require.NoError(t, store.RemoveFolder(ctx, "DEFAULT", "banners", ""))
	_, err = store.GetFile(ctx, "DEFAULT", content.FileContentTypeImage, "banners/summer", "a.png")
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, store.RemoveFolder(ctx, "DEFAULT", "banners", ""), shared.ErrNotFound)
}
