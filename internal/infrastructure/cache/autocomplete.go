// Package cache holds the Redis client and the search autocomplete index.
package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Entry is a product name indexed for autocompletion
type Entry struct {
	ProductID string
	Name      string
}

// AutocompleteIndex suggests product names by prefix, per store and language
type AutocompleteIndex interface {
	Add(ctx context.Context, storeCode, lang string, entries ...Entry) error
	Remove(ctx context.Context, storeCode, lang, productID string) error
	Complete(ctx context.Context, storeCode, lang, prefix string, count int) ([]string, error)
	Reset(ctx context.Context, storeCode string, langs ...string) error
}

// Members are "<lower name>\x00<display name>\x00<product id>" so that a
// lexicographic range over the lower-cased prefix is case-insensitive and
// two products sharing a name keep separate entries.
const sep = "\x00"

func member(e Entry) string {
	return strings.ToLower(e.Name) + sep + e.Name + sep + e.ProductID
}

func displayName(m string) string {
	parts := strings.SplitN(m, sep, 3)
	if len(parts) < 2 {
		return m
	}
	return parts[1]
}

// RedisAutocompleteIndex keeps one sorted set of members per store and
// language (all scores 0) and one hash from product id to its member.
type RedisAutocompleteIndex struct {
	client    redis.UniversalClient
	keyPrefix string
}

// NewRedisAutocompleteIndex creates an index on an existing client
func NewRedisAutocompleteIndex(client redis.UniversalClient, keyPrefix string) *RedisAutocompleteIndex {
	if keyPrefix == "" {
		keyPrefix = "sm"
	}
	return &RedisAutocompleteIndex{client: client, keyPrefix: keyPrefix}
}

func (x *RedisAutocompleteIndex) setKey(store, lang string) string {
	return fmt.Sprintf("%s:ac:%s:%s", x.keyPrefix, store, strings.ToLower(lang))
}

func (x *RedisAutocompleteIndex) ownerKey(store, lang string) string {
	return fmt.Sprintf("%s:acp:%s:%s", x.keyPrefix, store, strings.ToLower(lang))
}

// Add indexes entries, replacing the previous name of each product
func (x *RedisAutocompleteIndex) Add(ctx context.Context, storeCode, lang string, entries ...Entry) error {
	if len(entries) == 0 {
		return nil
	}
	setKey, ownerKey := x.setKey(storeCode, lang), x.ownerKey(storeCode, lang)

	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ProductID
	}
	previous, err := x.client.HMGet(ctx, ownerKey, ids...).Result()
	if err != nil {
		return fmt.Errorf("read autocomplete owners: %w", err)
	}

	_, err = x.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, e := range entries {
			if old, ok := previous[i].(string); ok && old != "" {
				pipe.ZRem(ctx, setKey, old)
			}
			m := member(e)
			pipe.ZAdd(ctx, setKey, redis.Z{Score: 0, Member: m})
			pipe.HSet(ctx, ownerKey, e.ProductID, m)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("index autocomplete entries: %w", err)
	}
	return nil
}

// Remove drops the entry of a product
func (x *RedisAutocompleteIndex) Remove(ctx context.Context, storeCode, lang, productID string) error {
	setKey, ownerKey := x.setKey(storeCode, lang), x.ownerKey(storeCode, lang)
	old, err := x.client.HGet(ctx, ownerKey, productID).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read autocomplete owner: %w", err)
	}
	_, err = x.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRem(ctx, setKey, old)
		pipe.HDel(ctx, ownerKey, productID)
		return nil
	})
	return err
}

// Complete returns up to count distinct names starting with prefix
func (x *RedisAutocompleteIndex) Complete(ctx context.Context, storeCode, lang, prefix string, count int) ([]string, error) {
	if count <= 0 {
		count = 10
	}
	p := strings.ToLower(strings.TrimSpace(prefix))
	if p == "" {
		return []string{}, nil
	}
	members, err := x.client.ZRangeByLex(ctx, x.setKey(storeCode, lang), &redis.ZRangeBy{
		Min:   "[" + p,
		Max:   "[" + p + "\xff",
		Count: int64(count * 2),
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("autocomplete %q: %w", prefix, err)
	}
	return distinctNames(members, count), nil
}

// Reset deletes the index of a store for the given languages
func (x *RedisAutocompleteIndex) Reset(ctx context.Context, storeCode string, langs ...string) error {
	keys := make([]string, 0, len(langs)*2)
	for _, l := range langs {
		keys = append(keys, x.setKey(storeCode, l), x.ownerKey(storeCode, l))
	}
	if len(keys) == 0 {
		return nil
	}
	return x.client.Del(ctx, keys...).Err()
}

func distinctNames(members []string, count int) []string {
	out := make([]string, 0, count)
	seen := make(map[string]bool, len(members))
	for _, m := range members {
		name := displayName(m)
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
		if len(out) == count {
			break
		}
	}
	return out
}

// NewAutocompleteIndex returns a Redis index, or an in-memory one when no
// client is available
func NewAutocompleteIndex(client redis.UniversalClient, keyPrefix string, logger *zap.Logger) AutocompleteIndex {
	if client == nil {
		logger.Warn("Redis unavailable, search autocomplete uses an in-memory index")
		return NewMemoryAutocompleteIndex()
	}
	return NewRedisAutocompleteIndex(client, keyPrefix)
}
