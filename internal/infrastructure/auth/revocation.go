package auth

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationList invalidates tokens before they expire: a single token by
// its JTI on logout, or every token of a subject issued before a point in
// time after a password change.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	RevokeSubject(ctx context.Context, subject string, ttl time.Duration) error
	IsSubjectRevoked(ctx context.Context, subject string, issuedAt time.Time) (bool, error)
}

// RedisRevocationList stores revocations as expiring keys
type RedisRevocationList struct {
	client    redis.UniversalClient
	keyPrefix string
	now       func() time.Time
}

// NewRedisRevocationList creates a list on an existing client
func NewRedisRevocationList(client redis.UniversalClient, keyPrefix string) *RedisRevocationList {
	if keyPrefix == "" {
		keyPrefix = "sm"
	}
	return &RedisRevocationList{client: client, keyPrefix: keyPrefix + ":revoked:", now: time.Now}
}

// Revoke blacklists a JTI for ttl
func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := l.client.Set(ctx, l.keyPrefix+"jti:"+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// IsRevoked reports whether a JTI is blacklisted
func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := l.client.Exists(ctx, l.keyPrefix+"jti:"+jti).Result()
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}

// RevokeSubject invalidates every token of subject issued until now
func (l *RedisRevocationList) RevokeSubject(ctx context.Context, subject string, ttl time.Duration) error {
	err := l.client.Set(ctx, l.keyPrefix+"sub:"+subject, l.now().Unix(), ttl).Err()
	if err != nil {
		return fmt.Errorf("revoke subject tokens: %w", err)
	}
	return nil
}

// IsSubjectRevoked reports whether a token issued at issuedAt predates a subject revocation
func (l *RedisRevocationList) IsSubjectRevoked(ctx context.Context, subject string, issuedAt time.Time) (bool, error) {
	v, err := l.client.Get(ctx, l.keyPrefix+"sub:"+subject).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check subject revocation: %w", err)
	}
	at, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return false, fmt.Errorf("parse revocation time: %w", err)
	}
	return issuedAt.Unix() <= at, nil
}

// MemoryRevocationList is a single-process RevocationList
type MemoryRevocationList struct {
	mu       sync.Mutex
	jtis     map[string]time.Time
	subjects map[string]time.Time
	now      func() time.Time
}

// NewMemoryRevocationList creates an empty list
func NewMemoryRevocationList() *MemoryRevocationList {
	return &MemoryRevocationList{
		jtis:     make(map[string]time.Time),
		subjects: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Revoke blacklists a JTI for ttl
func (l *MemoryRevocationList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.jtis[jti] = l.now().Add(ttl)
	return nil
}

// IsRevoked reports whether a JTI is blacklisted
func (l *MemoryRevocationList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	exp, ok := l.jtis[jti]
	if !ok {
		return false, nil
	}
	if l.now().After(exp) {
		delete(l.jtis, jti)
		return false, nil
	}
	return true, nil
}

// RevokeSubject invalidates every token of subject issued until now
func (l *MemoryRevocationList) RevokeSubject(_ context.Context, subject string, _ time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subjects[subject] = l.now()
	return nil
}

// IsSubjectRevoked reports whether a token issued at issuedAt predates a subject revocation
func (l *MemoryRevocationList) IsSubjectRevoked(_ context.Context, subject string, issuedAt time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	at, ok := l.subjects[subject]
	return ok && !issuedAt.After(at), nil
}

// NewRevocationList returns a Redis list, or a memory one without a client
func NewRevocationList(client redis.UniversalClient, keyPrefix string) RevocationList {
	if client == nil {
		return NewMemoryRevocationList()
	}
	return NewRedisRevocationList(client, keyPrefix)
}

var (
	_ RevocationList = (*RedisRevocationList)(nil)
	_ RevocationList = (*MemoryRevocationList)(nil)
)
