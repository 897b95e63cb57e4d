// Package token encrypts short values into URL-safe tokens, such as the
// password reset links mailed to customers.
package token

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
	"golang.org/x/crypto/hkdf"
)

const hkdfSalt = "salesmanager-token"

// ErrInvalidToken is returned for tampered, truncated or foreign tokens
var ErrInvalidToken = shared.WrapDomainError("INVALID_INPUT", "Invalid token", shared.ErrInvalidInput)

// ErrExpiredToken is returned for tokens past their expiry
var ErrExpiredToken = shared.WrapDomainError("INVALID_INPUT", "Token expired", shared.ErrInvalidInput)

// Tokenizer seals values with AES-256-GCM under a key derived from a secret
type Tokenizer struct {
	aead cipher.AEAD
	now  func() time.Time
}

// NewTokenizer derives the cipher key from secret with HKDF-SHA256
func NewTokenizer(secret string) (*Tokenizer, error) {
	if secret == "" {
		return nil, errors.New("token secret is required")
	}
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(secret), []byte(hkdfSalt), nil), key); err != nil {
		return nil, fmt.Errorf("derive token key: %w", err)
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &Tokenizer{aead: aead, now: time.Now}, nil
}

// Tokenize encrypts plain with a random nonce
func (t *Tokenizer) Tokenize(plain string) (string, error) {
	nonce := make([]byte, t.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := t.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Detokenize decrypts a value produced by Tokenize
func (t *Tokenizer) Detokenize(token string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return "", ErrInvalidToken
	}
	ns := t.aead.NonceSize()
	if len(raw) < ns+t.aead.Overhead() {
		return "", ErrInvalidToken
	}
	plain, err := t.aead.Open(nil, raw[:ns], raw[ns:], nil)
	if err != nil {
		return "", ErrInvalidToken
	}
	return string(plain), nil
}

// EmailClaims is the payload of a customer email token
type EmailClaims struct {
	CustomerID uuid.UUID `json:"cid"`
	StoreCode  string    `json:"store"`
	ExpiresAt  int64     `json:"exp"`
}

// BuildEmailToken seals the customer and store with an expiry ttl from now
func (t *Tokenizer) BuildEmailToken(customerID uuid.UUID, storeCode string, ttl time.Duration) (string, time.Time, error) {
	expires := t.now().Add(ttl)
	payload, err := json.Marshal(EmailClaims{
		CustomerID: customerID,
		StoreCode:  storeCode,
		ExpiresAt:  expires.Unix(),
	})
	if err != nil {
		return "", time.Time{}, err
	}
	tok, err := t.Tokenize(string(payload))
	if err != nil {
		return "", time.Time{}, err
	}
	return tok, expires, nil
}

// ParseEmailToken opens a token from BuildEmailToken and checks its expiry
func (t *Tokenizer) ParseEmailToken(token string) (*EmailClaims, error) {
	plain, err := t.Detokenize(token)
	if err != nil {
		return nil, err
	}
	var claims EmailClaims
	if err := json.Unmarshal([]byte(plain), &claims); err != nil {
		return nil, ErrInvalidToken
	}
	if t.now().Unix() >= claims.ExpiresAt {
		return nil, ErrExpiredToken
	}
	return &claims, nil
}
