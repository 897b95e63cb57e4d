package token

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeRoundTrip(t *testing.T) {
	tk, err := NewTokenizer("a-long-enough-secret-for-the-tests")
	require.NoError(t, err)

	a, err := tk.Tokenize("hello")
	require.NoError(t, err)
	b, err := tk.Tokenize("hello")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "nonces must differ")
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")

	plain, err := tk.Detokenize(a)
	require.NoError(t, err)
	assert.Equal(t, "hello", plain)
}

func TestDetokenize_Rejects(t *testing.T) {
	tk, err := NewTokenizer("secret-one")
	require.NoError(t, err)
	other, err := NewTokenizer("secret-two")
	require.NoError(t, err)

	good, err := tk.Tokenize("value")
	require.NoError(t, err)
	foreign, err := other.Tokenize("value")
	require.NoError(t, err)

	last := good[len(good)-1:]
	flipped := "A"
	if last == "A" {
		flipped = "B"
	}

	for name, tok := range map[string]string{
		"not base64": "!!!",
		"truncated":  good[:10],
		"tampered":   good[:len(good)-1] + flipped,
		"foreign":    foreign,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := tk.Detokenize(tok)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
		})
	}
}

func TestEmailToken(t *testing.T) {
	tk, err := NewTokenizer("secret")
	require.NoError(t, err)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tk.now = func() time.Time { return now }

	id := uuid.New()
	tok, expires, err := tk.BuildEmailToken(id, "DEFAULT", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), expires)

	claims, err := tk.ParseEmailToken(tok)
	require.NoError(t, err)
	assert.Equal(t, id, claims.CustomerID)
	assert.Equal(t, "DEFAULT", claims.StoreCode)

	now = now.Add(2 * time.Hour)
	_, err = tk.ParseEmailToken(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.True(t, strings.Contains(err.Error(), "expired"))
}

func TestNewTokenizer_RequiresSecret(t *testing.T) {
	_, err := NewTokenizer("")
	assert.Error(t, err)
}
