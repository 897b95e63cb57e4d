package auth

import (
	"unicode/utf8"

	"github.com/salesmanager/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Password length bounds. bcrypt ignores input past 72 bytes.
const (
	MinPasswordLength = 6
	MaxPasswordLength = 72
)

// PasswordHasher hashes and checks passwords with bcrypt
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher; cost 0 uses bcrypt.DefaultCost
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash validates the length of plain and returns its bcrypt hash
func (h *PasswordHasher) Hash(plain string) (string, error) {
	if n := utf8.RuneCountInString(plain); n < MinPasswordLength || len(plain) > MaxPasswordLength {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must be 6 to 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", shared.WrapDomainError("SERVICE_ERROR", "hash password", err)
	}
	return string(hash), nil
}

// Matches reports whether plain matches hash
func (h *PasswordHasher) Matches(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
