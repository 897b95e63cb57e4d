// Package auth issues and validates the JWTs of administrators and customers.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/infrastructure/config"
)

// TokenType distinguishes access and refresh tokens
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Principal is who a token was issued to
type Principal string

const (
	PrincipalAdmin    Principal = "admin"
	PrincipalCustomer Principal = "customer"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenRevoked       = errors.New("token has been revoked")
)

// Claims are the custom claims carried by every token
type Claims struct {
	jwt.RegisteredClaims
	Principal    Principal `json:"principal"`
	StoreID      string    `json:"store_id"`
	StoreCode    string    `json:"store"`
	Username     string    `json:"username,omitempty"`
	Groups       []string  `json:"groups,omitempty"`
	TokenType    TokenType `json:"token_type"`
	RefreshCount int       `json:"refresh_count,omitempty"`
}

// SubjectID parses the subject as a uuid
func (c *Claims) SubjectID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

// StoreUUID parses the store id
func (c *Claims) StoreUUID() (uuid.UUID, error) {
	return uuid.Parse(c.StoreID)
}

// InGroup reports whether the token carries group g
func (c *Claims) InGroup(g string) bool {
	for _, own := range c.Groups {
		if own == g {
			return true
		}
	}
	return false
}

// RemainingTTL is the time left before expiry, never negative
func (c *Claims) RemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	if d := time.Until(c.ExpiresAt.Time); d > 0 {
		return d
	}
	return 0
}

// TokenPair is returned on login and refresh
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// TokenInput describes the principal a pair is issued for
type TokenInput struct {
	Principal Principal
	SubjectID uuid.UUID
	StoreID   uuid.UUID
	StoreCode string
	Username  string
	Groups    []string
}

// JWTService signs tokens with HS256
type JWTService struct {
	accessSecret      []byte
	refreshSecret     []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
	maxRefreshCount   int
	now               func() time.Time
}

// NewJWTService creates a service. The access secret signs refresh tokens
// when no refresh secret is configured.
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refresh := cfg.RefreshSecret
	if refresh == "" {
		refresh = cfg.Secret
	}
	return &JWTService{
		accessSecret:      []byte(cfg.Secret),
		refreshSecret:     []byte(refresh),
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		issuer:            cfg.Issuer,
		maxRefreshCount:   cfg.MaxRefreshCount,
		now:               time.Now,
	}
}

// GenerateTokenPair issues a new access and refresh token
func (s *JWTService) GenerateTokenPair(in TokenInput) (*TokenPair, error) {
	return s.issue(in, 0)
}

func (s *JWTService) issue(in TokenInput, refreshCount int) (*TokenPair, error) {
	now := s.now()
	accessExp := now.Add(s.accessExpiration)
	refreshExp := now.Add(s.refreshExpiration)

	access, err := s.sign(&Claims{
		RegisteredClaims: s.registered(in.SubjectID, now, accessExp),
		Principal:        in.Principal,
		StoreID:          in.StoreID.String(),
		StoreCode:        in.StoreCode,
		Username:         in.Username,
		Groups:           in.Groups,
		TokenType:        TokenTypeAccess,
	}, s.accessSecret)
	if err != nil {
		return nil, err
	}

	refresh, err := s.sign(&Claims{
		RegisteredClaims: s.registered(in.SubjectID, now, refreshExp),
		Principal:        in.Principal,
		StoreID:          in.StoreID.String(),
		StoreCode:        in.StoreCode,
		Username:         in.Username,
		TokenType:        TokenTypeRefresh,
		RefreshCount:     refreshCount,
	}, s.refreshSecret)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           access,
		RefreshToken:          refresh,
		AccessTokenExpiresAt:  accessExp,
		RefreshTokenExpiresAt: refreshExp,
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) registered(subject uuid.UUID, now, exp time.Time) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    s.issuer,
		Subject:   subject.String(),
		Audience:  jwt.ClaimStrings{s.issuer},
		ExpiresAt: jwt.NewNumericDate(exp),
		NotBefore: jwt.NewNumericDate(now),
		IssuedAt:  jwt.NewNumericDate(now),
	}
}

func (s *JWTService) sign(claims *Claims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// ValidateAccessToken validates an access token
func (s *JWTService) ValidateAccessToken(token string) (*Claims, error) {
	return s.validate(token, s.accessSecret, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token
func (s *JWTService) ValidateRefreshToken(token string) (*Claims, error) {
	return s.validate(token, s.refreshSecret, TokenTypeRefresh)
}

func (s *JWTService) validate(raw string, secret []byte, want TokenType) (*Claims, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return secret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithIssuer(s.issuer))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenNotValidYet):
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.TokenType != want {
		return nil, ErrInvalidTokenType
	}
	if _, err := claims.SubjectID(); err != nil {
		return nil, ErrInvalidClaims
	}
	if _, err := claims.StoreUUID(); err != nil {
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// RefreshTokenPair exchanges a refresh token for a new pair. groups replaces
// the group list so that permission changes apply on refresh.
func (s *JWTService) RefreshTokenPair(refreshToken string, groups []string) (*TokenPair, *Claims, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if s.maxRefreshCount > 0 && claims.RefreshCount >= s.maxRefreshCount {
		return nil, nil, ErrMaxRefreshExceeded
	}
	subject, _ := claims.SubjectID()
	store, _ := claims.StoreUUID()

	pair, err := s.issue(TokenInput{
		Principal: claims.Principal,
		SubjectID: subject,
		StoreID:   store,
		StoreCode: claims.StoreCode,
		Username:  claims.Username,
		Groups:    groups,
	}, claims.RefreshCount+1)
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}

// AccessTokenExpiration returns the configured access token lifetime
func (s *JWTService) AccessTokenExpiration() time.Duration {
	return s.accessExpiration
}

// RefreshTokenExpiration returns the configured refresh token lifetime
func (s *JWTService) RefreshTokenExpiration() time.Duration {
	return s.refreshExpiration
}
