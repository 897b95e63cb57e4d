package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "salesmanager-test",
		MaxRefreshCount:        2,
	})
}

func adminInput() TokenInput {
	return TokenInput{
		Principal: PrincipalAdmin,
		SubjectID: uuid.New(),
		StoreID:   uuid.New(),
		StoreCode: "DEFAULT",
		Username:  "admin",
		Groups:    []string{"ADMIN", "ADMIN_CATALOGUE"},
	}
}

func TestNewJWTService_RefreshSecretFallback(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "only-secret"})
	assert.Equal(t, svc.accessSecret, svc.refreshSecret)
}

func TestGenerateAndValidate(t *testing.T) {
	svc := newTestJWTService()
	in := adminInput()

	pair, err := svc.GenerateTokenPair(in)
	require.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, PrincipalAdmin, claims.Principal)
	assert.Equal(t, "DEFAULT", claims.StoreCode)
	assert.True(t, claims.InGroup("ADMIN_CATALOGUE"))
	assert.False(t, claims.InGroup("SUPERADMIN"))
	sub, err := claims.SubjectID()
	require.NoError(t, err)
	assert.Equal(t, in.SubjectID, sub)
	assert.InDelta(t, (15 * time.Minute).Seconds(), claims.RemainingTTL().Seconds(), 5)

	_, err = svc.ValidateRefreshToken(pair.AccessToken)
	assert.Error(t, err, "access token signed with a different secret")

	refresh, err := svc.ValidateRefreshToken(pair.RefreshToken)
	require.NoError(t, err)
	assert.Empty(t, refresh.Groups)
}

func TestValidate_WrongType(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{
		Secret: "same-secret", AccessTokenExpiration: time.Minute, RefreshTokenExpiration: time.Hour,
	})
	pair, err := svc.GenerateTokenPair(adminInput())
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestValidate_Expired(t *testing.T) {
	svc := newTestJWTService()
	pair, err := svc.GenerateTokenPair(adminInput())
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = svc.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidate_Garbage(t *testing.T) {
	svc := newTestJWTService()
	_, err := svc.ValidateAccessToken("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{TokenType: TokenTypeAccess})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.ValidateAccessToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokenPair(t *testing.T) {
	svc := newTestJWTService()
	in := adminInput()
	pair, err := svc.GenerateTokenPair(in)
	require.NoError(t, err)

	next, old, err := svc.RefreshTokenPair(pair.RefreshToken, []string{"SUPERADMIN"})
	require.NoError(t, err)
	assert.Equal(t, 0, old.RefreshCount)

	claims, err := svc.ValidateAccessToken(next.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, []string{"SUPERADMIN"}, claims.Groups)
	assert.Equal(t, in.StoreID.String(), claims.StoreID)

	third, _, err := svc.RefreshTokenPair(next.RefreshToken, nil)
	require.NoError(t, err)
	_, _, err = svc.RefreshTokenPair(third.RefreshToken, nil)
	assert.ErrorIs(t, err, ErrMaxRefreshExceeded)
}
