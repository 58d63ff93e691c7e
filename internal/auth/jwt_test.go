// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proofofhustle/api/internal/config"
	"github.com/proofofhustle/api/internal/core"
	"github.com/proofofhustle/api/internal/role"
)

func newTestJWTManager(t *testing.T, accessExpire time.Duration) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	require.NoError(t, GenerateKeyPair(privatePath, publicPath))

	manager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     privatePath,
		PublicKeyPath:      publicPath,
		AccessTokenExpire:  accessExpire,
		RefreshTokenExpire: 168 * time.Hour,
		Issuer:             "proof-of-hustle",
		Audience:           "proof-of-hustle-api",
	})
	require.NoError(t, err)
	return manager
}

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Parallel()

	manager := newTestJWTManager(t, 15*time.Minute)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID:       42,
		Role:         role.Premium,
		TokenVersion: 3,
	})
	require.NoError(t, err)

	claims, err := manager.VerifyAccessToken(context.Background(), signed)
	require.NoError(t, err)

	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, role.Premium, claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	t.Parallel()

	manager := newTestJWTManager(t, -time.Minute)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: 1,
		Role:   role.Verified,
	})
	require.NoError(t, err)

	_, err = manager.VerifyAccessToken(context.Background(), signed)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
}

func TestTamperedAccessTokenRejected(t *testing.T) {
	t.Parallel()

	manager := newTestJWTManager(t, 15*time.Minute)

	signed, err := manager.CreateAccessToken(AccessTokenClaims{
		UserID: 1,
		Role:   role.Verified,
	})
	require.NoError(t, err)

	tampered := signed[:len(signed)-4] + "AAAA"
	_, err = manager.VerifyAccessToken(context.Background(), tampered)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenFromDifferentKeyRejected(t *testing.T) {
	t.Parallel()

	issuer := newTestJWTManager(t, 15*time.Minute)
	verifier := newTestJWTManager(t, 15*time.Minute)

	signed, err := issuer.CreateAccessToken(AccessTokenClaims{
		UserID: 1,
		Role:   role.Admin,
	})
	require.NoError(t, err)

	_, err = verifier.VerifyAccessToken(context.Background(), signed)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestRefreshTokenHashRoundTrip(t *testing.T) {
	t.Parallel()

	manager := newTestJWTManager(t, 15*time.Minute)

	data, err := manager.CreateRefreshToken("")
	require.NoError(t, err)

	assert.NotEmpty(t, data.FamilyID, "new tokens get a fresh family")
	assert.True(t, manager.VerifyRefreshTokenHash(data.Token, data.Hash))
	assert.False(t, manager.VerifyRefreshTokenHash("not-the-token", data.Hash))

	rotated, err := manager.CreateRefreshToken(data.FamilyID)
	require.NoError(t, err)
	assert.Equal(t, data.FamilyID, rotated.FamilyID)
	assert.NotEqual(t, data.Hash, rotated.Hash)
}
