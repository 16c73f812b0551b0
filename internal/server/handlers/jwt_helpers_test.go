package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	cfg := JWTConfig{Secret: []byte("test-secret"), AccessTokenTTL: time.Hour}

	token, expiresIn, err := GenerateAccessToken(cfg, "user-1", "lily")
	require.NoError(t, err)
	assert.Equal(t, int64(3600), expiresIn)

	claims, err := ValidateAccessToken(cfg, token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "lily", claims.Username)
	assert.Equal(t, tokenIssuer, claims.Issuer)
}

func TestValidateAccessToken_Rejects(t *testing.T) {
	cfg := JWTConfig{Secret: []byte("test-secret"), AccessTokenTTL: time.Hour}

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := GenerateAccessToken(JWTConfig{Secret: []byte("other"), AccessTokenTTL: time.Hour}, "user-1", "lily")
		require.NoError(t, err)
		_, err = ValidateAccessToken(cfg, token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, _, err := GenerateAccessToken(JWTConfig{Secret: cfg.Secret, AccessTokenTTL: -time.Minute}, "user-1", "lily")
		require.NoError(t, err)
		_, err = ValidateAccessToken(cfg, token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ValidateAccessToken(cfg, "not.a.token")
		assert.Error(t, err)
	})
}
