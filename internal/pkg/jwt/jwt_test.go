package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestTokenRoundtripPreservesIdentity(t *testing.T) {
	token, err := GenerateAccessToken("alice@bt.com", "SDadmin", testSecret, time.Hour)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "alice@bt.com", claims.Email)
	assert.Equal(t, "alice@bt.com", claims.Subject)
	assert.Equal(t, "SDadmin", claims.Role)
	assert.Equal(t, "opspulse", claims.Issuer)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	token, err := GenerateAccessToken("alice@bt.com", "user", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, testSecret)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestWrongSecretIsRejected(t *testing.T) {
	token, err := GenerateAccessToken("alice@bt.com", "user", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ValidateAccessToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestGarbageTokenIsRejected(t *testing.T) {
	_, err := ValidateAccessToken("not.a.token", testSecret)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
