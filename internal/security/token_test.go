package security

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("test-secret", 42, "ana@example.com", 24*time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseSessionToken(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.OperatorID)
	assert.Equal(t, "ana@example.com", claims.Login)
	assert.Equal(t, "ana@example.com", claims.Subject)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestSessionTokenWrongSecret(t *testing.T) {
	token, err := GenerateSessionToken("secret-a", 1, "ana@example.com", time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "secret-b")
	assert.Error(t, err)
}

func TestSessionTokenExpired(t *testing.T) {
	token, err := GenerateSessionToken("test-secret", 1, "ana@example.com", -time.Hour)
	require.NoError(t, err)

	_, err = ParseSessionToken(token, "test-secret")
	assert.Error(t, err)
}

func TestSessionTokenGarbage(t *testing.T) {
	_, err := ParseSessionToken("not-a-token", "test-secret")
	assert.Error(t, err)
}
