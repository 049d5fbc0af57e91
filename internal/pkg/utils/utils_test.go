package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthTokenRoundTrip(t *testing.T) {
	raw, err := GenerateAuthToken(&AuthTokenWrapper{UserID: 42}, "secret", time.Hour)
	require.NoError(t, err)

	parsed, err := ParseAuthToken(raw, "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
	assert.NotEmpty(t, parsed.Id)
}

func TestParseAuthTokenRejects(t *testing.T) {
	raw, err := GenerateAuthToken(&AuthTokenWrapper{UserID: 1}, "secret", time.Hour)
	require.NoError(t, err)

	_, err = ParseAuthToken(raw, "other")
	assert.ErrorIs(t, err, ErrInvalidAuthToken)

	expired, err := GenerateAuthToken(&AuthTokenWrapper{UserID: 1}, "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseAuthToken(expired, "secret")
	assert.NoError(t, err, "non-positive ttl issues a token without expiry")

	_, err = ParseAuthToken("garbage", "secret")
	assert.ErrorIs(t, err, ErrInvalidAuthToken)
}

func TestPassword(t *testing.T) {
	hashed, err := HashPassword("hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2", hashed)

	assert.NoError(t, ComparePassword(hashed, "hunter2"))
	assert.Error(t, ComparePassword(hashed, "hunter3"))
}
