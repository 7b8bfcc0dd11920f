package models

import (
	"encoding/base64"
	"encoding/hex"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSessionToken(t *testing.T) {
	token1, err := GenerateSessionToken()
	require.NoError(t, err)
	token2, err := GenerateSessionToken()
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)

	// 32 random bytes, url-safe base64 without padding
	raw, err := base64.RawURLEncoding.DecodeString(token1)
	require.NoError(t, err)
	assert.Len(t, raw, 32)
}

func TestHashSessionToken(t *testing.T) {
	hash := HashSessionToken("some-raw-token")

	// SHA-256 hex digest, stable for the same input
	_, err := hex.DecodeString(hash)
	assert.NoError(t, err)
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashSessionToken("some-raw-token"))
	assert.NotEqual(t, hash, HashSessionToken("other-token"))
}

func TestSession_IsExpired(t *testing.T) {
	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	session := &Session{TokenHash: "h", UserID: "u", Expires: expires}

	assert.False(t, session.IsExpired(expires.Add(-time.Minute)))
	assert.True(t, session.IsExpired(expires))
	assert.True(t, session.IsExpired(expires.Add(time.Minute)))
}
