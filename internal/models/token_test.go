package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerificationToken_IsExpired(t *testing.T) {
	expires := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token := &VerificationToken{
		Identifier: "user@example.lv",
		Token:      "abc",
		Type:       TokenTypeEmailVerification,
		Expires:    expires,
	}

	assert.False(t, token.IsExpired(expires.Add(-time.Second)))
	// The expiry instant itself is already expired
	assert.True(t, token.IsExpired(expires))
	assert.True(t, token.IsExpired(expires.Add(time.Second)))
}

func TestTokenTypeValues(t *testing.T) {
	assert.Equal(t, TokenType("EMAIL_VERIFICATION"), TokenTypeEmailVerification)
	assert.Equal(t, TokenType("PASSWORD_RESET"), TokenTypePasswordReset)
}
