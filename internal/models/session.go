package models

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"
)

// Session is a logged-in browser session. The raw session token is never
// persisted; only its SHA-256 hex hash is stored, so a leaked database
// cannot be replayed against the API.
type Session struct {
	TokenHash string    `json:"token_hash"`
	UserID    string    `json:"user_id"`
	Expires   time.Time `json:"expires"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired reports whether the session is expired at the given instant.
func (s *Session) IsExpired(now time.Time) bool {
	return !s.Expires.After(now)
}

// GenerateSessionToken produces a new random session token: 32 bytes of
// cryptographically secure randomness, url-safe base64 encoded.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashSessionToken computes the SHA-256 hex digest of a raw session token.
func HashSessionToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
