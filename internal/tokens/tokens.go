// Package tokens generates and validates the single-use opaque credentials
// behind email verification and password reset. A token is 32 bytes of
// cryptographically secure randomness encoded as 64 hex characters; its only
// meaning is the database row it points at.
//
// The package owns policy (lifetimes, validity rules), not storage. Callers
// persist issued tokens with the delete-prior-then-insert discipline and
// delete them on consumption; expired rows are reclaimed by the cleanup
// sweep, never eagerly during validation.
package tokens

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"regportal/internal/models"
)

// TokenLength is the hex-encoded length of every issued token.
const TokenLength = 64

// Token lifetimes per type. Verification links ride in email that may sit
// unread for a while; reset links authorize a credential change and stay
// short-lived.
const (
	EmailVerificationLifetime = 24 * time.Hour
	PasswordResetLifetime     = time.Hour
)

// Validation failure reasons. Callers must collapse all of these into one
// generic "invalid or expired" response toward the end user; the distinct
// values exist for internal logging only.
var (
	ErrNotFound     = errors.New("token not found")
	ErrTypeMismatch = errors.New("token type mismatch")
	ErrExpired      = errors.New("token expired")
)

// Lifetime returns the configured lifetime for a token type.
// Unknown types are programmer error.
func Lifetime(typ models.TokenType) time.Duration {
	switch typ {
	case models.TokenTypeEmailVerification:
		return EmailVerificationLifetime
	case models.TokenTypePasswordReset:
		return PasswordResetLifetime
	default:
		panic(fmt.Sprintf("tokens: unknown token type %q", typ))
	}
}

// Generator issues tokens against an injectable clock.
type Generator struct {
	now func() time.Time
}

// Option configures optional Generator behavior.
type Option func(*Generator)

// WithClock replaces the generator's time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

// NewGenerator creates a token generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Issue generates a new token of the given type for the given identifier,
// with expiry computed from the type's lifetime. The returned record is not
// persisted; the caller deletes prior live tokens of this type for the
// identifier and inserts the new one as a logically atomic pair.
func (g *Generator) Issue(identifier string, typ models.TokenType) (*models.VerificationToken, error) {
	b := make([]byte, TokenLength/2)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &models.VerificationToken{
		Identifier: identifier,
		Token:      hex.EncodeToString(b),
		Type:       typ,
		Expires:    g.now().Add(Lifetime(typ)),
	}, nil
}

// Validate checks a stored record against the presented token string and
// expected type at the given instant. A nil record (lookup miss) and an
// expired record are equally invalid from the caller's perspective; the
// distinct errors feed logs only. Expiry is an exclusive upper bound: a
// token presented exactly at its expiry timestamp is already expired.
//
// Validation never deletes anything. Consumption is a separate, explicit
// step taken by the caller after the authorized side effect is applied.
func Validate(record *models.VerificationToken, token string, typ models.TokenType, now time.Time) error {
	if record == nil || record.Token != token {
		return ErrNotFound
	}
	if record.Type != typ {
		return ErrTypeMismatch
	}
	if record.IsExpired(now) {
		return ErrExpired
	}
	return nil
}
