package models

import "time"

// TokenType distinguishes the two single-use credential token purposes.
// The type is part of the match key: an email verification token never
// validates against a password reset lookup even if the raw strings collide.
type TokenType string

const (
	TokenTypeEmailVerification TokenType = "EMAIL_VERIFICATION"
	TokenTypePasswordReset     TokenType = "PASSWORD_RESET"
)

// VerificationToken is a single-use opaque credential issued for email
// verification or password reset. Identifier is the email address the
// token was issued for. Expiry is derived at validation time from Expires;
// there is no stored "expired" state. Expired rows are reclaimed by the
// cleanup sweep.
type VerificationToken struct {
	Identifier string    `json:"identifier"`
	Token      string    `json:"token"`
	Type       TokenType `json:"type"`
	Expires    time.Time `json:"expires"`
}

// IsExpired reports whether the token is expired at the given instant.
// The expiry bound is exclusive: a token checked exactly at Expires is
// already expired.
func (t *VerificationToken) IsExpired(now time.Time) bool {
	return !t.Expires.After(now)
}
