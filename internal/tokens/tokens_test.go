package tokens

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regportal/internal/models"
)

var hexPattern = regexp.MustCompile(`^[0-9a-f]{64}$`)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestGenerator_Issue_Format(t *testing.T) {
	g := NewGenerator()

	tok, err := g.Issue("user@example.com", models.TokenTypeEmailVerification)
	require.NoError(t, err)

	assert.Len(t, tok.Token, TokenLength)
	assert.Regexp(t, hexPattern, tok.Token)
	assert.Equal(t, "user@example.com", tok.Identifier)
	assert.Equal(t, models.TokenTypeEmailVerification, tok.Type)
}

func TestGenerator_Issue_Uniqueness(t *testing.T) {
	g := NewGenerator()

	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		tok, err := g.Issue("user@example.com", models.TokenTypePasswordReset)
		require.NoError(t, err)
		require.Len(t, tok.Token, TokenLength)

		_, dup := seen[tok.Token]
		require.False(t, dup, "duplicate token generated")
		seen[tok.Token] = struct{}{}
	}
}

func TestGenerator_Issue_Lifetimes(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	g := NewGenerator(WithClock(fixedClock(now)))

	verification, err := g.Issue("a@example.com", models.TokenTypeEmailVerification)
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), verification.Expires)

	reset, err := g.Issue("a@example.com", models.TokenTypePasswordReset)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), reset.Expires)
}

func TestLifetime_PanicsOnUnknownType(t *testing.T) {
	assert.Panics(t, func() { Lifetime(models.TokenType("SOMETHING_ELSE")) })
}

func TestValidate(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	record := &models.VerificationToken{
		Identifier: "user@example.com",
		Token:      "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
		Type:       models.TokenTypeEmailVerification,
		Expires:    now.Add(time.Hour),
	}

	tests := []struct {
		name    string
		record  *models.VerificationToken
		token   string
		typ     models.TokenType
		at      time.Time
		wantErr error
	}{
		{
			name:   "valid token",
			record: record,
			token:  record.Token,
			typ:    models.TokenTypeEmailVerification,
			at:     now,
		},
		{
			name:    "missing record",
			record:  nil,
			token:   record.Token,
			typ:     models.TokenTypeEmailVerification,
			at:      now,
			wantErr: ErrNotFound,
		},
		{
			name:    "token string mismatch",
			record:  record,
			token:   "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb",
			typ:     models.TokenTypeEmailVerification,
			at:      now,
			wantErr: ErrNotFound,
		},
		{
			name:    "type is part of the match key",
			record:  record,
			token:   record.Token,
			typ:     models.TokenTypePasswordReset,
			at:      now,
			wantErr: ErrTypeMismatch,
		},
		{
			name:    "expired at exact expiry instant",
			record:  record,
			token:   record.Token,
			typ:     models.TokenTypeEmailVerification,
			at:      record.Expires,
			wantErr: ErrExpired,
		},
		{
			name:   "valid one millisecond before expiry",
			record: record,
			token:  record.Token,
			typ:    models.TokenTypeEmailVerification,
			at:     record.Expires.Add(-time.Millisecond),
		},
		{
			name:    "expired after expiry",
			record:  record,
			token:   record.Token,
			typ:     models.TokenTypeEmailVerification,
			at:      record.Expires.Add(time.Hour),
			wantErr: ErrExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.record, tt.token, tt.typ, tt.at)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
