// Package storage provides persistence for portal records behind a single
// interface that can be implemented by different backends: in-memory for
// tests and development, PostgreSQL for production, SQLite for lightweight
// single-node deployments.
package storage

import (
	"context"
	"strings"
	"time"

	"regportal/internal/models"
)

// Storage defines the persistence contract for users, credential tokens,
// sessions and the company read model. Implementations must be safe for
// concurrent use and must report unique constraint violations as
// ErrDuplicate and missing rows as ErrNotFound so callers can translate
// them into domain responses.
type Storage interface {
	// CreateUser stores a new user. Returns ErrDuplicate when a user with
	// the same email already exists.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by lowercased email address.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateUser persists changes to an existing user.
	UpdateUser(ctx context.Context, user *models.User) error

	// CreateVerificationToken stores a new credential token.
	CreateVerificationToken(ctx context.Context, token *models.VerificationToken) error

	// GetVerificationToken retrieves a token record by its exact token string.
	GetVerificationToken(ctx context.Context, token string) (*models.VerificationToken, error)

	// DeleteVerificationToken removes a single token record.
	DeleteVerificationToken(ctx context.Context, token string) error

	// DeleteVerificationTokens removes all tokens of a type for an identifier,
	// returning the number removed.
	DeleteVerificationTokens(ctx context.Context, identifier string, typ models.TokenType) (int64, error)

	// DeleteExpiredVerificationTokens removes all tokens of either type whose
	// expiry is before now, returning the number removed.
	DeleteExpiredVerificationTokens(ctx context.Context, now time.Time) (int64, error)

	// CreateSession stores a new session.
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves a session by its token hash.
	GetSession(ctx context.Context, tokenHash string) (*models.Session, error)

	// DeleteSession removes a session by its token hash.
	DeleteSession(ctx context.Context, tokenHash string) error

	// DeleteExpiredSessions removes all sessions expired before now,
	// returning the number removed.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	// SearchCompanies returns up to limit companies matching the normalized
	// search term against the precomputed normalized columns.
	SearchCompanies(ctx context.Context, normalizedTerm string, limit int) ([]*models.Company, error)

	// GetCompany retrieves a company with all related records.
	GetCompany(ctx context.Context, id string) (*models.Company, error)

	// GetCompaniesByIDs retrieves the companies whose IDs are in ids.
	// Missing IDs are skipped, not errors.
	GetCompaniesByIDs(ctx context.Context, ids []string) ([]*models.Company, error)

	// SaveCompany stores or updates a company and its related records,
	// recomputing normalized search columns.
	SaveCompany(ctx context.Context, company *models.Company) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close closes the storage connection and cleans up resources.
	Close() error
}

// Config holds configuration for storage backends
type Config struct {
	// Type specifies the storage backend type (memory, postgres, sqlite)
	Type string `json:"type" yaml:"type"`

	// ConnectionString is used for database backends
	ConnectionString string `json:"connection_string,omitempty" yaml:"connection_string,omitempty"`

	// MaxOpenConns bounds the database connection pool
	MaxOpenConns int `json:"max_open_conns,omitempty" yaml:"max_open_conns,omitempty"`

	// MaxIdleConns bounds idle pooled connections
	MaxIdleConns int `json:"max_idle_conns,omitempty" yaml:"max_idle_conns,omitempty"`
}

// escapeLike neutralizes LIKE metacharacters in a user-supplied term so a
// query containing "%" or "_" matches those characters literally. The SQL
// backends pair it with an explicit ESCAPE '\' clause.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}
