package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// User is a registered portal account. Email is stored lowercased and is
// unique across the user table; the storage layer enforces the constraint
// and reports violations as ErrDuplicate.
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"-"`
	EmailVerified *time.Time `json:"email_verified,omitempty"`
	Locale        string     `json:"locale,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsVerified reports whether the account's email address has been confirmed.
func (u *User) IsVerified() bool {
	return u.EmailVerified != nil
}

// NewUserID generates a new UUID v4 for use as a User ID.
func NewUserID() string {
	return uuid.New().String()
}

// HashPassword derives a bcrypt hash from a plaintext password.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored bcrypt hash.
// Returns nil on match.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
