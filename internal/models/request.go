// Package models - API request types and input validation.
// This file defines all incoming API request structures.
//
// Validation Philosophy:
// - Fail fast with clear error messages for invalid input
// - Normalize input data for consistent processing (lowercased email, trimmed strings)
// - Validation tags carry the constraints; Validate methods run them and
//   apply normalization in one place so handlers stay thin
package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Password rules match the original portal: at least 8 characters. Anything
// beyond length (character classes etc.) is left to the client UI.
const minPasswordLength = 8

// RegisterRequest creates a new portal account.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// Normalize trims the name and lowercases the email address. Email is the
// canonical identity key, so every path that touches it must see the same
// casing.
func (r *RegisterRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

func (r *RegisterRequest) Validate() error {
	r.Normalize()
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid registration request: %w", err)
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid login request: %w", err)
	}
	return nil
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required,len=64,hexadecimal"`
}

func (r *VerifyEmailRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid verification request: %w", err)
	}
	return nil
}

type ResendVerificationRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ResendVerificationRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid resend request: %w", err)
	}
	return nil
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *ForgotPasswordRequest) Validate() error {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid forgot password request: %w", err)
	}
	return nil
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required,len=64,hexadecimal"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

func (r *ResetPasswordRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid reset password request: %w", err)
	}
	return nil
}

// CompareRequest selects companies for side-by-side comparison.
type CompareRequest struct {
	CompanyIDs []string `json:"company_ids" validate:"required,min=2,max=5,dive,required"`
}

func (r *CompareRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("select between 2 and 5 companies to compare: %w", err)
	}
	return nil
}

type UpdateLocaleRequest struct {
	Locale string `json:"locale" validate:"required,oneof=lv en ru"`
}

func (r *UpdateLocaleRequest) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("invalid locale request: %w", err)
	}
	return nil
}

// ValidatePassword is the standalone password check used where the full
// request struct is not in play.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return errors.New("password must be at least 8 characters")
	}
	return nil
}
