// Package models - API response types and error handling.
// This file defines all outgoing API response structures with consistent formatting.
//
// Response Design Principles:
// - Consistent JSON structure across all endpoints
// - Optional fields use omitempty to reduce response size
// - Security-sensitive flows (registration, password reset) return uniform
//   generic messages regardless of whether the account exists
// - RFC3339 timestamps for international compatibility
package models

import "time"

// ErrorResponse provides structured error information with debugging context.
type ErrorResponse struct {
	Error     string            `json:"error"`             // Error type (always "error")
	Message   string            `json:"message"`           // Human-readable error description
	Code      string            `json:"code,omitempty"`    // Machine-readable error code
	Details   map[string]string `json:"details,omitempty"` // Field-specific error details
	Timestamp time.Time         `json:"timestamp"`         // Error occurrence time
}

// Standard error codes.
//
// Error Code Strategy:
// - Upper-case with underscores for consistency
// - Maps to standard HTTP status codes
// - Machine-readable for client error handling
const (
	ErrorCodeBadRequest         = "BAD_REQUEST"         // 400: Invalid request format
	ErrorCodeValidation         = "VALIDATION_ERROR"    // 400: Input validation failed
	ErrorCodeUnauthorized       = "UNAUTHORIZED"        // 401: Authentication required
	ErrorCodeNotFound           = "NOT_FOUND"           // 404: Resource doesn't exist
	ErrorCodeConflict           = "CONFLICT"            // 409: Resource conflict
	ErrorCodeRateLimited        = "RATE_LIMIT_EXCEEDED" // 429: Too many requests
	ErrorCodeInternalError      = "INTERNAL_ERROR"      // 500: Server-side error
	ErrorCodeServiceUnavailable = "SERVICE_UNAVAILABLE" // 503: Maintenance mode
)

func NewErrorResponse(message string, code string) *ErrorResponse {
	return &ErrorResponse{
		Error:     "error",
		Message:   message,
		Code:      code,
		Timestamp: time.Now(),
	}
}

// RegisterResponse reports the outcome of account creation. EmailFailed is
// set when the account exists but the verification email could not be
// delivered; the client offers the resend path in that case.
type RegisterResponse struct {
	Message     string `json:"message"`
	UserID      string `json:"user_id"`
	EmailFailed bool   `json:"email_failed,omitempty"`
}

// MessageResponse is the uniform body for the enumeration-safe auth flows.
type MessageResponse struct {
	Message string `json:"message"`
}

type LoginResponse struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      UserInfo  `json:"user"`
}

type UserInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
	Locale   string `json:"locale,omitempty"`
}

// NewUserInfo projects a User onto its public representation.
func NewUserInfo(u *User) UserInfo {
	return UserInfo{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Verified: u.IsVerified(),
		Locale:   u.Locale,
	}
}

// SearchResponse carries company search hits.
type SearchResponse struct {
	Results []CompanySummary `json:"results"`
}

type CompanySummary struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	RegistrationNumber string         `json:"registration_number"`
	TaxNumber          string         `json:"tax_number,omitempty"`
	Owners             []OwnerSummary `json:"owners,omitempty"`
}

type OwnerSummary struct {
	Name  string  `json:"name"`
	Share float64 `json:"share"`
}

// NewCompanySummary projects a Company onto its search result shape,
// current owners only.
func NewCompanySummary(c *Company) CompanySummary {
	s := CompanySummary{
		ID:                 c.ID,
		Name:               c.Name,
		RegistrationNumber: c.RegistrationNumber,
		TaxNumber:          c.TaxNumber,
	}
	for _, o := range c.Owners {
		if o.IsHistorical {
			continue
		}
		s.Owners = append(s.Owners, OwnerSummary{Name: o.Name, Share: o.SharePercentage})
	}
	return s
}

type CompanyResponse struct {
	Company *Company `json:"company"`
}

type CompareResponse struct {
	Companies []*Company `json:"companies"`
}

// CompareErrorResponse is returned when some requested companies do not exist.
type CompareErrorResponse struct {
	Error      string   `json:"error"`
	MissingIDs []string `json:"missing_ids"`
}

type BatchResponse struct {
	Companies []CompanyRef `json:"companies"`
}

// CompanyRef is the minimal projection used by the batch endpoint.
type CompanyRef struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
}

// CleanupResponse reports the outcome of a cleanup sweep.
type CleanupResponse struct {
	Success   bool          `json:"success"`
	Timestamp time.Time     `json:"timestamp"`
	Results   CleanupCounts `json:"results"`
}

type CleanupCounts struct {
	Tokens   int64 `json:"tokens"`
	Sessions int64 `json:"sessions"`
}

type HealthCheckResponse struct {
	Status     string                     `json:"status"`
	Timestamp  time.Time                  `json:"timestamp"`
	Version    string                     `json:"version,omitempty"`
	Components map[string]ComponentHealth `json:"components,omitempty"`
}

type ComponentHealth struct {
	Status    string    `json:"status"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Health status constants.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDegraded  = "degraded"
)

func NewHealthCheckResponse(status string) *HealthCheckResponse {
	return &HealthCheckResponse{
		Status:     status,
		Timestamp:  time.Now(),
		Components: make(map[string]ComponentHealth),
	}
}

func (h *HealthCheckResponse) AddComponent(name, status, message string) {
	h.Components[name] = ComponentHealth{
		Status:    status,
		Message:   message,
		Timestamp: time.Now(),
	}
}
