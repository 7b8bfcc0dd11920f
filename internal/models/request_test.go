package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		request     RegisterRequest
		expectError bool
	}{
		{
			name: "valid request",
			request: RegisterRequest{
				Name:     "Jānis Bērziņš",
				Email:    "janis@example.lv",
				Password: "password123",
			},
			expectError: false,
		},
		{
			name: "empty name",
			request: RegisterRequest{
				Email:    "janis@example.lv",
				Password: "password123",
			},
			expectError: true,
		},
		{
			name: "missing email",
			request: RegisterRequest{
				Name:     "Jānis",
				Password: "password123",
			},
			expectError: true,
		},
		{
			name: "malformed email",
			request: RegisterRequest{
				Name:     "Jānis",
				Email:    "not-an-email",
				Password: "password123",
			},
			expectError: true,
		},
		{
			name: "password too short",
			request: RegisterRequest{
				Name:     "Jānis",
				Email:    "janis@example.lv",
				Password: "short17",
			},
			expectError: true,
		},
		{
			name: "password exactly eight characters",
			request: RegisterRequest{
				Name:     "Jānis",
				Email:    "janis@example.lv",
				Password: "12345678",
			},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegisterRequest_Normalize(t *testing.T) {
	req := RegisterRequest{
		Name:     "  Jānis Bērziņš  ",
		Email:    "  Janis.Berzins@Example.LV ",
		Password: "password123",
	}

	require.NoError(t, req.Validate())

	assert.Equal(t, "Jānis Bērziņš", req.Name)
	assert.Equal(t, "janis.berzins@example.lv", req.Email)
	assert.Equal(t, "password123", req.Password, "password must not be altered")
}

func TestLoginRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		request     LoginRequest
		expectError bool
	}{
		{name: "valid", request: LoginRequest{Email: "a@b.lv", Password: "x"}, expectError: false},
		{name: "missing email", request: LoginRequest{Password: "x"}, expectError: true},
		{name: "missing password", request: LoginRequest{Email: "a@b.lv"}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoginRequest_LowercasesEmail(t *testing.T) {
	req := LoginRequest{Email: "USER@Example.LV", Password: "secret"}
	require.NoError(t, req.Validate())
	assert.Equal(t, "user@example.lv", req.Email)
}

func TestVerifyEmailRequest_Validate(t *testing.T) {
	validToken := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

	tests := []struct {
		name        string
		token       string
		expectError bool
	}{
		{name: "valid 64 hex chars", token: validToken, expectError: false},
		{name: "empty", token: "", expectError: true},
		{name: "too short", token: "abcdef", expectError: true},
		{name: "too long", token: validToken + "00", expectError: true},
		{name: "non-hex characters", token: validToken[:62] + "zz", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := VerifyEmailRequest{Token: tt.token}
			err := req.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResetPasswordRequest_Validate(t *testing.T) {
	validToken := "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

	tests := []struct {
		name        string
		request     ResetPasswordRequest
		expectError bool
	}{
		{
			name:        "valid",
			request:     ResetPasswordRequest{Token: validToken, Password: "newpassword1"},
			expectError: false,
		},
		{
			name:        "short password",
			request:     ResetPasswordRequest{Token: validToken, Password: "short"},
			expectError: true,
		},
		{
			name:        "malformed token",
			request:     ResetPasswordRequest{Token: "bad", Password: "newpassword1"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCompareRequest_Validate(t *testing.T) {
	tests := []struct {
		name        string
		ids         []string
		expectError bool
	}{
		{name: "two companies", ids: []string{"a", "b"}, expectError: false},
		{name: "five companies", ids: []string{"a", "b", "c", "d", "e"}, expectError: false},
		{name: "single company", ids: []string{"a"}, expectError: true},
		{name: "six companies", ids: []string{"a", "b", "c", "d", "e", "f"}, expectError: true},
		{name: "empty list", ids: []string{}, expectError: true},
		{name: "blank id", ids: []string{"a", ""}, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := CompareRequest{CompanyIDs: tt.ids}
			err := req.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestUpdateLocaleRequest_Validate(t *testing.T) {
	for _, locale := range []string{"lv", "en", "ru"} {
		req := UpdateLocaleRequest{Locale: locale}
		assert.NoError(t, req.Validate(), "locale %s should be accepted", locale)
	}

	for _, locale := range []string{"", "de", "LV", "latvian"} {
		req := UpdateLocaleRequest{Locale: locale}
		assert.Error(t, req.Validate(), "locale %q should be rejected", locale)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("12345678"))
	assert.NoError(t, ValidatePassword("a much longer password"))
	assert.Error(t, ValidatePassword("1234567"))
	assert.Error(t, ValidatePassword(""))
}
