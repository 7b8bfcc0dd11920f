package api

import (
	"errors"
	"net/http"

	"regportal/internal/auth"
	"regportal/internal/models"
)

// Register handles account creation.
// POST /api/v1/auth/register
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, err.Error())
		return
	}

	result, err := h.authService.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			h.writeErrorResponse(w, http.StatusConflict, models.ErrorCodeConflict, "An account with this email already exists")
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to create account")
		return
	}

	message := "Account created. Check your email for the verification link."
	if result.EmailFailed {
		message = "Account created, but the verification email could not be sent. Use the resend option."
	}
	h.writeJSONResponse(w, http.StatusCreated, models.RegisterResponse{
		Message:     message,
		UserID:      result.User.ID,
		EmailFailed: result.EmailFailed,
	})
}

// VerifyEmail handles email confirmation.
// POST /api/v1/auth/verify-email
func (h *Handlers) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req models.VerifyEmailRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, err.Error())
		return
	}

	if err := h.authService.VerifyEmail(r.Context(), req.Token); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid or expired verification link")
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to verify email")
		return
	}
	h.writeJSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Email verified. You can now log in."})
}

// ResendVerification handles verification email resend requests. The
// response is identical whether or not the account exists.
// POST /api/v1/auth/resend-verification
func (h *Handlers) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req models.ResendVerificationRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, err.Error())
		return
	}

	if err := h.authService.ResendVerification(r.Context(), req.Email); err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to process request")
		return
	}
	h.writeJSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "If an unverified account exists for this email, a new verification link has been sent.",
	})
}

// ForgotPassword handles password reset requests. The response is identical
// whether or not the account exists.
// POST /api/v1/auth/forgot-password
func (h *Handlers) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ForgotPasswordRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, err.Error())
		return
	}

	if err := h.authService.ForgotPassword(r.Context(), req.Email); err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to process request")
		return
	}
	h.writeJSONResponse(w, http.StatusOK, models.MessageResponse{
		Message: "If an account exists for this email, a password reset link has been sent.",
	})
}

// ResetPassword handles password changes via a reset token.
// POST /api/v1/auth/reset-password
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, err.Error())
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid or expired reset link")
			return
		}
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to reset password")
		return
	}
	h.writeJSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Password updated. You can now log in."})
}

// Login handles credential checks and session creation.
// POST /api/v1/auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, err.Error())
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			h.writeErrorResponse(w, http.StatusUnauthorized, models.ErrorCodeUnauthorized, "Invalid email or password")
		case errors.Is(err, auth.ErrEmailNotVerified):
			h.writeErrorResponse(w, http.StatusUnauthorized, models.ErrorCodeUnauthorized, "Email address not verified")
		default:
			h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to log in")
		}
		return
	}

	h.writeJSONResponse(w, http.StatusOK, models.LoginResponse{
		Message:   "Logged in",
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      models.NewUserInfo(result.User),
	})
}

// Logout handles session teardown. Idempotent; an unknown token still
// returns success.
// POST /api/v1/auth/logout
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if err := h.authService.Logout(r.Context(), token); err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to log out")
		return
	}
	h.writeJSONResponse(w, http.StatusOK, models.MessageResponse{Message: "Logged out"})
}

// Me returns the authenticated user's profile.
// GET /api/v1/auth/me
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	if user == nil {
		h.writeErrorResponse(w, http.StatusUnauthorized, models.ErrorCodeUnauthorized, "Authentication required")
		return
	}
	h.writeJSONResponse(w, http.StatusOK, models.NewUserInfo(user))
}

// UpdateLocale sets the authenticated user's interface language.
// PUT /api/v1/auth/locale
func (h *Handlers) UpdateLocale(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	if user == nil {
		h.writeErrorResponse(w, http.StatusUnauthorized, models.ErrorCodeUnauthorized, "Authentication required")
		return
	}

	var req models.UpdateLocaleRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeBadRequest, "Invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, models.ErrorCodeValidation, err.Error())
		return
	}

	if err := h.authService.UpdateLocale(r.Context(), user, req.Locale); err != nil {
		h.writeErrorResponse(w, http.StatusInternalServerError, models.ErrorCodeInternalError, "Failed to update locale")
		return
	}
	h.writeJSONResponse(w, http.StatusOK, models.NewUserInfo(user))
}
