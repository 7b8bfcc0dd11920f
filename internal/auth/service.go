// Package auth implements the portal's account lifecycle: registration with
// email verification, login sessions, and the password reset flow. The
// enumeration-sensitive operations (resend verification, forgot password)
// are deliberate no-ops for unknown accounts so responses never reveal
// whether an email address is registered.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"regportal/internal/email"
	"regportal/internal/models"
	"regportal/internal/storage"
	"regportal/internal/tokens"
)

// Domain errors translated into HTTP responses by the API layer.
var (
	ErrEmailTaken         = errors.New("email address already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email address not verified")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrInvalidSession     = errors.New("invalid or expired session")
)

// Service wires storage, token issuance and email delivery into the account
// operations exposed by the API.
type Service struct {
	store           storage.Storage
	sender          email.Sender
	composer        *email.Composer
	generator       *tokens.Generator
	sessionLifetime time.Duration
	bcryptCost      int
	now             func() time.Time
}

// Option configures optional Service behavior.
type Option func(*Service)

// WithClock replaces the service's time source for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates an auth service.
func NewService(store storage.Storage, sender email.Sender, composer *email.Composer, security models.SecurityConfig, opts ...Option) *Service {
	s := &Service{
		store:           store,
		sender:          sender,
		composer:        composer,
		generator:       tokens.NewGenerator(),
		sessionLifetime: security.SessionLifetime,
		bcryptCost:      security.BcryptCost,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	// Token expiries must come from the same clock as everything else.
	s.generator = tokens.NewGenerator(tokens.WithClock(func() time.Time { return s.now() }))
	return s
}

// RegisterResult reports the outcome of account creation.
type RegisterResult struct {
	User *models.User

	// EmailFailed is set when the account was created but the verification
	// email could not be delivered. The account is kept; the user recovers
	// through the resend path.
	EmailFailed bool
}

// Register creates a new account and sends the verification email. A
// delivery failure does not roll back the account.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*RegisterResult, error) {
	hash, err := models.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           models.NewUserID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Locale:       "lv",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	emailFailed := s.issueAndSendVerification(ctx, user) != nil
	return &RegisterResult{User: user, EmailFailed: emailFailed}, nil
}

// issueAndSendVerification issues a fresh verification token for the user,
// replacing any prior one, and emails the link.
func (s *Service) issueAndSendVerification(ctx context.Context, user *models.User) error {
	token, err := s.issueToken(ctx, user.Email, models.TokenTypeEmailVerification)
	if err != nil {
		slog.ErrorContext(ctx, "failed to issue verification token", "user_id", user.ID, "error", err)
		return err
	}

	subject, body, err := s.composer.VerificationMessage(user.Name, token.Token)
	if err != nil {
		slog.ErrorContext(ctx, "failed to compose verification email", "user_id", user.ID, "error", err)
		return err
	}
	if err := s.sender.Send(ctx, user.Email, subject, body); err != nil {
		slog.WarnContext(ctx, "failed to send verification email", "user_id", user.ID, "error", err)
		return err
	}
	return nil
}

// issueToken generates a token and persists it with the
// delete-prior-then-insert discipline: at most one live token per
// identifier and type.
func (s *Service) issueToken(ctx context.Context, identifier string, typ models.TokenType) (*models.VerificationToken, error) {
	token, err := s.generator.Issue(identifier, typ)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.DeleteVerificationTokens(ctx, identifier, typ); err != nil {
		return nil, fmt.Errorf("failed to delete prior tokens: %w", err)
	}
	if err := s.store.CreateVerificationToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to store token: %w", err)
	}
	return token, nil
}

// lookupToken fetches and validates a presented token. All failure modes
// collapse into ErrInvalidToken toward the caller.
func (s *Service) lookupToken(ctx context.Context, presented string, typ models.TokenType) (*models.VerificationToken, error) {
	record, err := s.store.GetVerificationToken(ctx, presented)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	if err := tokens.Validate(record, presented, typ, s.now()); err != nil {
		slog.DebugContext(ctx, "token validation failed", "type", typ, "reason", err)
		return nil, ErrInvalidToken
	}
	return record, nil
}

// VerifyEmail confirms an email address using a verification token. The
// token is consumed only after the account is marked verified.
func (s *Service) VerifyEmail(ctx context.Context, presented string) error {
	record, err := s.lookupToken(ctx, presented, models.TokenTypeEmailVerification)
	if err != nil {
		return err
	}

	user, err := s.store.GetUserByEmail(ctx, record.Identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Account deleted after the token was issued.
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	if !user.IsVerified() {
		now := s.now().UTC()
		user.EmailVerified = &now
		user.UpdatedAt = now
		if err := s.store.UpdateUser(ctx, user); err != nil {
			return fmt.Errorf("failed to mark user verified: %w", err)
		}
	}

	if err := s.store.DeleteVerificationToken(ctx, record.Token); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to consume token: %w", err)
	}
	return nil
}

// ResendVerification issues a fresh verification token and email for an
// unverified account. Unknown and already-verified addresses are silent
// no-ops so the response never reveals account existence.
func (s *Service) ResendVerification(ctx context.Context, emailAddr string) error {
	user, err := s.store.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user.IsVerified() {
		return nil
	}

	// Delivery failure is logged inside; the caller's response is the
	// same generic message either way.
	_ = s.issueAndSendVerification(ctx, user)
	return nil
}

// ForgotPassword issues a password reset token and email for an existing
// account. Unknown addresses are silent no-ops.
func (s *Service) ForgotPassword(ctx context.Context, emailAddr string) error {
	user, err := s.store.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	token, err := s.issueToken(ctx, user.Email, models.TokenTypePasswordReset)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	subject, body, err := s.composer.PasswordResetMessage(user.Name, token.Token)
	if err != nil {
		return fmt.Errorf("failed to compose reset email: %w", err)
	}
	if err := s.sender.Send(ctx, user.Email, subject, body); err != nil {
		slog.WarnContext(ctx, "failed to send reset email", "user_id", user.ID, "error", err)
	}
	return nil
}

// ResetPassword sets a new password using a reset token. Completing a reset
// proves control of the mailbox, so an unverified account is marked verified
// as a side effect. All outstanding reset tokens for the account are removed
// afterwards, including the one just used.
func (s *Service) ResetPassword(ctx context.Context, presented, password string) error {
	record, err := s.lookupToken(ctx, presented, models.TokenTypePasswordReset)
	if err != nil {
		return err
	}

	user, err := s.store.GetUserByEmail(ctx, record.Identifier)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrInvalidToken
		}
		return fmt.Errorf("failed to load user: %w", err)
	}

	hash, err := models.HashPassword(password, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user.PasswordHash = hash
	user.UpdatedAt = now
	if !user.IsVerified() {
		user.EmailVerified = &now
	}
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	if _, err := s.store.DeleteVerificationTokens(ctx, user.Email, models.TokenTypePasswordReset); err != nil {
		return fmt.Errorf("failed to remove reset tokens: %w", err)
	}
	return nil
}

// LoginResult carries the raw session token handed to the client. The raw
// token exists only here and in the client; storage holds its hash.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Login checks credentials and opens a session. Unknown addresses and wrong
// passwords produce the same error; unverified accounts are rejected
// explicitly so the client can offer the resend path.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (*LoginResult, error) {
	user, err := s.store.GetUserByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := models.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsVerified() {
		return nil, ErrEmailNotVerified
	}

	rawToken, err := models.GenerateSessionToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	now := s.now().UTC()
	session := &models.Session{
		TokenHash: models.HashSessionToken(rawToken),
		UserID:    user.ID,
		Expires:   now.Add(s.sessionLifetime),
		CreatedAt: now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &LoginResult{User: user, Token: rawToken, ExpiresAt: session.Expires}, nil
}

// Logout removes the session for a raw token. Unknown tokens are not an
// error; logout is idempotent.
func (s *Service) Logout(ctx context.Context, rawToken string) error {
	err := s.store.DeleteSession(ctx, models.HashSessionToken(rawToken))
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Authenticate resolves a raw session token to its user. Expired sessions
// are rejected and removed eagerly rather than waiting for the cleanup
// sweep.
func (s *Service) Authenticate(ctx context.Context, rawToken string) (*models.User, error) {
	if rawToken == "" {
		return nil, ErrInvalidSession
	}

	hash := models.HashSessionToken(rawToken)
	session, err := s.store.GetSession(ctx, hash)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if session.IsExpired(s.now()) {
		if err := s.store.DeleteSession(ctx, hash); err != nil && !errors.Is(err, storage.ErrNotFound) {
			slog.WarnContext(ctx, "failed to delete expired session", "error", err)
		}
		return nil, ErrInvalidSession
	}

	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// UpdateLocale sets the user's preferred interface language.
func (s *Service) UpdateLocale(ctx context.Context, user *models.User, locale string) error {
	user.Locale = locale
	user.UpdatedAt = s.now().UTC()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update locale: %w", err)
	}
	return nil
}
