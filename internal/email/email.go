// Package email delivers account lifecycle mail: verification links after
// registration and password reset links. Delivery failures are reported to
// callers as errors but never abort the surrounding operation; the account
// flows are designed so a failed send can be retried via the resend path.
package email

import (
	"context"
	"fmt"

	"regportal/internal/models"
)

// Sender delivers a single HTML email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NewSender creates a sender based on configuration. The log sender writes
// mail to the service log instead of delivering it, which is the default
// for development setups without SMTP credentials.
func NewSender(config models.EmailConfig) (Sender, error) {
	switch config.Sender {
	case models.EmailSenderSMTP:
		return NewSMTPSender(config)
	case models.EmailSenderLog:
		return NewLogSender(config.From), nil
	default:
		return nil, fmt.Errorf("unsupported email sender: %s", config.Sender)
	}
}
