package email

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"regportal/internal/models"
)

// SMTPSender delivers mail through an SMTP relay using go-mail.
type SMTPSender struct {
	client *mail.Client
	from   string
}

// NewSMTPSender creates an SMTP sender from configuration.
func NewSMTPSender(config models.EmailConfig) (*SMTPSender, error) {
	if config.SMTP.Host == "" {
		return nil, fmt.Errorf("smtp host is required for smtp email sender")
	}
	if config.From == "" {
		return nil, fmt.Errorf("from address is required for smtp email sender")
	}

	opts := []mail.Option{
		mail.WithPort(config.SMTP.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if config.SMTP.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(config.SMTP.Username),
			mail.WithPassword(config.SMTP.Password),
		)
	}

	client, err := mail.NewClient(config.SMTP.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: config.From}, nil
}

// Send delivers a single HTML message.
func (s *SMTPSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
