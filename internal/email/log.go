package email

import (
	"context"
	"log/slog"
)

// LogSender writes mail to the service log instead of delivering it. Used in
// development and tests so account flows work without an SMTP relay.
type LogSender struct {
	from string
}

// NewLogSender creates a log-only sender.
func NewLogSender(from string) *LogSender {
	return &LogSender{from: from}
}

// Send logs the message and reports success.
func (s *LogSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	slog.InfoContext(ctx, "email delivery skipped, logging instead",
		"from", s.from,
		"to", to,
		"subject", subject,
		"body_bytes", len(htmlBody))
	return nil
}
