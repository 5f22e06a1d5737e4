package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

// Sender delivers transactional mail. Callers treat a failure as non-fatal.
type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

// NewSender returns a Resend-backed sender, or a LogSender in local
// development and whenever no API key is configured.
func NewSender(env, apiKey, from string, logger *slog.Logger) Sender {
	logger = logger.With("component", "email")
	if env == "local" || apiKey == "" {
		return &LogSender{logger: logger}
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from, logger: logger}
}

type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, to, subject, html string) error {
	s.logger.InfoContext(ctx, "email not delivered (log sender)", "to", to, "subject", subject, "bytes", len(html))
	return nil
}

type ResendSender struct {
	client *resend.Client
	from   string
	logger *slog.Logger
}

func (s *ResendSender) Send(ctx context.Context, to, subject, html string) error {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("send %q via resend: %w", subject, err)
	}
	s.logger.DebugContext(ctx, "email sent", "resend_id", sent.Id, "subject", subject)
	return nil
}
