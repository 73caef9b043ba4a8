package notification

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/forex_import_job/internal/logging"
	"github.com/mailgun/mailgun-go/v4"
)

const mailgunSendTimeout = 20 * time.Second

type MailgunNotifier struct {
	mg   mailgun.Mailgun
	from string
	to   []string
}

func NewMailgunNotifier(domain, apiKey, from string, to []string) *MailgunNotifier {
	return &MailgunNotifier{
		mg:   mailgun.NewMailgun(domain, apiKey),
		from: from,
		to:   to,
	}
}

func (s *MailgunNotifier) SendSuccess(ctx context.Context, processed int) error {
	return s.sendHTML(ctx, SuccessSubject, SuccessBody(processed))
}

func (s *MailgunNotifier) SendFailure(ctx context.Context, message string) error {
	return s.sendHTML(ctx, FailureSubject, FailureBody(message))
}

func (s *MailgunNotifier) sendHTML(ctx context.Context, subject, body string) error {
	message := s.mg.NewMessage(s.from, subject, "", s.to...)
	message.SetHtml(body)

	ctx, cancel := context.WithTimeout(ctx, mailgunSendTimeout)
	defer cancel()

	resp, id, err := s.mg.Send(ctx, message)
	if err != nil {
		logging.FromContext(ctx).Error("Failed to send email via Mailgun",
			slog.String("error", err.Error()), slog.String("subject", subject), slog.String("mailgunResp", resp))
		return fmt.Errorf("mailgun send failed: %w", err)
	}
	logging.FromContext(ctx).Info("Email sent via Mailgun", slog.String("subject", subject), slog.String("id", id))
	return nil
}
