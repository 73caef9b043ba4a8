package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"github.com/SscSPs/forex_import_job/internal/logging"
)

// sendMailFunc matches smtp.SendMail.
type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier sends HTML mail through a relay. Authentication is only used when a user is set.
// STARTTLS is only negotiated when UseTLS is set.
type SMTPNotifier struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string
	UseTLS   bool

	send sendMailFunc
}

func NewSMTPNotifier(host string, port int, user, password, from string, to []string, useTLS bool) *SMTPNotifier {
	send := sendMailFunc(sendPlainMail)
	if useTLS {
		send = smtp.SendMail
	}
	return &SMTPNotifier{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
		UseTLS:   useTLS,
		send:     send,
	}
}

func (s *SMTPNotifier) SendSuccess(ctx context.Context, processed int) error {
	return s.sendHTML(ctx, SuccessSubject, SuccessBody(processed))
}

func (s *SMTPNotifier) SendFailure(ctx context.Context, message string) error {
	return s.sendHTML(ctx, FailureSubject, FailureBody(message))
}

func (s *SMTPNotifier) sendHTML(ctx context.Context, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var auth smtp.Auth
	if s.User != "" {
		auth = smtp.PlainAuth("", s.User, s.Password, s.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

	if err := s.send(addr, auth, s.From, s.To, buildMessage(s.From, s.To, subject, body)); err != nil {
		logging.FromContext(ctx).Error("Failed to send email via SMTP", slog.String("error", err.Error()), slog.String("subject", subject))
		return fmt.Errorf("failed to send email via SMTP: %w", err)
	}
	logging.FromContext(ctx).Info("Email sent via SMTP", slog.String("subject", subject), slog.Any("to", s.To))
	return nil
}

// sendPlainMail delivers msg over an unencrypted session, even when the relay offers STARTTLS.
func sendPlainMail(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
	c, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer c.Close()

	if a != nil {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("smtp: server doesn't support AUTH")
		}
		if err := c.Auth(a); err != nil {
			return err
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// buildMessage renders an RFC 5322 message with an HTML body.
func buildMessage(from string, to []string, subject, body string) []byte {
	headers := []struct{ key, value string }{
		{"From", from},
		{"To", strings.Join(to, ", ")},
		{"Subject", subject},
		{"MIME-Version", "1.0"},
		{"Content-Type", `text/html; charset="UTF-8"`},
	}

	var b strings.Builder
	for _, h := range headers {
		fmt.Fprintf(&b, "%s: %s\r\n", h.key, h.value)
	}
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
