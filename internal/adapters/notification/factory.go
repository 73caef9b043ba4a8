// Package notification delivers the job's success and failure emails.
package notification

import (
	"log/slog"
	"strings"

	"github.com/SscSPs/forex_import_job/internal/core/ports/services"
	"github.com/SscSPs/forex_import_job/internal/platform/config"
)

// NewNotifier picks the provider named by cfg.EmailProvider.
func NewNotifier(cfg *config.Config, logger *slog.Logger) services.NotificationSvc {
	to := splitRecipients(cfg.NotifyTo)
	logger.Info("Initializing notifier", slog.String("provider", cfg.EmailProvider))

	switch cfg.EmailProvider {
	case config.ProviderMailgun:
		return NewMailgunNotifier(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.NotifyFrom, to)
	case config.ProviderSMTP:
		return NewSMTPNotifier(cfg.MailHost, cfg.MailPort, cfg.MailUser, cfg.MailPassword, cfg.NotifyFrom, to, cfg.MailTLS)
	default:
		return NewLogNotifier()
	}
}

func splitRecipients(list string) []string {
	var to []string
	for _, addr := range strings.Split(list, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			to = append(to, addr)
		}
	}
	return to
}

var (
	_ services.NotificationSvc = (*SMTPNotifier)(nil)
	_ services.NotificationSvc = (*MailgunNotifier)(nil)
	_ services.NotificationSvc = (*LogNotifier)(nil)
)
