package services

import (
	"log/slog"

	portsrepo "github.com/SscSPs/forex_import_job/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/forex_import_job/internal/core/ports/services"
	"github.com/SscSPs/forex_import_job/internal/metrics"
	"github.com/SscSPs/forex_import_job/internal/platform/config"
)

// NewServiceContainer wires the job services around already built adapters.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, feed portssvc.RateFeedSvc, notifier portssvc.NotificationSvc, jobMetrics *metrics.JobMetrics, logger *slog.Logger) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Importer = NewExchangeRateImportService(
		feed,
		repos.ExchangeRateRecordRepo,
		AuditSettings{
			User:      cfg.JDEUser,
			ProgramID: cfg.JDEProgramID,
			JobName:   cfg.JDEJobName,
		},
	)

	container.Job = NewForexJobService(
		container.Importer,
		notifier,
		logger,
		WithJobMetrics(jobMetrics, cfg.PushgatewayURL),
	)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.ExchangeRateImportSvc = (*exchangeRateImportService)(nil)
	_ portssvc.ForexJobSvc           = (*forexJobService)(nil)
)
