package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/forex_import_job/internal/core/domain"
	portssvc "github.com/SscSPs/forex_import_job/internal/core/ports/services"
	"github.com/SscSPs/forex_import_job/internal/logging"
	"github.com/SscSPs/forex_import_job/internal/metrics"
)

type forexJobService struct {
	BaseService
	importer portssvc.ExchangeRateImportSvc
	notifier portssvc.NotificationSvc
	logger   *slog.Logger
	metrics  *metrics.JobMetrics
	pushURL  string
	now      func() time.Time
}

// JobServiceOption is a functional option for configuring the job service
type JobServiceOption func(*forexJobService)

// WithJobMetrics records every run on m and pushes it to pushURL when set.
func WithJobMetrics(m *metrics.JobMetrics, pushURL string) JobServiceOption {
	return func(s *forexJobService) {
		s.metrics = m
		s.pushURL = pushURL
	}
}

// WithJobClock overrides the clock used for report timestamps.
func WithJobClock(now func() time.Time) JobServiceOption {
	return func(s *forexJobService) {
		s.now = now
	}
}

// NewForexJobService creates the job runner. logger is the process logger the run logger derives from.
func NewForexJobService(importer portssvc.ExchangeRateImportSvc, notifier portssvc.NotificationSvc, logger *slog.Logger, options ...JobServiceOption) portssvc.ForexJobSvc {
	s := &forexJobService{
		importer: importer,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// Execute runs one import and sends its notifications: one failure notification per failed
// record pair, one for a failed downstream trigger, then exactly one summary.
// The returned error is the run error; notification failures are only logged.
func (s *forexJobService) Execute(ctx context.Context) (*domain.ImportReport, error) {
	ctx, runID := logging.NewRunContext(ctx, s.logger)
	s.LogInfo(ctx, "Forex import run started")

	report, runErr := s.importer.Run(ctx)
	if report == nil {
		report = &domain.ImportReport{StartedAt: s.now().UTC()}
	}
	report.RunID = runID
	lastStage := report.Stage

	// Notifications still go out when the run was cancelled.
	notifyCtx := context.WithoutCancel(ctx)
	report.Stage = domain.StageNotifying

	for _, failure := range report.Failures {
		s.sendFailure(notifyCtx, rowFailureMessage(failure))
	}
	if report.TriggerErr != nil {
		s.sendFailure(notifyCtx, fmt.Sprintf("Downstream procedure failed: %v", report.TriggerErr))
	}

	if runErr != nil {
		s.sendFailure(notifyCtx, runErr.Error())
	} else {
		s.sendSuccess(notifyCtx, report.Persisted)
	}

	report.Stage = domain.StageDone
	report.FinishedAt = s.now().UTC()

	if s.metrics != nil {
		s.metrics.ObserveRun(report, runErr)
		if err := s.metrics.Push(notifyCtx, s.pushURL); err != nil {
			s.LogError(ctx, err, "Failed to push metrics")
		}
	}

	if runErr != nil {
		s.LogError(ctx, runErr, "Forex import run failed", slog.String("stage", string(lastStage)))
	} else {
		s.LogInfo(ctx, "Forex import run completed",
			slog.Int("persisted", report.Persisted),
			slog.Int("skipped", report.Skipped),
			slog.Int("failed", len(report.Failures)),
			slog.Duration("duration", report.FinishedAt.Sub(report.StartedAt)))
	}
	return report, runErr
}

func (s *forexJobService) sendSuccess(ctx context.Context, processed int) {
	if err := s.notifier.SendSuccess(ctx, processed); err != nil {
		s.LogError(ctx, err, "Failed to send success notification")
		return
	}
	if s.metrics != nil {
		s.metrics.NotificationSent("success")
	}
}

func (s *forexJobService) sendFailure(ctx context.Context, message string) {
	if err := s.notifier.SendFailure(ctx, message); err != nil {
		s.LogError(ctx, err, "Failed to send failure notification")
		return
	}
	if s.metrics != nil {
		s.metrics.NotificationSent("failure")
	}
}

func rowFailureMessage(f domain.RowFailure) string {
	msg := fmt.Sprintf("Failed to save %s/%s for %d: %v", f.Key.BaseCode, f.Key.QuoteCode, f.Key.JulianDate, f.Err)
	if f.Partial {
		msg += " (only one of the two rows is stored)"
	}
	return msg
}
