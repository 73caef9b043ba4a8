package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/forex_import_job/internal/apperrors"
	"github.com/SscSPs/forex_import_job/internal/core/domain"
	portsrepo "github.com/SscSPs/forex_import_job/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/forex_import_job/internal/core/ports/services"
	"github.com/SscSPs/forex_import_job/internal/utils/erpformat"
)

// AuditSettings is the audit stamp written on every row.
type AuditSettings struct {
	User      string
	ProgramID string
	JobName   string
}

type exchangeRateImportService struct {
	BaseService
	feed  portssvc.RateFeedSvc
	repo  portsrepo.ExchangeRateRecordRepositoryFacade
	audit AuditSettings
	now   func() time.Time
}

// ImportServiceOption is a functional option for configuring the import service
type ImportServiceOption func(*exchangeRateImportService)

// WithImportClock overrides the clock used for report timestamps and the PXTDAY stamp.
func WithImportClock(now func() time.Time) ImportServiceOption {
	return func(s *exchangeRateImportService) {
		s.now = now
	}
}

// NewExchangeRateImportService creates the pipeline orchestrator.
func NewExchangeRateImportService(feed portssvc.RateFeedSvc, repo portsrepo.ExchangeRateRecordRepositoryFacade, audit AuditSettings, options ...ImportServiceOption) portssvc.ExchangeRateImportSvc {
	s := &exchangeRateImportService{
		feed:  feed,
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

// BuildRecordPair turns one observation into the record pair the ERP expects. The Julian date
// comes from the fetch time; PXTDAY is the local wall clock at build time, just before the save.
func (s *exchangeRateImportService) BuildRecordPair(obs domain.RateObservation) (domain.ExchangeRateRecordPair, error) {
	base, err := erpformat.NormalizeCurrency(obs.BaseCurrency)
	if err != nil {
		return domain.ExchangeRateRecordPair{}, err
	}
	quote, err := erpformat.NormalizeCurrency(obs.QuoteCurrency)
	if err != nil {
		return domain.ExchangeRateRecordPair{}, err
	}
	if !obs.Rate.IsPositive() {
		return domain.ExchangeRateRecordPair{}, apperrors.NewValidationError(
			fmt.Sprintf("rate for %s/%s must be positive, got %s", base, quote, obs.Rate.String()))
	}

	encoded := erpformat.EncodeRate(obs.Rate)
	reciprocal, err := erpformat.EncodeReciprocal(encoded)
	if err != nil {
		return domain.ExchangeRateRecordPair{}, err
	}

	return domain.ExchangeRateRecordPair{
		BaseCode:          base,
		QuoteCode:         quote,
		EncodedRate:       encoded,
		EncodedReciprocal: reciprocal,
		JulianDate:        erpformat.ToLegacyJulian(obs.FetchedAt),
		AuditFields: domain.AuditFields{
			User:      s.audit.User,
			ProgramID: s.audit.ProgramID,
			JobName:   s.audit.JobName,
			TimeOfDay: erpformat.TimeOfDay(s.now()),
		},
	}, nil
}

// ProcessObservations maps, encodes, checks and persists each observation in turn. A validation
// or existence-check error stops the run; pairs saved before it stay written.
func (s *exchangeRateImportService) ProcessObservations(ctx context.Context, report *domain.ImportReport, observations []domain.RateObservation) error {
	for _, obs := range observations {
		if err := ctx.Err(); err != nil {
			return err
		}

		report.Stage = domain.StageTransforming
		pair, err := s.BuildRecordPair(obs)
		if err != nil {
			s.LogError(ctx, err, "Invalid observation",
				slog.String("base", obs.BaseCurrency),
				slog.String("quote", obs.QuoteCurrency),
				slog.String("source_url", obs.SourceURL))
			return err
		}

		report.Stage = domain.StagePersisting
		key := pair.Key()
		keyAttrs := []any{
			slog.String("base", key.BaseCode),
			slog.String("quote", key.QuoteCode),
			slog.Int("julian_date", key.JulianDate),
			slog.String("date", erpformat.FromLegacyJulian(key.JulianDate).Format(time.DateOnly)),
		}

		exists, err := s.repo.RecordExists(ctx, key)
		if err != nil {
			s.LogError(ctx, err, "Existence check failed", keyAttrs...)
			return err
		}
		if exists {
			report.Skipped++
			s.LogDebug(ctx, "Record pair already stored, skipping", keyAttrs...)
			continue
		}

		if err := s.repo.SaveRecordPair(ctx, pair); err != nil {
			if !apperrors.IsRecoverable(err) {
				return err
			}
			failure := domain.RowFailure{Key: key, Err: err, Partial: s.isPartial(ctx, key)}
			report.Failures = append(report.Failures, failure)
			s.LogError(ctx, err, "Failed to save record pair", append(keyAttrs, slog.Bool("partial", failure.Partial))...)
			continue
		}

		report.Persisted++
		s.LogDebug(ctx, "Record pair saved", append(keyAttrs,
			slog.String("rate", pair.EncodedRate),
			slog.String("reciprocal", pair.EncodedReciprocal))...)
	}
	return nil
}

// isPartial reports whether exactly one of the two rows of key is stored.
// A failing check is logged and treated as not partial.
func (s *exchangeRateImportService) isPartial(ctx context.Context, key domain.RecordKey) bool {
	mirror, err := s.repo.RecordExists(ctx, key)
	if err != nil {
		s.LogError(ctx, err, "Partial-state check failed")
		return false
	}
	direct, err := s.repo.RecordExists(ctx, key.Reversed())
	if err != nil {
		s.LogError(ctx, err, "Partial-state check failed")
		return false
	}
	return mirror != direct
}

// Run executes Fetching, Transforming, Persisting and DownstreamTrigger. The returned report is
// never nil; on error it reflects the stage the run stopped in.
func (s *exchangeRateImportService) Run(ctx context.Context) (*domain.ImportReport, error) {
	report := &domain.ImportReport{
		StartedAt: s.now().UTC(),
		Stage:     domain.StageFetching,
	}

	observations, err := s.feed.FetchObservations(ctx)
	if err != nil {
		s.LogError(ctx, err, "Feed retrieval failed")
		return report, err
	}
	report.Observations = len(observations)
	s.LogInfo(ctx, "Feeds fetched", slog.Int("observations", report.Observations))

	if err := s.ProcessObservations(ctx, report, observations); err != nil {
		return report, err
	}

	report.Stage = domain.StageDownstreamTrigger
	if err := s.repo.TriggerDownstream(ctx); err != nil {
		report.TriggerErr = err
		s.LogWarn(ctx, "Downstream procedure failed, continuing", slog.String("error", err.Error()))
	} else {
		s.LogInfo(ctx, "Downstream procedure triggered")
	}

	s.LogInfo(ctx, "Import finished",
		slog.Int("persisted", report.Persisted),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", len(report.Failures)))
	return report, nil
}
