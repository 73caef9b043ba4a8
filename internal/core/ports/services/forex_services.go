package services

import (
	"context"

	"github.com/SscSPs/forex_import_job/internal/core/domain"
)

// RateFeedSvc retrieves rate observations from the configured feeds
type RateFeedSvc interface {
	// FetchObservations fetches every feed concurrently and flattens them into observations.
	// Any single feed failure fails the whole call.
	FetchObservations(ctx context.Context) ([]domain.RateObservation, error)
}

// ExchangeRateImportSvc transforms observations and persists them as record pairs
type ExchangeRateImportSvc interface {
	// BuildRecordPair maps codes, encodes the rates and computes the Julian date.
	BuildRecordPair(obs domain.RateObservation) (domain.ExchangeRateRecordPair, error)

	// ProcessObservations persists observations one at a time and collects per-row outcomes.
	ProcessObservations(ctx context.Context, report *domain.ImportReport, observations []domain.RateObservation) error

	// Run fetches, transforms, persists and triggers downstream processing.
	Run(ctx context.Context) (*domain.ImportReport, error)
}

// NotificationSvc delivers the operator notifications of a run
type NotificationSvc interface {
	// SendSuccess sends the end-of-run summary with the number of processed exchange rates.
	SendSuccess(ctx context.Context, processed int) error

	// SendFailure sends a failure notification carrying the raw error message.
	SendFailure(ctx context.Context, message string) error
}

// ForexJobSvc executes one complete daily run, notifications included
type ForexJobSvc interface {
	Execute(ctx context.Context) (*domain.ImportReport, error)
}
