package services_test

import (
	"context"

	"github.com/SscSPs/forex_import_job/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// --- Mock RateFeedSvc ---
type MockRateFeed struct {
	mock.Mock
}

func (m *MockRateFeed) FetchObservations(ctx context.Context) ([]domain.RateObservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateObservation), args.Error(1)
}

// --- Mock ExchangeRateRecordRepositoryFacade ---
type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) RecordExists(ctx context.Context, key domain.RecordKey) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordRepository) SaveRecordPair(ctx context.Context, pair domain.ExchangeRateRecordPair) error {
	args := m.Called(ctx, pair)
	return args.Error(0)
}

func (m *MockRecordRepository) TriggerDownstream(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// --- Mock NotificationSvc ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendSuccess(ctx context.Context, processed int) error {
	args := m.Called(ctx, processed)
	return args.Error(0)
}

func (m *MockNotifier) SendFailure(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// --- Mock ExchangeRateImportSvc ---
type MockImporter struct {
	mock.Mock
}

func (m *MockImporter) BuildRecordPair(obs domain.RateObservation) (domain.ExchangeRateRecordPair, error) {
	args := m.Called(obs)
	return args.Get(0).(domain.ExchangeRateRecordPair), args.Error(1)
}

func (m *MockImporter) ProcessObservations(ctx context.Context, report *domain.ImportReport, observations []domain.RateObservation) error {
	args := m.Called(ctx, report, observations)
	return args.Error(0)
}

func (m *MockImporter) Run(ctx context.Context) (*domain.ImportReport, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ImportReport), args.Error(1)
}
