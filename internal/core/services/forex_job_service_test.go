package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/forex_import_job/internal/apperrors"
	"github.com/SscSPs/forex_import_job/internal/core/domain"
	portssvc "github.com/SscSPs/forex_import_job/internal/core/ports/services"
	"github.com/SscSPs/forex_import_job/internal/core/services"
	"github.com/SscSPs/forex_import_job/internal/logging"
	"github.com/SscSPs/forex_import_job/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type JobServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	mockImporter *MockImporter
	mockNotifier *MockNotifier
	jobMetrics   *metrics.JobMetrics
	service      portssvc.ForexJobSvc
}

func (suite *JobServiceTestSuite) SetupTest() {
	suite.ctx = context.Background()
	suite.mockImporter = new(MockImporter)
	suite.mockNotifier = new(MockNotifier)
	suite.jobMetrics = metrics.NewJobMetrics()
	suite.service = services.NewForexJobService(
		suite.mockImporter,
		suite.mockNotifier,
		slog.New(slog.NewJSONHandler(io.Discard, nil)),
		services.WithJobMetrics(suite.jobMetrics, ""),
		services.WithJobClock(func() time.Time { return fetchedAt.Add(2 * time.Second) }),
	)
}

func (suite *JobServiceTestSuite) TearDownTest() {
	suite.mockImporter.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func TestJobServiceTestSuite(t *testing.T) {
	suite.Run(t, new(JobServiceTestSuite))
}

func (suite *JobServiceTestSuite) TestExecute_SuccessSummary() {
	suite.mockImporter.On("Run", mock.Anything).Return(&domain.ImportReport{
		StartedAt:    fetchedAt,
		Stage:        domain.StageDownstreamTrigger,
		Observations: 5,
		Persisted:    3,
		Skipped:      2,
	}, nil).Once()
	suite.mockNotifier.On("SendSuccess", mock.Anything, 3).Return(nil).Once()

	report, err := suite.service.Execute(suite.ctx)

	suite.Require().NoError(err)
	suite.NotEmpty(report.RunID)
	suite.Equal(domain.StageDone, report.Stage)
	suite.Equal(fetchedAt.Add(2*time.Second), report.FinishedAt)
	suite.mockNotifier.AssertNotCalled(suite.T(), "SendFailure", mock.Anything, mock.Anything)

	suite.Equal(1.0, testutil.ToFloat64(suite.jobMetrics.LastRunSuccess))
	suite.Equal(3.0, testutil.ToFloat64(suite.jobMetrics.RecordsTotal.WithLabelValues("persisted")))
	suite.Equal(1.0, testutil.ToFloat64(suite.jobMetrics.NotificationsTotal.WithLabelValues("success")))
}

func (suite *JobServiceTestSuite) TestExecute_RunScopedLogger() {
	suite.mockImporter.On("Run", mock.MatchedBy(func(ctx context.Context) bool {
		return logging.GetLoggerFromCtx(ctx) != nil
	})).Return(&domain.ImportReport{}, nil).Once()
	suite.mockNotifier.On("SendSuccess", mock.Anything, 0).Return(nil).Once()

	_, err := suite.service.Execute(suite.ctx)
	suite.NoError(err)
}

func (suite *JobServiceTestSuite) TestExecute_RowFailuresThenSuccess() {
	rowErr := apperrors.NewPersistenceError("failed to insert record pair USD/EUR", errors.New("deadlock"))
	suite.mockImporter.On("Run", mock.Anything).Return(&domain.ImportReport{
		StartedAt: fetchedAt,
		Persisted: 4,
		Failures: []domain.RowFailure{
			{Key: key("USD", "EUR"), Err: rowErr},
			{Key: key("USD", "GBP"), Err: rowErr, Partial: true},
		},
	}, nil).Once()

	var messages []string
	suite.mockNotifier.On("SendFailure", mock.Anything, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { messages = append(messages, args.String(1)) }).
		Return(nil).Twice()
	suite.mockNotifier.On("SendSuccess", mock.Anything, 4).Return(nil).Once()

	report, err := suite.service.Execute(suite.ctx)

	suite.Require().NoError(err)
	suite.Len(report.Failures, 2)
	suite.Require().Len(messages, 2)
	suite.Contains(messages[0], "USD/EUR")
	suite.Contains(messages[0], "deadlock")
	suite.NotContains(messages[0], "only one of the two rows")
	suite.Contains(messages[1], "USD/GBP")
	suite.Contains(messages[1], "only one of the two rows")
	suite.Equal(2.0, testutil.ToFloat64(suite.jobMetrics.NotificationsTotal.WithLabelValues("failure")))
}

func (suite *JobServiceTestSuite) TestExecute_TriggerFailureNotifiedSeparately() {
	suite.mockImporter.On("Run", mock.Anything).Return(&domain.ImportReport{
		Persisted:  1,
		TriggerErr: errors.New("procedure not found"),
	}, nil).Once()
	suite.mockNotifier.On("SendFailure", mock.Anything, "Downstream procedure failed: procedure not found").Return(nil).Once()
	suite.mockNotifier.On("SendSuccess", mock.Anything, 1).Return(nil).Once()

	_, err := suite.service.Execute(suite.ctx)
	suite.NoError(err)
}

func (suite *JobServiceTestSuite) TestExecute_AbortedRunSendsSingleFailure() {
	fetchErr := apperrors.NewFetchError("GET https://feed.example.com returned status 503", nil)
	suite.mockImporter.On("Run", mock.Anything).Return(&domain.ImportReport{
		StartedAt: fetchedAt,
		Stage:     domain.StageFetching,
	}, fetchErr).Once()
	suite.mockNotifier.On("SendFailure", mock.Anything, fetchErr.Error()).Return(nil).Once()

	report, err := suite.service.Execute(suite.ctx)

	suite.ErrorIs(err, apperrors.ErrFetch)
	suite.Equal(domain.StageDone, report.Stage)
	suite.mockNotifier.AssertNotCalled(suite.T(), "SendSuccess", mock.Anything, mock.Anything)
	suite.Equal(0.0, testutil.ToFloat64(suite.jobMetrics.LastRunSuccess))
	suite.Equal(1.0, testutil.ToFloat64(suite.jobMetrics.RunFailuresTotal.WithLabelValues("fetch")))
}

func (suite *JobServiceTestSuite) TestExecute_NotificationErrorDoesNotFailRun() {
	suite.mockImporter.On("Run", mock.Anything).Return(&domain.ImportReport{Persisted: 2}, nil).Once()
	suite.mockNotifier.On("SendSuccess", mock.Anything, 2).Return(errors.New("relay down")).Once()

	_, err := suite.service.Execute(suite.ctx)

	suite.NoError(err)
	suite.Equal(0.0, testutil.ToFloat64(suite.jobMetrics.NotificationsTotal.WithLabelValues("success")))
}

func (suite *JobServiceTestSuite) TestExecute_NotifiesAfterCancellation() {
	ctx, cancel := context.WithCancel(suite.ctx)
	cancel()

	suite.mockImporter.On("Run", mock.Anything).Return(&domain.ImportReport{}, context.Canceled).Once()
	suite.mockNotifier.On("SendFailure", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), mock.MatchedBy(func(msg string) bool {
		return strings.Contains(msg, "canceled")
	})).Return(nil).Once()

	_, err := suite.service.Execute(ctx)
	suite.ErrorIs(err, context.Canceled)
}
