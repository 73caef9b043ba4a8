// Package metrics exposes per-run job metrics and pushes them to a Prometheus Pushgateway.
package metrics

import (
	"context"
	"fmt"

	"github.com/SscSPs/forex_import_job/internal/apperrors"
	"github.com/SscSPs/forex_import_job/internal/core/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"
)

const jobName = "forex_import_job"

// JobMetrics holds the collectors of one process. Each process runs one job, so a private
// registry is pushed as a whole.
type JobMetrics struct {
	registry *prometheus.Registry

	ObservationsTotal   prometheus.Counter
	RecordsTotal        *prometheus.CounterVec
	NotificationsTotal  *prometheus.CounterVec
	RunDurationSeconds  prometheus.Gauge
	LastRunSuccess      prometheus.Gauge
	LastSuccessUnixTime prometheus.Gauge
	RunFailuresTotal    *prometheus.CounterVec
}

// NewJobMetrics creates the collectors on a fresh registry.
func NewJobMetrics() *JobMetrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &JobMetrics{
		registry: reg,

		ObservationsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "forex_observations_total",
			Help: "Rate observations fetched from the feeds",
		}),
		RecordsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "forex_record_pairs_total",
			Help: "Record pairs by outcome",
		}, []string{"outcome"}),
		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "forex_notifications_total",
			Help: "Notifications sent by kind",
		}, []string{"kind"}),
		RunDurationSeconds: factory.NewGauge(prometheus.GaugeOpts{
			Name: "forex_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		LastRunSuccess: factory.NewGauge(prometheus.GaugeOpts{
			Name: "forex_last_run_success",
			Help: "1 if the last run completed, 0 if it aborted",
		}),
		LastSuccessUnixTime: factory.NewGauge(prometheus.GaugeOpts{
			Name: "forex_last_success_timestamp_seconds",
			Help: "Unix time of the last completed run",
		}),
		RunFailuresTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "forex_run_failures_total",
			Help: "Aborted runs by error kind",
		}, []string{"kind"}),
	}
}

// ObserveRun records the outcome of a run. runErr is nil for a completed run.
func (m *JobMetrics) ObserveRun(report *domain.ImportReport, runErr error) {
	if report != nil {
		m.ObservationsTotal.Add(float64(report.Observations))
		m.RecordsTotal.WithLabelValues("persisted").Add(float64(report.Persisted))
		m.RecordsTotal.WithLabelValues("skipped").Add(float64(report.Skipped))
		m.RecordsTotal.WithLabelValues("failed").Add(float64(len(report.Failures)))
		if !report.FinishedAt.IsZero() {
			m.RunDurationSeconds.Set(report.FinishedAt.Sub(report.StartedAt).Seconds())
		}
	}

	if runErr != nil {
		m.LastRunSuccess.Set(0)
		m.RunFailuresTotal.WithLabelValues(kindLabel(runErr)).Inc()
		return
	}
	m.LastRunSuccess.Set(1)
	if report != nil && !report.FinishedAt.IsZero() {
		m.LastSuccessUnixTime.Set(float64(report.FinishedAt.Unix()))
	}
}

// NotificationSent counts one notification of the given kind (success, failure).
func (m *JobMetrics) NotificationSent(kind string) {
	m.NotificationsTotal.WithLabelValues(kind).Inc()
}

// Push sends every collector to the Pushgateway at url. An empty url is a no-op.
func (m *JobMetrics) Push(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	if err := push.New(url, jobName).Gatherer(m.registry).PushContext(ctx); err != nil {
		return fmt.Errorf("failed to push metrics to %s: %w", url, err)
	}
	return nil
}

func kindLabel(err error) string {
	switch apperrors.KindOf(err) {
	case apperrors.ErrFetch:
		return "fetch"
	case apperrors.ErrPayload:
		return "payload"
	case apperrors.ErrPersistence:
		return "persistence"
	case apperrors.ErrValidation:
		return "validation"
	default:
		return "unexpected"
	}
}
