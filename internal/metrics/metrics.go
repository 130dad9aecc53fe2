// Package metrics collects per-run Prometheus metrics for the pipeline.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "user_news_etl"

// Metrics holds the collectors for one pipeline run on a private registry
type Metrics struct {
	registry *prometheus.Registry

	IdentifiersRead    prometheus.Counter
	UsersResolved      prometheus.Counter
	UsersMissing       prometheus.Counter
	MessagesGenerated  prometheus.Counter
	GenerationFailures prometheus.Counter
	CacheSeeded        prometheus.Gauge
	RunDuration        prometheus.Gauge
	LastSuccess        prometheus.Gauge
}

// New creates and registers the run collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		IdentifiersRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "identifiers_read_total",
			Help:      "Identifiers read from the input file.",
		}),
		UsersResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_resolved_total",
			Help:      "Identifiers that matched a cached record.",
		}),
		UsersMissing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "users_missing_total",
			Help:      "Identifiers with no cached record.",
		}),
		MessagesGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_generated_total",
			Help:      "Marketing messages generated and appended.",
		}),
		GenerationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_failures_total",
			Help:      "Failed calls to the generative-text service.",
		}),
		CacheSeeded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cache_seeded",
			Help:      "1 if this run bootstrapped the cache from the seed endpoint.",
		}),
		RunDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
	}

	m.registry.MustRegister(
		m.IdentifiersRead,
		m.UsersResolved,
		m.UsersMissing,
		m.MessagesGenerated,
		m.GenerationFailures,
		m.CacheSeeded,
		m.RunDuration,
		m.LastSuccess,
	)
	return m
}

// Registry exposes the underlying registry, e.g. for tests or an HTTP handler
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRun records the duration and, on success, the completion time
func (m *Metrics) ObserveRun(start time.Time, success bool) {
	m.RunDuration.Set(time.Since(start).Seconds())
	if success {
		m.LastSuccess.SetToCurrentTime()
	}
}

// WriteTextfile writes all metrics in the text exposition format, for the
// node exporter textfile collector
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
