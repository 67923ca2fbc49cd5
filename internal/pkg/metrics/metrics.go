// Package metrics keeps apply counters on a private Prometheus registry and
// writes them in the node-exporter textfile format.
//
// Every CLI run is a new process, so the counters are seeded from the
// textfile the previous run wrote (see Restore) and keep growing across runs.
package metrics

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"netprofiler/internal/types"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

const (
	applyTotalName         = "netprofiler_apply_total"
	rollbackTotalName      = "netprofiler_rollback_total"
	lastApplyTimestampName = "netprofiler_last_apply_timestamp_seconds"
	lastApplyDurationName  = "netprofiler_last_apply_duration_seconds"
	lastVerifyAttemptsName = "netprofiler_last_verify_attempts"
)

// Metrics holds the apply collectors.
type Metrics struct {
	registry *prometheus.Registry

	ApplyTotal         *prometheus.CounterVec
	RollbackTotal      *prometheus.CounterVec
	LastApplyTimestamp *prometheus.GaugeVec
	LastApplyDuration  prometheus.Gauge
	LastVerifyAttempts prometheus.Gauge
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ApplyTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: applyTotalName,
				Help: "Total number of apply and revert operations by outcome",
			},
			[]string{"outcome"}, // applied, rolled_back, failed
		),
		RollbackTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: rollbackTotalName,
				Help: "Total number of rollbacks by result",
			},
			[]string{"result"}, // succeeded, failed
		),
		LastApplyTimestamp: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: lastApplyTimestampName,
				Help: "Unix time at which the last operation with this outcome finished",
			},
			[]string{"outcome"},
		),
		LastApplyDuration: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: lastApplyDurationName,
				Help: "Time spent in the last apply operation, verification and rollback included",
			},
		),
		LastVerifyAttempts: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: lastVerifyAttemptsName,
				Help: "Verification reads the last apply needed before it settled",
			},
		),
	}
}

// Observe records one finished operation.
func (m *Metrics) Observe(result *types.ApplyResult) {
	if result == nil {
		return
	}

	finished := result.FinishedAt
	if finished.IsZero() {
		finished = time.Now()
	}
	m.ApplyTotal.WithLabelValues(string(result.Outcome)).Inc()
	m.LastApplyTimestamp.WithLabelValues(string(result.Outcome)).Set(float64(finished.Unix()))
	if !result.StartedAt.IsZero() && !result.FinishedAt.IsZero() {
		m.LastApplyDuration.Set(result.Duration().Seconds())
	}
	m.LastVerifyAttempts.Set(float64(result.VerifyAttempts))

	if result.RollbackAttempted {
		status := "failed"
		if result.RollbackSucceeded {
			status = "succeeded"
		}
		m.RollbackTotal.WithLabelValues(status).Inc()
	}
}

// Restore seeds the collectors from a textfile written by an earlier run.
// Counters continue from their previous values and gauges keep the last
// observation until a new one replaces it. A missing file is not an error.
func (m *Metrics) Restore(path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read metrics textfile %s: %w", path, err)
	}
	defer f.Close()

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(f)
	if err != nil {
		return fmt.Errorf("failed to parse metrics textfile %s: %w", path, err)
	}

	for name, family := range families {
		for _, metric := range family.GetMetric() {
			m.restore(name, metric)
		}
	}
	return nil
}

func (m *Metrics) restore(name string, metric *dto.Metric) {
	switch name {
	case applyTotalName:
		if v := metric.GetCounter().GetValue(); v > 0 {
			m.ApplyTotal.WithLabelValues(labelValue(metric, "outcome")).Add(v)
		}
	case rollbackTotalName:
		if v := metric.GetCounter().GetValue(); v > 0 {
			m.RollbackTotal.WithLabelValues(labelValue(metric, "result")).Add(v)
		}
	case lastApplyTimestampName:
		m.LastApplyTimestamp.WithLabelValues(labelValue(metric, "outcome")).Set(metric.GetGauge().GetValue())
	case lastApplyDurationName:
		m.LastApplyDuration.Set(metric.GetGauge().GetValue())
	case lastVerifyAttemptsName:
		m.LastVerifyAttempts.Set(metric.GetGauge().GetValue())
	}
}

func labelValue(metric *dto.Metric, name string) string {
	for _, pair := range metric.GetLabel() {
		if pair.GetName() == name {
			return pair.GetValue()
		}
	}
	return ""
}

// Registry exposes the private registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes all collectors to path. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile %s: %w", path, err)
	}
	return nil
}
