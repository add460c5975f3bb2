// Package metrics exports run results as Prometheus metrics.
//
// A Recorder is an engine.Observer with its own registry. After a run the
// registry is written in the text exposition format, ready for the
// node-exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/roach88/paramunit/internal/engine"
	"github.com/roach88/paramunit/internal/guardmem"
)

const Namespace = "paramunit"

// Recorder counts configurations, failures, tests and suites as they
// finish. Every series carries the run_id label.
type Recorder struct {
	engine.BaseObserver

	registry  *prometheus.Registry
	registrar prometheus.Registerer

	configurations *prometheus.CounterVec
	failures       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	tests          *prometheus.CounterVec
	suites         *prometheus.CounterVec
}

// NewRecorder creates a Recorder whose series are labelled with runID.
func NewRecorder(runID string) *Recorder {
	reg := prometheus.NewRegistry()
	wrapped := prometheus.WrapRegistererWith(prometheus.Labels{"run_id": runID}, reg)
	factory := promauto.With(wrapped)

	return &Recorder{
		registry:  reg,
		registrar: wrapped,
		configurations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "configurations_total",
			Help:      "Configurations run, by outcome",
		}, []string{"suite", "test", "outcome"}),
		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "failures_total",
			Help:      "Recorded failures, by phase",
		}, []string{"suite", "test", "phase"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "configuration_duration_seconds",
			Help:      "Wall time of one configuration, setup to teardown",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"suite", "test"}),
		tests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "tests_total",
			Help:      "Finished tests, by status",
		}, []string{"suite", "status"}),
		suites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "suites_total",
			Help:      "Finished suites, by status",
		}, []string{"status"}),
	}
}

// TrackAllocator exports the allocator's counters alongside the run
// metrics. The values are read at gather time.
func (r *Recorder) TrackAllocator(a *guardmem.Allocator) error {
	stat := func(pick func(guardmem.Stats) int64) func() float64 {
		return func() float64 { return float64(pick(a.Stats())) }
	}
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "allocator", Name: "allocations_total",
			Help: "Blocks handed out by the guarded allocator",
		}, stat(func(s guardmem.Stats) int64 { return s.Allocations })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "allocator", Name: "frees_total",
			Help: "Blocks released by the guarded allocator",
		}, stat(func(s guardmem.Stats) int64 { return s.Frees })),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: Namespace, Subsystem: "allocator", Name: "corruptions_total",
			Help: "Frees that detected out-of-bounds writes",
		}, stat(func(s guardmem.Stats) int64 { return s.Corruptions })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace, Subsystem: "allocator", Name: "live_blocks",
			Help: "Blocks allocated and not yet freed",
		}, stat(func(s guardmem.Stats) int64 { return s.LiveBlocks })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: Namespace, Subsystem: "allocator", Name: "live_bytes",
			Help: "Payload bytes allocated and not yet freed",
		}, stat(func(s guardmem.Stats) int64 { return s.LiveBytes })),
	}
	for _, c := range collectors {
		if err := r.registrar.Register(c); err != nil {
			return fmt.Errorf("register allocator metrics: %w", err)
		}
	}
	return nil
}

// Registry returns the registry holding the recorder's series.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) ConfigurationFinished(t *engine.Test, res engine.ConfigurationResult) {
	r.configurations.WithLabelValues(t.Suite(), t.Name(), res.Outcome.String()).Inc()
	r.duration.WithLabelValues(t.Suite(), t.Name()).Observe(res.Runtime.Seconds())
	for _, f := range res.Failures {
		r.failures.WithLabelValues(f.Suite, f.Test, f.Phase.String()).Inc()
	}
}

func (r *Recorder) TestFinished(t *engine.Test) {
	r.tests.WithLabelValues(t.Suite(), t.Status().String()).Inc()
}

func (r *Recorder) SuiteFinished(s *engine.Suite) {
	status := "passed"
	if s.Failed() {
		status = "failed"
	}
	r.suites.WithLabelValues(status).Inc()
}

// WriteTextfile writes every gathered series to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics to %s: %w", path, err)
	}
	return nil
}
