// Package telemetry exposes dashboard fetch and cache metrics to Prometheus.
package telemetry

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/abdulachik/dashboard/internal/dashboard"
)

// Collector receives fetch, round and cache events.
type Collector interface {
	dashboard.Recorder
	dashboard.RoundRecorder
	dashboard.CacheRecorder
}

type noopCollector struct{}

// Noop returns a collector that discards all metrics.
func Noop() Collector {
	return noopCollector{}
}

func (noopCollector) RecordFetch(dashboard.Slot, time.Duration, error) {}
func (noopCollector) RecordRound(time.Duration, int)                   {}
func (noopCollector) RecordCache(bool)                                 {}

// PrometheusCollector records events as Prometheus metrics.
type PrometheusCollector struct {
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	rounds        prometheus.Histogram
	unavailable   prometheus.Gauge
	cacheLookups  *prometheus.CounterVec
}

// NewPrometheusCollector registers the metrics with reg, reusing any that are
// already registered.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	fetches, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_fetch_total",
		Help: "Vendor fetches per snapshot slot and outcome.",
	}, []string{"slot", "outcome"}))
	if err != nil {
		return nil, err
	}

	fetchDuration, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "dashboard_fetch_duration_seconds",
		Help:    "Time spent fetching each snapshot slot.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 180},
	}, []string{"slot"}))
	if err != nil {
		return nil, err
	}

	rounds, err := register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "dashboard_round_duration_seconds",
		Help:    "Wall time of a complete fetch round.",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
	}))
	if err != nil {
		return nil, err
	}

	unavailable, err := register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dashboard_round_unavailable_slots",
		Help: "Number of unavailable slots in the most recent round.",
	}))
	if err != nil {
		return nil, err
	}

	cacheLookups, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_cache_lookups_total",
		Help: "Snapshot cache lookups by result.",
	}, []string{"result"}))
	if err != nil {
		return nil, err
	}

	return &PrometheusCollector{
		fetches:       fetches,
		fetchDuration: fetchDuration,
		rounds:        rounds,
		unavailable:   unavailable,
		cacheLookups:  cacheLookups,
	}, nil
}

// register adds c to reg or returns the collector registered before it.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		var zero T
		return zero, err
	}
	return c, nil
}

// RecordFetch counts a fetch and observes its duration.
func (p *PrometheusCollector) RecordFetch(slot dashboard.Slot, elapsed time.Duration, err error) {
	if p == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.fetches.WithLabelValues(string(slot), outcome).Inc()
	p.fetchDuration.WithLabelValues(string(slot)).Observe(elapsed.Seconds())
}

// RecordRound observes a finished round.
func (p *PrometheusCollector) RecordRound(elapsed time.Duration, unavailable int) {
	if p == nil {
		return
	}
	p.rounds.Observe(elapsed.Seconds())
	p.unavailable.Set(float64(unavailable))
}

// RecordCache counts a cache lookup.
func (p *PrometheusCollector) RecordCache(hit bool) {
	if p == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	p.cacheLookups.WithLabelValues(result).Inc()
}
