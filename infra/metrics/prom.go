package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/aguepe1/Fleet-Simulator/core/metrics"
)

// PromSink exposes trial and search outcomes as Prometheus metrics.
type PromSink struct {
	trials    *prometheus.CounterVec
	level     *prometheus.GaugeVec
	shortfall prometheus.Counter
	duration  prometheus.Histogram
	searches  *prometheus.CounterVec
	minimum   prometheus.Gauge
	perfect   prometheus.Gauge
}

// NewPromSink registers search metrics on the default Prometheus registerer.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered under the same name are reused.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	cfg.SetDefaults()
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := cfg.Namespace
	s := &PromSink{
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "trials_total",
			Help:      "Number of evaluated reserve sizes",
		}, []string{"perfect"}),
		level: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "trial_service_level",
			Help:      "Latest estimated service level per reserve size",
		}, []string{"reserve"}),
		shortfall: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "shortfall_hours_total",
			Help:      "Demand hours not covered across all simulated trials",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "trial_duration_seconds",
			Help:      "Wall time of one trial",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "searches_total",
			Help:      "Finished searches by terminal state",
		}, []string{"state"}),
		minimum: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "minimum_reserve",
			Help:      "Minimum reserve of the last finished search, -1 when not found",
		}),
		perfect: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "perfect_reserve",
			Help:      "Perfect reserve of the last finished search, -1 when not found",
		}),
	}
	var err error
	if s.trials, err = register(reg, s.trials); err != nil {
		return nil, err
	}
	if s.level, err = register(reg, s.level); err != nil {
		return nil, err
	}
	if s.shortfall, err = register(reg, s.shortfall); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	if s.searches, err = register(reg, s.searches); err != nil {
		return nil, err
	}
	if s.minimum, err = register(reg, s.minimum); err != nil {
		return nil, err
	}
	if s.perfect, err = register(reg, s.perfect); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordTrial updates the trial counters and the per-reserve level gauge.
func (s *PromSink) RecordTrial(ev coremetrics.TrialEvent) error {
	s.trials.WithLabelValues(strconv.FormatBool(ev.ServiceLevel >= 1)).Inc()
	s.level.WithLabelValues(strconv.Itoa(ev.Reserve)).Set(ev.ServiceLevel)
	s.shortfall.Add(float64(ev.ShortfallHours))
	s.duration.Observe(ev.Duration.Seconds())
	return nil
}

// RecordSearch counts the finished search and exposes its verdict.
func (s *PromSink) RecordSearch(ev coremetrics.SearchEvent) error {
	s.searches.WithLabelValues(ev.State).Inc()
	s.minimum.Set(float64(ev.MinimumReserve))
	s.perfect.Set(float64(ev.PerfectReserve))
	return nil
}
