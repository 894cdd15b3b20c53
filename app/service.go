package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aguepe1/Fleet-Simulator/config"
	coremetrics "github.com/aguepe1/Fleet-Simulator/core/metrics"
	coremon "github.com/aguepe1/Fleet-Simulator/core/monitoring"
	"github.com/aguepe1/Fleet-Simulator/core/model"
	"github.com/aguepe1/Fleet-Simulator/core/runstore"
	"github.com/aguepe1/Fleet-Simulator/core/search"
	"github.com/aguepe1/Fleet-Simulator/core/trial"
	"github.com/aguepe1/Fleet-Simulator/infra/logger"
	_ "github.com/aguepe1/Fleet-Simulator/infra/metrics" // registers metrics sinks
	"github.com/aguepe1/Fleet-Simulator/infra/monitoring"
	"github.com/aguepe1/Fleet-Simulator/infra/mqtt"
	"github.com/aguepe1/Fleet-Simulator/internal/eventbus"
)

// Publisher forwards progress and results to an external broker.
type Publisher interface {
	Run(ctx context.Context, bus *eventbus.Latest[search.Progress])
	PublishResult(runID string, res model.SearchResult) error
	Close()
}

// Service orchestrates the trial runner, the search driver and the
// surrounding persistence, metrics and broadcast layers.
type Service struct {
	cfg    config.Config
	runner *trial.Runner
	store  runstore.RunStore
	sink   coremetrics.MetricsSink
	bus    *eventbus.Latest[search.Progress]
	pub    Publisher
	report coremon.Reporter
	log    logger.Logger
}

// Option customises a Service.
type Option func(*Service)

// WithStore replaces the configured run store.
func WithStore(s runstore.RunStore) Option {
	return func(svc *Service) { svc.store = s }
}

// WithMetricsSink replaces the configured metrics sinks.
func WithMetricsSink(s coremetrics.MetricsSink) Option {
	return func(svc *Service) { svc.sink = s }
}

// WithPublisher replaces the MQTT publisher.
func WithPublisher(p Publisher) Option {
	return func(svc *Service) { svc.pub = p }
}

// WithReporter replaces the configured error reporter.
func WithReporter(r coremon.Reporter) Option {
	return func(svc *Service) { svc.report = r }
}

// New creates a Service from the configuration. Components not supplied
// through options are built from their config sections.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	svc := &Service{
		cfg: *cfg,
		bus: eventbus.NewLatest[search.Progress](),
		log: logger.New("service"),
	}
	for _, o := range opts {
		o(svc)
	}

	runnerOpts := []trial.Option{
		trial.WithWorkers(cfg.Search.Workers),
		trial.WithLogger(logger.New("trial")),
	}
	if cfg.Search.Seed != 0 {
		runnerOpts = append(runnerOpts, trial.WithSeed(cfg.Search.Seed))
	}
	runner, err := trial.NewRunner(cfg.Simulation, runnerOpts...)
	if err != nil {
		return nil, err
	}
	svc.runner = runner

	if svc.store == nil {
		store, err := runstore.New(cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("run store: %w", err)
		}
		svc.store = store
	}
	if svc.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		svc.sink = sink
	}
	if svc.report == nil {
		rep, err := monitoring.NewSentryReporter(cfg.Monitoring)
		if err != nil {
			return nil, fmt.Errorf("error reporter: %w", err)
		}
		svc.report = rep
	}
	if svc.pub == nil && cfg.MQTT.Enabled {
		pub, err := mqtt.NewProgressPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.pub = pub
	}
	return svc, nil
}

// Config returns the configuration the service was built with.
func (s *Service) Config() config.Config { return s.cfg }

// Store returns the run store.
func (s *Service) Store() runstore.RunStore { return s.store }

// Progress returns the bus carrying the snapshots of the running search.
func (s *Service) Progress() *eventbus.Latest[search.Progress] { return s.bus }

// Search runs the reserve search, stores the finished run and publishes
// the result. A cancelled search is stored like any other terminal state.
func (s *Service) Search(ctx context.Context, onProgress search.ProgressFunc) (runstore.RunRecord, error) {
	runID := runstore.NewRunID()
	d, err := search.ForRunner(s.runner,
		search.WithMaxReserve(s.cfg.Search.MaxReserve),
		search.WithPerfectStreak(s.cfg.Search.PerfectStreak),
		search.WithLogger(logger.New("search")),
		search.WithMetrics(s.sink),
		search.WithRunID(runID),
	)
	if err != nil {
		return runstore.RunRecord{}, err
	}

	s.bus.Reset()
	var wg sync.WaitGroup
	pubCtx, stopPub := context.WithCancel(context.WithoutCancel(ctx))
	if s.pub != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.pub.Run(pubCtx, s.bus)
		}()
	}

	res, err := d.Run(ctx, func(p search.Progress) {
		s.bus.Publish(p)
		if onProgress != nil {
			onProgress(p)
		}
	})
	stopPub()
	wg.Wait()

	rec := runstore.NewRunRecord(runID, s.runner.Config(), res)
	if err != nil {
		s.report.CaptureException(err, map[string]string{"run_id": runID, "stage": "search"})
		return rec, err
	}
	if err := s.store.Append(context.WithoutCancel(ctx), rec); err != nil {
		s.report.CaptureException(err, map[string]string{"run_id": runID, "stage": "store"})
		return rec, fmt.Errorf("store run %s: %w", runID, err)
	}
	if s.pub != nil {
		if err := s.pub.PublishResult(runID, res); err != nil {
			s.log.Errorf("publish result: %v", err)
		}
	}
	s.log.Infof("run %s finished: state=%s minimum=%d perfect=%d", runID, res.State, res.MinimumReserve, res.PerfectReserve)
	return rec, nil
}

// Trial evaluates a single reserve size.
func (s *Service) Trial(ctx context.Context, reserve int) (model.TrialResult, error) {
	return s.runner.Run(ctx, reserve)
}

// Preview returns the distribution summaries of the configuration.
func (s *Service) Preview() (model.Distributions, error) {
	return search.Summarize(s.runner.Config())
}

// Runs queries stored runs.
func (s *Service) Runs(ctx context.Context, q runstore.RunQuery) ([]runstore.RunRecord, error) {
	return s.store.Query(ctx, q)
}

// Close releases the publisher, the bus, closable sinks and the store, and
// flushes pending error reports.
func (s *Service) Close() error {
	defer s.report.Flush(2 * time.Second)
	if s.pub != nil {
		s.pub.Close()
	}
	s.bus.Close()
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return s.store.Close()
}
