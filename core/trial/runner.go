package trial

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aguepe1/Fleet-Simulator/core/fleet"
	"github.com/aguepe1/Fleet-Simulator/core/logger"
	"github.com/aguepe1/Fleet-Simulator/core/model"
)

// Runner estimates the service level of one reserve size by Monte Carlo
// simulation. A Runner is safe for concurrent use; every run owns its
// private fleet state and random stream.
type Runner struct {
	cfg     model.SimulationConfig
	params  fleet.Params
	workers int
	seed    uint64
	log     logger.Logger
	now     func() time.Time
}

// Option customises a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of repetitions simulated in parallel.
// Values below one select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

// WithSeed fixes the base seed. Equal seeds give equal results for the same
// configuration and reserve, whatever the worker count.
func WithSeed(seed uint64) Option {
	return func(r *Runner) { r.seed = seed }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) { r.log = logger.OrNop(l) }
}

// NewRunner validates cfg and derives the simulation parameters once.
func NewRunner(cfg model.SimulationConfig, opts ...Option) (*Runner, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params, err := fleet.NewParams(cfg)
	if err != nil {
		return nil, fmt.Errorf("fleet params: %w", err)
	}
	r := &Runner{
		cfg:    cfg,
		params: params,
		seed:   uint64(time.Now().UnixNano()),
		log:    logger.NopLogger{},
		now:    time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	if r.workers < 1 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	if r.cfg.AgeReset == model.AgeResetOnRepairExit {
		r.log.Warnf("age reset on repair exit selected: unit ages accumulate across operating days")
	}
	return r, nil
}

// Config returns the validated configuration.
func (r *Runner) Config() model.SimulationConfig { return r.cfg }

// Params returns the derived simulation parameters.
func (r *Runner) Params() fleet.Params { return r.params }

// Run simulates every repetition for the given reserve size. The context is
// checked before each repetition; if any repetition did not run the trial
// reports ctx.Err() and no partial estimate.
func (r *Runner) Run(ctx context.Context, reserve int) (model.TrialResult, error) {
	if reserve < 0 {
		return model.TrialResult{}, fmt.Errorf("reserve must not be negative, got %d", reserve)
	}
	start := r.now()
	size := r.cfg.FleetSize(reserve)

	var shortfall atomic.Int64
	var completed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for rep := 0; rep < r.cfg.Simulations; rep++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			shortfall.Add(r.simulate(size, r.stream(reserve, rep)))
			completed.Add(1)
			return nil
		})
	}
	err := g.Wait()
	if err == nil && completed.Load() != int64(r.cfg.Simulations) {
		err = ctx.Err()
	}
	if err != nil {
		r.log.Debugw("trial cancelled", map[string]any{"reserve": reserve, "completed": completed.Load()})
		return model.TrialResult{}, err
	}

	total := r.cfg.TotalHours()
	res := model.TrialResult{
		Reserve:        reserve,
		ShortfallHours: shortfall.Load(),
		TotalHours:     total,
		ServiceLevel:   model.ServiceLevel(shortfall.Load(), total),
		Duration:       r.now().Sub(start),
	}
	r.log.Debugw("trial complete", map[string]any{
		"reserve":         reserve,
		"shortfall_hours": res.ShortfallHours,
		"service_level":   res.ServiceLevel,
	})
	return res, nil
}

// Evaluate implements search.Evaluator.
func (r *Runner) Evaluate(ctx context.Context, reserve int) (model.TrialResult, error) {
	return r.Run(ctx, reserve)
}

// stream returns an independent generator for one repetition of one
// reserve size.
func (r *Runner) stream(reserve, rep int) *rand.Rand {
	return rand.New(rand.NewPCG(r.seed, uint64(reserve)<<32|uint64(uint32(rep))))
}

// simulate runs one repetition and returns its shortfall hours.
func (r *Runner) simulate(size int, rng *rand.Rand) int64 {
	f := fleet.New(size, r.params, rng)
	var missed int64
	for day := 0; day < r.cfg.DaysPerSimulation; day++ {
		available := f.AdvanceDay()
		for _, demand := range r.cfg.HourlyDemand {
			if available < demand {
				missed++
			}
		}
	}
	return missed
}
