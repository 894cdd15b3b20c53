package search

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/aguepe1/Fleet-Simulator/core/logger"
	"github.com/aguepe1/Fleet-Simulator/core/metrics"
	"github.com/aguepe1/Fleet-Simulator/core/model"
	"github.com/aguepe1/Fleet-Simulator/core/trial"
)

// DefaultPerfectStreak is the number of consecutive 100% trials that
// defines the perfect fleet.
const DefaultPerfectStreak = 3

// Evaluator estimates the service level of one reserve size.
type Evaluator interface {
	Evaluate(ctx context.Context, reserve int) (model.TrialResult, error)
}

// EvaluatorFunc adapts a function to Evaluator.
type EvaluatorFunc func(ctx context.Context, reserve int) (model.TrialResult, error)

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(ctx context.Context, reserve int) (model.TrialResult, error) {
	return f(ctx, reserve)
}

// Progress is the snapshot delivered after every trial. Slices are copies
// owned by the receiver.
type Progress struct {
	RunID          string               `json:"run_id,omitempty"`
	State          model.SearchState    `json:"state"`
	Latest         model.HistoryPoint   `json:"latest"`
	History        []model.HistoryPoint `json:"history"`
	Log            []string             `json:"log"`
	MinimumReserve int                  `json:"minimum_reserve"`
	Streak         int                  `json:"streak"`
}

// ProgressFunc receives progress snapshots. It runs on the search goroutine.
type ProgressFunc func(Progress)

// Driver runs the incremental reserve search.
type Driver struct {
	eval       Evaluator
	target     float64
	maxReserve int
	streakGoal int
	runID      string
	dists      model.Distributions
	log        logger.Logger
	sink       metrics.MetricsSink
	now        func() time.Time
}

// Option customises a Driver.
type Option func(*Driver)

// WithMaxReserve bounds the search. Zero leaves it unbounded.
func WithMaxReserve(n int) Option {
	return func(d *Driver) { d.maxReserve = n }
}

// WithPerfectStreak sets how many consecutive 100% trials end the search.
func WithPerfectStreak(n int) Option {
	return func(d *Driver) { d.streakGoal = n }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Driver) { d.log = logger.OrNop(l) }
}

// WithMetrics sets the metrics sink.
func WithMetrics(s metrics.MetricsSink) Option {
	return func(d *Driver) {
		if s != nil {
			d.sink = s
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// WithRunID tags progress, metrics and the result with an identifier.
func WithRunID(id string) Option {
	return func(d *Driver) { d.runID = id }
}

// WithDistributions attaches distribution summaries to every result.
func WithDistributions(ds model.Distributions) Option {
	return func(d *Driver) { d.dists = ds }
}

// NewDriver returns a driver searching for the smallest reserve whose
// service level reaches target.
func NewDriver(eval Evaluator, target float64, opts ...Option) (*Driver, error) {
	if eval == nil {
		return nil, errors.New("search: nil evaluator")
	}
	if target < 0 || target > 1 {
		return nil, fmt.Errorf("search: target %v outside [0,1]", target)
	}
	d := &Driver{
		eval:       eval,
		target:     target,
		streakGoal: DefaultPerfectStreak,
		log:        logger.NopLogger{},
		sink:       metrics.NopSink{},
		now:        time.Now,
	}
	for _, o := range opts {
		o(d)
	}
	if d.streakGoal < 1 {
		return nil, fmt.Errorf("search: perfect streak must be positive, got %d", d.streakGoal)
	}
	if d.maxReserve < 0 {
		return nil, fmt.Errorf("search: max reserve must not be negative, got %d", d.maxReserve)
	}
	return d, nil
}

// ForRunner builds a driver over a trial runner, taking the target from the
// runner's configuration and attaching its distribution summaries.
func ForRunner(r *trial.Runner, opts ...Option) (*Driver, error) {
	ds, err := Summarize(r.Config())
	if err != nil {
		return nil, err
	}
	return NewDriver(r, r.Config().TargetServiceLevel, append([]Option{WithDistributions(ds)}, opts...)...)
}

// Run executes the search until the perfect fleet is found, the bound is
// reached or ctx is cancelled. Cancellation is a terminal state, not an
// error: the partial result is returned with a nil error. Other evaluator
// failures, including context errors while ctx is still live, are returned
// together with the partial result.
func (d *Driver) Run(ctx context.Context, onProgress ProgressFunc) (model.SearchResult, error) {
	res := model.SearchResult{
		State:          model.StateSearchingMinimum,
		MinimumReserve: model.NotFound,
		PerfectReserve: model.NotFound,
		History:        []model.HistoryPoint{},
		Distributions:  d.dists,
		StartedAt:      d.now(),
	}
	var tr transcript
	tr.header(d.target, d.streakGoal)
	d.log.Infof("search started: target=%.4f max_reserve=%d", d.target, d.maxReserve)

	finish := func(state model.SearchState) model.SearchResult {
		res.State = state
		res.FinishedAt = d.now()
		res.Log = tr.snapshot()
		d.recordSearch(res)
		return res
	}

	streak := 0
	for reserve := 0; ; reserve++ {
		if ctx.Err() != nil {
			tr.stopped()
			d.log.Infof("search cancelled before reserve %d", reserve)
			return finish(model.StateCancelled), nil
		}

		start := d.now()
		tres, err := d.eval.Evaluate(ctx, reserve)
		if err != nil {
			if ctx.Err() != nil {
				tr.stopped()
				d.log.Infof("search cancelled during reserve %d", reserve)
				return finish(model.StateCancelled), nil
			}
			res.FinishedAt = d.now()
			res.Log = tr.snapshot()
			return res, fmt.Errorf("evaluate reserve %d: %w", reserve, err)
		}
		elapsed := d.now().Sub(start)
		level := tres.ServiceLevel

		var comment string
		if level >= d.target {
			if res.MinimumReserve == model.NotFound {
				res.MinimumReserve = reserve
				comment = commentMinimum(reserve)
			}
			if level >= 1.0 {
				streak++
				if comment == "" {
					comment = commentPerfect(streak, d.streakGoal)
				}
			} else {
				streak = 0
				if comment == "" {
					comment = commentStable
				}
			}
		} else {
			res.MinimumReserve = model.NotFound
			streak = 0
			comment = commentSearching
		}

		point := model.HistoryPoint{Reserve: reserve, ServiceLevel: level, Duration: elapsed, Comment: comment}
		res.History = append(res.History, point)
		tr.row(reserve, level, elapsed.Seconds(), comment)

		done := streak >= d.streakGoal
		switch {
		case done:
			res.State = model.StateDone
		case res.MinimumReserve == model.NotFound:
			res.State = model.StateSearchingMinimum
		default:
			res.State = model.StateSearchingPerfect
		}

		d.log.Debugw("trial evaluated", map[string]any{
			"reserve":       reserve,
			"service_level": level,
			"streak":        streak,
			"state":         string(res.State),
		})
		if err := d.sink.RecordTrial(metrics.TrialEvent{
			RunID:          d.runID,
			Reserve:        reserve,
			ServiceLevel:   level,
			ShortfallHours: tres.ShortfallHours,
			TotalHours:     tres.TotalHours,
			Duration:       elapsed,
			Time:           d.now(),
		}); err != nil {
			d.log.Warnf("record trial metrics: %v", err)
		}
		if onProgress != nil {
			onProgress(Progress{
				RunID:          d.runID,
				State:          res.State,
				Latest:         point,
				History:        slices.Clone(res.History),
				Log:            tr.snapshot(),
				MinimumReserve: res.MinimumReserve,
				Streak:         streak,
			})
		}

		if done {
			res.PerfectReserve = reserve
			tr.footer(res.MinimumReserve, res.PerfectReserve, res.MinimumReserve != model.NotFound)
			d.log.Infof("search done: minimum=%d perfect=%d", res.MinimumReserve, res.PerfectReserve)
			return finish(model.StateDone), nil
		}
		if d.maxReserve > 0 && reserve >= d.maxReserve {
			tr.exhausted(d.maxReserve)
			d.log.Warnf("search exhausted at reserve %d", reserve)
			return finish(model.StateExhausted), nil
		}
	}
}

func (d *Driver) recordSearch(res model.SearchResult) {
	rec, ok := d.sink.(metrics.SearchRecorder)
	if !ok {
		return
	}
	if err := rec.RecordSearch(metrics.SearchEvent{
		RunID:          d.runID,
		State:          string(res.State),
		MinimumReserve: res.MinimumReserve,
		PerfectReserve: res.PerfectReserve,
		Trials:         len(res.History),
		Duration:       res.FinishedAt.Sub(res.StartedAt),
		Time:           res.FinishedAt,
	}); err != nil {
		d.log.Warnf("record search metrics: %v", err)
	}
}
