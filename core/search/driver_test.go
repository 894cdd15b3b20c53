package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aguepe1/Fleet-Simulator/core/metrics"
	"github.com/aguepe1/Fleet-Simulator/core/model"
	"github.com/aguepe1/Fleet-Simulator/core/trial"
)

var epoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return epoch }

// levels returns an evaluator that replays the given service levels and
// fails the test if the driver asks past the end.
func levels(t *testing.T, vals ...float64) EvaluatorFunc {
	t.Helper()
	return func(_ context.Context, reserve int) (model.TrialResult, error) {
		if reserve >= len(vals) {
			t.Fatalf("unexpected evaluation of reserve %d", reserve)
		}
		return model.TrialResult{Reserve: reserve, ServiceLevel: vals[reserve]}, nil
	}
}

func reserves(h []model.HistoryPoint) []int {
	out := make([]int, len(h))
	for i, p := range h {
		out[i] = p.Reserve
	}
	return out
}

func TestRunRegressionResetsMinimum(t *testing.T) {
	d, err := NewDriver(levels(t, 1, 1, 0.5, 1, 1, 1), 0.995, WithClock(fixedClock))
	require.NoError(t, err)

	var snaps []Progress
	res, err := d.Run(context.Background(), func(p Progress) { snaps = append(snaps, p) })
	require.NoError(t, err)

	assert.Equal(t, model.StateDone, res.State)
	assert.Equal(t, 3, res.MinimumReserve)
	assert.Equal(t, 5, res.PerfectReserve)
	assert.False(t, res.Cancelled())

	want := []model.HistoryPoint{
		{Reserve: 0, ServiceLevel: 1, Comment: commentMinimum(0)},
		{Reserve: 1, ServiceLevel: 1, Comment: commentPerfect(2, 3)},
		{Reserve: 2, ServiceLevel: 0.5, Comment: commentSearching},
		{Reserve: 3, ServiceLevel: 1, Comment: commentMinimum(3)},
		{Reserve: 4, ServiceLevel: 1, Comment: commentPerfect(2, 3)},
		{Reserve: 5, ServiceLevel: 1, Comment: commentPerfect(3, 3)},
	}
	if diff := cmp.Diff(want, res.History); diff != "" {
		t.Fatalf("history mismatch (-want +got):\n%s", diff)
	}

	require.Len(t, snaps, 6)
	wantStates := []model.SearchState{
		model.StateSearchingPerfect,
		model.StateSearchingPerfect,
		model.StateSearchingMinimum,
		model.StateSearchingPerfect,
		model.StateSearchingPerfect,
		model.StateDone,
	}
	wantMin := []int{0, 0, model.NotFound, 3, 3, 3}
	for i, s := range snaps {
		assert.Len(t, s.History, i+1)
		assert.Equal(t, wantStates[i], s.State, "snapshot %d", i)
		assert.Equal(t, wantMin[i], s.MinimumReserve, "snapshot %d", i)
		assert.Equal(t, i, s.Latest.Reserve)
	}
	assert.Equal(t, 3, snaps[5].Streak)
}

func TestRunHistoryContiguousFromZero(t *testing.T) {
	d, err := NewDriver(levels(t, 0.1, 0.4, 0.9, 0.999, 1, 0.998, 1, 1, 1), 0.995, WithClock(fixedClock))
	require.NoError(t, err)
	res, err := d.Run(context.Background(), nil)
	require.NoError(t, err)
	if diff := cmp.Diff([]int{0, 1, 2, 3, 4, 5, 6, 7, 8}, reserves(res.History)); diff != "" {
		t.Fatalf("reserves mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 3, res.MinimumReserve)
	assert.Equal(t, 8, res.PerfectReserve)
	assert.Equal(t, commentStable, res.History[5].Comment)
}

func TestRunCancelledBeforeFirstTrial(t *testing.T) {
	calls := 0
	eval := EvaluatorFunc(func(context.Context, int) (model.TrialResult, error) {
		calls++
		return model.TrialResult{ServiceLevel: 1}, nil
	})
	d, err := NewDriver(eval, 0.995)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := d.Run(ctx, nil)
	require.NoError(t, err)
	assert.True(t, res.Cancelled())
	assert.Empty(t, res.History)
	assert.False(t, res.MinimumFound())
	assert.False(t, res.PerfectFound())
	assert.Zero(t, calls)
	assert.Equal(t, "Search stopped by user.", res.Log[len(res.Log)-1])
}

func TestRunCancelledDuringTrial(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eval := EvaluatorFunc(func(ctx context.Context, reserve int) (model.TrialResult, error) {
		if reserve == 2 {
			cancel()
			return model.TrialResult{}, ctx.Err()
		}
		return model.TrialResult{ServiceLevel: 1}, nil
	})
	d, err := NewDriver(eval, 0.995)
	require.NoError(t, err)
	res, err := d.Run(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, model.StateCancelled, res.State)
	assert.Equal(t, []int{0, 1}, reserves(res.History))
	assert.Equal(t, 0, res.MinimumReserve)
	assert.False(t, res.PerfectFound())
}

func TestRunExhausted(t *testing.T) {
	d, err := NewDriver(levels(t, 0.5, 0.6, 0.7, 0.8, 0.9), 0.995, WithMaxReserve(4))
	require.NoError(t, err)
	res, err := d.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, model.StateExhausted, res.State)
	assert.Len(t, res.History, 5)
	assert.False(t, res.MinimumFound())
	assert.False(t, res.PerfectFound())
}

func TestRunEvaluatorError(t *testing.T) {
	boom := errors.New("boom")
	eval := EvaluatorFunc(func(_ context.Context, reserve int) (model.TrialResult, error) {
		if reserve == 1 {
			return model.TrialResult{}, boom
		}
		return model.TrialResult{ServiceLevel: 0.2}, nil
	})
	d, err := NewDriver(eval, 0.995)
	require.NoError(t, err)
	res, err := d.Run(context.Background(), nil)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, res.History, 1)
	assert.False(t, res.State.Terminal())
}

func TestRunContextErrorWithLiveContext(t *testing.T) {
	eval := EvaluatorFunc(func(context.Context, int) (model.TrialResult, error) {
		return model.TrialResult{}, fmt.Errorf("upstream call: %w", context.Canceled)
	})
	d, err := NewDriver(eval, 0.995)
	require.NoError(t, err)
	res, err := d.Run(context.Background(), nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotEqual(t, model.StateCancelled, res.State)
	assert.False(t, res.State.Terminal())
	assert.Empty(t, res.History)
}

func TestRunCustomStreak(t *testing.T) {
	d, err := NewDriver(levels(t, 1), 0.9, WithPerfectStreak(1))
	require.NoError(t, err)
	res, err := d.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.MinimumReserve)
	assert.Equal(t, 0, res.PerfectReserve)
}

func TestRunSaturatedFleet(t *testing.T) {
	cfg := model.DefaultSimulationConfig()
	cfg.RequiredOperational = 1
	cfg.HourlyDemand = make([]int, model.HoursPerDay)
	cfg.MaintenancePolicy = []model.AdmissionRule{{Count: 1, Probability: 1}}
	cfg.Simulations = 20
	cfg.DaysPerSimulation = 30
	r, err := trial.NewRunner(cfg, trial.WithSeed(9))
	require.NoError(t, err)
	d, err := ForRunner(r)
	require.NoError(t, err)

	res, err := d.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, model.StateDone, res.State)
	assert.Equal(t, 0, res.MinimumReserve)
	assert.Equal(t, DefaultPerfectStreak-1, res.PerfectReserve)
	for _, p := range res.History {
		assert.Equal(t, 1.0, p.ServiceLevel)
	}
	assert.Len(t, res.Distributions.Repair.Days, SummaryDays)
}

func TestRunTranscript(t *testing.T) {
	d, err := NewDriver(levels(t, 0.5, 1, 1, 1), 0.995, WithClock(fixedClock))
	require.NoError(t, err)
	res, err := d.Run(context.Background(), nil)
	require.NoError(t, err)

	text := strings.Join(res.Log, "\n")
	assert.Contains(t, text, "service level >= 99.50%")
	assert.Contains(t, text, "0               | 50.0000%         | 0.00         | "+commentSearching)
	assert.Contains(t, text, "Minimum reserve required: 1 units.")
	assert.Contains(t, text, "perfect fleet was found with 3 units")
}

func TestRunTranscriptNotFound(t *testing.T) {
	var tr transcript
	tr.footer(model.NotFound, model.NotFound, false)
	assert.Contains(t, tr.lines, "No fleet met the minimum target in the simulated range.")
}

type recordingSink struct {
	trials   []metrics.TrialEvent
	searches []metrics.SearchEvent
}

func (s *recordingSink) RecordTrial(ev metrics.TrialEvent) error {
	s.trials = append(s.trials, ev)
	return nil
}

func (s *recordingSink) RecordSearch(ev metrics.SearchEvent) error {
	s.searches = append(s.searches, ev)
	return nil
}

func TestRunRecordsMetrics(t *testing.T) {
	sink := &recordingSink{}
	d, err := NewDriver(levels(t, 0.5, 1, 1, 1), 0.995, WithMetrics(sink), WithRunID("run-1"))
	require.NoError(t, err)
	_, err = d.Run(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, sink.trials, 4)
	require.Len(t, sink.searches, 1)
	assert.Equal(t, "run-1", sink.trials[0].RunID)
	assert.Equal(t, string(model.StateDone), sink.searches[0].State)
	assert.Equal(t, 4, sink.searches[0].Trials)
	assert.Equal(t, 1, sink.searches[0].MinimumReserve)
}

func TestNewDriverValidation(t *testing.T) {
	eval := levels(t, 1)
	_, err := NewDriver(nil, 0.9)
	assert.Error(t, err)
	_, err = NewDriver(eval, 1.5)
	assert.Error(t, err)
	_, err = NewDriver(eval, 0.9, WithPerfectStreak(0))
	assert.Error(t, err)
	_, err = NewDriver(eval, 0.9, WithMaxReserve(-1))
	assert.Error(t, err)
}
