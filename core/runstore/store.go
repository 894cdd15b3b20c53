package runstore

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/aguepe1/Fleet-Simulator/core/model"
)

// RunRecord is one persisted search run.
type RunRecord struct {
	ID        string                 `json:"id"`
	Timestamp time.Time              `json:"timestamp"`
	Config    model.SimulationConfig `json:"config"`
	Result    model.SearchResult     `json:"result"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string { return uuid.NewString() }

// NewRunRecord wraps a finished search. An empty id is replaced by a fresh
// one; the timestamp is the result's finish time.
func NewRunRecord(id string, cfg model.SimulationConfig, res model.SearchResult) RunRecord {
	if id == "" {
		id = NewRunID()
	}
	ts := res.FinishedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return RunRecord{ID: id, Timestamp: ts.UTC(), Config: cfg, Result: res}
}

// RunQuery filters stored runs. Zero fields match everything. Limit keeps
// the most recent records.
type RunQuery struct {
	Start time.Time
	End   time.Time
	State model.SearchState
	ID    string
	Limit int
}

// Matches reports whether r passes every filter except Limit.
func (q RunQuery) Matches(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.State != "" && r.Result.State != q.State {
		return false
	}
	if q.ID != "" && r.ID != q.ID {
		return false
	}
	return true
}

// RunStore persists search runs.
type RunStore interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

// finalize orders records chronologically and applies the limit.
func finalize(recs []RunRecord, limit int) []RunRecord {
	slices.SortStableFunc(recs, func(a, b RunRecord) int { return a.Timestamp.Compare(b.Timestamp) })
	if limit > 0 && len(recs) > limit {
		recs = recs[len(recs)-limit:]
	}
	return recs
}
