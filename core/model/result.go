package model

import "time"

// NotFound marks a reserve size that the search did not establish.
const NotFound = -1

// SearchState is the state of the reserve search state machine.
type SearchState string

const (
	StateSearchingMinimum SearchState = "searching_minimum"
	StateSearchingPerfect SearchState = "searching_perfect"
	StateDone             SearchState = "done"
	StateCancelled        SearchState = "cancelled"
	// StateExhausted is reached when a maximum reserve is configured and the
	// perfect fleet was not found below it.
	StateExhausted SearchState = "exhausted"
)

// Terminal reports whether no further trials follow this state.
func (s SearchState) Terminal() bool {
	return s == StateDone || s == StateCancelled || s == StateExhausted
}

// TrialResult is the aggregate outcome of one reserve size over all
// simulation repetitions.
type TrialResult struct {
	Reserve        int           `json:"reserve"`
	ShortfallHours int64         `json:"shortfall_hours"`
	TotalHours     int64         `json:"total_hours"`
	ServiceLevel   float64       `json:"service_level"`
	Duration       time.Duration `json:"duration"`
}

// ServiceLevel converts shortfall hours into the fraction of demand hours
// that were covered. Degenerate horizons report a perfect level.
func ServiceLevel(shortfall, total int64) float64 {
	if total == 0 || shortfall == 0 {
		return 1.0
	}
	return 1 - float64(shortfall)/float64(total)
}

// HistoryPoint is one attempted reserve size.
type HistoryPoint struct {
	Reserve      int           `json:"reserve"`
	ServiceLevel float64       `json:"service_level"`
	Duration     time.Duration `json:"duration"`
	Comment      string        `json:"comment,omitempty"`
}

// PMFSummary tabulates a discrete Weibull duration distribution.
type PMFSummary struct {
	Days          []int     `json:"days"`
	Probabilities []float64 `json:"probabilities"`
	Shape         float64   `json:"shape"`
	Scale         float64   `json:"scale"`
}

// HazardSummary tabulates the daily failure probability by unit age.
type HazardSummary struct {
	Ages    []int     `json:"ages"`
	Rates   []float64 `json:"rates"`
	Shape   float64   `json:"shape"`
	Scale   float64   `json:"scale"`
	MTTF    float64   `json:"mttf"`
	Enabled bool      `json:"enabled"`
}

// Distributions groups the summaries returned for external rendering.
type Distributions struct {
	Repair      PMFSummary    `json:"repair"`
	Maintenance PMFSummary    `json:"maintenance"`
	Failure     HazardSummary `json:"failure"`
}

// SearchResult is the final or partial outcome of a reserve search.
type SearchResult struct {
	State          SearchState    `json:"state"`
	MinimumReserve int            `json:"minimum_reserve"`
	PerfectReserve int            `json:"perfect_reserve"`
	History        []HistoryPoint `json:"history"`
	Log            []string       `json:"log"`
	Distributions  Distributions  `json:"distributions"`
	StartedAt      time.Time      `json:"started_at"`
	FinishedAt     time.Time      `json:"finished_at"`
}

// Cancelled reports whether the search was stopped from outside.
func (r SearchResult) Cancelled() bool { return r.State == StateCancelled }

// MinimumFound reports whether a reserve meeting the target was established.
func (r SearchResult) MinimumFound() bool { return r.MinimumReserve != NotFound }

// PerfectFound reports whether the search reached the perfect fleet.
func (r SearchResult) PerfectFound() bool { return r.PerfectReserve != NotFound }
