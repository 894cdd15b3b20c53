package metrics

import "time"

// TrialEvent is the outcome of one evaluated reserve size.
type TrialEvent struct {
	RunID          string
	Reserve        int
	ServiceLevel   float64
	ShortfallHours int64
	TotalHours     int64
	Duration       time.Duration
	Time           time.Time
}

// MetricsSink records trial outcomes for observability purposes.
type MetricsSink interface {
	RecordTrial(ev TrialEvent) error
}

// SearchEvent summarises a finished search.
type SearchEvent struct {
	RunID          string
	State          string
	MinimumReserve int
	PerfectReserve int
	Trials         int
	Duration       time.Duration
	Time           time.Time
}

// SearchRecorder records finished searches.
type SearchRecorder interface {
	RecordSearch(ev SearchEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordTrial(TrialEvent) error   { return nil }
func (NopSink) RecordSearch(SearchEvent) error { return nil }

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordTrial forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordTrial(ev TrialEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordTrial(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordSearch forwards the event to sinks that support it.
func (m *MultiSink) RecordSearch(ev SearchEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(SearchRecorder); ok {
			if err := rec.RecordSearch(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
