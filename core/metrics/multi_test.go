package metrics

import (
	"errors"
	"testing"
)

type recordSink struct {
	trials   int
	searches int
	err      error
}

func (r *recordSink) RecordTrial(TrialEvent) error {
	r.trials++
	return r.err
}

func (r *recordSink) RecordSearch(SearchEvent) error {
	r.searches++
	return nil
}

type trialOnlySink struct{ count int }

func (s *trialOnlySink) RecordTrial(TrialEvent) error {
	s.count++
	return nil
}

// TestMultiSink ensures events are forwarded to all sinks.
func TestMultiSink(t *testing.T) {
	s1 := &recordSink{}
	s2 := &recordSink{}
	s3 := &trialOnlySink{}
	m := NewMultiSink(s1, s2, s3)
	if err := m.RecordTrial(TrialEvent{Reserve: 1}); err != nil {
		t.Fatalf("record trial: %v", err)
	}
	if err := m.RecordSearch(SearchEvent{State: "done"}); err != nil {
		t.Fatalf("record search: %v", err)
	}
	if s1.trials != 1 || s2.trials != 1 || s3.count != 1 {
		t.Fatalf("trials not forwarded")
	}
	if s1.searches != 1 || s2.searches != 1 {
		t.Fatalf("searches not forwarded")
	}
}

func TestMultiSinkStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	s1 := &recordSink{err: boom}
	s2 := &recordSink{}
	m := NewMultiSink(s1, s2)
	if err := m.RecordTrial(TrialEvent{}); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if s2.trials != 0 {
		t.Fatalf("second sink should not be reached")
	}
}
