package search

import (
	"fmt"
	"slices"
	"strings"
)

var rule = strings.Repeat("-", 80)

// transcript is the append-only human readable log of a search. Each
// progress notification carries a copy; the driver never reads it back.
type transcript struct {
	lines []string
}

func (t *transcript) add(format string, args ...any) {
	t.lines = append(t.lines, fmt.Sprintf(format, args...))
}

func (t *transcript) snapshot() []string { return slices.Clone(t.lines) }

func (t *transcript) header(target float64, streakGoal int) {
	t.add("Starting reserve fleet search...")
	t.add("Goal 1: find the minimum fleet for a service level >= %.2f%%", target*100)
	t.add("Goal 2: continue until a perfect fleet is found (%dx 100%% in a row)", streakGoal)
	t.add(rule)
	t.add("%-15s | %-16s | %-12s | %s", "Reserve units", "Service level", "Time (s)", "Comment")
	t.add(rule)
}

func (t *transcript) row(reserve int, level, seconds float64, comment string) {
	t.add("%-15d | %-16s | %-12.2f | %s", reserve, fmt.Sprintf("%.4f%%", level*100), seconds, comment)
}

func (t *transcript) stopped() {
	t.add("")
	t.add("Search stopped by user.")
}

func (t *transcript) exhausted(maxReserve int) {
	t.add(rule)
	t.add("")
	t.add("Search exhausted at %d reserve units without a perfect fleet.", maxReserve)
}

func (t *transcript) footer(minimum, perfect int, found bool) {
	t.add(rule)
	t.add("")
	if !found {
		t.add("No fleet met the minimum target in the simulated range.")
		return
	}
	t.add("Minimum reserve required: %d units.", minimum)
	t.add("   (a perfect fleet was found with %d units for reference)", perfect)
}

func commentMinimum(reserve int) string {
	return fmt.Sprintf("MINIMUM TARGET REACHED (%d units), looking for a perfect fleet...", reserve)
}

func commentPerfect(streak, goal int) string {
	return fmt.Sprintf("100%% REACHED, streak %d/%d", streak, goal)
}

const (
	commentStable    = "stable but not 100%, streak reset"
	commentSearching = "searching... target not met"
)
