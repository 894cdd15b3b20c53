package config

import "fmt"

// SearchConfig tunes the search driver and the trial runner.
type SearchConfig struct {
	// MaxReserve bounds the search. Zero keeps the search unbounded.
	MaxReserve int `json:"max_reserve"`
	// PerfectStreak is the number of consecutive 100% trials that end the search.
	PerfectStreak int `json:"perfect_streak"`
	// Workers bounds parallel repetitions. Zero uses every CPU.
	Workers int `json:"workers"`
	// Seed fixes the random streams. Zero draws a seed from the clock.
	Seed uint64 `json:"seed"`
}

// SetDefaults fills optional fields.
func (c *SearchConfig) SetDefaults() {
	if c.PerfectStreak == 0 {
		c.PerfectStreak = 3
	}
}

// Validate checks the ranges.
func (c SearchConfig) Validate() error {
	if c.MaxReserve < 0 {
		return fmt.Errorf("search.max_reserve must not be negative, got %d", c.MaxReserve)
	}
	if c.PerfectStreak < 1 {
		return fmt.Errorf("search.perfect_streak must be positive, got %d", c.PerfectStreak)
	}
	if c.Workers < 0 {
		return fmt.Errorf("search.workers must not be negative, got %d", c.Workers)
	}
	return nil
}
