package model

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
)

// HoursPerDay is the length of the hourly demand curve.
const HoursPerDay = 24

// ErrInvalidConfig is wrapped by every validation failure of SimulationConfig.
var ErrInvalidConfig = errors.New("invalid simulation config")

// AgeResetMode selects when a unit's age since last failure returns to zero.
type AgeResetMode string

const (
	// AgeResetEveryIdleDay resets the age of every unit whose repair timer is
	// zero at the start of the day, including units that were never in repair.
	AgeResetEveryIdleDay AgeResetMode = "every_idle_day"
	// AgeResetOnRepairExit resets the age only for units whose repair timer
	// reached zero on the current day, so age accumulates over an operating
	// streak.
	AgeResetOnRepairExit AgeResetMode = "on_repair_exit"
)

// AdmissionRule is one entry of the maintenance admission policy: with
// probability Probability, Count available units are sent to maintenance.
type AdmissionRule struct {
	Count       int     `json:"count" yaml:"count"`
	Probability float64 `json:"probability" yaml:"probability"`
}

// SimulationConfig holds the parameters of one reserve-fleet search. It is
// read-only once the search starts.
type SimulationConfig struct {
	RequiredOperational int     `json:"required_operational" yaml:"required_operational"`
	TargetServiceLevel  float64 `json:"target_service_level" yaml:"target_service_level"`

	// FailureShape is the Weibull shape k of the time to failure.
	FailureShape float64 `json:"failure_shape" yaml:"failure_shape"`
	// Availability is the long run fraction of days a unit is not failed.
	Availability float64 `json:"availability" yaml:"availability"`

	RepairShape         float64 `json:"repair_shape" yaml:"repair_shape"`
	MeanRepairDays      int     `json:"mean_repair_days" yaml:"mean_repair_days"`
	MaintenanceShape    float64 `json:"maintenance_shape" yaml:"maintenance_shape"`
	MeanMaintenanceDays int     `json:"mean_maintenance_days" yaml:"mean_maintenance_days"`

	Simulations       int `json:"simulations" yaml:"simulations"`
	DaysPerSimulation int `json:"days_per_simulation" yaml:"days_per_simulation"`

	// HourlyDemand is the number of units required in service for each hour
	// of the day.
	HourlyDemand []int `json:"hourly_demand" yaml:"hourly_demand"`

	MaintenancePolicy []AdmissionRule `json:"maintenance_policy" yaml:"maintenance_policy"`

	AgeReset AgeResetMode `json:"age_reset" yaml:"age_reset"`
}

// DefaultSimulationConfig returns a reference configuration for an 18 unit
// operation with a two peak weekday demand curve.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		RequiredOperational: 18,
		TargetServiceLevel:  0.995,
		FailureShape:        1.5,
		Availability:        0.93,
		RepairShape:         3,
		MeanRepairDays:      2,
		MaintenanceShape:    4,
		MeanMaintenanceDays: 1,
		Simulations:         1000,
		DaysPerSimulation:   365,
		HourlyDemand: []int{
			0, 0, 0, 0, 0, 10, 12, 15, 15, 15, 10, 10,
			10, 10, 10, 10, 15, 15, 15, 12, 12, 10, 10, 0,
		},
		MaintenancePolicy: []AdmissionRule{
			{Count: 1, Probability: 0.70},
			{Count: 2, Probability: 0.25},
			{Count: 3, Probability: 0.05},
		},
		AgeReset: AgeResetEveryIdleDay,
	}
}

// SetDefaults fills optional fields.
func (c *SimulationConfig) SetDefaults() {
	if c.AgeReset == "" {
		c.AgeReset = AgeResetEveryIdleDay
	}
}

// FleetSize returns the number of simulated units for the given reserve.
func (c SimulationConfig) FleetSize(reserve int) int {
	return c.RequiredOperational + reserve
}

// TotalHours is the number of demand hours one trial evaluates.
func (c SimulationConfig) TotalHours() int64 {
	return int64(c.Simulations) * int64(c.DaysPerSimulation) * HoursPerDay
}

// AdmissionCounts splits the maintenance policy into parallel slices.
func (c SimulationConfig) AdmissionCounts() ([]int, []float64) {
	counts := make([]int, len(c.MaintenancePolicy))
	probs := make([]float64, len(c.MaintenancePolicy))
	for i, r := range c.MaintenancePolicy {
		counts[i] = r.Count
		probs[i] = r.Probability
	}
	return counts, probs
}

// Validate reports every invalid field. The returned error wraps
// ErrInvalidConfig.
//
//gocyclo:ignore
func (c SimulationConfig) Validate() error {
	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
	}

	if c.RequiredOperational <= 0 {
		fail("required_operational must be positive, got %d", c.RequiredOperational)
	}
	if !inUnitInterval(c.TargetServiceLevel) {
		fail("target_service_level must be in [0,1], got %v", c.TargetServiceLevel)
	}
	if !inUnitInterval(c.Availability) {
		fail("availability must be in [0,1], got %v", c.Availability)
	}
	for _, p := range []struct {
		name string
		v    float64
	}{
		{"failure_shape", c.FailureShape},
		{"repair_shape", c.RepairShape},
		{"maintenance_shape", c.MaintenanceShape},
	} {
		if !(p.v > 0) || math.IsInf(p.v, 0) {
			fail("%s must be positive, got %v", p.name, p.v)
		}
	}
	if c.MeanRepairDays <= 0 {
		fail("mean_repair_days must be positive, got %d", c.MeanRepairDays)
	}
	if c.MeanMaintenanceDays <= 0 {
		fail("mean_maintenance_days must be positive, got %d", c.MeanMaintenanceDays)
	}
	if c.Simulations < 0 {
		fail("simulations must not be negative, got %d", c.Simulations)
	}
	if c.DaysPerSimulation < 0 {
		fail("days_per_simulation must not be negative, got %d", c.DaysPerSimulation)
	}

	if len(c.HourlyDemand) != HoursPerDay {
		fail("hourly_demand must have %d values, got %d", HoursPerDay, len(c.HourlyDemand))
	}
	for h, d := range c.HourlyDemand {
		if d < 0 || (c.RequiredOperational > 0 && d > c.RequiredOperational) {
			fail("hourly_demand[%d]=%d outside [0,%d]", h, d, c.RequiredOperational)
		}
	}

	if len(c.MaintenancePolicy) == 0 {
		fail("maintenance_policy must not be empty")
	}
	total := 0.0
	for i, r := range c.MaintenancePolicy {
		if r.Count < 0 || (c.RequiredOperational > 0 && r.Count > c.RequiredOperational) {
			fail("maintenance_policy[%d].count=%d outside [0,%d]", i, r.Count, c.RequiredOperational)
		}
		if !inUnitInterval(r.Probability) {
			fail("maintenance_policy[%d].probability must be in [0,1], got %v", i, r.Probability)
		}
		total += r.Probability
	}
	if len(c.MaintenancePolicy) > 0 && !ProbabilitiesSumToOne(total) {
		fail("maintenance_policy probabilities sum to %v, want 1", total)
	}

	switch c.AgeReset {
	case "", AgeResetEveryIdleDay, AgeResetOnRepairExit:
	default:
		fail("unknown age_reset %q", c.AgeReset)
	}
	return errors.Join(errs...)
}

// ProbabilityTolerance is the absolute and relative tolerance used when
// checking that a discrete distribution sums to one.
const ProbabilityTolerance = 1e-9

// ProbabilitiesSumToOne reports whether total equals one within
// ProbabilityTolerance.
func ProbabilitiesSumToOne(total float64) bool {
	return scalar.EqualWithinAbsOrRel(total, 1, ProbabilityTolerance, ProbabilityTolerance)
}

func inUnitInterval(v float64) bool {
	return v >= 0 && v <= 1
}
