package fleet

import (
	"fmt"
	"math"

	"github.com/aguepe1/Fleet-Simulator/core/distribution"
	"github.com/aguepe1/Fleet-Simulator/core/model"
)

// Scales holds the Weibull scale parameters derived from a configuration.
type Scales struct {
	// MTTF is the mean time to failure in days, rounded to two decimals.
	// Zero when failures are disabled.
	MTTF float64
	// FailureScale is lambda of the continuous failure Weibull.
	FailureScale float64
	// FailureEnabled is false for a configured availability of 1, which
	// implies an infinite mean time to failure.
	FailureEnabled   bool
	RepairScale      float64
	MaintenanceScale float64
}

// DeriveScales converts mean durations into Weibull scales using
// scale = mean / Gamma(1 + 1/shape).
func DeriveScales(cfg model.SimulationConfig) Scales {
	s := Scales{
		RepairScale:      float64(cfg.MeanRepairDays) / math.Gamma(1+1/cfg.RepairShape),
		MaintenanceScale: float64(cfg.MeanMaintenanceDays) / math.Gamma(1+1/cfg.MaintenanceShape),
	}
	rate := 1 - cfg.Availability
	if rate <= 0 {
		return s
	}
	s.MTTF = math.Round(100/rate) / 100
	s.FailureScale = s.MTTF / math.Gamma(1+1/cfg.FailureShape)
	s.FailureEnabled = true
	return s
}

// Params is everything AdvanceDay needs, built once per trial.
type Params struct {
	Scales       Scales
	FailureShape float64
	Repair       distribution.DiscreteWeibull
	Maintenance  distribution.DiscreteWeibull
	Admission    distribution.Table
	AgeReset     model.AgeResetMode
}

// NewParams derives the samplers for cfg. cfg should already be validated.
func NewParams(cfg model.SimulationConfig) (Params, error) {
	scales := DeriveScales(cfg)
	repair, err := distribution.NewDiscreteWeibull(cfg.RepairShape, scales.RepairScale)
	if err != nil {
		return Params{}, fmt.Errorf("repair duration: %w", err)
	}
	maint, err := distribution.NewDiscreteWeibull(cfg.MaintenanceShape, scales.MaintenanceScale)
	if err != nil {
		return Params{}, fmt.Errorf("maintenance duration: %w", err)
	}
	counts, probs := cfg.AdmissionCounts()
	adm, err := distribution.NewTable(counts, probs)
	if err != nil {
		return Params{}, fmt.Errorf("maintenance policy: %w", err)
	}
	mode := cfg.AgeReset
	if mode == "" {
		mode = model.AgeResetEveryIdleDay
	}
	return Params{
		Scales:       scales,
		FailureShape: cfg.FailureShape,
		Repair:       repair,
		Maintenance:  maint,
		Admission:    adm,
		AgeReset:     mode,
	}, nil
}

// FailureProbability is the chance that an operable unit of the given age
// fails today.
func (p Params) FailureProbability(age int) float64 {
	if !p.Scales.FailureEnabled {
		return 0
	}
	return distribution.HazardRate(float64(age), p.FailureShape, p.Scales.FailureScale)
}
