package search

import (
	"fmt"
	"slices"

	"github.com/aguepe1/Fleet-Simulator/core/distribution"
	"github.com/aguepe1/Fleet-Simulator/core/fleet"
	"github.com/aguepe1/Fleet-Simulator/core/model"
)

const (
	// SummaryDays is the last duration tabulated for repair and maintenance.
	SummaryDays = 10
	// SummaryAges is the last unit age tabulated for the failure hazard.
	SummaryAges = 30
)

// Summarize tabulates the duration and hazard distributions implied by cfg
// so a front end can plot them next to the search history.
func Summarize(cfg model.SimulationConfig) (model.Distributions, error) {
	scales := fleet.DeriveScales(cfg)
	days := sequence(SummaryDays)

	repair, err := distribution.DiscreteWeibullPMF(days, cfg.RepairShape, scales.RepairScale)
	if err != nil {
		return model.Distributions{}, fmt.Errorf("repair pmf: %w", err)
	}
	maint, err := distribution.DiscreteWeibullPMF(days, cfg.MaintenanceShape, scales.MaintenanceScale)
	if err != nil {
		return model.Distributions{}, fmt.Errorf("maintenance pmf: %w", err)
	}

	ages := sequence(SummaryAges)
	rates := make([]float64, len(ages))
	if scales.FailureEnabled {
		for i, a := range ages {
			rates[i] = distribution.HazardRate(float64(a), cfg.FailureShape, scales.FailureScale)
		}
	}

	return model.Distributions{
		Repair: model.PMFSummary{
			Days:          days,
			Probabilities: repair,
			Shape:         cfg.RepairShape,
			Scale:         scales.RepairScale,
		},
		Maintenance: model.PMFSummary{
			Days:          slices.Clone(days),
			Probabilities: maint,
			Shape:         cfg.MaintenanceShape,
			Scale:         scales.MaintenanceScale,
		},
		Failure: model.HazardSummary{
			Ages:    ages,
			Rates:   rates,
			Shape:   cfg.FailureShape,
			Scale:   scales.FailureScale,
			MTTF:    scales.MTTF,
			Enabled: scales.FailureEnabled,
		},
	}, nil
}

func sequence(n int) []int {
	s := make([]int, n)
	for i := range s {
		s[i] = i + 1
	}
	return s
}
