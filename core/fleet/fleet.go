package fleet

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/sampleuv"

	"github.com/aguepe1/Fleet-Simulator/core/model"
)

// Unit is the state of one simulated unit. A unit is available when both
// timers are zero.
type Unit struct {
	RepairDays      int
	MaintenanceDays int
	// Age counts days since the last failure.
	Age int
}

// Available reports whether the unit can serve demand.
func (u Unit) Available() bool { return u.RepairDays == 0 && u.MaintenanceDays == 0 }

// Fleet is the mutable state of one simulation run. It is owned by a single
// goroutine for the duration of the run.
type Fleet struct {
	params Params
	rng    *rand.Rand

	repair      []int
	maintenance []int
	age         []int

	avail []int
	picks []int
}

// New allocates a fleet of size units, all available with age zero.
func New(size int, params Params, rng *rand.Rand) *Fleet {
	if size < 0 {
		size = 0
	}
	return &Fleet{
		params:      params,
		rng:         rng,
		repair:      make([]int, size),
		maintenance: make([]int, size),
		age:         make([]int, size),
		avail:       make([]int, 0, size),
		picks:       make([]int, size),
	}
}

// Size returns the number of units.
func (f *Fleet) Size() int { return len(f.repair) }

// Reset returns every unit to the initial state so the fleet can be reused
// for another independent run.
func (f *Fleet) Reset() {
	clear(f.repair)
	clear(f.maintenance)
	clear(f.age)
}

// Unit returns a copy of unit i.
func (f *Fleet) Unit(i int) Unit {
	return Unit{RepairDays: f.repair[i], MaintenanceDays: f.maintenance[i], Age: f.age[i]}
}

// SetUnit overwrites unit i.
func (f *Fleet) SetUnit(i int, u Unit) {
	f.repair[i], f.maintenance[i], f.age[i] = u.RepairDays, u.MaintenanceDays, u.Age
}

// Available counts units with both timers at zero.
func (f *Fleet) Available() int {
	n := 0
	for i := range f.repair {
		if f.repair[i] == 0 && f.maintenance[i] == 0 {
			n++
		}
	}
	return n
}

// AdvanceDay moves the fleet forward one day and returns the number of units
// available for service once today's failures are known.
func (f *Fleet) AdvanceDay() int {
	everyIdleDay := f.params.AgeReset != model.AgeResetOnRepairExit

	// Timers tick down; ages reset for units out of repair.
	for i := range f.repair {
		if f.repair[i] > 0 {
			f.repair[i]--
			if f.repair[i] == 0 && !everyIdleDay {
				f.age[i] = 0
			}
		}
		if f.maintenance[i] > 0 {
			f.maintenance[i]--
		}
		if everyIdleDay && f.repair[i] == 0 {
			f.age[i] = 0
		}
	}

	f.avail = f.avail[:0]
	for i := range f.repair {
		if f.repair[i] == 0 && f.maintenance[i] == 0 {
			f.avail = append(f.avail, i)
		}
	}

	if n := min(f.params.Admission.Sample(f.rng), len(f.avail)); n > 0 {
		picks := f.picks[:n]
		sampleuv.WithoutReplacement(picks, len(f.avail), f.rng)
		for _, p := range picks {
			f.maintenance[f.avail[p]] = f.params.Maintenance.Sample(f.rng)
		}
	}

	available := 0
	for i := range f.repair {
		if f.repair[i] != 0 || f.maintenance[i] != 0 {
			continue
		}
		f.age[i]++
		if p := f.params.FailureProbability(f.age[i]); p > 0 && f.rng.Float64() < p {
			f.repair[i] = f.params.Repair.Sample(f.rng)
			continue
		}
		available++
	}
	return available
}
