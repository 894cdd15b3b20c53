package fleet

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aguepe1/Fleet-Simulator/core/model"
)

func testConfig() model.SimulationConfig {
	cfg := model.DefaultSimulationConfig()
	cfg.RequiredOperational = 4
	cfg.HourlyDemand = make([]int, model.HoursPerDay)
	cfg.Availability = 1
	cfg.MaintenancePolicy = []model.AdmissionRule{{Count: 0, Probability: 1}}
	return cfg
}

func newFleet(t *testing.T, cfg model.SimulationConfig, size int) *Fleet {
	t.Helper()
	p, err := NewParams(cfg)
	require.NoError(t, err)
	return New(size, p, rand.New(rand.NewPCG(7, 11)))
}

func TestDeriveScales(t *testing.T) {
	cfg := model.DefaultSimulationConfig()
	s := DeriveScales(cfg)
	assert.True(t, s.FailureEnabled)
	assert.Equal(t, 14.29, s.MTTF)
	assert.InDelta(t, 14.29/math.Gamma(1+1/1.5), s.FailureScale, 1e-12)
	assert.InDelta(t, 2/math.Gamma(1+1/3.0), s.RepairScale, 1e-12)
	assert.InDelta(t, 1/math.Gamma(1+1/4.0), s.MaintenanceScale, 1e-12)
	assert.Equal(t, s, DeriveScales(cfg), "scales must be a pure function of config")
}

func TestDeriveScalesPerfectAvailability(t *testing.T) {
	cfg := model.DefaultSimulationConfig()
	cfg.Availability = 1
	s := DeriveScales(cfg)
	assert.False(t, s.FailureEnabled)
	assert.Zero(t, s.MTTF)
	assert.False(t, math.IsNaN(s.FailureScale) || math.IsInf(s.FailureScale, 0))

	p, err := NewParams(cfg)
	require.NoError(t, err)
	for age := 0; age < 100; age++ {
		if p.FailureProbability(age) != 0 {
			t.Fatalf("expected no failures at age %d", age)
		}
	}
}

func TestAdvanceDayNoEvents(t *testing.T) {
	f := newFleet(t, testConfig(), 6)
	for day := 0; day < 20; day++ {
		if got := f.AdvanceDay(); got != 6 {
			t.Fatalf("day %d: expected 6 available got %d", day, got)
		}
	}
	// Every idle day resets the age, so operating units never age past one.
	for i := 0; i < f.Size(); i++ {
		assert.Equal(t, 1, f.Unit(i).Age)
	}
}

func TestAdvanceDayAgeAccumulatesOnRepairExit(t *testing.T) {
	cfg := testConfig()
	cfg.AgeReset = model.AgeResetOnRepairExit
	f := newFleet(t, cfg, 3)
	for day := 0; day < 10; day++ {
		f.AdvanceDay()
	}
	for i := 0; i < f.Size(); i++ {
		assert.Equal(t, 10, f.Unit(i).Age)
	}
}

func TestAdvanceDayRepairExit(t *testing.T) {
	for _, mode := range []model.AgeResetMode{model.AgeResetEveryIdleDay, model.AgeResetOnRepairExit} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := testConfig()
			cfg.AgeReset = mode
			f := newFleet(t, cfg, 2)
			f.SetUnit(0, Unit{RepairDays: 2, Age: 5})

			assert.Equal(t, 1, f.AdvanceDay())
			assert.Equal(t, Unit{RepairDays: 1, Age: 5}, f.Unit(0))

			assert.Equal(t, 2, f.AdvanceDay())
			assert.Equal(t, Unit{Age: 1}, f.Unit(0))
		})
	}
}

func TestAdvanceDayMaintenanceAdmission(t *testing.T) {
	cfg := testConfig()
	cfg.MaintenancePolicy = []model.AdmissionRule{{Count: 2, Probability: 1}}
	f := newFleet(t, cfg, 5)
	assert.Equal(t, 3, f.AdvanceDay())
	inMaintenance := 0
	for i := 0; i < f.Size(); i++ {
		u := f.Unit(i)
		if u.MaintenanceDays > 0 {
			inMaintenance++
			assert.Zero(t, u.Age, "units in maintenance do not age")
		}
	}
	assert.Equal(t, 2, inMaintenance)
}

func TestAdvanceDayAdmissionCappedAtAvailable(t *testing.T) {
	cfg := testConfig()
	cfg.MaintenancePolicy = []model.AdmissionRule{{Count: 4, Probability: 1}}
	f := newFleet(t, cfg, 3)
	assert.Equal(t, 0, f.AdvanceDay())
	for i := 0; i < f.Size(); i++ {
		assert.Greater(t, f.Unit(i).MaintenanceDays, 0)
	}
}

func TestAdvanceDayCertainFailure(t *testing.T) {
	cfg := testConfig()
	cfg.Availability = 0
	cfg.FailureShape = 1
	// MTTF 1 and k=1 give a hazard of exactly 1 at every age.
	f := newFleet(t, cfg, 4)
	assert.Equal(t, 0, f.AdvanceDay())
	for i := 0; i < f.Size(); i++ {
		u := f.Unit(i)
		assert.GreaterOrEqual(t, u.RepairDays, 1)
		assert.Equal(t, 1, u.Age)
	}
	assert.Equal(t, 0, f.Available())
}

func TestResetClearsState(t *testing.T) {
	f := newFleet(t, testConfig(), 3)
	f.SetUnit(1, Unit{RepairDays: 4, MaintenanceDays: 2, Age: 9})
	f.Reset()
	for i := 0; i < f.Size(); i++ {
		assert.Equal(t, Unit{}, f.Unit(i))
		assert.True(t, f.Unit(i).Available())
	}
}

func TestNewParamsRejectsBadPolicy(t *testing.T) {
	cfg := testConfig()
	cfg.MaintenancePolicy = []model.AdmissionRule{{Count: 1, Probability: 0.5}}
	_, err := NewParams(cfg)
	assert.Error(t, err)
}
