package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aguepe1/Fleet-Simulator/core/model"
)

// SearchDef overrides the search settings of a scenario.
type SearchDef struct {
	MaxReserve    int    `yaml:"max_reserve"`
	PerfectStreak int    `yaml:"perfect_streak"`
	Seed          uint64 `yaml:"seed"`
}

// Expected lists the outcome a scenario must reproduce. Nil reserves are
// not checked.
type Expected struct {
	State          model.SearchState `yaml:"state"`
	MinimumReserve *int              `yaml:"minimum_reserve,omitempty"`
	PerfectReserve *int              `yaml:"perfect_reserve,omitempty"`
	Trials         int               `yaml:"trials,omitempty"`
	// MinServiceLevel is a lower bound for every level in the history.
	MinServiceLevel *float64 `yaml:"min_service_level,omitempty"`
}

// Scenario is a search configuration with its expected outcome. Simulation
// fields left out of the file keep the reference configuration.
type Scenario struct {
	Name        string                 `yaml:"name"`
	Description string                 `yaml:"description,omitempty"`
	Simulation  model.SimulationConfig `yaml:"simulation"`
	Search      SearchDef              `yaml:"search"`
	Expected    Expected               `yaml:"expected"`
}

// Load reads a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc := Scenario{
		Simulation: model.DefaultSimulationConfig(),
		Search:     SearchDef{PerfectStreak: 3, Seed: 1},
	}
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if sc.Name == "" {
		return nil, fmt.Errorf("%s: scenario name is required", path)
	}
	return &sc, nil
}
