package scenarios

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/aguepe1/Fleet-Simulator/core/metrics"
	"github.com/aguepe1/Fleet-Simulator/core/model"
	"github.com/aguepe1/Fleet-Simulator/core/search"
	"github.com/aguepe1/Fleet-Simulator/core/trial"
	"github.com/aguepe1/Fleet-Simulator/infra/logger"
	"github.com/aguepe1/Fleet-Simulator/infra/metrics"
)

// Report is the outcome of one scenario run. Registry holds the metrics
// recorded during the run.
type Report struct {
	Result   model.SearchResult
	Registry *prometheus.Registry
}

// Run executes the scenario's search with metrics on a private registry.
func Run(ctx context.Context, sc *Scenario) (Report, error) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		return Report{}, fmt.Errorf("prom sink: %w", err)
	}
	runner, err := trial.NewRunner(sc.Simulation, trial.WithSeed(sc.Search.Seed), trial.WithLogger(logger.NopLogger{}))
	if err != nil {
		return Report{}, err
	}
	d, err := search.ForRunner(runner,
		search.WithMaxReserve(sc.Search.MaxReserve),
		search.WithPerfectStreak(sc.Search.PerfectStreak),
		search.WithMetrics(sink),
		search.WithRunID(sc.Name),
	)
	if err != nil {
		return Report{}, err
	}
	res, err := d.Run(ctx, nil)
	return Report{Result: res, Registry: reg}, err
}

// Check compares a result against the scenario's expectations and reports
// every mismatch.
func Check(sc *Scenario, res model.SearchResult) error {
	var problems []string
	exp := sc.Expected
	if exp.State != "" && res.State != exp.State {
		problems = append(problems, fmt.Sprintf("state: want %s, got %s", exp.State, res.State))
	}
	if exp.MinimumReserve != nil && res.MinimumReserve != *exp.MinimumReserve {
		problems = append(problems, fmt.Sprintf("minimum reserve: want %d, got %d", *exp.MinimumReserve, res.MinimumReserve))
	}
	if exp.PerfectReserve != nil && res.PerfectReserve != *exp.PerfectReserve {
		problems = append(problems, fmt.Sprintf("perfect reserve: want %d, got %d", *exp.PerfectReserve, res.PerfectReserve))
	}
	if exp.Trials > 0 && len(res.History) != exp.Trials {
		problems = append(problems, fmt.Sprintf("trials: want %d, got %d", exp.Trials, len(res.History)))
	}
	if exp.MinServiceLevel != nil {
		for _, p := range res.History {
			if p.ServiceLevel < *exp.MinServiceLevel {
				problems = append(problems, fmt.Sprintf("reserve %d: service level %.4f below %.4f", p.Reserve, p.ServiceLevel, *exp.MinServiceLevel))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("scenario %s: %s", sc.Name, strings.Join(problems, "; "))
	}
	return nil
}
