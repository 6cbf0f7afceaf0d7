package planning

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
	"github.com/andrescamacho/industry-planner/internal/domain/simulation"
	"github.com/andrescamacho/industry-planner/pkg/utils"
)

// SimulationOptions carries the engine settings shared by every simulation of a plan
type SimulationOptions struct {
	Resolution time.Duration
	Horizon    time.Duration
}

// Simulate replays the plan's schedule under a scenario on a private snapshot of the ledger.
// The plan's authoritative ledger is never modified, so several calls may run concurrently
// against the same scheduled plan.
func Simulate(ctx context.Context, plan *Plan, ledger *resources.Manager, scenario Scenario, start time.Time, opts SimulationOptions) (*SimulationReport, error) {
	logger := common.LoggerFromContext(ctx)
	if ledger == nil {
		ledger = resources.NewManager()
	}

	snapshot := ledger.Snapshot()
	scenario.Apply(snapshot)
	listener := NewResourceAccountingListener(ctx, snapshot, scenario.ManualPolicy)

	simOpts := []simulation.Option{
		simulation.WithResolution(opts.Resolution),
		simulation.WithHorizon(opts.Horizon),
	}
	if scenario.CatchUp {
		simOpts = append(simOpts, simulation.WithCatchUp())
	}

	sim, err := simulation.NewSimulator(plan.Plant, listener, start, simOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare simulation of %s: %w", scenario.Name, err)
	}

	runID := uuid.New()
	runLabel := utils.RunLabel("simulate", scenario.Name, runID)
	logger.Log("INFO", fmt.Sprintf("Simulating plan %s, scenario %s", plan.Name, scenario.Name), map[string]interface{}{
		"run":      runLabel,
		"scenario": scenario.Name,
		"policy":   scenario.ManualPolicy.String(),
	})

	if err := sim.Run(ctx); err != nil {
		return nil, fmt.Errorf("simulation of scenario %s failed: %w", scenario.Name, err)
	}
	end, err := sim.EndTime()
	if err != nil {
		return nil, err
	}

	report := &SimulationReport{
		RunID:      runID,
		Scenario:   scenario.Name,
		Policy:     scenario.ManualPolicy.String(),
		Start:      start,
		End:        end,
		Ticks:      sim.Ticks(),
		Jobs:       make([]JobOutcome, 0),
		Balances:   snapshot.ResourcesAt(resources.AnyLocation),
		Shortfalls: snapshot.Shortfalls(),
	}
	for _, run := range sim.Runs() {
		report.Jobs = append(report.Jobs, JobOutcome{
			Name:         run.Job.Name(),
			Slot:         run.Slot.QualifiedName(),
			Status:       run.Status,
			PlannedStart: run.PlannedStart,
			StartedAt:    run.StartedAt,
			FinishedAt:   run.FinishedAt,
		})
	}

	logger.Log("INFO", fmt.Sprintf("Scenario %s finished at %s", scenario.Name, end.Format(time.RFC3339)), map[string]interface{}{
		"run":        runLabel,
		"ticks":      report.Ticks,
		"shortfalls": len(report.Shortfalls),
	})
	return report, nil
}
