package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/industry-planner/internal/adapters/metrics"
	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/planning"
	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// SimulatePlanCommand replays a plan's schedule under one scenario.
// An unscheduled plan is scheduled first.
type SimulatePlanCommand struct {
	Plan *planning.Plan

	// Scenario names one of the plan's scenarios; empty runs the baseline
	Scenario string

	// LedgerName, when set, replaces the plan's ledger with the stored one
	LedgerName string
}

// SimulatePlanResponse carries the simulation report
type SimulatePlanResponse struct {
	Report *planning.SimulationReport
}

// SimulatePlanHandler handles the SimulatePlan command
type SimulatePlanHandler struct {
	mediator   common.Mediator
	ledgerRepo resources.LedgerRepository
	clock      shared.Clock
	options    planning.SimulationOptions
}

// NewSimulatePlanHandler creates a new SimulatePlanHandler.
// ledgerRepo may be nil when ledgers only come from plan files.
func NewSimulatePlanHandler(
	mediator common.Mediator,
	ledgerRepo resources.LedgerRepository,
	clock shared.Clock,
	options planning.SimulationOptions,
) *SimulatePlanHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &SimulatePlanHandler{
		mediator:   mediator,
		ledgerRepo: ledgerRepo,
		clock:      clock,
		options:    options,
	}
}

// Handle executes the SimulatePlan command
func (h *SimulatePlanHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SimulatePlanCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SimulatePlanCommand")
	}

	start, err := ensureScheduled(ctx, h.mediator, cmd.Plan, h.clock)
	if err != nil {
		return nil, err
	}

	scenario, err := resolveScenario(cmd.Plan, cmd.Scenario)
	if err != nil {
		return nil, err
	}

	ledger, err := loadLedger(ctx, h.ledgerRepo, cmd.Plan, cmd.LedgerName)
	if err != nil {
		return nil, err
	}

	report, err := runScenario(ctx, cmd.Plan, ledger, scenario, start, h.options)
	if err != nil {
		return nil, err
	}

	return &SimulatePlanResponse{Report: report}, nil
}

// ensureScheduled schedules the plan through the mediator unless it already has jobs,
// and returns the instant simulations start at
func ensureScheduled(ctx context.Context, mediator common.Mediator, plan *planning.Plan, clock shared.Clock) (time.Time, error) {
	if err := plan.Validate(); err != nil {
		return time.Time{}, err
	}

	if !plan.IsScheduled() {
		resp, err := mediator.Send(ctx, &SchedulePlanCommand{Plan: plan})
		if err != nil {
			return time.Time{}, err
		}
		scheduled, ok := resp.(*SchedulePlanResponse)
		if !ok {
			return time.Time{}, fmt.Errorf("unexpected response type %T", resp)
		}
		return scheduled.Summary.Start, nil
	}

	if start, ok := plan.SimulationStart(); ok {
		return start, nil
	}
	// Jobs placed outside the schedule command carry no start; begin at the earliest one
	start := clock.Now()
	for _, job := range plan.Plant.Jobs() {
		if s, ok := job.StartDate(); ok && s.Before(start) {
			start = s
		}
	}
	return start, nil
}

func resolveScenario(plan *planning.Plan, name string) (planning.Scenario, error) {
	if name == "" || name == planning.BaselineScenario {
		if s, ok := plan.Scenario(planning.BaselineScenario); ok {
			return s, nil
		}
		return planning.Baseline(), nil
	}
	s, ok := plan.Scenario(name)
	if !ok {
		return planning.Scenario{}, shared.NewDomainError(fmt.Sprintf("plan %s has no scenario %q", plan.Name, name))
	}
	return s, nil
}

func loadLedger(ctx context.Context, repo resources.LedgerRepository, plan *planning.Plan, name string) (*resources.Manager, error) {
	if name == "" {
		return plan.Ledger, nil
	}
	if repo == nil {
		return nil, fmt.Errorf("ledger %q requested but no ledger repository is configured", name)
	}
	balances, err := repo.Load(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger %s: %w", name, err)
	}
	return resources.FromBalances(balances), nil
}

// runScenario simulates one scenario and records its metrics
func runScenario(ctx context.Context, plan *planning.Plan, ledger *resources.Manager, scenario planning.Scenario, start time.Time, options planning.SimulationOptions) (*planning.SimulationReport, error) {
	began := time.Now()
	report, err := planning.Simulate(ctx, plan, ledger, scenario, start, options)
	if err != nil {
		return nil, err
	}

	finished := report.Count(production.JobStatusFinished)
	unstarted := report.Count(production.JobStatusNotStarted)
	metrics.RecordSimulation(scenario.Name, report.Ticks, len(report.Jobs)-unstarted, finished, unstarted, time.Since(began).Seconds())
	for _, b := range report.Balances {
		metrics.RecordResourceBalance(scenario.Name, b.Location.String(), b.Type.String(), b.Amount)
	}
	return report, nil
}
