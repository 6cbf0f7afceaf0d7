package commands

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/planning"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// RunWhatIfCommand simulates several scenarios of one plan concurrently.
// Each scenario runs on its own ledger snapshot; the plan's ledger is left untouched.
type RunWhatIfCommand struct {
	Plan *planning.Plan

	// Scenarios lists scenario names; empty runs every scenario of the plan (or the baseline)
	Scenarios []string

	LedgerName string
}

// RunWhatIfResponse carries one report per scenario, in request order
type RunWhatIfResponse struct {
	Reports []*planning.SimulationReport
}

// RunWhatIfHandler handles the RunWhatIf command
type RunWhatIfHandler struct {
	mediator    common.Mediator
	ledgerRepo  resources.LedgerRepository
	clock       shared.Clock
	options     planning.SimulationOptions
	parallelism int
}

// NewRunWhatIfHandler creates a new RunWhatIfHandler running at most parallelism scenarios at once
func NewRunWhatIfHandler(
	mediator common.Mediator,
	ledgerRepo resources.LedgerRepository,
	clock shared.Clock,
	options planning.SimulationOptions,
	parallelism int,
) *RunWhatIfHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if parallelism <= 0 {
		parallelism = 1
	}

	return &RunWhatIfHandler{
		mediator:    mediator,
		ledgerRepo:  ledgerRepo,
		clock:       clock,
		options:     options,
		parallelism: parallelism,
	}
}

// Handle executes the RunWhatIf command
func (h *RunWhatIfHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RunWhatIfCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RunWhatIfCommand")
	}

	start, err := ensureScheduled(ctx, h.mediator, cmd.Plan, h.clock)
	if err != nil {
		return nil, err
	}

	scenarios, err := h.selectScenarios(cmd)
	if err != nil {
		return nil, err
	}

	ledger, err := loadLedger(ctx, h.ledgerRepo, cmd.Plan, cmd.LedgerName)
	if err != nil {
		return nil, err
	}

	logger := common.LoggerFromContext(ctx)
	logger.Log("INFO", fmt.Sprintf("Running %d what-if scenarios for plan %s", len(scenarios), cmd.Plan.Name), map[string]interface{}{
		"plan":        cmd.Plan.Name,
		"scenarios":   len(scenarios),
		"parallelism": h.parallelism,
	})

	reports := make([]*planning.SimulationReport, len(scenarios))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(h.parallelism)

	for i, scenario := range scenarios {
		i, scenario := i, scenario
		g.Go(func() error {
			report, err := runScenario(gctx, cmd.Plan, ledger, scenario, start, h.options)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("what-if run failed: %w", err)
	}

	return &RunWhatIfResponse{Reports: reports}, nil
}

func (h *RunWhatIfHandler) selectScenarios(cmd *RunWhatIfCommand) ([]planning.Scenario, error) {
	if len(cmd.Scenarios) == 0 {
		if len(cmd.Plan.Scenarios) == 0 {
			return []planning.Scenario{planning.Baseline()}, nil
		}
		return cmd.Plan.Scenarios, nil
	}

	out := make([]planning.Scenario, 0, len(cmd.Scenarios))
	for _, name := range cmd.Scenarios {
		s, err := resolveScenario(cmd.Plan, name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
