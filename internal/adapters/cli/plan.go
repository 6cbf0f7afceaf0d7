package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/industry-planner/internal/adapters/planfile"
	"github.com/andrescamacho/industry-planner/internal/application/planning/commands"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/config"
)

// NewScheduleCommand creates the schedule command
func NewScheduleCommand() *cobra.Command {
	var (
		planPath string
		persist  bool
		showTree bool
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule a plan onto its factory slots",
		Long: `Schedule every target template of a plan, together with its
prerequisites, onto the factory slots able to run it.

Each job is placed at the earliest gap of the eligible slot that finishes
first, after all of its prerequisite jobs have ended. The schedule is
printed as a table; --tree shows the dependency tree instead.

Examples:
  industry-planner schedule --plan wolves.yaml
  industry-planner schedule --plan wolves.yaml --tree
  industry-planner schedule --plan wolves.yaml --persist`,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := planfile.Load(planPath)
			if err != nil {
				return err
			}

			app, err := newApplication(func(cfg *config.Config) bool {
				return persist || cfg.Planner.PersistSchedules
			})
			if err != nil {
				return err
			}
			defer app.close()

			resp, err := app.mediator.Send(app.context(), &commands.SchedulePlanCommand{
				Plan:    plan,
				Persist: app.db != nil,
			})
			if err != nil {
				return err
			}
			result, ok := resp.(*commands.SchedulePlanResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", resp)
			}

			if showTree {
				fmt.Print(NewTreeFormatter(false).FormatSchedule(result.Summary.Jobs))
				fmt.Println()
				fmt.Println(NewTreeFormatter(false).FormatScheduleSummary(result.Summary))
				return nil
			}
			printSchedule(result.Summary)
			return nil
		},
	}

	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "Path to the plan file (required)")
	cmd.Flags().BoolVar(&persist, "persist", false, "Save the computed schedule to the database")
	cmd.Flags().BoolVar(&showTree, "tree", false, "Print the job dependency tree")
	cmd.MarkFlagRequired("plan")

	return cmd
}

// NewSimulateCommand creates the simulate command
func NewSimulateCommand() *cobra.Command {
	var (
		planPath   string
		scenario   string
		ledgerName string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate a plan under one scenario",
		Long: `Schedule a plan and replay the schedule in simulated time.

Jobs consume their inputs when they start and deliver their outputs when
they finish. The plan's own ledger is used unless --ledger names a ledger
stored in the database. Without --scenario the baseline is simulated.

Examples:
  industry-planner simulate --plan wolves.yaml
  industry-planner simulate --plan wolves.yaml --scenario slow-operator
  industry-planner simulate --plan wolves.yaml --ledger corp`,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := planfile.Load(planPath)
			if err != nil {
				return err
			}

			app, err := newApplication(databaseIf(ledgerName != ""))
			if err != nil {
				return err
			}
			defer app.close()

			resp, err := app.mediator.Send(app.context(), &commands.SimulatePlanCommand{
				Plan:       plan,
				Scenario:   scenario,
				LedgerName: ledgerName,
			})
			if err != nil {
				return err
			}
			result, ok := resp.(*commands.SimulatePlanResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", resp)
			}

			printReport(result.Report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "Path to the plan file (required)")
	cmd.Flags().StringVarP(&scenario, "scenario", "s", "", "Scenario to simulate (default: baseline)")
	cmd.Flags().StringVar(&ledgerName, "ledger", "", "Stored ledger to start from instead of the plan's ledger")
	cmd.MarkFlagRequired("plan")

	return cmd
}

// NewWhatIfCommand creates the whatif command
func NewWhatIfCommand() *cobra.Command {
	var (
		planPath   string
		scenarios  []string
		ledgerName string
	)

	cmd := &cobra.Command{
		Use:   "whatif",
		Short: "Compare scenarios of a plan side by side",
		Long: `Schedule a plan once and simulate it under several scenarios in parallel.

Every scenario runs against its own copy of the ledger. Without --scenario
all scenarios of the plan file are compared, or the baseline alone when
the plan defines none.

Examples:
  industry-planner whatif --plan wolves.yaml
  industry-planner whatif --plan wolves.yaml --scenario baseline --scenario datacore-loss`,
		RunE: func(cmd *cobra.Command, args []string) error {
			plan, err := planfile.Load(planPath)
			if err != nil {
				return err
			}

			app, err := newApplication(databaseIf(ledgerName != ""))
			if err != nil {
				return err
			}
			defer app.close()

			resp, err := app.mediator.Send(app.context(), &commands.RunWhatIfCommand{
				Plan:       plan,
				Scenarios:  scenarios,
				LedgerName: ledgerName,
			})
			if err != nil {
				return err
			}
			result, ok := resp.(*commands.RunWhatIfResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", resp)
			}

			printComparison(result.Reports)
			return nil
		},
	}

	cmd.Flags().StringVarP(&planPath, "plan", "p", "", "Path to the plan file (required)")
	cmd.Flags().StringSliceVarP(&scenarios, "scenario", "s", nil, "Scenarios to compare (repeatable, default: all)")
	cmd.Flags().StringVar(&ledgerName, "ledger", "", "Stored ledger to start from instead of the plan's ledger")
	cmd.MarkFlagRequired("plan")

	return cmd
}
