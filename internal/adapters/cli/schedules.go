package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/industry-planner/internal/application/planning/queries"
)

// NewSchedulesCommand creates the schedules command with subcommands
func NewSchedulesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedules",
		Short: "Inspect persisted schedules",
		Long: `List and display schedules saved with 'schedule --persist'.

Examples:
  industry-planner schedules list --plan wolves
  industry-planner schedules show 0b9e2c1e-5a55-4f57-9d4b-3f8f3b0a9c11 --tree`,
	}

	cmd.AddCommand(newSchedulesListCommand())
	cmd.AddCommand(newSchedulesShowCommand())

	return cmd
}

func newSchedulesListCommand() *cobra.Command {
	var planName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the schedules of a plan, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(databaseIf(true))
			if err != nil {
				return err
			}
			defer app.close()

			resp, err := app.mediator.Send(app.context(), &queries.GetScheduleQuery{PlanName: planName})
			if err != nil {
				return err
			}
			result, ok := resp.(*queries.GetScheduleResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", resp)
			}
			if len(result.Schedules) == 0 {
				fmt.Printf("No schedules stored for plan %s\n", planName)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCOMPUTED\tJOBS\tSTART\tMAKESPAN\tTOTAL COST")
			fmt.Fprintln(w, "--\t--------\t----\t-----\t--------\t----------")
			for _, s := range result.Schedules {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n",
					s.ID,
					s.ComputedAt.Format(timeLayout),
					len(s.Jobs),
					s.Start.Format(timeLayout),
					formatDuration(s.Makespan()),
					s.TotalCost.StringFixed(2),
				)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVarP(&planName, "plan", "p", "", "Plan name (required)")
	cmd.MarkFlagRequired("plan")

	return cmd
}

func newSchedulesShowCommand() *cobra.Command {
	var showTree bool

	cmd := &cobra.Command{
		Use:   "show <schedule-id>",
		Short: "Show one persisted schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(databaseIf(true))
			if err != nil {
				return err
			}
			defer app.close()

			resp, err := app.mediator.Send(app.context(), &queries.GetScheduleQuery{ScheduleID: args[0]})
			if err != nil {
				return err
			}
			result, ok := resp.(*queries.GetScheduleResponse)
			if !ok || len(result.Schedules) != 1 {
				return fmt.Errorf("unexpected response %T", resp)
			}

			summary := result.Schedules[0]
			if showTree {
				formatter := NewTreeFormatter(false)
				fmt.Print(formatter.FormatSchedule(summary.Jobs))
				fmt.Println()
				fmt.Println(formatter.FormatScheduleSummary(summary))
				return nil
			}
			printSchedule(summary)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showTree, "tree", false, "Print the job dependency tree")

	return cmd
}
