package cli

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/andrescamacho/industry-planner/internal/application/planning"
	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
)

const timeLayout = "2006-01-02 15:04:05"

// printSchedule displays the jobs of a schedule followed by slot utilization
func printSchedule(s *planning.ScheduleSummary) {
	fmt.Printf("Schedule %s (plan %s)\n", s.ID, s.PlanName)
	fmt.Printf("Start: %s  End: %s  Makespan: %s  Total cost: %s\n\n",
		s.Start.Format(timeLayout), s.End.Format(timeLayout), formatDuration(s.Makespan()), s.TotalCost.StringFixed(2))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tJOB\tACTIVITY\tMODE\tSLOT\tRUNS\tSTART\tEND\tCOST\tAFTER")
	fmt.Fprintln(w, "--\t---\t--------\t----\t----\t----\t-----\t---\t----\t-----")
	for _, j := range s.Jobs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
			j.JobID,
			j.Name,
			j.Activity,
			j.Mode,
			j.Slot,
			j.Runs,
			j.Start.Format(timeLayout),
			j.End.Format(timeLayout),
			j.Cost.StringFixed(2),
			strings.Join(j.Prerequisites, ", "),
		)
	}
	w.Flush()

	if len(s.Slots) == 0 {
		return
	}
	fmt.Printf("\nSlot utilization over %s:\n", formatDuration(s.Horizon))
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLOT\tJOBS\tUTILIZATION")
	for _, slot := range s.Slots {
		fmt.Fprintf(w, "%s\t%d\t%.1f%%\n", slot.Slot, slot.Jobs, slot.Utilization*100)
	}
	w.Flush()
}

// printReport displays the outcome of one simulation run
func printReport(r *planning.SimulationReport) {
	fmt.Printf("Scenario %s (manual jobs: %s)\n", r.Scenario, r.Policy)
	fmt.Printf("Simulated %s to %s in %d ticks\n\n", r.Start.Format(timeLayout), r.End.Format(timeLayout), r.Ticks)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tSLOT\tSTATUS\tPLANNED\tSTARTED\tFINISHED\tDELAY")
	fmt.Fprintln(w, "---\t----\t------\t-------\t-------\t--------\t-----")
	for _, j := range r.Jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			j.Name,
			j.Slot,
			j.Status,
			j.PlannedStart.Format(timeLayout),
			formatOptionalTime(j.StartedAt),
			formatOptionalTime(j.FinishedAt),
			formatDuration(j.Delay()),
		)
	}
	w.Flush()

	fmt.Println("\nEnding balances:")
	printBalances(r.Balances)

	if len(r.Shortfalls) > 0 {
		fmt.Printf("\n%d shortfalls:\n", len(r.Shortfalls))
		printBalances(r.Shortfalls)
	}
}

// printComparison displays one row per what-if scenario
func printComparison(reports []*planning.SimulationReport) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tPOLICY\tFINISHED\tPENDING\tNOT STARTED\tEND\tMAX DELAY\tSHORTFALLS")
	fmt.Fprintln(w, "--------\t------\t--------\t-------\t-----------\t---\t---------\t----------")
	for _, r := range reports {
		var maxDelay time.Duration
		for _, j := range r.Jobs {
			if d := j.Delay(); d > maxDelay {
				maxDelay = d
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%s\t%s\t%d\n",
			r.Scenario,
			r.Policy,
			r.Count(production.JobStatusFinished),
			r.Count(production.JobStatusPending),
			r.Count(production.JobStatusNotStarted),
			r.End.Format(timeLayout),
			formatDuration(maxDelay),
			len(r.Shortfalls),
		)
	}
	w.Flush()
}

// printBalances displays ledger cells grouped by location order
func printBalances(balances []resources.Resource) {
	if len(balances) == 0 {
		fmt.Println("  (none)")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "  LOCATION\tRESOURCE\tAMOUNT")
	for _, b := range balances {
		fmt.Fprintf(w, "  %s\t%s\t%d\n", b.Location.Name, b.Type.Name, b.Amount)
	}
	w.Flush()
}

func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeLayout)
}

// formatDuration renders a duration as "1d 2h 3m 4s", dropping zero parts
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	hours := d / time.Hour
	d -= hours * time.Hour
	minutes := d / time.Minute
	d -= minutes * time.Minute
	seconds := d / time.Second

	parts := make([]string, 0, 4)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	if _, has := u.User.Password(); has {
		u.User = url.UserPassword(u.User.Username(), "****")
	}
	return u.String()
}
