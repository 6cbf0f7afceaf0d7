package cli

import (
	"fmt"
	"strings"

	"github.com/andrescamacho/industry-planner/internal/application/planning"
)

// TreeFormatter renders the prerequisite tree of a schedule.
// Target jobs are the roots; every job lists the jobs it waits for as children.
type TreeFormatter struct {
	useColors bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors bool) *TreeFormatter {
	return &TreeFormatter{useColors: useColors}
}

// FormatSchedule renders one tree per job that no other job depends on
func (f *TreeFormatter) FormatSchedule(jobs []planning.ScheduledJob) string {
	if len(jobs) == 0 {
		return "(empty schedule)\n"
	}

	byName := make(map[string]planning.ScheduledJob, len(jobs))
	required := make(map[string]bool, len(jobs))
	for _, j := range jobs {
		byName[j.Name] = j
		for _, p := range j.Prerequisites {
			required[p] = true
		}
	}

	var builder strings.Builder
	for _, j := range jobs {
		if required[j.Name] {
			continue
		}
		f.formatNode(&builder, j, byName, "", true, true)
	}
	return builder.String()
}

// formatNode recursively formats a job and its prerequisites
func (f *TreeFormatter) formatNode(builder *strings.Builder, job planning.ScheduledJob, byName map[string]planning.ScheduledJob, prefix string, isLast bool, isRoot bool) {
	var linePrefix string
	if isRoot {
		linePrefix = ""
	} else if isLast {
		linePrefix = prefix + "└── "
	} else {
		linePrefix = prefix + "├── "
	}

	slotText := ""
	if job.Slot != "" {
		slotText = fmt.Sprintf(" @ %s", job.Slot)
	}

	fmt.Fprintf(builder, "%s%s [%s%s%s%s] %s → %s%s\n",
		linePrefix,
		job.Name,
		f.activityColor(job.Activity),
		job.Activity,
		f.colorReset(),
		f.modeText(job.Mode),
		job.Start.Format(timeLayout),
		job.End.Format(timeLayout),
		slotText,
	)

	var childPrefix string
	if isRoot {
		childPrefix = ""
	} else if isLast {
		childPrefix = prefix + "    "
	} else {
		childPrefix = prefix + "│   "
	}

	children := make([]planning.ScheduledJob, 0, len(job.Prerequisites))
	for _, name := range job.Prerequisites {
		if child, ok := byName[name]; ok {
			children = append(children, child)
		}
	}
	for i, child := range children {
		f.formatNode(builder, child, byName, childPrefix, i == len(children)-1, false)
	}
}

func (f *TreeFormatter) modeText(mode string) string {
	if mode == "" || mode == "AUTOMATIC" {
		return ""
	}
	return ", " + mode
}

// activityColor returns the ANSI color code for an activity
func (f *TreeFormatter) activityColor(activity string) string {
	if !f.useColors {
		return ""
	}

	switch activity {
	case "MANUFACTURING":
		return "\033[32m" // Green
	case "INVENTION":
		return "\033[35m" // Magenta
	case "COPYING":
		return "\033[36m" // Cyan
	default:
		return "\033[33m" // Yellow
	}
}

func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

// FormatScheduleSummary creates a compact one-line summary of a schedule
func (f *TreeFormatter) FormatScheduleSummary(s *planning.ScheduleSummary) string {
	if s == nil {
		return "No schedule"
	}

	manual := 0
	activities := make(map[string]int)
	for _, j := range s.Jobs {
		if j.Mode == "MANUAL" {
			manual++
		}
		activities[j.Activity]++
	}

	return fmt.Sprintf(
		"Schedule: %d jobs (%d manual) across %d activities, makespan=%s, cost=%s",
		len(s.Jobs), manual, len(activities), formatDuration(s.Makespan()), s.TotalCost.StringFixed(2),
	)
}
