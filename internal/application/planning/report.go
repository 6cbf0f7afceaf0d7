package planning

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
)

// ScheduledJob is the persisted, presentation-friendly view of one scheduled job
type ScheduledJob struct {
	JobID         int
	Name          string
	Template      string
	Activity      string
	Mode          string
	Slot          string
	Runs          int
	Start         time.Time
	End           time.Time
	Cost          decimal.Decimal
	Prerequisites []string
}

// Duration returns End - Start
func (j ScheduledJob) Duration() time.Duration {
	return j.End.Sub(j.Start)
}

// SlotUtilization is one slot's busy fraction over the planning horizon
type SlotUtilization struct {
	Slot        string
	Jobs        int
	Utilization float64
}

// ScheduleSummary describes a computed schedule
type ScheduleSummary struct {
	ID         uuid.UUID
	PlanName   string
	ComputedAt time.Time
	Start      time.Time
	End        time.Time
	Horizon    time.Duration
	TotalCost  decimal.Decimal
	Jobs       []ScheduledJob
	Slots      []SlotUtilization
}

// Makespan returns the time from the plan start to the last job end
func (s *ScheduleSummary) Makespan() time.Duration {
	if s.End.Before(s.Start) {
		return 0
	}
	return s.End.Sub(s.Start)
}

// Summarize builds the summary of the jobs placed in the plant
func Summarize(planName string, plant *production.Plant, jobs []*production.Job, start time.Time, horizon time.Duration) *ScheduleSummary {
	summary := &ScheduleSummary{
		ID:         uuid.New(),
		PlanName:   planName,
		ComputedAt: time.Now().UTC(),
		Start:      start,
		End:        start,
		Horizon:    horizon,
		TotalCost:  decimal.Zero,
		Jobs:       make([]ScheduledJob, 0, len(jobs)),
		Slots:      make([]SlotUtilization, 0),
	}

	for _, job := range jobs {
		jobStart, _ := job.StartDate()
		jobEnd, _ := job.EndDate()
		slotName := ""
		if slot, ok := plant.Slot(job.Slot()); ok {
			slotName = slot.QualifiedName()
		}
		prereqs := make([]string, 0, len(job.Prerequisites()))
		for _, id := range job.Prerequisites() {
			if p, ok := plant.Job(id); ok {
				prereqs = append(prereqs, p.Name())
			}
		}

		summary.Jobs = append(summary.Jobs, ScheduledJob{
			JobID:         int(job.ID()),
			Name:          job.Name(),
			Template:      job.Template().Name(),
			Activity:      string(job.Template().Activity()),
			Mode:          string(job.Mode()),
			Slot:          slotName,
			Runs:          job.Runs(),
			Start:         jobStart,
			End:           jobEnd,
			Cost:          job.Cost(),
			Prerequisites: prereqs,
		})
		summary.TotalCost = summary.TotalCost.Add(job.Cost())
		if jobEnd.After(summary.End) {
			summary.End = jobEnd
		}
	}

	for _, slot := range plant.Slots() {
		summary.Slots = append(summary.Slots, SlotUtilization{
			Slot:        slot.QualifiedName(),
			Jobs:        slot.Len(),
			Utilization: slot.Utilization(start, horizon),
		})
	}
	return summary
}

// ScheduleRepository persists computed schedules
type ScheduleRepository interface {
	Save(ctx context.Context, summary *ScheduleSummary) error
	FindByID(ctx context.Context, id uuid.UUID) (*ScheduleSummary, error)
	ListByPlan(ctx context.Context, planName string) ([]*ScheduleSummary, error)
}

// JobOutcome is what happened to one job in a simulation
type JobOutcome struct {
	Name         string
	Slot         string
	Status       production.JobStatus
	PlannedStart time.Time
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Delay returns how late the job started compared to the schedule
func (o JobOutcome) Delay() time.Duration {
	if o.StartedAt.IsZero() || !o.StartedAt.After(o.PlannedStart) {
		return 0
	}
	return o.StartedAt.Sub(o.PlannedStart)
}

// SimulationReport is the result of simulating a schedule under one scenario
type SimulationReport struct {
	RunID      uuid.UUID
	Scenario   string
	Policy     string
	Start      time.Time
	End        time.Time
	Ticks      int
	Jobs       []JobOutcome
	Balances   []resources.Resource
	Shortfalls []resources.Resource
}

// Count returns how many jobs ended the run in the given status
func (r *SimulationReport) Count(status production.JobStatus) int {
	n := 0
	for _, j := range r.Jobs {
		if j.Status == status {
			n++
		}
	}
	return n
}

// Completed returns true when every job finished
func (r *SimulationReport) Completed() bool {
	return r.Count(production.JobStatusFinished) == len(r.Jobs)
}
