package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/industry-planner/internal/adapters/metrics"
	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/planning"
	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/scheduling"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// SchedulePlanCommand assigns every target template of a plan to a slot and start date
type SchedulePlanCommand struct {
	Plan *planning.Plan

	// Persist saves the resulting summary through the schedule repository
	Persist bool
}

// SchedulePlanResponse carries the created jobs and their summary
type SchedulePlanResponse struct {
	Jobs    []*production.Job
	Summary *planning.ScheduleSummary
}

// SchedulePlanHandler handles the SchedulePlan command
type SchedulePlanHandler struct {
	scheduleRepo planning.ScheduleRepository
	clock        shared.Clock
	horizon      time.Duration
}

// NewSchedulePlanHandler creates a new SchedulePlanHandler.
// scheduleRepo may be nil when schedules are never persisted.
func NewSchedulePlanHandler(
	scheduleRepo planning.ScheduleRepository,
	clock shared.Clock,
	horizon time.Duration,
) *SchedulePlanHandler {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if horizon <= 0 {
		horizon = scheduling.DefaultHorizon
	}

	return &SchedulePlanHandler{
		scheduleRepo: scheduleRepo,
		clock:        clock,
		horizon:      horizon,
	}
}

// Handle executes the SchedulePlan command
func (h *SchedulePlanHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SchedulePlanCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SchedulePlanCommand")
	}
	if err := cmd.Plan.Validate(); err != nil {
		return nil, err
	}
	if cmd.Plan.IsScheduled() {
		return nil, shared.NewDomainError(fmt.Sprintf("plan %s is already scheduled", cmd.Plan.Name))
	}

	logger := common.LoggerFromContext(ctx)
	plan := cmd.Plan

	clock := h.clock
	if !plan.Start.IsZero() {
		clock = shared.NewFixedClock(plan.Start)
	}
	start := clock.Now()

	strategy := scheduling.NewSimpleJobSchedulingStrategy(plan.Plant, clock, scheduling.WithHorizon(h.horizon))

	began := time.Now()
	jobs, err := strategy.Schedule(ctx, plan.Targets)
	if err != nil {
		logger.Log("ERROR", fmt.Sprintf("Scheduling plan %s failed: %v", plan.Name, err), map[string]interface{}{
			"plan": plan.Name,
		})
		return nil, fmt.Errorf("failed to schedule plan %s: %w", plan.Name, err)
	}
	elapsed := time.Since(began)
	plan.ScheduledAt = start

	summary := planning.Summarize(plan.Name, plan.Plant, jobs, start, h.horizon)

	metrics.RecordSchedule(plan.Name, len(jobs), elapsed.Seconds())
	for _, slot := range summary.Slots {
		metrics.RecordSlotUtilization(plan.Name, slot.Slot, slot.Utilization)
	}

	logger.Log("INFO", fmt.Sprintf("Scheduled %d jobs for plan %s", len(jobs), plan.Name), map[string]interface{}{
		"plan":       plan.Name,
		"jobs":       len(jobs),
		"makespan":   summary.Makespan().String(),
		"total_cost": summary.TotalCost.StringFixed(2),
	})

	if cmd.Persist && h.scheduleRepo != nil {
		if err := h.scheduleRepo.Save(ctx, summary); err != nil {
			return nil, fmt.Errorf("failed to persist schedule: %w", err)
		}
	}

	return &SchedulePlanResponse{
		Jobs:    jobs,
		Summary: summary,
	}, nil
}
