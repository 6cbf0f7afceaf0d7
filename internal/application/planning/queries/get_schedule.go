package queries

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/planning"
)

// GetScheduleQuery loads saved schedules, either one by ID or all schedules of a plan
type GetScheduleQuery struct {
	ScheduleID string
	PlanName   string
}

// GetScheduleResponse lists the matching schedules, newest first
type GetScheduleResponse struct {
	Schedules []*planning.ScheduleSummary
}

// GetScheduleHandler handles the GetSchedule query
type GetScheduleHandler struct {
	scheduleRepo planning.ScheduleRepository
}

// NewGetScheduleHandler creates a new GetScheduleHandler
func NewGetScheduleHandler(scheduleRepo planning.ScheduleRepository) *GetScheduleHandler {
	return &GetScheduleHandler{scheduleRepo: scheduleRepo}
}

// Handle executes the GetSchedule query
func (h *GetScheduleHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetScheduleQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetScheduleQuery")
	}

	if query.ScheduleID != "" {
		id, err := uuid.Parse(query.ScheduleID)
		if err != nil {
			return nil, fmt.Errorf("invalid schedule id %q: %w", query.ScheduleID, err)
		}
		summary, err := h.scheduleRepo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		return &GetScheduleResponse{Schedules: []*planning.ScheduleSummary{summary}}, nil
	}

	if query.PlanName == "" {
		return nil, fmt.Errorf("either schedule id or plan name is required")
	}
	schedules, err := h.scheduleRepo.ListByPlan(ctx, query.PlanName)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules of %s: %w", query.PlanName, err)
	}
	return &GetScheduleResponse{Schedules: schedules}, nil
}
