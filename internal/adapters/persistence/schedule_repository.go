package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andrescamacho/industry-planner/internal/application/planning"
)

// GormScheduleRepository implements ScheduleRepository using GORM
type GormScheduleRepository struct {
	db *gorm.DB
}

// NewGormScheduleRepository creates a new GORM schedule repository
func NewGormScheduleRepository(db *gorm.DB) *GormScheduleRepository {
	return &GormScheduleRepository{db: db}
}

// Save persists a schedule summary together with its jobs
func (r *GormScheduleRepository) Save(ctx context.Context, summary *planning.ScheduleSummary) error {
	model, err := r.summaryToModel(summary)
	if err != nil {
		return fmt.Errorf("failed to convert schedule to model: %w", err)
	}

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save schedule: %w", result.Error)
	}
	return nil
}

// FindByID retrieves a schedule by its ID
func (r *GormScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*planning.ScheduleSummary, error) {
	var model ScheduleModel
	result := r.db.WithContext(ctx).
		Preload("Jobs", func(db *gorm.DB) *gorm.DB { return db.Order("job_id") }).
		Where("id = ?", id.String()).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("schedule not found: %s", id)
		}
		return nil, fmt.Errorf("failed to find schedule: %w", result.Error)
	}

	return r.modelToSummary(&model)
}

// ListByPlan retrieves every schedule of a plan, newest first
func (r *GormScheduleRepository) ListByPlan(ctx context.Context, planName string) ([]*planning.ScheduleSummary, error) {
	var models []ScheduleModel
	result := r.db.WithContext(ctx).
		Preload("Jobs", func(db *gorm.DB) *gorm.DB { return db.Order("job_id") }).
		Where("plan_name = ?", planName).
		Order("computed_at DESC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", result.Error)
	}

	summaries := make([]*planning.ScheduleSummary, 0, len(models))
	for i := range models {
		s, err := r.modelToSummary(&models[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}

func (r *GormScheduleRepository) summaryToModel(s *planning.ScheduleSummary) (*ScheduleModel, error) {
	slotsJSON, err := json.Marshal(s.Slots)
	if err != nil {
		return nil, err
	}

	model := &ScheduleModel{
		ID:             s.ID.String(),
		PlanName:       s.PlanName,
		ComputedAt:     s.ComputedAt,
		StartAt:        s.Start,
		EndAt:          s.End,
		HorizonSeconds: int64(s.Horizon / time.Second),
		TotalCost:      s.TotalCost.String(),
		Slots:          string(slotsJSON),
		Jobs:           make([]ScheduledJobModel, 0, len(s.Jobs)),
	}

	for _, j := range s.Jobs {
		prereqJSON, err := json.Marshal(j.Prerequisites)
		if err != nil {
			return nil, err
		}
		model.Jobs = append(model.Jobs, ScheduledJobModel{
			ScheduleID:    model.ID,
			JobID:         j.JobID,
			Name:          j.Name,
			Template:      j.Template,
			Activity:      j.Activity,
			Mode:          j.Mode,
			Slot:          j.Slot,
			Runs:          j.Runs,
			StartAt:       j.Start,
			EndAt:         j.End,
			Cost:          j.Cost.String(),
			Prerequisites: string(prereqJSON),
		})
	}
	return model, nil
}

func (r *GormScheduleRepository) modelToSummary(m *ScheduleModel) (*planning.ScheduleSummary, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid schedule id %q: %w", m.ID, err)
	}
	totalCost, err := decimal.NewFromString(m.TotalCost)
	if err != nil {
		return nil, fmt.Errorf("invalid total cost %q: %w", m.TotalCost, err)
	}

	var slots []planning.SlotUtilization
	if m.Slots != "" {
		if err := json.Unmarshal([]byte(m.Slots), &slots); err != nil {
			return nil, fmt.Errorf("failed to unmarshal slots: %w", err)
		}
	}

	summary := &planning.ScheduleSummary{
		ID:         id,
		PlanName:   m.PlanName,
		ComputedAt: m.ComputedAt.UTC(),
		Start:      m.StartAt.UTC(),
		End:        m.EndAt.UTC(),
		Horizon:    time.Duration(m.HorizonSeconds) * time.Second,
		TotalCost:  totalCost,
		Jobs:       make([]planning.ScheduledJob, 0, len(m.Jobs)),
		Slots:      slots,
	}

	for _, j := range m.Jobs {
		cost, err := decimal.NewFromString(j.Cost)
		if err != nil {
			return nil, fmt.Errorf("invalid cost of job %s: %w", j.Name, err)
		}
		var prereqs []string
		if j.Prerequisites != "" {
			if err := json.Unmarshal([]byte(j.Prerequisites), &prereqs); err != nil {
				return nil, fmt.Errorf("failed to unmarshal prerequisites of job %s: %w", j.Name, err)
			}
		}
		summary.Jobs = append(summary.Jobs, planning.ScheduledJob{
			JobID:         j.JobID,
			Name:          j.Name,
			Template:      j.Template,
			Activity:      j.Activity,
			Mode:          j.Mode,
			Slot:          j.Slot,
			Runs:          j.Runs,
			Start:         j.StartAt.UTC(),
			End:           j.EndAt.UTC(),
			Cost:          cost,
			Prerequisites: prereqs,
		})
	}
	return summary, nil
}

var _ planning.ScheduleRepository = (*GormScheduleRepository)(nil)
