package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/andrescamacho/industry-planner/internal/application/planning"
)

// MockScheduleRepository is a test double for the ScheduleRepository interface
type MockScheduleRepository struct {
	mu        sync.RWMutex
	schedules []*planning.ScheduleSummary
}

// NewMockScheduleRepository creates a new mock schedule repository
func NewMockScheduleRepository() *MockScheduleRepository {
	return &MockScheduleRepository{}
}

// Save stores a schedule summary
func (m *MockScheduleRepository) Save(ctx context.Context, summary *planning.ScheduleSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schedules = append(m.schedules, summary)
	return nil
}

// FindByID retrieves a schedule by ID
func (m *MockScheduleRepository) FindByID(ctx context.Context, id uuid.UUID) (*planning.ScheduleSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.schedules {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, fmt.Errorf("schedule not found: %s", id)
}

// ListByPlan returns the schedules of a plan, newest first
func (m *MockScheduleRepository) ListByPlan(ctx context.Context, planName string) ([]*planning.ScheduleSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*planning.ScheduleSummary, 0)
	for i := len(m.schedules) - 1; i >= 0; i-- {
		if m.schedules[i].PlanName == planName {
			out = append(out, m.schedules[i])
		}
	}
	return out, nil
}

// Count returns how many schedules were saved
func (m *MockScheduleRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.schedules)
}

var _ planning.ScheduleRepository = (*MockScheduleRepository)(nil)
