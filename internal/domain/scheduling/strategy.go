package scheduling

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// DefaultHorizon is the utilization look-ahead window
const DefaultHorizon = 30 * 24 * time.Hour

// FactoryManager supplies the slots to schedule into and owns the job arena.
// production.Plant implements it.
type FactoryManager interface {
	Slots() []*production.FactorySlot
	JobsForTemplate(id production.TemplateID) []*production.Job
	CreateJob(template *production.JobTemplate, slot *production.FactorySlot, prerequisites []production.JobID) *production.Job
}

// StrategyOption configures a SimpleJobSchedulingStrategy
type StrategyOption func(*SimpleJobSchedulingStrategy)

// WithHorizon sets the utilization look-ahead window
func WithHorizon(horizon time.Duration) StrategyOption {
	return func(s *SimpleJobSchedulingStrategy) {
		if horizon > 0 {
			s.horizon = horizon
		}
	}
}

// WithSeparation sets the gap left after a prerequisite or preceding job
func WithSeparation(separation time.Duration) StrategyOption {
	return func(s *SimpleJobSchedulingStrategy) {
		if separation >= 0 {
			s.separation = separation
		}
	}
}

// SimpleJobSchedulingStrategy assigns each template to the least utilized accepting slot
// and places it at the earliest feasible start in that slot.
type SimpleJobSchedulingStrategy struct {
	manager    FactoryManager
	clock      shared.Clock
	horizon    time.Duration
	separation time.Duration
}

// NewSimpleJobSchedulingStrategy creates a strategy scheduling into the manager's slots
func NewSimpleJobSchedulingStrategy(manager FactoryManager, clock shared.Clock, opts ...StrategyOption) *SimpleJobSchedulingStrategy {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	s := &SimpleJobSchedulingStrategy{
		manager:    manager,
		clock:      clock,
		horizon:    DefaultHorizon,
		separation: DefaultSeparation,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Horizon returns the utilization look-ahead window
func (s *SimpleJobSchedulingStrategy) Horizon() time.Duration {
	return s.horizon
}

// Schedule creates one job per template (and per transitive prerequisite) and places it in a slot.
// Returns the created jobs in scheduling order, prerequisites first.
//
// Steps per template, in topological order:
// 1. Collect the accepting slots across all factories (checked for every template up front;
//    ErrNoEligibleSlot when none)
// 2. Pick the slot with the lowest utilization over the horizon, first seen wins ties
// 3. Create the job, wiring the jobs already created for its prerequisite templates
// 4. Resolve the start date by gap finding, never before the latest prerequisite end + separation
// 5. Add the job to the slot
func (s *SimpleJobSchedulingStrategy) Schedule(ctx context.Context, templates []*production.JobTemplate) ([]*production.Job, error) {
	if len(templates) == 0 {
		return nil, &ErrEmptyTemplateList{}
	}

	order, err := BuildDependencyGraph(templates).TopologicalOrder()
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	slots := s.manager.Slots()

	// Every template must have an eligible slot before any job is created,
	// so a failed call leaves the plant untouched.
	for _, template := range order {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !hasEligibleSlot(template, slots) {
			return nil, &ErrNoEligibleSlot{Template: template.Name(), Activity: string(template.Activity())}
		}
	}

	jobs := make([]*production.Job, 0, len(order))
	for _, template := range order {
		slot, err := s.selectSlot(template, slots, now)
		if err != nil {
			return nil, err
		}

		prereqJobs, err := s.prerequisiteJobs(template)
		if err != nil {
			return nil, err
		}
		prereqIDs := make([]production.JobID, 0, len(prereqJobs))
		desired := now
		for _, p := range prereqJobs {
			prereqIDs = append(prereqIDs, p.ID())
			if end, ok := p.EndDate(); ok {
				if earliest := end.Add(s.separation); earliest.After(desired) {
					desired = earliest
				}
			}
		}

		job := s.manager.CreateJob(template, slot, prereqIDs)
		start := FindStartDate(slot.Entries(), desired, job.Duration(), s.separation)
		if err := job.ScheduleAt(start); err != nil {
			return nil, err
		}
		if err := slot.Add(job); err != nil {
			return nil, fmt.Errorf("failed to place %s: %w", job.Name(), err)
		}

		logrus.Debugf("scheduled %s in %s at %s (duration %s)", job.Name(), slot.QualifiedName(), start.Format(time.RFC3339), job.Duration())
		jobs = append(jobs, job)
	}

	return jobs, nil
}

func (s *SimpleJobSchedulingStrategy) selectSlot(template *production.JobTemplate, slots []*production.FactorySlot, now time.Time) (*production.FactorySlot, error) {
	var best *production.FactorySlot
	bestUtilization := 0.0

	for _, slot := range slots {
		if !slot.Accepts(template) {
			continue
		}
		u := slot.Utilization(now, s.horizon)
		if best == nil || u < bestUtilization {
			best = slot
			bestUtilization = u
		}
	}

	if best == nil {
		return nil, &ErrNoEligibleSlot{Template: template.Name(), Activity: string(template.Activity())}
	}
	return best, nil
}

func hasEligibleSlot(template *production.JobTemplate, slots []*production.FactorySlot) bool {
	for _, slot := range slots {
		if slot.Accepts(template) {
			return true
		}
	}
	return false
}

// prerequisiteJobs returns the latest job created for each prerequisite template
func (s *SimpleJobSchedulingStrategy) prerequisiteJobs(template *production.JobTemplate) ([]*production.Job, error) {
	prereqs := template.Prerequisites()
	out := make([]*production.Job, 0, len(prereqs))
	for _, p := range prereqs {
		existing := s.manager.JobsForTemplate(p.ID())
		if len(existing) == 0 {
			return nil, &ErrMissingPrerequisiteJob{Template: template.Name(), Prerequisite: p.Name()}
		}
		out = append(out, existing[len(existing)-1])
	}
	return out, nil
}
