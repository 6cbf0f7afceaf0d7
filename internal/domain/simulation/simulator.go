package simulation

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
)

const (
	// DefaultResolution is the interval between manual-start checks
	DefaultResolution = time.Minute

	// DefaultHorizon bounds how long manual jobs are polled for
	DefaultHorizon = 30 * 24 * time.Hour
)

// JobSource exposes the scheduled plant to the simulator.
// production.Plant implements it.
type JobSource interface {
	Slots() []*production.FactorySlot
	Job(id production.JobID) (*production.Job, bool)
}

// Option configures a Simulator
type Option func(*Simulator)

// WithResolution sets the interval between manual-start checks
func WithResolution(resolution time.Duration) Option {
	return func(s *Simulator) {
		if resolution > 0 {
			s.resolution = resolution
		}
	}
}

// WithHorizon sets how long after the simulation start manual jobs are polled for
func WithHorizon(horizon time.Duration) Option {
	return func(s *Simulator) {
		if horizon > 0 {
			s.horizon = horizon
		}
	}
}

// WithCatchUp makes AUTOMATIC dependents whose planned start has already passed
// start at the current tick instead of failing with ErrPastScheduling.
func WithCatchUp() Option {
	return func(s *Simulator) {
		s.catchUp = true
	}
}

// jobState is the simulator's side-table entry for one job.
// Jobs themselves are never mutated, so one plant can back several simulations.
type jobState struct {
	job        *production.Job
	slot       *production.FactorySlot
	status     production.JobStatus
	startedAt  time.Time
	finishedAt time.Time
	dependents []production.JobID
}

// JobRun is the observed lifecycle of one job in a finished simulation
type JobRun struct {
	Job          *production.Job
	Slot         *production.FactorySlot
	Status       production.JobStatus
	PlannedStart time.Time
	StartedAt    time.Time
	FinishedAt   time.Time
}

// Started returns true if the job left NOT_STARTED
func (r JobRun) Started() bool {
	return !r.StartedAt.IsZero()
}

// Simulator replays a schedule forward in simulated time.
//
// Lifecycle per job: NOT_STARTED -> PENDING (start action) -> FINISHED (finish action).
// Finishing a job cascades to dependents whose prerequisites are now all FINISHED.
// A simulator is single use.
type Simulator struct {
	listener   Listener
	start      time.Time
	resolution time.Duration
	horizon    time.Duration
	catchUp    bool

	clock   *Clock
	states  map[production.JobID]*jobState
	order   []production.JobID
	ticks   int
	started atomic.Bool
}

// NewSimulator prepares a simulation of every job placed in the source's slots.
// Each job's tracked status moves from PROSPECTIVE to NOT_STARTED.
func NewSimulator(source JobSource, listener Listener, start time.Time, opts ...Option) (*Simulator, error) {
	if listener == nil {
		listener = BaseListener{}
	}
	s := &Simulator{
		listener:   listener,
		start:      start,
		resolution: DefaultResolution,
		horizon:    DefaultHorizon,
		states:     make(map[production.JobID]*jobState),
		order:      make([]production.JobID, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.clock = NewClock(start, s.execute)

	for _, slot := range source.Slots() {
		for _, entry := range slot.Entries() {
			job, ok := source.Job(entry.Job)
			if !ok {
				return nil, &ErrUnknownJob{JobID: entry.Job}
			}
			if err := production.ValidateTransition(job.ID(), job.Status(), production.JobStatusNotStarted); err != nil {
				return nil, err
			}
			s.states[job.ID()] = &jobState{
				job:    job,
				slot:   slot,
				status: production.JobStatusNotStarted,
			}
			s.order = append(s.order, job.ID())
		}
	}

	for _, id := range s.order {
		for _, prereq := range s.states[id].job.Prerequisites() {
			if ps, ok := s.states[prereq]; ok {
				ps.dependents = append(ps.dependents, id)
			}
		}
	}
	return s, nil
}

// Run seeds the clock with every dependency-free job and runs it to completion.
// Any invariant violation stops the simulation and is returned.
func (s *Simulator) Run(ctx context.Context) error {
	if s.started.Swap(true) {
		return &ErrAlreadyStarted{}
	}

	for _, id := range s.order {
		st := s.states[id]
		if st.job.HasPrerequisites() {
			continue
		}
		planned, ok := st.job.StartDate()
		if !ok {
			continue
		}
		if planned.Before(s.start) {
			logrus.Debugf("skipping %s: planned start %s is before simulation start", st.job.Name(), planned.Format(time.RFC3339))
			continue
		}
		if err := s.clock.Schedule(Action{Kind: ActionStart, Job: id, Slot: st.slot.ID()}, planned); err != nil {
			s.clock.Stop()
			return err
		}
	}

	return s.clock.Run(ctx, func(now time.Time) {
		s.ticks++
		s.listener.ClockAdvanced(now)
	})
}

// Stop asks the simulation to halt before its next action
func (s *Simulator) Stop() {
	s.clock.Stop()
}

// EndTime returns the logical time the simulation stopped at
func (s *Simulator) EndTime() (time.Time, error) {
	if !s.clock.Done() {
		return time.Time{}, &ErrSimulationStillRunning{}
	}
	return s.clock.Now(), nil
}

// Ticks returns how many times the clock advanced
func (s *Simulator) Ticks() int {
	return s.ticks
}

// Status returns the simulated status of a job
func (s *Simulator) Status(id production.JobID) (production.JobStatus, error) {
	st, ok := s.states[id]
	if !ok {
		return "", &ErrUnknownJob{JobID: id}
	}
	return st.status, nil
}

// StartedAt returns when the job started, if it did
func (s *Simulator) StartedAt(id production.JobID) (time.Time, bool) {
	st, ok := s.states[id]
	if !ok || st.startedAt.IsZero() {
		return time.Time{}, false
	}
	return st.startedAt, true
}

// FinishedAt returns when the job finished, if it did
func (s *Simulator) FinishedAt(id production.JobID) (time.Time, bool) {
	st, ok := s.states[id]
	if !ok || st.finishedAt.IsZero() {
		return time.Time{}, false
	}
	return st.finishedAt, true
}

// Runs returns the observed lifecycle of every job in slot order
func (s *Simulator) Runs() []JobRun {
	out := make([]JobRun, 0, len(s.order))
	for _, id := range s.order {
		st := s.states[id]
		planned, _ := st.job.StartDate()
		out = append(out, JobRun{
			Job:          st.job,
			Slot:         st.slot,
			Status:       st.status,
			PlannedStart: planned,
			StartedAt:    st.startedAt,
			FinishedAt:   st.finishedAt,
		})
	}
	return out
}

func (s *Simulator) execute(now time.Time, a Action) error {
	st, ok := s.states[a.Job]
	if !ok {
		return &ErrUnknownJob{JobID: a.Job}
	}

	switch a.Kind {
	case ActionStart:
		return s.startJob(now, st)
	case ActionFinish:
		return s.finishJob(now, st)
	case ActionCheckManual:
		return s.checkManual(now, st)
	}
	return nil
}

func (s *Simulator) transition(st *jobState, next production.JobStatus) error {
	if err := production.ValidateTransition(st.job.ID(), st.status, next); err != nil {
		return err
	}
	st.status = next
	return nil
}

func (s *Simulator) startJob(now time.Time, st *jobState) error {
	s.listener.BeforeJobStart(st.job, st.slot, now)
	if err := s.transition(st, production.JobStatusPending); err != nil {
		return err
	}
	st.startedAt = now
	s.listener.AfterJobStart(st.job, st.slot, now)

	return s.clock.Schedule(Action{Kind: ActionFinish, Job: st.job.ID(), Slot: st.slot.ID()}, now.Add(st.job.Duration()))
}

func (s *Simulator) finishJob(now time.Time, st *jobState) error {
	s.listener.BeforeJobEnd(st.job, st.slot, now)
	if err := s.transition(st, production.JobStatusFinished); err != nil {
		return err
	}
	st.finishedAt = now
	s.listener.AfterJobEnd(st.job, st.slot, now)

	return s.cascade(now, st)
}

// cascade schedules every dependent of the finished job whose prerequisites are all FINISHED
func (s *Simulator) cascade(now time.Time, finished *jobState) error {
	for _, id := range finished.dependents {
		dep := s.states[id]
		if dep.status != production.JobStatusNotStarted || !s.prerequisitesFinished(dep) {
			continue
		}

		if dep.job.Mode() == production.JobModeManual {
			if err := s.checkManual(now, dep); err != nil {
				return err
			}
			continue
		}

		at, ok := dep.job.StartDate()
		if !ok || (s.catchUp && at.Before(now)) {
			at = now
		}
		if err := s.clock.Schedule(Action{Kind: ActionStart, Job: id, Slot: dep.slot.ID()}, at); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) prerequisitesFinished(st *jobState) bool {
	for _, prereq := range st.job.Prerequisites() {
		ps, ok := s.states[prereq]
		if !ok || ps.status != production.JobStatusFinished {
			return false
		}
	}
	return true
}

func (s *Simulator) checkManual(now time.Time, st *jobState) error {
	if st.status != production.JobStatusNotStarted {
		return nil
	}
	if s.listener.HasManualJobBeenStarted(st.job, now) {
		return s.clock.Schedule(Action{Kind: ActionStart, Job: st.job.ID(), Slot: st.slot.ID()}, now)
	}

	next := now.Add(s.resolution)
	if next.After(s.start.Add(s.horizon)) {
		logrus.Warnf("manual job %s was never started before the horizon ended", st.job.Name())
		return nil
	}
	return s.clock.Schedule(Action{Kind: ActionCheckManual, Job: st.job.ID(), Slot: st.slot.ID()}, next)
}
