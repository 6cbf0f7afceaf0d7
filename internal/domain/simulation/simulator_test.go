package simulation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/scheduling"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
	"github.com/andrescamacho/industry-planner/internal/domain/simulation"
)

type event struct {
	kind string
	job  string
	at   time.Time
}

// recordingListener captures every callback; manual jobs start once startAfter has passed
type recordingListener struct {
	simulation.BaseListener
	events     []event
	advances   []time.Time
	startAfter time.Time
	polls      int
}

func (l *recordingListener) ClockAdvanced(now time.Time) {
	l.advances = append(l.advances, now)
}

func (l *recordingListener) BeforeJobStart(job *production.Job, _ *production.FactorySlot, now time.Time) {
	l.events = append(l.events, event{"before-start", job.Template().Name(), now})
}

func (l *recordingListener) AfterJobStart(job *production.Job, _ *production.FactorySlot, now time.Time) {
	l.events = append(l.events, event{"after-start", job.Template().Name(), now})
}

func (l *recordingListener) BeforeJobEnd(job *production.Job, _ *production.FactorySlot, now time.Time) {
	l.events = append(l.events, event{"before-end", job.Template().Name(), now})
}

func (l *recordingListener) AfterJobEnd(job *production.Job, _ *production.FactorySlot, now time.Time) {
	l.events = append(l.events, event{"after-end", job.Template().Name(), now})
}

func (l *recordingListener) HasManualJobBeenStarted(_ *production.Job, now time.Time) bool {
	l.polls++
	return !now.Before(l.startAfter)
}

func (l *recordingListener) count(kind string) int {
	n := 0
	for _, e := range l.events {
		if e.kind == kind {
			n++
		}
	}
	return n
}

func (l *recordingListener) first(kind, job string) (time.Time, bool) {
	for _, e := range l.events {
		if e.kind == kind && e.job == job {
			return e.at, true
		}
	}
	return time.Time{}, false
}

type fixture struct {
	catalog *production.TemplateCatalog
	plant   *production.Plant
	factory *production.Factory
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	plant := production.NewPlant()
	factory, err := plant.AddFactory("Lab")
	require.NoError(t, err)
	return &fixture{catalog: production.NewTemplateCatalog(), plant: plant, factory: factory}
}

func (f *fixture) slot(t *testing.T, name string, activities ...production.Activity) *production.FactorySlot {
	t.Helper()
	slot, err := f.plant.AddSlot(f.factory, production.SlotSpec{Name: name, Type: production.NewActivitySlotType(name, activities...)})
	require.NoError(t, err)
	return slot
}

func (f *fixture) template(t *testing.T, spec production.TemplateSpec) *production.JobTemplate {
	t.Helper()
	tpl, err := f.catalog.Define(spec)
	require.NoError(t, err)
	return tpl
}

// place creates a job at an explicit start date, bypassing the scheduling strategy
func (f *fixture) place(t *testing.T, tpl *production.JobTemplate, slot *production.FactorySlot, at time.Time, prereqs ...*production.Job) *production.Job {
	t.Helper()
	ids := make([]production.JobID, 0, len(prereqs))
	for _, p := range prereqs {
		ids = append(ids, p.ID())
	}
	job := f.plant.CreateJob(tpl, slot, ids)
	require.NoError(t, job.ScheduleAt(at))
	require.NoError(t, slot.Add(job))
	return job
}

func TestSimulator_CopyThenInventEndToEnd(t *testing.T) {
	// Arrange
	f := newFixture(t)
	f.slot(t, "copy", production.ActivityCopying)
	f.slot(t, "invent", production.ActivityInvention)
	copyTpl := f.template(t, production.TemplateSpec{Name: "Copy", Activity: production.ActivityCopying, Runs: 10, TimePerRun: time.Minute})
	invent := f.template(t, production.TemplateSpec{Name: "Invent", Activity: production.ActivityInvention, Runs: 1, TimePerRun: 20 * time.Minute, Prerequisites: []*production.JobTemplate{copyTpl}})

	jobs, err := scheduling.NewSimpleJobSchedulingStrategy(f.plant, shared.NewMockClock(t0)).
		Schedule(context.Background(), []*production.JobTemplate{invent})
	require.NoError(t, err)

	listener := &recordingListener{}
	sim, err := simulation.NewSimulator(f.plant, listener, t0)
	require.NoError(t, err)

	// Act
	require.NoError(t, sim.Run(context.Background()))

	// Assert
	assert.Equal(t, 2, listener.count("after-end"), "one finish per job")
	assert.Equal(t, []time.Time{
		t0.Add(10 * time.Minute),
		t0.Add(10*time.Minute + time.Second),
		t0.Add(30*time.Minute + time.Second),
	}, listener.advances)
	assert.Equal(t, 3, sim.Ticks())

	inventStart, ok := listener.first("after-start", "Invent")
	require.True(t, ok)
	assert.Equal(t, t0.Add(10*time.Minute+time.Second), inventStart)

	for _, job := range jobs {
		status, err := sim.Status(job.ID())
		require.NoError(t, err)
		assert.Equal(t, production.JobStatusFinished, status)
		assert.Equal(t, production.JobStatusProspective, job.Status(), "the job itself is not mutated")
	}

	end, err := sim.EndTime()
	require.NoError(t, err)
	assert.Equal(t, t0.Add(30*time.Minute+time.Second), end)

	assert.Equal(t, []string{"before-start", "after-start", "before-end", "after-end"},
		[]string{listener.events[0].kind, listener.events[1].kind, listener.events[2].kind, listener.events[3].kind})
}

func TestSimulator_DependentWaitsForLastPrerequisite(t *testing.T) {
	f := newFixture(t)
	a := f.slot(t, "a", production.ActivityManufacturing)
	b := f.slot(t, "b", production.ActivityManufacturing)
	c := f.slot(t, "c", production.ActivityManufacturing)
	short := f.template(t, production.TemplateSpec{Name: "Short", Activity: production.ActivityManufacturing, Runs: 1, TimePerRun: 10 * time.Minute})
	long := f.template(t, production.TemplateSpec{Name: "Long", Activity: production.ActivityManufacturing, Runs: 1, TimePerRun: time.Hour})
	final := f.template(t, production.TemplateSpec{Name: "Final", Activity: production.ActivityManufacturing, Runs: 1, TimePerRun: time.Minute})

	shortJob := f.place(t, short, a, t0)
	longJob := f.place(t, long, b, t0)
	finalJob := f.place(t, final, c, t0.Add(time.Hour+time.Second), shortJob, longJob)

	listener := &recordingListener{}
	sim, err := simulation.NewSimulator(f.plant, listener, t0)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	started, ok := sim.StartedAt(finalJob.ID())
	require.True(t, ok)
	longFinished, ok := sim.FinishedAt(longJob.ID())
	require.True(t, ok)
	assert.Equal(t, t0.Add(time.Hour), longFinished)
	assert.Equal(t, t0.Add(time.Hour+time.Second), started)
	assert.Equal(t, 3, listener.count("after-start"), "final starts exactly once")
}

func TestSimulator_ManualJobPolledUntilStarted(t *testing.T) {
	f := newFixture(t)
	copySlot := f.slot(t, "copy", production.ActivityCopying)
	inventSlot := f.slot(t, "invent", production.ActivityInvention)
	copyTpl := f.template(t, production.TemplateSpec{Name: "Copy", Activity: production.ActivityCopying, Runs: 1, TimePerRun: 10 * time.Minute})
	invent := f.template(t, production.TemplateSpec{Name: "Invent", Activity: production.ActivityInvention, Runs: 1, TimePerRun: 10 * time.Minute, Mode: production.JobModeManual})

	copyJob := f.place(t, copyTpl, copySlot, t0)
	inventJob := f.place(t, invent, inventSlot, t0.Add(10*time.Minute+time.Second), copyJob)

	listener := &recordingListener{startAfter: t0.Add(13 * time.Minute)}
	sim, err := simulation.NewSimulator(f.plant, listener, t0, simulation.WithResolution(time.Minute))
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	started, ok := sim.StartedAt(inventJob.ID())
	require.True(t, ok)
	assert.Equal(t, t0.Add(13*time.Minute), started)
	assert.Equal(t, 4, listener.polls, "polled at finish and at +1m, +2m, +3m")
}

func TestSimulator_ManualJobAbandonedAtHorizon(t *testing.T) {
	f := newFixture(t)
	copySlot := f.slot(t, "copy", production.ActivityCopying)
	inventSlot := f.slot(t, "invent", production.ActivityInvention)
	copyTpl := f.template(t, production.TemplateSpec{Name: "Copy", Activity: production.ActivityCopying, Runs: 1, TimePerRun: 10 * time.Minute})
	invent := f.template(t, production.TemplateSpec{Name: "Invent", Activity: production.ActivityInvention, Runs: 1, TimePerRun: time.Minute, Mode: production.JobModeManual})

	copyJob := f.place(t, copyTpl, copySlot, t0)
	inventJob := f.place(t, invent, inventSlot, t0.Add(10*time.Minute+time.Second), copyJob)

	listener := &recordingListener{startAfter: t0.Add(48 * time.Hour)}
	sim, err := simulation.NewSimulator(f.plant, listener, t0,
		simulation.WithResolution(time.Hour), simulation.WithHorizon(24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	status, err := sim.Status(inventJob.ID())
	require.NoError(t, err)
	assert.Equal(t, production.JobStatusNotStarted, status)
	_, ok := sim.StartedAt(inventJob.ID())
	assert.False(t, ok)
}

func TestSimulator_AutomaticDependentInThePast(t *testing.T) {
	build := func(t *testing.T) *fixture {
		f := newFixture(t)
		a := f.slot(t, "a", production.ActivityManufacturing)
		b := f.slot(t, "b", production.ActivityManufacturing)
		first := f.template(t, production.TemplateSpec{Name: "First", Activity: production.ActivityManufacturing, Runs: 1, TimePerRun: time.Hour})
		second := f.template(t, production.TemplateSpec{Name: "Second", Activity: production.ActivityManufacturing, Runs: 1, TimePerRun: time.Minute})
		firstJob := f.place(t, first, a, t0)
		f.place(t, second, b, t0.Add(30*time.Minute), firstJob)
		return f
	}

	t.Run("fails by default", func(t *testing.T) {
		f := build(t)
		sim, err := simulation.NewSimulator(f.plant, nil, t0)
		require.NoError(t, err)

		err = sim.Run(context.Background())

		var past *simulation.ErrPastScheduling
		assert.True(t, errors.As(err, &past))
	})

	t.Run("catch up starts at the current tick", func(t *testing.T) {
		f := build(t)
		sim, err := simulation.NewSimulator(f.plant, nil, t0, simulation.WithCatchUp())
		require.NoError(t, err)

		require.NoError(t, sim.Run(context.Background()))

		started, ok := sim.StartedAt(production.JobID(1))
		require.True(t, ok)
		assert.Equal(t, t0.Add(time.Hour), started)
	})
}

func TestSimulator_SkipsRootJobsBeforeStart(t *testing.T) {
	f := newFixture(t)
	a := f.slot(t, "a", production.ActivityCopying)
	tpl := f.template(t, production.TemplateSpec{Name: "Old", Activity: production.ActivityCopying, Runs: 1, TimePerRun: time.Minute})
	old := f.place(t, tpl, a, t0.Add(-time.Hour))

	sim, err := simulation.NewSimulator(f.plant, nil, t0)
	require.NoError(t, err)
	require.NoError(t, sim.Run(context.Background()))

	status, err := sim.Status(old.ID())
	require.NoError(t, err)
	assert.Equal(t, production.JobStatusNotStarted, status)
}

func TestSimulator_SingleUseAndEndTimeGuards(t *testing.T) {
	f := newFixture(t)
	a := f.slot(t, "a", production.ActivityCopying)
	tpl := f.template(t, production.TemplateSpec{Name: "Copy", Activity: production.ActivityCopying, Runs: 1, TimePerRun: time.Minute})
	f.place(t, tpl, a, t0)

	sim, err := simulation.NewSimulator(f.plant, nil, t0)
	require.NoError(t, err)

	_, err = sim.EndTime()
	var running *simulation.ErrSimulationStillRunning
	assert.True(t, errors.As(err, &running))

	require.NoError(t, sim.Run(context.Background()))

	err = sim.Run(context.Background())
	var already *simulation.ErrAlreadyStarted
	assert.True(t, errors.As(err, &already))

	_, err = sim.Status(99)
	var unknown *simulation.ErrUnknownJob
	assert.True(t, errors.As(err, &unknown))
}

func TestSimulator_StopFromListener(t *testing.T) {
	f := newFixture(t)
	a := f.slot(t, "a", production.ActivityCopying)
	tpl := f.template(t, production.TemplateSpec{Name: "Copy", Activity: production.ActivityCopying, Runs: 1, TimePerRun: time.Minute})
	first := f.place(t, tpl, a, t0)
	second := f.place(t, tpl, a, t0.Add(time.Hour))

	var sim *simulation.Simulator
	listener := &stoppingListener{stop: func() { sim.Stop() }}
	var err error
	sim, err = simulation.NewSimulator(f.plant, listener, t0)
	require.NoError(t, err)

	require.NoError(t, sim.Run(context.Background()))

	status, err := sim.Status(first.ID())
	require.NoError(t, err)
	assert.Equal(t, production.JobStatusPending, status)
	status, err = sim.Status(second.ID())
	require.NoError(t, err)
	assert.Equal(t, production.JobStatusNotStarted, status)

	end, err := sim.EndTime()
	require.NoError(t, err)
	assert.Equal(t, t0, end)
}

type stoppingListener struct {
	simulation.BaseListener
	stop func()
}

func (l *stoppingListener) AfterJobStart(*production.Job, *production.FactorySlot, time.Time) {
	l.stop()
}

func TestSimulator_RejectsJobsAlreadySimulated(t *testing.T) {
	f := newFixture(t)
	a := f.slot(t, "a", production.ActivityCopying)
	tpl := f.template(t, production.TemplateSpec{Name: "Copy", Activity: production.ActivityCopying, Runs: 1, TimePerRun: time.Minute})
	job := f.place(t, tpl, a, t0)
	require.NoError(t, job.TransitionTo(production.JobStatusNotStarted))

	_, err := simulation.NewSimulator(f.plant, nil, t0)

	var illegal *production.ErrIllegalStateTransition
	assert.True(t, errors.As(err, &illegal))
}
