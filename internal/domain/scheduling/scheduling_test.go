package scheduling_test

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
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func define(t *testing.T, c *production.TemplateCatalog, name string, activity production.Activity, runs int, perRun time.Duration, prereqs ...*production.JobTemplate) *production.JobTemplate {
	t.Helper()
	tpl, err := c.Define(production.TemplateSpec{
		Name:          name,
		Activity:      activity,
		Runs:          runs,
		TimePerRun:    perRun,
		Prerequisites: prereqs,
	})
	require.NoError(t, err)
	return tpl
}

func addSlot(t *testing.T, plant *production.Plant, factory *production.Factory, name string, activities ...production.Activity) *production.FactorySlot {
	t.Helper()
	slot, err := plant.AddSlot(factory, production.SlotSpec{
		Name: name,
		Type: production.NewActivitySlotType(name, activities...),
	})
	require.NoError(t, err)
	return slot
}

func names(templates []*production.JobTemplate) []string {
	out := make([]string, len(templates))
	for i, tpl := range templates {
		out[i] = tpl.Name()
	}
	return out
}

func start(t *testing.T, job *production.Job) time.Time {
	t.Helper()
	s, ok := job.StartDate()
	require.True(t, ok)
	return s
}

func end(t *testing.T, job *production.Job) time.Time {
	t.Helper()
	e, ok := job.EndDate()
	require.True(t, ok)
	return e
}

func TestBuildDependencyGraph_PullsInPrerequisitesTransitively(t *testing.T) {
	c := production.NewTemplateCatalog()
	ore := define(t, c, "Ore", production.ActivityManufacturing, 1, time.Minute)
	plate := define(t, c, "Plate", production.ActivityManufacturing, 1, time.Minute, ore)
	hull := define(t, c, "Hull", production.ActivityManufacturing, 1, time.Minute, plate, ore)

	g := scheduling.BuildDependencyGraph([]*production.JobTemplate{hull, hull})

	assert.Equal(t, 3, g.Len())
	assert.Equal(t, 3, g.EdgeCount())
	assert.True(t, g.Contains(ore.ID()))

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"Ore", "Plate", "Hull"}, names(order))
}

func TestTopologicalOrder_StableForIndependentTemplates(t *testing.T) {
	c := production.NewTemplateCatalog()
	a := define(t, c, "A", production.ActivityCopying, 1, time.Minute)
	b := define(t, c, "B", production.ActivityCopying, 1, time.Minute)
	d := define(t, c, "D", production.ActivityInvention, 1, time.Minute, b)

	for i := 0; i < 5; i++ {
		order, err := scheduling.BuildDependencyGraph([]*production.JobTemplate{d, a}).TopologicalOrder()
		require.NoError(t, err)
		assert.Equal(t, []string{"B", "D", "A"}, names(order))
	}
}

func TestTopologicalOrder_RejectsCycle(t *testing.T) {
	c := production.NewTemplateCatalog()
	a := define(t, c, "A", production.ActivityCopying, 1, time.Minute)
	b := define(t, c, "B", production.ActivityCopying, 1, time.Minute, a)
	require.NoError(t, c.AddPrerequisite(a, b))

	_, err := scheduling.BuildDependencyGraph([]*production.JobTemplate{a}).TopologicalOrder()

	var cyclic *scheduling.ErrCyclicDependency
	require.True(t, errors.As(err, &cyclic))
	assert.Equal(t, []string{"A", "B", "A"}, cyclic.Cycle)
}

func TestFindStartDate(t *testing.T) {
	entry := func(from, to time.Duration) production.SlotEntry {
		return production.SlotEntry{Start: t0.Add(from), End: t0.Add(to)}
	}

	tests := []struct {
		name     string
		entries  []production.SlotEntry
		desired  time.Time
		duration time.Duration
		want     time.Time
	}{
		{
			name:     "empty slot starts at desired",
			desired:  t0,
			duration: time.Hour,
			want:     t0,
		},
		{
			name:     "single job running at desired",
			entries:  []production.SlotEntry{entry(-time.Hour, time.Hour)},
			desired:  t0,
			duration: time.Hour,
			want:     t0.Add(time.Hour + time.Second),
		},
		{
			name:     "single job in the future appends after it",
			entries:  []production.SlotEntry{entry(time.Hour, 2*time.Hour)},
			desired:  t0,
			duration: 10 * time.Minute,
			want:     t0.Add(2*time.Hour + time.Second),
		},
		{
			name:     "single job in the past never starts before desired",
			entries:  []production.SlotEntry{entry(-2*time.Hour, -time.Hour)},
			desired:  t0,
			duration: time.Hour,
			want:     t0,
		},
		{
			name:     "first fitting gap",
			entries:  []production.SlotEntry{entry(0, time.Hour), entry(90*time.Minute, 2*time.Hour), entry(4*time.Hour, 5*time.Hour)},
			desired:  t0,
			duration: time.Hour,
			want:     t0.Add(2 * time.Hour),
		},
		{
			name:     "gap starting before desired is skipped",
			entries:  []production.SlotEntry{entry(0, time.Hour), entry(3*time.Hour, 4*time.Hour)},
			desired:  t0.Add(2 * time.Hour),
			duration: 30 * time.Minute,
			want:     t0.Add(4*time.Hour + time.Second),
		},
		{
			name:     "no gap fits appends at tail",
			entries:  []production.SlotEntry{entry(0, time.Hour), entry(70*time.Minute, 2*time.Hour)},
			desired:  t0,
			duration: time.Hour,
			want:     t0.Add(2*time.Hour + time.Second),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scheduling.FindStartDate(tt.entries, tt.desired, tt.duration, time.Second)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSchedule_CopyThenInvent(t *testing.T) {
	// Arrange
	c := production.NewTemplateCatalog()
	copyTpl := define(t, c, "Copy", production.ActivityCopying, 10, time.Minute)
	invent := define(t, c, "Invent", production.ActivityInvention, 1, 30*time.Minute, copyTpl)

	plant := production.NewPlant()
	lab, err := plant.AddFactory("Lab")
	require.NoError(t, err)
	addSlot(t, plant, lab, "copy", production.ActivityCopying)
	addSlot(t, plant, lab, "invent", production.ActivityInvention)

	strategy := scheduling.NewSimpleJobSchedulingStrategy(plant, shared.NewMockClock(t0))

	// Act
	jobs, err := strategy.Schedule(context.Background(), []*production.JobTemplate{invent})

	// Assert
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	copyJob, inventJob := jobs[0], jobs[1]
	assert.Equal(t, "Copy", copyJob.Template().Name())
	assert.Equal(t, t0, start(t, copyJob))
	assert.Equal(t, t0.Add(10*time.Minute+time.Second), start(t, inventJob))
	assert.Equal(t, []production.JobID{copyJob.ID()}, inventJob.Prerequisites())
	assert.Equal(t, production.JobStatusProspective, inventJob.Status())
	assert.NotEqual(t, copyJob.Slot(), inventJob.Slot())
}

func TestSchedule_PrerequisitesAlwaysFinishFirst(t *testing.T) {
	c := production.NewTemplateCatalog()
	ore := define(t, c, "Ore", production.ActivityManufacturing, 3, 20*time.Minute)
	plate := define(t, c, "Plate", production.ActivityManufacturing, 2, 15*time.Minute, ore)
	wire := define(t, c, "Wire", production.ActivityManufacturing, 1, 45*time.Minute, ore)
	hull := define(t, c, "Hull", production.ActivityManufacturing, 1, time.Hour, plate, wire)

	plant := production.NewPlant()
	yard, err := plant.AddFactory("Yard")
	require.NoError(t, err)
	addSlot(t, plant, yard, "a", production.ActivityManufacturing)
	addSlot(t, plant, yard, "b", production.ActivityManufacturing)

	jobs, err := scheduling.NewSimpleJobSchedulingStrategy(plant, shared.NewMockClock(t0)).
		Schedule(context.Background(), []*production.JobTemplate{hull})
	require.NoError(t, err)
	require.Len(t, jobs, 4)

	for _, job := range jobs {
		for _, prereqID := range job.Prerequisites() {
			prereq, ok := plant.Job(prereqID)
			require.True(t, ok)
			assert.False(t, start(t, job).Before(end(t, prereq).Add(time.Second)),
				"%s must start after %s ends", job.Name(), prereq.Name())
		}
	}

	for _, slot := range plant.Slots() {
		entries := slot.Entries()
		for i := 1; i < len(entries); i++ {
			assert.False(t, entries[i].Start.Before(entries[i-1].End), "entries overlap in %s", slot.QualifiedName())
		}
	}
}

func TestSchedule_LeastUtilizedSlotWinsAndTiesGoToFirst(t *testing.T) {
	c := production.NewTemplateCatalog()
	first := define(t, c, "First", production.ActivityCopying, 1, time.Hour)
	second := define(t, c, "Second", production.ActivityCopying, 1, time.Hour)

	plant := production.NewPlant()
	lab, err := plant.AddFactory("Lab")
	require.NoError(t, err)
	s1 := addSlot(t, plant, lab, "s1", production.ActivityCopying)
	s2 := addSlot(t, plant, lab, "s2", production.ActivityCopying)

	jobs, err := scheduling.NewSimpleJobSchedulingStrategy(plant, shared.NewMockClock(t0)).
		Schedule(context.Background(), []*production.JobTemplate{first, second})
	require.NoError(t, err)

	require.Len(t, jobs, 2)
	assert.Equal(t, s1.ID(), jobs[0].Slot())
	assert.Equal(t, s2.ID(), jobs[1].Slot())
	assert.Equal(t, t0, start(t, jobs[1]))
}

func TestSchedule_Errors(t *testing.T) {
	c := production.NewTemplateCatalog()
	copyTpl := define(t, c, "Copy", production.ActivityCopying, 1, time.Minute)
	loopA := define(t, c, "LoopA", production.ActivityCopying, 1, time.Minute)
	loopB := define(t, c, "LoopB", production.ActivityCopying, 1, time.Minute, loopA)
	require.NoError(t, c.AddPrerequisite(loopA, loopB))

	plant := production.NewPlant()
	lab, err := plant.AddFactory("Lab")
	require.NoError(t, err)
	addSlot(t, plant, lab, "invent", production.ActivityInvention)
	strategy := scheduling.NewSimpleJobSchedulingStrategy(plant, shared.NewMockClock(t0))

	_, err = strategy.Schedule(context.Background(), nil)
	var empty *scheduling.ErrEmptyTemplateList
	assert.True(t, errors.As(err, &empty))

	_, err = strategy.Schedule(context.Background(), []*production.JobTemplate{copyTpl})
	var noSlot *scheduling.ErrNoEligibleSlot
	require.True(t, errors.As(err, &noSlot))
	assert.Equal(t, "Copy", noSlot.Template)

	_, err = strategy.Schedule(context.Background(), []*production.JobTemplate{loopB})
	var cyclic *scheduling.ErrCyclicDependency
	assert.True(t, errors.As(err, &cyclic))

	assert.Empty(t, plant.Jobs(), "failed scheduling must not create jobs")
}

func TestSchedule_MissingSlotForLaterTemplateLeavesPlantUntouched(t *testing.T) {
	c := production.NewTemplateCatalog()
	copyTpl := define(t, c, "Copy", production.ActivityCopying, 10, time.Minute)
	invent := define(t, c, "Invent", production.ActivityInvention, 1, 30*time.Minute, copyTpl)

	plant := production.NewPlant()
	lab, err := plant.AddFactory("Lab")
	require.NoError(t, err)
	copySlot := addSlot(t, plant, lab, "copy", production.ActivityCopying)

	_, err = scheduling.NewSimpleJobSchedulingStrategy(plant, shared.NewMockClock(t0)).
		Schedule(context.Background(), []*production.JobTemplate{invent})

	var noSlot *scheduling.ErrNoEligibleSlot
	require.True(t, errors.As(err, &noSlot))
	assert.Equal(t, "Invent", noSlot.Template)
	assert.Empty(t, plant.Jobs())
	assert.Equal(t, 0, copySlot.Len())
}

func TestSchedule_HonoursCancelledContext(t *testing.T) {
	c := production.NewTemplateCatalog()
	copyTpl := define(t, c, "Copy", production.ActivityCopying, 1, time.Minute)
	plant := production.NewPlant()
	lab, err := plant.AddFactory("Lab")
	require.NoError(t, err)
	addSlot(t, plant, lab, "copy", production.ActivityCopying)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = scheduling.NewSimpleJobSchedulingStrategy(plant, shared.NewMockClock(t0)).
		Schedule(ctx, []*production.JobTemplate{copyTpl})
	assert.ErrorIs(t, err, context.Canceled)
}
