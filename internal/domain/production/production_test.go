package production_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
)

var (
	t0       = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	hangar   = production.NewProductionLocation(60003760, "Jita IV - Moon 4")
	trit     = production.NewResourceType(34, "Tritanium")
	pyerite  = production.NewResourceType(35, "Pyerite")
	rifterBP = production.NewResourceType(691, "Rifter Blueprint Copy")
)

func newPlantWithSlot(t *testing.T, activities ...production.Activity) (*production.Plant, *production.FactorySlot) {
	t.Helper()
	plant := production.NewPlant()
	factory, err := plant.AddFactory("Jita")
	require.NoError(t, err)
	slot, err := plant.AddSlot(factory, production.SlotSpec{
		Name:           "line-1",
		Type:           production.NewActivitySlotType("line", activities...),
		InputLocation:  hangar,
		OutputLocation: hangar,
	})
	require.NoError(t, err)
	return plant, slot
}

func defineTemplate(t *testing.T, catalog *production.TemplateCatalog, name string, activity production.Activity, runs int, perRun time.Duration, prereqs ...*production.JobTemplate) *production.JobTemplate {
	t.Helper()
	tpl, err := catalog.Define(production.TemplateSpec{
		Name:          name,
		Activity:      activity,
		Runs:          runs,
		TimePerRun:    perRun,
		CostPerRun:    decimal.NewFromInt(100),
		Prerequisites: prereqs,
	})
	require.NoError(t, err)
	return tpl
}

func TestJobStatus_TransitionTable(t *testing.T) {
	tests := []struct {
		from    production.JobStatus
		to      production.JobStatus
		allowed bool
	}{
		{production.JobStatusProspective, production.JobStatusNotStarted, true},
		{production.JobStatusNotStarted, production.JobStatusPending, true},
		{production.JobStatusPending, production.JobStatusFinished, true},
		{production.JobStatusProspective, production.JobStatusPending, false},
		{production.JobStatusPending, production.JobStatusNotStarted, false},
		{production.JobStatusFinished, production.JobStatusPending, false},
		{production.JobStatusFinished, production.JobStatusFinished, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))

			err := production.ValidateTransition(7, tt.from, tt.to)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			var illegal *production.ErrIllegalStateTransition
			require.True(t, errors.As(err, &illegal))
			assert.Equal(t, production.JobID(7), illegal.JobID)
		})
	}
}

func TestTemplateCatalog_DefineValidates(t *testing.T) {
	catalog := production.NewTemplateCatalog()

	_, err := catalog.Define(production.TemplateSpec{Name: "", Activity: production.ActivityCopying, Runs: 1})
	assert.Error(t, err)

	_, err = catalog.Define(production.TemplateSpec{Name: "Copy", Activity: production.ActivityCopying, Runs: 0})
	assert.Error(t, err)

	_, err = catalog.Define(production.TemplateSpec{Name: "Copy", Activity: "SMELTING", Runs: 1})
	assert.Error(t, err)

	copyTpl, err := catalog.Define(production.TemplateSpec{Name: "Copy", Activity: production.ActivityCopying, Runs: 1})
	require.NoError(t, err)
	assert.Equal(t, production.JobModeAutomatic, copyTpl.Mode())

	_, err = catalog.Define(production.TemplateSpec{Name: "Copy", Activity: production.ActivityCopying, Runs: 1})
	assert.Error(t, err, "duplicate names are rejected")
}

func TestTemplateCatalog_AddPrerequisiteDeduplicates(t *testing.T) {
	catalog := production.NewTemplateCatalog()
	copyTpl := defineTemplate(t, catalog, "Copy", production.ActivityCopying, 1, time.Minute)
	invent := defineTemplate(t, catalog, "Invent", production.ActivityInvention, 1, time.Minute)

	require.NoError(t, catalog.AddPrerequisite(invent, copyTpl))
	require.NoError(t, catalog.AddPrerequisite(invent, copyTpl))

	assert.Len(t, invent.Prerequisites(), 1)

	other := production.NewTemplateCatalog()
	foreign := defineTemplate(t, other, "Foreign", production.ActivityCopying, 1, time.Minute)
	var foreignErr *production.ErrForeignTemplate
	assert.True(t, errors.As(catalog.AddPrerequisite(invent, foreign), &foreignErr))
}

func TestJobTemplate_DurationAndCostScaleWithSlot(t *testing.T) {
	catalog := production.NewTemplateCatalog()
	tpl := defineTemplate(t, catalog, "Rifter", production.ActivityManufacturing, 10, 6*time.Minute)

	plant := production.NewPlant()
	factory, err := plant.AddFactory("Amarr")
	require.NoError(t, err)
	slot, err := plant.AddSlot(factory, production.SlotSpec{
		Name:           "fast",
		Type:           production.NewActivitySlotType("mfg", production.ActivityManufacturing),
		TimeMultiplier: 0.75,
		CostMultiplier: decimal.RequireFromString("1.5"),
	})
	require.NoError(t, err)

	assert.Equal(t, 60*time.Minute, tpl.Duration(nil))
	assert.Equal(t, 45*time.Minute, tpl.Duration(slot))
	assert.True(t, decimal.NewFromInt(1500).Equal(tpl.Cost(slot)))
}

func TestFactorySlot_AddKeepsEntriesSortedAndRejectsOverlap(t *testing.T) {
	catalog := production.NewTemplateCatalog()
	tpl := defineTemplate(t, catalog, "Copy", production.ActivityCopying, 10, time.Minute)
	plant, slot := newPlantWithSlot(t, production.ActivityCopying)

	late := plant.CreateJob(tpl, slot, nil)
	require.NoError(t, late.ScheduleAt(t0.Add(time.Hour)))
	require.NoError(t, slot.Add(late))

	early := plant.CreateJob(tpl, slot, nil)
	require.NoError(t, early.ScheduleAt(t0))
	require.NoError(t, slot.Add(early))

	touching := plant.CreateJob(tpl, slot, nil)
	require.NoError(t, touching.ScheduleAt(t0.Add(10*time.Minute)))
	require.NoError(t, slot.Add(touching), "a job may start exactly where another ends")

	overlapping := plant.CreateJob(tpl, slot, nil)
	require.NoError(t, overlapping.ScheduleAt(t0.Add(55*time.Minute)))
	err := slot.Add(overlapping)

	var overlap *production.ErrSlotOverlap
	require.True(t, errors.As(err, &overlap))
	assert.Equal(t, late.ID(), overlap.ConflictsID)

	entries := slot.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, early.ID(), entries[0].Job)
	assert.Equal(t, touching.ID(), entries[1].Job)
	assert.Equal(t, late.ID(), entries[2].Job)
	assert.Equal(t, slot.ID(), early.Slot())
	assert.Equal(t, production.NoSlot, overlapping.Slot())
}

func TestFactorySlot_AddRequiresStartDate(t *testing.T) {
	catalog := production.NewTemplateCatalog()
	tpl := defineTemplate(t, catalog, "Copy", production.ActivityCopying, 1, time.Minute)
	plant, slot := newPlantWithSlot(t, production.ActivityCopying)

	job := plant.CreateJob(tpl, slot, nil)

	var notScheduled *production.ErrJobNotScheduled
	assert.True(t, errors.As(slot.Add(job), &notScheduled))
}

func TestFactorySlot_Utilization(t *testing.T) {
	catalog := production.NewTemplateCatalog()
	tpl := defineTemplate(t, catalog, "Copy", production.ActivityCopying, 6, time.Hour)
	plant, slot := newPlantWithSlot(t, production.ActivityCopying)

	assert.Zero(t, slot.Utilization(t0, 24*time.Hour))

	// 6h job starting 3h before the window: only 3h count
	job := plant.CreateJob(tpl, slot, nil)
	require.NoError(t, job.ScheduleAt(t0.Add(-3*time.Hour)))
	require.NoError(t, slot.Add(job))

	assert.InDelta(t, 3.0/24.0, slot.Utilization(t0, 24*time.Hour), 1e-9)
}

func TestJob_ProductionCapabilityResolvedFromRecipe(t *testing.T) {
	catalog := production.NewTemplateCatalog()
	withRecipe, err := catalog.Define(production.TemplateSpec{
		Name:       "Rifter",
		Activity:   production.ActivityManufacturing,
		Runs:       3,
		TimePerRun: time.Hour,
		Recipe: production.NewRecipe(
			[]production.ResourceAmount{{Type: trit, Quantity: 100}, {Type: pyerite, Quantity: 20}},
			[]production.ResourceAmount{{Type: rifterBP, Quantity: 1}},
		),
	})
	require.NoError(t, err)
	without := defineTemplate(t, catalog, "Research", production.ActivityResearchTime, 1, time.Hour)

	plant, slot := newPlantWithSlot(t, production.ActivityManufacturing, production.ActivityResearchTime)

	job := plant.CreateJob(withRecipe, slot, []production.JobID{4, 4})
	prod, ok := job.Production()
	require.True(t, ok)
	assert.Equal(t, []production.ResourceAmount{{Type: trit, Quantity: 300}, {Type: pyerite, Quantity: 60}}, prod.RequiredResources())
	assert.Equal(t, []production.ResourceAmount{{Type: rifterBP, Quantity: 3}}, prod.ProducedResources())
	assert.Equal(t, []production.JobID{4}, job.Prerequisites(), "duplicate prerequisites collapse")

	_, ok = plant.CreateJob(without, slot, nil).Production()
	assert.False(t, ok)
}

func TestPlant_JobsForTemplateAndSlotsOrder(t *testing.T) {
	catalog := production.NewTemplateCatalog()
	tpl := defineTemplate(t, catalog, "Copy", production.ActivityCopying, 1, time.Minute)

	plant := production.NewPlant()
	a, err := plant.AddFactory("A")
	require.NoError(t, err)
	b, err := plant.AddFactory("B")
	require.NoError(t, err)
	copyType := production.NewActivitySlotType("copy", production.ActivityCopying)

	b1, err := plant.AddSlot(b, production.SlotSpec{Name: "b1", Type: copyType})
	require.NoError(t, err)
	a1, err := plant.AddSlot(a, production.SlotSpec{Name: "a1", Type: copyType})
	require.NoError(t, err)

	slots := plant.Slots()
	require.Len(t, slots, 2)
	assert.Equal(t, a1.ID(), slots[0].ID(), "slots are listed factory by factory")
	assert.Equal(t, b1.ID(), slots[1].ID())

	first := plant.CreateJob(tpl, a1, nil)
	second := plant.CreateJob(tpl, b1, nil)
	jobs := plant.JobsForTemplate(tpl.ID())
	require.Len(t, jobs, 2)
	assert.Equal(t, first.ID(), jobs[0].ID())
	assert.Equal(t, second.ID(), jobs[1].ID())

	_, err = plant.AddFactory("A")
	assert.Error(t, err)
}
