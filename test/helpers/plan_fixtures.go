package helpers

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/industry-planner/internal/application/planning"
	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
)

// Resource types and location shared by test plans
var (
	TestHangar    = production.NewProductionLocation(60003760, "Jita Hangar")
	Tritanium     = production.NewResourceType(34, "Tritanium")
	Datacore      = production.NewResourceType(20418, "Datacore")
	RifterBPC     = production.NewResourceType(691, "Rifter BPC")
	WolfBPC       = production.NewResourceType(11371, "Wolf BPC")
	TestPlanStart = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
)

// TestPlanBuilder assembles plans for tests. Slots store inputs and outputs in TestHangar.
// The first error sticks and is returned by Build.
type TestPlanBuilder struct {
	plan      *planning.Plan
	factories map[string]*production.Factory
	err       error
}

// NewTestPlanBuilder starts an empty plan pinned to start
func NewTestPlanBuilder(name string, start time.Time) *TestPlanBuilder {
	return &TestPlanBuilder{
		plan: &planning.Plan{
			Name:    name,
			Catalog: production.NewTemplateCatalog(),
			Plant:   production.NewPlant(),
			Ledger:  resources.NewManager(),
			Start:   start,
		},
		factories: make(map[string]*production.Factory),
	}
}

// WithSlot adds a slot accepting the given activities to a factory, creating the factory on first use
func (b *TestPlanBuilder) WithSlot(factory, slot string, activities ...production.Activity) *TestPlanBuilder {
	if b.err != nil {
		return b
	}
	f, ok := b.factories[factory]
	if !ok {
		f, b.err = b.plan.Plant.AddFactory(factory)
		if b.err != nil {
			return b
		}
		b.factories[factory] = f
	}
	_, b.err = b.plan.Plant.AddSlot(f, production.SlotSpec{
		Name:           slot,
		Type:           production.NewActivitySlotType(slot, activities...),
		InputLocation:  TestHangar,
		OutputLocation: TestHangar,
	})
	return b
}

// WithTemplate defines a template; prerequisites are looked up by name and must already exist
func (b *TestPlanBuilder) WithTemplate(spec production.TemplateSpec, prerequisites ...string) *TestPlanBuilder {
	if b.err != nil {
		return b
	}
	for _, name := range prerequisites {
		p, ok := b.plan.Catalog.FindByName(name)
		if !ok {
			b.err = fmt.Errorf("unknown prerequisite template %q", name)
			return b
		}
		spec.Prerequisites = append(spec.Prerequisites, p)
	}
	_, b.err = b.plan.Catalog.Define(spec)
	return b
}

// WithTargets marks templates, by name, as the plan's targets
func (b *TestPlanBuilder) WithTargets(names ...string) *TestPlanBuilder {
	if b.err != nil {
		return b
	}
	for _, name := range names {
		t, ok := b.plan.Catalog.FindByName(name)
		if !ok {
			b.err = fmt.Errorf("unknown target template %q", name)
			return b
		}
		b.plan.Targets = append(b.plan.Targets, t)
	}
	return b
}

// WithBalance adds to the plan ledger at TestHangar
func (b *TestPlanBuilder) WithBalance(resourceType production.ResourceType, amount int64) *TestPlanBuilder {
	b.plan.Ledger.Produce(resourceType, TestHangar, amount)
	return b
}

// WithScenario appends a what-if scenario
func (b *TestPlanBuilder) WithScenario(s planning.Scenario) *TestPlanBuilder {
	b.plan.Scenarios = append(b.plan.Scenarios, s)
	return b
}

// Plan returns the plan being built, even when incomplete
func (b *TestPlanBuilder) Plan() *planning.Plan {
	return b.plan
}

// Build returns the plan or the first error met while building it
func (b *TestPlanBuilder) Build() (*planning.Plan, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.plan, nil
}

// CreateCopyInventPlan builds the two-step plan used across tests:
// "Copy" (10 runs x 1m, 100 Tritanium -> 1 Rifter BPC per run) followed by
// "Invent" (1 run x 30m, 10 Rifter BPC + 8 Datacore -> 1 Wolf BPC) in inventMode,
// with one copy slot and one invention slot in the "Lab" factory.
func CreateCopyInventPlan(start time.Time, inventMode production.JobMode) (*planning.Plan, error) {
	return NewTestPlanBuilder("wolves", start).
		WithSlot("Lab", "copy", production.ActivityCopying).
		WithSlot("Lab", "invent", production.ActivityInvention).
		WithTemplate(production.TemplateSpec{
			Name:       "Copy",
			Activity:   production.ActivityCopying,
			Runs:       10,
			TimePerRun: time.Minute,
			CostPerRun: decimal.NewFromInt(1000),
			Recipe: production.NewRecipe(
				[]production.ResourceAmount{{Type: Tritanium, Quantity: 100}},
				[]production.ResourceAmount{{Type: RifterBPC, Quantity: 1}},
			),
		}).
		WithTemplate(production.TemplateSpec{
			Name:       "Invent",
			Activity:   production.ActivityInvention,
			Runs:       1,
			Mode:       inventMode,
			TimePerRun: 30 * time.Minute,
			CostPerRun: decimal.NewFromInt(5000),
			Recipe: production.NewRecipe(
				[]production.ResourceAmount{{Type: RifterBPC, Quantity: 10}, {Type: Datacore, Quantity: 8}},
				[]production.ResourceAmount{{Type: WolfBPC, Quantity: 1}},
			),
		}, "Copy").
		WithTargets("Invent").
		WithBalance(Tritanium, 5000).
		WithBalance(Datacore, 8).
		Build()
}
