// Package planfile reads plans and ledgers from YAML files.
package planfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/industry-planner/internal/application/planning"
	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
)

var validate = validator.New()

// Load reads a plan file and builds the plan it describes
func Load(path string) (*planning.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan file: %w", err)
	}
	doc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc.Build()
}

// Parse decodes and validates a plan document. Unknown fields are rejected.
func Parse(r io.Reader) (*Document, error) {
	var doc Document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}
	doc.normalize()
	if err := validate.Struct(&doc); err != nil {
		return nil, formatValidationError(err)
	}
	return &doc, nil
}

// LoadLedger reads a ledger file
func LoadLedger(path string) ([]resources.Resource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ledger file: %w", err)
	}
	balances, err := ParseLedger(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return balances, nil
}

// ParseLedger decodes a ledger document into balances
func ParseLedger(r io.Reader) ([]resources.Resource, error) {
	var doc LedgerDocument
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parsing ledger: %w", err)
	}
	if err := validate.Struct(&doc); err != nil {
		return nil, formatValidationError(err)
	}

	reg, err := newRegistry(doc.Registry)
	if err != nil {
		return nil, err
	}
	out := make([]resources.Resource, 0, len(doc.Balances))
	for _, b := range doc.Balances {
		r, err := reg.balance(b)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// Build turns the document into a plan: catalog, plant, targets, ledger and scenarios
func (d *Document) Build() (*planning.Plan, error) {
	reg, err := newRegistry(d.Registry)
	if err != nil {
		return nil, err
	}

	plan := &planning.Plan{
		Name:    d.Name,
		Catalog: production.NewTemplateCatalog(),
		Plant:   production.NewPlant(),
		Ledger:  resources.NewManager(),
		Start:   d.Start,
	}

	if err := d.buildPlant(plan.Plant, reg); err != nil {
		return nil, err
	}
	if err := d.buildCatalog(plan.Catalog, reg); err != nil {
		return nil, err
	}

	for _, name := range d.Targets {
		t, ok := plan.Catalog.FindByName(name)
		if !ok {
			return nil, fmt.Errorf("target %q is not a declared template", name)
		}
		plan.Targets = append(plan.Targets, t)
	}

	for _, b := range d.Ledger {
		r, err := reg.balance(b)
		if err != nil {
			return nil, err
		}
		plan.Ledger.Produce(r.Type, r.Location, r.Amount)
	}

	for _, s := range d.Scenarios {
		scenario, err := d.buildScenario(s, reg)
		if err != nil {
			return nil, err
		}
		if _, dup := plan.Scenario(scenario.Name); dup {
			return nil, fmt.Errorf("duplicate scenario %q", scenario.Name)
		}
		plan.Scenarios = append(plan.Scenarios, scenario)
	}

	return plan, nil
}

func (d *Document) buildPlant(plant *production.Plant, reg *registry) error {
	for _, f := range d.Factories {
		factory, err := plant.AddFactory(f.Name)
		if err != nil {
			return err
		}
		for _, s := range f.Slots {
			spec, err := slotSpec(s, reg)
			if err != nil {
				return fmt.Errorf("factory %s: %w", f.Name, err)
			}
			if _, err := plant.AddSlot(factory, spec); err != nil {
				return err
			}
		}
	}
	return nil
}

func slotSpec(s SlotDoc, reg *registry) (production.SlotSpec, error) {
	activities := make([]production.Activity, 0, len(s.Activities))
	for _, a := range s.Activities {
		activity, err := production.ParseActivity(a)
		if err != nil {
			return production.SlotSpec{}, fmt.Errorf("slot %s: %w", s.Name, err)
		}
		activities = append(activities, activity)
	}

	input, err := reg.location(s.InputLocation)
	if err != nil {
		return production.SlotSpec{}, fmt.Errorf("slot %s: %w", s.Name, err)
	}
	output := input
	if s.OutputLocation != "" {
		if output, err = reg.location(s.OutputLocation); err != nil {
			return production.SlotSpec{}, fmt.Errorf("slot %s: %w", s.Name, err)
		}
	}

	costMultiplier := decimal.Zero
	if s.CostMultiplier != "" {
		if costMultiplier, err = decimal.NewFromString(s.CostMultiplier); err != nil {
			return production.SlotSpec{}, fmt.Errorf("slot %s: invalid cost_multiplier: %w", s.Name, err)
		}
	}

	return production.SlotSpec{
		Name:           s.Name,
		Type:           production.NewActivitySlotType(s.Name, activities...),
		InputLocation:  input,
		OutputLocation: output,
		TimeMultiplier: s.TimeMultiplier,
		CostMultiplier: costMultiplier,
	}, nil
}

// buildCatalog defines every template first and links dependencies afterwards,
// so depends_on may reference templates declared further down
func (d *Document) buildCatalog(catalog *production.TemplateCatalog, reg *registry) error {
	for _, t := range d.Templates {
		spec, err := templateSpec(t, reg)
		if err != nil {
			return err
		}
		if _, err := catalog.Define(spec); err != nil {
			return err
		}
	}

	for _, t := range d.Templates {
		child, _ := catalog.FindByName(t.Name)
		for _, dep := range t.DependsOn {
			prereq, ok := catalog.FindByName(dep)
			if !ok {
				return fmt.Errorf("template %s depends on unknown template %q", t.Name, dep)
			}
			if err := catalog.AddPrerequisite(child, prereq); err != nil {
				return err
			}
		}
	}
	return nil
}

func templateSpec(t TemplateDoc, reg *registry) (production.TemplateSpec, error) {
	activity, err := production.ParseActivity(t.Activity)
	if err != nil {
		return production.TemplateSpec{}, fmt.Errorf("template %s: %w", t.Name, err)
	}
	mode, err := production.ParseJobMode(t.Mode)
	if err != nil {
		return production.TemplateSpec{}, fmt.Errorf("template %s: %w", t.Name, err)
	}

	cost := decimal.Zero
	if t.CostPerRun != "" {
		if cost, err = decimal.NewFromString(t.CostPerRun); err != nil {
			return production.TemplateSpec{}, fmt.Errorf("template %s: invalid cost_per_run: %w", t.Name, err)
		}
	}

	spec := production.TemplateSpec{
		Name:       t.Name,
		Activity:   activity,
		Runs:       t.Runs,
		Mode:       mode,
		TimePerRun: t.TimePerRun,
		CostPerRun: cost,
	}

	if len(t.Inputs) > 0 || len(t.Outputs) > 0 {
		inputs, err := reg.amounts(t.Inputs)
		if err != nil {
			return production.TemplateSpec{}, fmt.Errorf("template %s inputs: %w", t.Name, err)
		}
		outputs, err := reg.amounts(t.Outputs)
		if err != nil {
			return production.TemplateSpec{}, fmt.Errorf("template %s outputs: %w", t.Name, err)
		}
		spec.Recipe = production.NewRecipe(inputs, outputs)
	}
	return spec, nil
}

func (d *Document) buildScenario(s ScenarioDoc, reg *registry) (planning.Scenario, error) {
	policy, err := planning.ParseManualStartPolicy(s.ManualPolicy)
	if err != nil {
		return planning.Scenario{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	scenario := planning.Scenario{
		Name:         s.Name,
		ManualPolicy: policy,
		CatchUp:      s.CatchUp,
	}
	for _, a := range s.Adjustments {
		t, err := reg.resourceType(a.Resource)
		if err != nil {
			return planning.Scenario{}, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		loc, err := reg.location(a.Location)
		if err != nil {
			return planning.Scenario{}, fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		scenario.Adjustments = append(scenario.Adjustments, planning.LedgerAdjustment{Type: t, Location: loc, Delta: a.Delta})
	}
	return scenario, nil
}

// registry resolves resource and location names to their values
type registry struct {
	types     map[string]production.ResourceType
	locations map[string]production.ProductionLocation
}

func newRegistry(r Registry) (*registry, error) {
	reg := &registry{
		types:     make(map[string]production.ResourceType, len(r.ResourceTypes)),
		locations: make(map[string]production.ProductionLocation, len(r.Locations)),
	}
	for _, t := range r.ResourceTypes {
		if _, dup := reg.types[t.Name]; dup {
			return nil, fmt.Errorf("duplicate resource type %q", t.Name)
		}
		reg.types[t.Name] = production.NewResourceType(t.ID, t.Name)
	}
	for _, l := range r.Locations {
		if _, dup := reg.locations[l.Name]; dup {
			return nil, fmt.Errorf("duplicate location %q", l.Name)
		}
		reg.locations[l.Name] = production.NewProductionLocation(l.ID, l.Name)
	}
	return reg, nil
}

func (r *registry) resourceType(name string) (production.ResourceType, error) {
	t, ok := r.types[name]
	if !ok {
		return production.ResourceType{}, fmt.Errorf("unknown resource type %q", name)
	}
	return t, nil
}

func (r *registry) location(name string) (production.ProductionLocation, error) {
	l, ok := r.locations[name]
	if !ok {
		return production.ProductionLocation{}, fmt.Errorf("unknown location %q", name)
	}
	return l, nil
}

func (r *registry) amounts(docs []AmountDoc) ([]production.ResourceAmount, error) {
	out := make([]production.ResourceAmount, 0, len(docs))
	for _, a := range docs {
		t, err := r.resourceType(a.Resource)
		if err != nil {
			return nil, err
		}
		out = append(out, production.ResourceAmount{Type: t, Quantity: a.Quantity})
	}
	return out, nil
}

func (r *registry) balance(b BalanceDoc) (resources.Resource, error) {
	t, err := r.resourceType(b.Resource)
	if err != nil {
		return resources.Resource{}, err
	}
	loc, err := r.location(b.Location)
	if err != nil {
		return resources.Resource{}, err
	}
	return resources.Resource{Type: t, Location: loc, Amount: b.Amount}, nil
}

// formatValidationError converts validator errors into readable messages
func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf("field '%s' failed validation: %s (value: '%v')", e.Namespace(), e.Tag(), e.Value()))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}
