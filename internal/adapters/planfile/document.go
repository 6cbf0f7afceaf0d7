package planfile

import (
	"strings"
	"time"
)

// ResourceTypeDoc declares a resource type referenced by name elsewhere in the file
type ResourceTypeDoc struct {
	ID   int64  `yaml:"id" validate:"required"`
	Name string `yaml:"name" validate:"required"`
}

// LocationDoc declares a storage location referenced by name elsewhere in the file
type LocationDoc struct {
	ID   int64  `yaml:"id" validate:"required"`
	Name string `yaml:"name" validate:"required"`
}

// Registry holds the resource types and locations shared by plan and ledger files
type Registry struct {
	ResourceTypes []ResourceTypeDoc `yaml:"resource_types" validate:"dive"`
	Locations     []LocationDoc     `yaml:"locations" validate:"dive"`
}

// SlotDoc describes one factory slot
type SlotDoc struct {
	Name       string   `yaml:"name" validate:"required"`
	Activities []string `yaml:"activities" validate:"required,min=1,dive,oneof=MANUFACTURING COPYING INVENTION RESEARCH_TIME RESEARCH_MATERIAL"`

	InputLocation string `yaml:"input_location" validate:"required"`

	// OutputLocation defaults to the input location
	OutputLocation string `yaml:"output_location,omitempty"`

	TimeMultiplier float64 `yaml:"time_multiplier,omitempty" validate:"gte=0"`
	CostMultiplier string  `yaml:"cost_multiplier,omitempty" validate:"omitempty,numeric"`
}

// FactoryDoc groups slots under a factory name
type FactoryDoc struct {
	Name  string    `yaml:"name" validate:"required"`
	Slots []SlotDoc `yaml:"slots" validate:"required,min=1,dive"`
}

// AmountDoc is a per-run recipe quantity
type AmountDoc struct {
	Resource string `yaml:"resource" validate:"required"`
	Quantity int64  `yaml:"quantity" validate:"gt=0"`
}

// TemplateDoc describes a job template. DependsOn may name templates declared later in the file.
type TemplateDoc struct {
	Name       string        `yaml:"name" validate:"required"`
	Activity   string        `yaml:"activity" validate:"required,oneof=MANUFACTURING COPYING INVENTION RESEARCH_TIME RESEARCH_MATERIAL"`
	Runs       int           `yaml:"runs" validate:"min=1"`
	Mode       string        `yaml:"mode,omitempty" validate:"omitempty,oneof=AUTOMATIC MANUAL"`
	TimePerRun time.Duration `yaml:"time_per_run" validate:"gt=0"`
	CostPerRun string        `yaml:"cost_per_run,omitempty" validate:"omitempty,numeric"`
	DependsOn  []string      `yaml:"depends_on,omitempty"`
	Inputs     []AmountDoc   `yaml:"inputs,omitempty" validate:"dive"`
	Outputs    []AmountDoc   `yaml:"outputs,omitempty" validate:"dive"`
}

// BalanceDoc is one ledger balance
type BalanceDoc struct {
	Resource string `yaml:"resource" validate:"required"`
	Location string `yaml:"location" validate:"required"`
	Amount   int64  `yaml:"amount"`
}

// AdjustmentDoc changes one balance for a scenario
type AdjustmentDoc struct {
	Resource string `yaml:"resource" validate:"required"`
	Location string `yaml:"location" validate:"required"`
	Delta    int64  `yaml:"delta"`
}

// ScenarioDoc describes a what-if scenario
type ScenarioDoc struct {
	Name         string          `yaml:"name" validate:"required"`
	ManualPolicy string          `yaml:"manual_policy,omitempty"`
	CatchUp      bool            `yaml:"catch_up,omitempty"`
	Adjustments  []AdjustmentDoc `yaml:"adjustments,omitempty" validate:"dive"`
}

// Document is the YAML form of a plan
type Document struct {
	Name     string    `yaml:"name" validate:"required"`
	Start    time.Time `yaml:"start,omitempty"`
	Registry `yaml:",inline"`

	Factories []FactoryDoc  `yaml:"factories" validate:"required,min=1,dive"`
	Templates []TemplateDoc `yaml:"templates" validate:"required,min=1,dive"`
	Targets   []string      `yaml:"targets" validate:"required,min=1"`
	Ledger    []BalanceDoc  `yaml:"ledger,omitempty" validate:"dive"`
	Scenarios []ScenarioDoc `yaml:"scenarios,omitempty" validate:"dive"`
}

// LedgerDocument is the YAML form of a standalone ledger
type LedgerDocument struct {
	Registry `yaml:",inline"`

	Balances []BalanceDoc `yaml:"balances" validate:"required,dive"`
}

// normalize upper-cases enum fields so files may use any case
func (d *Document) normalize() {
	for i := range d.Factories {
		for j := range d.Factories[i].Slots {
			acts := d.Factories[i].Slots[j].Activities
			for k := range acts {
				acts[k] = strings.ToUpper(strings.TrimSpace(acts[k]))
			}
		}
	}
	for i := range d.Templates {
		d.Templates[i].Activity = strings.ToUpper(strings.TrimSpace(d.Templates[i].Activity))
		d.Templates[i].Mode = strings.ToUpper(strings.TrimSpace(d.Templates[i].Mode))
	}
}
