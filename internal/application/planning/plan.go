package planning

import (
	"fmt"
	"time"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
)

// Plan bundles everything needed to schedule and simulate one production run
type Plan struct {
	Name    string
	Catalog *production.TemplateCatalog
	Plant   *production.Plant

	// Targets are the templates to produce; prerequisites are pulled in transitively
	Targets []*production.JobTemplate

	// Ledger is the authoritative resource ledger. Simulations only ever touch snapshots of it.
	Ledger *resources.Manager

	Scenarios []Scenario

	// Start pins "now" for scheduling and simulation. Zero means the wall clock.
	Start time.Time

	// ScheduledAt is the "now" the jobs were placed against; simulations of a plan
	// without a pinned Start begin there
	ScheduledAt time.Time
}

// Validate checks the plan can be scheduled
func (p *Plan) Validate() error {
	if p == nil {
		return fmt.Errorf("plan cannot be nil")
	}
	if p.Catalog == nil || p.Plant == nil {
		return fmt.Errorf("plan %q has no catalog or plant", p.Name)
	}
	if len(p.Plant.Slots()) == 0 {
		return fmt.Errorf("plan %q has no factory slots", p.Name)
	}
	if p.Ledger == nil {
		p.Ledger = resources.NewManager()
	}
	return nil
}

// IsScheduled returns true once jobs have been placed in the plant
func (p *Plan) IsScheduled() bool {
	return p.Plant != nil && len(p.Plant.Jobs()) > 0
}

// SimulationStart returns the instant simulations of the scheduled plan begin at
func (p *Plan) SimulationStart() (time.Time, bool) {
	if !p.Start.IsZero() {
		return p.Start, true
	}
	return p.ScheduledAt, !p.ScheduledAt.IsZero()
}

// Scenario finds a scenario by name
func (p *Plan) Scenario(name string) (Scenario, bool) {
	for _, s := range p.Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}
