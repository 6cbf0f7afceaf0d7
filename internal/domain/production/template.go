package production

import (
	"time"

	"github.com/shopspring/decimal"
)

// TemplateID is the handle assigned to a template by its catalog
type TemplateID int

// DurationFunc computes how long a template takes when run in a specific slot
type DurationFunc func(t *JobTemplate, slot *FactorySlot) time.Duration

// CostFunc computes what a template costs when run in a specific slot
type CostFunc func(t *JobTemplate, slot *FactorySlot) decimal.Decimal

// JobTemplate is the immutable definition of a repeatable piece of work.
// It does not know which slot it will occupy; duration and cost are evaluated per slot.
type JobTemplate struct {
	id            TemplateID
	catalog       *TemplateCatalog
	name          string
	activity      Activity
	runs          int
	mode          JobMode
	timePerRun    time.Duration
	costPerRun    decimal.Decimal
	prerequisites []*JobTemplate
	recipe        *Recipe
	durationFn    DurationFunc
	costFn        CostFunc
}

// TemplateSpec carries the fields needed to define a template
type TemplateSpec struct {
	Name          string
	Activity      Activity
	Runs          int
	Mode          JobMode
	TimePerRun    time.Duration
	CostPerRun    decimal.Decimal
	Prerequisites []*JobTemplate
	Recipe        *Recipe

	// Optional overrides of the default slot-scaled formulas
	DurationFunc DurationFunc
	CostFunc     CostFunc
}

// Getters

func (t *JobTemplate) ID() TemplateID {
	return t.id
}

func (t *JobTemplate) Name() string {
	return t.name
}

func (t *JobTemplate) Activity() Activity {
	return t.activity
}

func (t *JobTemplate) Runs() int {
	return t.runs
}

func (t *JobTemplate) Mode() JobMode {
	return t.mode
}

func (t *JobTemplate) TimePerRun() time.Duration {
	return t.timePerRun
}

func (t *JobTemplate) CostPerRun() decimal.Decimal {
	return t.costPerRun
}

// Recipe returns the template's physical inputs/outputs, or nil when it has none
func (t *JobTemplate) Recipe() *Recipe {
	return t.recipe
}

// Prerequisites returns the templates that must be produced before this one, in declared order
func (t *JobTemplate) Prerequisites() []*JobTemplate {
	out := make([]*JobTemplate, len(t.prerequisites))
	copy(out, t.prerequisites)
	return out
}

// HasPrerequisites returns true when the template depends on other templates
func (t *JobTemplate) HasPrerequisites() bool {
	return len(t.prerequisites) > 0
}

// Duration evaluates the template's duration for the given slot.
// Default: runs x time per run x slot time multiplier.
func (t *JobTemplate) Duration(slot *FactorySlot) time.Duration {
	if t.durationFn != nil {
		return t.durationFn(t, slot)
	}
	base := time.Duration(t.runs) * t.timePerRun
	if slot == nil || slot.TimeMultiplier() == 1 {
		return base
	}
	return time.Duration(float64(base) * slot.TimeMultiplier()).Round(time.Second)
}

// Cost evaluates the template's cost for the given slot.
// Default: runs x cost per run x slot cost multiplier.
func (t *JobTemplate) Cost(slot *FactorySlot) decimal.Decimal {
	if t.costFn != nil {
		return t.costFn(t, slot)
	}
	base := t.costPerRun.Mul(decimal.NewFromInt(int64(t.runs)))
	if slot == nil {
		return base
	}
	return base.Mul(slot.CostMultiplier())
}

// TemplateCatalog is the arena that owns templates and hands out their IDs.
// Templates are defined once while a plan is loaded and are immutable afterwards.
type TemplateCatalog struct {
	templates []*JobTemplate
	byName    map[string]*JobTemplate
}

// NewTemplateCatalog creates an empty catalog
func NewTemplateCatalog() *TemplateCatalog {
	return &TemplateCatalog{
		templates: make([]*JobTemplate, 0),
		byName:    make(map[string]*JobTemplate),
	}
}

// Define validates the spec and registers a new template
func (c *TemplateCatalog) Define(spec TemplateSpec) (*JobTemplate, error) {
	if spec.Name == "" {
		return nil, &ErrInvalidTemplate{Template: spec.Name, Field: "name", Reason: "name cannot be empty"}
	}
	if _, exists := c.byName[spec.Name]; exists {
		return nil, &ErrInvalidTemplate{Template: spec.Name, Field: "name", Reason: "duplicate template name"}
	}
	if spec.Runs <= 0 {
		return nil, &ErrInvalidTemplate{Template: spec.Name, Field: "runs", Reason: "runs must be positive"}
	}
	if !spec.Activity.IsValid() {
		return nil, &ErrInvalidTemplate{Template: spec.Name, Field: "activity", Reason: "unknown activity " + string(spec.Activity)}
	}
	if spec.TimePerRun < 0 {
		return nil, &ErrInvalidTemplate{Template: spec.Name, Field: "time_per_run", Reason: "cannot be negative"}
	}
	mode := spec.Mode
	if mode == "" {
		mode = JobModeAutomatic
	}

	t := &JobTemplate{
		id:            TemplateID(len(c.templates)),
		catalog:       c,
		name:          spec.Name,
		activity:      spec.Activity,
		runs:          spec.Runs,
		mode:          mode,
		timePerRun:    spec.TimePerRun,
		costPerRun:    spec.CostPerRun,
		prerequisites: make([]*JobTemplate, 0, len(spec.Prerequisites)),
		recipe:        spec.Recipe,
		durationFn:    spec.DurationFunc,
		costFn:        spec.CostFunc,
	}
	for _, prereq := range spec.Prerequisites {
		if err := c.link(t, prereq); err != nil {
			return nil, err
		}
	}

	c.templates = append(c.templates, t)
	c.byName[t.name] = t
	return t, nil
}

// AddPrerequisite declares that child depends on prereq. Used while loading plans
// where dependencies may reference templates defined later.
func (c *TemplateCatalog) AddPrerequisite(child, prereq *JobTemplate) error {
	if child == nil || child.catalog != c {
		name := ""
		if child != nil {
			name = child.name
		}
		return &ErrForeignTemplate{Template: name}
	}
	return c.link(child, prereq)
}

func (c *TemplateCatalog) link(child, prereq *JobTemplate) error {
	if prereq == nil || prereq.catalog != c {
		name := ""
		if prereq != nil {
			name = prereq.name
		}
		return &ErrForeignTemplate{Template: name}
	}
	for _, existing := range child.prerequisites {
		if existing.id == prereq.id {
			return nil
		}
	}
	child.prerequisites = append(child.prerequisites, prereq)
	return nil
}

// Get returns the template with the given ID
func (c *TemplateCatalog) Get(id TemplateID) (*JobTemplate, bool) {
	if int(id) < 0 || int(id) >= len(c.templates) {
		return nil, false
	}
	return c.templates[id], true
}

// FindByName returns the template with the given name
func (c *TemplateCatalog) FindByName(name string) (*JobTemplate, bool) {
	t, ok := c.byName[name]
	return t, ok
}

// All returns every template in definition order
func (c *TemplateCatalog) All() []*JobTemplate {
	out := make([]*JobTemplate, len(c.templates))
	copy(out, c.templates)
	return out
}

// Len returns the number of templates in the catalog
func (c *TemplateCatalog) Len() int {
	return len(c.templates)
}
