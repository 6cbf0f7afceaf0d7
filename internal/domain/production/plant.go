package production

import "fmt"

// Factory is a named collection of slots
type Factory struct {
	name  string
	slots []*FactorySlot
}

func (f *Factory) Name() string {
	return f.name
}

// Slots returns the factory's slots in creation order
func (f *Factory) Slots() []*FactorySlot {
	out := make([]*FactorySlot, len(f.slots))
	copy(out, f.slots)
	return out
}

// Plant owns the factories, their slots and the job arena.
// Slots reference jobs by JobID only; all jobs live here.
type Plant struct {
	factories      []*Factory
	factoryByName  map[string]*Factory
	slots          []*FactorySlot
	jobs           []*Job
	jobsByTemplate map[TemplateID][]JobID
}

// NewPlant creates an empty plant
func NewPlant() *Plant {
	return &Plant{
		factories:      make([]*Factory, 0),
		factoryByName:  make(map[string]*Factory),
		slots:          make([]*FactorySlot, 0),
		jobs:           make([]*Job, 0),
		jobsByTemplate: make(map[TemplateID][]JobID),
	}
}

// AddFactory registers a new factory
func (p *Plant) AddFactory(name string) (*Factory, error) {
	if name == "" {
		return nil, fmt.Errorf("factory name cannot be empty")
	}
	if _, exists := p.factoryByName[name]; exists {
		return nil, fmt.Errorf("factory %q already exists", name)
	}
	f := &Factory{name: name, slots: make([]*FactorySlot, 0)}
	p.factories = append(p.factories, f)
	p.factoryByName[name] = f
	return f, nil
}

// AddSlot creates a slot owned by the factory and assigns its ID
func (p *Plant) AddSlot(factory *Factory, spec SlotSpec) (*FactorySlot, error) {
	if factory == nil || p.factoryByName[factory.name] != factory {
		return nil, fmt.Errorf("factory does not belong to this plant")
	}
	if spec.Type == nil {
		return nil, fmt.Errorf("slot %q in factory %q has no slot type", spec.Name, factory.name)
	}
	slot := newFactorySlot(SlotID(len(p.slots)), factory.name, spec)
	p.slots = append(p.slots, slot)
	factory.slots = append(factory.slots, slot)
	return slot, nil
}

// Factories returns all factories in creation order
func (p *Plant) Factories() []*Factory {
	out := make([]*Factory, len(p.factories))
	copy(out, p.factories)
	return out
}

// FindFactory returns the factory with the given name
func (p *Plant) FindFactory(name string) (*Factory, bool) {
	f, ok := p.factoryByName[name]
	return f, ok
}

// Slots returns every slot, factory by factory, in creation order
func (p *Plant) Slots() []*FactorySlot {
	out := make([]*FactorySlot, 0, len(p.slots))
	for _, f := range p.factories {
		out = append(out, f.slots...)
	}
	return out
}

// Slot returns the slot with the given ID
func (p *Plant) Slot(id SlotID) (*FactorySlot, bool) {
	if int(id) < 0 || int(id) >= len(p.slots) {
		return nil, false
	}
	return p.slots[id], true
}

// CreateJob instantiates a job from a template for the slot and registers it in the arena.
// The job is not placed in the slot; callers resolve a start date and call slot.Add.
func (p *Plant) CreateJob(template *JobTemplate, slot *FactorySlot, prerequisites []JobID) *Job {
	job := newJob(JobID(len(p.jobs)), template, slot, prerequisites)
	p.jobs = append(p.jobs, job)
	p.jobsByTemplate[template.ID()] = append(p.jobsByTemplate[template.ID()], job.ID())
	return job
}

// Job returns the job with the given ID
func (p *Plant) Job(id JobID) (*Job, bool) {
	if int(id) < 0 || int(id) >= len(p.jobs) {
		return nil, false
	}
	return p.jobs[id], true
}

// Jobs returns all jobs in creation order
func (p *Plant) Jobs() []*Job {
	out := make([]*Job, len(p.jobs))
	copy(out, p.jobs)
	return out
}

// JobsForTemplate returns the jobs created from the template, in creation order
func (p *Plant) JobsForTemplate(id TemplateID) []*Job {
	ids := p.jobsByTemplate[id]
	out := make([]*Job, 0, len(ids))
	for _, jobID := range ids {
		out = append(out, p.jobs[jobID])
	}
	return out
}
