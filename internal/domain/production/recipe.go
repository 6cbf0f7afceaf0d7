package production

// Recipe lists the physical inputs a template consumes and the outputs it produces, per run
type Recipe struct {
	inputs  []ResourceAmount
	outputs []ResourceAmount
}

// NewRecipe creates a recipe from per-run inputs and outputs
func NewRecipe(inputs, outputs []ResourceAmount) *Recipe {
	r := &Recipe{
		inputs:  make([]ResourceAmount, len(inputs)),
		outputs: make([]ResourceAmount, len(outputs)),
	}
	copy(r.inputs, inputs)
	copy(r.outputs, outputs)
	return r
}

// Inputs returns the per-run inputs
func (r *Recipe) Inputs() []ResourceAmount {
	out := make([]ResourceAmount, len(r.inputs))
	copy(out, r.inputs)
	return out
}

// Outputs returns the per-run outputs
func (r *Recipe) Outputs() []ResourceAmount {
	out := make([]ResourceAmount, len(r.outputs))
	copy(out, r.outputs)
	return out
}

// IsEmpty returns true when the recipe moves no resources
func (r *Recipe) IsEmpty() bool {
	return len(r.inputs) == 0 && len(r.outputs) == 0
}

// ProductionJob is implemented by jobs with physical inputs/outputs.
// The simulation listener invokes it around the job lifecycle.
type ProductionJob interface {
	// ConsumeRequiredResources removes the job's inputs from the slot's input location
	ConsumeRequiredResources(slot *FactorySlot, ledger ResourceLedger)

	// AddProducedResources adds the job's outputs at the slot's output location
	AddProducedResources(slot *FactorySlot, ledger ResourceLedger)

	// RequiredResources returns the total inputs for all runs
	RequiredResources() []ResourceAmount

	// ProducedResources returns the total outputs for all runs
	ProducedResources() []ResourceAmount
}

// recipeJob binds a recipe to a run count
type recipeJob struct {
	recipe *Recipe
	runs   int
}

func (p *recipeJob) RequiredResources() []ResourceAmount {
	return scaleAll(p.recipe.inputs, p.runs)
}

func (p *recipeJob) ProducedResources() []ResourceAmount {
	return scaleAll(p.recipe.outputs, p.runs)
}

func (p *recipeJob) ConsumeRequiredResources(slot *FactorySlot, ledger ResourceLedger) {
	for _, amount := range p.RequiredResources() {
		ledger.Consume(amount.Type, slot.InputLocation(), amount.Quantity)
	}
}

func (p *recipeJob) AddProducedResources(slot *FactorySlot, ledger ResourceLedger) {
	for _, amount := range p.ProducedResources() {
		ledger.Produce(amount.Type, slot.OutputLocation(), amount.Quantity)
	}
}

func scaleAll(amounts []ResourceAmount, runs int) []ResourceAmount {
	out := make([]ResourceAmount, len(amounts))
	for i, a := range amounts {
		out[i] = a.Scaled(runs)
	}
	return out
}
