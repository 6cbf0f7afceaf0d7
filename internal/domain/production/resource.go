package production

import "fmt"

// ResourceType identifies a tradeable item (mineral, component, blueprint copy, ...).
// Two resource types are the same resource when their IDs match.
type ResourceType struct {
	ID   int64
	Name string
}

// NewResourceType creates a resource type value
func NewResourceType(id int64, name string) ResourceType {
	return ResourceType{ID: id, Name: name}
}

func (r ResourceType) String() string {
	if r.Name != "" {
		return r.Name
	}
	return fmt.Sprintf("type#%d", r.ID)
}

// ProductionLocation identifies where resources are stored (a station hangar, a container, ...)
type ProductionLocation struct {
	ID   int64
	Name string
}

// NewProductionLocation creates a location value
func NewProductionLocation(id int64, name string) ProductionLocation {
	return ProductionLocation{ID: id, Name: name}
}

func (l ProductionLocation) String() string {
	if l.Name != "" {
		return l.Name
	}
	return fmt.Sprintf("location#%d", l.ID)
}

// ResourceAmount pairs a resource type with a quantity.
// Used as a schedule-independent requirement and as a ledger entry.
type ResourceAmount struct {
	Type     ResourceType
	Quantity int64
}

// Scaled returns the amount multiplied by n (e.g. per-run amount times runs)
func (a ResourceAmount) Scaled(n int) ResourceAmount {
	return ResourceAmount{Type: a.Type, Quantity: a.Quantity * int64(n)}
}

func (a ResourceAmount) String() string {
	return fmt.Sprintf("%d x %s", a.Quantity, a.Type)
}

// ResourceLedger is the slice of the resource manager that production jobs need
// to apply their physical side effects.
type ResourceLedger interface {
	Consume(resourceType ResourceType, location ProductionLocation, quantity int64)
	Produce(resourceType ResourceType, location ProductionLocation, quantity int64)
}
