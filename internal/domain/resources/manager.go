package resources

import (
	"sort"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
)

// AnyLocation matches every location when used as a filter
var AnyLocation = production.NewProductionLocation(-1, "*")

// Resource is a mutable quantity cell keyed by (type, location).
// Amount may go negative: a negative balance is a projected deficit.
type Resource struct {
	Type     production.ResourceType
	Location production.ProductionLocation
	Amount   int64
}

// ResourceFactory materializes a ledger cell the first time a (type, location) pair is touched
type ResourceFactory func(t production.ResourceType, loc production.ProductionLocation) *Resource

// DefaultResourceFactory creates zero-valued cells
func DefaultResourceFactory(t production.ResourceType, loc production.ProductionLocation) *Resource {
	return &Resource{Type: t, Location: loc}
}

type key struct {
	typeID     int64
	locationID int64
}

func keyOf(t production.ResourceType, loc production.ProductionLocation) key {
	return key{typeID: t.ID, locationID: loc.ID}
}

// Option configures a Manager
type Option func(*Manager)

// WithResourceFactory overrides how missing cells are created
func WithResourceFactory(f ResourceFactory) Option {
	return func(m *Manager) {
		m.factory = f
	}
}

// Manager is the resource ledger. It is not safe for concurrent mutation;
// concurrent what-if runs each work on their own Snapshot.
type Manager struct {
	cells   map[key]*Resource
	factory ResourceFactory
}

// NewManager creates an empty ledger
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		cells:   make(map[key]*Resource),
		factory: DefaultResourceFactory,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) cell(t production.ResourceType, loc production.ProductionLocation) *Resource {
	k := keyOf(t, loc)
	if r, ok := m.cells[k]; ok {
		return r
	}
	r := m.factory(t, loc)
	m.cells[k] = r
	return r
}

// Consume removes quantity from the cell. The balance may go negative.
func (m *Manager) Consume(t production.ResourceType, loc production.ProductionLocation, quantity int64) {
	m.cell(t, loc).Amount -= quantity
}

// Produce adds quantity to the cell
func (m *Manager) Produce(t production.ResourceType, loc production.ProductionLocation, quantity int64) {
	m.cell(t, loc).Amount += quantity
}

// Set overwrites the balance of a cell
func (m *Manager) Set(t production.ResourceType, loc production.ProductionLocation, amount int64) {
	m.cell(t, loc).Amount = amount
}

// Balance returns the amount held for (type, location), summed over all locations for AnyLocation
func (m *Manager) Balance(t production.ResourceType, loc production.ProductionLocation) int64 {
	if loc.ID != AnyLocation.ID {
		if r, ok := m.cells[keyOf(t, loc)]; ok {
			return r.Amount
		}
		return 0
	}
	var total int64
	for k, r := range m.cells {
		if k.typeID == t.ID {
			total += r.Amount
		}
	}
	return total
}

// ResourcesAt returns copies of every cell at the location (or everywhere for AnyLocation),
// sorted by location then type
func (m *Manager) ResourcesAt(loc production.ProductionLocation) []Resource {
	out := make([]Resource, 0, len(m.cells))
	for _, r := range m.cells {
		if loc.ID == AnyLocation.ID || r.Location.ID == loc.ID {
			out = append(out, *r)
		}
	}
	sortResources(out)
	return out
}

// ProjectedStatus returns, per resource type, the balance at the location after subtracting
// the requirements. The ledger is not modified.
func (m *Manager) ProjectedStatus(requirements []production.ResourceAmount, loc production.ProductionLocation) map[production.ResourceType]int64 {
	status := make(map[production.ResourceType]int64)
	byID := make(map[int64]production.ResourceType)

	for _, r := range m.ResourcesAt(loc) {
		t, seen := byID[r.Type.ID]
		if !seen {
			t = r.Type
			byID[t.ID] = t
		}
		status[t] += r.Amount
	}
	for _, req := range requirements {
		t, seen := byID[req.Type.ID]
		if !seen {
			t = req.Type
			byID[t.ID] = t
		}
		status[t] -= req.Quantity
	}
	return status
}

// Shortfalls returns every cell whose balance is negative
func (m *Manager) Shortfalls() []Resource {
	out := make([]Resource, 0)
	for _, r := range m.cells {
		if r.Amount < 0 {
			out = append(out, *r)
		}
	}
	sortResources(out)
	return out
}

// Snapshot returns an independent deep copy of the ledger
func (m *Manager) Snapshot() *Manager {
	s := &Manager{
		cells:   make(map[key]*Resource, len(m.cells)),
		factory: m.factory,
	}
	for k, r := range m.cells {
		c := *r
		s.cells[k] = &c
	}
	return s
}

// Len returns the number of materialized cells
func (m *Manager) Len() int {
	return len(m.cells)
}

func sortResources(rs []Resource) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Location.ID != rs[j].Location.ID {
			return rs[i].Location.ID < rs[j].Location.ID
		}
		return rs[i].Type.ID < rs[j].Type.ID
	})
}
