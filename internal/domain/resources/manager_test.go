package resources_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
)

var (
	jita      = production.NewProductionLocation(1, "Jita")
	amarr     = production.NewProductionLocation(2, "Amarr")
	tritanium = production.NewResourceType(34, "Tritanium")
	pyerite   = production.NewResourceType(35, "Pyerite")
)

func TestManager_ConsumeAllowsNegativeBalance(t *testing.T) {
	// Arrange
	m := resources.NewManager()
	m.Produce(tritanium, jita, 5000)

	// Act
	m.Consume(tritanium, jita, 6000)

	// Assert
	assert.Equal(t, int64(-1000), m.Balance(tritanium, jita))
	shortfalls := m.Shortfalls()
	require.Len(t, shortfalls, 1)
	assert.Equal(t, tritanium, shortfalls[0].Type)
}

func TestManager_SnapshotIsIsolated(t *testing.T) {
	m := resources.NewManager()
	m.Produce(tritanium, jita, 100)

	s := m.Snapshot()
	s.Consume(tritanium, jita, 40)
	s.Produce(pyerite, amarr, 7)
	m.Produce(tritanium, jita, 1)

	assert.Equal(t, int64(101), m.Balance(tritanium, jita))
	assert.Equal(t, int64(0), m.Balance(pyerite, amarr))
	assert.Equal(t, 1, m.Len())

	assert.Equal(t, int64(60), s.Balance(tritanium, jita))
	assert.Equal(t, int64(7), s.Balance(pyerite, amarr))
}

func TestManager_ResourcesAtFiltersByLocation(t *testing.T) {
	m := resources.NewManager()
	m.Produce(pyerite, jita, 10)
	m.Produce(tritanium, jita, 20)
	m.Produce(tritanium, amarr, 30)

	atJita := m.ResourcesAt(jita)
	require.Len(t, atJita, 2)
	assert.Equal(t, tritanium, atJita[0].Type)
	assert.Equal(t, pyerite, atJita[1].Type)

	everywhere := m.ResourcesAt(resources.AnyLocation)
	assert.Len(t, everywhere, 3)
	assert.Equal(t, int64(50), m.Balance(tritanium, resources.AnyLocation))

	// returned values are copies
	atJita[0].Amount = 0
	assert.Equal(t, int64(20), m.Balance(tritanium, jita))
}

func TestManager_ProjectedStatusDoesNotMutate(t *testing.T) {
	m := resources.NewManager()
	m.Produce(tritanium, jita, 5000)
	m.Produce(tritanium, amarr, 1000)

	status := m.ProjectedStatus([]production.ResourceAmount{
		{Type: tritanium, Quantity: 6000},
		{Type: pyerite, Quantity: 10},
	}, jita)

	assert.Equal(t, int64(-1000), status[tritanium])
	assert.Equal(t, int64(-10), status[pyerite])
	assert.Equal(t, int64(5000), m.Balance(tritanium, jita))
	assert.Equal(t, 2, m.Len(), "projection must not materialize cells")

	anywhere := m.ProjectedStatus([]production.ResourceAmount{{Type: tritanium, Quantity: 6000}}, resources.AnyLocation)
	assert.Equal(t, int64(0), anywhere[tritanium])
}

func TestManager_CustomResourceFactory(t *testing.T) {
	calls := 0
	m := resources.NewManager(resources.WithResourceFactory(func(rt production.ResourceType, loc production.ProductionLocation) *resources.Resource {
		calls++
		return &resources.Resource{Type: rt, Location: loc, Amount: 3}
	}))

	m.Produce(tritanium, jita, 2)
	m.Consume(tritanium, jita, 1)

	assert.Equal(t, 1, calls)
	assert.Equal(t, int64(4), m.Balance(tritanium, jita))
}
