package helpers

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/andrescamacho/industry-planner/internal/domain/resources"
)

// MockLedgerRepository is a test double for the LedgerRepository interface
type MockLedgerRepository struct {
	mu      sync.RWMutex
	ledgers map[string][]resources.Resource
	saveErr error
}

// NewMockLedgerRepository creates a new mock ledger repository
func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{
		ledgers: make(map[string][]resources.Resource),
	}
}

// AddLedger seeds a named ledger
func (m *MockLedgerRepository) AddLedger(name string, balances ...resources.Resource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledgers[name] = append([]resources.Resource{}, balances...)
}

// SetSaveError makes every following Save fail
func (m *MockLedgerRepository) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// Load returns the stored balances of a ledger
func (m *MockLedgerRepository) Load(ctx context.Context, ledger string) ([]resources.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	balances, ok := m.ledgers[ledger]
	if !ok {
		return nil, fmt.Errorf("ledger not found: %s", ledger)
	}
	return append([]resources.Resource{}, balances...), nil
}

// Save replaces the stored balances of a ledger
func (m *MockLedgerRepository) Save(ctx context.Context, ledger string, balances []resources.Resource) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.ledgers[ledger] = append([]resources.Resource{}, balances...)
	return nil
}

// List returns the stored ledger names in alphabetical order
func (m *MockLedgerRepository) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.ledgers))
	for name := range m.ledgers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

var _ resources.LedgerRepository = (*MockLedgerRepository)(nil)
