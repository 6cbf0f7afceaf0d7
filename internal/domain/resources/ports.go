package resources

import "context"

// LedgerRepository persists named ledgers as lists of balances
type LedgerRepository interface {
	// Load returns every stored balance of the ledger; an unknown ledger yields an empty list
	Load(ctx context.Context, ledger string) ([]Resource, error)

	// Save replaces the stored balances of the ledger
	Save(ctx context.Context, ledger string, balances []Resource) error

	// List returns the names of all stored ledgers
	List(ctx context.Context) ([]string, error)
}

// FromBalances builds a ledger holding the given balances
func FromBalances(balances []Resource, opts ...Option) *Manager {
	m := NewManager(opts...)
	for _, b := range balances {
		m.Set(b.Type, b.Location, b.Amount)
	}
	return m
}
