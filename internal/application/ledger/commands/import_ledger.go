package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
)

// ImportLedgerCommand stores balances under a ledger name
type ImportLedgerCommand struct {
	Name     string
	Balances []resources.Resource

	// Merge adds the balances to the stored ones instead of replacing them
	Merge bool
}

// ImportLedgerResponse reports how many balances the stored ledger now holds
type ImportLedgerResponse struct {
	Name     string
	Balances int
}

// ImportLedgerHandler handles the ImportLedger command
type ImportLedgerHandler struct {
	ledgerRepo resources.LedgerRepository
}

// NewImportLedgerHandler creates a new ImportLedgerHandler
func NewImportLedgerHandler(ledgerRepo resources.LedgerRepository) *ImportLedgerHandler {
	return &ImportLedgerHandler{ledgerRepo: ledgerRepo}
}

// Handle executes the ImportLedger command
func (h *ImportLedgerHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ImportLedgerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ImportLedgerCommand")
	}
	if cmd.Name == "" {
		return nil, fmt.Errorf("ledger name is required")
	}

	ledger := resources.NewManager()
	if cmd.Merge {
		existing, err := h.ledgerRepo.Load(ctx, cmd.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to load ledger %s: %w", cmd.Name, err)
		}
		ledger = resources.FromBalances(existing)
	}
	for _, b := range cmd.Balances {
		ledger.Produce(b.Type, b.Location, b.Amount)
	}

	balances := ledger.ResourcesAt(resources.AnyLocation)
	if err := h.ledgerRepo.Save(ctx, cmd.Name, balances); err != nil {
		return nil, fmt.Errorf("failed to save ledger %s: %w", cmd.Name, err)
	}

	common.LoggerFromContext(ctx).Log("INFO", fmt.Sprintf("Imported ledger %s", cmd.Name), map[string]interface{}{
		"ledger":   cmd.Name,
		"balances": len(balances),
		"merge":    cmd.Merge,
	})

	return &ImportLedgerResponse{Name: cmd.Name, Balances: len(balances)}, nil
}
