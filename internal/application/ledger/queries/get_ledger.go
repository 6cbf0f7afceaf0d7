package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
)

// GetLedgerQuery lists the balances of a stored ledger.
// LocationID filters to one location; nil returns every location.
type GetLedgerQuery struct {
	Name       string
	LocationID *int64
}

// GetLedgerResponse holds the balances sorted by location then resource
type GetLedgerResponse struct {
	Name       string
	Balances   []resources.Resource
	Shortfalls int
}

// GetLedgerHandler handles the GetLedger query
type GetLedgerHandler struct {
	ledgerRepo resources.LedgerRepository
}

// NewGetLedgerHandler creates a new GetLedgerHandler
func NewGetLedgerHandler(ledgerRepo resources.LedgerRepository) *GetLedgerHandler {
	return &GetLedgerHandler{ledgerRepo: ledgerRepo}
}

// Handle executes the GetLedger query
func (h *GetLedgerHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetLedgerQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetLedgerQuery")
	}

	stored, err := h.ledgerRepo.Load(ctx, query.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger %s: %w", query.Name, err)
	}
	ledger := resources.FromBalances(stored)

	location := resources.AnyLocation
	if query.LocationID != nil {
		location = production.NewProductionLocation(*query.LocationID, "")
	}

	return &GetLedgerResponse{
		Name:       query.Name,
		Balances:   ledger.ResourcesAt(location),
		Shortfalls: len(ledger.Shortfalls()),
	}, nil
}
