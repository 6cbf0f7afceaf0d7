package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/industry-planner/internal/application/ledger/commands"
	"github.com/andrescamacho/industry-planner/internal/application/ledger/queries"
	"github.com/andrescamacho/industry-planner/internal/domain/production"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
	"github.com/andrescamacho/industry-planner/test/helpers"
)

var (
	station   = helpers.TestHangar
	container = production.NewProductionLocation(1022, "Freight Container")
)

func importLedger(t *testing.T, repo resources.LedgerRepository, cmd *commands.ImportLedgerCommand) *commands.ImportLedgerResponse {
	t.Helper()
	resp, err := commands.NewImportLedgerHandler(repo).Handle(context.Background(), cmd)
	require.NoError(t, err)
	return resp.(*commands.ImportLedgerResponse)
}

func TestImportLedger_ReplaceAndMerge(t *testing.T) {
	repo := helpers.NewMockLedgerRepository()

	resp := importLedger(t, repo, &commands.ImportLedgerCommand{
		Name: "corp",
		Balances: []resources.Resource{
			{Type: helpers.Tritanium, Location: station, Amount: 1000},
			{Type: helpers.Tritanium, Location: station, Amount: 500},
			{Type: helpers.Datacore, Location: container, Amount: 16},
		},
	})
	assert.Equal(t, 2, resp.Balances)

	importLedger(t, repo, &commands.ImportLedgerCommand{
		Name:     "corp",
		Balances: []resources.Resource{{Type: helpers.Tritanium, Location: station, Amount: -2000}},
		Merge:    true,
	})

	stored, err := repo.Load(context.Background(), "corp")
	require.NoError(t, err)
	ledger := resources.FromBalances(stored)
	assert.Equal(t, int64(-500), ledger.Balance(helpers.Tritanium, station))
	assert.Equal(t, int64(16), ledger.Balance(helpers.Datacore, container))

	importLedger(t, repo, &commands.ImportLedgerCommand{
		Name:     "corp",
		Balances: []resources.Resource{{Type: helpers.Datacore, Location: station, Amount: 1}},
	})
	stored, err = repo.Load(context.Background(), "corp")
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestImportLedger_Errors(t *testing.T) {
	repo := helpers.NewMockLedgerRepository()
	handler := commands.NewImportLedgerHandler(repo)

	_, err := handler.Handle(context.Background(), &commands.ImportLedgerCommand{})
	assert.ErrorContains(t, err, "ledger name is required")

	_, err = handler.Handle(context.Background(), &commands.ImportLedgerCommand{Name: "corp", Merge: true})
	assert.ErrorContains(t, err, "ledger not found")

	repo.SetSaveError(errors.New("disk full"))
	_, err = handler.Handle(context.Background(), &commands.ImportLedgerCommand{Name: "corp"})
	assert.ErrorContains(t, err, "disk full")

	_, err = handler.Handle(context.Background(), &queries.GetLedgerQuery{})
	assert.ErrorContains(t, err, "invalid request type")
}

func TestGetLedger_FiltersByLocation(t *testing.T) {
	repo := helpers.NewMockLedgerRepository()
	repo.AddLedger("corp",
		resources.Resource{Type: helpers.Tritanium, Location: station, Amount: -10},
		resources.Resource{Type: helpers.Datacore, Location: container, Amount: 4},
	)
	handler := queries.NewGetLedgerHandler(repo)

	resp, err := handler.Handle(context.Background(), &queries.GetLedgerQuery{Name: "corp"})
	require.NoError(t, err)
	all := resp.(*queries.GetLedgerResponse)
	assert.Len(t, all.Balances, 2)
	assert.Equal(t, 1, all.Shortfalls)

	id := container.ID
	resp, err = handler.Handle(context.Background(), &queries.GetLedgerQuery{Name: "corp", LocationID: &id})
	require.NoError(t, err)
	filtered := resp.(*queries.GetLedgerResponse)
	require.Len(t, filtered.Balances, 1)
	assert.Equal(t, helpers.Datacore, filtered.Balances[0].Type)
}
