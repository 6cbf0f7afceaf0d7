package steps

import (
	"context"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/industry-planner/internal/adapters/planfile"
	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/ledger/commands"
	"github.com/andrescamacho/industry-planner/internal/application/ledger/queries"
	"github.com/andrescamacho/industry-planner/internal/application/setup"
	"github.com/andrescamacho/industry-planner/test/helpers"
)

type resourceLedgerContext struct {
	mediator common.Mediator
	last     *queries.GetLedgerResponse
}

func (lc *resourceLedgerContext) reset() {
	lc.mediator = nil
	lc.last = nil
}

func (lc *resourceLedgerContext) send(request common.Request) (common.Response, error) {
	if lc.mediator == nil {
		m, err := newTestMediator(setup.PlannerSettings{WhatIfParallelism: 1})
		if err != nil {
			return nil, err
		}
		lc.mediator = m
	}
	return lc.mediator.Send(context.Background(), request)
}

func (lc *resourceLedgerContext) importLedger(name string, doc *godog.DocString, merge bool) error {
	balances, err := planfile.ParseLedger(strings.NewReader(doc.Content))
	if err != nil {
		return fmt.Errorf("invalid ledger document: %w", err)
	}
	if _, err := lc.send(&commands.ImportLedgerCommand{Name: name, Balances: balances, Merge: merge}); err != nil {
		sharedErr = err
	}
	return nil
}

// Given steps

func (lc *resourceLedgerContext) aStoredLedger(name string, doc *godog.DocString) error {
	if err := lc.importLedger(name, doc, false); err != nil {
		return err
	}
	if sharedErr != nil {
		return fmt.Errorf("failed to store ledger %s: %w", name, sharedErr)
	}
	return nil
}

// When steps

func (lc *resourceLedgerContext) iImportIntoLedger(name string, doc *godog.DocString) error {
	return lc.importLedger(name, doc, false)
}

func (lc *resourceLedgerContext) iMergeIntoLedger(name string, doc *godog.DocString) error {
	return lc.importLedger(name, doc, true)
}

func (lc *resourceLedgerContext) iQueryTheStoredLedger(name string) error {
	resp, err := lc.send(&queries.GetLedgerQuery{Name: name})
	if err != nil {
		sharedErr = err
		return nil
	}
	lc.last = resp.(*queries.GetLedgerResponse)
	return nil
}

// Then steps

func (lc *resourceLedgerContext) theStoredLedgerShouldHold(name string, expected int64, resource, location string) error {
	if err := lc.iQueryTheStoredLedger(name); err != nil {
		return err
	}
	if lc.last == nil {
		return fmt.Errorf("failed to query ledger %s: %v", name, sharedErr)
	}
	if got := balanceOf(lc.last.Balances, resource, location); got != expected {
		return fmt.Errorf("expected ledger %s to hold %d %s at %s, got %d", name, expected, resource, location, got)
	}
	return nil
}

func (lc *resourceLedgerContext) theStoredLedgerShouldReportShortfalls(name string, expected int) error {
	if err := lc.iQueryTheStoredLedger(name); err != nil {
		return err
	}
	if lc.last == nil {
		return fmt.Errorf("failed to query ledger %s: %v", name, sharedErr)
	}
	if lc.last.Shortfalls != expected {
		return fmt.Errorf("expected %d shortfalls in %s, got %d", expected, name, lc.last.Shortfalls)
	}
	return nil
}

func (lc *resourceLedgerContext) theStoredLedgersShouldBe(list string) error {
	names, err := helpers.NewTestRepositories().LedgerRepo.List(context.Background())
	if err != nil {
		return err
	}
	got := strings.Join(names, ", ")
	if got != list {
		return fmt.Errorf("expected stored ledgers %q, got %q", list, got)
	}
	return nil
}

func InitializeResourceLedgerScenario(ctx *godog.ScenarioContext) {
	lc := &resourceLedgerContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		lc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a stored ledger "([^"]*)":$`, lc.aStoredLedger)

	// When steps
	ctx.Step(`^I import into ledger "([^"]*)":$`, lc.iImportIntoLedger)
	ctx.Step(`^I merge into ledger "([^"]*)":$`, lc.iMergeIntoLedger)
	ctx.Step(`^I query the stored ledger "([^"]*)"$`, lc.iQueryTheStoredLedger)

	// Then steps
	ctx.Step(`^the stored ledger "([^"]*)" should hold (-?\d+) "([^"]*)" at "([^"]*)"$`, lc.theStoredLedgerShouldHold)
	ctx.Step(`^the stored ledger "([^"]*)" should report (\d+) shortfalls?$`, lc.theStoredLedgerShouldReportShortfalls)
	ctx.Step(`^the stored ledgers should be "([^"]*)"$`, lc.theStoredLedgersShouldBe)
}
