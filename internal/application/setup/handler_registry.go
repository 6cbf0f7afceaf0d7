package setup

import (
	"reflect"

	"github.com/andrescamacho/industry-planner/internal/application/common"
	ledgerCommands "github.com/andrescamacho/industry-planner/internal/application/ledger/commands"
	ledgerQueries "github.com/andrescamacho/industry-planner/internal/application/ledger/queries"
	"github.com/andrescamacho/industry-planner/internal/application/planning"
	planningCommands "github.com/andrescamacho/industry-planner/internal/application/planning/commands"
	planningQueries "github.com/andrescamacho/industry-planner/internal/application/planning/queries"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
	"github.com/andrescamacho/industry-planner/internal/domain/shared"
)

// PlannerSettings carries the engine settings the planning handlers are built with
type PlannerSettings struct {
	Simulation        planning.SimulationOptions
	WhatIfParallelism int
}

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	ledgerRepo   resources.LedgerRepository
	scheduleRepo planning.ScheduleRepository
	clock        shared.Clock
	settings     PlannerSettings
}

// NewHandlerRegistry creates a new handler registry with required dependencies.
// Both repositories may be nil; the handlers needing them then fail on use.
func NewHandlerRegistry(
	ledgerRepo resources.LedgerRepository,
	scheduleRepo planning.ScheduleRepository,
	clock shared.Clock,
	settings PlannerSettings,
) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &HandlerRegistry{
		ledgerRepo:   ledgerRepo,
		scheduleRepo: scheduleRepo,
		clock:        clock,
		settings:     settings,
	}
}

// RegisterPlanningHandlers registers the scheduling and simulation handlers
//
// This method registers:
//   - SchedulePlanCommand → SchedulePlanHandler
//   - SimulatePlanCommand → SimulatePlanHandler (schedules through the mediator first)
//   - RunWhatIfCommand → RunWhatIfHandler
//   - GetScheduleQuery → GetScheduleHandler (only with a schedule repository)
func (r *HandlerRegistry) RegisterPlanningHandlers(m common.Mediator) error {
	scheduleHandler := planningCommands.NewSchedulePlanHandler(r.scheduleRepo, r.clock, r.settings.Simulation.Horizon)
	if err := m.Register(
		reflect.TypeOf(&planningCommands.SchedulePlanCommand{}),
		scheduleHandler,
	); err != nil {
		return err
	}

	simulateHandler := planningCommands.NewSimulatePlanHandler(m, r.ledgerRepo, r.clock, r.settings.Simulation)
	if err := m.Register(
		reflect.TypeOf(&planningCommands.SimulatePlanCommand{}),
		simulateHandler,
	); err != nil {
		return err
	}

	whatIfHandler := planningCommands.NewRunWhatIfHandler(
		m,
		r.ledgerRepo,
		r.clock,
		r.settings.Simulation,
		r.settings.WhatIfParallelism,
	)
	if err := m.Register(
		reflect.TypeOf(&planningCommands.RunWhatIfCommand{}),
		whatIfHandler,
	); err != nil {
		return err
	}

	if r.scheduleRepo == nil {
		return nil
	}
	return m.Register(
		reflect.TypeOf(&planningQueries.GetScheduleQuery{}),
		planningQueries.NewGetScheduleHandler(r.scheduleRepo),
	)
}

// RegisterLedgerHandlers registers the ledger import command and balance query
func (r *HandlerRegistry) RegisterLedgerHandlers(m common.Mediator) error {
	if err := m.Register(
		reflect.TypeOf(&ledgerCommands.ImportLedgerCommand{}),
		ledgerCommands.NewImportLedgerHandler(r.ledgerRepo),
	); err != nil {
		return err
	}

	return m.Register(
		reflect.TypeOf(&ledgerQueries.GetLedgerQuery{}),
		ledgerQueries.NewGetLedgerHandler(r.ledgerRepo),
	)
}

// CreateConfiguredMediator creates a mediator with every handler registered
// and the given middlewares installed, outermost first.
func (r *HandlerRegistry) CreateConfiguredMediator(middlewares ...common.Middleware) (common.Mediator, error) {
	m := common.NewMediator()
	for _, mw := range middlewares {
		m.Use(mw)
	}

	if err := r.RegisterPlanningHandlers(m); err != nil {
		return nil, err
	}

	// Ledger handlers only make sense with storage behind them
	if r.ledgerRepo != nil {
		if err := r.RegisterLedgerHandlers(m); err != nil {
			return nil, err
		}
	}

	return m, nil
}
