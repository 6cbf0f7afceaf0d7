package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/andrescamacho/industry-planner/internal/adapters/metrics"
	"github.com/andrescamacho/industry-planner/internal/adapters/persistence"
	"github.com/andrescamacho/industry-planner/internal/application/common"
	"github.com/andrescamacho/industry-planner/internal/application/planning"
	"github.com/andrescamacho/industry-planner/internal/application/setup"
	"github.com/andrescamacho/industry-planner/internal/domain/resources"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/config"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/database"
	"github.com/andrescamacho/industry-planner/internal/infrastructure/logging"
)

// application bundles everything a command needs to dispatch requests
type application struct {
	cfg      *config.Config
	db       *gorm.DB
	mediator common.Mediator
	logger   *logging.LogrusLogger

	logCloser io.Closer
}

// newApplication loads the config, sets up logging and metrics, and builds the mediator.
// The database is only opened when needsDatabase reports true for the loaded config;
// without it the ledger commands and the schedule query are not registered.
func newApplication(needsDatabase func(cfg *config.Config) bool) (*application, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	openDatabase := needsDatabase(cfg)

	logCloser, err := logging.Configure(cfg.Logging)
	if err != nil {
		return nil, err
	}

	app := &application{
		cfg:       cfg,
		logger:    logging.NewLogrusLogger(logrus.StandardLogger()),
		logCloser: logCloser,
	}

	var (
		ledgerRepo   resources.LedgerRepository
		scheduleRepo planning.ScheduleRepository
	)
	if openDatabase {
		db, err := database.NewConnection(&cfg.Database)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		app.db = db
		if err := database.AutoMigrate(db); err != nil {
			app.close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		ledgerRepo = persistence.NewGormLedgerRepository(db)
		scheduleRepo = persistence.NewGormScheduleRepository(db)
	}

	var commandCollector *metrics.CommandMetricsCollector
	if cfg.Metrics.Enabled {
		metrics.InitRegistry(cfg.Metrics.Namespace)
		commandCollector = metrics.NewCommandMetricsCollector()
		plannerCollector := metrics.NewPlannerMetricsCollector()
		for _, register := range []func() error{commandCollector.Register, plannerCollector.Register} {
			if err := register(); err != nil {
				app.close()
				return nil, fmt.Errorf("failed to register metrics: %w", err)
			}
		}
		metrics.SetGlobalPlannerCollector(plannerCollector)
	}

	registry := setup.NewHandlerRegistry(ledgerRepo, scheduleRepo, nil, setup.PlannerSettings{
		Simulation: planning.SimulationOptions{
			Resolution: cfg.Planner.Resolution,
			Horizon:    cfg.Planner.Horizon,
		},
		WhatIfParallelism: cfg.Planner.WhatIfParallelism,
	})
	m, err := registry.CreateConfiguredMediator(
		common.LoggingMiddleware(),
		metrics.PrometheusMiddleware(commandCollector),
	)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("failed to configure mediator: %w", err)
	}
	app.mediator = m

	logrus.WithFields(logrus.Fields{
		"database": openDatabase,
		"metrics":  cfg.Metrics.Enabled,
	}).Debug("Application initialized")

	return app, nil
}

// databaseIf returns a needsDatabase predicate with a fixed answer
func databaseIf(needed bool) func(*config.Config) bool {
	return func(*config.Config) bool { return needed }
}

// context returns a context carrying the application logger
func (a *application) context() context.Context {
	return common.WithLogger(context.Background(), a.logger)
}

// close flushes metrics and releases the database and log file
func (a *application) close() {
	if a.cfg != nil && a.cfg.Metrics.Enabled && a.cfg.Metrics.TextfilePath != "" {
		if err := metrics.WriteTextfile(a.cfg.Metrics.TextfilePath); err != nil {
			logrus.WithError(err).Warn("Failed to write metrics")
		}
	}
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			logrus.WithError(err).Warn("Failed to close database")
		}
	}
	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}
