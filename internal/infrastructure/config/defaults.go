package config

import "time"

// Planner defaults
const (
	DefaultHorizon           = 30 * 24 * time.Hour
	DefaultResolution        = time.Minute
	DefaultWhatIfParallelism = 4
)

// SetDefaults sets default values for all configuration fields
func SetDefaults(cfg *Config) {
	// Database defaults
	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
	}
	if cfg.Database.Type == "sqlite" && cfg.Database.Path == "" {
		cfg.Database.Path = "industry-planner.db"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "planner"
	}
	if cfg.Database.Name == "" {
		cfg.Database.Name = "industry_planner"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.Pool.MaxOpen == 0 {
		cfg.Database.Pool.MaxOpen = 10
	}
	if cfg.Database.Pool.MaxIdle == 0 {
		cfg.Database.Pool.MaxIdle = 2
	}
	if cfg.Database.Pool.MaxLifetime == 0 {
		cfg.Database.Pool.MaxLifetime = 5 * time.Minute
	}

	// Planner defaults
	if cfg.Planner.Horizon == 0 {
		cfg.Planner.Horizon = DefaultHorizon
	}
	if cfg.Planner.Resolution == 0 {
		cfg.Planner.Resolution = DefaultResolution
	}
	if cfg.Planner.WhatIfParallelism == 0 {
		cfg.Planner.WhatIfParallelism = DefaultWhatIfParallelism
	}

	// Logging defaults
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}

	// Metrics defaults
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "industry_planner"
	}
}
