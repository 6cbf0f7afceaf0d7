package config

import "time"

// PlannerConfig holds scheduling and simulation settings
type PlannerConfig struct {
	// Horizon bounds slot utilization reports and how long manual jobs are waited for
	Horizon time.Duration `mapstructure:"horizon" validate:"gt=0"`

	// Resolution is the polling interval for manual jobs
	Resolution time.Duration `mapstructure:"resolution" validate:"gt=0"`

	// WhatIfParallelism caps how many scenarios simulate at once
	WhatIfParallelism int `mapstructure:"whatif_parallelism" validate:"min=1,max=64"`

	// PersistSchedules saves every computed schedule to the database
	PersistSchedules bool `mapstructure:"persist_schedules"`
}
