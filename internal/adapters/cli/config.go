package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/industry-planner/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect Industry Planner configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (IP_* prefix, e.g. IP_PLANNER_HORIZON=72h)
2. Config file (config.yaml)
3. Default values

Example:
  industry-planner config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault("")
			}

			fmt.Println("Industry Planner Configuration")
			fmt.Println("==============================")

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
			default:
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
			}
			fmt.Printf("  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Println("\nPlanner:")
			fmt.Printf("  Horizon:          %s\n", cfg.Planner.Horizon)
			fmt.Printf("  Resolution:       %s\n", cfg.Planner.Resolution)
			fmt.Printf("  What-if Workers:  %d\n", cfg.Planner.WhatIfParallelism)
			fmt.Printf("  Persist:          %t\n", cfg.Planner.PersistSchedules)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			fmt.Println("\nMetrics:")
			fmt.Printf("  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Printf("  Namespace:        %s\n", cfg.Metrics.Namespace)
			if cfg.Metrics.TextfilePath != "" {
				fmt.Printf("  Textfile:         %s\n", cfg.Metrics.TextfilePath)
			}

			return nil
		},
	}
}
