package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "industry-planner",
		Short: "Industry Planner - Schedule and simulate production jobs",
		Long: `Industry Planner schedules production jobs onto factory slots and
simulates the resulting schedule against a resource ledger.

A plan file describes the factories, job templates, target templates,
starting ledger and what-if scenarios. Ledgers can be imported into the
database and reused by every simulation.

Examples:
  industry-planner schedule --plan wolves.yaml
  industry-planner schedule --plan wolves.yaml --persist --tree
  industry-planner simulate --plan wolves.yaml --scenario slow-operator
  industry-planner simulate --plan wolves.yaml --ledger corp
  industry-planner whatif --plan wolves.yaml
  industry-planner ledger import --name corp --file hangar.yaml
  industry-planner ledger show corp
  industry-planner schedules list --plan wolves`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml, ./configs, /etc/industry-planner)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	// Add command groups
	rootCmd.AddCommand(NewScheduleCommand())
	rootCmd.AddCommand(NewSimulateCommand())
	rootCmd.AddCommand(NewWhatIfCommand())
	rootCmd.AddCommand(NewLedgerCommand())
	rootCmd.AddCommand(NewSchedulesCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
