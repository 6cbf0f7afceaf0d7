package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/industry-planner/internal/adapters/persistence"
	"github.com/andrescamacho/industry-planner/internal/adapters/planfile"
	"github.com/andrescamacho/industry-planner/internal/application/ledger/commands"
	"github.com/andrescamacho/industry-planner/internal/application/ledger/queries"
)

// NewLedgerCommand creates the ledger command with subcommands
func NewLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Stored resource ledger operations",
		Long: `Import and inspect resource ledgers stored in the database.

A ledger holds one balance per resource type and location. Simulations can
start from a stored ledger instead of the ledger embedded in a plan file.

Examples:
  industry-planner ledger import --name corp --file hangar.yaml
  industry-planner ledger import --name corp --file delivery.yaml --merge
  industry-planner ledger show corp
  industry-planner ledger show corp --location-id 60003760
  industry-planner ledger list`,
	}

	// Add subcommands
	cmd.AddCommand(newLedgerImportCommand())
	cmd.AddCommand(newLedgerShowCommand())
	cmd.AddCommand(newLedgerListCommand())

	return cmd
}

// newLedgerImportCommand creates the ledger import subcommand
func newLedgerImportCommand() *cobra.Command {
	var (
		name  string
		file  string
		merge bool
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import balances from a ledger file",
		Long: `Import the balances of a ledger file into a stored ledger.

By default the stored balances are replaced. With --merge the imported
amounts are added to the existing balances instead.

Example:
  industry-planner ledger import --name corp --file hangar.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			balances, err := planfile.LoadLedger(file)
			if err != nil {
				return err
			}

			app, err := newApplication(databaseIf(true))
			if err != nil {
				return err
			}
			defer app.close()

			resp, err := app.mediator.Send(app.context(), &commands.ImportLedgerCommand{
				Name:     name,
				Balances: balances,
				Merge:    merge,
			})
			if err != nil {
				return err
			}
			result, ok := resp.(*commands.ImportLedgerResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", resp)
			}

			fmt.Printf("Ledger %s now holds %d balances\n", result.Name, result.Balances)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Ledger name (required)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Path to the ledger file (required)")
	cmd.Flags().BoolVar(&merge, "merge", false, "Add to the stored balances instead of replacing them")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("file")

	return cmd
}

// newLedgerShowCommand creates the ledger show subcommand
func newLedgerShowCommand() *cobra.Command {
	var locationID int64

	cmd := &cobra.Command{
		Use:   "show <ledger>",
		Short: "Show the balances of a stored ledger",
		Long: `Display every balance of a stored ledger, optionally for one location.

Negative balances are projected deficits and are counted as shortfalls.

Examples:
  industry-planner ledger show corp
  industry-planner ledger show corp --location-id 60003760`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(databaseIf(true))
			if err != nil {
				return err
			}
			defer app.close()

			query := &queries.GetLedgerQuery{Name: args[0]}
			if cmd.Flags().Changed("location-id") {
				query.LocationID = &locationID
			}

			resp, err := app.mediator.Send(app.context(), query)
			if err != nil {
				return err
			}
			result, ok := resp.(*queries.GetLedgerResponse)
			if !ok {
				return fmt.Errorf("unexpected response type %T", resp)
			}

			fmt.Printf("Ledger %s (%d balances, %d shortfalls)\n", result.Name, len(result.Balances), result.Shortfalls)
			printBalances(result.Balances)
			return nil
		},
	}

	cmd.Flags().Int64Var(&locationID, "location-id", 0, "Only show balances at this location")

	return cmd
}

// newLedgerListCommand creates the ledger list subcommand
func newLedgerListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored ledgers",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApplication(databaseIf(true))
			if err != nil {
				return err
			}
			defer app.close()

			names, err := persistence.NewGormLedgerRepository(app.db).List(app.context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Println("No ledgers stored")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "LEDGER")
			for _, name := range names {
				fmt.Fprintln(w, name)
			}
			w.Flush()
			return nil
		},
	}
}
