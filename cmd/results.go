package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/internal/outwriter"
	"github.com/huangsam/aurora/internal/runstore"
	"github.com/huangsam/aurora/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resultsSetup loads the configuration needed for run store operations and opens the store.
func resultsSetup() error {
	if err := outputSetup(); err != nil {
		return err
	}
	return openRunStore(cfg.ResultsBackend, cfg.ResultsDBConnect)
}

// resultsSetupWrapper wraps resultsSetup to provide PreRunE for results commands.
func resultsSetupWrapper(_ *cobra.Command, _ []string) error {
	return resultsSetup()
}

// resultsMigrateSetup validates the backend without opening the store,
// so migrations can run on a fresh database.
func resultsMigrateSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	return contract.ValidateBackend(cfg, viper.GetString("results-backend"), viper.GetString("results-db-connect"))
}

// requireRunStore returns the open run store or an error when tracking is disabled.
func requireRunStore() (contract.RunStore, error) {
	store := runstore.Manager.GetRunStore()
	if store == nil {
		return nil, errors.New("run tracking is disabled (results-backend is none)")
	}
	return store, nil
}

// resultsCmd focused on stored retrieval results.
//
// Note: results subcommands use minimal initialization instead of the full
// sharedSetup, so they never need a reduced data directory.
var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Manage stored retrieval runs and line results",
	Long: `Manage the retrieval runs tracked in the run store.

Every retrieval records:
- Run metadata (target, data path, configuration, duration)
- The aggregate brightness of every retrieved line group

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show run store statistics
  history - Show recent results of one line group
  export  - Export runs and results to Parquet
  clear   - Remove all stored runs
  migrate - Run database schema migrations

Examples:
  # Check run store status
  aurora results status

  # Brightness of 630.0 nm over the last five runs
  aurora results history 630.0 --limit 5`,
}

// resultsStatusCmd shows run store status.
var resultsStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run store statistics and connection details",
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := requireRunStore()
		if err != nil {
			contract.LogFatal("Failed to get run store status", err)
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get run store status", err)
		}
		runstore.PrintRunStatus(os.Stdout, status)
	},
}

// resultsHistoryCmd shows the recent results of one line group.
var resultsHistoryCmd = &cobra.Command{
	Use:   "history <line>",
	Short: "Show the most recent stored results of one line group",
	Long: `Show the stored brightness of one line group across runs, newest first.

The line may be given by ID or by rounded wavelength label.

Examples:
  aurora results history OI-630.0
  aurora results history 777.4 --limit 20 --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: resultsSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		group, ok, err := schema.FindLineGroup(schema.AuroraLines(true), args[0])
		if err != nil {
			contract.LogFatal("Invalid line", err)
		}
		if !ok {
			contract.LogFatal("Invalid line", fmt.Errorf("%q matches no emission line", args[0]))
		}
		store, err := requireRunStore()
		if err != nil {
			contract.LogFatal("Failed to read line history", err)
		}
		records, err := store.GetLineHistory(group.ID, viper.GetInt("limit"))
		if err != nil {
			contract.LogFatal("Failed to read line history", err)
		}
		if err := outwriter.PrintLineHistory(records, cfg); err != nil {
			contract.LogFatal("Failed to print line history", err)
		}
	},
}

// resultsExportCmd exports stored runs to Parquet files.
var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored runs and line results to Parquet",
	Long: `Export every stored run and line result to Parquet for use with analytics tools.

Writes two files next to the --output-file base name:
- <base>.retrieval_runs.parquet
- <base>.line_results.parquet

Examples:
  aurora results export --output-file aurora-data
  duckdb -c "SELECT * FROM read_parquet('aurora-data.line_results.parquet') LIMIT 10"`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if err := loadConfigFile(); err != nil {
			return err
		}
		if err := contract.ValidateBackend(cfg, viper.GetString("results-backend"), viper.GetString("results-db-connect")); err != nil {
			return err
		}
		cfg.OutputFile = viper.GetString("output-file")
		return openRunStore(cfg.ResultsBackend, cfg.ResultsDBConnect)
	},
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.ExecuteRunExport(os.Stderr, runstore.Manager.GetRunStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export results", err)
		}
	},
}

// resultsClearCmd removes every stored run.
var resultsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored runs and line results",
	Long: `Delete all stored retrieval runs and line results.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the run tables

WARNING: This action cannot be undone. Consider exporting data first.`,
	PreRunE: resultsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		dbFile := cfg.ResultsDBConnect
		if dbFile == "" {
			dbFile = runstore.GetDBFilePath()
		}
		if err := runstore.ClearRuns(cfg.ResultsBackend, dbFile, cfg.ResultsDBConnect); err != nil {
			contract.LogFatal("Failed to clear results", err)
		}
		fmt.Println("Results cleared successfully.")
	},
}

// resultsMigrateCmd runs database migrations for the run store.
var resultsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  aurora results migrate

  # Rollback to initial state
  aurora results migrate --target-version 0`,
	PreRunE: resultsMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runstore.MigrateRuns(os.Stdout, cfg.ResultsBackend, cfg.ResultsDBConnect, viper.GetInt("target-version")); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
