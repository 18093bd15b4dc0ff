// Package cmd defines the command-line interface for aurora.
package cmd

import (
	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/internal/reduced"
	"github.com/huangsam/aurora/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(retrieveCmd)
	rootCmd.AddCommand(linesCmd)
	rootCmd.AddCommand(synthCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the results subcommands to the parent results command
	resultsCmd.AddCommand(resultsStatusCmd)
	resultsCmd.AddCommand(resultsHistoryCmd)
	resultsCmd.AddCommand(resultsExportCmd)
	resultsCmd.AddCommand(resultsClearCmd)
	resultsCmd.AddCommand(resultsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", schema.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("results-backend", string(schema.SQLiteBackend), "Run store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("results-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().Bool("extended", false, "Include the extended emission-line catalog")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of retrieveCmd to Viper
	retrieveCmd.Flags().String("save-path", "", "Directory for per-line results (default <data-path>/brightness)")
	retrieveCmd.Flags().Float64("seeing", schema.DefaultSeeing, "Seeing in arcsec added to the target radius")
	retrieveCmd.Flags().Int("y-offset", schema.DefaultYOffset, "Aperture offset from the order center, in spatial bins")
	retrieveCmd.Flags().Int("top-trim", schema.DefaultTopTrim, "Spatial bins removed from the top edge of each order")
	retrieveCmd.Flags().Int("bottom-trim", schema.DefaultBottomTrim, "Spatial bins removed from the bottom edge of each order")
	retrieveCmd.Flags().String("background", string(schema.MedianBackground), "Background model: median or poly")
	retrieveCmd.Flags().Float64("tolerance", schema.DefaultTolerance, "Wavelength tolerance in nm when locating a line")
	retrieveCmd.Flags().Int("window", schema.DefaultWindow, "Spectral bins kept either side of the outermost line")
	retrieveCmd.Flags().String("exclude", "", "Frames to leave out per line (format: '630.0:0,1;OI-777.4:2')")
	retrieveCmd.Flags().Bool("no-plots", false, "Skip the quality-assurance graphics")
	if err := viper.BindPFlags(retrieveCmd.Flags()); err != nil {
		contract.LogFatal("Error binding retrieve flags", err)
	}

	// Bind all flags of synthCmd to Viper
	synthCmd.Flags().Uint64("seed", 1, "Seed of the noise generator")
	synthCmd.Flags().Int("frames", reduced.DefaultSynthFrames, "Number of frames in the sequence")
	synthCmd.Flags().String("target", "Ganymede", "Name of the observed body")
	synthCmd.Flags().Float64("noise", reduced.DefaultSynthNoise, "Gaussian noise standard deviation per bin")
	if err := viper.BindPFlags(synthCmd.Flags()); err != nil {
		contract.LogFatal("Error binding synth flags", err)
	}

	// Bind all flags of resultsHistoryCmd to Viper
	resultsHistoryCmd.Flags().Int("limit", 10, "Maximum number of results to show")
	if err := viper.BindPFlags(resultsHistoryCmd.Flags()); err != nil {
		contract.LogFatal("Error binding results history flags", err)
	}

	// Bind all flags of resultsMigrateCmd to Viper
	resultsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(resultsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding results migrate flags", err)
	}
}
