package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/internal/runstore"
	"github.com/huangsam/aurora/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:                "aurora",
	Short:              "Retrieve auroral emission-line brightnesses from reduced echelle spectra.",
	Long:               `Aurora extracts the echelle order of every auroral emission line, removes the sky and target continuum, and reports calibrated brightnesses in rayleighs.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setConfigSource points viper at the explicit config file or the default search paths.
func setConfigSource() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".aurora") // Name of config file (without extension)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	setConfigSource()

	viper.SetEnvPrefix("AURORA")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("precision", schema.DefaultPrecision)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("seeing", schema.DefaultSeeing)
	viper.SetDefault("y-offset", schema.DefaultYOffset)
	viper.SetDefault("top-trim", schema.DefaultTopTrim)
	viper.SetDefault("bottom-trim", schema.DefaultBottomTrim)
	viper.SetDefault("tolerance", schema.DefaultTolerance)
	viper.SetDefault("window", schema.DefaultWindow)
	viper.SetDefault("background", schema.MedianBackground)
	viper.SetDefault("results-backend", schema.SQLiteBackend)
	viper.SetDefault("results-db-connect", "")
	viper.SetDefault("color", "yes")
}

// sharedSetup unmarshals config, runs validation and opens the run store.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	if err := activeProfile.start(viper.GetString("profile")); err != nil {
		return fmt.Errorf("failed to start profiling: %w", err)
	}

	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.DataPathStr = args[0]
	} else {
		input.DataPathStr = viper.GetString("data-path")
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Open the run store with the validated backend.
	return openRunStore(cfg.ResultsBackend, cfg.ResultsDBConnect)
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// openRunStore initializes run tracking unless it is disabled.
func openRunStore(backend schema.DatabaseBackend, connStr string) error {
	if backend == schema.NoneBackend {
		return nil
	}
	if err := runstore.InitRunStore(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize run store: %w", err)
	}
	return nil
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	setConfigSource()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// StopProfiling flushes the CPU and heap profiles if profiling was started.
func StopProfiling() error {
	return activeProfile.stop()
}
