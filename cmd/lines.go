package cmd

import (
	"fmt"

	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/internal/outwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// outputSetup loads the configuration needed by commands that only print.
// It skips the data path and retrieval parameter validation of sharedSetup.
func outputSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}
	if err := contract.ValidateOutputInputs(cfg, input); err != nil {
		return err
	}
	cfg.Extended = input.Extended
	return nil
}

// outputSetupWrapper wraps outputSetup to provide PreRunE for print-only commands.
func outputSetupWrapper(_ *cobra.Command, _ []string) error {
	return outputSetup()
}

// linesCmd prints the emission-line catalog.
var linesCmd = &cobra.Command{
	Use:   "lines",
	Short: "List the emission-line groups searched for",
	Long: `List the catalog of auroral emission-line groups, ordered by wavelength.

Each group shows:
- Line ID used in results and exclusions (e.g. OI-630.0)
- Rounded wavelength label (e.g. 630.0)
- Emitting species
- Member wavelengths in nm and their relative strengths

Examples:
  # Standard catalog
  aurora lines

  # Extended catalog as CSV
  aurora lines --extended --output csv`,
	PreRunE: outputSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := outwriter.PrintLines(cfg.Lines(), cfg); err != nil {
			contract.LogFatal("Failed to print line catalog", err)
		}
	},
}
