package cmd

import (
	"github.com/huangsam/aurora/core"
	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/internal/outwriter"
	"github.com/huangsam/aurora/internal/qa"
	"github.com/huangsam/aurora/internal/reduced"
	"github.com/huangsam/aurora/internal/runstore"
	"github.com/spf13/cobra"
)

// newDependencies wires the reduced data reader, the result writer, the
// graphics renderer and the run store into the retrieval pipeline.
func newDependencies(c *contract.Config) core.Dependencies {
	writer := outwriter.NewOutWriter()
	writer.Precision = c.Precision
	deps := core.Dependencies{
		Reader: reduced.Reader{},
		Writer: writer,
		Runs:   runstore.Manager,
	}
	if !c.NoPlots {
		deps.Renderer = qa.Renderer{}
	}
	return deps
}

// retrieveCmd runs the brightness retrieval over one observing night.
var retrieveCmd = &cobra.Command{
	Use:   "retrieve [data-path]",
	Short: "Retrieve the brightness of every auroral emission line",
	Long: `Retrieve calibrated emission-line brightnesses from one night of reduced echelle data.

The data path must hold the two reduced products:
- science_observations.json.gz - rectified orders of every frame
- flux_calibration.json.gz - per-order flux calibration factors

For every line group in the catalog, aurora:
- Locates the echelle order holding the line (skipping lines not observed)
- Cuts an aperture around the target and samples the sky on both sides
- Fits and subtracts the background (median or polynomial)
- Integrates the line in every frame and averages the frames

Each line gets a directory under the save path with results.json,
results.txt, frames.parquet and the quality-assurance graphics.

Examples:
  # Retrieve with the default catalog
  aurora retrieve /data/2021-06-08

  # Extended catalog with a polynomial background
  aurora retrieve /data/2021-06-08 --extended --background poly

  # Leave frames 0 and 3 out of the 630.0 nm average
  aurora retrieve /data/2021-06-08 --exclude '630.0:0,3'

  # JSON summary for scripting
  aurora retrieve /data/2021-06-08 --output json --output-file summary.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRetrieve(rootCtx, cfg, newDependencies(cfg)); err != nil {
			contract.LogFatal("Retrieval failed", err)
		}
	},
}
