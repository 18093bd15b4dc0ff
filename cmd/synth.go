package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/internal/reduced"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// synthCmd writes a simulated observing night.
var synthCmd = &cobra.Command{
	Use:   "synth <data-path>",
	Short: "Write a simulated night of reduced data",
	Long: `Write a simulated observing night in the reduced data format read by 'retrieve'.

Every catalog line gets its own rectified order with a known brightness,
a flat background and Gaussian noise. The same seed always yields the same
night, which makes the output useful for checking an installation and for
trying out retrieval settings.

Examples:
  # Simulate a night and retrieve it
  aurora synth /tmp/night
  aurora retrieve /tmp/night

  # Noisier night with more frames and the extended catalog
  aurora synth /tmp/night --frames 8 --noise 0.5 --extended`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfigFile()
	},
	Run: func(_ *cobra.Command, args []string) {
		opts := reduced.SynthOptions{
			Target:   viper.GetString("target"),
			Seed:     viper.GetUint64("seed"),
			Frames:   viper.GetInt("frames"),
			Noise:    viper.GetFloat64("noise"),
			Extended: viper.GetBool("extended"),
		}
		seq, cal, err := reduced.Synthesize(opts)
		if err != nil {
			contract.LogFatal("Failed to simulate night", err)
		}
		if err := reduced.WriteDataset(args[0], seq, cal); err != nil {
			contract.LogFatal("Failed to write reduced data", err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "💾 Wrote %d frames of %s with %d orders to %s\n",
			len(seq.Frames), seq.Target, len(seq.Orders), args[0])
	},
}
