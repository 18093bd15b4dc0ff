package cmd

import (
	"runtime"

	"github.com/huangsam/aurora/internal/runstore"
	"github.com/huangsam/aurora/schema"
	"github.com/spf13/cobra"
)

// versionCmd reports the build and the data formats this binary understands.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build and catalog information",
	Long: `Print the release, commit and build time of this binary along with
the size of the line catalog and the run-store schema revision it expects.

Include this output when reporting a brightness that looks wrong.`,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("aurora %s (%s, built %s, %s %s/%s)\n",
			version, commit, date, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("  Catalog:   %d line groups (%d extended)\n",
			len(schema.AuroraLines(false)), len(schema.AuroraLines(true)))
		cmd.Printf("  Run store: schema revision %d\n", runstore.LatestMigration(schema.SQLiteBackend))
	},
}
