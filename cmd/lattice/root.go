package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "lattice",
	Short: "Lattice analyzes declarative architecture descriptions",
	Long: `Lattice derives a verified data-flow graph from a declarative
architecture manifest: which artifacts exist, which functions consume and
produce them, how outcomes branch, and where unconsumed artifacts drain.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("manifest", "m", "lattice.yaml", "Path to the manifest file")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().Int("max-pools", 0, "Cap on live execution-path pools (0 = default)")
}

// newEngine builds a lattice engine from the shared flags. A positional
// manifest argument, when the command takes one, overrides the unset flag.
func newEngine(cmd *cobra.Command, args []string) (*lattice.Engine, error) {
	manifest, _ := cmd.Flags().GetString("manifest")
	if !cmd.Flags().Changed("manifest") && len(args) > 0 {
		manifest = args[0]
	}
	level, _ := cmd.Flags().GetString("log-level")

	opts := []lattice.Option{
		lattice.WithLogger(logging.New(logging.ParseLevel(level))),
	}
	if n, _ := cmd.Flags().GetInt("max-pools"); n > 0 {
		opts = append(opts, lattice.WithMaxPools(n))
	}
	return lattice.New(manifest, opts...)
}
