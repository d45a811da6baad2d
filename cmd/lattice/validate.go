package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate [manifest]",
	Short: "Run the analysis in strict mode and report diagnostics",
	Long: `Analyzes the manifest and prints every silent recovery the analyzer
performed: redefinitions, inferred artifacts, unreachable flow steps. The
graph itself is unaffected by strict mode.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine(cmd, args)
		if err != nil {
			fmt.Printf("Error initializing lattice: %v\n", err)
			os.Exit(1)
		}

		analysis, err := engine.Analyze(cmd.Context())
		if err != nil {
			fmt.Printf("Error analyzing manifest: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(validator.Report(analysis.Diagnostics))

		strict, _ := cmd.Flags().GetBool("strict")
		if strict && validator.HasErrors(analysis.Diagnostics) {
			os.Exit(1)
		}
	},
}

func init() {
	validateCmd.Flags().Bool("strict", false, "Exit non-zero when error-severity diagnostics exist")
	rootCmd.AddCommand(validateCmd)
}
