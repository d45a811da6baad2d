package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/internal/presentation/tui"
)

var describeCmd = &cobra.Command{
	Use:   "describe <symbol>",
	Short: "Show the documentation of a declared symbol",
	Long:  `Looks up an artifact, group or function by name and renders its documentation.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		engine, err := newEngine(cmd, nil)
		if err != nil {
			fmt.Printf("Error initializing lattice: %v\n", err)
			os.Exit(1)
		}

		md, err := engine.Describe(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		render := tui.NewRenderer()
		out, err := render(md)
		if err != nil {
			// Fall back to raw markdown if the terminal renderer chokes.
			out = md
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(describeCmd)
}
