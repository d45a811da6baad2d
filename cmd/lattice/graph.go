package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [manifest]",
	Short: "Export the data-flow graph visualization",
	Long:  `Analyzes the manifest and outputs a Mermaid diagram (flowchart TD) of the derived data-flow graph.`,
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

		fmt.Print(graph.GenerateMermaid(analysis.Graph))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
