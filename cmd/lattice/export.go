package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/internal/presentation/graph"
)

var exportCmd = &cobra.Command{
	Use:   "export [manifest]",
	Short: "Export the graph in a chosen format",
	Long:  `Analyzes the manifest and writes the canonical graph as mermaid, dot or json.`,
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

		format, _ := cmd.Flags().GetString("format")
		switch format {
		case "mermaid":
			fmt.Print(graph.GenerateMermaid(analysis.Graph))
		case "dot":
			fmt.Print(graph.GenerateDOT(analysis.Graph))
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(analysis.Graph.Canonical()); err != nil {
				fmt.Printf("Error encoding graph: %v\n", err)
				os.Exit(1)
			}
		default:
			fmt.Printf("Unknown format %q (want mermaid, dot or json)\n", format)
			os.Exit(1)
		}
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "mermaid", "Output format: mermaid, dot or json")
	rootCmd.AddCommand(exportCmd)
}
