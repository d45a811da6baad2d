package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice"
	mcpadapter "github.com/aretw0/lattice/internal/adapters/mcp"
	"github.com/aretw0/lattice/internal/logging"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the analyzer as an MCP Server over stdio.
This lets AI agents and editors analyze manifests, export graphs and look up
symbol docs as tools. The manifest path is supplied per tool call, so one
server instance can serve any manifest on disk.`,
	Run: func(cmd *cobra.Command, args []string) {
		level, _ := cmd.Flags().GetString("log-level")
		logger := logging.New(logging.ParseLevel(level))
		slog.SetDefault(logger)

		var opts []lattice.Option
		opts = append(opts, lattice.WithLogger(logger))
		if n, _ := cmd.Flags().GetInt("max-pools"); n > 0 {
			opts = append(opts, lattice.WithMaxPools(n))
		}

		srv := mcpadapter.NewServer(opts...)

		// Ensure logs don't corrupt JSON-RPC on Stdout
		log.SetOutput(os.Stderr)
		slog.Info("Starting Lattice MCP Server (Stdio)...")
		if err := srv.ServeStdio(); err != nil {
			slog.Error("MCP Server execution failed", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
