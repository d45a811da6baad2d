package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/presentation/graph"
)

// Server exposes the analyzer as an MCP server, the editor-tooling surface:
// agents and editors can request the graph, exports or symbol docs for any
// manifest on disk.
type Server struct {
	mcpServer *server.MCPServer
	options   []lattice.Option
}

// NewServer creates a new MCP Server instance.
func NewServer(opts ...lattice.Option) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer("lattice-mcp", strings.TrimSpace(lattice.Version)),
		options:   opts,
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

func (s *Server) engineFor(path string) (*lattice.Engine, error) {
	return lattice.New(path, s.options...)
}

func (s *Server) registerTools() {
	// TOOL: analyze_manifest
	s.mcpServer.AddTool(mcp.NewTool("analyze_manifest",
		mcp.WithDescription("Analyze a lattice manifest and return the canonical data-flow graph as JSON."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the manifest file")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		analysis, err := s.analyze(ctx, request)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("analyze failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(analysis.Graph.Canonical())
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: export_graph
	s.mcpServer.AddTool(mcp.NewTool("export_graph",
		mcp.WithDescription("Render the data-flow graph of a manifest as mermaid or dot."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the manifest file")),
		mcp.WithString("format", mcp.Description("Output format: mermaid (default) or dot")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		analysis, err := s.analyze(ctx, request)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("analyze failed: %v", err)), nil
		}
		switch request.GetString("format", "mermaid") {
		case "dot":
			return mcp.NewToolResultText(graph.GenerateDOT(analysis.Graph)), nil
		case "mermaid":
			return mcp.NewToolResultText(graph.GenerateMermaid(analysis.Graph)), nil
		default:
			return mcp.NewToolResultError("unknown format, want mermaid or dot"), nil
		}
	})

	// TOOL: describe_symbol
	s.mcpServer.AddTool(mcp.NewTool("describe_symbol",
		mcp.WithDescription("Describe a declared artifact, group or function as markdown."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Path to the manifest file")),
		mcp.WithString("name", mcp.Required(), mcp.Description("Symbol name to describe")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		eng, err := s.engineFor(request.GetString("path", ""))
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		md, err := eng.Describe(ctx, request.GetString("name", ""))
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("describe failed: %v", err)), nil
		}
		return mcp.NewToolResultText(md), nil
	})
}

func (s *Server) analyze(ctx context.Context, request mcp.CallToolRequest) (*lattice.Analysis, error) {
	eng, err := s.engineFor(request.GetString("path", ""))
	if err != nil {
		return nil, err
	}
	return eng.Analyze(ctx)
}
