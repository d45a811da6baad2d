/*
Package lattice analyzes declarative architecture descriptions and derives a
verified data-flow graph from them.

A lattice manifest declares artifacts (constants, variables, errors),
functions with consume/produce contracts, optional groups, and an ordered
flow of function invocations. The engine resolves every name to a canonical
shared definition, then simulates the pipeline step by step: which artifacts
are available, which functions can fire, how mutually exclusive outcome
branches fork the possible futures, where implicit fan-out appears, and where
never-consumed artifacts finally drain. The result is a single canonical
graph of nodes and edges that drives the exporters, the HTTP graph server and
the MCP tooling.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/lattice"
	)

	func main() {
		eng, err := lattice.New("lattice.yaml")
		if err != nil {
			log.Fatal(err)
		}
		analysis, err := eng.Analyze(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%d nodes, %d edges\n",
			len(analysis.Graph.Nodes), len(analysis.Graph.Edges))
	}

# Design

The analyzer is deliberately forgiving: redefinitions silently take the last
definition, unknown artifact references degrade to inferred variables, and a
function whose inputs are unavailable is simply unreachable on that path.
Every such recovery is recorded as a Diagnostic so strict/batch tooling can
surface it without changing the graph.
*/
package lattice
