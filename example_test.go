package lattice_test

import (
	"fmt"
	"log"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/dsl"
	"github.com/aretw0/lattice/pkg/registry"
)

// ExampleSimulate demonstrates building a pipeline in memory with the dsl
// builder and simulating it without a manifest file on disk.
func ExampleSimulate() {
	// 1. Declare artifacts and contracts. "SourceFile[]" marks a collection.
	b := dsl.New().
		Variable("Settings", "Resolved site settings.").
		Variable("SourceFile", "One markdown file on disk.").
		Variable("Page", "One rendered page.").
		Error("ScanError", "Filesystem walk failed.").
		Function("ScanFS").
		Consumes("Settings").
		Branch("SourceFile[]").
		Branch("ScanError").
		End().
		Function("ParseMarkdown").
		Consumes("SourceFile").
		Branch("Page").
		End().
		Flow("ScanFS", "ParseMarkdown")

	// 2. Resolve against a fresh registry.
	reg := registry.New()
	contracts, err := b.Apply(reg)
	if err != nil {
		log.Fatal(err)
	}

	// 3. Simulate and inspect the graph.
	analysis := lattice.Simulate(reg, contracts)
	for _, n := range analysis.Graph.Nodes {
		fmt.Println(n.Name())
	}

	// Output:
	// Start
	// ScanFS
	// ParseMarkdown
	// End
	// Fatal
}
