/*
Package dsl provides a fluent builder for constructing lattice manifests in
Go code, as an alternative to YAML files on disk.

	b := dsl.New().
		Constant("Settings", "Loaded configuration").
		Variable("Command", "CLI input")
	b.Function("ProcessCLI").Consumes("Command").Branch("Settings")
	b.Flow("ProcessCLI")

	reg := registry.New()
	contracts, err := b.Apply(reg)
	// contracts feed lattice.Simulate
*/
package dsl
