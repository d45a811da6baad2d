package dsl

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/registry"
)

func TestBuilder_ApplyResolvesContracts(t *testing.T) {
	b := New().
		Group("pipeline", "Build stages.").
		Variable("Settings", "").
		Variable("SourceFile", "").
		Error("ScanError", "").
		Function("Scan").
		Group("pipeline").
		Consumes("Settings").
		Branch("SourceFile[]").
		Branch("ScanError").
		End().
		Flow("Scan")

	reg := registry.New()
	contracts, err := b.Apply(reg)
	require.NoError(t, err)
	require.Len(t, contracts, 1)
	require.Empty(t, reg.Diagnostics())

	scan := contracts[0]
	require.Equal(t, "Scan", scan.Name)
	require.NotNil(t, scan.Group)
	require.Equal(t, "pipeline", scan.Group.Name)
	require.Len(t, scan.Consumes, 1)
	require.Len(t, scan.Produces, 2)
	require.Equal(t, domain.Collection, scan.Produces[0][0].Cardinality)
	require.Equal(t, domain.KindError, scan.Produces[1][0].Artifact.Kind)
}

func TestBuilder_NoFlow(t *testing.T) {
	b := New().Variable("X", "").Function("F").Consumes("X").End()

	_, err := b.Apply(registry.New())
	require.ErrorIs(t, err, domain.ErrNoFlow)
}

func TestBuilder_SimulateEndToEnd(t *testing.T) {
	b := New().
		Variable("Cmd", "").
		Variable("Settings", "").
		Variable("Path", "").
		Function("ProcessCLI").
		Consumes("Cmd").
		Branch("Settings", "Path").
		End().
		Flow("ProcessCLI")

	reg := registry.New()
	contracts, err := b.Apply(reg)
	require.NoError(t, err)

	analysis := lattice.Simulate(reg, contracts)
	require.Equal(t, 1, analysis.PeakPools)
	require.Len(t, analysis.Graph.Nodes, 4)

	var terminal int
	for _, e := range analysis.Graph.Edges {
		if e.Relation == domain.TerminalFlow {
			terminal++
		}
	}
	require.Equal(t, 2, terminal)
}

func TestBuilder_BranchesStayAttachedAfterMoreFunctions(t *testing.T) {
	b := New().Variable("A", "").Variable("B", "")

	first := b.Function("First").Consumes("A").Branch("B")
	// Declaring further functions must not detach the earlier definition.
	b.Function("Second").Consumes("B").End()
	first.Branch("A")

	b.Flow("First", "Second")

	reg := registry.New()
	contracts, err := b.Apply(reg)
	require.NoError(t, err)
	require.Len(t, contracts, 2)
	require.Len(t, contracts[0].Produces, 2)
}
