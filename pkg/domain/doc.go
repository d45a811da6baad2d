/*
Package domain contains the core domain models for the Lattice analyzer.

It defines the fundamental entities of an architecture description and of the
simulated data-flow graph derived from it. This package is kept pure and free
of external dependencies like I/O or rendering, following Hexagonal
Architecture principles.

# Key Entities

  - Artifact: A named domain entity (Constant, Variable, or Error), declared
    once and shared by pointer everywhere it is referenced.
  - Token: One usage of an Artifact carrying a Cardinality. Tokens match by
    artifact identity only; ids exist for provenance, never for matching.
  - Function: A resolved contract (consumes + mutually exclusive produce
    branches).
  - Node / Edge / Graph: The simulated invocation graph, the single output
    contract consumed by exporters and editor features.
  - Diagnostic: A recorded, non-fatal observation for strict/batch mode.
*/
package domain
