package domain

import "errors"

// ErrNoFlow is returned when a manifest declares no flow steps at all.
// Per the error-handling policy, the analyzer declines to run the simulation
// rather than returning a partial graph.
var ErrNoFlow = errors.New("no flow steps declared")

// ErrSymbolNotFound is returned when a symbol lookup (describe) misses.
var ErrSymbolNotFound = errors.New("symbol not found")
