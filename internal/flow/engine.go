package flow

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
)

// DefaultMaxPools caps the live pool set. Pool count grows with the product
// of branch counts of every multi-branch contract on the path, which is
// exponential in pathological pipelines.
const DefaultMaxPools = 1024

// Engine drives the pipeline simulation: it walks the ordered contract list,
// branches token pools per produced outcome and emits the final graph.
//
// The simulation is a single deterministic pass. An Engine is exclusively
// owned by one analysis invocation; nothing is shared across invocations.
type Engine struct {
	logger   *slog.Logger
	maxPools int
	dedupe   bool

	diags []domain.Diagnostic
	stats Stats
}

// Stats exposes simple observability counters for one run.
type Stats struct {
	// PeakPools is the largest live pool set seen during the run.
	PeakPools int
	// FinalPools is the live pool count after the last contract.
	FinalPools int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets a structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMaxPools caps the live pool set. On a branching step that would exceed
// the cap, the successor set is truncated and a warning diagnostic is
// recorded; the simulation never aborts.
func WithMaxPools(n int) Option {
	return func(e *Engine) { e.maxPools = n }
}

// WithDeduplicateEdges makes Run return the canonical (sorted, deduplicated)
// edge view instead of raw emission order.
func WithDeduplicateEdges(on bool) Option {
	return func(e *Engine) { e.dedupe = on }
}

// NewEngine creates a simulation engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:   logging.NewNop(),
		maxPools: DefaultMaxPools,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run simulates the pipeline described by the ordered contract list and
// returns the accumulated graph.
//
// Node order is exactly declaration order: the synthetic start node (uid 0),
// one node per contract, then the end node and the fatal error sink. Edge
// order is emission order. The engine never aborts: a contract unsatisfiable
// on every live path simply contributes no data_flow edge.
func (e *Engine) Run(contracts []*domain.Function) domain.Graph {
	uid := 0
	next := func() int { uid++; return uid }

	start := syntheticNode(0, "Start", "Synthetic pipeline entry point.")
	start.IsStart = true
	nodes := []*domain.Node{start}

	var edges []domain.Edge
	var pools []*Pool
	if len(contracts) > 0 {
		pools = append(pools, NewPool(contracts[0].Consumes, start))
	}
	e.stats.PeakPools = len(pools)

	for _, contract := range contracts {
		node := &domain.Node{UID: next(), Function: contract}
		nodes = append(nodes, node)

		var successors []*Pool
		executed := false
		starved := make(map[string]bool)
		truncated := false

		for _, pool := range pools {
			stepEdges, missing := pool.TryConsume(contract.Consumes, node)
			if missing != nil {
				// Unreachable on this path; carry the pool unchanged.
				for _, m := range missing {
					starved[m.Artifact.Name] = true
				}
				successors = appendCapped(successors, pool, e.maxPools, &truncated)
				continue
			}

			executed = true
			edges = append(edges, stepEdges...)
			if len(contract.Produces) == 0 {
				successors = appendCapped(successors, pool, e.maxPools, &truncated)
				continue
			}
			for _, branch := range contract.Produces {
				clone := pool.Clone()
				clone.Produce(branch, node)
				successors = appendCapped(successors, clone, e.maxPools, &truncated)
			}
		}

		if truncated {
			e.record(domain.SeverityWarning, domain.DiagPoolOverflow,
				fmt.Sprintf("function %q: live pool set exceeded %d, branches truncated", contract.Name, e.maxPools))
			e.logger.Warn("live pool set truncated", "function", contract.Name, "cap", e.maxPools)
		}
		if !executed && len(contract.Consumes) > 0 {
			e.record(domain.SeverityWarning, domain.DiagFlowStarvation,
				fmt.Sprintf("function %q could not execute on any path, missing inputs: [%s]",
					contract.Name, joinSorted(starved)))
		}

		pools = successors
		if len(pools) > e.stats.PeakPools {
			e.stats.PeakPools = len(pools)
		}
	}

	end := syntheticNode(next(), "End", "Synthetic terminal sink for unconsumed artifacts.")
	end.IsEnd = true
	fatal := syntheticNode(next(), "Fatal", "Synthetic sink for unhandled errors.")
	fatal.IsErrorSink = true
	nodes = append(nodes, end, fatal)

	for _, pool := range pools {
		variables, errs, constants := pool.Leftovers()
		for _, t := range append(variables, constants...) {
			edges = append(edges, domain.Edge{
				Origin:      pool.Origin(t).UID,
				Destination: end.UID,
				Token:       t,
				Relation:    domain.TerminalFlow,
			})
		}
		for _, t := range errs {
			edges = append(edges, domain.Edge{
				Origin:      pool.Origin(t).UID,
				Destination: fatal.UID,
				Token:       t,
				Relation:    domain.ErrorFlow,
			})
		}
	}
	e.stats.FinalPools = len(pools)

	graph := domain.Graph{Nodes: nodes, Edges: edges}
	if graph.Edges == nil {
		graph.Edges = []domain.Edge{}
	}
	if e.dedupe {
		graph = graph.Canonical()
	}
	return graph
}

// Diagnostics returns everything recorded during Run, in order.
func (e *Engine) Diagnostics() []domain.Diagnostic {
	return e.diags
}

// Stats returns the counters of the last Run.
func (e *Engine) Stats() Stats {
	return e.stats
}

func (e *Engine) record(sev domain.Severity, code, msg string) {
	e.diags = append(e.diags, domain.Diagnostic{Severity: sev, Code: code, Message: msg})
}

func syntheticNode(uid int, name, docs string) *domain.Node {
	return &domain.Node{
		UID: uid,
		Function: &domain.Function{
			Name:     name,
			Docs:     docs,
			Consumes: []domain.Token{},
			Produces: [][]domain.Token{},
		},
	}
}

func appendCapped(pools []*Pool, p *Pool, limit int, truncated *bool) []*Pool {
	if len(pools) >= limit {
		*truncated = true
		return pools
	}
	return append(pools, p)
}

func joinSorted(set map[string]bool) string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
