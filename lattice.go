package lattice

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/internal/flow"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/registry"
)

// Version is the current Lattice release.
var Version = "0.3.0"

// Analysis is the result of one full pass: the resolved contract list, the
// simulated graph and every diagnostic recorded along the way. Diagnostics
// never change the graph; they exist for strict/batch consumers.
type Analysis struct {
	Graph       domain.Graph
	Contracts   []*domain.Function
	Diagnostics []domain.Diagnostic

	// PeakPools is the largest live pool set seen during simulation, a cheap
	// proxy for how hard the branch fan-out hit this document.
	PeakPools int
}

// Engine is the high-level entry point for the Lattice library. It wraps the
// manifest compiler, the registry and the flow simulation behind a single
// Analyze call. One Engine per document; engines share no state.
type Engine struct {
	manifestPath string
	logger       *slog.Logger
	maxPools     int
	dedupe       bool
	parser       *compiler.Parser
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithMaxPools caps the live pool set during simulation.
func WithMaxPools(n int) Option {
	return func(e *Engine) { e.maxPools = n }
}

// WithDeduplicateEdges switches the produced graph to the canonical
// (sorted, deduplicated) edge view.
func WithDeduplicateEdges(on bool) Option {
	return func(e *Engine) { e.dedupe = on }
}

// New initializes an Engine bound to a manifest file.
func New(manifestPath string, opts ...Option) (*Engine, error) {
	if manifestPath == "" {
		return nil, fmt.Errorf("manifestPath is required")
	}
	e := &Engine{
		manifestPath: manifestPath,
		logger:       logging.NewNop(),
		maxPools:     flow.DefaultMaxPools,
		parser:       compiler.NewParser(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Analyze runs the full pass: load and merge the manifest (with imports),
// resolve contracts, simulate the flow. Each call uses a fresh registry and
// engine, so concurrent Analyze calls on different Engines are safe.
func (e *Engine) Analyze(ctx context.Context) (*Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	manifest, err := e.parser.Load(e.manifestPath)
	if err != nil {
		return nil, err
	}

	reg := registry.New()
	contracts, err := manifest.Apply(reg)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("manifest resolved",
		"functions", len(contracts), "flowSteps", len(manifest.Flow))

	return e.simulate(reg, contracts), nil
}

// Describe returns a markdown description of a declared symbol (artifact,
// group or function) for editor hovers and the describe command.
func (e *Engine) Describe(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	manifest, err := e.parser.Load(e.manifestPath)
	if err != nil {
		return "", err
	}
	reg := registry.New()
	if _, err := manifest.Apply(reg); err != nil {
		return "", err
	}

	if a, ok := reg.Lookup(name); ok {
		return artifactMarkdown(a), nil
	}
	if g, ok := reg.LookupGroup(name); ok {
		return fmt.Sprintf("# %s `group`\n\n%s\n", g.Name, g.Docs), nil
	}
	if fn, ok := reg.LookupFunction(name); ok {
		return functionMarkdown(fn), nil
	}
	return "", fmt.Errorf("%q: %w", name, domain.ErrSymbolNotFound)
}

func (e *Engine) simulate(reg *registry.Registry, contracts []*domain.Function) *Analysis {
	eng := flow.NewEngine(
		flow.WithLogger(e.logger),
		flow.WithMaxPools(e.maxPools),
		flow.WithDeduplicateEdges(e.dedupe),
	)
	graph := eng.Run(contracts)

	diags := append([]domain.Diagnostic(nil), reg.Diagnostics()...)
	diags = append(diags, eng.Diagnostics()...)

	return &Analysis{
		Graph:       graph,
		Contracts:   contracts,
		Diagnostics: diags,
		PeakPools:   eng.Stats().PeakPools,
	}
}

// Simulate runs the flow simulation over an already resolved contract list.
// Intended for programmatic construction via pkg/dsl; diagnostics recorded by
// the registry that resolved the contracts are merged into the result.
func Simulate(reg *registry.Registry, contracts []*domain.Function, opts ...Option) *Analysis {
	e := &Engine{logger: logging.NewNop(), maxPools: flow.DefaultMaxPools}
	for _, opt := range opts {
		opt(e)
	}
	return e.simulate(reg, contracts)
}

func artifactMarkdown(a *domain.Artifact) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s `%s`\n\n", a.Name, a.Kind)
	if a.Docs != "" {
		sb.WriteString(a.Docs)
		sb.WriteString("\n")
	}
	return sb.String()
}

func functionMarkdown(fn *domain.Function) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s `function`\n\n", fn.Name)
	if fn.Group != nil {
		fmt.Fprintf(&sb, "Group: **%s**\n\n", fn.Group.Name)
	}
	if fn.Docs != "" {
		sb.WriteString(fn.Docs)
		sb.WriteString("\n\n")
	}
	sb.WriteString("Consumes:\n")
	for _, t := range fn.Consumes {
		fmt.Fprintf(&sb, "  - %s\n", tokenRef(t))
	}
	sb.WriteString("\nProduces:\n")
	for i, branch := range fn.Produces {
		fmt.Fprintf(&sb, "  - branch %d:", i+1)
		for _, t := range branch {
			fmt.Fprintf(&sb, " %s", tokenRef(t))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func tokenRef(t domain.Token) string {
	if t.Cardinality == domain.Collection {
		return t.Artifact.Name + "[]"
	}
	return t.Artifact.Name
}
