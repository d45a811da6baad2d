package registry

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
)

// TokenSpec is one unresolved token reference as written in a manifest:
// an artifact name plus a cardinality marker.
type TokenSpec struct {
	Ref         string
	Cardinality domain.Cardinality
}

// Registry resolves names to canonical artifact and group definitions and
// builds function contracts from raw specs.
//
// A Registry is exclusively owned by one analysis pass. It carries its own
// token id counter, so independent documents can be analyzed concurrently by
// giving each its own Registry. It is not safe for concurrent use by itself.
type Registry struct {
	artifacts map[string]*domain.Artifact
	groups    map[string]*domain.Group
	catalog   map[string]*domain.Function

	nextTokenID int
	diags       []domain.Diagnostic
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		artifacts: make(map[string]*domain.Artifact),
		groups:    make(map[string]*domain.Group),
		catalog:   make(map[string]*domain.Function),
	}
}

// Register inserts (or overwrites) an artifact definition.
// Policy: last definition wins, silently. Redefinition is common while a
// document is being typed, so it is recorded as a diagnostic, never an error.
func (r *Registry) Register(kind, name, docs string) *domain.Artifact {
	if _, exists := r.artifacts[name]; exists {
		r.record(domain.SeverityInfo, domain.DiagRedefinition,
			fmt.Sprintf("artifact %q redefined, last definition wins", name))
	}
	a := &domain.Artifact{Kind: kind, Name: name, Docs: docs}
	r.artifacts[name] = a
	return a
}

// RegisterGroup inserts (or overwrites) a group definition. Same last-wins
// policy as Register.
func (r *Registry) RegisterGroup(name, docs string) *domain.Group {
	if _, exists := r.groups[name]; exists {
		r.record(domain.SeverityInfo, domain.DiagRedefinition,
			fmt.Sprintf("group %q redefined, last definition wins", name))
	}
	g := &domain.Group{Name: name, Docs: docs}
	r.groups[name] = g
	return g
}

// Lookup returns the canonical artifact for a name.
func (r *Registry) Lookup(name string) (*domain.Artifact, bool) {
	a, ok := r.artifacts[name]
	return a, ok
}

// LookupGroup returns the canonical group for a name.
func (r *Registry) LookupGroup(name string) (*domain.Group, bool) {
	g, ok := r.groups[name]
	return g, ok
}

// LookupFunction returns a previously resolved contract by name.
func (r *Registry) LookupFunction(name string) (*domain.Function, bool) {
	f, ok := r.catalog[name]
	return f, ok
}

// ResolveFunction builds a fully resolved contract from raw specs.
//
// Every reference is looked up in the artifact table; an unknown name
// degrades to an inferred Variable rather than failing, so resolution never
// aborts on a partially typed document. The synthesized artifact is memoized
// in the table, so two references to the same unknown name share one
// canonical definition and still match each other in the pool.
//
// Each returned token is stamped with a fresh id; ids are never reused within
// a registry. The returned contract is never mutated afterwards.
func (r *Registry) ResolveFunction(name, docs, groupName string, inputs []TokenSpec, outputs [][]TokenSpec) *domain.Function {
	var group *domain.Group
	if groupName != "" {
		g, ok := r.groups[groupName]
		if !ok {
			r.record(domain.SeverityWarning, domain.DiagUnknownGroup,
				fmt.Sprintf("function %q references undefined group %q", name, groupName))
		}
		group = g
	}

	fn := &domain.Function{
		Name:     name,
		Docs:     docs,
		Group:    group,
		Consumes: r.resolveTokens(inputs, group),
	}
	fn.Produces = make([][]domain.Token, 0, len(outputs))
	for i, branch := range outputs {
		if len(branch) == 0 {
			r.record(domain.SeverityInfo, domain.DiagEmptyOutputBranch,
				fmt.Sprintf("function %q: output branch %d produces nothing", name, i+1))
		}
		fn.Produces = append(fn.Produces, r.resolveTokens(branch, group))
	}

	r.catalog[name] = fn
	return fn
}

func (r *Registry) resolveTokens(specs []TokenSpec, group *domain.Group) []domain.Token {
	tokens := make([]domain.Token, 0, len(specs))
	for _, spec := range specs {
		artifact, ok := r.artifacts[spec.Ref]
		if !ok {
			// Unresolved reference: degrade to an inferred variable.
			artifact = &domain.Artifact{Kind: domain.KindVariable, Name: spec.Ref}
			r.artifacts[spec.Ref] = artifact
			r.record(domain.SeverityWarning, domain.DiagInferredArtifact,
				fmt.Sprintf("undefined artifact %q, inferred as variable", spec.Ref))
		}
		tokens = append(tokens, domain.Token{
			ID:          r.nextID(),
			Artifact:    artifact,
			Cardinality: spec.Cardinality,
			Group:       group,
		})
	}
	return tokens
}

// RecordUnknownFunction records a flow step that names a function never
// declared in the manifest. The step is skipped; the simulation still runs.
func (r *Registry) RecordUnknownFunction(name string) {
	r.record(domain.SeverityError, domain.DiagUnknownFunction,
		fmt.Sprintf("flow references undefined function %q", name))
}

// Diagnostics returns everything recorded so far, in order.
func (r *Registry) Diagnostics() []domain.Diagnostic {
	return r.diags
}

func (r *Registry) nextID() int {
	id := r.nextTokenID
	r.nextTokenID++
	return id
}

func (r *Registry) record(sev domain.Severity, code, msg string) {
	r.diags = append(r.diags, domain.Diagnostic{Severity: sev, Code: code, Message: msg})
}
