package compiler

import (
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/registry"
)

// GroupDef is a raw group declaration as written in a manifest.
type GroupDef struct {
	Name string `json:"name" mapstructure:"name"`
	Docs string `json:"docs" mapstructure:"docs"`
}

// ArtifactDef is a raw artifact declaration.
// Kind is one of "constant", "variable" or "error".
type ArtifactDef struct {
	Kind string `json:"kind" mapstructure:"kind"`
	Name string `json:"name" mapstructure:"name"`
	Docs string `json:"docs" mapstructure:"docs"`
}

// FunctionDef is a raw function declaration. Consumes entries and Produces
// branch entries are token references: an artifact name, with a trailing
// "[]" marking Collection cardinality.
type FunctionDef struct {
	Name     string     `json:"name" mapstructure:"name"`
	Group    string     `json:"group" mapstructure:"group"`
	Docs     string     `json:"docs" mapstructure:"docs"`
	Consumes []string   `json:"consumes" mapstructure:"consumes"`
	Produces [][]string `json:"produces" mapstructure:"produces"`
}

// Manifest is one parsed lattice document, before resolution.
type Manifest struct {
	Imports   []string      `json:"imports" mapstructure:"imports"`
	Groups    []GroupDef    `json:"groups" mapstructure:"groups"`
	Artifacts []ArtifactDef `json:"artifacts" mapstructure:"artifacts"`
	Functions []FunctionDef `json:"functions" mapstructure:"functions"`
	Flow      []string      `json:"flow" mapstructure:"flow"`
}

// ParseTokenRef splits a token reference into name and cardinality.
// "SourceFile[]" is a Collection of SourceFile; anything else is Unitary.
func ParseTokenRef(ref string) registry.TokenSpec {
	if name, ok := strings.CutSuffix(ref, "[]"); ok {
		return registry.TokenSpec{Ref: strings.TrimSpace(name), Cardinality: domain.Collection}
	}
	return registry.TokenSpec{Ref: strings.TrimSpace(ref), Cardinality: domain.Unitary}
}

// Apply registers every definition into reg (definitions pass), resolves the
// function contracts (resolution pass), and returns the ordered contract
// list following the manifest's flow.
//
// A flow step naming an unknown function is skipped with a recorded
// diagnostic; a manifest with no flow at all yields domain.ErrNoFlow, the one
// case where the caller must decline to simulate.
func (m *Manifest) Apply(reg *registry.Registry) ([]*domain.Function, error) {
	if len(m.Flow) == 0 {
		return nil, domain.ErrNoFlow
	}

	for _, g := range m.Groups {
		reg.RegisterGroup(g.Name, g.Docs)
	}
	for _, a := range m.Artifacts {
		reg.Register(a.Kind, a.Name, a.Docs)
	}

	for _, f := range m.Functions {
		inputs := make([]registry.TokenSpec, 0, len(f.Consumes))
		for _, ref := range f.Consumes {
			inputs = append(inputs, ParseTokenRef(ref))
		}
		outputs := make([][]registry.TokenSpec, 0, len(f.Produces))
		for _, branch := range f.Produces {
			specs := make([]registry.TokenSpec, 0, len(branch))
			for _, ref := range branch {
				specs = append(specs, ParseTokenRef(ref))
			}
			outputs = append(outputs, specs)
		}
		reg.ResolveFunction(f.Name, f.Docs, f.Group, inputs, outputs)
	}

	contracts := make([]*domain.Function, 0, len(m.Flow))
	for _, step := range m.Flow {
		fn, ok := reg.LookupFunction(step)
		if !ok {
			reg.RecordUnknownFunction(step)
			continue
		}
		contracts = append(contracts, fn)
	}
	return contracts, nil
}

// merge appends other's records after m's. Definitions merge last-wins via
// the registry, so import order decides precedence.
func (m *Manifest) merge(other *Manifest) {
	m.Groups = append(m.Groups, other.Groups...)
	m.Artifacts = append(m.Artifacts, other.Artifacts...)
	m.Functions = append(m.Functions, other.Functions...)
	m.Flow = append(m.Flow, other.Flow...)
}
