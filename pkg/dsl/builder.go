package dsl

import (
	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/registry"
)

// Builder constructs a manifest programmatically, for tests and for hosts
// that embed the analyzer without YAML files on disk.
type Builder struct {
	manifest  compiler.Manifest
	functions []*compiler.FunctionDef
}

// New creates a new manifest builder.
func New() *Builder {
	return &Builder{}
}

// Group declares a group.
func (b *Builder) Group(name, docs string) *Builder {
	b.manifest.Groups = append(b.manifest.Groups, compiler.GroupDef{Name: name, Docs: docs})
	return b
}

// Constant declares a constant artifact.
func (b *Builder) Constant(name, docs string) *Builder {
	return b.artifact(domain.KindConstant, name, docs)
}

// Variable declares a variable artifact.
func (b *Builder) Variable(name, docs string) *Builder {
	return b.artifact(domain.KindVariable, name, docs)
}

// Error declares an error artifact.
func (b *Builder) Error(name, docs string) *Builder {
	return b.artifact(domain.KindError, name, docs)
}

func (b *Builder) artifact(kind, name, docs string) *Builder {
	b.manifest.Artifacts = append(b.manifest.Artifacts, compiler.ArtifactDef{
		Kind: kind, Name: name, Docs: docs,
	})
	return b
}

// Function starts a function declaration. Token references use the manifest
// syntax: "Name" for unitary, "Name[]" for collection.
func (b *Builder) Function(name string) *FunctionBuilder {
	def := &compiler.FunctionDef{Name: name}
	b.functions = append(b.functions, def)
	return &FunctionBuilder{def: def, builder: b}
}

// Flow appends steps to the pipeline, in invocation order.
func (b *Builder) Flow(steps ...string) *Builder {
	b.manifest.Flow = append(b.manifest.Flow, steps...)
	return b
}

// Apply resolves the built manifest against reg and returns the ordered
// contract list, ready for lattice.Simulate.
func (b *Builder) Apply(reg *registry.Registry) ([]*domain.Function, error) {
	m := b.manifest
	m.Functions = make([]compiler.FunctionDef, 0, len(b.functions))
	for _, def := range b.functions {
		m.Functions = append(m.Functions, *def)
	}
	return m.Apply(reg)
}

// FunctionBuilder configures one function declaration.
type FunctionBuilder struct {
	def     *compiler.FunctionDef
	builder *Builder
}

// Group assigns the function to a group.
func (fb *FunctionBuilder) Group(name string) *FunctionBuilder {
	fb.def.Group = name
	return fb
}

// Docs sets the documentation string.
func (fb *FunctionBuilder) Docs(docs string) *FunctionBuilder {
	fb.def.Docs = docs
	return fb
}

// Consumes appends input token references.
func (fb *FunctionBuilder) Consumes(refs ...string) *FunctionBuilder {
	fb.def.Consumes = append(fb.def.Consumes, refs...)
	return fb
}

// Branch appends one produced outcome set. Call once per mutually exclusive
// alternative.
func (fb *FunctionBuilder) Branch(refs ...string) *FunctionBuilder {
	fb.def.Produces = append(fb.def.Produces, refs)
	return fb
}

// End returns to the parent builder for chaining.
func (fb *FunctionBuilder) End() *Builder {
	return fb.builder
}
