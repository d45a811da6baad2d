package domain

// ArtifactKind constants classify the declared entities of a manifest.
const (
	// KindConstant is an immutable, reusable artifact. Consuming it never
	// removes it from a pool; it is only marked as used.
	KindConstant = "constant"
	// KindVariable is a single-use artifact, removed from a pool on consumption.
	KindVariable = "variable"
	// KindError is a failure artifact. Also single-use; anything left over at
	// the end of the flow is routed to the fatal sink.
	KindError = "error"
)

// Artifact is a named domain entity declared in a manifest.
// Artifacts are created once per declaration and shared by pointer everywhere
// they are referenced; many Tokens may point at the same Artifact.
type Artifact struct {
	Kind string `json:"kind"`
	Name string `json:"name"`
	Docs string `json:"docs,omitempty"`
}

// Group is a logical container functions may belong to.
type Group struct {
	Name string `json:"name"`
	Docs string `json:"docs,omitempty"`
}
