package domain

// Cardinality describes how many instances of an artifact a token carries.
type Cardinality string

const (
	// Unitary is exactly one instance.
	Unitary Cardinality = "unitary"
	// Collection is zero-or-more instances. A Unitary requirement matched
	// against a Collection token triggers implicit fan-out of the consumer.
	Collection Cardinality = "collection"
)

// Token is one usage of an Artifact flowing through the simulation.
// The ID is unique within a Registry; it identifies the usage site for
// provenance tracking and is never reused. Matching between tokens ignores
// the ID entirely: two tokens match when they reference the same Artifact.
type Token struct {
	ID          int         `json:"id"`
	Artifact    *Artifact   `json:"artifact"`
	Cardinality Cardinality `json:"cardinality"`
	Group       *Group      `json:"group,omitempty"`
}

// Matches reports whether t can satisfy a requirement for other.
// Only the canonical artifact identity counts; cardinality and id do not.
func (t Token) Matches(other Token) bool {
	return t.Artifact == other.Artifact
}
