package domain

// Function is a fully resolved contract: what a pipeline step consumes and
// the alternative outcome sets it may produce.
//
// Produces is a list of branches. Branches are mutually exclusive outcomes
// (success tokens vs. error tokens, for example) and must never be flattened
// into one required set. Contracts are immutable once returned by the
// registry.
type Function struct {
	Name     string    `json:"name"`
	Docs     string    `json:"docs,omitempty"`
	Group    *Group    `json:"group,omitempty"`
	Consumes []Token   `json:"consumes"`
	Produces [][]Token `json:"produces"`
}
