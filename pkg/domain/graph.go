package domain

import (
	"encoding/json"
	"sort"
)

// Relation tags the semantic meaning of an edge.
type Relation string

const (
	// DataFlow is regular value propagation between functions.
	DataFlow Relation = "data_flow"
	// TerminalFlow routes artifacts nobody consumed to the end node.
	TerminalFlow Relation = "terminal_flow"
	// ErrorFlow routes unhandled errors to the fatal sink.
	ErrorFlow Relation = "error_flow"
)

// Node is a single simulated invocation of a function contract.
// UID 0 is reserved for the synthetic start node. Nodes are immutable after
// creation.
type Node struct {
	UID         int
	Function    *Function
	IsStart     bool
	IsEnd       bool
	IsErrorSink bool
}

// nodeJSON fixes the wire shape and field order of a serialized node.
type nodeJSON struct {
	UID          int       `json:"uid"`
	FunctionName string    `json:"functionName"`
	Docs         string    `json:"docs,omitempty"`
	Group        string    `json:"group,omitempty"`
	Consumes     []Token   `json:"consumes"`
	Produces     [][]Token `json:"produces"`
	IsStart      bool      `json:"isStart"`
	IsEnd        bool      `json:"isEnd"`
	IsErrorSink  bool      `json:"isErrorSink"`
}

// MarshalJSON flattens the wrapped function into the node for consumers.
func (n Node) MarshalJSON() ([]byte, error) {
	out := nodeJSON{
		UID:         n.UID,
		Consumes:    []Token{},
		Produces:    [][]Token{},
		IsStart:     n.IsStart,
		IsEnd:       n.IsEnd,
		IsErrorSink: n.IsErrorSink,
	}
	if n.Function != nil {
		out.FunctionName = n.Function.Name
		out.Docs = n.Function.Docs
		if n.Function.Group != nil {
			out.Group = n.Function.Group.Name
		}
		if n.Function.Consumes != nil {
			out.Consumes = n.Function.Consumes
		}
		if n.Function.Produces != nil {
			out.Produces = n.Function.Produces
		}
	}
	return json.Marshal(out)
}

// Name returns the function name of the node (synthetic nodes included).
func (n *Node) Name() string {
	if n.Function == nil {
		return ""
	}
	return n.Function.Name
}

// Edge is a directed connection carrying one specific token.
type Edge struct {
	Origin      int      `json:"originNodeUid"`
	Destination int      `json:"destinationNodeUid"`
	Token       Token    `json:"token"`
	Relation    Relation `json:"relation"`
}

// Graph is the verified data-flow graph, the single output contract shared by
// every exporter and editor feature. Node order is declaration order; edge
// order is emission order.
type Graph struct {
	Nodes []*Node `json:"nodes"`
	Edges []Edge  `json:"edges"`
}

// Canonical returns a copy of the graph with edges sorted by
// (origin name, destination name, artifact name) and duplicates on that key
// dropped. Legitimate duplicates arise when independent branch pools match
// the same artifact kind; exporters and snapshot tests want the deduplicated
// view.
func (g Graph) Canonical() Graph {
	names := make(map[int]string, len(g.Nodes))
	for _, n := range g.Nodes {
		names[n.UID] = n.Name()
	}

	type edgeKey struct {
		origin, destination string
		artifact            *Artifact
	}

	keyOf := func(e Edge) edgeKey {
		return edgeKey{names[e.Origin], names[e.Destination], e.Token.Artifact}
	}

	seen := make(map[edgeKey]bool, len(g.Edges))
	edges := make([]Edge, 0, len(g.Edges))
	for _, e := range g.Edges {
		k := keyOf(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		edges = append(edges, e)
	}

	sort.SliceStable(edges, func(i, j int) bool {
		ki, kj := keyOf(edges[i]), keyOf(edges[j])
		if ki.origin != kj.origin {
			return ki.origin < kj.origin
		}
		if ki.destination != kj.destination {
			return ki.destination < kj.destination
		}
		return artifactName(ki.artifact) < artifactName(kj.artifact)
	})

	return Graph{Nodes: g.Nodes, Edges: edges}
}

func artifactName(a *Artifact) string {
	if a == nil {
		return ""
	}
	return a.Name
}

// NodeByUID looks up a node. Returns nil if absent.
func (g Graph) NodeByUID(uid int) *Node {
	for _, n := range g.Nodes {
		if n.UID == uid {
			return n
		}
	}
	return nil
}
