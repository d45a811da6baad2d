package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
)

// GenerateDOT produces a Graphviz digraph from the canonical graph, with one
// cluster per group. Edge color follows the artifact kind, edge style the
// relation (error_flow dotted).
func GenerateDOT(g domain.Graph) string {
	g = g.Canonical()

	var sb strings.Builder
	sb.WriteString("digraph Lattice {\n")
	sb.WriteString("    rankdir=TD;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=10, style=filled];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=9];\n")

	for _, group := range groupOrder(g.Nodes) {
		indent := "    "
		if group != "" {
			fmt.Fprintf(&sb, "    subgraph cluster_%s {\n", sanitizeMermaidID(group))
			fmt.Fprintf(&sb, "        label=\"%s\";\n", group)
			sb.WriteString("        style=rounded;\n")
			sb.WriteString("        color=\"#94a3b8\";\n")
			indent = "        "
		}
		for _, node := range g.Nodes {
			if groupName(node) != group {
				continue
			}
			shape, fill := "box", "#2563eb"
			switch {
			case node.IsErrorSink:
				shape, fill = "doublecircle", "#dc2626"
			case node.IsStart, node.IsEnd:
				shape, fill = "oval", "#059669"
			}
			fmt.Fprintf(&sb, "%sN%d [label=\"%s\", shape=%s, fillcolor=\"%s\", fontcolor=\"#ffffff\"];\n",
				indent, node.UID, node.Name(), shape, fill)
		}
		if group != "" {
			sb.WriteString("    }\n")
		}
	}

	for _, e := range g.Edges {
		style := "solid"
		if e.Relation == domain.ErrorFlow {
			style = "dotted"
		}
		fmt.Fprintf(&sb, "    N%d -> N%d [label=\"%s\", color=\"%s\", style=\"%s\"];\n",
			e.Origin, e.Destination, e.Token.Artifact.Name, tokenColor(e.Token), style)
	}

	sb.WriteString("}\n")
	return sb.String()
}

func tokenColor(t domain.Token) string {
	switch t.Artifact.Kind {
	case domain.KindConstant:
		return "#0891b2"
	case domain.KindError:
		return "#dc2626"
	default:
		return "#475569"
	}
}
