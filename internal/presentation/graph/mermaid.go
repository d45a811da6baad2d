package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart (flowchart TD) from the
// canonical graph. It applies semantic styling:
// - Start/End: stadium (rounded)
// - Fatal error sink: double circle, error class
// - Functions: rectangles, clustered per group
// Edge labels carry the artifact name; error_flow edges are dotted.
func GenerateMermaid(g domain.Graph) string {
	g = g.Canonical()

	var sb strings.Builder
	sb.WriteString("flowchart TD\n")
	sb.WriteString("    classDef startend fill:#059669,stroke:#047857,color:#fff;\n")
	sb.WriteString("    classDef error fill:#dc2626,stroke:#b91c1c,color:#fff;\n")
	sb.WriteString("    classDef function fill:#2563eb,stroke:#1d4ed8,color:#fff;\n")

	for _, group := range groupOrder(g.Nodes) {
		if group != "" {
			fmt.Fprintf(&sb, "    subgraph %s\n", sanitizeMermaidID(group))
			sb.WriteString("        direction TB\n")
		}
		for _, node := range g.Nodes {
			if groupName(node) != group {
				continue
			}
			opener, closer, class := "[", "]", "function"
			switch {
			case node.IsErrorSink:
				opener, closer, class = "(((", ")))", "error"
			case node.IsStart || node.IsEnd:
				opener, closer, class = "([", "])", "startend"
			}
			fmt.Fprintf(&sb, "    N%d%s\"%s\"%s:::%s\n", node.UID, opener, node.Name(), closer, class)
		}
		if group != "" {
			sb.WriteString("    end\n")
		}
	}

	for _, e := range g.Edges {
		arrow := "-->"
		if e.Relation == domain.ErrorFlow {
			arrow = "-.->"
		}
		label := e.Token.Artifact.Name
		if e.Token.Cardinality == domain.Collection {
			label += "[]"
		}
		fmt.Fprintf(&sb, "    N%d %s|\"%s\"| N%d\n", e.Origin, arrow, label, e.Destination)
	}

	return sb.String()
}

// groupOrder returns the distinct group names in first-seen node order, with
// the ungrouped bucket ("") first. Deterministic output matters for snapshot
// tests.
func groupOrder(nodes []*domain.Node) []string {
	order := []string{""}
	seen := map[string]bool{"": true}
	for _, n := range nodes {
		name := groupName(n)
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	return order
}

func groupName(n *domain.Node) string {
	if n.Function == nil || n.Function.Group == nil {
		return ""
	}
	return n.Function.Group.Name
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
