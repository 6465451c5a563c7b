// Package graph renders workflow graphs as Mermaid flowcharts for
// quick inspection outside the visual designer.
package graph

import (
	"fmt"
	"strings"

	"github.com/nwalker85/agentfoundry/pkg/graph"
	"github.com/nwalker85/agentfoundry/pkg/ident"
)

// GenerateMermaid produces Mermaid flowchart syntax from a graph.
// Semantic shapes:
// - entry: ((Circle))
// - decision: {Diamond}
// - end: [[Subroutine]]
// - Default: [Rectangle]
// Dangling edges are annotated rather than dropped so a mid-edit
// graph still renders honestly.
func GenerateMermaid(g *graph.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range g.Nodes {
		safeID := ident.Sanitize(node.ID)

		opener, closer := "[", "]"
		switch node.Type {
		case graph.NodeTypeEntry:
			opener, closer = "((", "))"
		case graph.NodeTypeDecision:
			opener, closer = "{", "}"
		case graph.NodeTypeEnd:
			opener, closer = "[[", "]]"
		}

		label := node.Label
		if label == "" {
			label = node.ID
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeQuotes(label), closer))
	}

	for _, e := range g.Edges {
		safeSource := ident.Sanitize(e.Source)
		safeTarget := ident.Sanitize(e.Target)

		arrow := "-->"
		if e.IsConditional() {
			arrow = fmt.Sprintf("-- \"%s\" -->", escapeQuotes(e.Condition))
		}
		if !g.HasNode(e.Source) || !g.HasNode(e.Target) {
			// Dotted arrow marks an unresolved reference.
			arrow = "-.->"
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeSource, arrow, safeTarget))
	}

	return sb.String()
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
