package extractor

import (
	"fmt"
	"sort"
	"strings"
)

// Markdown renders the report as a document for the debug/doc UI.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Class.Name)
	if r.Class.Doc != "" {
		fmt.Fprintf(&b, "%s\n\n", r.Class.Doc)
	}
	if len(r.Class.Attributes) > 0 {
		b.WriteString("## Configuration\n\n")
		for _, key := range sortedKeys(r.Class.Attributes) {
			fmt.Fprintf(&b, "- `%s` = `%s`\n", key, r.Class.Attributes[key])
		}
		b.WriteString("\n")
	}

	if len(r.Nodes) > 0 {
		b.WriteString("## Nodes\n\n")
		for _, id := range sortedKeys(r.Nodes) {
			writeNode(&b, r.Nodes[id])
		}
	}

	if len(r.BusinessMethods) > 0 {
		b.WriteString("## Business methods\n\n")
		for _, m := range r.BusinessMethods {
			params := make([]string, 0, len(m.Params))
			for _, p := range m.Params {
				params = append(params, strings.TrimSpace(p.Name+" "+p.Type))
			}
			fmt.Fprintf(&b, "### %s(%s)\n\n", m.Name, strings.Join(params, ", "))
			if m.Doc != "" {
				fmt.Fprintf(&b, "%s\n\n", m.Doc)
			}
		}
	}

	if len(r.Diagnostics) > 0 {
		b.WriteString("## Diagnostics\n\n")
		for _, d := range r.Diagnostics {
			fmt.Fprintf(&b, "- %s\n", d)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func writeNode(b *strings.Builder, n *NodeMetadata) {
	fmt.Fprintf(b, "### %s\n\n", n.NodeID)
	if n.Doc != "" {
		fmt.Fprintf(b, "%s\n\n", n.Doc)
	}
	for _, p := range n.PromptTemplates {
		fmt.Fprintf(b, "- prompt (line %d): `%s`\n", p.Line, p.Template)
	}
	for _, c := range n.Conditions {
		fmt.Fprintf(b, "- %s (line %d): `%s`\n", c.Branch, c.Line, c.Expr)
	}
	for _, m := range n.StateMutations {
		fmt.Fprintf(b, "- %s[%q] = `%s` (line %d)\n", m.Variable, m.Key, m.Value, m.Line)
	}
	if n.ModelConfig != nil {
		fmt.Fprintf(b, "- model: `%s`\n", n.ModelConfig.Constructor)
		for _, key := range sortedKeys(n.ModelConfig.Args) {
			fmt.Fprintf(b, "  - %s: `%s`\n", key, n.ModelConfig.Args[key])
		}
	}
	if len(n.BusinessRuleCalls) > 0 {
		fmt.Fprintf(b, "- calls: %s\n", strings.Join(n.BusinessRuleCalls, ", "))
	}
	b.WriteString("\n")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
