package graph

import "fmt"

// Severity grades a validation finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a single validation finding. Validation never rejects
// a graph; it reports what the compilers will have to tolerate.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Message)
}

// Diagnostic codes.
const (
	CodeDanglingEdge       = "dangling-edge"
	CodeDuplicateCondition = "duplicate-condition"
	CodeMixedEdges         = "mixed-edges"
	CodeDuplicateNode      = "duplicate-node"
)

// Validate inspects the graph and returns findings. Dangling edge
// references and duplicate IDs are errors the compilers degrade
// around; a source mixing conditional and unconditional edges is
// flagged because it produces two dispatch mechanisms in emitted code.
func (g *Graph) Validate() []Diagnostic {
	var diags []Diagnostic

	seen := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if seen[n.ID] {
			diags = append(diags, Diagnostic{
				Severity: SeverityError,
				Code:     CodeDuplicateNode,
				Message:  fmt.Sprintf("node id %q declared more than once", n.ID),
			})
		}
		seen[n.ID] = true
	}

	// Per-source bookkeeping for condition uniqueness and edge mixing.
	conditions := make(map[string]map[string]bool)
	hasConditional := make(map[string]bool)
	hasPlain := make(map[string]bool)

	for _, e := range g.Edges {
		if !seen[e.Source] {
			diags = append(diags, Diagnostic{
				Severity: SeverityError,
				Code:     CodeDanglingEdge,
				Message:  fmt.Sprintf("edge %q references missing source node %q", e.ID, e.Source),
			})
		}
		if !seen[e.Target] {
			diags = append(diags, Diagnostic{
				Severity: SeverityError,
				Code:     CodeDanglingEdge,
				Message:  fmt.Sprintf("edge %q references missing target node %q", e.ID, e.Target),
			})
		}

		if e.IsConditional() {
			hasConditional[e.Source] = true
			if conditions[e.Source] == nil {
				conditions[e.Source] = make(map[string]bool)
			}
			if conditions[e.Source][e.Condition] {
				diags = append(diags, Diagnostic{
					Severity: SeverityError,
					Code:     CodeDuplicateCondition,
					Message:  fmt.Sprintf("source %q has multiple conditional edges keyed %q", e.Source, e.Condition),
				})
			}
			conditions[e.Source][e.Condition] = true
		} else {
			hasPlain[e.Source] = true
		}
	}

	for source := range hasConditional {
		if hasPlain[source] {
			diags = append(diags, Diagnostic{
				Severity: SeverityWarning,
				Code:     CodeMixedEdges,
				Message:  fmt.Sprintf("source %q mixes conditional and unconditional edges; emitted code will carry two dispatch mechanisms", source),
			})
		}
	}

	return diags
}
