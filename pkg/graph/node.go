package graph

import "strings"

// NodeType classifies the control-flow role of a node.
// The type is advisory: it informs code emission (sentinel wiring,
// dispatch shapes) but is never enforced against the topology.
type NodeType string

const (
	// NodeTypeEntry marks the node whose outgoing edges wire from the
	// START sentinel in emitted code.
	NodeTypeEntry NodeType = "entry"
	// NodeTypeProcess is a plain unit of work.
	NodeTypeProcess NodeType = "process"
	// NodeTypeDecision marks a routing point with conditional edges.
	NodeTypeDecision NodeType = "decision"
	// NodeTypeEnd marks a terminal node; edges into it wire to END.
	NodeTypeEnd NodeType = "end"
	// NodeTypeCustom is an escape hatch for designer extensions.
	NodeTypeCustom NodeType = "custom"
)

// Position is the designer canvas placement. Presentational only.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is a typed unit of work in a workflow graph.
// Label is the display text and doubles as the cross-reference key in
// emitted code; HandlerRef optionally names the executable backing it.
type Node struct {
	ID          string
	Type        NodeType
	Label       string
	HandlerRef  string
	Description string
	Position    Position
}

// IsSentinelType reports whether the node folds into a START/END
// sentinel during code emission.
func (n Node) IsSentinelType() bool {
	return n.Type == NodeTypeEntry || n.Type == NodeTypeEnd
}

// ClassifyLabel guesses a node type from its display label.
// It is the heuristic used by the reverse compiler, where source code
// carries no explicit type. An explicit type in the interchange format
// always takes precedence over this guess.
func ClassifyLabel(label string) NodeType {
	l := strings.ToLower(label)
	switch {
	case containsAny(l, "start", "entry", "begin"):
		return NodeTypeEntry
	case containsAny(l, "end", "finish", "complete"):
		return NodeTypeEnd
	case containsAny(l, "decision", "condition"):
		return NodeTypeDecision
	default:
		return NodeTypeProcess
	}
}

// knownType reports whether t is one of the recognized type constants.
func knownType(t NodeType) bool {
	switch t {
	case NodeTypeEntry, NodeTypeProcess, NodeTypeDecision, NodeTypeEnd, NodeTypeCustom:
		return true
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
