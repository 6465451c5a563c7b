package graph

// EdgeKind distinguishes plain transitions from routed ones.
type EdgeKind string

const (
	// EdgeUnconditional always transitions when the source completes.
	EdgeUnconditional EdgeKind = "unconditional"
	// EdgeConditional transitions only when the routing key matches
	// its Condition.
	EdgeConditional EdgeKind = "conditional"
)

// Edge is a directed transition between two nodes.
// Source and Target reference node IDs. A dangling reference is
// tolerated by the compilers (skipped, never rejected) because graphs
// are routinely mid-edit when they reach us.
type Edge struct {
	ID        string
	Source    string
	Target    string
	Kind      EdgeKind
	Condition string
}

// IsConditional reports whether the edge participates in a path map.
func (e Edge) IsConditional() bool {
	return e.Kind == EdgeConditional
}
