package graph

import "fmt"

// Builder assembles a graph programmatically with a fluent API.
// It is the code-first counterpart to the designer's JSON output and
// is what tests and examples reach for.
type Builder struct {
	name  string
	nodes map[string]*NodeBuilder
	order []string
	edges []Edge
}

// NewBuilder creates a builder for a named graph.
func NewBuilder(name string) *Builder {
	return &Builder{
		name:  name,
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a node with the given ID, defaulting its label to the ID
// and its type to the label heuristic. If the node already exists, the
// existing builder is returned.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node:    Node{ID: id, Label: id, Type: ClassifyLabel(id)},
		builder: b,
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build assembles the graph, generating edge IDs in wiring order.
func (b *Builder) Build() *Graph {
	g := New(b.name)
	for _, id := range b.order {
		g.AddNode(b.nodes[id].node)
	}
	for i, e := range b.edges {
		if e.ID == "" {
			e.ID = fmt.Sprintf("e%d", i+1)
		}
		g.AddEdge(e)
	}
	return g
}

// NodeBuilder configures a single node.
type NodeBuilder struct {
	node    Node
	builder *Builder
}

// Add starts the next node, so chains read top to bottom.
func (n *NodeBuilder) Add(id string) *NodeBuilder {
	return n.builder.Add(id)
}

// Build finishes the chain and assembles the graph.
func (n *NodeBuilder) Build() *Graph {
	return n.builder.Build()
}

// Label sets the display label.
func (n *NodeBuilder) Label(label string) *NodeBuilder {
	n.node.Label = label
	return n
}

// Kind overrides the heuristic node type.
func (n *NodeBuilder) Kind(t NodeType) *NodeBuilder {
	n.node.Type = t
	return n
}

// Handler sets the handler reference.
func (n *NodeBuilder) Handler(ref string) *NodeBuilder {
	n.node.HandlerRef = ref
	return n
}

// Describe sets the description used for stub doc comments.
func (n *NodeBuilder) Describe(text string) *NodeBuilder {
	n.node.Description = text
	return n
}

// At sets the canvas position.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.node.Position = Position{X: x, Y: y}
	return n
}

// Go adds an unconditional edge to the target node ID.
func (n *NodeBuilder) Go(target string) *NodeBuilder {
	n.builder.edges = append(n.builder.edges, Edge{
		Source: n.node.ID,
		Target: target,
		Kind:   EdgeUnconditional,
	})
	return n
}

// Branch adds a conditional edge keyed by condition.
func (n *NodeBuilder) Branch(condition, target string) *NodeBuilder {
	n.builder.edges = append(n.builder.edges, Edge{
		Source:    n.node.ID,
		Target:    target,
		Kind:      EdgeConditional,
		Condition: condition,
	})
	return n
}
