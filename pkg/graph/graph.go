package graph

// Graph is a workflow as authored in the designer: a node set unique
// by ID and an ordered edge list.
type Graph struct {
	Name  string
	Nodes []Node
	Edges []Edge
}

// New creates an empty named graph.
func New(name string) *Graph {
	return &Graph{Name: name}
}

// AddNode appends a node. If a node with the same ID already exists it
// is replaced in place, preserving order.
func (g *Graph) AddNode(n Node) {
	for i, existing := range g.Nodes {
		if existing.ID == n.ID {
			g.Nodes[i] = n
			return
		}
	}
	g.Nodes = append(g.Nodes, n)
}

// AddEdge appends an edge. No reference checking happens here; the
// compilers skip what they cannot resolve.
func (g *Graph) AddEdge(e Edge) {
	g.Edges = append(g.Edges, e)
}

// NodeByID returns the node with the given ID, or nil.
func (g *Graph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// NodeByLabel returns the first node with the given display label, or nil.
func (g *Graph) NodeByLabel(label string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].Label == label {
			return &g.Nodes[i]
		}
	}
	return nil
}

// OutgoingEdges returns all edges leaving the node, in definition order.
func (g *Graph) OutgoingEdges(nodeID string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Source == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	return g.NodeByID(id) != nil
}

// Labels returns the display labels of all nodes, in definition order.
func (g *Graph) Labels() []string {
	labels := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		labels = append(labels, n.Label)
	}
	return labels
}
