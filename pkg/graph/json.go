package graph

import (
	"encoding/json"
	"fmt"
)

// Wire types for the canonical designer interchange format.
// nodes[]: {id, type, position:{x,y}, data:{label, function?, description?}}
// edges[]: {id, source, target, type: "default"|"conditional", data:{label?, condition?}}

type wireNode struct {
	ID       string       `json:"id"`
	Type     string       `json:"type,omitempty"`
	Position Position     `json:"position"`
	Data     wireNodeData `json:"data"`
}

type wireNodeData struct {
	Label       string `json:"label"`
	Function    string `json:"function,omitempty"`
	Description string `json:"description,omitempty"`
}

type wireEdge struct {
	ID     string       `json:"id"`
	Source string       `json:"source"`
	Target string       `json:"target"`
	Type   string       `json:"type"`
	Data   wireEdgeData `json:"data,omitempty"`
}

type wireEdgeData struct {
	Label     string `json:"label,omitempty"`
	Condition string `json:"condition,omitempty"`
}

type wireGraph struct {
	Name  string     `json:"name,omitempty"`
	Nodes []wireNode `json:"nodes"`
	Edges []wireEdge `json:"edges"`
}

// MarshalJSON serializes the graph in the designer interchange shape.
func (g Graph) MarshalJSON() ([]byte, error) {
	w := wireGraph{
		Name:  g.Name,
		Nodes: make([]wireNode, 0, len(g.Nodes)),
		Edges: make([]wireEdge, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		w.Nodes = append(w.Nodes, wireNode{
			ID:       n.ID,
			Type:     string(n.Type),
			Position: n.Position,
			Data: wireNodeData{
				Label:       n.Label,
				Function:    n.HandlerRef,
				Description: n.Description,
			},
		})
	}
	for _, e := range g.Edges {
		kind := "default"
		if e.IsConditional() {
			kind = "conditional"
		}
		w.Edges = append(w.Edges, wireEdge{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Type:   kind,
			Data:   wireEdgeData{Label: e.Condition, Condition: e.Condition},
		})
	}
	return json.Marshal(w)
}

// UnmarshalJSON deserializes the designer interchange shape.
// An explicit, recognized node type wins; otherwise the label heuristic
// fills the blank.
func (g *Graph) UnmarshalJSON(data []byte) error {
	if g == nil {
		return fmt.Errorf("graph: UnmarshalJSON on nil pointer")
	}

	var w wireGraph
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("failed to parse graph: %w", err)
	}

	parsed := Graph{Name: w.Name}
	for _, n := range w.Nodes {
		typ := NodeType(n.Type)
		if !knownType(typ) {
			typ = ClassifyLabel(n.Data.Label)
		}
		parsed.AddNode(Node{
			ID:          n.ID,
			Type:        typ,
			Label:       n.Data.Label,
			HandlerRef:  n.Data.Function,
			Description: n.Data.Description,
			Position:    n.Position,
		})
	}
	for _, e := range w.Edges {
		kind := EdgeUnconditional
		condition := ""
		if e.Type == "conditional" {
			kind = EdgeConditional
			condition = e.Data.Condition
			if condition == "" {
				condition = e.Data.Label
			}
		}
		parsed.AddEdge(Edge{
			ID:        e.ID,
			Source:    e.Source,
			Target:    e.Target,
			Kind:      kind,
			Condition: condition,
		})
	}

	*g = parsed
	return nil
}
