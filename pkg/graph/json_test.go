package graph_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwalker85/agentfoundry/pkg/graph"
)

const designerPayload = `{
  "name": "loan_approval",
  "nodes": [
    {"id": "n1", "type": "entry", "position": {"x": 100, "y": 50}, "data": {"label": "Start"}},
    {"id": "n2", "position": {"x": 100, "y": 170}, "data": {"label": "Score Applicant", "function": "score_applicant", "description": "Run the scoring model"}},
    {"id": "n3", "type": "decision", "position": {"x": 100, "y": 290}, "data": {"label": "Credit Decision"}},
    {"id": "n4", "type": "bogus-type", "position": {"x": 250, "y": 410}, "data": {"label": "Complete"}}
  ],
  "edges": [
    {"id": "e1", "source": "n1", "target": "n2", "type": "default"},
    {"id": "e2", "source": "n2", "target": "n3", "type": "default"},
    {"id": "e3", "source": "n3", "target": "n4", "type": "conditional", "data": {"label": "approve"}}
  ]
}`

func TestGraph_UnmarshalJSON(t *testing.T) {
	var g graph.Graph
	require.NoError(t, json.Unmarshal([]byte(designerPayload), &g))

	assert.Equal(t, "loan_approval", g.Name)
	require.Len(t, g.Nodes, 4)
	require.Len(t, g.Edges, 3)

	// Explicit recognized type wins.
	assert.Equal(t, graph.NodeTypeEntry, g.NodeByID("n1").Type)
	assert.Equal(t, graph.NodeTypeDecision, g.NodeByID("n3").Type)

	// Missing type falls back to the label heuristic.
	assert.Equal(t, graph.NodeTypeProcess, g.NodeByID("n2").Type)
	assert.Equal(t, "score_applicant", g.NodeByID("n2").HandlerRef)
	assert.Equal(t, "Run the scoring model", g.NodeByID("n2").Description)

	// Unrecognized type falls back to the label heuristic too.
	assert.Equal(t, graph.NodeTypeEnd, g.NodeByID("n4").Type)

	// Conditional edge picks its key up from the data label.
	e3 := g.Edges[2]
	assert.True(t, e3.IsConditional())
	assert.Equal(t, "approve", e3.Condition)

	// Position survives.
	assert.Equal(t, 170.0, g.NodeByID("n2").Position.Y)
}

func TestGraph_JSONRoundTrip(t *testing.T) {
	original := graph.NewBuilder("round_trip").
		Add("start").Describe("Entry point").Go("decide").
		Add("decide").Kind(graph.NodeTypeDecision).At(100, 220).
		Branch("approve", "done").Branch("reject", "fail").
		Add("done").Handler("finish_up").
		Add("fail").
		Build()

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored graph.Graph
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, original.Name, restored.Name)
	assert.Equal(t, original.Nodes, restored.Nodes)
	assert.Equal(t, original.Edges, restored.Edges)
}

func TestGraph_MarshalJSON_EdgeTypes(t *testing.T) {
	g := graph.NewBuilder("shapes").
		Add("a").Go("b").
		Add("b").Branch("retry", "a").
		Build()

	data, err := json.Marshal(g)
	require.NoError(t, err)

	var w struct {
		Edges []struct {
			Type string `json:"type"`
			Data struct {
				Condition string `json:"condition"`
			} `json:"data"`
		} `json:"edges"`
	}
	require.NoError(t, json.Unmarshal(data, &w))
	require.Len(t, w.Edges, 2)
	assert.Equal(t, "default", w.Edges[0].Type)
	assert.Equal(t, "conditional", w.Edges[1].Type)
	assert.Equal(t, "retry", w.Edges[1].Data.Condition)
}
