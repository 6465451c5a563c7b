package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwalker85/agentfoundry/pkg/compiler"
	"github.com/nwalker85/agentfoundry/pkg/graph"
)

const handWrittenWorkflow = `package workflow

import (
	"context"

	"github.com/nwalker85/agentfoundry/pkg/flow"
)

type State struct{}

func triage(ctx context.Context, s State) (State, error)   { return s, nil }
func escalate(ctx context.Context, s State) (State, error) { return s, nil }
func resolve(ctx context.Context, s State) (State, error)  { return s, nil }

func routeTriage(s State) string { return "urgent" }

func Build() (*flow.Compiled[State], error) {
	g := flow.NewGraph[State]("support")

	g.AddNode("Triage", triage)
	g.AddNode("Escalate", escalate)
	g.AddNode("Resolve", resolve)

	g.AddEdge(flow.Start, "Triage")
	g.AddConditionalEdges("Triage", routeTriage, map[string]string{
		"urgent":  "Escalate",
		"routine": "Resolve",
	})
	g.AddEdge("Escalate", flow.End)
	g.AddEdge("Resolve", flow.End)

	return g.Compile()
}
`

func TestParse_HandWrittenWorkflow(t *testing.T) {
	g, err := compiler.NewParser().Parse(handWrittenWorkflow)
	require.NoError(t, err)

	assert.Equal(t, "support", g.Name)

	// Registered nodes plus the resurrected Start/End sentinels.
	assert.ElementsMatch(t, []string{"Triage", "Escalate", "Resolve", "Start", "End"}, g.Labels())

	start := g.NodeByLabel("Start")
	require.NotNil(t, start)
	assert.Equal(t, graph.NodeTypeEntry, start.Type)

	end := g.NodeByLabel("End")
	require.NotNil(t, end)
	assert.Equal(t, graph.NodeTypeEnd, end.Type)

	triage := g.NodeByLabel("Triage")
	require.NotNil(t, triage)
	assert.Equal(t, "triage", triage.HandlerRef)

	// Edge wiring: one plain edge from Start, two conditional edges
	// out of Triage, two plain edges into End.
	require.Len(t, g.Edges, 5)

	out := g.OutgoingEdges(triage.ID)
	require.Len(t, out, 2)
	conditions := map[string]string{}
	for _, e := range out {
		require.True(t, e.IsConditional())
		target := g.NodeByID(e.Target)
		require.NotNil(t, target)
		conditions[e.Condition] = target.Label
	}
	assert.Equal(t, map[string]string{"urgent": "Escalate", "routine": "Resolve"}, conditions)
}

func TestParse_NodePositionsAreLaidOut(t *testing.T) {
	g, err := compiler.NewParser().Parse(handWrittenWorkflow)
	require.NoError(t, err)

	first := g.Nodes[0]
	second := g.Nodes[1]
	assert.Equal(t, 250.0, first.Position.X)
	assert.Equal(t, 100.0, first.Position.Y)
	assert.Equal(t, 220.0, second.Position.Y)
}

func TestParse_InvalidSource(t *testing.T) {
	_, err := compiler.NewParser().Parse("this is not go")
	require.Error(t, err)

	var perr *compiler.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "not valid Go")
}

func TestParse_UnknownLabelEdgesAreSkipped(t *testing.T) {
	src := `package workflow

func Build() {
	g := flow.NewGraph[State]("partial")
	g.AddNode("Known", known)
	g.AddEdge("Known", "Never Registered")
	g.AddEdge(someVariable, "Known")
}
`
	g, err := compiler.NewParser().Parse(src)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Known"}, g.Labels())
	assert.Empty(t, g.Edges)
}

func TestParse_WiringOrderDoesNotMatter(t *testing.T) {
	src := `package workflow

func Build() {
	g := flow.NewGraph[State]("reordered")
	g.AddEdge("A", "B")
	g.AddNode("A", a)
	g.AddNode("B", b)
}
`
	g, err := compiler.NewParser().Parse(src)
	require.NoError(t, err)

	require.Len(t, g.Edges, 1)
	src2 := g.NodeByID(g.Edges[0].Source)
	require.NotNil(t, src2)
	assert.Equal(t, "A", src2.Label)
}

func TestRoundTrip_EmitThenParse(t *testing.T) {
	original := graph.NewBuilder("escalation").
		Add("start").Label("Start").Kind(graph.NodeTypeEntry).Go("triage").
		Add("triage").Label("Triage").
		Branch("urgent", "escalate").Branch("routine", "resolve").
		Add("escalate").Label("Escalate").Go("end").
		Add("resolve").Label("Resolve").Go("end").
		Add("end").Label("End").Kind(graph.NodeTypeEnd).
		Build()

	src := compiler.NewEmitter().Emit(original, "escalation")

	restored, err := compiler.NewParser().Parse(src)
	require.NoError(t, err)

	assert.Equal(t, "escalation", restored.Name)
	assert.ElementsMatch(t, original.Labels(), restored.Labels())

	// Compare edges by semantic identity: labels, kind, condition.
	type semEdge struct {
		Source, Target, Condition string
		Conditional               bool
	}
	semantics := func(g *graph.Graph) []semEdge {
		var out []semEdge
		for _, e := range g.Edges {
			src := g.NodeByID(e.Source)
			dst := g.NodeByID(e.Target)
			require.NotNil(t, src)
			require.NotNil(t, dst)
			out = append(out, semEdge{
				Source:      src.Label,
				Target:      dst.Label,
				Condition:   e.Condition,
				Conditional: e.IsConditional(),
			})
		}
		return out
	}

	assert.ElementsMatch(t, semantics(original), semantics(restored))

	// Node typing survives through the label heuristic.
	assert.Equal(t, graph.NodeTypeEntry, restored.NodeByLabel("Start").Type)
	assert.Equal(t, graph.NodeTypeEnd, restored.NodeByLabel("End").Type)
}
