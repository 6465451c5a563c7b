package flow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nwalker85/agentfoundry/pkg/flow"
)

type counterState struct {
	Visited []string
	Retries int
}

func visit(label string) flow.Handler[counterState] {
	return func(ctx context.Context, s counterState) (counterState, error) {
		s.Visited = append(s.Visited, label)
		return s, nil
	}
}

func TestGraph_Compile_RequiresStartEdge(t *testing.T) {
	g := flow.NewGraph[counterState]("orphan")
	g.AddNode("work", visit("work"))

	_, err := g.Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no edge from START")
}

func TestGraph_Compile_RequiresRegisteredEntry(t *testing.T) {
	g := flow.NewGraph[counterState]("ghost")
	g.AddEdge(flow.Start, "missing")

	_, err := g.Compile()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a registered node")
}

func TestCompiled_Invoke_Linear(t *testing.T) {
	g := flow.NewGraph[counterState]("linear")
	g.AddNode("a", visit("a")).
		AddNode("b", visit("b")).
		AddEdge(flow.Start, "a").
		AddEdge("a", "b").
		AddEdge("b", flow.End)

	c, err := g.Compile()
	require.NoError(t, err)
	assert.Equal(t, "a", c.Entry())

	out, err := c.Invoke(context.Background(), counterState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, out.Visited)
}

func TestCompiled_Invoke_ConditionalRouting(t *testing.T) {
	g := flow.NewGraph[counterState]("routed")
	g.AddNode("attempt", func(ctx context.Context, s counterState) (counterState, error) {
		s.Visited = append(s.Visited, "attempt")
		s.Retries++
		return s, nil
	}).
		AddNode("done", visit("done")).
		AddEdge(flow.Start, "attempt").
		AddConditionalEdges("attempt", func(s counterState) string {
			if s.Retries < 3 {
				return "retry"
			}
			return "ok"
		}, map[string]string{
			"retry": "attempt",
			"ok":    "done",
		}).
		AddEdge("done", flow.End)

	c, err := g.Compile()
	require.NoError(t, err)

	out, err := c.Invoke(context.Background(), counterState{})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Retries)
	assert.Equal(t, []string{"attempt", "attempt", "attempt", "done"}, out.Visited)
}

func TestCompiled_Invoke_UnknownRouteKey(t *testing.T) {
	g := flow.NewGraph[counterState]("lost")
	g.AddNode("decide", visit("decide")).
		AddEdge(flow.Start, "decide").
		AddConditionalEdges("decide", func(s counterState) string {
			return "sideways"
		}, map[string]string{"up": "decide"})

	c, err := g.Compile()
	require.NoError(t, err)

	_, err = c.Invoke(context.Background(), counterState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown key")
}

func TestCompiled_Invoke_HandlerError(t *testing.T) {
	boom := errors.New("boom")
	g := flow.NewGraph[counterState]("failing")
	g.AddNode("explode", func(ctx context.Context, s counterState) (counterState, error) {
		return s, boom
	}).AddEdge(flow.Start, "explode")

	c, err := g.Compile()
	require.NoError(t, err)

	_, err = c.Invoke(context.Background(), counterState{})
	assert.ErrorIs(t, err, boom)
}

func TestCompiled_Invoke_NoOutgoingActsAsTerminal(t *testing.T) {
	g := flow.NewGraph[counterState]("implicit_end")
	g.AddNode("only", visit("only")).AddEdge(flow.Start, "only")

	c, err := g.Compile()
	require.NoError(t, err)

	out, err := c.Invoke(context.Background(), counterState{})
	require.NoError(t, err)
	assert.Equal(t, []string{"only"}, out.Visited)
}

func TestCompiled_Invoke_CycleGuard(t *testing.T) {
	g := flow.NewGraph[counterState]("spin")
	g.AddNode("loop", visit("loop")).
		AddEdge(flow.Start, "loop").
		AddEdge("loop", "loop")

	c, err := g.Compile()
	require.NoError(t, err)

	_, err = c.Invoke(context.Background(), counterState{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeded")
}

func TestCompiled_Invoke_ContextCancellation(t *testing.T) {
	g := flow.NewGraph[counterState]("canceled")
	g.AddNode("loop", visit("loop")).
		AddEdge(flow.Start, "loop").
		AddEdge("loop", "loop")

	c, err := g.Compile()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Invoke(ctx, counterState{})
	assert.ErrorIs(t, err, context.Canceled)
}
