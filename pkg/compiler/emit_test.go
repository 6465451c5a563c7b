package compiler_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nwalker85/agentfoundry/pkg/compiler"
	"github.com/nwalker85/agentfoundry/pkg/graph"
)

func TestEmit_LinearGraph(t *testing.T) {
	g := graph.NewBuilder("hello world").
		Add("start").Kind(graph.NodeTypeEntry).Go("greet").
		Add("greet").Label("Greet").Describe("Say hello to the user").Go("end").
		Add("end").Kind(graph.NodeTypeEnd).
		Build()

	src := compiler.NewEmitter().Emit(g, "hello world")

	assert.Contains(t, src, "package workflow\n")
	assert.Contains(t, src, `"github.com/nwalker85/agentfoundry/pkg/flow"`)

	// One stub per non-sentinel node, doc lines from the description.
	assert.Contains(t, src, "type HelloWorldState struct {")
	assert.Contains(t, src, `// greet implements the "Greet" node.`)
	assert.Contains(t, src, "// Say hello to the user")
	assert.Contains(t, src, "func greet(ctx context.Context, state HelloWorldState) (HelloWorldState, error) {")

	// Sentinel-typed nodes fold into flow.Start / flow.End.
	assert.Contains(t, src, `g := flow.NewGraph[HelloWorldState]("hello_world")`)
	assert.Contains(t, src, `g.AddNode("Greet", greet)`)
	assert.Contains(t, src, `g.AddEdge(flow.Start, "Greet")`)
	assert.Contains(t, src, `g.AddEdge("Greet", flow.End)`)
	assert.NotContains(t, src, `g.AddNode("start"`)
	assert.NotContains(t, src, `g.AddNode("end"`)

	assert.Contains(t, src, "func BuildHelloWorld() (*flow.Compiled[HelloWorldState], error) {")
	assert.Contains(t, src, "func RunHelloWorld(ctx context.Context, input string) (HelloWorldState, error) {")
}

func TestEmit_ConditionalDispatch(t *testing.T) {
	g := graph.NewBuilder("review_flow").
		Add("start").Kind(graph.NodeTypeEntry).Go("review").
		Add("review").Label("Review").
		Branch("approve", "complete").Branch("reject", "handle_error").
		Add("complete").Label("Complete").Kind(graph.NodeTypeEnd).
		Add("handle_error").Label("Handle Error").
		Build()

	src := compiler.NewEmitter().Emit(g, "review_flow")

	// Two conditional edges from one source collapse into one dispatch
	// with a generated router stub.
	assert.Contains(t, src, `g.AddConditionalEdges("Review", route_review, map[string]string{`)
	assert.Contains(t, src, `"approve": flow.End,`)
	assert.Contains(t, src, `"Handle Error",`)
	assert.Equal(t, 1, strings.Count(src, "g.AddConditionalEdges("))

	assert.Contains(t, src, "func route_review(state ReviewFlowState) string {")
	assert.Contains(t, src, `return "approve"`)
}

func TestEmit_LoneConditionalEdgeDegradesToPlain(t *testing.T) {
	g := graph.NewBuilder("single").
		Add("check").Label("Check").Branch("ok", "done").
		Add("done").Label("Done").
		Build()

	src := compiler.NewEmitter().Emit(g, "single")

	assert.NotContains(t, src, "AddConditionalEdges")
	assert.Contains(t, src, `g.AddEdge("Check", "Done")`)
}

func TestEmit_SkipsDanglingEdges(t *testing.T) {
	g := graph.New("partial")
	g.AddNode(graph.Node{ID: "a", Label: "Alpha", Type: graph.NodeTypeProcess})
	g.AddEdge(graph.Edge{ID: "e1", Source: "a", Target: "ghost"})

	src := compiler.NewEmitter().Emit(g, "partial")

	assert.Contains(t, src, `g.AddNode("Alpha", alpha)`)
	assert.NotContains(t, src, "ghost")
	assert.NotContains(t, src, "g.AddEdge(")
}

func TestEmit_CollidingLabelsGetUniqueHandlers(t *testing.T) {
	g := graph.New("clash")
	g.AddNode(graph.Node{ID: "n1", Label: "Do Work", Type: graph.NodeTypeProcess})
	g.AddNode(graph.Node{ID: "n2", Label: "do work!", Type: graph.NodeTypeProcess})

	src := compiler.NewEmitter().Emit(g, "clash")

	assert.Contains(t, src, `g.AddNode("Do Work", do_work)`)
	assert.Contains(t, src, `g.AddNode("do work!", do_work_2)`)
}

func TestEmit_LabelSanitizingToTakenSuffix(t *testing.T) {
	// "x 2" sanitizes to the same x_2 the renamed "x!" received;
	// every emitted handler must still get its own func declaration.
	g := graph.New("clash")
	g.AddNode(graph.Node{ID: "n1", Label: "x", Type: graph.NodeTypeProcess})
	g.AddNode(graph.Node{ID: "n2", Label: "x!", Type: graph.NodeTypeProcess})
	g.AddNode(graph.Node{ID: "n3", Label: "x 2", Type: graph.NodeTypeProcess})

	src := compiler.NewEmitter().Emit(g, "clash")

	assert.Contains(t, src, `g.AddNode("x", x)`)
	assert.Contains(t, src, `g.AddNode("x!", x_2)`)
	assert.Contains(t, src, `g.AddNode("x 2", x_2_2)`)
	assert.Equal(t, 1, strings.Count(src, "func x_2(ctx context.Context"))
}

func TestEmit_HandlerRefWinsOverLabel(t *testing.T) {
	g := graph.New("named")
	g.AddNode(graph.Node{ID: "n1", Label: "Score Applicant", HandlerRef: "score", Type: graph.NodeTypeProcess})

	src := compiler.NewEmitter().Emit(g, "named")

	assert.Contains(t, src, `g.AddNode("Score Applicant", score)`)
	assert.Contains(t, src, "func score(ctx context.Context")
}

func TestEmit_EmptyGraphStillCompilableShell(t *testing.T) {
	src := compiler.NewEmitter().Emit(graph.New(""), "")

	assert.Contains(t, src, "package workflow")
	assert.Contains(t, src, "type WorkflowState struct {")
	assert.Contains(t, src, "func BuildWorkflow() (*flow.Compiled[WorkflowState], error) {")
}

func TestEmit_CustomPackageName(t *testing.T) {
	e := compiler.NewEmitter(compiler.WithPackageName("flows"))
	src := e.Emit(graph.New("x"), "x")

	assert.Contains(t, src, "package flows\n")
}
