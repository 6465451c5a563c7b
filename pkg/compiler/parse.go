package compiler

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"

	"github.com/google/uuid"

	"github.com/nwalker85/agentfoundry/pkg/graph"
	"github.com/nwalker85/agentfoundry/pkg/ident"
)

// ParseError is the structured failure returned when source text
// cannot be analyzed at all. Partial wiring problems never surface
// here; they are skipped.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse: %s: %v", e.Message, e.Err)
	}
	return "parse: " + e.Message
}

func (e *ParseError) Unwrap() error { return e.Err }

// callShape enumerates the wiring calls the reverse compiler
// recognizes. Anything else in the source is ignored.
type callShape int

const (
	shapeUnknown callShape = iota
	shapeAddNode
	shapeAddEdge
	shapeAddConditionalEdges
	shapeNewGraph
)

func classifyCall(call *ast.CallExpr) callShape {
	var name string
	switch fn := call.Fun.(type) {
	case *ast.SelectorExpr:
		name = fn.Sel.Name
	case *ast.Ident:
		name = fn.Name
	case *ast.IndexExpr:
		// flow.NewGraph[State](...) parses as an index expression.
		if sel, ok := fn.X.(*ast.SelectorExpr); ok {
			name = sel.Sel.Name
		}
	default:
		return shapeUnknown
	}
	switch name {
	case "AddNode":
		return shapeAddNode
	case "AddEdge":
		return shapeAddEdge
	case "AddConditionalEdges":
		return shapeAddConditionalEdges
	case "NewGraph":
		return shapeNewGraph
	}
	return shapeUnknown
}

// Layout constants for auto-positioned nodes.
const (
	layoutX     = 250
	layoutYBase = 100
	layoutYStep = 120
)

// Parser recovers a graph from emitted (or hand-written) workflow
// source by walking the syntax tree for the recognized call shapes.
type Parser struct{}

// NewParser creates a reverse compiler instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse analyzes source text and reconstructs the workflow graph.
// Unparseable input yields a *ParseError; a dangling or malformed
// wiring call is skipped, never fatal.
func (p *Parser) Parse(src string) (*graph.Graph, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "workflow.go", src, parser.ParseComments)
	if err != nil {
		return nil, &ParseError{Message: "source is not valid Go", Err: err}
	}

	s := &parseState{
		g:       graph.New(""),
		labels:  make(map[string]string),
		nodeIDs: ident.NewUniquer(),
	}

	// First pass: node registrations and the graph name, so that
	// wiring order in the source does not matter.
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		switch classifyCall(call) {
		case shapeNewGraph:
			if name, ok := stringArg(call, 0); ok {
				s.g.Name = name
			}
		case shapeAddNode:
			s.addNode(call)
		}
		return true
	})

	// Second pass: edge wiring, resolved through the label map.
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		switch classifyCall(call) {
		case shapeAddEdge:
			s.addEdge(call)
		case shapeAddConditionalEdges:
			s.addConditionalEdges(call)
		}
		return true
	})

	return s.g, nil
}

type parseState struct {
	g       *graph.Graph
	labels  map[string]string // display label -> node id
	nodeIDs *ident.Uniquer
}

// addNode handles g.AddNode("Label", handler).
func (s *parseState) addNode(call *ast.CallExpr) {
	label, ok := stringArg(call, 0)
	if !ok {
		return
	}
	handlerRef := ""
	if len(call.Args) > 1 {
		if id, ok := call.Args[1].(*ast.Ident); ok {
			handlerRef = id.Name
		}
	}
	s.ensureNode(label, handlerRef)
}

// ensureNode registers a node for a label, returning its id. The type
// is heuristic: source code carries no explicit classification.
func (s *parseState) ensureNode(label, handlerRef string) string {
	if id, ok := s.labels[label]; ok {
		return id
	}
	id := s.nodeIDs.Take(label)
	index := len(s.g.Nodes)
	s.g.AddNode(graph.Node{
		ID:         id,
		Type:       graph.ClassifyLabel(label),
		Label:      label,
		HandlerRef: handlerRef,
		Position: graph.Position{
			X: layoutX,
			Y: layoutYBase + float64(index)*layoutYStep,
		},
	})
	s.labels[label] = id
	return id
}

// resolveEndpoint maps an edge argument to a node id. String literals
// go through the label map; the flow.Start/flow.End sentinels
// resurrect canonical Start/End nodes. Unresolvable endpoints return
// "" and the caller skips the edge.
func (s *parseState) resolveEndpoint(expr ast.Expr) string {
	if label, ok := stringLit(expr); ok {
		id, known := s.labels[label]
		if !known {
			return ""
		}
		return id
	}
	switch sentinelName(expr) {
	case "Start":
		return s.ensureNode("Start", "")
	case "End":
		return s.ensureNode("End", "")
	}
	return ""
}

// addEdge handles g.AddEdge(source, target).
func (s *parseState) addEdge(call *ast.CallExpr) {
	if len(call.Args) < 2 {
		return
	}
	source := s.resolveEndpoint(call.Args[0])
	target := s.resolveEndpoint(call.Args[1])
	if source == "" || target == "" {
		return
	}
	s.g.AddEdge(graph.Edge{
		ID:     uuid.NewString(),
		Source: source,
		Target: target,
		Kind:   graph.EdgeUnconditional,
	})
}

// addConditionalEdges handles
// g.AddConditionalEdges(source, router, map[string]string{...}).
// Each map entry becomes one conditional edge.
func (s *parseState) addConditionalEdges(call *ast.CallExpr) {
	if len(call.Args) < 3 {
		return
	}
	source := s.resolveEndpoint(call.Args[0])
	if source == "" {
		return
	}
	lit, ok := call.Args[2].(*ast.CompositeLit)
	if !ok {
		return
	}
	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}
		condition, ok := stringLit(kv.Key)
		if !ok {
			continue
		}
		target := s.resolveEndpoint(kv.Value)
		if target == "" {
			continue
		}
		s.g.AddEdge(graph.Edge{
			ID:        uuid.NewString(),
			Source:    source,
			Target:    target,
			Kind:      graph.EdgeConditional,
			Condition: condition,
		})
	}
}

// stringArg extracts a string literal positional argument.
func stringArg(call *ast.CallExpr, i int) (string, bool) {
	if len(call.Args) <= i {
		return "", false
	}
	return stringLit(call.Args[i])
}

func stringLit(expr ast.Expr) (string, bool) {
	lit, ok := expr.(*ast.BasicLit)
	if !ok || lit.Kind != token.STRING {
		return "", false
	}
	value, err := strconv.Unquote(lit.Value)
	if err != nil {
		return "", false
	}
	return value, true
}

// sentinelName recognizes the flow.Start / flow.End selectors (or the
// bare Start/End identifiers inside dot-imported code).
func sentinelName(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.SelectorExpr:
		if pkg, ok := e.X.(*ast.Ident); ok && pkg.Name == "flow" {
			if e.Sel.Name == "Start" || e.Sel.Name == "End" {
				return e.Sel.Name
			}
		}
	case *ast.Ident:
		if e.Name == "Start" || e.Name == "End" {
			return e.Name
		}
	}
	return ""
}
