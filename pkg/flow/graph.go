package flow

import (
	"context"
	"fmt"
)

// Sentinel node identities. They are never registered with AddNode;
// the engine owns them.
const (
	// Start is the well-known entry sentinel.
	Start = "__start__"
	// End is the well-known exit sentinel.
	End = "__end__"
)

// Handler is a node implementation: it receives the workflow state and
// returns the (possibly) updated state.
type Handler[S any] func(ctx context.Context, state S) (S, error)

// Router picks the routing key for a conditional dispatch point.
type Router[S any] func(state S) string

// Graph is a mutable workflow under construction.
type Graph[S any] struct {
	name     string
	handlers map[string]Handler[S]
	order    []string
	edges    map[string][]string
	routers  map[string]Router[S]
	pathMaps map[string]map[string]string
}

// NewGraph creates an empty named graph.
func NewGraph[S any](name string) *Graph[S] {
	return &Graph[S]{
		name:     name,
		handlers: make(map[string]Handler[S]),
		edges:    make(map[string][]string),
		routers:  make(map[string]Router[S]),
		pathMaps: make(map[string]map[string]string),
	}
}

// AddNode registers a handler under a display label.
func (g *Graph[S]) AddNode(label string, handler Handler[S]) *Graph[S] {
	if _, exists := g.handlers[label]; !exists {
		g.order = append(g.order, label)
	}
	g.handlers[label] = handler
	return g
}

// AddEdge wires an unconditional transition. Source may be Start and
// target may be End.
func (g *Graph[S]) AddEdge(source, target string) *Graph[S] {
	g.edges[source] = append(g.edges[source], target)
	return g
}

// AddConditionalEdges wires a routing dispatch at source: the router
// picks a key and the path map resolves it to a target label.
func (g *Graph[S]) AddConditionalEdges(source string, router Router[S], paths map[string]string) *Graph[S] {
	g.routers[source] = router
	g.pathMaps[source] = paths
	return g
}

// Compile freezes the graph into an invocable form. Wiring that
// references unregistered labels is reported here rather than at
// wiring time, so construction stays fluent.
func (g *Graph[S]) Compile() (*Compiled[S], error) {
	entry := ""
	if targets := g.edges[Start]; len(targets) > 0 {
		entry = targets[0]
	}
	if entry == "" {
		return nil, fmt.Errorf("flow %q: no edge from START", g.name)
	}
	if _, ok := g.handlers[entry]; !ok {
		return nil, fmt.Errorf("flow %q: entry %q is not a registered node", g.name, entry)
	}

	return &Compiled[S]{
		name:     g.name,
		handlers: g.handlers,
		edges:    g.edges,
		routers:  g.routers,
		pathMaps: g.pathMaps,
		entry:    entry,
	}, nil
}

// Compiled is an immutable, invocable graph. Safe for concurrent use.
type Compiled[S any] struct {
	name     string
	handlers map[string]Handler[S]
	edges    map[string][]string
	routers  map[string]Router[S]
	pathMaps map[string]map[string]string
	entry    string
}

// Name returns the graph name.
func (c *Compiled[S]) Name() string { return c.name }

// Entry returns the entry node label.
func (c *Compiled[S]) Entry() string { return c.entry }

// maxSteps bounds Invoke against wiring cycles in stub graphs.
const maxSteps = 1000

// Invoke runs the graph from the entry node to End, threading state
// through each handler.
func (c *Compiled[S]) Invoke(ctx context.Context, state S) (S, error) {
	current := c.entry
	for steps := 0; steps < maxSteps; steps++ {
		if current == End {
			return state, nil
		}
		if err := ctx.Err(); err != nil {
			return state, err
		}

		handler, ok := c.handlers[current]
		if !ok {
			return state, fmt.Errorf("flow %q: node %q is not registered", c.name, current)
		}
		next, err := handler(ctx, state)
		if err != nil {
			return state, fmt.Errorf("node %q: %w", current, err)
		}
		state = next

		target, err := c.route(current, state)
		if err != nil {
			return state, err
		}
		current = target
	}
	return state, fmt.Errorf("flow %q: exceeded %d steps", c.name, maxSteps)
}

func (c *Compiled[S]) route(current string, state S) (string, error) {
	if router, ok := c.routers[current]; ok {
		key := router(state)
		target, ok := c.pathMaps[current][key]
		if !ok {
			return "", fmt.Errorf("flow %q: node %q routed to unknown key %q", c.name, current, key)
		}
		return target, nil
	}
	if targets := c.edges[current]; len(targets) > 0 {
		return targets[0], nil
	}
	// No outgoing wiring behaves as a terminal node.
	return End, nil
}
