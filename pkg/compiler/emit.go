package compiler

import (
	"fmt"
	"strings"

	"github.com/nwalker85/agentfoundry/pkg/graph"
	"github.com/nwalker85/agentfoundry/pkg/ident"
)

// flowImport is the module path of the vocabulary emitted code targets.
const flowImport = "github.com/nwalker85/agentfoundry/pkg/flow"

// Emitter turns a graph into Go source. It never fails: dangling edges
// are skipped and empty graphs still produce a compilable shell. The
// zero value is not usable; construct with NewEmitter.
type Emitter struct {
	packageName string
}

// EmitterOption configures the Emitter.
type EmitterOption func(*Emitter)

// WithPackageName overrides the package clause of emitted files.
func WithPackageName(name string) EmitterOption {
	return func(e *Emitter) {
		e.packageName = name
	}
}

// NewEmitter creates an emitter with defaults.
func NewEmitter(opts ...EmitterOption) *Emitter {
	e := &Emitter{packageName: "workflow"}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Emit compiles the graph into source text under the given target
// name. Wiring precedence: entry-typed sources wire from flow.Start,
// end-typed targets wire to flow.End, sources with two or more
// conditional edges collapse into one routing dispatch, and everything
// else becomes a plain transition.
func (e *Emitter) Emit(g *graph.Graph, target string) string {
	unit := newEmitUnit(g, target)
	var b strings.Builder

	fmt.Fprintf(&b, "// Code generated by foundry from graph %q. Edits will be overwritten.\n", unit.graphName)
	fmt.Fprintf(&b, "package %s\n\n", e.packageName)
	b.WriteString("import (\n")
	b.WriteString("\t\"context\"\n\n")
	fmt.Fprintf(&b, "\t%q\n", flowImport)
	b.WriteString(")\n\n")

	unit.writeState(&b)
	unit.writeStubs(&b)
	unit.writeRouters(&b)
	unit.writeBuilder(&b)
	unit.writeExample(&b)

	return b.String()
}

// emitUnit is the per-compilation bookkeeping: resolved identifiers,
// sentinel folding, and dispatch grouping.
type emitUnit struct {
	g         *graph.Graph
	graphName string
	typeName  string
	buildName string
	runName   string

	uniq *ident.Uniquer

	// stubNodes are the nodes that get handlers, in graph order.
	// Entry/end-typed nodes fold into the sentinels and get none.
	stubNodes []graph.Node
	handlers  map[string]string // node id -> handler identifier

	dispatches []dispatch
	plainEdges []plainEdge
	routers    map[string]string // source id -> router identifier
}

// dispatch is one conditional routing construct.
type dispatch struct {
	source  string // emitted source slot (label or flow sentinel expr)
	srcID   string
	entries []dispatchEntry
}

type dispatchEntry struct {
	condition string
	target    string // emitted target slot
}

type plainEdge struct {
	source string
	target string
}

func newEmitUnit(g *graph.Graph, target string) *emitUnit {
	if target == "" {
		target = g.Name
	}
	if target == "" {
		target = "workflow"
	}
	name := ident.Sanitize(target)
	exported := exportName(name)

	u := &emitUnit{
		g:         g,
		graphName: name,
		typeName:  exported + "State",
		buildName: "Build" + exported,
		runName:   "Run" + exported,
		uniq:      ident.NewUniquer(),
		handlers:  make(map[string]string),
		routers:   make(map[string]string),
	}

	for _, n := range g.Nodes {
		if n.IsSentinelType() {
			continue
		}
		u.stubNodes = append(u.stubNodes, n)
		source := n.Label
		if n.HandlerRef != "" {
			source = n.HandlerRef
		}
		u.handlers[n.ID] = u.uniq.Take(source)
	}

	u.planEdges()
	return u
}

// planEdges walks the edge list once, resolving sentinel slots,
// skipping dangling references, and grouping conditional edges by
// source. A source needs at least two conditional edges to earn a
// dispatch; a lone conditional edge degrades to a plain transition.
func (u *emitUnit) planEdges() {
	conditionalCount := make(map[string]int)
	for _, e := range u.g.Edges {
		if e.IsConditional() {
			conditionalCount[e.Source]++
		}
	}

	dispatchIndex := make(map[string]int)
	for _, e := range u.g.Edges {
		src := u.g.NodeByID(e.Source)
		dst := u.g.NodeByID(e.Target)
		if src == nil || dst == nil {
			continue // mid-edit graphs reference nodes that are not there yet
		}

		sourceSlot := quoteLabel(src.Label)
		if src.Type == graph.NodeTypeEntry {
			sourceSlot = "flow.Start"
		}
		targetSlot := quoteLabel(dst.Label)
		if dst.Type == graph.NodeTypeEnd {
			targetSlot = "flow.End"
		}

		if e.IsConditional() && conditionalCount[e.Source] >= 2 {
			i, seen := dispatchIndex[e.Source]
			if !seen {
				i = len(u.dispatches)
				dispatchIndex[e.Source] = i
				u.dispatches = append(u.dispatches, dispatch{source: sourceSlot, srcID: e.Source})
				u.routers[e.Source] = u.uniq.Take("route " + src.Label)
			}
			u.dispatches[i].entries = append(u.dispatches[i].entries, dispatchEntry{
				condition: e.Condition,
				target:    targetSlot,
			})
			continue
		}

		u.plainEdges = append(u.plainEdges, plainEdge{source: sourceSlot, target: targetSlot})
	}
}

func (u *emitUnit) writeState(b *strings.Builder) {
	fmt.Fprintf(b, "// %s carries values between node handlers.\n", u.typeName)
	fmt.Fprintf(b, "type %s struct {\n", u.typeName)
	b.WriteString("\tInput  string         `json:\"input\"`\n")
	b.WriteString("\tOutput string         `json:\"output\"`\n")
	b.WriteString("\tData   map[string]any `json:\"data\"`\n")
	b.WriteString("}\n\n")
}

func (u *emitUnit) writeStubs(b *strings.Builder) {
	for _, n := range u.stubNodes {
		name := u.handlers[n.ID]
		fmt.Fprintf(b, "// %s implements the %q node.\n", name, n.Label)
		for _, line := range descriptionLines(n.Description) {
			fmt.Fprintf(b, "// %s\n", line)
		}
		fmt.Fprintf(b, "func %s(ctx context.Context, state %s) (%s, error) {\n", name, u.typeName, u.typeName)
		fmt.Fprintf(b, "\t// TODO: implement %q.\n", n.Label)
		b.WriteString("\treturn state, nil\n")
		b.WriteString("}\n\n")
	}
}

func (u *emitUnit) writeRouters(b *strings.Builder) {
	for _, d := range u.dispatches {
		name := u.routers[d.srcID]
		keys := make([]string, 0, len(d.entries))
		for _, entry := range d.entries {
			keys = append(keys, fmt.Sprintf("%q", entry.condition))
		}
		srcLabel := d.srcID
		if n := u.g.NodeByID(d.srcID); n != nil {
			srcLabel = n.Label
		}
		fmt.Fprintf(b, "// %s decides which branch leaves %q.\n", name, srcLabel)
		fmt.Fprintf(b, "// Routing keys: %s.\n", strings.Join(keys, ", "))
		fmt.Fprintf(b, "func %s(state %s) string {\n", name, u.typeName)
		b.WriteString("\t// TODO: inspect state and return one of the routing keys.\n")
		fmt.Fprintf(b, "\treturn %s\n", keys[0])
		b.WriteString("}\n\n")
	}
}

func (u *emitUnit) writeBuilder(b *strings.Builder) {
	fmt.Fprintf(b, "// %s wires the workflow graph.\n", u.buildName)
	fmt.Fprintf(b, "func %s() (*flow.Compiled[%s], error) {\n", u.buildName, u.typeName)
	fmt.Fprintf(b, "\tg := flow.NewGraph[%s](%q)\n\n", u.typeName, u.graphName)

	for _, n := range u.stubNodes {
		fmt.Fprintf(b, "\tg.AddNode(%q, %s)\n", n.Label, u.handlers[n.ID])
	}
	if len(u.stubNodes) > 0 {
		b.WriteString("\n")
	}

	for _, d := range u.dispatches {
		fmt.Fprintf(b, "\tg.AddConditionalEdges(%s, %s, map[string]string{\n", d.source, u.routers[d.srcID])
		width := 0
		for _, entry := range d.entries {
			if l := len(entry.condition) + 2; l > width {
				width = l
			}
		}
		for _, entry := range d.entries {
			key := fmt.Sprintf("%q:", entry.condition)
			fmt.Fprintf(b, "\t\t%-*s %s,\n", width+1, key, entry.target)
		}
		b.WriteString("\t})\n")
	}
	for _, e := range u.plainEdges {
		fmt.Fprintf(b, "\tg.AddEdge(%s, %s)\n", e.source, e.target)
	}

	b.WriteString("\n\treturn g.Compile()\n")
	b.WriteString("}\n\n")
}

func (u *emitUnit) writeExample(b *strings.Builder) {
	fmt.Fprintf(b, "// %s is an example invocation of the compiled workflow.\n", u.runName)
	fmt.Fprintf(b, "func %s(ctx context.Context, input string) (%s, error) {\n", u.runName, u.typeName)
	fmt.Fprintf(b, "\tcompiled, err := %s()\n", u.buildName)
	b.WriteString("\tif err != nil {\n")
	fmt.Fprintf(b, "\t\treturn %s{}, err\n", u.typeName)
	b.WriteString("\t}\n")
	fmt.Fprintf(b, "\treturn compiled.Invoke(ctx, %s{Input: input, Data: map[string]any{}})\n", u.typeName)
	b.WriteString("}\n")
}

func quoteLabel(label string) string {
	return fmt.Sprintf("%q", label)
}

// descriptionLines splits a node description for doc comments.
func descriptionLines(desc string) []string {
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return nil
	}
	return strings.Split(desc, "\n")
}

// exportName converts a sanitized identifier to an exported CamelCase name.
func exportName(sanitized string) string {
	parts := strings.Split(sanitized, "_")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	if b.Len() == 0 {
		return "Workflow"
	}
	return b.String()
}
