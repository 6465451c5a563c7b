/*
Package agentfoundry is a bidirectional compiler between visual
workflow graphs and runnable workflow source code.

It treats the two representations as equal citizens: a graph drawn in
a node editor compiles to idiomatic workflow code, and workflow code
written by hand parses back into a graph the editor can render. A
third pass inspects the node handlers themselves and lifts their
business logic (prompts, branch conditions, state writes, model
configuration) into structured metadata, and a fourth turns a plain
domain description into a deployment manifest.

# Concept

Four independent transforms share one vocabulary, the graph model:

  - Emit: graph -> workflow source (stub handlers, wired edges).
  - Parse: workflow source -> graph (call-shape matching, no execution).
  - Extract: handler source -> business logic report.
  - Manifest: domain description -> deployment manifest.

All four are pure and safe for concurrent use. The only shared mutable
state is the artifact cache, which keeps compiled graphs fresh against
their backing files by modification time.

# Usage

	package main

	import (
		"fmt"
		"log"

		foundry "github.com/nwalker85/agentfoundry"
		"github.com/nwalker85/agentfoundry/pkg/graph"
	)

	func main() {
		g := graph.NewBuilder("support").
			Add("start").Kind(graph.NodeTypeEntry).Go("triage").
			Add("triage").Branch("urgent", "escalate").Branch("routine", "resolve").
			Add("escalate").Go("end").
			Add("resolve").Go("end").
			Add("end").Kind(graph.NodeTypeEnd).
			Build()

		f := foundry.New()
		src := f.EmitGraph(g, "support")
		fmt.Println(src)

		// Round-trip: the emitted source parses back into a graph.
		back, err := f.ParseSource(src)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(back.Name, len(back.Nodes), len(back.Edges))
	}

The cmd/foundry CLI, the HTTP adapter, and the MCP adapter expose the
same four transforms over their respective surfaces.
*/
package agentfoundry
