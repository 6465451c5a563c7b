package ports

import (
	"github.com/nwalker85/agentfoundry/pkg/extractor"
	"github.com/nwalker85/agentfoundry/pkg/graph"
	"github.com/nwalker85/agentfoundry/pkg/manifest"
)

// GraphEmitter is the forward compiler as the adapters see it.
type GraphEmitter interface {
	// Emit turns a graph into source text. It degrades, never fails.
	Emit(g *graph.Graph, target string) string
}

// GraphParser is the reverse compiler.
type GraphParser interface {
	// Parse recovers a graph from source text or returns a
	// structured error for unparseable input.
	Parse(src string) (*graph.Graph, error)
}

// LogicExtractor is the deep static-analysis pass.
type LogicExtractor interface {
	Extract(src string) (*extractor.Report, error)
}

// ManifestCompiler is the declarative-manifest forward compiler.
type ManifestCompiler interface {
	Compile(desc *manifest.DomainDescription) (*manifest.Manifest, []manifest.Diagnostic)
}
