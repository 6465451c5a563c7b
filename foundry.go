package agentfoundry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nwalker85/agentfoundry/internal/logging"
	"github.com/nwalker85/agentfoundry/pkg/cache"
	"github.com/nwalker85/agentfoundry/pkg/compiler"
	"github.com/nwalker85/agentfoundry/pkg/extractor"
	"github.com/nwalker85/agentfoundry/pkg/graph"
	"github.com/nwalker85/agentfoundry/pkg/manifest"
	"github.com/nwalker85/agentfoundry/pkg/ports"
)

// The concrete components satisfy the driving ports the adapters
// program against.
var (
	_ ports.GraphEmitter     = (*compiler.Emitter)(nil)
	_ ports.GraphParser      = (*compiler.Parser)(nil)
	_ ports.LogicExtractor   = (*extractor.Extractor)(nil)
	_ ports.ManifestCompiler = (*manifest.Compiler)(nil)
)

// Foundry is the high-level entry point for the library. It wires the
// transform components (all pure and safe for concurrent use) with
// the one piece of shared mutable state, the artifact cache.
type Foundry struct {
	logger    *slog.Logger
	emitter   *compiler.Emitter
	parser    *compiler.Parser
	extractor *extractor.Extractor
	manifests *manifest.Compiler

	store   ports.ArtifactStore
	metrics prometheus.Registerer
	graphs  *cache.Cache[*graph.Graph]
}

// Option defines a functional option for configuring the Foundry.
type Option func(*Foundry)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Foundry) {
		f.logger = logger
	}
}

// WithArtifactStore enables write-through persistence of cached graphs.
func WithArtifactStore(store ports.ArtifactStore) Option {
	return func(f *Foundry) {
		f.store = store
	}
}

// WithMetrics registers cache counters with the given registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(f *Foundry) {
		f.metrics = reg
	}
}

// WithEmitterOptions forwards options to the code emitter.
func WithEmitterOptions(opts ...compiler.EmitterOption) Option {
	return func(f *Foundry) {
		f.emitter = compiler.NewEmitter(opts...)
	}
}

// New creates a Foundry with defaults: no-op logger, in-process cache
// only.
func New(opts ...Option) *Foundry {
	f := &Foundry{
		logger:    logging.NewNop(),
		emitter:   compiler.NewEmitter(),
		parser:    compiler.NewParser(),
		extractor: extractor.New(),
		manifests: manifest.NewCompiler(),
	}
	for _, opt := range opts {
		opt(f)
	}

	cacheOpts := []cache.Option[*graph.Graph]{cache.WithLogger[*graph.Graph](f.logger)}
	if f.store != nil {
		cacheOpts = append(cacheOpts, cache.WithStore[*graph.Graph](f.store))
	}
	if f.metrics != nil {
		cacheOpts = append(cacheOpts, cache.WithMetrics[*graph.Graph](cache.NewMetrics(f.metrics)))
	}
	f.graphs = cache.New(f.loadGraphFile, cacheOpts...)

	return f
}

// EmitGraph compiles a graph into workflow source text.
func (f *Foundry) EmitGraph(g *graph.Graph, target string) string {
	return f.emitter.Emit(g, target)
}

// ParseSource recovers a graph from workflow source text.
func (f *Foundry) ParseSource(src string) (*graph.Graph, error) {
	return f.parser.Parse(src)
}

// ExtractNodeLogic analyzes a handler module and returns its report.
func (f *Foundry) ExtractNodeLogic(src string) (*extractor.Report, error) {
	return f.extractor.Extract(src)
}

// CompileManifest builds a deployment manifest plus diagnostics.
func (f *Foundry) CompileManifest(desc *manifest.DomainDescription) (*manifest.Manifest, []manifest.Diagnostic) {
	return f.manifests.Compile(desc)
}

// LoadGraph reads a graph through the hot-reload cache: designer JSON
// or workflow source, decided by file extension. Returns false when
// the file is missing or does not compile.
func (f *Foundry) LoadGraph(ctx context.Context, id, path string) (*graph.Graph, bool) {
	return f.graphs.GetOrLoad(ctx, id, path)
}

// InvalidateGraph drops one cached graph.
func (f *Foundry) InvalidateGraph(id string) bool {
	return f.graphs.Invalidate(id)
}

// InvalidateAllGraphs drops every cached graph and returns the count.
func (f *Foundry) InvalidateAllGraphs() int {
	return f.graphs.InvalidateAll()
}

// WatchGraphs invalidates cached graphs as their backing files change.
// Blocks until the context is canceled.
func (f *Foundry) WatchGraphs(ctx context.Context, dirs ...string) error {
	return f.graphs.Watch(ctx, dirs...)
}

// loadGraphFile is the cache compile function.
func (f *Foundry) loadGraphFile(path string, data []byte) (*graph.Graph, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return f.parser.Parse(string(data))
	default:
		var g graph.Graph
		if err := json.Unmarshal(data, &g); err != nil {
			return nil, fmt.Errorf("failed to parse graph file %s: %w", path, err)
		}
		if g.Name == "" {
			base := filepath.Base(path)
			g.Name = strings.TrimSuffix(base, filepath.Ext(base))
		}
		return &g, nil
	}
}
