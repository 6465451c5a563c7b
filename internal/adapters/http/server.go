// Package http exposes the four compiler transforms as a JSON API.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	presentation "github.com/nwalker85/agentfoundry/internal/presentation/graph"
	"github.com/nwalker85/agentfoundry/pkg/extractor"
	"github.com/nwalker85/agentfoundry/pkg/graph"
	"github.com/nwalker85/agentfoundry/pkg/manifest"
)

// Compiler defines the interface for the transform core.
type Compiler interface {
	EmitGraph(g *graph.Graph, target string) string
	ParseSource(src string) (*graph.Graph, error)
	ExtractNodeLogic(src string) (*extractor.Report, error)
	CompileManifest(desc *manifest.DomainDescription) (*manifest.Manifest, []manifest.Diagnostic)
	LoadGraph(ctx context.Context, id, path string) (*graph.Graph, bool)
}

// Server holds the handler state.
type Server struct {
	Compiler Compiler
	GraphDir string
	Version  string
}

// NewHandler creates the HTTP handler. graphDir is where GET /graph/{id}
// looks for backing files (id + ".json").
func NewHandler(compiler Compiler, graphDir, version string) http.Handler {
	server := &Server{
		Compiler: compiler,
		GraphDir: graphDir,
		Version:  version,
	}
	r := chi.NewRouter()

	r.Post("/compile", server.Compile)
	r.Post("/parse", server.Parse)
	r.Post("/extract", server.Extract)
	r.Post("/manifest", server.Manifest)
	r.Get("/graph/{id}", server.GetGraph)
	r.Get("/healthz", server.GetHealth)
	r.Get("/info", server.GetInfo)
	r.Handle("/metrics", promhttp.Handler())

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CompileRequest is the POST /compile body.
type CompileRequest struct {
	Graph  json.RawMessage `json:"graph"`
	Target string          `json:"target"`
}

// CompileResponse carries the emitted source plus graph diagnostics.
type CompileResponse struct {
	Source      string             `json:"source"`
	Diagnostics []graph.Diagnostic `json:"diagnostics"`
}

// Compile handles the POST /compile request: designer graph in,
// workflow source out.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	var body CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("Compile: Invalid request body", "error", err)
		return
	}

	var g graph.Graph
	if err := json.Unmarshal(body.Graph, &g); err != nil {
		http.Error(w, fmt.Sprintf("Invalid graph: %v", err), http.StatusBadRequest)
		slog.Warn("Compile: Invalid graph payload", "error", err)
		return
	}

	target := body.Target
	if target == "" {
		target = g.Name
	}

	resp := CompileResponse{
		Source:      s.Compiler.EmitGraph(&g, target),
		Diagnostics: g.Validate(),
	}
	writeJSON(w, resp)
}

// ParseRequest is the POST /parse body.
type ParseRequest struct {
	Source string `json:"source"`
}

// Parse handles the POST /parse request: workflow source in, designer
// graph out.
func (s *Server) Parse(w http.ResponseWriter, r *http.Request) {
	var body ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("Parse: Invalid request body", "error", err)
		return
	}

	g, err := s.Compiler.ParseSource(body.Source)
	if err != nil {
		http.Error(w, fmt.Sprintf("Parse error: %v", err), http.StatusUnprocessableEntity)
		slog.Warn("Parse failed", "error", err)
		return
	}
	writeJSON(w, g)
}

// ExtractRequest is the POST /extract body.
type ExtractRequest struct {
	Source string `json:"source"`
	Format string `json:"format"` // "json" (default) or "markdown"
}

// Extract handles the POST /extract request.
func (s *Server) Extract(w http.ResponseWriter, r *http.Request) {
	var body ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("Extract: Invalid request body", "error", err)
		return
	}

	report, err := s.Compiler.ExtractNodeLogic(body.Source)
	if err != nil {
		http.Error(w, fmt.Sprintf("Extract error: %v", err), http.StatusUnprocessableEntity)
		slog.Warn("Extract failed", "error", err)
		return
	}

	if body.Format == "markdown" {
		w.Header().Set("Content-Type", "text/markdown")
		fmt.Fprint(w, report.Markdown())
		return
	}
	writeJSON(w, report)
}

// ManifestResponse carries the rendered manifest plus its diagnostics.
type ManifestResponse struct {
	Manifest    string                `json:"manifest"`
	Diagnostics []manifest.Diagnostic `json:"diagnostics"`
}

// Manifest handles the POST /manifest request. The body is a raw
// domain description object.
func (s *Server) Manifest(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		slog.Warn("Manifest: Invalid request body", "error", err)
		return
	}

	desc, err := manifest.DecodeDescription(raw)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid description: %v", err), http.StatusBadRequest)
		slog.Warn("Manifest: Invalid description", "error", err)
		return
	}

	m, diags := s.Compiler.CompileManifest(desc)
	rendered, err := m.YAML()
	if err != nil {
		http.Error(w, fmt.Sprintf("Manifest error: %v", err), http.StatusInternalServerError)
		slog.Error("Manifest encode failed", "error", err)
		return
	}

	writeJSON(w, ManifestResponse{Manifest: string(rendered), Diagnostics: diags})
}

// GetGraph handles the GET /graph/{id} request, served through the
// artifact cache. Add ?format=mermaid for a diagram instead of JSON.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	id, err := url.PathUnescape(chi.URLParam(r, "id"))
	// The id names a file inside GraphDir; it must not navigate out.
	if err != nil || id == "" || strings.Contains(id, "..") || strings.ContainsAny(id, `/\`) {
		http.Error(w, "Invalid graph id", http.StatusBadRequest)
		slog.Warn("GetGraph: Invalid graph id", "id", id)
		return
	}
	path := filepath.Join(s.GraphDir, id+".json")

	g, ok := s.Compiler.LoadGraph(r.Context(), id, path)
	if !ok {
		http.Error(w, "Graph not found", http.StatusNotFound)
		return
	}

	if r.URL.Query().Get("format") == "mermaid" {
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, presentation.GenerateMermaid(g))
		return
	}
	writeJSON(w, g)
}

// GetHealth handles the GET /healthz request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{
		"app":     "foundry-http",
		"version": s.Version,
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Response encode failed", "error", err)
	}
}
