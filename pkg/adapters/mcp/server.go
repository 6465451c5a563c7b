// Package mcp exposes the compiler transforms as Model Context
// Protocol tools, so agent frontends can round-trip graphs and code
// without linking the library.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/nwalker85/agentfoundry/pkg/extractor"
	"github.com/nwalker85/agentfoundry/pkg/graph"
	"github.com/nwalker85/agentfoundry/pkg/manifest"
)

// Compiler defines the interface required by the MCP server.
type Compiler interface {
	EmitGraph(g *graph.Graph, target string) string
	ParseSource(src string) (*graph.Graph, error)
	ExtractNodeLogic(src string) (*extractor.Report, error)
	CompileManifest(desc *manifest.DomainDescription) (*manifest.Manifest, []manifest.Diagnostic)
}

// EmitResponse is the structured output of the graph_to_code tool.
type EmitResponse struct {
	Source      string             `json:"source" jsonschema_description:"Generated workflow source code"`
	Diagnostics []graph.Diagnostic `json:"diagnostics" jsonschema_description:"Graph validation findings"`
}

// ManifestResponse is the structured output of the compile_manifest tool.
type ManifestResponse struct {
	Manifest    string                `json:"manifest" jsonschema_description:"Rendered deployment manifest (YAML)"`
	Diagnostics []manifest.Diagnostic `json:"diagnostics" jsonschema_description:"Compilation findings"`
}

// Server wraps the compiler and exposes it as an MCP Server.
type Server struct {
	compiler  Compiler
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(compiler Compiler, version string) *Server {
	s := &Server{
		compiler:  compiler,
		mcpServer: server.NewMCPServer("foundry-mcp", version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: graph_to_code
	emitTool := mcp.NewTool("graph_to_code",
		mcp.WithDescription("Compile a workflow graph (designer JSON) into runnable workflow source code."),
		mcp.WithString("graph", mcp.Required(), mcp.Description("Graph definition as a JSON object string")),
		mcp.WithString("target", mcp.Description("Workflow name for the generated code (defaults to the graph name)")),
		mcp.WithOutputSchema[EmitResponse](),
	)
	s.mcpServer.AddTool(emitTool, mcp.NewStructuredToolHandler(s.handleGraphToCode))

	// TOOL: code_to_graph
	s.mcpServer.AddTool(mcp.NewTool("code_to_graph",
		mcp.WithDescription("Parse workflow source code back into a graph definition the designer can render."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Workflow source code")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		src, err := request.RequireString("source")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		g, err := s.compiler.ParseSource(src)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("parse failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(g)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})

	// TOOL: extract_node_logic
	extractTool := mcp.NewTool("extract_node_logic",
		mcp.WithDescription("Analyze node handler source and extract prompts, branch conditions, state writes, and model configuration."),
		mcp.WithString("source", mcp.Required(), mcp.Description("Handler module source code")),
		mcp.WithOutputSchema[extractor.Report](),
	)
	s.mcpServer.AddTool(extractTool, mcp.NewStructuredToolHandler(s.handleExtract))

	// TOOL: compile_manifest
	manifestTool := mcp.NewTool("compile_manifest",
		mcp.WithDescription("Compile a plain domain description into a deployment manifest."),
		mcp.WithString("description", mcp.Required(), mcp.Description("Domain description as a JSON object string")),
		mcp.WithOutputSchema[ManifestResponse](),
	)
	s.mcpServer.AddTool(manifestTool, mcp.NewStructuredToolHandler(s.handleManifest))
}

// Handler methods for structured tools

func (s *Server) handleGraphToCode(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (EmitResponse, error) {
	graphStr, _ := args["graph"].(string)

	var g graph.Graph
	if err := json.Unmarshal([]byte(graphStr), &g); err != nil {
		return EmitResponse{}, fmt.Errorf("invalid graph: %w", err)
	}

	target, _ := args["target"].(string)
	if target == "" {
		target = g.Name
	}

	return EmitResponse{
		Source:      s.compiler.EmitGraph(&g, target),
		Diagnostics: g.Validate(),
	}, nil
}

func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (extractor.Report, error) {
	src, _ := args["source"].(string)

	report, err := s.compiler.ExtractNodeLogic(src)
	if err != nil {
		return extractor.Report{}, fmt.Errorf("extract failed: %w", err)
	}
	return *report, nil
}

func (s *Server) handleManifest(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ManifestResponse, error) {
	descStr, _ := args["description"].(string)

	var raw map[string]any
	if err := json.Unmarshal([]byte(descStr), &raw); err != nil {
		return ManifestResponse{}, fmt.Errorf("invalid description: %w", err)
	}
	desc, err := manifest.DecodeDescription(raw)
	if err != nil {
		return ManifestResponse{}, fmt.Errorf("invalid description: %w", err)
	}

	m, diags := s.compiler.CompileManifest(desc)
	rendered, err := m.YAML()
	if err != nil {
		return ManifestResponse{}, fmt.Errorf("manifest encode failed: %w", err)
	}

	return ManifestResponse{Manifest: string(rendered), Diagnostics: diags}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: foundry://conventions
	// The naming conventions the extractor matches against, so a
	// client generating handler code can stay recognizable.
	s.mcpServer.AddResource(mcp.NewResource("foundry://conventions", "Extractor Naming Conventions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(extractor.Conventions())
		if err != nil {
			return nil, fmt.Errorf("failed to encode conventions: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "foundry://conventions",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
