package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"spyglass/internal/config"
	"spyglass/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// Server is the MCP server for SpyglassSQL.
// It exposes the connection and chart engine so AI agents can read dashboards.
type Server struct {
	mcp *server.MCPServer
	log *logrus.Logger

	// Services (injected from app layer)
	config      *config.Store
	connections *service.ConnectionService
	charts      *service.ChartService
}

// Deps holds all dependencies passed from the App layer to the MCP server.
type Deps struct {
	Log         *logrus.Logger
	Config      *config.Store
	Connections *service.ConnectionService
	Charts      *service.ChartService
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		log:         deps.Log,
		config:      deps.Config,
		connections: deps.Connections,
		charts:      deps.Charts,
	}

	s.mcp = server.NewMCPServer(
		"spyglass-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	s.registerConnectionTools()
	s.registerChartTools()
	s.registerResources()

	return s
}

// MCP exposes the underlying server, for in-process clients.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio serves on stdin/stdout until ctx is done or stdin closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
