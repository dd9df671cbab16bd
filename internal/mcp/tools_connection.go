package mcpserver

import (
	"context"
	"fmt"

	"spyglass/internal/domain"
	"spyglass/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerConnectionTools() {
	s.mcp.AddTool(mcp.NewTool("list_connections",
		mcp.WithDescription("List the configured database connections and which one is active"),
	), s.handleListConnections)

	s.mcp.AddTool(mcp.NewTool("set_active_connection",
		mcp.WithDescription("Connect to a configured database by name, making it the active connection. Pass index -1 to disconnect."),
		mcp.WithString("name", mcp.Description("Connection name")),
		mcp.WithNumber("index", mcp.Description("Connection index (alternative to name, -1 disconnects)")),
		mcp.WithString("password", mcp.Description("Password, when none is stored for the connection")),
	), s.handleSetActiveConnection)

	s.mcp.AddTool(mcp.NewTool("list_tables",
		mcp.WithDescription("List tables and columns of the active connection. Returns null when introspection fails."),
	), s.handleListTables)
}

// connectionSummary is the agent-facing view of a profile. Passwords never
// leave the process.
type connectionSummary struct {
	Index       int                `json:"index"`
	Name        string             `json:"name"`
	Environment domain.Environment `json:"environment"`
	Client      domain.Client      `json:"client"`
	Host        string             `json:"host,omitempty"`
	Database    string             `json:"database,omitempty"`
	Charts      int                `json:"charts"`
	HasPassword bool               `json:"hasPassword"`
	Active      bool               `json:"active"`
}

func (s *Server) handleListConnections(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	active, hasActive := s.connections.Active()
	profiles := s.config.Get().Connections

	out := make([]connectionSummary, len(profiles))
	for i, p := range profiles {
		out[i] = connectionSummary{
			Index:       i,
			Name:        p.Name,
			Environment: p.Environment,
			Client:      p.Client,
			Host:        p.Host,
			Database:    p.Database,
			Charts:      len(p.Charts),
			HasPassword: p.HasStoredPassword(),
			Active:      hasActive && active == i,
		}
	}
	return jsonResult(out)
}

func (s *Server) handleSetActiveConnection(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	index := int(getFloat(args, "index", float64(service.NoConnection)))
	if name, _ := args["name"].(string); name != "" {
		i, ok := s.indexByName(name)
		if !ok {
			return nil, fmt.Errorf("connection %q: %w", name, service.ErrNotFound)
		}
		index = i
	} else if _, ok := args["index"]; !ok {
		return nil, fmt.Errorf("name or index is required")
	}

	if index == service.NoConnection {
		if err := s.connections.SetActive(ctx, index, nil); err != nil {
			return nil, err
		}
		return textResult("Disconnected"), nil
	}

	// The config can be reloaded under us, so name the profile up front.
	profile, ok := s.config.Profile(index)
	if !ok {
		return nil, fmt.Errorf("connection %d: %w", index, service.ErrNotFound)
	}
	if err := s.connections.SetActive(ctx, index, getOptionalString(args, "password")); err != nil {
		return nil, err
	}
	return textResult(fmt.Sprintf("Active connection is now %q", profile.Name)), nil
}

func (s *Server) handleListTables(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	catalog, err := s.connections.Tables(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResult(catalog)
}

func (s *Server) indexByName(name string) (int, bool) {
	for i, p := range s.config.Get().Connections {
		if p.Name == name {
			return i, true
		}
	}
	return service.NoConnection, false
}
