package mcpserver

import (
	"context"
	"encoding/json"

	"spyglass/internal/domain"

	"github.com/mark3labs/mcp-go/mcp"
)

const configURI = "spyglass://config"

func (s *Server) registerResources() {
	// ── spyglass://config ──────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		configURI,
		"Dashboard Config",
		mcp.WithResourceDescription("Connections and charts, without passwords"),
		mcp.WithMIMEType("application/json"),
	), s.handleConfigResource)
}

func (s *Server) handleConfigResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	data, err := json.MarshalIndent(redacted(s.config.Get()), "", "  ")
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      configURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// redacted copies cfg with every stored password removed.
func redacted(cfg *domain.Config) domain.Config {
	out := *cfg
	out.Connections = make([]domain.ConnectionProfile, len(cfg.Connections))
	for i, p := range cfg.Connections {
		p.Password = nil
		out.Connections[i] = p
	}
	return out
}
