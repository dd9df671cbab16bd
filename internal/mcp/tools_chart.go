package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"spyglass/internal/domain"
	"spyglass/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
)

const chartExample = `{"table":"orders","method":{"type":"aggregate_count","x":"status"}}`

func (s *Server) registerChartTools() {
	s.mcp.AddTool(mcp.NewTool("chart_data",
		mcp.WithDescription("Compute the datapoints of a chart on the active connection. Either pass chartIndex for a saved chart or a chart definition as JSON."),
		mcp.WithNumber("chartIndex", mcp.Description("Index of a saved chart of the active connection")),
		mcp.WithString("chart", mcp.Description("Chart definition, e.g. "+chartExample)),
	), s.handleChartData)
}

func (s *Server) handleChartData(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()
	chartIndex := int(getFloat(args, "chartIndex", -1))

	var c domain.Chart
	if raw, _ := args["chart"].(string); raw != "" {
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("parse chart: %w", err)
		}
	} else {
		saved, err := s.savedChart(chartIndex)
		if err != nil {
			return nil, err
		}
		c = saved
	}

	series, err := s.charts.Render(ctx, chartIndex, c)
	if err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return jsonResult(series)
}

func (s *Server) savedChart(chartIndex int) (domain.Chart, error) {
	active, ok := s.connections.Active()
	if !ok {
		return domain.Chart{}, service.ErrNoActiveConnection
	}
	profile, ok := s.config.Profile(active)
	if !ok {
		return domain.Chart{}, fmt.Errorf("connection %d: %w", active, service.ErrNotFound)
	}
	if chartIndex < 0 || chartIndex >= len(profile.Charts) {
		return domain.Chart{}, fmt.Errorf("connection %q has no chart %d", profile.Name, chartIndex)
	}
	return profile.Charts[chartIndex], nil
}
