package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"spyglass/internal/chart"
	"spyglass/internal/config"
	"spyglass/internal/dbclient"
	"spyglass/internal/domain"
	"spyglass/internal/secret"
	"spyglass/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/sirupsen/logrus"
)

func strp(s string) *string { return &s }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	ctx := context.Background()
	dir := t.TempDir()

	dbPath := filepath.Join(dir, "shop.db")
	seed, err := dbclient.NewConn(&domain.ConnectionProfile{Client: domain.ClientSQLite, Database: dbPath}, "")
	if err != nil {
		t.Fatal(err)
	}
	for _, stmt := range []string{
		`CREATE TABLE orders (id INTEGER, status TEXT)`,
		`INSERT INTO orders VALUES (1,'open'),(2,'closed'),(3,'open')`,
	} {
		if _, err := seed.Query(ctx, stmt); err != nil {
			t.Fatal(err)
		}
	}
	seed.Close()

	store := config.NewStore(log, filepath.Join(dir, "spyglass.json"))
	cfg := domain.DefaultConfig()
	cfg.Connections = []domain.ConnectionProfile{{
		Name:        "shop",
		Environment: domain.EnvironmentLocal,
		Client:      domain.ClientSQLite,
		Database:    dbPath,
		Password:    strp("unused"),
		Charts: []domain.Chart{{
			Title:  "Orders by status",
			Table:  strp("orders"),
			Method: domain.CountMethod{X: strp("status")},
			Style:  domain.ChartStyleBar,
		}},
	}}
	if problems, err := store.Save(cfg); err != nil || len(problems) > 0 {
		t.Fatalf("save: %v %v", problems, err)
	}

	registry := dbclient.NewRegistry(log)
	conns := service.NewConnectionService(log, store, registry, secret.NewMemoryStore(), service.NopEmitter{})
	t.Cleanup(conns.Close)

	return New(Deps{
		Log:         log,
		Config:      store,
		Connections: conns,
		Charts:      service.NewChartService(log, conns, chart.NewPipeline(nil), service.NopEmitter{}),
	})
}

func call(t *testing.T, handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error), args map[string]any) (string, error) {
	t.Helper()
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	res, err := handler(context.Background(), req)
	if err != nil {
		return "", err
	}
	return res.Content[0].(mcp.TextContent).Text, nil
}

func TestListConnections_HidesPasswords(t *testing.T) {
	s := newTestServer(t)
	text, err := call(t, s.handleListConnections, nil)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(text, "unused") {
		t.Error("password leaked")
	}

	var out []connectionSummary
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0].Name != "shop" || !out[0].HasPassword || out[0].Active {
		t.Errorf("got %+v", out)
	}
}

func TestSetActiveConnection_ByNameThenChart(t *testing.T) {
	s := newTestServer(t)

	if _, err := call(t, s.handleSetActiveConnection, map[string]any{"name": "shop"}); err != nil {
		t.Fatal(err)
	}

	text, err := call(t, s.handleListTables, nil)
	if err != nil {
		t.Fatal(err)
	}
	var catalog domain.Catalog
	if err := json.Unmarshal([]byte(text), &catalog); err != nil {
		t.Fatal(err)
	}
	if len(catalog["orders"]) != 2 {
		t.Errorf("catalog = %v", catalog)
	}

	text, err = call(t, s.handleChartData, map[string]any{"chartIndex": float64(0)})
	if err != nil {
		t.Fatal(err)
	}
	var series struct {
		Points []struct {
			X string  `json:"x"`
			Y float64 `json:"y"`
		} `json:"points"`
	}
	if err := json.Unmarshal([]byte(text), &series); err != nil {
		t.Fatal(err)
	}
	if len(series.Points) != 2 || series.Points[0].X != "open" || series.Points[0].Y != 2 {
		t.Errorf("points = %+v", series.Points)
	}
}

func TestChartData_InlineDefinition(t *testing.T) {
	s := newTestServer(t)
	if _, err := call(t, s.handleSetActiveConnection, map[string]any{"index": float64(0)}); err != nil {
		t.Fatal(err)
	}

	text, err := call(t, s.handleChartData, map[string]any{
		"chart": `{"table":"orders","method":{"type":"column","x":"id","y":"status"},"pos":{"x":0,"y":0,"width":1,"height":1},"title":"","xTitle":"","yTitle":"","style":"line"}`,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, `"closed"`) {
		t.Errorf("got %s", text)
	}
}

func TestChartData_NeedsActiveConnection(t *testing.T) {
	s := newTestServer(t)
	_, err := call(t, s.handleChartData, map[string]any{"chartIndex": float64(0)})
	if !errors.Is(err, service.ErrNoActiveConnection) {
		t.Fatalf("got %v", err)
	}
}

func TestSetActiveConnection_UnknownName(t *testing.T) {
	s := newTestServer(t)
	_, err := call(t, s.handleSetActiveConnection, map[string]any{"name": "nope"})
	if !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("got %v", err)
	}
}

func TestSetActiveConnection_ByIndexNamesProfile(t *testing.T) {
	s := newTestServer(t)
	text, err := call(t, s.handleSetActiveConnection, map[string]any{"index": float64(0)})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, `"shop"`) {
		t.Errorf("got %s", text)
	}

	text, err = call(t, s.handleSetActiveConnection, map[string]any{"index": float64(service.NoConnection)})
	if err != nil || text != "Disconnected" {
		t.Errorf("clear: %q %v", text, err)
	}
}

func TestSetActiveConnection_AfterConfigShrinks(t *testing.T) {
	s := newTestServer(t)
	if _, err := call(t, s.handleSetActiveConnection, map[string]any{"index": float64(0)}); err != nil {
		t.Fatal(err)
	}
	if problems, err := s.config.Save(domain.DefaultConfig()); err != nil || len(problems) > 0 {
		t.Fatalf("save: %v %v", problems, err)
	}
	for _, index := range []float64{0, 3} {
		_, err := call(t, s.handleSetActiveConnection, map[string]any{"index": index})
		if !errors.Is(err, service.ErrNotFound) {
			t.Errorf("index %v: got %v, want ErrNotFound", index, err)
		}
	}
}

func TestChartData_DescriptionExampleRenders(t *testing.T) {
	s := newTestServer(t)
	if _, err := call(t, s.handleSetActiveConnection, map[string]any{"name": "shop"}); err != nil {
		t.Fatal(err)
	}
	text, err := call(t, s.handleChartData, map[string]any{"chart": chartExample})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(text, `"open"`) {
		t.Errorf("got %s", text)
	}
}

func TestRedacted(t *testing.T) {
	cfg := &domain.Config{Connections: []domain.ConnectionProfile{{Name: "a", Password: strp("secret")}}}
	out := redacted(cfg)
	if out.Connections[0].Password != nil {
		t.Error("password kept")
	}
	if cfg.Connections[0].Password == nil {
		t.Error("original mutated")
	}
}
