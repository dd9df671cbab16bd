package config_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"spyglass/internal/config"
	"spyglass/internal/domain"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.FatalLevel)
	return log
}

const fullConfig = `{
  "theme": "dark",
  "connections": [
    {
      "name": "warehouse",
      "environment": "production",
      "client": "pg",
      "host": "db.internal",
      "port": 5433,
      "database": "dw",
      "username": "analyst",
      "charts": [
        {
          "pos": {"x": 0, "y": 0, "width": 6, "height": 4},
          "title": "Revenue",
          "subtitle": "by day",
          "table": "sales.orders",
          "xTitle": "Day",
          "yTitle": "USD",
          "method": {"type": "aggregate_sum", "x": "day", "y": "total"},
          "style": "line",
          "joins": [{"table": "public.users", "baseColumn": "orders.user_id", "foreignColumn": "users.id"}],
          "where": "total > 0",
          "yFormatter": "usd"
        },
        {
          "pos": {"x": 6, "y": 0, "width": 3, "height": 4},
          "title": "Custom",
          "table": "events",
          "xTitle": "",
          "yTitle": "",
          "method": {"type": "custom", "fn": "return rows.map(r => ({x: r.k, y: r.v}))"},
          "style": "bar"
        },
        {
          "pos": {"x": 0, "y": 4, "width": 3, "height": 3},
          "title": "Status",
          "table": "events",
          "xTitle": "",
          "yTitle": "",
          "method": {"type": "aggregate_count", "x": "status"},
          "style": "pie"
        }
      ]
    },
    {
      "name": "scratch",
      "environment": "local",
      "client": "sqlite3",
      "host": "",
      "port": "",
      "database": "/tmp/scratch.db",
      "username": "",
      "password": "",
      "charts": []
    }
  ]
}
`

// ── Round trip ──────────────────────────────────────────────

func TestSaveIsByteStable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spyglass.json")
	if err := os.WriteFile(path, []byte(fullConfig), 0o600); err != nil {
		t.Fatal(err)
	}
	store := config.NewStore(quietLogger(), path)
	cfg := store.Load()
	if len(cfg.Connections) != 2 {
		t.Fatalf("connections = %d", len(cfg.Connections))
	}

	if problems, err := store.Save(cfg); err != nil || len(problems) > 0 {
		t.Fatalf("save: %v %v", problems, err)
	}
	first, _ := os.ReadFile(path)

	reloaded := config.NewStore(quietLogger(), path)
	if problems, err := reloaded.Save(reloaded.Load()); err != nil || len(problems) > 0 {
		t.Fatalf("resave: %v %v", problems, err)
	}
	second, _ := os.ReadFile(path)

	if string(first) != string(second) {
		t.Errorf("config drifted:\n%s\n---\n%s", first, second)
	}
	if strings.Contains(string(first), `"port": ""`) {
		t.Error("empty port should be omitted")
	}
	if !strings.Contains(string(first), `"type": "aggregate_count",`) {
		t.Error("count method tag lost")
	}
}

func TestLoadMissingUsesDefaults(t *testing.T) {
	store := config.NewStore(quietLogger(), filepath.Join(t.TempDir(), "none.json"))
	cfg := store.Load()
	if cfg.Theme != domain.ThemeSystem || cfg.Connections == nil || len(cfg.Connections) != 0 {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadInvalidUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"theme": `), 0o600)
	cfg := config.NewStore(quietLogger(), path).Load()
	if cfg.Theme != domain.ThemeSystem {
		t.Errorf("got %+v", cfg)
	}
}

func TestDecodeDefaultsTheme(t *testing.T) {
	cfg, err := config.Decode([]byte(`{}`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Theme != domain.ThemeSystem || cfg.Connections == nil {
		t.Errorf("got %+v", cfg)
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(config.EnvPath, "/etc/spyglass.json")
	if got := config.ResolvePath("./mine.json"); got != "./mine.json" {
		t.Errorf("flag: %s", got)
	}
	if got := config.ResolvePath(""); got != "/etc/spyglass.json" {
		t.Errorf("env: %s", got)
	}
	t.Setenv(config.EnvPath, "")
	if got := config.ResolvePath(""); got != config.FileName {
		t.Errorf("default: %s", got)
	}
}

// ── Validation ──────────────────────────────────────────────

func TestValidateReportsPaths(t *testing.T) {
	port := 70000
	cfg := &domain.Config{
		Theme: "neon",
		Connections: []domain.ConnectionProfile{
			{Name: "a", Environment: "local", Client: "pg", Host: "h"},
			{Name: "a", Environment: "moon", Client: "db2", Port: &port},
			{Name: "c", Environment: "local", Client: "sqlite3", Charts: []domain.Chart{
				{Style: "donut", Pos: domain.Position{Width: -1}, Method: domain.CustomMethod{Fn: " "}, Table: new(string)},
			}},
		},
	}
	got := map[string]bool{}
	for _, e := range config.Validate(cfg) {
		got[e.Path] = true
	}
	for _, want := range []string{
		"theme",
		"connections[1].name",
		"connections[1].environment",
		"connections[1].client",
		"connections[1].port",
		"connections[2].database",
		"connections[2].charts[0].style",
		"connections[2].charts[0].pos",
		"connections[2].charts[0].method.fn",
	} {
		if !got[want] {
			t.Errorf("missing error for %s (got %v)", want, got)
		}
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spyglass.json")
	store := config.NewStore(quietLogger(), path)
	problems, err := store.Save(&domain.Config{Theme: "neon"})
	if err != nil {
		t.Fatal(err)
	}
	if len(problems) == 0 {
		t.Fatal("expected validation errors")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid config was written")
	}
}

// ── Watcher ─────────────────────────────────────────────────

func TestWatchPicksUpExternalEdit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spyglass.json")
	store := config.NewStore(quietLogger(), path)
	if _, err := store.Save(domain.DefaultConfig()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changed := make(chan *domain.Config, 1)
	if err := store.Watch(ctx, func(cfg *domain.Config) {
		select {
		case changed <- cfg:
		default:
		}
	}); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(path, []byte(`{"theme":"light","connections":[]}`), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case cfg := <-changed:
		if cfg.Theme != domain.ThemeLight {
			t.Errorf("theme = %s", cfg.Theme)
		}
		if store.Get().Theme != domain.ThemeLight {
			t.Error("store not updated")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}
