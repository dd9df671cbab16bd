package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"spyglass/internal/dbclient"
	"spyglass/internal/domain"
)

const cliConfig = `{
  "theme": "system",
  "connections": [
    {
      "name": "shop",
      "environment": "local",
      "client": "sqlite3",
      "host": "",
      "database": %q,
      "username": "",
      "charts": [
        {
          "pos": {"x": 0, "y": 0, "width": 4, "height": 3},
          "title": "Revenue",
          "table": "orders",
          "xTitle": "",
          "yTitle": "",
          "method": {"type": "aggregate_sum", "x": "status", "y": "total"},
          "style": "bar"
        }
      ]
    }
  ]
}
`

func setup(t *testing.T) []string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "shop.db")

	seed, err := dbclient.NewConn(&domain.ConnectionProfile{Client: domain.ClientSQLite, Database: dbPath}, "")
	if err != nil {
		t.Fatal(err)
	}
	for _, stmt := range []string{
		`CREATE TABLE orders (id INTEGER, status TEXT, total REAL)`,
		`INSERT INTO orders VALUES (1,'open',1.5),(2,'open',2),(3,'paid',4)`,
	} {
		if _, err := seed.Query(context.Background(), stmt); err != nil {
			t.Fatal(err)
		}
	}
	seed.Close()

	cfgPath := filepath.Join(dir, "spyglass.json")
	writeFile(t, cfgPath, strings.Replace(cliConfig, "%q", `"`+dbPath+`"`, 1))
	return []string{"--config", cfgPath, "--log-level", "panic", "--env-file", filepath.Join(dir, "none.env")}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTestCommand(t *testing.T) {
	flags := setup(t)
	out, err := run(t, append([]string{"test", "shop"}, flags...)...)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "shop: ok in ") {
		t.Errorf("got %q", out)
	}
}

func TestTablesCommand(t *testing.T) {
	flags := setup(t)
	out, err := run(t, append([]string{"tables", "shop"}, flags...)...)
	if err != nil {
		t.Fatal(err)
	}
	var catalog domain.Catalog
	if err := json.Unmarshal([]byte(out), &catalog); err != nil {
		t.Fatalf("%v: %s", err, out)
	}
	if len(catalog["orders"]) != 3 {
		t.Errorf("got %v", catalog)
	}
}

func TestChartCommand(t *testing.T) {
	flags := setup(t)
	out, err := run(t, append([]string{"chart", "shop", "0"}, flags...)...)
	if err != nil {
		t.Fatal(err)
	}
	var series struct {
		Points []struct {
			X string  `json:"x"`
			Y float64 `json:"y"`
		} `json:"points"`
		Axis string `json:"axis"`
	}
	if err := json.Unmarshal([]byte(out), &series); err != nil {
		t.Fatalf("%v: %s", err, out)
	}
	if len(series.Points) != 2 || series.Points[0].Y != 3.5 || series.Points[1].Y != 4 {
		t.Errorf("got %+v", series.Points)
	}
	if series.Axis != "category" {
		t.Errorf("axis = %s", series.Axis)
	}
}

func TestCommands_Errors(t *testing.T) {
	flags := setup(t)
	cases := [][]string{
		{"tables", "missing"},
		{"chart", "shop", "9"},
		{"chart", "shop", "x"},
		{"test"},
	}
	for _, args := range cases {
		if _, err := run(t, append(args, flags...)...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
