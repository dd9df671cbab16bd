// Package chart turns chart definitions into plotted datapoints: it builds
// the row query, projects rows through the chart's method and classifies
// the resulting x-axis.
package chart

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spyglass/internal/dbclient"
	"spyglass/internal/domain"
)

// Query is a compiled row fetch.
type Query struct {
	SQL  string
	Args []any
}

// BuildQuery compiles the chart's table, joins and filter into a SELECT.
// It reports false when the chart has no table.
//
// Where is spliced in verbatim as a raw predicate. Whoever configures the
// chart already holds credentials for the database.
func BuildQuery(client domain.Client, c *domain.Chart) (Query, bool) {
	if c == nil || c.Table == nil || *c.Table == "" {
		return Query{}, false
	}

	var b strings.Builder
	b.WriteString("SELECT * FROM ")
	b.WriteString(dbclient.QuoteIdent(client, *c.Table))
	for _, j := range c.Joins {
		fmt.Fprintf(&b, " INNER JOIN %s ON %s = %s",
			dbclient.QuoteIdent(client, j.Table),
			dbclient.QuoteIdent(client, j.BaseColumn),
			dbclient.QuoteIdent(client, j.ForeignColumn))
	}
	if c.Where != nil && strings.TrimSpace(*c.Where) != "" {
		b.WriteString(" WHERE (")
		b.WriteString(*c.Where)
		b.WriteString(")")
	}
	return Query{SQL: b.String()}, true
}

// FetchRows runs the chart's query against conn. A chart without a table
// yields no rows and touches nothing.
func FetchRows(ctx context.Context, conn dbclient.Conn, c *domain.Chart) ([]dbclient.Row, error) {
	q, ok := BuildQuery(conn.Client(), c)
	if !ok {
		return []dbclient.Row{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	rows, err := conn.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("chart %q: %w", c.Title, err)
	}
	return rows, nil
}
