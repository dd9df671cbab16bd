// Package schema lists tables and column metadata of the active connection,
// hiding the differences between SQL dialects.
package schema

import (
	"context"
	"fmt"
	"strings"
	"time"

	"spyglass/internal/dbclient"
	"spyglass/internal/domain"
)

// strategy is the per-dialect catalog access. schema is empty when the
// dialect's current schema should be used.
type strategy interface {
	listTables(ctx context.Context, conn dbclient.Conn) ([]string, error)
	columns(ctx context.Context, conn dbclient.Conn, schema, table string) ([]domain.ColumnInfo, error)
}

func strategyFor(client domain.Client) (strategy, error) {
	switch client {
	case domain.ClientPostgres:
		return postgresStrategy{}, nil
	case domain.ClientSQLite:
		return sqliteStrategy{}, nil
	case domain.ClientMySQL:
		return mysqlStrategy, nil
	case domain.ClientMSSQL:
		return mssqlStrategy, nil
	case domain.ClientOracle:
		return oracleStrategy{}, nil
	default:
		return nil, fmt.Errorf("no introspection for client %q", client)
	}
}

// Introspector reads the catalog through a live handle it does not own.
type Introspector struct {
	conn     dbclient.Conn
	strategy strategy
	schema   string
}

func New(conn dbclient.Conn) (*Introspector, error) {
	s, err := strategyFor(conn.Client())
	if err != nil {
		return nil, err
	}
	return &Introspector{conn: conn, strategy: s}, nil
}

// WithSchema returns an introspector scoped to schema. Column lookups of bare
// table names resolve inside it instead of the session's current schema.
func (i *Introspector) WithSchema(schema string) *Introspector {
	c := *i
	c.schema = schema
	return &c
}

// Schema is the scope set by WithSchema, empty for the current schema.
func (i *Introspector) Schema() string { return i.schema }

// SplitIdentifier splits "schema.table" at the first dot. A bare name has
// an empty schema.
func SplitIdentifier(id string) (schema, table string) {
	if idx := strings.Index(id, "."); idx >= 0 {
		return id[:idx], id[idx+1:]
	}
	return "", id
}

// ListTables returns every user table. Postgres names are schema-qualified.
func (i *Introspector) ListTables(ctx context.Context) ([]string, error) {
	tables, err := i.strategy.listTables(ctx, i.conn)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

// Columns returns the ordered columns of table. A schema-qualified
// identifier scopes the introspector to that schema first, then looks up
// the bare name; looking up the qualified name unscoped finds nothing.
func (i *Introspector) Columns(ctx context.Context, table string) ([]domain.ColumnInfo, error) {
	in := i
	schema, bare := SplitIdentifier(table)
	if schema != "" {
		in = i.WithSchema(schema)
	}
	cols, err := in.strategy.columns(ctx, in.conn, in.schema, bare)
	if err != nil {
		return nil, fmt.Errorf("columns of %s: %w", table, err)
	}
	return cols, nil
}

// Catalog builds the full table → columns mapping. Any failure aborts
// the whole build; a partial catalog is never returned.
func (i *Introspector) Catalog(ctx context.Context) (domain.Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	tables, err := i.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	catalog := make(domain.Catalog, len(tables))
	for _, t := range tables {
		cols, err := i.Columns(ctx, t)
		if err != nil {
			return nil, err
		}
		catalog[t] = cols
	}
	return catalog, nil
}
