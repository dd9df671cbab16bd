package schema

import (
	"context"

	"spyglass/internal/dbclient"
	"spyglass/internal/domain"
)

// postgresStrategy reads information_schema directly so every user schema is
// visible, not just the search_path.
type postgresStrategy struct{}

const pgTablesSQL = `SELECT table_schema, table_name FROM information_schema.tables
WHERE table_type = 'BASE TABLE'
  AND table_schema NOT IN ('pg_catalog', 'information_schema')
  AND table_schema NOT LIKE 'pg_toast%'
ORDER BY table_schema, table_name`

func (postgresStrategy) listTables(ctx context.Context, conn dbclient.Conn) ([]string, error) {
	rows, err := conn.Query(ctx, pgTablesSQL)
	if err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(rows))
	for _, r := range rows {
		tables = append(tables, fieldString(r, "table_schema")+"."+fieldString(r, "table_name"))
	}
	return tables, nil
}

func (postgresStrategy) columns(ctx context.Context, conn dbclient.Conn, schema, table string) ([]domain.ColumnInfo, error) {
	return infoSchemaColumns(ctx, conn, "current_schema()", schema, table)
}
