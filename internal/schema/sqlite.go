package schema

import (
	"context"
	"strings"

	"spyglass/internal/dbclient"
	"spyglass/internal/domain"
)

// sqliteStrategy uses sqlite_master + pragma_table_info. SQLite keeps no
// precision metadata, so numeric comes from the declared type's affinity.
type sqliteStrategy struct{}

func (sqliteStrategy) listTables(ctx context.Context, conn dbclient.Conn) ([]string, error) {
	rows, err := conn.Query(ctx,
		`SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(rows))
	for _, r := range rows {
		tables = append(tables, fieldString(r, "name"))
	}
	return tables, nil
}

func (sqliteStrategy) columns(ctx context.Context, conn dbclient.Conn, schema, table string) ([]domain.ColumnInfo, error) {
	if schema == "" {
		schema = "main"
	}
	rows, err := conn.Query(ctx,
		`SELECT name, type, "notnull" FROM pragma_table_info(?, ?) ORDER BY cid`, table, schema)
	if err != nil {
		return nil, err
	}
	cols := make([]domain.ColumnInfo, 0, len(rows))
	for _, r := range rows {
		colType := fieldString(r, "type")
		cols = append(cols, domain.ColumnInfo{
			Name:     fieldString(r, "name"),
			Type:     colType,
			Numeric:  numericAffinity(colType),
			Nullable: fieldString(r, "notnull") == "0",
		})
	}
	return cols, nil
}

// numericAffinity applies SQLite's column affinity rules in order and
// reports whether the result is INTEGER, REAL or NUMERIC.
func numericAffinity(declared string) bool {
	t := strings.ToUpper(declared)
	switch {
	case strings.Contains(t, "INT"):
		return true
	case strings.Contains(t, "CHAR"), strings.Contains(t, "CLOB"), strings.Contains(t, "TEXT"):
		return false
	case t == "" || strings.Contains(t, "BLOB"):
		return false
	default:
		// REAL, FLOA, DOUB, and everything else is REAL or NUMERIC
		return true
	}
}
