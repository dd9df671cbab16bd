package schema

import (
	"context"

	"spyglass/internal/dbclient"
	"spyglass/internal/domain"
)

// infoSchemaStrategy covers dialects with an INFORMATION_SCHEMA and a
// current-schema function. Table names are listed bare.
type infoSchemaStrategy struct {
	currentSchema string
}

var (
	mysqlStrategy = infoSchemaStrategy{currentSchema: "DATABASE()"}
	mssqlStrategy = infoSchemaStrategy{currentSchema: "SCHEMA_NAME()"}
)

func (s infoSchemaStrategy) listTables(ctx context.Context, conn dbclient.Conn) ([]string, error) {
	rows, err := conn.Query(ctx, `SELECT TABLE_NAME AS name FROM INFORMATION_SCHEMA.TABLES
WHERE TABLE_TYPE = 'BASE TABLE' AND TABLE_SCHEMA = `+s.currentSchema+`
ORDER BY TABLE_NAME`)
	if err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(rows))
	for _, r := range rows {
		tables = append(tables, fieldString(r, "name"))
	}
	return tables, nil
}

func (s infoSchemaStrategy) columns(ctx context.Context, conn dbclient.Conn, schema, table string) ([]domain.ColumnInfo, error) {
	return infoSchemaColumns(ctx, conn, s.currentSchema, schema, table)
}

// infoSchemaColumns looks table up in INFORMATION_SCHEMA.COLUMNS, inside
// schema when given and inside currentSchema otherwise.
func infoSchemaColumns(ctx context.Context, conn dbclient.Conn, currentSchema, schema, table string) ([]domain.ColumnInfo, error) {
	client := conn.Client()
	schemaExpr := currentSchema
	var args []any
	if schema != "" {
		schemaExpr = dbclient.Placeholder(client, 1)
		args = append(args, schema)
	}
	args = append(args, table)

	query := `SELECT COLUMN_NAME AS name, DATA_TYPE AS type, NUMERIC_PRECISION AS prec, IS_NULLABLE AS nullable
FROM INFORMATION_SCHEMA.COLUMNS
WHERE TABLE_SCHEMA = ` + schemaExpr + ` AND TABLE_NAME = ` + dbclient.Placeholder(client, len(args)) + `
ORDER BY ORDINAL_POSITION`

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	cols := make([]domain.ColumnInfo, 0, len(rows))
	for _, r := range rows {
		cols = append(cols, domain.ColumnInfo{
			Name:     fieldString(r, "name"),
			Type:     fieldString(r, "type"),
			Numeric:  !fieldIsNull(r, "prec"),
			Nullable: yes(fieldString(r, "nullable")),
		})
	}
	return cols, nil
}

// oracleStrategy lists the session user's tables; USER is the current schema.
type oracleStrategy struct{}

func (oracleStrategy) listTables(ctx context.Context, conn dbclient.Conn) ([]string, error) {
	rows, err := conn.Query(ctx, `SELECT table_name AS "name" FROM user_tables ORDER BY table_name`)
	if err != nil {
		return nil, err
	}
	tables := make([]string, 0, len(rows))
	for _, r := range rows {
		tables = append(tables, fieldString(r, "name"))
	}
	return tables, nil
}

func (oracleStrategy) columns(ctx context.Context, conn dbclient.Conn, schema, table string) ([]domain.ColumnInfo, error) {
	owner := "USER"
	var args []any
	if schema != "" {
		owner = ":1"
		args = append(args, schema)
	}
	args = append(args, table)

	query := `SELECT column_name AS "name", data_type AS "type", data_precision AS "prec", nullable AS "nullable"
FROM all_tab_columns
WHERE owner = ` + owner + ` AND table_name = ` + dbclient.Placeholder(domain.ClientOracle, len(args)) + `
ORDER BY column_id`

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	cols := make([]domain.ColumnInfo, 0, len(rows))
	for _, r := range rows {
		cols = append(cols, domain.ColumnInfo{
			Name:     fieldString(r, "name"),
			Type:     fieldString(r, "type"),
			Numeric:  !fieldIsNull(r, "prec"),
			Nullable: yes(fieldString(r, "nullable")),
		})
	}
	return cols, nil
}
