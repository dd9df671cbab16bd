package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"spyglass/internal/domain"
)

// sqlConn is the shared database/sql implementation for every client kind.
type sqlConn struct {
	client domain.Client
	db     *sql.DB
}

// newSQLConn opens a pool for client. sql.Open only validates the DSN shape.
func newSQLConn(client domain.Client, dsn string) (*sqlConn, error) {
	name, ok := DriverName(client)
	if !ok {
		return nil, fmt.Errorf("unsupported client: %q", client)
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	// Sensible pool settings for a desktop app
	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(10 * time.Minute)

	return &sqlConn{client: client, db: db}, nil
}

// FromDB wraps an already-open pool. Used for tests and embedding.
func FromDB(client domain.Client, db *sql.DB) Conn {
	return &sqlConn{client: client, db: db}
}

func (c *sqlConn) Client() domain.Client { return c.client }

func (c *sqlConn) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rows, err := c.db.QueryContext(ctx, ProbeQuery(c.client))
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
	}
	return rows.Err()
}

func (c *sqlConn) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("columns: %w", err)
	}

	result := []Row{}
	for rows.Next() {
		// Create scan targets
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for j := range values {
			ptrs[j] = &values[j]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}

		row := make(Row, len(cols))
		for j, col := range cols {
			row[col] = formatValue(values[j])
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate: %w", err)
	}
	return result, nil
}

// formatValue converts a driver value to something JSON can carry.
func formatValue(v any) any {
	if v == nil {
		return nil
	}
	switch val := v.(type) {
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return val
	}
}

func (c *sqlConn) Close() error {
	return c.db.Close()
}
