package dbclient

import (
	"context"
	"fmt"

	"spyglass/internal/domain"
)

// AppName tags every server-side session opened by SpyglassSQL.
const AppName = "SpyglassSQL"

// Row is one fetched row keyed by column name. Values are normalized for
// JSON: []byte becomes string and time.Time becomes RFC3339 text.
type Row map[string]any

// Conn abstracts a live handle to one external database.
type Conn interface {
	// Client is the dialect this handle speaks.
	Client() domain.Client

	// Probe runs the dialect's identity query. It has no side effects and
	// succeeds for any authenticated session.
	Probe(ctx context.Context) error

	// Query runs a read statement and returns every row.
	Query(ctx context.Context, query string, args ...any) ([]Row, error)

	// Close releases the handle and its pool.
	Close() error
}

// DefaultPort returns the well-known port for a networked client, 0 otherwise.
func DefaultPort(client domain.Client) int {
	switch client {
	case domain.ClientPostgres:
		return 5432
	case domain.ClientMySQL:
		return 3306
	case domain.ClientMSSQL:
		return 1433
	case domain.ClientOracle:
		return 1521
	default:
		return 0
	}
}

// DSN returns the data source name NewConn opens for a profile.
func DSN(profile *domain.ConnectionProfile, password string) (string, error) {
	switch profile.Client {
	case domain.ClientSQLite:
		return buildSQLiteDSN(profile), nil
	case domain.ClientMySQL:
		return buildMySQLDSN(profile, password), nil
	case domain.ClientPostgres:
		return buildPostgresDSN(profile, password), nil
	case domain.ClientMSSQL:
		return buildMSSQLDSN(profile, password), nil
	case domain.ClientOracle:
		return buildOracleDSN(profile, password), nil
	default:
		return "", fmt.Errorf("unsupported client: %q", profile.Client)
	}
}

// NewConn builds a handle for the given profile. Nothing is dialed here:
// bad credentials or an unreachable host only show up once the handle is used.
// The password is passed separately since profiles may not carry one.
func NewConn(profile *domain.ConnectionProfile, password string) (Conn, error) {
	dsn, err := DSN(profile, password)
	if err != nil {
		return nil, err
	}
	c, err := newSQLConn(profile.Client, dsn)
	if err != nil {
		return nil, err
	}
	if profile.Client == domain.ClientSQLite && isMemoryPath(sqlitePath(profile)) {
		// Every :memory: connection is its own database
		c.db.SetMaxOpenConns(1)
	}
	return c, nil
}
