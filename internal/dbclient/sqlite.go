package dbclient

import (
	"strings"

	"spyglass/internal/domain"
)

// sqlitePath returns the database file for a sqlite3 profile. The file path
// lives in Database; older configs put it in Host.
func sqlitePath(p *domain.ConnectionProfile) string {
	if p.Database != "" {
		return p.Database
	}
	return p.Host
}

func isMemoryPath(path string) bool {
	return path == ":memory:" || strings.HasPrefix(path, "file::memory:") || strings.Contains(path, "mode=memory")
}

// buildSQLiteDSN opens an external SQLite file with a busy timeout.
func buildSQLiteDSN(p *domain.ConnectionProfile) string {
	path := sqlitePath(p)
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)"
}
