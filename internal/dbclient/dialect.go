package dbclient

import (
	"strconv"
	"strings"

	"spyglass/internal/domain"

	"github.com/lib/pq"
)

// ProbeQuery returns the side-effect-free identity statement for client.
func ProbeQuery(client domain.Client) string {
	switch client {
	case domain.ClientPostgres:
		return "SELECT current_user"
	case domain.ClientMySQL:
		return "SELECT CURRENT_USER()"
	case domain.ClientMSSQL:
		return "SELECT SUSER_SNAME()"
	case domain.ClientOracle:
		return "SELECT USER FROM DUAL"
	default:
		return "SELECT 1"
	}
}

// Placeholder returns the n-th (1-based) bind parameter marker for client.
func Placeholder(client domain.Client, n int) string {
	switch client {
	case domain.ClientPostgres:
		return "$" + strconv.Itoa(n)
	case domain.ClientMSSQL:
		return "@p" + strconv.Itoa(n)
	case domain.ClientOracle:
		return ":" + strconv.Itoa(n)
	default:
		return "?"
	}
}

// QuoteIdent quotes a possibly dotted identifier segment by segment, so
// sales.orders becomes "sales"."orders" on Postgres.
func QuoteIdent(client domain.Client, ident string) string {
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		parts[i] = quoteSegment(client, p)
	}
	return strings.Join(parts, ".")
}

func quoteSegment(client domain.Client, s string) string {
	switch client {
	case domain.ClientPostgres:
		return pq.QuoteIdentifier(s)
	case domain.ClientMySQL:
		return "`" + strings.ReplaceAll(s, "`", "``") + "`"
	case domain.ClientMSSQL:
		return "[" + strings.ReplaceAll(s, "]", "]]") + "]"
	default:
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
}
