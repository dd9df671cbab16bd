package dbclient

import (
	"net"
	"net/url"
	"strconv"

	"spyglass/internal/domain"
)

// buildPostgresDSN constructs a Postgres URL from a profile.
func buildPostgresDSN(p *domain.ConnectionProfile, password string) string {
	q := url.Values{}
	q.Set("sslmode", "disable")
	q.Set("application_name", AppName)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.Username, password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.PortOr(DefaultPort(p.Client)))),
		Path:     "/" + p.Database,
		RawQuery: q.Encode(),
	}
	return u.String()
}
