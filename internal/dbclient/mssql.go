package dbclient

import (
	"net"
	"net/url"
	"strconv"

	"spyglass/internal/domain"
)

// buildMSSQLDSN constructs a sqlserver:// URL from a profile.
func buildMSSQLDSN(p *domain.ConnectionProfile, password string) string {
	q := url.Values{}
	q.Set("database", p.Database)
	q.Set("app name", AppName)

	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(p.Username, password),
		Host:     net.JoinHostPort(p.Host, strconv.Itoa(p.PortOr(DefaultPort(p.Client)))),
		RawQuery: q.Encode(),
	}
	return u.String()
}
