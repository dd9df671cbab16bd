package dbclient

import (
	"spyglass/internal/domain"

	go_ora "github.com/sijms/go-ora/v2"
)

// buildOracleDSN constructs an oracle:// URL. Database is the service name.
func buildOracleDSN(p *domain.ConnectionProfile, password string) string {
	return go_ora.BuildUrl(p.Host, p.PortOr(DefaultPort(p.Client)), p.Database, p.Username, password,
		map[string]string{"PROGRAM": AppName})
}
