package dbclient

import (
	"net"
	"strconv"

	"spyglass/internal/domain"

	"github.com/go-sql-driver/mysql"
)

// buildMySQLDSN constructs a MySQL DSN from a profile.
func buildMySQLDSN(p *domain.ConnectionProfile, password string) string {
	cfg := mysql.NewConfig()
	cfg.User = p.Username
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(p.Host, strconv.Itoa(p.PortOr(DefaultPort(p.Client))))
	cfg.DBName = p.Database
	cfg.ParseTime = true
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	// Shows up in performance_schema.session_connect_attrs
	cfg.ConnectionAttributes = "program_name:" + AppName
	return cfg.FormatDSN()
}
