package domain

// Client identifies the SQL client kind a connection profile talks to.
// Values match the on-disk config contract.
type Client string

const (
	ClientPostgres Client = "pg"
	ClientSQLite   Client = "sqlite3"
	ClientMySQL    Client = "mysql"
	ClientOracle   Client = "oracledb"
	ClientMSSQL    Client = "tedious"
)

// Clients lists every supported client kind in display order.
var Clients = []Client{ClientPostgres, ClientSQLite, ClientMySQL, ClientOracle, ClientMSSQL}

// Valid reports whether c is a known client kind.
func (c Client) Valid() bool {
	for _, k := range Clients {
		if c == k {
			return true
		}
	}
	return false
}

// Environment is the deployment label shown next to a connection.
// It is unrelated to the connection URL.
type Environment string

const (
	EnvironmentLocal       Environment = "local"
	EnvironmentTesting     Environment = "testing"
	EnvironmentDevelopment Environment = "development"
	EnvironmentStaging     Environment = "staging"
	EnvironmentProduction  Environment = "production"
)

var Environments = []Environment{
	EnvironmentLocal, EnvironmentTesting, EnvironmentDevelopment, EnvironmentStaging, EnvironmentProduction,
}

func (e Environment) Valid() bool {
	for _, k := range Environments {
		if e == k {
			return true
		}
	}
	return false
}

// ColumnInfo describes one column of an introspected table.
type ColumnInfo struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Numeric  bool   `json:"numeric"` // eligible for sum aggregation
	Nullable bool   `json:"nullable"`
}

// Catalog maps a table identifier (schema.table on Postgres, bare name
// elsewhere) to its ordered columns. A nil Catalog means "could not be
// determined" and is distinct from an empty one.
type Catalog map[string][]ColumnInfo
