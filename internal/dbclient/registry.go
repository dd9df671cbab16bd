package dbclient

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"slices"
	"sync"

	"spyglass/internal/domain"

	mssql "github.com/denisenkom/go-mssqldb"
	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	go_ora "github.com/sijms/go-ora/v2"
	"github.com/sirupsen/logrus"
	"modernc.org/sqlite"
)

var driverNames = map[domain.Client]string{
	domain.ClientPostgres: "postgres",
	domain.ClientMySQL:    "mysql",
	domain.ClientSQLite:   "sqlite",
	domain.ClientMSSQL:    "sqlserver",
	domain.ClientOracle:   "oracle",
}

// DriverName maps a client kind to its database/sql driver name.
func DriverName(client domain.Client) (string, bool) {
	name, ok := driverNames[client]
	return name, ok
}

// InstallError reports that a driver could not be provisioned. It is not
// fatal: the connection attempt that follows fails on its own.
type InstallError struct {
	Client domain.Client
	Err    error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("install driver for %s: %v", e.Client, e.Err)
}

func (e *InstallError) Unwrap() error { return e.Err }

// Installer provisions a database/sql driver under the given name.
type Installer interface {
	Install(driverName string) error
}

// builtinInstaller registers the compiled-in driver values. Registration
// lasts for the process and nothing is persisted.
type builtinInstaller struct{}

var builtinDrivers = map[string]func() driver.Driver{
	"postgres":  func() driver.Driver { return &pq.Driver{} },
	"mysql":     func() driver.Driver { return &mysql.MySQLDriver{} },
	"sqlite":    func() driver.Driver { return &sqlite.Driver{} },
	"sqlserver": func() driver.Driver { return &mssql.Driver{} },
	"oracle":    func() driver.Driver { return &go_ora.OracleDriver{} },
}

func (builtinInstaller) Install(name string) (err error) {
	newDriver, ok := builtinDrivers[name]
	if !ok {
		return fmt.Errorf("no driver available for %q", name)
	}
	// sql.Register panics on duplicates
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("register %s: %v", name, r)
		}
	}()
	sql.Register(name, newDriver())
	return nil
}

// Registry makes sure the driver for a client kind is registered before a
// handle is built. Every driver this package compiles in registers itself
// from its init on import, so the installer only runs when a build leaves
// one out. Safe for concurrent use.
type Registry struct {
	log       *logrus.Logger
	lookup    func() []string
	installer Installer

	mu        sync.Mutex
	installed map[string]bool
}

// NewRegistry returns a Registry backed by sql.Drivers and the compiled-in drivers.
func NewRegistry(log *logrus.Logger) *Registry {
	return NewRegistryWith(log, sql.Drivers, builtinInstaller{})
}

// NewRegistryWith lets callers replace the driver lookup and the installer.
func NewRegistryWith(log *logrus.Logger, lookup func() []string, installer Installer) *Registry {
	return &Registry{
		log:       log,
		lookup:    lookup,
		installer: installer,
		installed: make(map[string]bool),
	}
}

// EnsureInstalled is a no-op when the driver for client is already known,
// and never asks the installer twice for a driver it provided.
func (r *Registry) EnsureInstalled(ctx context.Context, client domain.Client) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name, ok := DriverName(client)
	if !ok {
		return &InstallError{Client: client, Err: fmt.Errorf("unsupported client")}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.installed[name] {
		return nil
	}
	if slices.Contains(r.lookup(), name) {
		r.installed[name] = true
		return nil
	}

	r.log.WithField("driver", name).Info("Installing database driver")
	if err := r.installer.Install(name); err != nil {
		ierr := &InstallError{Client: client, Err: err}
		r.log.WithError(err).WithField("driver", name).Warn("Driver install failed")
		return ierr
	}
	r.installed[name] = true
	return nil
}
