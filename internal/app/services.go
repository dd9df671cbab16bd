package app

import (
	"spyglass/internal/chart"
	"spyglass/internal/config"
	"spyglass/internal/dbclient"
	"spyglass/internal/secret"
	"spyglass/internal/service"

	"github.com/sirupsen/logrus"
)

// Services is the core wired together once per process. The desktop app,
// the CLI and the MCP server all run on the same set.
type Services struct {
	Log         *logrus.Logger
	Config      *config.Store
	Registry    *dbclient.Registry
	Tester      *dbclient.Tester
	Connections *service.ConnectionService
	Charts      *service.ChartService
}

// NewServices loads the config at configPath and builds the services on top
// of it. Events go to emitter.
func NewServices(log *logrus.Logger, configPath string, emitter service.EventEmitter) *Services {
	store := config.NewStore(log, config.ResolvePath(configPath))
	store.Load()

	registry := dbclient.NewRegistry(log)
	conns := service.NewConnectionService(log, store, registry, secret.NewMemoryStore(), emitter)

	return &Services{
		Log:         log,
		Config:      store,
		Registry:    registry,
		Tester:      dbclient.NewTester(log, registry),
		Connections: conns,
		Charts:      service.NewChartService(log, conns, chart.NewPipeline(nil), emitter),
	}
}

// ProfileByName finds a connection by its unique name.
func (s *Services) ProfileByName(name string) (int, bool) {
	for i, p := range s.Config.Get().Connections {
		if p.Name == name {
			return i, true
		}
	}
	return service.NoConnection, false
}

// Close retires the active connection.
func (s *Services) Close() {
	s.Connections.Close()
}
