package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	mcpserver "spyglass/internal/mcp"
	"spyglass/internal/service"

	"github.com/sirupsen/logrus"
)

// ServeMCP runs the core as a standalone MCP server on stdin/stdout with no
// GUI. It returns when stdin closes or the process is interrupted.
func ServeMCP(log *logrus.Logger, configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	core := NewServices(log, configPath, service.NopEmitter{})
	defer core.Close()

	srv := mcpserver.New(mcpserver.Deps{
		Log:         log,
		Config:      core.Config,
		Connections: core.Connections,
		Charts:      core.Charts,
	})

	log.Info("Starting standalone MCP stdio server")
	return srv.ServeStdio(ctx)
}
