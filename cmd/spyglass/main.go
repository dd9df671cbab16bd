package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"spyglass/internal/app"
	"spyglass/internal/logging"
	"spyglass/internal/service"
)

// Version info (set by ldflags)
var version = "dev"

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
	password   string
	envFile    string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Error already printed by cobra
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:   "spyglass",
		Short: "SpyglassSQL connection and chart engine",
		Long: `spyglass runs the SpyglassSQL engine without the desktop shell.

  spyglass test <connection>               Probe a connection and print its latency
  spyglass tables <connection>             Print the tables and columns of a connection
  spyglass chart <connection> <index>      Print the datapoints of a saved chart
  spyglass mcp                             Serve the engine over MCP on stdio`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "", "config file path (default $SPYGLASS_CONFIG or ./spyglass.json)")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (default $SPYGLASS_LOG_LEVEL or info)")
	rootCmd.PersistentFlags().StringVar(&g.password, "password", "", "password for connections without a stored one")
	rootCmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "environment file loaded before anything else")

	rootCmd.AddCommand(
		newTestCmd(&g),
		newTablesCmd(&g),
		newChartCmd(&g),
		newMCPCmd(&g),
	)
	return rootCmd
}

// logger builds the process logger once the flags are parsed.
func (g *globalFlags) logger() *logrus.Logger {
	// Logger exists before .env is read, so re-apply the level afterwards
	log := logging.Setup(g.logLevel)
	if logging.LoadEnv(g.envFile, log) && g.logLevel == "" {
		log = logging.Setup("")
	}
	return log
}

// passwordOrNil maps the unset flag to "use stored or session password".
func (g *globalFlags) passwordOrNil() *string {
	if g.password == "" {
		return nil
	}
	pw := g.password
	return &pw
}

// logEmitter reports service events through the logger. The CLI has no
// frontend to deliver them to.
type logEmitter struct {
	log *logrus.Logger
}

func (e logEmitter) Emit(_ context.Context, event string, data any) {
	entry := e.log.WithField("event", event)
	if d, ok := data.(service.ChartDiagnosticEvent); ok {
		entry.WithFields(logrus.Fields{"chart": d.ChartIndex, "kind": d.Kind}).Warn(d.Message)
		return
	}
	entry.Debug("Event")
}

// openNamed builds the services and activates the connection called name.
func (g *globalFlags) openNamed(ctx context.Context, name string) (*app.Services, int, error) {
	log := g.logger()
	core := app.NewServices(log, g.configPath, logEmitter{log: log})

	index, ok := core.ProfileByName(name)
	if !ok {
		core.Close()
		return nil, 0, fmt.Errorf("connection %q: %w", name, service.ErrNotFound)
	}
	if err := core.Connections.SetActive(ctx, index, g.passwordOrNil()); err != nil {
		core.Close()
		return nil, 0, err
	}
	return core, index, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
