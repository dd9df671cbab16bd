package app

import (
	"context"
	"time"

	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"spyglass/internal/domain"
	"spyglass/internal/service"

	"github.com/sirupsen/logrus"
)

// App is the main Wails application struct.
// All exported methods are available as Wails bindings.
type App struct {
	ctx        context.Context
	log        *logrus.Logger
	configPath string

	core *Services
	stop context.CancelFunc
}

// New creates a new App. configPath may be empty to use the default lookup.
func New(log *logrus.Logger, configPath string) *App {
	return &App{log: log, configPath: configPath}
}

// wailsEmitter forwards service events to the frontend.
type wailsEmitter struct {
	ctx context.Context
}

// Emit ignores the caller's context: Wails needs the one handed to Startup.
func (e wailsEmitter) Emit(_ context.Context, event string, data any) {
	wailsRuntime.EventsEmit(e.ctx, event, data)
}

// Startup is called when the app starts.
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx
	a.core = NewServices(a.log, a.configPath, wailsEmitter{ctx: ctx})

	watchCtx, stop := context.WithCancel(ctx)
	a.stop = stop
	err := a.core.Config.Watch(watchCtx, func(cfg *domain.Config) {
		wailsRuntime.EventsEmit(ctx, service.EventConfigChanged, cfg)
	})
	if err != nil {
		a.log.WithError(err).Warn("Config watcher disabled")
	}
}

// Shutdown is called when the app is closing.
func (a *App) Shutdown(ctx context.Context) {
	if a.stop != nil {
		a.stop()
	}
	if a.core == nil {
		return
	}
	waitCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	a.core.Charts.WaitRendering(waitCtx)
	a.core.Close()
}

// ============================================================
// Frontend logging
// ============================================================

func (a *App) frontendLog() *logrus.Entry {
	return a.log.WithField("source", "frontend")
}

func (a *App) LogInfo(message string)  { a.frontendLog().Info(message) }
func (a *App) LogWarn(message string)  { a.frontendLog().Warn(message) }
func (a *App) LogError(message string) { a.frontendLog().Error(message) }
func (a *App) LogDebug(message string) { a.frontendLog().Debug(message) }
