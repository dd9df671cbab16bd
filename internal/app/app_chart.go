package app

import (
	"spyglass/internal/config"
	"spyglass/internal/domain"
)

// ============================================================
// Charts & config
// ============================================================

// GetChartData renders chart, the chartIndex-th chart of the active
// connection. Custom transform problems arrive as chart:diagnostic events.
func (a *App) GetChartData(chartIndex int, chart domain.Chart) (domain.ChartSeries, error) {
	return a.core.Charts.Render(a.ctx, chartIndex, chart)
}

// GetConfig returns the loaded config.
func (a *App) GetConfig() *domain.Config {
	return a.core.Config.Get()
}

// SaveConfig validates and writes cfg. Validation problems come back as a
// list and leave the file untouched.
func (a *App) SaveConfig(cfg domain.Config) (config.ValidationErrors, error) {
	problems, err := a.core.Config.Save(&cfg)
	if err != nil {
		return nil, err
	}
	if problems == nil {
		problems = config.ValidationErrors{}
	}
	return problems, nil
}
