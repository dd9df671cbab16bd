package app

import (
	wailsRuntime "github.com/wailsapp/wails/v2/pkg/runtime"

	"spyglass/internal/domain"
)

// ============================================================
// Connections
// ============================================================

// TestConnection probes profile with a throwaway handle and returns the
// round-trip latency in milliseconds, or null when it cannot connect. An
// empty password falls back to the one stored on the profile.
func (a *App) TestConnection(profile domain.ConnectionProfile, password string) *float64 {
	if password == "" && profile.Password != nil {
		password = *profile.Password
	}
	return a.core.Tester.Test(a.ctx, &profile, password)
}

// SetActiveConnection switches the active connection. -1 clears it. A null
// password uses the stored or session password.
func (a *App) SetActiveConnection(index int, password *string) error {
	return a.core.Connections.SetActive(a.ctx, index, password)
}

// GetTables returns the active connection's tables and columns, or null when
// introspection fails.
func (a *App) GetTables() (domain.Catalog, error) {
	return a.core.Connections.Tables(a.ctx)
}

// PickDatabaseFile opens a native file picker for selecting a sqlite file.
func (a *App) PickDatabaseFile() (string, error) {
	path, err := wailsRuntime.OpenFileDialog(a.ctx, wailsRuntime.OpenDialogOptions{
		Title: "Select Database File",
		Filters: []wailsRuntime.FileFilter{
			{DisplayName: "Database Files", Pattern: "*.db;*.sqlite;*.sqlite3;*.s3db"},
			{DisplayName: "All Files", Pattern: "*.*"},
		},
	})
	return path, err
}
