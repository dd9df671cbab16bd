package service

import "errors"

var (
	// ErrNoActiveConnection is returned by anything that needs the live
	// handle while none is set.
	ErrNoActiveConnection = errors.New("no active connection")

	// ErrNotFound means the connection index does not exist in the config.
	ErrNotFound = errors.New("connection not found")

	// ErrMissingCredential means no explicit, stored or session password exists.
	ErrMissingCredential = errors.New("password required")

	// ErrChartBusy means the same chart is already rendering.
	ErrChartBusy = errors.New("chart is already rendering")
)
