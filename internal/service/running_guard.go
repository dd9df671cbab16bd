package service

import (
	"context"
	"strconv"
	"sync"
)

// ExportedRenderGuard is an exported alias so _test packages can test the guard.
type ExportedRenderGuard = renderGuard

// ─────────────────────────────────────────────────────────────
// renderGuard: one render per chart at a time
// ─────────────────────────────────────────────────────────────

// renderGuard refuses a second concurrent render of the same chart key.
// Re-renders are debounced by the UI, so a collision means a stale request.
type renderGuard struct {
	mu      sync.Mutex
	running map[string]struct{}
	wg      sync.WaitGroup
}

// chartKey identifies a chart by its connection and position in the dashboard.
func chartKey(connection string, index int) string {
	return connection + "#" + strconv.Itoa(index)
}

// TryLock marks key as rendering. Returns false if it already is.
func (g *renderGuard) TryLock(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.running == nil {
		g.running = make(map[string]struct{})
	}
	if _, ok := g.running[key]; ok {
		return false
	}
	g.running[key] = struct{}{}
	g.wg.Add(1)
	return true
}

// Unlock releases key. Must follow a successful TryLock.
func (g *renderGuard) Unlock(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.running, key)
	g.wg.Done()
}

// Running reports how many renders are in flight.
func (g *renderGuard) Running() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.running)
}

// WaitAll blocks until in-flight renders finish or ctx is cancelled.
func (g *renderGuard) WaitAll(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
