package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"spyglass/internal/domain"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler receives the reloaded config after an external edit.
type ChangeHandler func(cfg *domain.Config)

const watchDebounce = 300 * time.Millisecond

// Watch reloads the store whenever the file is changed by someone else and
// calls onChange with the new config. It stops when ctx is done.
func (s *Store) Watch(ctx context.Context, onChange ChangeHandler) error {
	absPath, err := filepath.Abs(s.path)
	if err != nil {
		return fmt.Errorf("config path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory: editors replace files by rename
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	go s.watchLoop(ctx, watcher, absPath, onChange)
	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, absPath string, onChange ChangeHandler) {
	defer watcher.Close()

	var (
		mu    sync.Mutex
		timer *time.Timer
	)
	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if p, _ := filepath.Abs(event.Name); p != absPath {
				continue
			}
			mu.Lock()
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() { s.reload(ctx, onChange) })
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.WithError(err).Warn("Config watcher error")
		}
	}
}

func (s *Store) reload(ctx context.Context, onChange ChangeHandler) {
	if ctx.Err() != nil {
		return
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.log.WithError(err).Debug("Config vanished during reload")
		return
	}
	if s.isOwnWrite(data) {
		return
	}
	cfg, err := Decode(data)
	if err != nil {
		s.log.WithError(err).Warn("Ignoring invalid config edit")
		return
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()

	s.log.WithField("path", s.path).Info("Config reloaded from disk")
	if onChange != nil {
		onChange(cfg)
	}
}
