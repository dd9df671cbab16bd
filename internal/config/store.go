// Package config loads, validates and saves spyglass.json.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"spyglass/internal/domain"

	"github.com/sirupsen/logrus"
)

// FileName is the config file looked up in the working directory.
const FileName = "spyglass.json"

// EnvPath overrides the config location when no flag is given.
const EnvPath = "SPYGLASS_CONFIG"

// ResolvePath picks the config file: explicit flag, then $SPYGLASS_CONFIG,
// then ./spyglass.json.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	return FileName
}

// Store holds the current configuration and persists it. The held config is
// replaced wholesale on Load and Save; callers must not mutate what Get returns.
type Store struct {
	log  *logrus.Logger
	path string

	mu          sync.RWMutex
	cfg         *domain.Config
	lastWritten []byte
}

func NewStore(log *logrus.Logger, path string) *Store {
	return &Store{log: log, path: path, cfg: domain.DefaultConfig()}
}

func (s *Store) Path() string { return s.path }

// Load reads the file. A missing or invalid file leaves the defaults in
// place with a warning; it is never fatal.
func (s *Store) Load() *domain.Config {
	cfg, err := s.read()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.log.WithField("path", s.path).Info("No config file, using defaults")
		} else {
			s.log.WithError(err).WithField("path", s.path).Warn("Config unreadable, using defaults")
		}
		cfg = domain.DefaultConfig()
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	return cfg
}

func (s *Store) read() (*domain.Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// Decode parses a config document and applies defaults.
func Decode(data []byte) (*domain.Config, error) {
	cfg := domain.DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Encode writes cfg in the on-disk layout.
func Encode(cfg *domain.Config) ([]byte, error) {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return append(data, '\n'), nil
}

// Get returns the current configuration.
func (s *Store) Get() *domain.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

// Profile returns the connection at index, if any.
func (s *Store) Profile(index int) (*domain.ConnectionProfile, bool) {
	cfg := s.Get()
	if index < 0 || index >= len(cfg.Connections) {
		return nil, false
	}
	p := cfg.Connections[index]
	return &p, true
}

// Save validates cfg and writes it. On validation failure nothing is written
// and the problems are returned; err is only set for I/O failures.
func (s *Store) Save(cfg *domain.Config) (ValidationErrors, error) {
	cfg.ApplyDefaults()
	if problems := Validate(cfg); len(problems) > 0 {
		return problems, nil
	}

	data, err := Encode(cfg)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create config dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	// Passwords may be stored, keep the file private
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return nil, fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return nil, fmt.Errorf("replace config: %w", err)
	}

	s.cfg = cfg
	s.lastWritten = data
	s.log.WithField("path", s.path).WithField("connections", len(cfg.Connections)).Info("Config saved")
	return nil, nil
}

// isOwnWrite reports whether data is exactly what Save last wrote.
func (s *Store) isOwnWrite(data []byte) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastWritten != nil && bytes.Equal(s.lastWritten, data)
}
