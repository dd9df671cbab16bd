package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ConnectionProfile holds everything needed to reach one database, plus the
// charts laid out on its dashboard. Name is the unique key.
//
// Password is only present when the user opted in to saving it; otherwise it
// must be supplied at connect time and lives in memory for the session.
type ConnectionProfile struct {
	Name        string      `json:"name"`
	Environment Environment `json:"environment"`
	Client      Client      `json:"client"`
	Host        string      `json:"host"`
	Port        *int        `json:"port,omitempty"`
	Database    string      `json:"database"`
	Username    string      `json:"username"`
	Password    *string     `json:"password,omitempty"`
	Charts      []Chart     `json:"charts"`
}

// HasStoredPassword reports whether a password was persisted with the profile.
func (p *ConnectionProfile) HasStoredPassword() bool {
	return p.Password != nil
}

// PortOr returns the configured port or def when none is set.
func (p *ConnectionProfile) PortOr(def int) int {
	if p.Port == nil || *p.Port == 0 {
		return def
	}
	return *p.Port
}

// UnmarshalJSON accepts the port as a number, a numeric string, or an empty
// string (treated as absent), the way the connection form submits it.
func (p *ConnectionProfile) UnmarshalJSON(data []byte) error {
	type plain ConnectionProfile
	aux := struct {
		*plain
		Port json.RawMessage `json:"port,omitempty"`
	}{plain: (*plain)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	port, err := parsePort(aux.Port)
	if err != nil {
		return fmt.Errorf("connection %q: %w", p.Name, err)
	}
	p.Port = port
	return nil
}

func parsePort(raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("port: %w", err)
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("port %q is not numeric", s)
		}
		return &n, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	return &n, nil
}

// Theme is the UI colour scheme preference.
type Theme string

const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// Config is the whole on-disk configuration document.
type Config struct {
	Theme       Theme               `json:"theme"`
	Connections []ConnectionProfile `json:"connections"`
}

// DefaultConfig returns the configuration used when no file can be loaded.
func DefaultConfig() *Config {
	return &Config{Theme: ThemeSystem, Connections: []ConnectionProfile{}}
}

// ApplyDefaults fills in the fields the file format allows to be omitted.
func (c *Config) ApplyDefaults() {
	if c.Theme == "" {
		c.Theme = ThemeSystem
	}
	if c.Connections == nil {
		c.Connections = []ConnectionProfile{}
	}
	for i := range c.Connections {
		if c.Connections[i].Charts == nil {
			c.Connections[i].Charts = []Chart{}
		}
		for j := range c.Connections[i].Charts {
			c.Connections[i].Charts[j].Normalize()
		}
	}
}
