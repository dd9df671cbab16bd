package config

import (
	"fmt"
	"strings"

	"spyglass/internal/domain"
)

// FieldError is one validation problem, addressed by a JSON path such as
// connections[0].charts[2].method.x.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (e FieldError) Error() string { return e.Path + ": " + e.Message }

type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks everything the file format cannot express on its own.
func Validate(cfg *domain.Config) ValidationErrors {
	var errs ValidationErrors
	add := func(path, format string, args ...any) {
		errs = append(errs, FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	switch cfg.Theme {
	case domain.ThemeSystem, domain.ThemeLight, domain.ThemeDark:
	default:
		add("theme", "must be one of system, light, dark")
	}

	seen := make(map[string]int)
	for i, c := range cfg.Connections {
		p := fmt.Sprintf("connections[%d]", i)

		if strings.TrimSpace(c.Name) == "" {
			add(p+".name", "is required")
		} else if j, dup := seen[c.Name]; dup {
			add(p+".name", "duplicates connections[%d]", j)
		} else {
			seen[c.Name] = i
		}
		if !c.Environment.Valid() {
			add(p+".environment", "unknown environment %q", c.Environment)
		}
		if !c.Client.Valid() {
			add(p+".client", "unknown client %q", c.Client)
		}
		if c.Port != nil && (*c.Port < 1 || *c.Port > 65535) {
			add(p+".port", "must be between 1 and 65535")
		}
		if c.Client == domain.ClientSQLite {
			if c.Database == "" && c.Host == "" {
				add(p+".database", "sqlite3 needs a database file")
			}
		} else if c.Client.Valid() && c.Host == "" {
			add(p+".host", "is required")
		}

		for j, ch := range c.Charts {
			validateChart(fmt.Sprintf("%s.charts[%d]", p, j), &ch, add)
		}
	}
	return errs
}

func validateChart(p string, c *domain.Chart, add func(path, format string, args ...any)) {
	if !c.Style.Valid() {
		add(p+".style", "must be one of bar, line, pie")
	}
	if c.Pos.Width < 0 || c.Pos.Height < 0 {
		add(p+".pos", "width and height must not be negative")
	}
	if c.Table == nil {
		if m, ok := c.Method.(domain.ColumnMethod); !ok || m.X != nil || m.Y != nil {
			add(p+".method", "must be an empty column method when table is null")
		}
	}
	for k, j := range c.Joins {
		jp := fmt.Sprintf("%s.joins[%d]", p, k)
		if j.Table == "" {
			add(jp+".table", "is required")
		}
		if j.BaseColumn == "" || j.ForeignColumn == "" {
			add(jp, "baseColumn and foreignColumn are required")
		}
	}
	if m, ok := c.Method.(domain.CustomMethod); ok && strings.TrimSpace(m.Fn) == "" {
		add(p+".method.fn", "is empty")
	}
}
