package schema

import (
	"fmt"
	"strings"

	"spyglass/internal/dbclient"
)

// field finds key in row ignoring case. Drivers disagree on whether
// catalog column aliases come back upper or lower case.
func field(row dbclient.Row, key string) (any, bool) {
	if v, ok := row[key]; ok {
		return v, true
	}
	for k, v := range row {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func fieldString(row dbclient.Row, key string) string {
	v, ok := field(row, key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func fieldIsNull(row dbclient.Row, key string) bool {
	v, ok := field(row, key)
	return !ok || v == nil
}

func yes(s string) bool {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "YES", "Y", "1", "TRUE":
		return true
	}
	return false
}
