package chart

import (
	"math"
	"strings"
	"time"

	"spyglass/internal/domain"
)

// minEpochMillis separates millisecond timestamps (from 1973 on) from ids,
// counts and years.
const minEpochMillis = 1e11

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ClassifyAxis reports whether the series should be drawn on a time axis. Only
// the first point is inspected; the result is never cached.
func ClassifyAxis(points []domain.Datapoint) domain.AxisKind {
	if len(points) == 0 {
		return domain.AxisCategory
	}
	if isTemporal(points[0].X) {
		return domain.AxisTime
	}
	return domain.AxisCategory
}

func isTemporal(x any) bool {
	switch v := x.(type) {
	case time.Time:
		return !v.IsZero()
	case string:
		return isDateString(v)
	case nil, bool:
		return false
	default:
		f := toNumber(v)
		return !math.IsNaN(f) && !math.IsInf(f, 0) && f >= minEpochMillis
	}
}

func isDateString(s string) bool {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
