package domain

import (
	"encoding/json"
	"math"
)

// Datapoint is one plotted {x, y} pair. Only the chart pipeline produces them.
type Datapoint struct {
	X any `json:"x"`
	Y any `json:"y"`
}

// MarshalJSON writes non-finite floats as null, which is what the chart
// renderer expects for a poisoned aggregate.
func (d Datapoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		X any `json:"x"`
		Y any `json:"y"`
	}{X: finiteOrNil(d.X), Y: finiteOrNil(d.Y)})
}

func finiteOrNil(v any) any {
	switch f := v.(type) {
	case float64:
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return nil
		}
	}
	return v
}

type AxisKind string

const (
	AxisCategory AxisKind = "category"
	AxisTime     AxisKind = "time"
)

// ChartSeries is what a chart render returns to the dashboard.
type ChartSeries struct {
	Points []Datapoint `json:"points"`
	Axis   AxisKind    `json:"axis"`
}
