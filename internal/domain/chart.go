package domain

import (
	"encoding/json"
	"fmt"
)

type ChartStyle string

const (
	ChartStyleBar  ChartStyle = "bar"
	ChartStyleLine ChartStyle = "line"
	ChartStylePie  ChartStyle = "pie"
)

func (s ChartStyle) Valid() bool {
	return s == ChartStyleBar || s == ChartStyleLine || s == ChartStylePie
}

// Position places a chart on the dashboard grid.
type Position struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Join is an inner join of Table on BaseColumn = ForeignColumn.
type Join struct {
	Table         string `json:"table"`
	BaseColumn    string `json:"baseColumn"`
	ForeignColumn string `json:"foreignColumn"`
}

// Chart is one dashboard widget: where its rows come from and how they are
// turned into datapoints. A nil Table means the chart is not configured yet.
type Chart struct {
	Pos        Position   `json:"pos"`
	Title      string     `json:"title"`
	Subtitle   *string    `json:"subtitle,omitempty"`
	Table      *string    `json:"table"`
	XTitle     string     `json:"xTitle"`
	YTitle     string     `json:"yTitle"`
	Method     Method     `json:"-"`
	Style      ChartStyle `json:"style"`
	Joins      []Join     `json:"joins,omitempty"`
	Where      *string    `json:"where,omitempty"`
	XFormatter *string    `json:"xFormatter,omitempty"`
	YFormatter *string    `json:"yFormatter,omitempty"`
}

// SetTable changes the chart's source table. Clearing it resets the method to
// the default column shape with no x/y selection.
func (c *Chart) SetTable(table *string) {
	c.Table = table
	if table == nil {
		c.Method = DefaultMethod()
	}
}

// Normalize restores the invariants a decoded chart may violate.
func (c *Chart) Normalize() {
	if c.Table == nil || c.Method == nil {
		c.Method = DefaultMethod()
	}
	if c.Style == "" {
		c.Style = ChartStyleBar
	}
}

type chartJSON Chart

func (c Chart) MarshalJSON() ([]byte, error) {
	method, err := MarshalMethod(c.Method)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		chartJSON
		Method json.RawMessage `json:"method"`
	}{chartJSON: chartJSON(c), Method: method})
}

func (c *Chart) UnmarshalJSON(data []byte) error {
	aux := struct {
		*chartJSON
		Method json.RawMessage `json:"method"`
	}{chartJSON: (*chartJSON)(c)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if len(aux.Method) == 0 || string(aux.Method) == "null" {
		c.Method = DefaultMethod()
		return nil
	}
	m, err := UnmarshalMethod(aux.Method)
	if err != nil {
		return fmt.Errorf("chart %q: %w", c.Title, err)
	}
	c.Method = m
	return nil
}
