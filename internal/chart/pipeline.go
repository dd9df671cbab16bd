package chart

import (
	"context"
	"errors"
	"fmt"

	"spyglass/internal/dbclient"
	"spyglass/internal/domain"
	"spyglass/internal/sandbox"
)

// Transformer runs custom transform source over rows. *sandbox.Runner is
// the production implementation.
type Transformer interface {
	// RunArray returns *sandbox.NotArrayError when the result is not an array.
	RunArray(ctx context.Context, src string, rows []map[string]any) ([]any, error)
}

// Pipeline projects fetched rows into datapoints.
type Pipeline struct {
	transformer Transformer
}

func NewPipeline(t Transformer) *Pipeline {
	if t == nil {
		t = sandbox.New()
	}
	return &Pipeline{transformer: t}
}

// Project maps rows to datapoints by method. It never fails: an incomplete
// selection yields no points, and transform faults go to report and yield
// no points.
func (p *Pipeline) Project(ctx context.Context, rows []dbclient.Row, method domain.Method, report ReportFunc) []domain.Datapoint {
	switch m := method.(type) {
	case domain.ColumnMethod:
		return projectColumns(rows, m)
	case domain.CountMethod:
		return projectCount(rows, m)
	case domain.SumMethod:
		return projectSum(rows, m)
	case domain.CustomMethod:
		return p.projectCustom(ctx, rows, m, report)
	default:
		return []domain.Datapoint{}
	}
}

// Render projects rows and classifies the axis of the result.
func (p *Pipeline) Render(ctx context.Context, rows []dbclient.Row, method domain.Method, report ReportFunc) domain.ChartSeries {
	points := p.Project(ctx, rows, method, report)
	return domain.ChartSeries{Points: points, Axis: ClassifyAxis(points)}
}

// ── Built-in methods ────────────────────────────────────────

func projectColumns(rows []dbclient.Row, m domain.ColumnMethod) []domain.Datapoint {
	points := []domain.Datapoint{}
	if m.X == nil || m.Y == nil {
		return points
	}
	for _, r := range rows {
		points = append(points, domain.Datapoint{X: r[*m.X], Y: r[*m.Y]})
	}
	return points
}

// group accumulates one distinct x value. Groups are kept in first-seen order.
type group struct {
	label any
	count int
	sum   float64
}

type groups struct {
	index map[string]int
	list  []*group
}

func (g *groups) get(v any) *group {
	// %T keeps 1 and "1" apart
	key := fmt.Sprintf("%T:%v", v, v)
	if i, ok := g.index[key]; ok {
		return g.list[i]
	}
	if g.index == nil {
		g.index = make(map[string]int)
	}
	grp := &group{label: v}
	g.index[key] = len(g.list)
	g.list = append(g.list, grp)
	return grp
}

func projectCount(rows []dbclient.Row, m domain.CountMethod) []domain.Datapoint {
	points := []domain.Datapoint{}
	if m.X == nil {
		return points
	}
	var gs groups
	for _, r := range rows {
		gs.get(r[*m.X]).count++
	}
	for _, g := range gs.list {
		points = append(points, domain.Datapoint{X: g.label, Y: g.count})
	}
	return points
}

// projectSum adds Number()-coerced y values per group. A single NaN makes the
// whole group NaN.
func projectSum(rows []dbclient.Row, m domain.SumMethod) []domain.Datapoint {
	points := []domain.Datapoint{}
	if m.X == nil || m.Y == nil {
		return points
	}
	var gs groups
	for _, r := range rows {
		gs.get(r[*m.X]).sum += toNumber(r[*m.Y])
	}
	for _, g := range gs.list {
		points = append(points, domain.Datapoint{X: g.label, Y: g.sum})
	}
	return points
}

// ── Custom transform ────────────────────────────────────────

func (p *Pipeline) projectCustom(ctx context.Context, rows []dbclient.Row, m domain.CustomMethod, report ReportFunc) []domain.Datapoint {
	points := []domain.Datapoint{}

	input := make([]map[string]any, len(rows))
	for i, r := range rows {
		input[i] = r
	}

	items, err := p.transformer.RunArray(ctx, m.Fn, input)
	if err != nil {
		var notArray *sandbox.NotArrayError
		if errors.As(err, &notArray) {
			report.report(NotAnArray, err.Error())
		} else {
			report.report(ExecutionError, err.Error())
		}
		return points
	}

	if len(items) > 0 {
		if first, ok := asObject(items[0]); !ok || !hasKey(first, "x") || !hasKey(first, "y") {
			report.report(ShapeWarning, "first element should be an object with x and y keys")
		}
	}

	for _, it := range items {
		obj, _ := asObject(it)
		points = append(points, domain.Datapoint{X: obj["x"], Y: obj["y"]})
	}
	return points
}

func asObject(v any) (map[string]any, bool) {
	switch o := v.(type) {
	case map[string]any:
		return o, true
	case dbclient.Row:
		return o, true
	default:
		return nil, false
	}
}

func hasKey(m map[string]any, k string) bool {
	_, ok := m[k]
	return ok
}
