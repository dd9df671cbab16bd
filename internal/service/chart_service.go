package service

import (
	"context"
	"fmt"

	"spyglass/internal/chart"
	"spyglass/internal/domain"

	"github.com/sirupsen/logrus"
)

// ChartDiagnosticEvent is the payload of EventChartDiagnostic.
type ChartDiagnosticEvent struct {
	ChartIndex int `json:"chartIndex"`
	chart.Diagnostic
}

// ChartService renders charts against the active connection.
type ChartService struct {
	log      *logrus.Logger
	conns    *ConnectionService
	pipeline *chart.Pipeline
	emitter  EventEmitter
	guard    renderGuard
}

func NewChartService(log *logrus.Logger, conns *ConnectionService, pipeline *chart.Pipeline, emitter EventEmitter) *ChartService {
	return &ChartService{log: log, conns: conns, pipeline: pipeline, emitter: emitter}
}

// Render fetches the chart's rows and projects them. A chart without a table
// renders an empty series without touching the database. Transform
// diagnostics are emitted as events and never fail the render.
func (s *ChartService) Render(ctx context.Context, chartIndex int, c domain.Chart) (domain.ChartSeries, error) {
	c.Normalize()
	empty := domain.ChartSeries{Points: []domain.Datapoint{}, Axis: domain.AxisCategory}
	if c.Table == nil {
		return empty, nil
	}

	var series domain.ChartSeries
	err := s.conns.WithSession(ctx, func(sess *Session) error {
		key := chartKey(sess.Profile.Name, chartIndex)
		if !s.guard.TryLock(key) {
			return fmt.Errorf("%s: %w", key, ErrChartBusy)
		}
		defer s.guard.Unlock(key)

		log := s.log.WithFields(logrus.Fields{"chart": key, "method": c.Method.Type()})

		rows, err := chart.FetchRows(ctx, sess.Conn, &c)
		if err != nil {
			log.WithError(err).Warn("Chart query failed")
			return err
		}

		report := func(d chart.Diagnostic) {
			log.WithField("kind", d.Kind).Debug(d.Message)
			s.emitter.Emit(ctx, EventChartDiagnostic, ChartDiagnosticEvent{ChartIndex: chartIndex, Diagnostic: d})
		}
		series = s.pipeline.Render(ctx, rows, c.Method, report)
		log.WithField("points", len(series.Points)).Debug("Chart rendered")
		return nil
	})
	if err != nil {
		return empty, err
	}
	return series, nil
}

// WaitRendering blocks until in-flight renders finish or ctx is cancelled.
// Used for graceful shutdown.
func (s *ChartService) WaitRendering(ctx context.Context) {
	s.guard.WaitAll(ctx)
}
