package app

import (
	"github.com/sirupsen/logrus"
	"github.com/wailsapp/wails/v2/pkg/logger"
)

// WailsLogger routes the Wails runtime's own logging into logrus.
type WailsLogger struct {
	entry *logrus.Entry
}

var _ logger.Logger = WailsLogger{}

func NewWailsLogger(log *logrus.Logger) WailsLogger {
	return WailsLogger{entry: log.WithField("source", "wails")}
}

func (l WailsLogger) Print(message string)   { l.entry.Print(message) }
func (l WailsLogger) Trace(message string)   { l.entry.Trace(message) }
func (l WailsLogger) Debug(message string)   { l.entry.Debug(message) }
func (l WailsLogger) Info(message string)    { l.entry.Info(message) }
func (l WailsLogger) Warning(message string) { l.entry.Warn(message) }
func (l WailsLogger) Error(message string)   { l.entry.Error(message) }

// Fatal is logged at error level; Wails decides whether to exit.
func (l WailsLogger) Fatal(message string) { l.entry.Error(message) }

// WailsLevel maps the logrus level onto the Wails level names.
func WailsLevel(log *logrus.Logger) logger.LogLevel {
	switch log.GetLevel() {
	case logrus.TraceLevel:
		return logger.TRACE
	case logrus.DebugLevel:
		return logger.DEBUG
	case logrus.InfoLevel:
		return logger.INFO
	case logrus.WarnLevel:
		return logger.WARNING
	default:
		return logger.ERROR
	}
}
