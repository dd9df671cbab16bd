package dbclient

import (
	"context"
	"time"

	"spyglass/internal/domain"

	"github.com/sirupsen/logrus"
)

// OpenFunc builds a handle for a profile; NewConn is the default.
type OpenFunc func(profile *domain.ConnectionProfile, password string) (Conn, error)

// Tester checks that a profile can reach its database.
type Tester struct {
	log      *logrus.Logger
	registry *Registry
	open     OpenFunc
}

func NewTester(log *logrus.Logger, registry *Registry) *Tester {
	return &Tester{log: log, registry: registry, open: NewConn}
}

// WithOpen returns a copy of t that builds handles with open.
func (t *Tester) WithOpen(open OpenFunc) *Tester {
	c := *t
	c.open = open
	return &c
}

// Test returns the probe round trip in milliseconds, or nil when the
// profile cannot be used for any reason. It never fails otherwise.
func (t *Tester) Test(ctx context.Context, profile *domain.ConnectionProfile, password string) *float64 {
	log := t.log.WithFields(logrus.Fields{"connection": profile.Name, "client": profile.Client})

	if err := t.registry.EnsureInstalled(ctx, profile.Client); err != nil {
		log.WithError(err).Warn("Continuing without driver install")
	}

	conn, err := t.open(profile, password)
	if err != nil {
		log.WithError(err).Warn("Connection test failed")
		return nil
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.WithError(err).Debug("Close test handle")
		}
	}()

	start := time.Now()
	if err := conn.Probe(ctx); err != nil {
		log.WithError(err).Warn("Connection test failed")
		return nil
	}
	ms := float64(time.Since(start).Microseconds()) / 1000
	log.WithField("latency_ms", ms).Info("Connection test succeeded")
	return &ms
}
