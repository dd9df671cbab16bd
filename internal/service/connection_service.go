package service

import (
	"context"
	"fmt"
	"sync"

	"spyglass/internal/dbclient"
	"spyglass/internal/domain"
	"spyglass/internal/schema"
	"spyglass/internal/secret"

	"github.com/sirupsen/logrus"
)

// NoConnection is the index that clears the active connection.
const NoConnection = -1

// ProfileSource resolves configured connections by index. *config.Store
// implements it.
type ProfileSource interface {
	Profile(index int) (*domain.ConnectionProfile, bool)
}

// ─────────────────────────────────────────────────────────────
// Session
// ─────────────────────────────────────────────────────────────

// Session is the active connection. It is created by SetActive and retired
// by the next SetActive; nothing else closes Conn.
type Session struct {
	Index   int
	Profile domain.ConnectionProfile
	Conn    dbclient.Conn

	mu      sync.Mutex
	catalog domain.Catalog
}

// Catalog introspects once per session and caches the result. Failures are
// not cached so a later call can retry.
func (s *Session) Catalog(ctx context.Context) (domain.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog != nil {
		return s.catalog, nil
	}
	in, err := schema.New(s.Conn)
	if err != nil {
		return nil, err
	}
	catalog, err := in.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	s.catalog = catalog
	return catalog, nil
}

// ─────────────────────────────────────────────────────────────
// ConnectionService
// ─────────────────────────────────────────────────────────────

// ConnectionService holds at most one live connection. Swaps take the write
// lock and readers hold the read lock for the length of their work, so a
// request never runs on a handle that is being retired.
type ConnectionService struct {
	log      *logrus.Logger
	profiles ProfileSource
	registry *dbclient.Registry
	secrets  secret.SecretStore
	emitter  EventEmitter
	open     dbclient.OpenFunc

	mu      sync.RWMutex
	session *Session
}

func NewConnectionService(
	log *logrus.Logger,
	profiles ProfileSource,
	registry *dbclient.Registry,
	secrets secret.SecretStore,
	emitter EventEmitter,
) *ConnectionService {
	return &ConnectionService{
		log:      log,
		profiles: profiles,
		registry: registry,
		secrets:  secrets,
		emitter:  emitter,
		open:     dbclient.NewConn,
	}
}

// SetOpen replaces the handle constructor. Used by tests.
func (s *ConnectionService) SetOpen(open dbclient.OpenFunc) {
	s.open = open
}

// SetActive makes the connection at index the active one, closing the
// previous handle first. NoConnection clears it. A nil password falls back
// to the stored one, then to the one cached earlier in this session.
func (s *ConnectionService) SetActive(ctx context.Context, index int, password *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index == NoConnection {
		s.retireLocked()
		s.emitter.Emit(ctx, EventConnectionChanged, map[string]int{"index": NoConnection})
		return nil
	}

	profile, ok := s.profiles.Profile(index)
	if !ok {
		return fmt.Errorf("connection %d: %w", index, ErrNotFound)
	}
	log := s.log.WithFields(logrus.Fields{"connection": profile.Name, "client": profile.Client})

	pw, err := s.resolvePassword(profile, password)
	if err != nil {
		return fmt.Errorf("connection %q: %w", profile.Name, err)
	}

	if err := s.registry.EnsureInstalled(ctx, profile.Client); err != nil {
		log.WithError(err).Warn("Continuing without driver install")
	}
	conn, err := s.open(profile, pw)
	if err != nil {
		return fmt.Errorf("connect %q: %w", profile.Name, err)
	}

	s.retireLocked()
	s.session = &Session{Index: index, Profile: *profile, Conn: conn}
	log.Info("Active connection set")
	s.emitter.Emit(ctx, EventConnectionChanged, map[string]int{"index": index})
	return nil
}

// resolvePassword picks explicit > stored > session-cached. sqlite3 has no
// credentials and never needs one.
func (s *ConnectionService) resolvePassword(p *domain.ConnectionProfile, explicit *string) (string, error) {
	key := secret.SessionKey(p.Name)
	if explicit != nil {
		if err := s.secrets.Set(key, []byte(*explicit)); err != nil {
			s.log.WithError(err).Warn("Could not cache session password")
		}
		return *explicit, nil
	}
	if p.Password != nil {
		return *p.Password, nil
	}
	cached, err := s.secrets.Get(key)
	if err != nil {
		return "", fmt.Errorf("read session password: %w", err)
	}
	if len(cached) > 0 {
		return string(cached), nil
	}
	if p.Client == domain.ClientSQLite {
		return "", nil
	}
	return "", ErrMissingCredential
}

func (s *ConnectionService) retireLocked() {
	if s.session == nil {
		return
	}
	if err := s.session.Conn.Close(); err != nil {
		s.log.WithError(err).WithField("connection", s.session.Profile.Name).Warn("Close connection")
	}
	s.session = nil
}

// Active returns the index of the active connection.
func (s *ConnectionService) Active() (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return NoConnection, false
	}
	return s.session.Index, true
}

// WithSession runs fn against the active session, holding off any swap until
// fn returns.
func (s *ConnectionService) WithSession(ctx context.Context, fn func(*Session) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return ErrNoActiveConnection
	}
	return fn(s.session)
}

// Tables returns the active connection's catalog. Introspection failures
// collapse to a nil catalog with a nil error; only a missing connection is
// reported as an error.
func (s *ConnectionService) Tables(ctx context.Context) (domain.Catalog, error) {
	var catalog domain.Catalog
	err := s.WithSession(ctx, func(sess *Session) error {
		c, err := sess.Catalog(ctx)
		if err != nil {
			s.log.WithError(err).WithField("connection", sess.Profile.Name).Warn("Introspection failed")
			return nil
		}
		catalog = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return catalog, nil
}

// Close retires the active connection. Called on shutdown.
func (s *ConnectionService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retireLocked()
}
