package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"jyokai/internal/levels"
	"jyokai/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrNotFound    = errors.New("session not found")
	ErrStoreClosed = errors.New("session store closed")
)

type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	cfg      levels.Config
	ttl      time.Duration
	log      zerolog.Logger
	closed   bool
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore keeps sessions in memory and drops the ones idle for longer than
// ttl, checking every sweep interval.
func NewStore(cfg levels.Config, ttl, sweep time.Duration, log zerolog.Logger) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		ttl:      ttl,
		log:      log,
		stop:     make(chan struct{}),
	}
	go s.sweepStale(sweep)
	return s
}

func (s *Store) Create() (*Session, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return nil, fmt.Errorf("generating session id: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrStoreClosed
	}
	sess := New(id.String(), s.cfg, s.log)
	s.sessions[sess.ID] = sess
	n := len(s.sessions)
	s.mu.Unlock()

	metrics.SessionsCreated.Inc()
	metrics.ActiveSessions.Set(float64(n))
	s.log.Info().Str("session", sess.ID).Msg("session created")
	return sess, nil
}

func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[id]
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	delete(s.sessions, id)
	n := len(s.sessions)
	s.mu.Unlock()

	if ok {
		sess.Close()
		metrics.ActiveSessions.Set(float64(n))
	}
}

func (s *Store) List() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess)
	}
	return list
}

// Sweep closes sessions idle since before now minus the TTL and reports
// how many it removed.
func (s *Store) Sweep(now time.Time) int {
	var stale []*Session
	s.mu.Lock()
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen()) > s.ttl {
			stale = append(stale, sess)
			delete(s.sessions, id)
		}
	}
	n := len(s.sessions)
	s.mu.Unlock()

	for _, sess := range stale {
		sess.Close()
	}
	if len(stale) > 0 {
		metrics.ActiveSessions.Set(float64(n))
		s.log.Info().Int("removed", len(stale)).Msg("swept stale sessions")
	}
	return len(stale)
}

func (s *Store) sweepStale(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case now := <-ticker.C:
			s.Sweep(now)
		}
	}
}

// Close stops the sweeper and closes every session.
func (s *Store) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
	})

	s.mu.Lock()
	s.closed = true
	all := s.sessions
	s.sessions = make(map[string]*Session)
	s.mu.Unlock()

	for _, sess := range all {
		sess.Close()
	}
	metrics.ActiveSessions.Set(0)
}
