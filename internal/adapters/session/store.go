// Package session keeps each visitor's selector state between renders.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/medalboard/internal/domain/model"
	"github.com/okian/medalboard/pkg/metrics"
)

// CookieName carries the session id between requests.
const CookieName = "medalboard_session"

const (
	defaultTTL           = 30 * time.Minute
	defaultMaxSessions   = 10000
	defaultSweepInterval = time.Minute
)

type entry struct {
	sel     model.Selection
	touched time.Time
}

// Store holds selections keyed by session id. Safe for concurrent use.
type Store struct {
	ttl           time.Duration
	maxSessions   int
	sweepInterval time.Duration
	now           func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		ttl:           defaultTTL,
		maxSessions:   defaultMaxSessions,
		sweepInterval: defaultSweepInterval,
		now:           time.Now,
		sessions:      make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// New starts an empty session and returns its id.
func (s *Store) New() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.insertLocked(id, model.Selection{})
	s.mu.Unlock()
	metrics.RecordSessionCreated()
	return id
}

// Get returns the selection for id. ok is false for unknown or expired ids.
func (s *Store) Get(id string) (model.Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.sessions[id]
	if !ok {
		return model.Selection{}, false
	}
	now := s.now()
	if now.Sub(e.touched) > s.ttl {
		delete(s.sessions, id)
		metrics.RecordSessionsExpired(1)
		metrics.UpdateSessionsActive(len(s.sessions))
		return model.Selection{}, false
	}
	e.touched = now
	return e.sel, true
}

// Save stores sel under id, creating the session if needed.
func (s *Store) Save(id string, sel model.Selection) error {
	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("session.save: %w: %w", ErrInvalidID, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		e.sel = sel
		e.touched = s.now()
		return nil
	}
	s.insertLocked(id, sel)
	return nil
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) insertLocked(id string, sel model.Selection) {
	if len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}
	s.sessions[id] = &entry{sel: sel, touched: s.now()}
	metrics.UpdateSessionsActive(len(s.sessions))
}

func (s *Store) evictOldestLocked() {
	var oldest string
	var at time.Time
	for id, e := range s.sessions {
		if oldest == "" || e.touched.Before(at) {
			oldest, at = id, e.touched
		}
	}
	if oldest != "" {
		delete(s.sessions, oldest)
		metrics.RecordSessionEvicted()
	}
}

// Sweep removes expired sessions and returns how many it removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, e := range s.sessions {
		if now.Sub(e.touched) > s.ttl {
			delete(s.sessions, id)
			n++
		}
	}
	if n > 0 {
		metrics.RecordSessionsExpired(n)
	}
	metrics.UpdateSessionsActive(len(s.sessions))
	return n
}

// Start runs the janitor until ctx is cancelled or Stop is called.
func (s *Store) Start(ctx context.Context) {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	go s.janitor(ctx, s.done)
}

// Stop halts the janitor and waits for it to exit.
func (s *Store) Stop() {
	s.runMu.Lock()
	defer s.runMu.Unlock()
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel, s.done = nil, nil
}

func (s *Store) janitor(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
