// Package session tracks viewer sessions of the HTTP API.
//
// A session owns one [props.Materializer], so its memo cache lives exactly as
// long as the viewer that fills it. Sessions expire after a period without
// use; [Store.Get] refreshes the deadline and [Store.Sweep] drops expired
// sessions.
//
// # Usage
//
//	store := session.NewStore(session.DefaultTTL)
//	sess := store.Create(props.NewMaterializer(entities, index, opts))
//
//	sess, err := store.Get(id)
//	if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrExpired) {
//	    // start a new session
//	}
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/ifctree/pkg/props"
)

// Sentinel errors for session operations.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session not found")

	// ErrExpired is returned when a session has exceeded its TTL.
	ErrExpired = errors.New("session expired")
)

// DefaultTTL is the default idle timeout.
const DefaultTTL = 30 * time.Minute

// Session is one viewer's materialization state.
type Session struct {
	ID           string
	Materializer *props.Materializer
	CreatedAt    time.Time

	mu       sync.Mutex
	lastSeen time.Time
}

// LastSeen returns the time of the last access.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) expired(now time.Time, ttl time.Duration) bool {
	return ttl > 0 && now.Sub(s.LastSeen()) > ttl
}

// Store holds sessions in memory. It is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewStore creates a store whose sessions expire after ttl without use.
// A ttl of zero disables expiry.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// TTL returns the idle timeout.
func (s *Store) TTL() time.Duration { return s.ttl }

// Create registers a new session around m.
func (s *Store) Create(m *props.Materializer) *Session {
	now := s.now()
	sess := &Session{
		ID:           uuid.NewString(),
		Materializer: m,
		CreatedAt:    now,
		lastSeen:     now,
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session and marks it as used. An expired session is removed
// and reported as ErrExpired.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := s.now()
	if sess.expired(now, s.ttl) {
		delete(s.sessions, id)
		return nil, ErrExpired
	}
	sess.touch(now)
	return sess, nil
}

// Delete removes a session. Deleting an unknown session returns ErrNotFound.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, sess := range s.sessions {
		if sess.expired(now, s.ttl) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of live sessions, expired ones included until swept.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run sweeps every interval until ctx is done. The optional onSweep callback
// receives the number of sessions removed by each sweep.
func (s *Store) Run(ctx context.Context, interval time.Duration, onSweep func(int)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n := s.Sweep()
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}
