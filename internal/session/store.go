// Package session keeps the per-browser-session state of the admin screens.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/njpv/shop-admin/internal/notify"
	"github.com/njpv/shop-admin/internal/service"
)

// Session is one authenticated browser session. Email is the session flag set on login.
type Session struct {
	ID        string
	Email     string
	CreatedAt time.Time
	Toasts    *notify.Queue
	Catalog   *service.CatalogScreen

	lastSeen time.Time
}

// CatalogFactory builds the catalog screen of a new session
type CatalogFactory func(notifier notify.Notifier) *service.CatalogScreen

// Store holds live sessions in memory and evicts them after an idle period
type Store struct {
	mu         sync.Mutex
	sessions   map[string]*Session
	idle       time.Duration
	newCatalog CatalogFactory
	now        func() time.Time
}

// NewStore creates an empty store
func NewStore(idle time.Duration, newCatalog CatalogFactory) *Store {
	return &Store{
		sessions:   make(map[string]*Session),
		idle:       idle,
		newCatalog: newCatalog,
		now:        time.Now,
	}
}

// Create starts a session for email
func (s *Store) Create(email string) *Session {
	now := s.now()
	toasts := &notify.Queue{}
	sess := &Session{
		ID:        uuid.NewString(),
		Email:     email,
		CreatedAt: now,
		Toasts:    toasts,
		Catalog:   s.newCatalog(toasts),
		lastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns a live session and marks it as used
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// Delete ends a session
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of sessions held, expired ones included until swept
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts idle sessions and returns how many were removed
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps every interval until ctx is done
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration, onSweep func(removed int)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return s.idle > 0 && now.Sub(sess.lastSeen) > s.idle
}
