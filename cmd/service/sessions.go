// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/linuxfoundation/lfx-v2-inventory-search/internal/domain/port"
	usecase "github.com/linuxfoundation/lfx-v2-inventory-search/internal/service"
)

type navigationKey struct{}

// navigation records the location one request pushed
type navigation struct {
	mu        sync.Mutex
	location  string
	navigated bool
}

func (n *navigation) record(location string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.location = location
	n.navigated = true
}

func (n *navigation) result() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.location, n.navigated
}

// withNavigation returns a context whose router pushes are recorded in the
// returned navigation and nowhere else
func withNavigation(ctx context.Context) (context.Context, *navigation) {
	nav := &navigation{}
	return context.WithValue(ctx, navigationKey{}, nav), nav
}

// sessionRouter stands in for the client's router. A push is reported to
// the request that caused it.
type sessionRouter struct{}

// Navigate implements usecase.Router
func (r *sessionRouter) Navigate(ctx context.Context, location string) error {
	if nav, ok := ctx.Value(navigationKey{}).(*navigation); ok {
		nav.record(location)
	}
	slog.DebugContext(ctx, "session router navigated", "location", location)
	return nil
}

// Session is one client's search
type Session struct {
	ID     string
	Search *usecase.Search
	Nav    *usecase.NavigationSynchronizer

	mu       sync.Mutex
	lastUsed time.Time
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// SessionRegistry holds the live sessions and evicts idle ones
type SessionRegistry struct {
	searcher    port.RecordSearcher
	options     usecase.Options
	idleTimeout time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewSessionRegistry creates a registry whose sessions search with searcher
func NewSessionRegistry(searcher port.RecordSearcher, options usecase.Options, idleTimeout time.Duration) *SessionRegistry {
	return &SessionRegistry{
		searcher:    searcher,
		options:     options,
		idleTimeout: idleTimeout,
		now:         time.Now,
		sessions:    make(map[string]*Session),
	}
}

// Get returns the session called id, creating it when unknown
func (r *SessionRegistry) Get(ctx context.Context, id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if session, ok := r.sessions[id]; ok {
		session.touch(now)
		return session
	}

	search := usecase.NewSearch(r.searcher, r.options)
	session := &Session{
		ID:       id,
		Search:   search,
		Nav:      usecase.NewNavigationSynchronizer(search, &sessionRouter{}),
		lastUsed: now,
	}
	r.sessions[id] = session

	slog.InfoContext(ctx, "search session created", "sessions", len(r.sessions))
	return session
}

// Len returns the number of live sessions
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle drops sessions unused for longer than the idle timeout and
// cancels their pending work. It returns how many were dropped.
func (r *SessionRegistry) EvictIdle(ctx context.Context) int {
	if r.idleTimeout <= 0 {
		return 0
	}

	r.mu.Lock()
	cutoff := r.now().Add(-r.idleTimeout)
	var evicted []*Session
	for id, session := range r.sessions {
		if session.idleSince().Before(cutoff) {
			evicted = append(evicted, session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, session := range evicted {
		session.Search.Cancel()
		slog.DebugContext(ctx, "search session evicted", "session_id", session.ID)
	}
	return len(evicted)
}

// Run evicts idle sessions periodically until ctx is done
func (r *SessionRegistry) Run(ctx context.Context, wg *sync.WaitGroup) {
	if r.idleTimeout <= 0 {
		return
	}

	interval := r.idleTimeout / 2
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				slog.InfoContext(ctx, "stopping session eviction")
				return
			case <-ticker.C:
				if n := r.EvictIdle(ctx); n > 0 {
					slog.InfoContext(ctx, "evicted idle search sessions", "evicted", n, "sessions", r.Len())
				}
			}
		}
	}()
}
