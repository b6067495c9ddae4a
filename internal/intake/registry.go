package intake

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrUnknownSession = errors.New("unknown session")

// Registry holds live sessions by id and runs one step per session at a time.
type Registry struct {
	workflow *Workflow
	ttl      time.Duration

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry(workflow *Workflow, ttl time.Duration) *Registry {
	return &Registry{
		workflow: workflow,
		ttl:      ttl,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session under a generated id.
func (r *Registry) Create() *Session {
	s := r.workflow.NewSession()
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Bind returns the session stored under key, starting one if needed. Chat
// transports use it with their own user keys.
func (r *Registry) Bind(key string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[key]; ok {
		return s, false
	}
	s := r.workflow.NewSession()
	r.sessions[key] = s
	return s, true
}

// Reset replaces the session under key with a fresh one.
func (r *Registry) Reset(key string) *Session {
	s := r.workflow.NewSession()
	r.mu.Lock()
	r.sessions[key] = s
	r.mu.Unlock()
	return s
}

// Do runs fn with exclusive access to the session under key.
func (r *Registry) Do(key string, fn func(*Session) error) error {
	r.mu.RLock()
	s, ok := r.sessions[key]
	r.mu.RUnlock()
	if !ok {
		return ErrUnknownSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.LastActivity = r.workflow.now()
	return fn(s)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Cleanup drops sessions idle longer than the ttl and returns how many went.
func (r *Registry) Cleanup() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.workflow.now().Add(-r.ttl)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for key, s := range r.sessions {
		if !s.mu.TryLock() {
			continue
		}
		idle := s.LastActivity.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(r.sessions, key)
			removed++
		}
	}
	return removed
}

// StartCleanup runs Cleanup every interval until ctx is done.
func (r *Registry) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := r.Cleanup(); n > 0 {
					zap.S().Named("intake").Infof("evicted %d idle sessions", n)
				}
			}
		}
	}()
}
