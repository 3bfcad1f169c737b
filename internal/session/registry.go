package session

import (
	"sync"
	"sync/atomic"
)

// Registry tracks every live session and owns the id allocator, so
// session ids stay process-lifetime unique without global state.
type Registry struct {
	nextID   atomic.Int64
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[int64]*Session)}
}

// Add creates a Session for the transport under a fresh id.
func (r *Registry) Add(nickname string, t Transport) *Session {
	s := New(r.nextID.Add(1), nickname, t)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Remove forgets a session after its connection lifecycle has ended.
func (r *Registry) Remove(s *Session) {
	r.mu.Lock()
	delete(r.sessions, s.ID)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// CloseAll shuts down every live session, used on server shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.sessions {
		s.Close()
	}
}
