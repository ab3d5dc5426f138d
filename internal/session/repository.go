package session

import (
	"sync"

	coreerrors "tagmatrix/internal/errors"
)

// Repository tracks live Sessions keyed by id. GetOrCreate uses
// double-checked locking over a read-mostly RWMutex so concurrent requests
// for distinct, already-existing sessions never contend on a write lock.
type Repository struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	controls Controls
	limits   Limits
}

// NewRepository returns an empty Repository. controls/limits are applied
// to every newly created Session.
func NewRepository(controls Controls, limits Limits) *Repository {
	return &Repository{
		sessions: make(map[string]*Session),
		controls: controls,
		limits:   limits,
	}
}

// GetOrCreate returns the Session for id, creating it if absent.
func (r *Repository) GetOrCreate(id string) *Session {
	r.mu.RLock()
	if s, ok := r.sessions[id]; ok {
		r.mu.RUnlock()
		return s
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s
	}
	s := &Session{ID: id, Tags: New(r.controls, r.limits)}
	r.sessions[id] = s
	return s
}

// Create allocates a new Session with a generated id.
func (r *Repository) Create() *Session {
	s := newSession(r.controls, r.limits)
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Add inserts a pre-built Session, overwriting any existing entry with the
// same id.
func (r *Repository) Add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID] = s
}

// GetByID returns the Session for id, or SessionNotFoundError.
func (r *Repository) GetByID(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	if !ok {
		return nil, &coreerrors.SessionNotFoundError{Resource: "session", ID: id}
	}
	return s, nil
}

// Remove deletes the Session for id, if present.
func (r *Repository) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Exists reports whether a Session for id is currently tracked.
func (r *Repository) Exists(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[id]
	return ok
}

// ListActive returns all tracked session ids, in no particular order.
func (r *Repository) ListActive() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}
