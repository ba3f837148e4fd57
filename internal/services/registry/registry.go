package registry

import (
	"sync"

	"github.com/pveiga/digitduel/internal/model"
)

// Registry is the process-wide mapping from session id to live session.
// Its lock guards only the map itself; each session carries its own lock,
// so operations on distinct sessions never contend here beyond the lookup.
type Registry struct {
	mu       sync.RWMutex
	sessions map[model.SessionID]*model.Session
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{
		sessions: make(map[model.SessionID]*model.Session),
	}
}

// Put registers a session under its id. Fails with ErrSessionExists if the
// id is already in use.
func (r *Registry) Put(sess *model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[sess.ID]; ok {
		return model.ErrSessionExists
	}
	r.sessions[sess.ID] = sess
	return nil
}

// Get returns the session with the given id, or ErrSessionNotFound
func (r *Registry) Get(id model.SessionID) (*model.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sess, ok := r.sessions[id]
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	return sess, nil
}

// Delete removes the session with the given id, if present
func (r *Registry) Delete(id model.SessionID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of registered sessions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// All returns a snapshot of the registered sessions. The slice is safe to
// iterate while the registry is concurrently mutated.
func (r *Registry) All() []*model.Session {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Session, 0, len(r.sessions))
	for _, sess := range r.sessions {
		out = append(out, sess)
	}
	return out
}
