package chat

import (
	"sync"

	"github.com/google/uuid"
)

// Registry tracks live sessions by id. Each session owns its own state;
// the registry lock only guards the map.
type Registry struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[uuid.UUID]*Session),
	}
}

func (r *Registry) Create() *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	session := NewSession(uuid.New())
	r.sessions[session.ID()] = session
	return session
}

func (r *Registry) Get(id uuid.UUID) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[id]
	return session, exists
}

func (r *Registry) Remove(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
