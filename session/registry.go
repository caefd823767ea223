package session

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Registry hosts multiple concurrent sessions keyed by id. The
// contractual operations only ever use Default(); a dispatcher that wants
// per-client simulations can allocate sessions here instead without
// touching anything else.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	log      zerolog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		log:      zerolog.Nop(),
	}
}

// WithLogger attaches a logger used for the registry and every session it
// creates afterwards.
func (r *Registry) WithLogger(log zerolog.Logger) *Registry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = log
	return r
}

// Create allocates a fresh session and returns its id.
func (r *Registry) Create() (string, *Session) {
	id := uuid.New().String()
	s := New().WithLogger(r.log)

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.log.Debug().Str("session", id).Msg("session created")
	return id, s
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

// Delete removes a session from the registry.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Len returns the number of hosted sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
