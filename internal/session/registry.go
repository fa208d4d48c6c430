package session

import "sync"

// Registry keeps one Session per trainee. Sessions live in memory only;
// restarting the process or calling Reset starts over from defaults.
type Registry struct {
	deps Deps

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewRegistry returns an empty Registry whose sessions share deps.
func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, sessions: make(map[string]*Session)}
}

// Get returns the trainee's session, creating it on first use.
func (r *Registry) Get(traineeID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[traineeID]
	if !ok {
		s = New(traineeID, r.deps)
		r.sessions[traineeID] = s
	}
	return s
}

// Reset replaces the trainee's session with a fresh one.
func (r *Registry) Reset(traineeID string) *Session {
	s := New(traineeID, r.deps)
	r.mu.Lock()
	r.sessions[traineeID] = s
	r.mu.Unlock()
	r.deps.Logger.Info().Str("traineeId", traineeID).Msg("[session] Session reset")
	return s
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
