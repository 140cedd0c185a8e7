package manage

import "sync"

// Registry maps console session tokens to their managers. A manager is
// created lazily on the first manage-page visit and dropped on logout or
// club deletion — the unmount of the view.
type Registry struct {
	mu       sync.Mutex
	managers map[string]*Manager
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{managers: make(map[string]*Manager)}
}

// Get returns the manager for a session token, if one exists.
func (r *Registry) Get(token string) (*Manager, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.managers[token]
	return m, ok
}

// GetOrCreate returns the manager for a session token, building one with
// the given constructor on first use.
func (r *Registry) GetOrCreate(token string, build func() *Manager) *Manager {
	r.mu.Lock()
	defer r.mu.Unlock()
	if m, ok := r.managers[token]; ok {
		return m
	}
	m := build()
	r.managers[token] = m
	return m
}

// Remove drops the manager for a session token.
// POST: the token has no manager; a later visit builds a fresh one
func (r *Registry) Remove(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.managers, token)
}
