package broadcast

import "sync"

// Registry is the concurrency-safe set of active subscribers. The
// listener adds on accept and removes on disconnect while the broadcast
// loop iterates; List returns a point-in-time copy so membership changes
// during a fan-out never affect that fan-out.
type Registry struct {
	mu   sync.RWMutex
	subs map[string]*Subscriber
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{subs: make(map[string]*Subscriber)}
}

// Add registers a subscriber.
func (r *Registry) Add(s *Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[s.ID] = s
}

// Remove unregisters a subscriber by ID and reports whether it was
// present. Removing an absent ID is a no-op, so the listener's handler
// and a failed send can both try without coordination.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.subs[id]; !ok {
		return false
	}
	delete(r.subs, id)
	return true
}

// List returns a snapshot of the current membership. No ordering is
// defined.
func (r *Registry) List() []*Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Subscriber, 0, len(r.subs))
	for _, s := range r.subs {
		out = append(out, s)
	}
	return out
}

// Len returns the current membership count.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// CloseAll closes every registered subscriber and empties the registry.
// Used at shutdown; individual close errors are returned to the caller
// for logging but do not stop the sweep.
func (r *Registry) CloseAll() []error {
	r.mu.Lock()
	subs := make([]*Subscriber, 0, len(r.subs))
	for _, s := range r.subs {
		subs = append(subs, s)
	}
	r.subs = make(map[string]*Subscriber)
	r.mu.Unlock()

	var errs []error
	for _, s := range subs {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
