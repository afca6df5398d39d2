// Package registry is the CEL engine's backend fan-out point: a
// name-to-callback map that can be registered and unregistered
// concurrently with iteration, and that isolates one callback's failure
// from its siblings.
package registry

import (
	"fmt"
	"log"
	"sync"

	"github.com/halvard/celd/internal/record"
)

// Callback is invoked once per emitted event, for every registered
// backend.
type Callback func(record.Record)

// Registry is a concurrency-safe name-to-Callback map.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Callback
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{backends: make(map[string]Callback)}
}

// Register adds or replaces the backend named name. An empty name is
// rejected (spec.md §4.2).
func (r *Registry) Register(name string, cb Callback) error {
	if name == "" {
		return fmt.Errorf("backend name must not be empty")
	}
	if cb == nil {
		return fmt.Errorf("backend %q: callback must not be nil", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.backends[name] = cb
	return nil
}

// Unregister removes the named backend. It is an error to unregister a
// name that was never registered.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.backends[name]; !ok {
		return fmt.Errorf("backend %q is not registered", name)
	}
	delete(r.backends, name)
	return nil
}

// ForEach invokes every registered backend's callback with rec. Iteration
// order is unspecified. A callback that panics is isolated — recovered,
// logged, and does not prevent the remaining backends from being
// invoked (spec.md §4.2, §7 "Backend fault").
func (r *Registry) ForEach(rec record.Record) {
	r.mu.RLock()
	snapshot := make(map[string]Callback, len(r.backends))
	for name, cb := range r.backends {
		snapshot[name] = cb
	}
	r.mu.RUnlock()

	for name, cb := range snapshot {
		invokeSafely(name, cb, rec)
	}
}

func invokeSafely(name string, cb Callback, rec record.Record) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("cel: backend %q panicked while handling event: %v", name, r)
		}
	}()
	cb(rec)
}

// Names returns the currently registered backend names, in no particular
// order. Engine.BackendNames exposes it.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	return names
}
