package settings

import (
	"sort"
	"sync"
)

// Store is the per-view settings capability exposed by the host.
//
// Listeners are named: attaching under an existing name replaces the prior
// listener, and detaching an unknown name is a no-op. Implementations must
// allow a listener to detach itself (or others) from inside its callback.
type Store interface {
	// Get returns the value stored under key, or def when absent.
	Get(key string, def any) any

	// Set stores value under key and notifies change listeners.
	Set(key string, value any)

	// AddOnChange attaches fn as the change listener registered under name.
	AddOnChange(name string, fn func())

	// ClearOnChange detaches the change listener registered under name.
	ClearOnChange(name string)
}

// MemoryStore is an in-process Store implementation.
// The zero value is not usable; use NewMemoryStore.
type MemoryStore struct {
	mu sync.RWMutex

	// values holds the live settings.
	values map[string]any

	// listeners holds named change listeners.
	listeners map[string]func()
}

// NewMemoryStore creates an empty in-process settings store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		values:    make(map[string]any),
		listeners: make(map[string]func()),
	}
}

// NewMemoryStoreWith creates a store seeded with initial values.
func NewMemoryStoreWith(values map[string]any) *MemoryStore {
	s := NewMemoryStore()
	for k, v := range values {
		s.values[k] = v
	}
	return s
}

// Get returns the value stored under key, or def when absent.
func (s *MemoryStore) Get(key string, def any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if v, ok := s.values[key]; ok {
		return v
	}
	return def
}

// Has reports whether key is present.
func (s *MemoryStore) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.values[key]
	return ok
}

// Set stores value under key and notifies all change listeners.
func (s *MemoryStore) Set(key string, value any) {
	s.mu.Lock()
	s.values[key] = value
	fns := s.snapshotListeners()
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Erase removes key and notifies all change listeners if it was present.
func (s *MemoryStore) Erase(key string) {
	s.mu.Lock()
	_, ok := s.values[key]
	delete(s.values, key)
	var fns []func()
	if ok {
		fns = s.snapshotListeners()
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Keys returns all present keys in sorted order.
func (s *MemoryStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AddOnChange attaches fn under name, replacing any prior listener of the
// same name.
func (s *MemoryStore) AddOnChange(name string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.listeners[name] = fn
}

// ClearOnChange detaches the listener registered under name.
func (s *MemoryStore) ClearOnChange(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.listeners, name)
}

// snapshotListeners copies the listener set so callbacks run without the
// lock held and may detach themselves. Callers must hold mu.
func (s *MemoryStore) snapshotListeners() []func() {
	fns := make([]func(), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	return fns
}
