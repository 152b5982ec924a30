// Package keylock provides in-process mutual exclusion scoped to a string
// key. Step ingestion is serialized per user and summary recomputation per
// (user, local date); callers for different keys never contend.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// Mutex is a set of lazily created, reference-counted locks keyed by string.
// The zero value is not usable; call New.
type Mutex struct {
	mu      sync.Mutex
	entries map[string]*entry
}

func New() *Mutex {
	return &Mutex{entries: make(map[string]*entry)}
}

// Lock acquires the lock for key and returns the matching unlock function.
// Entries are removed once the last holder releases, so the map stays bounded
// by the number of in-flight keys.
func (m *Mutex) Lock(key string) (unlock func()) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &entry{}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		m.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(m.entries, key)
		}
		m.mu.Unlock()
	}
}
