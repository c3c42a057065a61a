package registry

import (
	"slices"
	"sync"
)

// Tracker is an in-memory set of storage keys seen during this process.
// It is independent of the repository lifecycle and never persisted.
type Tracker struct {
	mu   sync.RWMutex
	keys map[string]struct{}
}

func NewTracker() *Tracker {
	return &Tracker{keys: make(map[string]struct{})}
}

func (t *Tracker) Track(storageKey string) {
	if storageKey == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keys[storageKey] = struct{}{}
}

func (t *Tracker) Has(storageKey string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.keys[storageKey]
	return ok
}

// Keys returns the tracked storage keys sorted.
func (t *Tracker) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	keys := make([]string, 0, len(t.keys))
	for k := range t.keys {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func (t *Tracker) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.keys = make(map[string]struct{})
}
