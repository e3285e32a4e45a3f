package memory

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type entry[T any] struct {
	value   T
	expires time.Time
}

// Repository is a keyed in-memory store whose entries expire after a TTL.
type Repository[T any] struct {
	entries map[string]entry[T]
	clock   clockwork.Clock
	mu      sync.RWMutex
}

func NewRepository[T any](clock clockwork.Clock) *Repository[T] {
	return &Repository[T]{
		entries: make(map[string]entry[T]),
		clock:   clock,
	}
}

func (r *Repository[T]) Save(key string, value T, ttl time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[key] = entry[T]{value: value, expires: r.clock.Now().Add(ttl)}
}

// Get returns the value stored under key if it has not expired.
func (r *Repository[T]) Get(key string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok || !r.clock.Now().Before(e.expires) {
		var zero T
		return zero, false
	}
	return e.value, true
}

// Purge drops expired entries and returns how many were removed.
func (r *Repository[T]) Purge() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.clock.Now()
	removed := 0
	for k, e := range r.entries {
		if !now.Before(e.expires) {
			delete(r.entries, k)
			removed++
		}
	}
	return removed
}

func (r *Repository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
