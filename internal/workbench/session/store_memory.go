package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/constants"
)

type memoryEntry struct {
	payload []byte
	expires time.Time
}

// MemoryStore implements Store in process memory. It serves tests and
// single-instance local runs.
type MemoryStore[T any] struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory Store. A non-positive ttl falls back
// to [constants.DefaultSessionTTL].
func NewMemoryStore[T any](ttl time.Duration) *MemoryStore[T] {
	return &MemoryStore[T]{
		entries: make(map[string]memoryEntry),
		ttl:     ttlOrDefault(ttl, constants.DefaultSessionTTL),
		now:     time.Now,
	}
}

func (store *MemoryStore[T]) Create(_ context.Context, id string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session_encode_failed: %w", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.live(id); ok {
		return errSessionExists
	}
	store.entries[id] = memoryEntry{payload: payload, expires: store.now().Add(store.ttl)}
	return nil
}

func (store *MemoryStore[T]) Load(_ context.Context, id string) (T, error) {
	var value T

	store.mu.Lock()
	entry, ok := store.live(id)
	if ok {
		entry.expires = store.now().Add(store.ttl)
		store.entries[id] = entry
	}
	store.mu.Unlock()

	if !ok {
		return value, errSessionNotFound
	}
	if err := json.Unmarshal(entry.payload, &value); err != nil {
		return value, fmt.Errorf("session_decode_failed: %w", err)
	}
	return value, nil
}

func (store *MemoryStore[T]) Save(_ context.Context, id string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session_encode_failed: %w", err)
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.live(id); !ok {
		return errSessionNotFound
	}
	store.entries[id] = memoryEntry{payload: payload, expires: store.now().Add(store.ttl)}
	return nil
}

func (store *MemoryStore[T]) Delete(_ context.Context, id string) error {
	store.mu.Lock()
	delete(store.entries, id)
	store.mu.Unlock()
	return nil
}

// live returns the unexpired entry for id, evicting it if it expired.
// Callers hold mu.
func (store *MemoryStore[T]) live(id string) (memoryEntry, bool) {
	entry, ok := store.entries[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !store.now().Before(entry.expires) {
		delete(store.entries, id)
		return memoryEntry{}, false
	}
	return entry, true
}
