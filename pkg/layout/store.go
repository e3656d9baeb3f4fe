package layout

import (
	"context"
	"encoding/json"
	"sync"
)

// Store persists per-algorithm layout state across frames and sessions.
// Keys are algorithm names, optionally scoped by a document ID (see
// [Runner]). State values are opaque JSON produced by ExportState.
//
// Lifecycle, from the algorithm's point of view: created on first access
// (a miss constructs defaults), read and written every step, replaced
// wholesale on save, discarded on Clear or Reset.
type Store interface {
	// Load returns the state stored under key. A miss is (nil, false, nil),
	// never an error: missing state always falls back to defaults.
	Load(ctx context.Context, key string) (json.RawMessage, bool, error)

	// Save stores state under key, replacing any previous value.
	Save(ctx context.Context, key string, state json.RawMessage) error

	// Clear removes the state stored under key. Clearing a missing key is
	// not an error.
	Clear(ctx context.Context, key string) error

	// Reset removes all stored state.
	Reset(ctx context.Context) error

	// Close releases any resources held by the backend.
	Close() error
}

// =============================================================================
// MemoryStore
// =============================================================================

// MemoryStore keeps state in process memory. It is the default backend for
// interactive sessions, where state only needs to survive frame boundaries,
// and the store of choice in tests.
type MemoryStore struct {
	mu     sync.RWMutex
	states map[string]json.RawMessage
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{states: make(map[string]json.RawMessage)}
}

// Load returns the state stored under key.
func (s *MemoryStore) Load(_ context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.states[key]
	return state, ok, nil
}

// Save stores state under key.
func (s *MemoryStore) Save(_ context.Context, key string, state json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[key] = state
	return nil
}

// Clear removes the state stored under key.
func (s *MemoryStore) Clear(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	return nil
}

// Reset removes all stored state.
func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states = make(map[string]json.RawMessage)
	return nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close() error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
