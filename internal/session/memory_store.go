package session

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process session store used in tests and when running
// without Redis. State is copied through JSON on the way in and out so
// callers never share memory with the store.
type MemoryStore struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

// Load returns the stored state, or an empty state when the session is
// unknown or the blob does not decode.
func (s *MemoryStore) Load(ctx context.Context, sessionID string) (*State, error) {
	s.mu.Lock()
	data, ok := s.blobs[sessionID]
	s.mu.Unlock()
	if !ok {
		return &State{}, nil
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return &State{}, nil
	}
	return &state, nil
}

// Save overwrites the stored state wholesale.
func (s *MemoryStore) Save(ctx context.Context, sessionID string, state *State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.blobs[sessionID] = data
	s.mu.Unlock()
	return nil
}

// Corrupt replaces a session blob with garbage. Test helper for the
// corrupt-data-defaults-to-empty behaviour.
func (s *MemoryStore) Corrupt(sessionID string) {
	s.mu.Lock()
	s.blobs[sessionID] = []byte("{not json")
	s.mu.Unlock()
}
