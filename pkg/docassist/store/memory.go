package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/randalmurphal/docassist/pkg/docassist/state"
)

// MemoryStore is an in-memory state store for testing.
// Data is lost when the process exits.
type MemoryStore struct {
	mu     sync.RWMutex
	data   map[string]storedSnapshot // threadID -> snapshot
	closed bool
}

// storedSnapshot holds serialized state with metadata for List().
type storedSnapshot struct {
	data      []byte
	turn      int
	timestamp time.Time
}

// NewMemoryStore creates a new in-memory state store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]storedSnapshot),
	}
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, threadID string, s *state.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	turn := m.data[threadID].turn + 1

	data, err := Encode(threadID, turn, s)
	if err != nil {
		return err
	}

	m.data[threadID] = storedSnapshot{
		data:      data,
		turn:      turn,
		timestamp: time.Now().UTC(),
	}
	return nil
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, threadID string) (*state.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	snap, ok := m.data[threadID]
	if !ok {
		return nil, ErrNotFound
	}

	_, s, err := Decode(snap.data)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// List implements Store.
func (m *MemoryStore) List(_ context.Context) ([]Info, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrStoreClosed
	}

	infos := make([]Info, 0, len(m.data))
	for threadID, snap := range m.data {
		infos = append(infos, Info{
			ThreadID:  threadID,
			Turn:      snap.turn,
			Timestamp: snap.timestamp,
			Size:      int64(len(snap.data)),
		})
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ThreadID < infos[j].ThreadID
	})

	return infos, nil
}

// Delete implements Store.
func (m *MemoryStore) Delete(_ context.Context, threadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrStoreClosed
	}

	delete(m.data, threadID)
	return nil
}

// Close implements Store.
func (m *MemoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.data = nil
	return nil
}

// Len returns the number of threads with committed state.
// Useful for testing.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
