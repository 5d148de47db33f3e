package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/randalmurphal/docassist/pkg/docassist/state"
)

// Version is the current checkpoint format version.
// Increment when making breaking changes to the envelope structure.
const Version = 1

// Checkpoint is the persisted envelope around a session state
// snapshot. Turn counts committed turns for the thread, starting at 1.
type Checkpoint struct {
	Version   int             `json:"version"`
	ThreadID  string          `json:"thread_id"`
	Turn      int             `json:"turn"`
	Timestamp time.Time       `json:"timestamp"`
	State     json.RawMessage `json:"state"`
}

// Encode wraps a state snapshot in a checkpoint envelope and
// serializes it.
func Encode(threadID string, turn int, s *state.State) ([]byte, error) {
	stateBytes, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("serialize state: %w", err)
	}

	cp := Checkpoint{
		Version:   Version,
		ThreadID:  threadID,
		Turn:      turn,
		Timestamp: time.Now().UTC(),
		State:     stateBytes,
	}
	return json.Marshal(cp)
}

// Decode deserializes a checkpoint envelope and its state snapshot,
// rejecting incompatible format versions.
func Decode(data []byte) (*Checkpoint, *state.State, error) {
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return nil, nil, fmt.Errorf("deserialize checkpoint: %w", err)
	}
	if cp.Version != Version {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, cp.Version, Version)
	}

	var s state.State
	if err := json.Unmarshal(cp.State, &s); err != nil {
		return nil, nil, fmt.Errorf("deserialize state: %w", err)
	}
	return &cp, &s, nil
}
