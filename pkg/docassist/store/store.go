// Package store provides versioned, per-thread persistence of session
// state. A snapshot is committed exactly once per completed turn;
// implementations must be safe for concurrent use across threads.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/randalmurphal/docassist/pkg/docassist/state"
)

// Store persists session state snapshots keyed by thread id.
//
// Save overwrites the previous snapshot for the thread atomically: a
// concurrent Load for the same thread observes either the old or the
// new snapshot, never a mix.
type Store interface {
	// Load retrieves the last committed state for a thread.
	// Returns ErrNotFound if the thread has never been saved.
	Load(ctx context.Context, threadID string) (*state.State, error)

	// Save commits a thread's state, replacing any prior snapshot.
	Save(ctx context.Context, threadID string, s *state.State) error

	// List returns metadata for all threads, ordered by thread id.
	List(ctx context.Context) ([]Info, error)

	// Delete removes a thread's snapshot.
	// Returns nil if the thread doesn't exist.
	Delete(ctx context.Context, threadID string) error

	// Close releases any resources (connections, files).
	Close() error
}

// Info provides snapshot metadata without loading full state.
type Info struct {
	ThreadID  string
	Turn      int
	Timestamp time.Time
	Size      int64
}

// Sentinel errors for store operations.
var (
	// ErrNotFound indicates a thread has no committed state.
	ErrNotFound = errors.New("thread state not found")

	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("state store closed")

	// ErrVersionMismatch indicates a snapshot written by an
	// incompatible checkpoint format version.
	ErrVersionMismatch = errors.New("checkpoint version mismatch")
)
