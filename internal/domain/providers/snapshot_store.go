package providers

import (
	"context"
	"errors"
)

// Snapshot keys. Each key holds one JSON-encoded array (or object, for the
// session key) and is always overwritten whole, never appended to.
const (
	SnapshotKeyDoctors      = "doctors"
	SnapshotKeyAppointments = "appointments"
	SnapshotKeyCurrentUser  = "currentUser"
)

// ErrSnapshotNotFound is returned by Load when no snapshot exists under a key.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotStore defines the interface for the key-value persistence medium the
// scheduling store writes its collections to. Implementations must treat Save
// as a full-snapshot overwrite.
type SnapshotStore interface {
	// Load retrieves the snapshot stored under key, or ErrSnapshotNotFound
	Load(ctx context.Context, key string) ([]byte, error)

	// Save overwrites the snapshot stored under key
	Save(ctx context.Context, key string, value []byte) error

	// Delete removes the snapshot stored under key
	Delete(ctx context.Context, key string) error
}
