package models

import (
	"errors"
	"time"
)

// ErrSnapshotNotFound is returned when no snapshot exists for a target.
var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is the last-known state of a monitored target: the fingerprint of
// its normalized content plus the content itself, kept so diffs can be
// rendered when the page changes.
type Snapshot struct {
	TargetID    string
	Fingerprint string
	Content     string
	CapturedAt  time.Time
}

// SnapshotStore persists at most one current Snapshot per target. Put is an
// atomic replace; readers never observe a half-written snapshot.
type SnapshotStore interface {
	// Get retrieves the current snapshot for a target.
	// Returns ErrSnapshotNotFound if the target has no baseline yet.
	Get(targetID string) (*Snapshot, error)

	// Put atomically replaces the snapshot for snapshot.TargetID.
	Put(snapshot Snapshot) error

	// Close releases the backing storage.
	Close() error
}

// ChangeRecord is one archived change, appended to the history archive every
// time a target's content changes.
type ChangeRecord struct {
	TargetID       string    `parquet:"target_id,zstd"`
	URL            string    `parquet:"url,zstd"`
	OldFingerprint string    `parquet:"old_fingerprint,zstd,optional"`
	NewFingerprint string    `parquet:"new_fingerprint,zstd"`
	ObservedAt     time.Time `parquet:"observed_at"`
	Summary        string    `parquet:"summary,zstd,optional"`
}
