package models

import "time"

// ChangeEvent is produced when a target's normalized content no longer
// matches its stored snapshot. It is consumed exactly once by the notifier
// and is not persisted (the history archive keeps its own ChangeRecord).
type ChangeEvent struct {
	TargetID       string
	TargetName     string
	URL            string
	OldFingerprint string
	NewFingerprint string
	ObservedAt     time.Time
	Summary        string
}
