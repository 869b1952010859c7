package datastore

import (
	"sync"

	"github.com/rs/zerolog"
)

// TargetMutexManager hands out one mutex per target so that evaluations of
// the same target never overlap while distinct targets proceed concurrently.
type TargetMutexManager struct {
	mutexes map[string]*sync.Mutex
	mapLock sync.RWMutex
	logger  zerolog.Logger
}

// NewTargetMutexManager creates a new target mutex manager
func NewTargetMutexManager(logger zerolog.Logger) *TargetMutexManager {
	return &TargetMutexManager{
		mutexes: make(map[string]*sync.Mutex),
		logger:  logger.With().Str("component", "TargetMutexManager").Logger(),
	}
}

// GetMutex returns the mutex for the specific target, creating it on first use.
func (tm *TargetMutexManager) GetMutex(targetID string) *sync.Mutex {
	tm.mapLock.RLock()
	mutex, exists := tm.mutexes[targetID]
	tm.mapLock.RUnlock()

	if exists {
		return mutex
	}

	tm.mapLock.Lock()
	defer tm.mapLock.Unlock()

	// Double-check after acquiring write lock
	if mutex, exists := tm.mutexes[targetID]; exists {
		return mutex
	}

	mutex = &sync.Mutex{}
	tm.mutexes[targetID] = mutex
	tm.logger.Debug().Str("target_id", targetID).Msg("Created mutex for target")
	return mutex
}

// TryLock attempts to acquire the mutex for a target without blocking.
// Returns false when an evaluation for the target is already in flight.
func (tm *TargetMutexManager) TryLock(targetID string) bool {
	return tm.GetMutex(targetID).TryLock()
}

// Unlock releases the mutex for a target.
func (tm *TargetMutexManager) Unlock(targetID string) {
	tm.GetMutex(targetID).Unlock()
}
