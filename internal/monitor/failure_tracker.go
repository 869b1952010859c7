package monitor

import "sync"

// targetFailureState tracks the failure streak for a single target.
type targetFailureState struct {
	consecutiveTransient int
	escalated            bool
	permanentAlerted     bool
}

// FailureTracker keeps per-target consecutive-failure counts so that a single
// blip stays silent while a persistent outage surfaces exactly once.
type FailureTracker struct {
	threshold int
	states    map[string]*targetFailureState
	mutex     sync.Mutex
}

// NewFailureTracker creates a new FailureTracker. threshold is the number of
// consecutive transient failures that triggers an escalation alert.
func NewFailureTracker(threshold int) *FailureTracker {
	if threshold <= 0 {
		threshold = 3
	}
	return &FailureTracker{
		threshold: threshold,
		states:    make(map[string]*targetFailureState),
	}
}

// RecordTransient registers a transient failure for a target. It returns the
// current streak length and whether this failure crosses the escalation
// threshold (true exactly once per streak).
func (ft *FailureTracker) RecordTransient(targetID string) (int, bool) {
	ft.mutex.Lock()
	defer ft.mutex.Unlock()

	state := ft.state(targetID)
	state.consecutiveTransient++

	if state.consecutiveTransient >= ft.threshold && !state.escalated {
		state.escalated = true
		return state.consecutiveTransient, true
	}
	return state.consecutiveTransient, false
}

// RecordPermanent registers a permanent failure. It returns true the first
// time in a streak, so each misconfiguration alerts exactly once until the
// target recovers.
func (ft *FailureTracker) RecordPermanent(targetID string) bool {
	ft.mutex.Lock()
	defer ft.mutex.Unlock()

	state := ft.state(targetID)
	if state.permanentAlerted {
		return false
	}
	state.permanentAlerted = true
	return true
}

// RecordSuccess resets the streak for a target. It returns true when the
// target had previously escalated (or permanently failed), i.e. when a
// recovery notice is warranted.
func (ft *FailureTracker) RecordSuccess(targetID string) bool {
	ft.mutex.Lock()
	defer ft.mutex.Unlock()

	state, exists := ft.states[targetID]
	if !exists {
		return false
	}

	wasUnhealthy := state.escalated || state.permanentAlerted
	delete(ft.states, targetID)
	return wasUnhealthy
}

func (ft *FailureTracker) state(targetID string) *targetFailureState {
	state, exists := ft.states[targetID]
	if !exists {
		state = &targetFailureState{}
		ft.states[targetID] = state
	}
	return state
}
