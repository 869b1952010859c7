package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFailureTracker_EscalatesOnceAtThreshold(t *testing.T) {
	tracker := NewFailureTracker(3)

	count, escalate := tracker.RecordTransient("target-1")
	assert.Equal(t, 1, count)
	assert.False(t, escalate)

	count, escalate = tracker.RecordTransient("target-1")
	assert.Equal(t, 2, count)
	assert.False(t, escalate)

	count, escalate = tracker.RecordTransient("target-1")
	assert.Equal(t, 3, count)
	assert.True(t, escalate)

	// Further failures in the same streak stay silent.
	count, escalate = tracker.RecordTransient("target-1")
	assert.Equal(t, 4, count)
	assert.False(t, escalate)
}

func TestFailureTracker_SuccessResetsStreak(t *testing.T) {
	tracker := NewFailureTracker(2)

	tracker.RecordTransient("target-1")
	tracker.RecordTransient("target-1")

	wasUnhealthy := tracker.RecordSuccess("target-1")
	assert.True(t, wasUnhealthy)

	// The streak starts over: two more failures escalate again.
	_, escalate := tracker.RecordTransient("target-1")
	assert.False(t, escalate)
	_, escalate = tracker.RecordTransient("target-1")
	assert.True(t, escalate)
}

func TestFailureTracker_SuccessWithoutEscalationIsNotRecovery(t *testing.T) {
	tracker := NewFailureTracker(3)

	tracker.RecordTransient("target-1")
	assert.False(t, tracker.RecordSuccess("target-1"))

	// A success with no prior failures at all is also not a recovery.
	assert.False(t, tracker.RecordSuccess("target-1"))
}

func TestFailureTracker_PermanentAlertsOncePerStreak(t *testing.T) {
	tracker := NewFailureTracker(3)

	assert.True(t, tracker.RecordPermanent("target-1"))
	assert.False(t, tracker.RecordPermanent("target-1"))

	assert.True(t, tracker.RecordSuccess("target-1"))

	// A new streak after recovery alerts again.
	assert.True(t, tracker.RecordPermanent("target-1"))
}

func TestFailureTracker_TargetsAreIndependent(t *testing.T) {
	tracker := NewFailureTracker(2)

	tracker.RecordTransient("target-1")
	_, escalate := tracker.RecordTransient("target-2")

	assert.False(t, escalate)
}
