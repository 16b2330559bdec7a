package triage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSLADeadline_AddsResolutionBudget(t *testing.T) {
	createdAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	dueAt, err := SLADeadline(PriorityCritical, createdAt)
	require.NoError(t, err)
	assert.Equal(t, createdAt.Add(2*time.Hour), dueAt)

	dueAt, err = SLADeadline(PriorityLow, createdAt)
	require.NoError(t, err)
	assert.Equal(t, createdAt.Add(72*time.Hour), dueAt)
}

func TestSLADeadline_UnknownPriorityRejected(t *testing.T) {
	_, err := SLADeadline(Priority("severe"), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "severe")
}

func TestResponseDeadline(t *testing.T) {
	createdAt := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	dueAt, err := ResponseDeadline(PriorityCritical, createdAt)
	require.NoError(t, err)
	assert.Equal(t, createdAt.Add(15*time.Minute), dueAt)

	_, err = ResponseDeadline(Priority("severe"), createdAt)
	assert.Error(t, err)
}

func TestSLABreached_RoundTrip(t *testing.T) {
	t0 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for _, priority := range Levels() {
		dueAt, err := SLADeadline(priority, t0)
		require.NoError(t, err)

		level, _ := LevelFor(priority)
		assert.False(t, SLABreached(dueAt, t0), priority)
		assert.False(t, SLABreached(dueAt, dueAt), priority)
		assert.True(t, SLABreached(dueAt, t0.Add(time.Duration(level.ResolutionHours)*time.Hour+time.Second)), priority)
	}
}

func TestNearingSLA_WindowBoundaries(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	// High priority warns inside a 4 hour window.
	assert.True(t, NearingSLA(now.Add(4*time.Hour), PriorityHigh, now))
	assert.True(t, NearingSLA(now.Add(time.Minute), PriorityHigh, now))
	assert.False(t, NearingSLA(now.Add(4*time.Hour+time.Second), PriorityHigh, now))

	// Zero or negative remaining time is a breach, never a warning.
	assert.False(t, NearingSLA(now, PriorityHigh, now))
	assert.False(t, NearingSLA(now.Add(-time.Hour), PriorityHigh, now))
}

func TestNearingSLA_UnknownPriority(t *testing.T) {
	now := time.Now()
	assert.False(t, NearingSLA(now.Add(time.Minute), Priority("severe"), now))
}
