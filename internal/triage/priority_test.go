package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectPriority_CriticalKeyword(t *testing.T) {
	assert.Equal(t, PriorityCritical, DetectPriority("there was a fire in the studio"))
}

func TestDetectPriority_PrecedenceBeatsMatchCount(t *testing.T) {
	// Three medium hits and one high hit: high wins because tier precedence,
	// not match count, decides.
	text := "the locker room is dirty, too cold, and crowded, and the shower is broken"
	assert.Equal(t, PriorityHigh, DetectPriority(text))

	// A single critical keyword outranks everything below it.
	text = "the treadmill is broken and started a fire"
	assert.Equal(t, PriorityCritical, DetectPriority(text))
}

func TestDetectPriority_CaseInsensitive(t *testing.T) {
	assert.Equal(t, PriorityCritical, DetectPriority("FIRE in the sauna"))
	assert.Equal(t, PriorityHigh, DetectPriority("Treadmill BROKEN again"))
}

func TestDetectPriority_DefaultsToMedium(t *testing.T) {
	assert.Equal(t, PriorityMedium, DetectPriority("what time do you open on Sundays"))
	assert.Equal(t, PriorityMedium, DetectPriority(""))
}

func TestDetectPriority_LowTier(t *testing.T) {
	assert.Equal(t, PriorityLow, DetectPriority("just a suggestion for the playlist"))
}

func TestLevelFor(t *testing.T) {
	level, ok := LevelFor(PriorityHigh)
	assert.True(t, ok)
	assert.Equal(t, 8, level.ResolutionHours)
	assert.Equal(t, 4, level.EscalationHours)

	_, ok = LevelFor(Priority("urgent"))
	assert.False(t, ok)
}

func TestPriorityValid(t *testing.T) {
	assert.True(t, PriorityCritical.Valid())
	assert.False(t, Priority("URGENT").Valid())
}

func TestLevels_SeverityOrder(t *testing.T) {
	assert.Equal(t, []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}, Levels())
}
