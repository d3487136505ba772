package btsonicare

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var cadenceTestBase = time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

func TestPollDueWhenNeverPolled(t *testing.T) {
	cadence := DefaultCadenceConfig()

	assert.True(t, cadence.PollDue(time.Time{}, CadenceState{}, cadenceTestBase))
	assert.True(t, cadence.PollDue(time.Time{}, CadenceState{Brushing: true, LastBrush: cadenceTestBase}, cadenceTestBase))
}

func TestPollDueWhileBrushing(t *testing.T) {
	cadence := DefaultCadenceConfig()
	state := CadenceState{Brushing: true, LastBrush: cadenceTestBase}

	// One second short of the brushing interval: not due
	now := cadenceTestBase.Add(cadence.BrushingInterval - time.Second)
	assert.False(t, cadence.PollDue(cadenceTestBase, state, now))

	// One second past the brushing interval: due
	now = cadenceTestBase.Add(cadence.BrushingInterval + time.Second)
	assert.True(t, cadence.PollDue(cadenceTestBase, state, now))
}

func TestPollDueRecentBrushingBoundaryInclusive(t *testing.T) {
	cadence := DefaultCadenceConfig()

	// Not brushing now, last brush exactly at the grace window boundary:
	// the brushing interval still applies
	now := cadenceTestBase.Add(cadence.RecentBrushingTimeout)
	state := CadenceState{Brushing: false, LastBrush: cadenceTestBase}

	lastPoll := now.Add(-cadence.BrushingInterval - time.Second)
	assert.True(t, cadence.PollDue(lastPoll, state, now))

	// Just past the window, the idle interval takes over
	now = now.Add(time.Second)
	lastPoll = now.Add(-cadence.BrushingInterval - time.Second)
	assert.False(t, cadence.PollDue(lastPoll, state, now))
}

func TestPollDueIdle(t *testing.T) {
	cadence := DefaultCadenceConfig()

	// Long past any brushing activity
	state := CadenceState{Brushing: false, LastBrush: cadenceTestBase.Add(-24 * time.Hour)}

	now := cadenceTestBase.Add(cadence.IdleInterval - time.Second)
	assert.False(t, cadence.PollDue(cadenceTestBase, state, now))

	now = cadenceTestBase.Add(cadence.IdleInterval + time.Second)
	assert.True(t, cadence.PollDue(cadenceTestBase, state, now))
}

func TestPollDueCustomConfig(t *testing.T) {
	cadence := CadenceConfig{
		BrushingInterval:      5 * time.Second,
		IdleInterval:          time.Minute,
		RecentBrushingTimeout: 10 * time.Second,
	}
	state := CadenceState{Brushing: true, LastBrush: cadenceTestBase}

	assert.False(t, cadence.PollDue(cadenceTestBase, state, cadenceTestBase.Add(4*time.Second)))
	assert.True(t, cadence.PollDue(cadenceTestBase, state, cadenceTestBase.Add(6*time.Second)))
}
