package btsonicare

import "time"

// Default poll cadence values
const (

	// DefaultBrushingInterval is the poll interval while (recently) brushing
	DefaultBrushingInterval = 30 * time.Second

	// DefaultIdleInterval is the poll interval while the handle is idle
	DefaultIdleInterval = 5 * time.Minute

	// DefaultRecentBrushingTimeout is the grace window after the last observed
	// brushing state during which the brushing interval still applies
	DefaultRecentBrushingTimeout = 2 * time.Minute
)

// CadenceConfig holds the intervals governing how often an active poll of the
// handle should be issued
type CadenceConfig struct {
	BrushingInterval      time.Duration
	IdleInterval          time.Duration
	RecentBrushingTimeout time.Duration
}

// DefaultCadenceConfig returns the default poll cadence
func DefaultCadenceConfig() CadenceConfig {
	return CadenceConfig{
		BrushingInterval:      DefaultBrushingInterval,
		IdleInterval:          DefaultIdleInterval,
		RecentBrushingTimeout: DefaultRecentBrushingTimeout,
	}
}

// CadenceState tracks the brushing activity of a single handle. It is owned
// by the per-device tracker and mutated only by decoded handle session state
// readings (single writer).
type CadenceState struct {
	Brushing  bool
	LastBrush time.Time
}

// PollDue reports whether a new poll should be issued at now, given the time
// of the last poll (zero value if never polled) and the observed brushing
// state. A device that was never polled is always due. The recent-brushing
// window boundary is inclusive.
func (c CadenceConfig) PollDue(lastPoll time.Time, state CadenceState, now time.Time) bool {
	if lastPoll.IsZero() {
		return true
	}

	interval := c.IdleInterval
	if state.Brushing || now.Sub(state.LastBrush) <= c.RecentBrushingTimeout {
		interval = c.BrushingInterval
	}

	return now.Sub(lastPoll) > interval
}
