package breakerline

import (
	"time"

	"github.com/efritz/glock"
)

// Clock is the monotonic-ish millisecond time source used throughout the
// breaker. It is the same seam the teacher library uses to make timeouts
// deterministic in tests, generalized here to the millisecond resolution
// the state machine and sliding window reason about.
type Clock = glock.Clock

// NewRealClock returns a Clock backed by the system wall clock.
func NewRealClock() Clock {
	return glock.NewRealClock()
}

// currentMillis converts the clock's current time to epoch milliseconds,
// the resolution every timestamp comparison in this package is done at.
func currentMillis(clock Clock) int64 {
	return clock.Now().UnixNano() / int64(time.Millisecond)
}
