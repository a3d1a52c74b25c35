package breakerline

import "sync/atomic"

// SlidingWindowCounter is the concrete, concurrent EventCounter backing a
// CLOSED breaker's trip decision. Events are recorded into per-interval
// Buckets; old buckets are trimmed and summed into an atomically-readable
// snapshot so canRequest/onFailure never block on contention here.
//
// See bucket.go and reservoir.go for the two pieces doing the actual
// non-blocking bookkeeping; this type only implements the three-case
// recording algorithm and the EventCounter interface.
type SlidingWindowCounter struct {
	clock                Clock
	windowMillis         int64
	updateIntervalMillis int64

	current  atomic.Pointer[bucket]
	snapshot atomic.Pointer[EventCount]
	buckets  *reservoir
}

// NewSlidingWindowCounter creates a fresh counter with an empty window,
// starting its first bucket at the clock's current time.
func NewSlidingWindowCounter(clock Clock, windowMillis, updateIntervalMillis int64) *SlidingWindowCounter {
	c := &SlidingWindowCounter{
		clock:                clock,
		windowMillis:         windowMillis,
		updateIntervalMillis: updateIntervalMillis,
		buckets:              newReservoir(),
	}

	c.current.Store(newBucket(currentMillis(clock)))

	zero := ZeroEventCount
	c.snapshot.Store(&zero)

	return c
}

// GetCount returns the most recently computed EventCount. O(1),
// non-blocking; may lag live events by up to updateIntervalMillis.
func (c *SlidingWindowCounter) GetCount() EventCount {
	return *c.snapshot.Load()
}

// OnSuccess records one successful event at the clock's current time.
func (c *SlidingWindowCounter) OnSuccess() {
	c.onEvent(true)
}

// OnFailure records one failed event at the clock's current time.
func (c *SlidingWindowCounter) OnFailure() {
	c.onEvent(false)
}

func (c *SlidingWindowCounter) onEvent(isSuccess bool) {
	now := currentMillis(c.clock)
	cur := c.current.Load()

	switch {
	case now < cur.timestamp:
		// Backward clock, or an event that lagged behind a concurrent
		// rotation. Record it into its own instant bucket so it is never
		// lost, without disturbing current.
		instant := newBucket(now)
		instant.increment(isSuccess)
		c.buckets.offer(instant)

	case now < cur.timestamp+c.updateIntervalMillis:
		// Still within the active bucket's interval - no allocation.
		cur.increment(isSuccess)

	default:
		// The active bucket has expired; rotate.
		next := newBucket(now)
		next.increment(isSuccess)

		if c.current.CompareAndSwap(cur, next) {
			c.buckets.offer(cur)
			sum := c.buckets.trimAndSum(now - c.windowMillis)
			c.snapshot.Store(&sum)
		} else {
			// Another writer rotated first. The event is not lost: file it
			// as an instant bucket to be trimmed naturally on the next pass.
			c.buckets.offer(next)
		}
	}
}
