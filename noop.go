package breakerline

// EventCounter reports and accumulates success/failure events for a
// breaker's current state. SlidingWindowCounter is the only counter that
// actually accumulates; NoOpCounter is swapped in whenever accumulation
// is meaningless (OPEN, HALF_OPEN).
type EventCounter interface {
	// OnSuccess records one successful event.
	OnSuccess()

	// OnFailure records one failed event.
	OnFailure()

	// GetCount returns the most recently computed EventCount. Must be
	// O(1) and non-blocking.
	GetCount() EventCount
}

// noOpCounter is an EventCounter that never accumulates. GetCount always
// returns ZeroEventCount. There is exactly one instance; it carries no
// state so sharing it across every OPEN/HALF_OPEN breaker is safe.
type noOpCounter struct{}

var noOpCounterInstance EventCounter = &noOpCounter{}

func (c *noOpCounter) OnSuccess()            {}
func (c *noOpCounter) OnFailure()            {}
func (c *noOpCounter) GetCount() EventCount { return ZeroEventCount }
