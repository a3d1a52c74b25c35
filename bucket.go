package breakerline

import "sync/atomic"

// bucket is the sub-interval granule of a SlidingWindowCounter's rolling
// window. Its timestamp is fixed at creation; success/failure are
// independently-incrementable counters safe under high-contention
// concurrent increment - the Go equivalent of the striped add-counter
// the algorithm this is modeled on uses (java.util.concurrent.atomic.LongAdder).
// A plain atomic.Int64 already amortizes single-counter contention well
// enough at one-bucket-per-second granularity; see DESIGN.md for the
// tradeoff against true per-core striping.
type bucket struct {
	timestamp int64
	success   atomic.Int64
	failure   atomic.Int64
}

func newBucket(timestampMillis int64) *bucket {
	return &bucket{timestamp: timestampMillis}
}

func (b *bucket) increment(isSuccess bool) {
	if isSuccess {
		b.success.Add(1)
	} else {
		b.failure.Add(1)
	}
}

func (b *bucket) successCount() int64 { return b.success.Load() }
func (b *bucket) failureCount() int64 { return b.failure.Load() }
