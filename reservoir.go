package breakerline

import "sync/atomic"

// bucketNode is one link in the reservoir's lock-free FIFO.
type bucketNode struct {
	b    *bucket
	next atomic.Pointer[bucketNode]
}

// reservoir is an append-only, concurrent FIFO of past (and overflow)
// buckets, implemented as a lock-free singly-linked queue (the Michael &
// Scott enqueue algorithm). Multiple producers may offer concurrently;
// trimAndSum performs a read-only traversal that tolerates concurrent
// appends and a best-effort CAS trim of the expired prefix, mirroring
// ConcurrentLinkedQueue's offer()/iterator().remove() contract without
// requiring a global lock.
type reservoir struct {
	head atomic.Pointer[bucketNode]
	tail atomic.Pointer[bucketNode]
}

func newReservoir() *reservoir {
	sentinel := &bucketNode{}
	r := &reservoir{}
	r.head.Store(sentinel)
	r.tail.Store(sentinel)
	return r
}

// offer appends b to the tail of the reservoir. Safe for any number of
// concurrent callers.
func (r *reservoir) offer(b *bucket) {
	node := &bucketNode{b: b}

	for {
		tail := r.tail.Load()
		next := tail.next.Load()

		if next == nil {
			if tail.next.CompareAndSwap(nil, node) {
				r.tail.CompareAndSwap(tail, node)
				return
			}
		} else {
			// Tail pointer is lagging behind the actual last node; help
			// advance it before retrying our own insert.
			r.tail.CompareAndSwap(tail, next)
		}
	}
}

// trimAndSum walks every bucket currently linked into the reservoir,
// accumulating the success/failure counts of every bucket whose
// timestamp is not older than oldLimit, then best-effort advances the
// head pointer past the contiguous prefix of expired buckets starting
// at the current head. Buckets appended mid-traversal need not
// participate in this pass; they will be summed on the next rotation.
func (r *reservoir) trimAndSum(oldLimit int64) EventCount {
	var success, failure int64

	for n := r.head.Load().next.Load(); n != nil; n = n.next.Load() {
		if n.b.timestamp >= oldLimit {
			success += n.b.successCount()
			failure += n.b.failureCount()
		}
	}

	for {
		head := r.head.Load()
		next := head.next.Load()
		if next == nil || next.b.timestamp >= oldLimit {
			break
		}
		r.head.CompareAndSwap(head, next)
	}

	return NewEventCount(success, failure)
}
