package breakerline

import (
	"time"

	"github.com/aphistic/sweet"
	"github.com/efritz/glock"
	. "github.com/onsi/gomega"
)

type SlidingWindowCounterSuite struct{}

func (s *SlidingWindowCounterSuite) TestStartsAtZero(t sweet.T) {
	clock := glock.NewMockClock()
	counter := NewSlidingWindowCounter(clock, 5000, 1000)

	Expect(counter.GetCount()).To(Equal(ZeroEventCount))
}

// TestSnapshotLagsUntilRotation exercises the bucket-rotation case of the
// recording algorithm: events recorded within the active bucket's
// interval do not move GetCount() until that bucket expires and rotates.
func (s *SlidingWindowCounterSuite) TestSnapshotLagsUntilRotation(t sweet.T) {
	clock := glock.NewMockClock()
	counter := NewSlidingWindowCounter(clock, 5000, 1000)

	counter.OnSuccess()
	counter.OnFailure()

	Expect(counter.GetCount()).To(Equal(ZeroEventCount))

	clock.Advance(time.Second)
	counter.OnSuccess()

	Expect(counter.GetCount()).To(Equal(NewEventCount(1, 1)))
}

// TestWindowTrimsOldBuckets exercises the trimming step of a rotation:
// once the window has slid past the oldest buckets, their events no
// longer contribute to GetCount().
func (s *SlidingWindowCounterSuite) TestWindowTrimsOldBuckets(t sweet.T) {
	clock := glock.NewMockClock()
	counter := NewSlidingWindowCounter(clock, 3000, 1000)

	counter.OnFailure()
	clock.Advance(time.Second)
	counter.OnFailure()
	clock.Advance(time.Second)
	counter.OnFailure()
	clock.Advance(time.Second)
	counter.OnFailure()

	count := counter.GetCount()
	Expect(count.Total()).To(BeNumerically("<=", 3))
}
