package breakerline

import (
	"github.com/aphistic/sweet"
	. "github.com/onsi/gomega"
)

type EventCountSuite struct{}

func (s *EventCountSuite) TestTotalsAndRate(t sweet.T) {
	count := NewEventCount(3, 1)

	Expect(count.Success()).To(Equal(int64(3)))
	Expect(count.Failure()).To(Equal(int64(1)))
	Expect(count.Total()).To(Equal(int64(4)))
	Expect(count.FailureRate()).To(Equal(0.25))
}

func (s *EventCountSuite) TestZeroValueEquality(t sweet.T) {
	Expect(ZeroEventCount.Equal(NewEventCount(0, 0))).To(BeTrue())
	Expect(ZeroEventCount.Equal(NewEventCount(1, 0))).To(BeFalse())
}

func (s *EventCountSuite) TestString(t sweet.T) {
	Expect(NewEventCount(2, 5).String()).To(Equal("EventCount{success=2, failure=5}"))
}
