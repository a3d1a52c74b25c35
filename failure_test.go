package breakerline

import (
	"errors"

	"github.com/aphistic/sweet"
	. "github.com/onsi/gomega"
)

type FailureSuite struct{}

func (s *FailureSuite) TestAcceptAll(t sweet.T) {
	filter := AcceptAllFailureFilter()

	Expect(filter.ShouldDealWith(nil)).To(BeTrue())
	Expect(filter.ShouldDealWith(errors.New("test error"))).To(BeTrue())
}

func (s *FailureSuite) TestFilterFunc(t sweet.T) {
	ignored := errors.New("not my problem")
	filter := FailureFilterFunc(func(cause error) bool {
		return cause != ignored
	})

	Expect(filter.ShouldDealWith(ignored)).To(BeFalse())
	Expect(filter.ShouldDealWith(errors.New("other"))).To(BeTrue())
}
