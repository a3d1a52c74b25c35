package breakerline

import (
	"time"

	"github.com/aphistic/sweet"
	. "github.com/onsi/gomega"
)

type ConfigSuite struct{}

func (s *ConfigSuite) TestDefaults(t sweet.T) {
	config, err := NewCircuitBreakerConfigBuilder("payments").Build()

	Expect(err).To(BeNil())
	Expect(config.RemoteServiceName()).To(Equal("payments"))
	Expect(config.FailureRateThreshold()).To(Equal(DefaultFailureRateThreshold))
	Expect(config.Scope()).To(Equal(ScopeService))
	Expect(config.MinimumRequestThreshold()).To(Equal(int64(DefaultMinimumRequestThreshold)))
}

func (s *ConfigSuite) TestEmptyServiceNameIsRejected(t sweet.T) {
	_, err := NewCircuitBreakerConfigBuilder("").Build()

	Expect(err).NotTo(BeNil())
}

func (s *ConfigSuite) TestFailureRateThresholdMustBeInRange(t sweet.T) {
	_, err := NewCircuitBreakerConfigBuilder("svc").FailureRateThreshold(0).Build()
	Expect(err).NotTo(BeNil())

	_, err = NewCircuitBreakerConfigBuilder("svc").FailureRateThreshold(1.5).Build()
	Expect(err).NotTo(BeNil())

	_, err = NewCircuitBreakerConfigBuilder("svc").FailureRateThreshold(1).Build()
	Expect(err).To(BeNil())
}

func (s *ConfigSuite) TestUpdateIntervalMustBeSmallerThanWindow(t sweet.T) {
	_, err := NewCircuitBreakerConfigBuilder("svc").
		CounterSlidingWindow(time.Second).
		CounterUpdateInterval(time.Second).
		Build()

	Expect(err).NotTo(BeNil())
}

func (s *ConfigSuite) TestNilCollaboratorsAreRejected(t sweet.T) {
	_, err := NewCircuitBreakerConfigBuilder("svc").WithFailureFilter(nil).Build()
	Expect(err).NotTo(BeNil())

	_, err = NewCircuitBreakerConfigBuilder("svc").WithCollector(nil).Build()
	Expect(err).NotTo(BeNil())

	_, err = NewCircuitBreakerConfigBuilder("svc").WithLogger(nil).Build()
	Expect(err).NotTo(BeNil())
}

func (s *ConfigSuite) TestScopeMustBeValid(t sweet.T) {
	_, err := NewCircuitBreakerConfigBuilder("svc").WithScope(Scope(99)).Build()
	Expect(err).NotTo(BeNil())
}
