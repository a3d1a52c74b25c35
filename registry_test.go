package breakerline

import (
	"time"

	"github.com/aphistic/sweet"
	"github.com/efritz/glock"
	. "github.com/onsi/gomega"
)

type RegistrySuite struct{}

func (s *RegistrySuite) TestServiceWideSharesOneBreaker(t sweet.T) {
	config := mustBuild(NewCircuitBreakerConfigBuilder("svc").WithScope(ScopeService))
	container := newScopeContainer(config)

	Expect(container.get("methodA")).To(BeIdenticalTo(container.get("methodB")))
}

func (s *RegistrySuite) TestPerMethodIsolatesBreakers(t sweet.T) {
	clock := glock.NewMockClock()
	config := mustBuild(NewCircuitBreakerConfigBuilder("svc").
		WithScope(ScopePerMethod).
		MinimumRequestThreshold(2).
		FailureRateThreshold(0.5).
		withClock(clock))
	container := newScopeContainer(config)

	a := container.get("methodA")
	b := container.get("methodB")

	Expect(a).NotTo(BeIdenticalTo(b))
	Expect(a.Name()).To(Equal("svc#methodA"))
	Expect(b.Name()).To(Equal("svc#methodB"))

	a.OnFailure()
	a.OnFailure()
	clock.Advance(time.Second)
	a.OnFailure()

	Expect(a.GetState().IsOpen()).To(BeTrue())
	Expect(b.GetState().IsClosed()).To(BeTrue())
	Expect(b.CanRequest()).To(BeTrue())
}

func (s *RegistrySuite) TestPerMethodGetOrCreateIsRaceSafe(t sweet.T) {
	config := mustBuild(NewCircuitBreakerConfigBuilder("svc").WithScope(ScopePerMethod))
	container := newPerMethodContainer(config)

	results := make(chan CircuitBreaker, 50)

	for i := 0; i < 50; i++ {
		go func() {
			results <- container.get("sharedMethod")
		}()
	}

	first := <-results
	for i := 1; i < 50; i++ {
		Expect(<-results).To(BeIdenticalTo(first))
	}
}

func mustBuild(builder *CircuitBreakerConfigBuilder) CircuitBreakerConfig {
	config, err := builder.Build()
	Expect(err).To(BeNil())
	return config
}
