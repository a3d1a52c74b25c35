package breakerline

import (
	"context"
	"errors"
	"time"

	"github.com/aphistic/sweet"
	"github.com/efritz/glock"
	. "github.com/onsi/gomega"
)

type InvokerSuite struct{}

type scriptedInvoker struct {
	results []Result
	calls   int
}

func (i *scriptedInvoker) Invoke(ctx context.Context, endpoint string, codec Codec, method string, args interface{}) *Future {
	result := i.results[i.calls]
	i.calls++
	return CompletedFuture(result)
}

type recordingCodec struct {
	prepared []string
}

func (c *recordingCodec) PrepareRequest(method string, args interface{}, failed *Future) {
	c.prepared = append(c.prepared, method)
}

func (s *InvokerSuite) TestSuccessfulCallPassesThrough(t sweet.T) {
	delegate := &scriptedInvoker{results: []Result{SuccessResult("ok")}}
	config := mustBuild(NewCircuitBreakerConfigBuilder("svc").withClock(glock.NewMockClock()))

	invoker := Decorate(config)(delegate)
	future := invoker.Invoke(context.Background(), "endpoint", nil, "charge", nil)

	result := future.Result()
	Expect(result.Success).To(BeTrue())
	Expect(result.Value).To(Equal("ok"))
	Expect(delegate.calls).To(Equal(1))
}

func (s *InvokerSuite) TestFailFastSkipsDelegateAndPreparesCodec(t sweet.T) {
	clock := glock.NewMockClock()
	config := mustBuild(NewCircuitBreakerConfigBuilder("svc").
		MinimumRequestThreshold(1).
		FailureRateThreshold(0.5).
		withClock(clock))

	container := newScopeContainer(config)
	breaker := container.get("charge")
	breaker.OnFailure()
	clock.Advance(time.Second)
	breaker.OnFailure()
	Expect(breaker.GetState().IsOpen()).To(BeTrue())

	delegate := &scriptedInvoker{}
	decorated := &circuitBreakerInvoker{delegate: delegate, container: container, config: config}
	codec := &recordingCodec{}

	future := decorated.Invoke(context.Background(), "endpoint", codec, "charge", nil)
	result := future.Result()

	Expect(result.Success).To(BeFalse())
	var ffe *FailFastException
	Expect(errors.As(result.Cause, &ffe)).To(BeTrue())
	Expect(codec.prepared).To(Equal([]string{"charge"}))
	Expect(delegate.calls).To(Equal(0))
}

func (s *InvokerSuite) TestDelegateFailureReportsToBreaker(t sweet.T) {
	clock := glock.NewMockClock()
	cause := errors.New("boom")
	delegate := &scriptedInvoker{results: []Result{FailureResult(cause), FailureResult(cause)}}
	config := mustBuild(NewCircuitBreakerConfigBuilder("svc").
		MinimumRequestThreshold(1).
		FailureRateThreshold(0.5).
		withClock(clock))

	container := newScopeContainer(config)
	decorated := &circuitBreakerInvoker{delegate: delegate, container: container, config: config}

	decorated.Invoke(context.Background(), "endpoint", nil, "charge", nil).Result()
	clock.Advance(time.Second)
	decorated.Invoke(context.Background(), "endpoint", nil, "charge", nil).Result()

	breaker := container.get("charge")
	Expect(breaker.GetState().IsOpen()).To(BeTrue())
}
