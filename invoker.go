package breakerline

import "context"

// Result is the outcome an invoked remote call completes with. Success
// indicates the call completed normally; a failed call carries a Cause,
// except in the documented edge case where a result is marked failed
// with no cause at all (§9 "Open question - null cause"): that is
// deliberately still treated as a breaker failure, matching the behavior
// this subsystem is modeled on; the FailureFilter is not consulted for a
// nil cause.
type Result struct {
	Value   interface{}
	Success bool
	Cause   error
}

// SuccessResult builds a successful Result.
func SuccessResult(value interface{}) Result {
	return Result{Value: value, Success: true}
}

// FailureResult builds a failed Result carrying cause.
func FailureResult(cause error) Result {
	return Result{Success: false, Cause: cause}
}

// Future is a single-producer, multi-read completion handle. It is the
// host-agnostic stand-in for whatever asynchronous completion primitive
// a real transport uses (a netty Future/Promise in the source this is
// modeled on, a Go channel or context here).
type Future struct {
	done chan struct{}
	result Result
}

// NewFuture creates an incomplete Future.
func NewFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// CompletedFuture creates a Future that is already complete with result.
func CompletedFuture(result Result) *Future {
	f := &Future{done: make(chan struct{}), result: result}
	close(f.done)
	return f
}

// Complete resolves the future exactly once. Calling it more than once
// panics, matching a promise's single-assignment contract.
func (f *Future) Complete(result Result) {
	f.result = result
	close(f.done)
}

// Done returns a channel that closes once the future completes.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Result blocks until the future completes and returns its outcome.
func (f *Future) Result() Result {
	<-f.done
	return f.result
}

// Codec is the request-preparation collaborator. It is invoked only on
// the fail-fast path so callers that expect a codec-initiated side
// effect (e.g. releasing a connection slot) still see it even though the
// delegate invoker is never reached.
type Codec interface {
	PrepareRequest(method string, args interface{}, failed *Future)
}

// RemoteInvoker performs the actual remote call. Everything about how it
// reaches the network - transport, serialization, retries - is outside
// this subsystem's concern; it need only return a Future that eventually
// completes with a Result.
type RemoteInvoker interface {
	Invoke(ctx context.Context, endpoint string, codec Codec, method string, args interface{}) *Future
}

// RemoteInvokerFunc adapts a plain function into a RemoteInvoker.
type RemoteInvokerFunc func(ctx context.Context, endpoint string, codec Codec, method string, args interface{}) *Future

// Invoke calls the underlying function.
func (f RemoteInvokerFunc) Invoke(ctx context.Context, endpoint string, codec Codec, method string, args interface{}) *Future {
	return f(ctx, endpoint, codec, method, args)
}

// circuitBreakerInvoker is the decorator of §4.7: it resolves a breaker
// per the configured scope, consults CanRequest before delegating, and
// attaches a completion observer that never alters the outcome it
// observes.
type circuitBreakerInvoker struct {
	delegate  RemoteInvoker
	container scopeContainer
	config    CircuitBreakerConfig
}

// Decorate returns a factory that wraps any RemoteInvoker with circuit
// breaker protection according to config. One scopeContainer (and, under
// ScopeService, one CircuitBreaker) is created per call to Decorate, so
// call it once per remote service and reuse the returned function.
func Decorate(config CircuitBreakerConfig) func(RemoteInvoker) RemoteInvoker {
	container := newScopeContainer(config)

	return func(delegate RemoteInvoker) RemoteInvoker {
		return &circuitBreakerInvoker{
			delegate:  delegate,
			container: container,
			config:    config,
		}
	}
}

func (d *circuitBreakerInvoker) Invoke(ctx context.Context, endpoint string, codec Codec, method string, args interface{}) *Future {
	breaker := d.container.get(method)
	collector := d.config.Collector()

	collector.ReportCount(EventTypeAttempt)

	if !breaker.CanRequest() {
		collector.ReportCount(EventTypeShortCircuit)

		failed := CompletedFuture(FailureResult(
			NewFailFastException(d.config.RemoteServiceName(), method),
		))

		if codec != nil {
			codec.PrepareRequest(method, args, failed)
		}

		return failed
	}

	start := d.config.clockOrDefault().Now()
	delegateFuture := d.delegate.Invoke(ctx, endpoint, codec, method, args)

	// The delegate future may have other observers; we must not consume
	// it exclusively. Forward its outcome verbatim through a paired local
	// future once we've reported it to the breaker.
	observed := NewFuture()

	go func() {
		result := delegateFuture.Result()
		elapsed := d.config.clockOrDefault().Now().Sub(start)
		collector.ReportDuration(EventTypeRunDuration, elapsed)

		if result.Success {
			breaker.OnSuccess()
			collector.ReportCount(EventTypeSuccess)
		} else if result.Cause == nil || d.config.FailureFilter().ShouldDealWith(result.Cause) {
			breaker.OnFailure()
			collector.ReportCount(EventTypeFailure)
		}

		observed.Complete(result)
	}()

	return observed
}
