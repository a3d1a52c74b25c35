package breakerline

import (
	"sync/atomic"
)

// CircuitState is the tagged variant a breaker's current State carries.
type CircuitState int

const (
	// StateClosed is the initial state: all requests pass, outcomes
	// counted toward a future trip decision.
	StateClosed CircuitState = iota

	// StateOpen is the tripped state: all requests fail fast locally
	// until the open window elapses.
	StateOpen

	// StateHalfOpen is the probationary state: one probe at a time is
	// admitted to detect recovery.
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "CLOSED"
	case StateOpen:
		return "OPEN"
	case StateHalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

// State is an immutable snapshot of a breaker's current circuit state.
// Transitions replace the breaker's single atomic reference to one of
// these; a State is never mutated after construction.
type State struct {
	circuitState  CircuitState
	counter       EventCounter
	startMillis   int64
	timeoutMillis int64
}

// Kind returns the tagged circuit state this snapshot represents.
func (s *State) Kind() CircuitState { return s.circuitState }

// IsClosed reports whether this snapshot is CLOSED.
func (s *State) IsClosed() bool { return s.circuitState == StateClosed }

// IsOpen reports whether this snapshot is OPEN.
func (s *State) IsOpen() bool { return s.circuitState == StateOpen }

// IsHalfOpen reports whether this snapshot is HALF_OPEN.
func (s *State) IsHalfOpen() bool { return s.circuitState == StateHalfOpen }

// Counter returns the EventCounter in effect during this state.
func (s *State) Counter() EventCounter { return s.counter }

func (s *State) timedOut(nowMillis int64) bool {
	return s.timeoutMillis > 0 && s.startMillis+s.timeoutMillis <= nowMillis
}

// CircuitBreaker is the non-blocking state machine protecting a caller
// from a remote service whose recent failure rate has exceeded a
// threshold. All three exposed operations are non-blocking and
// bounded-time; transitions happen strictly inside them via
// compare-and-swap on a single atomic reference, never under a lock.
type CircuitBreaker interface {
	// CanRequest reports whether a caller may proceed. In HALF_OPEN or
	// OPEN, calling this after the state's timeout has elapsed may itself
	// cause a transition and admit exactly one trial caller.
	CanRequest() bool

	// OnSuccess reports a successful remote call outcome.
	OnSuccess()

	// OnFailure reports a failed remote call outcome.
	OnFailure()

	// GetState returns the current state snapshot. Exposed primarily for
	// inspection in tests and metrics.
	GetState() *State

	// Name returns the breaker's configured name (remoteServiceName, or
	// remoteServiceName#method under PER_METHOD scope).
	Name() string
}

// circuitBreaker is the only implementation of CircuitBreaker.
type circuitBreaker struct {
	name    string
	config  CircuitBreakerConfig
	clock   Clock
	current atomic.Pointer[State]

	logger    Logger
	collector MetricCollector

	// bounces counts consecutive HALF_OPEN->OPEN transitions since the
	// last CLOSED state, consulted only when a recovery backoff is
	// configured; see newHalfOpenState.
	bounces atomic.Int64
}

// NewCircuitBreaker creates a new CircuitBreaker with the given name,
// starting CLOSED with an empty counter.
func NewCircuitBreaker(name string, config CircuitBreakerConfig) CircuitBreaker {
	cb := &circuitBreaker{
		name:      name,
		config:    config,
		clock:     config.clockOrDefault(),
		logger:    config.Logger(),
		collector: config.Collector(),
	}

	cb.collector.ReportNew(MetricsBreakerConfig{
		RemoteServiceName:       config.RemoteServiceName(),
		Scope:                   config.Scope(),
		MinimumRequestThreshold: config.MinimumRequestThreshold(),
	})

	cb.current.Store(cb.newClosedState())
	cb.logStateTransition(StateClosed, ZeroEventCount)

	return cb
}

func (cb *circuitBreaker) Name() string { return cb.name }

func (cb *circuitBreaker) GetState() *State {
	return cb.current.Load()
}

// CanRequest implements the transition table of §4.5: CLOSED always
// admits; OPEN/HALF_OPEN admit exactly one caller once their state has
// timed out, via a CAS into a fresh HALF_OPEN state. A lost CAS is never
// retried within the same call - the caller that lost sees the state the
// winner installed and is refused.
func (cb *circuitBreaker) CanRequest() bool {
	state := cb.current.Load()

	if state.IsClosed() {
		return true
	}

	if state.timedOut(cb.nowMillis()) {
		next := cb.newHalfOpenState()
		if cb.current.CompareAndSwap(state, next) {
			cb.logStateTransition(StateHalfOpen, ZeroEventCount)
			return true
		}
		return false
	}

	return false
}

// OnSuccess implements §4.5. CLOSED records the success on the active
// counter; HALF_OPEN promotes to CLOSED on the winning CAS; OPEN ignores
// the report (it was never an admitted request).
func (cb *circuitBreaker) OnSuccess() {
	state := cb.current.Load()

	if state.IsClosed() {
		state.counter.OnSuccess()
		return
	}

	if state.IsHalfOpen() {
		next := cb.newClosedState()
		if cb.current.CompareAndSwap(state, next) {
			cb.bounces.Store(0)
			cb.logStateTransition(StateClosed, ZeroEventCount)
		}
	}
}

// OnFailure implements §4.5. CLOSED records the failure, then trips to
// OPEN once both the minimum request threshold and the strict
// failure-rate threshold are exceeded. HALF_OPEN falls straight back to
// OPEN. OPEN ignores the report.
func (cb *circuitBreaker) OnFailure() {
	state := cb.current.Load()

	if state.IsClosed() {
		state.counter.OnFailure()
		count := state.counter.GetCount()

		if cb.exceedsFailureThreshold(count) {
			next := cb.newOpenState()
			if cb.current.CompareAndSwap(state, next) {
				cb.logStateTransition(StateOpen, count)
			}
		}
		return
	}

	if state.IsHalfOpen() {
		next := cb.newOpenState()
		if cb.current.CompareAndSwap(state, next) {
			cb.bounces.Add(1)
			cb.logStateTransition(StateOpen, ZeroEventCount)
		}
	}
}

func (cb *circuitBreaker) exceedsFailureThreshold(count EventCount) bool {
	return cb.config.MinimumRequestThreshold() <= count.Total() &&
		cb.config.FailureRateThreshold() < count.FailureRate()
}

func (cb *circuitBreaker) nowMillis() int64 {
	return currentMillis(cb.clock)
}

func (cb *circuitBreaker) newClosedState() *State {
	return &State{
		circuitState: StateClosed,
		counter: NewSlidingWindowCounter(
			cb.clock,
			cb.config.CounterSlidingWindow().Milliseconds(),
			cb.config.CounterUpdateInterval().Milliseconds(),
		),
		startMillis:   cb.nowMillis(),
		timeoutMillis: 0,
	}
}

func (cb *circuitBreaker) newOpenState() *State {
	return &State{
		circuitState:  StateOpen,
		counter:       noOpCounterInstance,
		startMillis:   cb.nowMillis(),
		timeoutMillis: cb.config.CircuitOpenWindow().Milliseconds(),
	}
}

// newHalfOpenState picks the trial request interval for the upcoming
// probe. By default this is the fixed trialRequestInterval from the
// config, per §4.5. If a recovery backoff is configured and at least one
// HALF_OPEN->OPEN bounce has happened since the last CLOSED state, the
// interval is taken from the backoff instead, so each new HALF_OPEN state
// waits longer before re-admitting a probe whose outcome never arrived.
// The OPEN window that follows a bounce is not affected.
func (cb *circuitBreaker) newHalfOpenState() *State {
	timeout := cb.config.TrialRequestInterval()

	if rb := cb.config.RecoveryBackoff(); rb != nil && cb.bounces.Load() > 0 {
		timeout = rb.NextInterval()
	}

	return &State{
		circuitState:  StateHalfOpen,
		counter:       noOpCounterInstance,
		startMillis:   cb.nowMillis(),
		timeoutMillis: timeout.Milliseconds(),
	}
}

func (cb *circuitBreaker) logStateTransition(state CircuitState, count EventCount) {
	cb.collector.ReportState(state)
	cb.collector.ReportCount(EventTypeStateChange)

	fields := []Field{String("name", cb.name), String("state", state.String())}

	if count.Equal(ZeroEventCount) {
		fields = append(fields, String("fail", "-"), String("total", "-"))
	} else {
		fields = append(fields, Int64("fail", count.Failure()), Int64("total", count.Total()))
	}

	cb.logger.Info("circuit breaker state transition", fields...)
}
