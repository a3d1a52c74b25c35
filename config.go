package breakerline

import (
	"fmt"
	"time"

	"github.com/efritz/backoff"
)

// Scope is the policy controlling how many CircuitBreakers a decorator
// creates for a single remote service.
type Scope int

const (
	// ScopeService shares one CircuitBreaker among every method of the
	// remote service.
	ScopeService Scope = iota

	// ScopePerMethod binds one CircuitBreaker per method name.
	ScopePerMethod
)

func (s Scope) String() string {
	switch s {
	case ScopeService:
		return "SERVICE"
	case ScopePerMethod:
		return "PER_METHOD"
	default:
		return "UNKNOWN"
	}
}

// Default values, taken from the source this breaker's algorithm is
// modeled on.
const (
	DefaultFailureRateThreshold   = 0.8
	DefaultMinimumRequestThreshold = 10
	DefaultScope                 = ScopeService
)

var (
	// DefaultTrialRequestInterval is how long a single HALF_OPEN probe is
	// admitted to stay outstanding before another is let through.
	DefaultTrialRequestInterval = 3 * time.Second

	// DefaultCircuitOpenWindow is how long a breaker stays OPEN before
	// admitting a HALF_OPEN probe.
	DefaultCircuitOpenWindow = 10 * time.Second

	// DefaultCounterSlidingWindow is the width of the CLOSED-state rolling
	// window used to compute the failure rate.
	DefaultCounterSlidingWindow = 20 * time.Second

	// DefaultCounterUpdateInterval is the bucket granularity of the
	// sliding window counter.
	DefaultCounterUpdateInterval = time.Second
)

// CircuitBreakerConfig is a validated, immutable configuration bundle for
// a CircuitBreaker. Build one with NewCircuitBreakerConfigBuilder.
type CircuitBreakerConfig struct {
	remoteServiceName      string
	failureRateThreshold   float64
	scope                  Scope
	clock                  Clock
	failureFilter          FailureFilter
	minimumRequestThreshold int64
	trialRequestInterval   time.Duration
	circuitOpenWindow      time.Duration
	counterSlidingWindow   time.Duration
	counterUpdateInterval  time.Duration
	recoveryBackoff        backoff.Backoff
	collector              MetricCollector
	logger                 Logger
}

func (c CircuitBreakerConfig) RemoteServiceName() string         { return c.remoteServiceName }
func (c CircuitBreakerConfig) FailureRateThreshold() float64     { return c.failureRateThreshold }
func (c CircuitBreakerConfig) Scope() Scope                      { return c.scope }
func (c CircuitBreakerConfig) FailureFilter() FailureFilter       { return c.failureFilter }
func (c CircuitBreakerConfig) MinimumRequestThreshold() int64     { return c.minimumRequestThreshold }
func (c CircuitBreakerConfig) TrialRequestInterval() time.Duration { return c.trialRequestInterval }
func (c CircuitBreakerConfig) CircuitOpenWindow() time.Duration   { return c.circuitOpenWindow }
func (c CircuitBreakerConfig) CounterSlidingWindow() time.Duration { return c.counterSlidingWindow }
func (c CircuitBreakerConfig) CounterUpdateInterval() time.Duration {
	return c.counterUpdateInterval
}
func (c CircuitBreakerConfig) RecoveryBackoff() backoff.Backoff { return c.recoveryBackoff }
func (c CircuitBreakerConfig) Collector() MetricCollector       { return c.collector }
func (c CircuitBreakerConfig) Logger() Logger                   { return c.logger }
func (c CircuitBreakerConfig) clockOrDefault() Clock            { return c.clock }

func (c CircuitBreakerConfig) String() string {
	return fmt.Sprintf(
		"CircuitBreakerConfig{remoteServiceName=%s, failureRateThreshold=%v, scope=%v, "+
			"minimumRequestThreshold=%d, trialRequestInterval=%v, circuitOpenWindow=%v, "+
			"counterSlidingWindow=%v, counterUpdateInterval=%v}",
		c.remoteServiceName, c.failureRateThreshold, c.scope, c.minimumRequestThreshold,
		c.trialRequestInterval, c.circuitOpenWindow, c.counterSlidingWindow, c.counterUpdateInterval,
	)
}

// CircuitBreakerConfigBuilder builds a CircuitBreakerConfig using the
// fluent builder pattern. Create one with NewCircuitBreakerConfigBuilder.
type CircuitBreakerConfigBuilder struct {
	remoteServiceName      string
	failureRateThreshold   float64
	scope                  Scope
	clock                  Clock
	failureFilter          FailureFilter
	minimumRequestThreshold int64
	trialRequestInterval   time.Duration
	circuitOpenWindow      time.Duration
	counterSlidingWindow   time.Duration
	counterUpdateInterval  time.Duration
	recoveryBackoff        backoff.Backoff
	collector              MetricCollector
	logger                 Logger
	err                    error
}

// NewCircuitBreakerConfigBuilder creates a new builder for the named
// remote service. remoteServiceName must be non-empty; an empty name is
// recorded as a build-time error, surfaced from Build().
func NewCircuitBreakerConfigBuilder(remoteServiceName string) *CircuitBreakerConfigBuilder {
	b := &CircuitBreakerConfigBuilder{
		remoteServiceName:      remoteServiceName,
		failureRateThreshold:   DefaultFailureRateThreshold,
		scope:                  DefaultScope,
		clock:                  NewRealClock(),
		failureFilter:          AcceptAllFailureFilter(),
		minimumRequestThreshold: DefaultMinimumRequestThreshold,
		trialRequestInterval:   DefaultTrialRequestInterval,
		circuitOpenWindow:      DefaultCircuitOpenWindow,
		counterSlidingWindow:   DefaultCounterSlidingWindow,
		counterUpdateInterval:  DefaultCounterUpdateInterval,
		collector:              NewNoopCollector(),
		logger:                 NewNoopLogger(),
	}

	if remoteServiceName == "" {
		b.err = fmt.Errorf("remoteServiceName must not be empty")
	}

	return b
}

// FailureRateThreshold sets the failure rate (0 exclusive, 1 inclusive)
// above which a CLOSED breaker trips to OPEN.
func (b *CircuitBreakerConfigBuilder) FailureRateThreshold(threshold float64) *CircuitBreakerConfigBuilder {
	if threshold <= 0 || threshold > 1 {
		b.err = fmt.Errorf("failureRateThreshold must be between 0 (exclusive) and 1 (inclusive)")
		return b
	}
	b.failureRateThreshold = threshold
	return b
}

// WithScope sets the breaker scoping policy.
func (b *CircuitBreakerConfigBuilder) WithScope(scope Scope) *CircuitBreakerConfigBuilder {
	if scope != ScopeService && scope != ScopePerMethod {
		b.err = fmt.Errorf("scope must be ScopeService or ScopePerMethod")
		return b
	}
	b.scope = scope
	return b
}

// MinimumRequestThreshold sets the minimum number of requests within the
// sliding window necessary before a failure rate is trusted.
func (b *CircuitBreakerConfigBuilder) MinimumRequestThreshold(threshold int64) *CircuitBreakerConfigBuilder {
	if threshold < 0 {
		b.err = fmt.Errorf("minimumRequestThreshold must be >= 0")
		return b
	}
	b.minimumRequestThreshold = threshold
	return b
}

// TrialRequestInterval sets the spacing between HALF_OPEN probes.
func (b *CircuitBreakerConfigBuilder) TrialRequestInterval(interval time.Duration) *CircuitBreakerConfigBuilder {
	if interval <= 0 {
		b.err = fmt.Errorf("trialRequestInterval must be greater than zero")
		return b
	}
	b.trialRequestInterval = interval
	return b
}

// CircuitOpenWindow sets how long the breaker stays OPEN before admitting
// a HALF_OPEN probe.
func (b *CircuitBreakerConfigBuilder) CircuitOpenWindow(window time.Duration) *CircuitBreakerConfigBuilder {
	if window <= 0 {
		b.err = fmt.Errorf("circuitOpenWindow must be greater than zero")
		return b
	}
	b.circuitOpenWindow = window
	return b
}

// CounterSlidingWindow sets the width of the CLOSED-state rolling window.
func (b *CircuitBreakerConfigBuilder) CounterSlidingWindow(window time.Duration) *CircuitBreakerConfigBuilder {
	if window <= 0 {
		b.err = fmt.Errorf("counterSlidingWindow must be greater than zero")
		return b
	}
	b.counterSlidingWindow = window
	return b
}

// CounterUpdateInterval sets the bucket granularity of the sliding window
// counter.
func (b *CircuitBreakerConfigBuilder) CounterUpdateInterval(interval time.Duration) *CircuitBreakerConfigBuilder {
	if interval <= 0 {
		b.err = fmt.Errorf("counterUpdateInterval must be greater than zero")
		return b
	}
	b.counterUpdateInterval = interval
	return b
}

// WithFailureFilter sets the predicate deciding whether an observed cause
// should count toward tripping.
func (b *CircuitBreakerConfigBuilder) WithFailureFilter(filter FailureFilter) *CircuitBreakerConfigBuilder {
	if filter == nil {
		b.err = fmt.Errorf("failureFilter must not be nil")
		return b
	}
	b.failureFilter = filter
	return b
}

// WithRecoveryBackoff replaces the fixed trialRequestInterval cadence
// with a backoff sequence: once a HALF_OPEN probe has bounced back to
// OPEN since the last CLOSED state, every new HALF_OPEN state takes its
// trial interval from the backoff instead of trialRequestInterval. The
// OPEN window before the next probe stays circuitOpenWindow. Disabled
// (nil) by default.
func (b *CircuitBreakerConfigBuilder) WithRecoveryBackoff(recoveryBackoff backoff.Backoff) *CircuitBreakerConfigBuilder {
	b.recoveryBackoff = recoveryBackoff
	return b
}

// WithCollector sets the MetricCollector notified of breaker lifecycle,
// count, duration and state events.
func (b *CircuitBreakerConfigBuilder) WithCollector(collector MetricCollector) *CircuitBreakerConfigBuilder {
	if collector == nil {
		b.err = fmt.Errorf("collector must not be nil")
		return b
	}
	b.collector = collector
	return b
}

// WithLogger sets the Logger that receives an info line on every state
// transition.
func (b *CircuitBreakerConfigBuilder) WithLogger(logger Logger) *CircuitBreakerConfigBuilder {
	if logger == nil {
		b.err = fmt.Errorf("logger must not be nil")
		return b
	}
	b.logger = logger
	return b
}

// withClock overrides the clock used by the breaker and its counter.
// Unexported: only tests reach in to install a mock clock.
func (b *CircuitBreakerConfigBuilder) withClock(clock Clock) *CircuitBreakerConfigBuilder {
	b.clock = clock
	return b
}

// Build validates the accumulated settings and returns an immutable
// CircuitBreakerConfig, or a validation error. When several setters were
// given invalid values, the error of the last one is returned; the
// window/interval comparison runs only when no setter recorded an error.
func (b *CircuitBreakerConfigBuilder) Build() (CircuitBreakerConfig, error) {
	if b.err != nil {
		return CircuitBreakerConfig{}, b.err
	}

	if b.counterSlidingWindow <= b.counterUpdateInterval {
		return CircuitBreakerConfig{}, fmt.Errorf("counterSlidingWindow must be greater than counterUpdateInterval")
	}

	return CircuitBreakerConfig{
		remoteServiceName:      b.remoteServiceName,
		failureRateThreshold:   b.failureRateThreshold,
		scope:                  b.scope,
		clock:                  b.clock,
		failureFilter:          b.failureFilter,
		minimumRequestThreshold: b.minimumRequestThreshold,
		trialRequestInterval:   b.trialRequestInterval,
		circuitOpenWindow:      b.circuitOpenWindow,
		counterSlidingWindow:   b.counterSlidingWindow,
		counterUpdateInterval:  b.counterUpdateInterval,
		recoveryBackoff:        b.recoveryBackoff,
		collector:              b.collector,
		logger:                 b.logger,
	}, nil
}
