package breakerline

import "time"

type (
	// MetricCollector observes a breaker's lifecycle without participating
	// in the trip decision. Grounded on the teacher's metrics plane,
	// trimmed to the events this breaker actually emits.
	MetricCollector interface {
		// ReportNew fires once when a breaker is first constructed, so the
		// collector can track its immutable configuration.
		ReportNew(MetricsBreakerConfig)

		// ReportCount fires each time a non-latency event is emitted.
		ReportCount(EventType)

		// ReportDuration fires on latency events with the time spent inside
		// the wrapped invoker call.
		ReportDuration(EventType, time.Duration)

		// ReportState fires whenever a breaker changes state.
		ReportState(CircuitState)
	}

	// MetricsBreakerConfig is a read-only projection of a breaker's
	// configuration handed to collectors on ReportNew. It is distinct from
	// CircuitBreakerConfig: collectors must never see or mutate the live
	// breaker config, only a frozen copy of the fields they report on.
	MetricsBreakerConfig struct {
		RemoteServiceName       string
		Scope                   Scope
		MinimumRequestThreshold int64
	}

	// EventType distinguishes interesting breaker occurrences.
	EventType int
)

const (
	// EventTypeAttempt occurs every time canRequest is consulted.
	EventTypeAttempt EventType = iota

	// EventTypeSuccess occurs when onSuccess is reported to a CLOSED or
	// HALF_OPEN breaker.
	EventTypeSuccess

	// EventTypeFailure occurs when onFailure is reported to a CLOSED or
	// HALF_OPEN breaker.
	EventTypeFailure

	// EventTypeShortCircuit occurs when canRequest refuses and the
	// decorator fails fast without invoking the delegate.
	EventTypeShortCircuit

	// EventTypeStateChange occurs whenever the breaker transitions state.
	EventTypeStateChange

	// EventTypeRunDuration marks the wall time spent inside the delegate
	// invoker call admitted by canRequest.
	EventTypeRunDuration
)

func (t EventType) String() string {
	switch t {
	case EventTypeAttempt:
		return "attempt"
	case EventTypeSuccess:
		return "success"
	case EventTypeFailure:
		return "failure"
	case EventTypeShortCircuit:
		return "short_circuit"
	case EventTypeStateChange:
		return "state_change"
	case EventTypeRunDuration:
		return "run_duration"
	default:
		return "unknown"
	}
}

// noopCollector discards every event. It is the default MetricCollector.
type noopCollector struct{}

// NewNoopCollector returns a MetricCollector that discards every event.
func NewNoopCollector() MetricCollector {
	return &noopCollector{}
}

func (c *noopCollector) ReportNew(MetricsBreakerConfig)        {}
func (c *noopCollector) ReportCount(EventType)                 {}
func (c *noopCollector) ReportDuration(EventType, time.Duration) {}
func (c *noopCollector) ReportState(CircuitState)              {}
