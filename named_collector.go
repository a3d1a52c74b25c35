package breakerline

import "time"

type (
	// NamedMetricCollector is MetricCollector with the breaker name passed
	// as the first argument to every method, for backends that aggregate
	// by name rather than holding one collector instance per breaker.
	NamedMetricCollector interface {
		ReportNew(string, MetricsBreakerConfig)
		ReportCount(string, EventType)
		ReportDuration(string, EventType, time.Duration)
		ReportState(string, CircuitState)
	}

	namedCollector struct {
		name      string
		collector NamedMetricCollector
	}
)

// NamedCollector adapts a NamedMetricCollector into a MetricCollector,
// fixing the name argument to the given breaker name.
func NamedCollector(name string, collector NamedMetricCollector) MetricCollector {
	return &namedCollector{
		name:      name,
		collector: collector,
	}
}

func (c *namedCollector) ReportNew(config MetricsBreakerConfig) {
	c.collector.ReportNew(c.name, config)
}

func (c *namedCollector) ReportCount(eventType EventType) {
	c.collector.ReportCount(c.name, eventType)
}

func (c *namedCollector) ReportDuration(eventType EventType, duration time.Duration) {
	c.collector.ReportDuration(c.name, eventType, duration)
}

func (c *namedCollector) ReportState(state CircuitState) {
	c.collector.ReportState(c.name, state)
}
