package breakerline

import (
	"time"

	"github.com/aphistic/sweet"
	. "github.com/onsi/gomega"
)

type CollectorSuite struct{}

type recordingCollector struct {
	counts []EventType
	states []CircuitState
	news   []MetricsBreakerConfig
}

func (c *recordingCollector) ReportNew(config MetricsBreakerConfig) {
	c.news = append(c.news, config)
}

func (c *recordingCollector) ReportCount(eventType EventType) {
	c.counts = append(c.counts, eventType)
}

func (c *recordingCollector) ReportDuration(eventType EventType, duration time.Duration) {}

func (c *recordingCollector) ReportState(state CircuitState) {
	c.states = append(c.states, state)
}

func (s *CollectorSuite) TestMultiCollectorFansOutInOrder(t sweet.T) {
	first := &recordingCollector{}
	second := &recordingCollector{}
	multi := NewMultiCollector(first, second)

	multi.ReportCount(EventTypeSuccess)
	multi.ReportState(StateOpen)

	Expect(first.counts).To(Equal([]EventType{EventTypeSuccess}))
	Expect(second.counts).To(Equal([]EventType{EventTypeSuccess}))
	Expect(first.states).To(Equal([]CircuitState{StateOpen}))
	Expect(second.states).To(Equal([]CircuitState{StateOpen}))
}

type namedRecordingCollector struct {
	names []string
}

func (c *namedRecordingCollector) ReportNew(name string, config MetricsBreakerConfig) {
	c.names = append(c.names, name)
}

func (c *namedRecordingCollector) ReportCount(name string, eventType EventType) {
	c.names = append(c.names, name)
}

func (c *namedRecordingCollector) ReportDuration(name string, eventType EventType, duration time.Duration) {
}

func (c *namedRecordingCollector) ReportState(name string, state CircuitState) {
	c.names = append(c.names, name)
}

func (s *CollectorSuite) TestNamedCollectorFixesName(t sweet.T) {
	backend := &namedRecordingCollector{}
	collector := NamedCollector("payments#charge", backend)

	collector.ReportCount(EventTypeAttempt)
	collector.ReportState(StateClosed)

	Expect(backend.names).To(Equal([]string{"payments#charge", "payments#charge"}))
}

func (s *CollectorSuite) TestNoopCollectorDiscardsEverything(t sweet.T) {
	collector := NewNoopCollector()

	Expect(func() {
		collector.ReportNew(MetricsBreakerConfig{})
		collector.ReportCount(EventTypeFailure)
		collector.ReportDuration(EventTypeRunDuration, time.Millisecond)
		collector.ReportState(StateHalfOpen)
	}).NotTo(Panic())
}
