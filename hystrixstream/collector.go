package hystrixstream

import (
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/efritz/glock"
	"github.com/efritz/sse"

	"github.com/efritz/breakerline"
)

// Collector is a breakerline.NamedMetricCollector that republishes every
// breaker's lifecycle/count/duration/state events as a Hystrix
// dashboard-compatible server-sent-event stream. Grounded on the
// teacher's plugins.HystrixCollector; adapted to this package's
// MetricsBreakerConfig/EventType/CircuitState vocabulary and trimmed to
// the HystrixCommand frame only, since this subsystem has no thread pool
// or semaphore concept to report a HystrixThreadPool frame for.
type Collector struct {
	clock  glock.Clock
	events chan interface{}
	halt   chan struct{}

	mutex    sync.RWMutex
	breakers map[string]*breakerStats
}

// NewCollector creates a Collector. Call Start to begin streaming and
// Handler to obtain the http.Handler serving it.
func NewCollector() *Collector {
	return newCollectorWithClock(glock.NewRealClock())
}

func newCollectorWithClock(clock glock.Clock) *Collector {
	return &Collector{
		clock:    clock,
		events:   make(chan interface{}),
		halt:     make(chan struct{}),
		breakers: map[string]*breakerStats{},
	}
}

// Start begins the one-second emission loop. Must be called before
// Handler's stream produces any frames.
func (c *Collector) Start() {
	go func() {
		defer close(c.events)

		for {
			for _, name := range c.names() {
				frame := c.statsFor(name).freeze()

				if !c.send(commandFrame(name, frame)) {
					return
				}
			}

			select {
			case <-c.halt:
				return
			case <-time.After(time.Second):
			}
		}
	}()
}

// Stop halts the emission loop and closes the event stream.
func (c *Collector) Stop() {
	close(c.halt)
}

// Handler returns the http.Handler serving the SSE stream.
func (c *Collector) Handler() http.Handler {
	server := sse.NewServer(c.events)
	go server.Start()
	return server.ServeHTTP
}

func (c *Collector) ReportNew(name string, config breakerline.MetricsBreakerConfig) {
	c.mutex.Lock()
	c.breakers[name] = newBreakerStats(config, c.clock)
	c.mutex.Unlock()
}

func (c *Collector) ReportCount(name string, eventType breakerline.EventType) {
	c.statsFor(name).increment(eventType)
}

func (c *Collector) ReportDuration(name string, eventType breakerline.EventType, duration time.Duration) {
	c.statsFor(name).addDuration(eventType, duration)
}

func (c *Collector) ReportState(name string, state breakerline.CircuitState) {
	c.statsFor(name).setState(state)
}

func (c *Collector) names() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	names := make([]string, 0, len(c.breakers))
	for name := range c.breakers {
		names = append(names, name)
	}

	return names
}

func (c *Collector) statsFor(name string) *breakerStats {
	c.mutex.RLock()
	stats := c.breakers[name]
	c.mutex.RUnlock()

	return stats
}

func (c *Collector) send(frame map[string]interface{}) bool {
	select {
	case <-c.halt:
		return false
	case c.events <- frame:
		return true
	}
}

func commandFrame(name string, stats *frozenStats) map[string]interface{} {
	var (
		runDurations    = stats.durations[breakerline.EventTypeRunDuration]
		numErrors       = stats.counters[breakerline.EventTypeFailure]
		numRequests     = stats.counters[breakerline.EventTypeAttempt]
		errorPercentage = 0.0
	)

	if numRequests > 0 {
		errorPercentage = math.Min(1, float64(numErrors)/float64(numRequests)) * 100
	}

	properties := map[string]interface{}{
		"type":                        "HystrixCommand",
		"name":                        name,
		"group":                       name,
		"currentTime":                 time.Now().Unix(),
		"errorCount":                  numErrors,
		"requestCount":                numRequests,
		"errorPercentage":             errorPercentage,
		"rollingCountSuccess":         stats.counters[breakerline.EventTypeSuccess],
		"rollingCountFailure":         numErrors,
		"rollingCountShortCircuited":  stats.counters[breakerline.EventTypeShortCircuit],
		"latencyExecute":              latencies(runDurations),
		"latencyExecute_mean":         int(mean(runDurations) / time.Millisecond),
		"isCircuitBreakerOpen":        stats.state == breakerline.StateOpen,
		"propertyValue_circuitBreakerForceOpen": false,
	}

	for k, v := range constantCommandProperties {
		properties[k] = v
	}

	return properties
}

func latencies(values []time.Duration) map[string]interface{} {
	return map[string]interface{}{
		"0":    int(percentile(values, 0.000) / time.Millisecond),
		"25":   int(percentile(values, 0.250) / time.Millisecond),
		"50":   int(percentile(values, 0.500) / time.Millisecond),
		"75":   int(percentile(values, 0.750) / time.Millisecond),
		"90":   int(percentile(values, 0.900) / time.Millisecond),
		"95":   int(percentile(values, 0.950) / time.Millisecond),
		"99":   int(percentile(values, 0.990) / time.Millisecond),
		"99.5": int(percentile(values, 0.995) / time.Millisecond),
		"100":  int(percentile(values, 1.000) / time.Millisecond),
	}
}

var constantCommandProperties = map[string]interface{}{
	"currentConcurrentExecutionCount":                      0,
	"propertyValue_circuitBreakerEnabled":                  true,
	"propertyValue_circuitBreakerErrorThresholdPercentage":  0,
	"propertyValue_circuitBreakerForceClosed":               false,
	"propertyValue_circuitBreakerRequestVolumeThreshold":    0,
	"propertyValue_circuitBreakerSleepWindowInMilliseconds": 0,
	"propertyValue_metricsRollingStatisticalWindowInMilliseconds": 10000,
	"propertyValue_requestCacheEnabled":                     false,
	"propertyValue_requestLogEnabled":                       false,
	"reportingHosts":                                        1,
	"rollingCountCollapsedRequests":                         0,
	"rollingCountExceptionsThrown":                          0,
	"rollingCountFallbackFailure":                           0,
	"rollingCountFallbackSuccess":                           0,
	"rollingCountResponsesFromCache":                        0,
}
