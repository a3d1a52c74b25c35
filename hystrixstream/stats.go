package hystrixstream

import (
	"sort"
	"sync"
	"time"

	"github.com/efritz/glock"

	"github.com/efritz/breakerline"
)

// breakerStats is the per-breaker rolling bucketed accumulator behind the
// stream's one-second HystrixCommand frames. Adapted from the teacher's
// hystrix.BreakerStats: bucketed by wall-clock second so a trailing
// window of counts/durations survives past any single Report call,
// without needing the breaker's own sliding window machinery.
type breakerStats struct {
	config  breakerline.MetricsBreakerConfig
	state   breakerline.CircuitState
	buckets map[int64]*statsBucket
	mutex   sync.Mutex
	clock   glock.Clock
}

type statsBucket struct {
	counters  map[breakerline.EventType]int
	durations map[breakerline.EventType][]time.Duration
}

// frozenStats is an immutable, lock-free-to-read snapshot of a
// breakerStats window, suitable for rendering into a stream frame.
type frozenStats struct {
	config    breakerline.MetricsBreakerConfig
	state     breakerline.CircuitState
	counters  map[breakerline.EventType]int
	durations map[breakerline.EventType][]time.Duration
}

func newBreakerStats(config breakerline.MetricsBreakerConfig, clock glock.Clock) *breakerStats {
	return &breakerStats{
		config:  config,
		buckets: map[int64]*statsBucket{},
		clock:   clock,
	}
}

func (s *breakerStats) setState(state breakerline.CircuitState) {
	s.mutex.Lock()
	s.state = state
	s.mutex.Unlock()
}

func (s *breakerStats) increment(eventType breakerline.EventType) {
	s.mutex.Lock()
	bucket := s.currentBucket()
	bucket.counters[eventType] = bucket.counters[eventType] + 1
	s.mutex.Unlock()
}

func (s *breakerStats) addDuration(eventType breakerline.EventType, duration time.Duration) {
	s.mutex.Lock()
	bucket := s.currentBucket()
	bucket.durations[eventType] = append(bucket.durations[eventType], duration)
	s.mutex.Unlock()
}

// currentBucket must be called with the mutex held.
func (s *breakerStats) currentBucket() *statsBucket {
	now := s.clock.Now().Unix()

	if bucket, ok := s.buckets[now]; ok {
		return bucket
	}

	bucket := &statsBucket{
		counters:  map[breakerline.EventType]int{},
		durations: map[breakerline.EventType][]time.Duration{},
	}

	s.buckets[now] = bucket
	return bucket
}

// freeze sums every still-live bucket (the trailing 10 seconds) into a
// single snapshot and evicts anything older.
func (s *breakerStats) freeze() *frozenStats {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.currentBucket()

	counters := map[breakerline.EventType]int{}
	durations := map[breakerline.EventType][]time.Duration{}

	for _, ts := range s.liveBucketTimestamps() {
		bucket := s.buckets[ts]

		for k, v := range bucket.counters {
			counters[k] = counters[k] + v
		}
		for k, v := range bucket.durations {
			durations[k] = append(durations[k], v...)
		}
	}

	return &frozenStats{
		config:    s.config,
		state:     s.state,
		counters:  counters,
		durations: sortDurationMap(durations),
	}
}

// liveBucketTimestamps evicts bucket keys 10 or more seconds old and
// returns the remaining keys in ascending order, mirroring the teacher's
// rolling-window eviction.
func (s *breakerStats) liveBucketTimestamps() []int64 {
	expiry := s.clock.Now().Unix() - 10

	var order []int64
	for ts := range s.buckets {
		order = append(order, ts)
	}

	sort.Slice(order, func(a, b int) bool { return order[a] < order[b] })

	for len(order) > 1 && order[0] <= expiry {
		delete(s.buckets, order[0])
		order = order[1:]
	}

	return order
}

func sortDurationMap(values map[breakerline.EventType][]time.Duration) map[breakerline.EventType][]time.Duration {
	for k, v := range values {
		values[k] = sortDurations(v)
	}

	return values
}

func sortDurations(values []time.Duration) []time.Duration {
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return values
}
