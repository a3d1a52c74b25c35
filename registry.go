package breakerline

import "sync"

// scopeContainer implements the breaker registry of §4.6: it maps a
// method name to the CircuitBreaker that should police it, per the
// configured Scope. Callers never see scopeContainer directly - it is an
// implementation detail of the invoker decorator's breaker resolution.
type scopeContainer interface {
	get(methodName string) CircuitBreaker
}

// serviceWideContainer is the ScopeService policy: one CircuitBreaker is
// constructed eagerly at decorator creation and returned for every
// method.
type serviceWideContainer struct {
	breaker CircuitBreaker
}

func (c *serviceWideContainer) get(methodName string) CircuitBreaker {
	return c.breaker
}

// perMethodContainer is the ScopePerMethod policy: one CircuitBreaker per
// method name, created on first use and installed atomically so exactly
// one instance exists per method even under concurrent first-lookups.
type perMethodContainer struct {
	remoteServiceName string
	config            CircuitBreakerConfig

	mutex    sync.RWMutex
	breakers map[string]CircuitBreaker
}

func newPerMethodContainer(config CircuitBreakerConfig) *perMethodContainer {
	return &perMethodContainer{
		remoteServiceName: config.RemoteServiceName(),
		config:            config,
		breakers:          map[string]CircuitBreaker{},
	}
}

func (c *perMethodContainer) get(methodName string) CircuitBreaker {
	c.mutex.RLock()
	breaker, ok := c.breakers[methodName]
	c.mutex.RUnlock()

	if ok {
		return breaker
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Another goroutine may have installed one while we waited for the
	// write lock.
	if breaker, ok := c.breakers[methodName]; ok {
		return breaker
	}

	breaker = NewCircuitBreaker(c.remoteServiceName+"#"+methodName, c.config)
	c.breakers[methodName] = breaker

	return breaker
}

// newScopeContainer builds the registry matching config's Scope.
func newScopeContainer(config CircuitBreakerConfig) scopeContainer {
	if config.Scope() == ScopePerMethod {
		return newPerMethodContainer(config)
	}

	return &serviceWideContainer{
		breaker: NewCircuitBreaker(config.RemoteServiceName(), config),
	}
}
