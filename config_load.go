package breakerline

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cast"
)

// ConfigFromMap builds a CircuitBreakerConfigBuilder from flat string
// settings, tolerantly converting each recognized key's value via
// github.com/spf13/cast before handing it to the matching builder
// setter, so every validation rule in the builder still runs unchanged.
// Unrecognized keys are ignored; a value that cannot be converted to the
// setter's expected type is returned as an error immediately.
func ConfigFromMap(remoteServiceName string, settings map[string]string) (*CircuitBreakerConfigBuilder, error) {
	builder := NewCircuitBreakerConfigBuilder(remoteServiceName)

	if raw, ok := settings["failureRateThreshold"]; ok {
		value, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, fmt.Errorf("failureRateThreshold: %w", err)
		}
		builder.FailureRateThreshold(value)
	}

	if raw, ok := settings["minimumRequestThreshold"]; ok {
		value, err := cast.ToInt64E(raw)
		if err != nil {
			return nil, fmt.Errorf("minimumRequestThreshold: %w", err)
		}
		builder.MinimumRequestThreshold(value)
	}

	if raw, ok := settings["trialRequestInterval"]; ok {
		value, err := cast.ToDurationE(raw)
		if err != nil {
			return nil, fmt.Errorf("trialRequestInterval: %w", err)
		}
		builder.TrialRequestInterval(value)
	}

	if raw, ok := settings["circuitOpenWindow"]; ok {
		value, err := cast.ToDurationE(raw)
		if err != nil {
			return nil, fmt.Errorf("circuitOpenWindow: %w", err)
		}
		builder.CircuitOpenWindow(value)
	}

	if raw, ok := settings["counterSlidingWindow"]; ok {
		value, err := cast.ToDurationE(raw)
		if err != nil {
			return nil, fmt.Errorf("counterSlidingWindow: %w", err)
		}
		builder.CounterSlidingWindow(value)
	}

	if raw, ok := settings["counterUpdateInterval"]; ok {
		value, err := cast.ToDurationE(raw)
		if err != nil {
			return nil, fmt.Errorf("counterUpdateInterval: %w", err)
		}
		builder.CounterUpdateInterval(value)
	}

	if raw, ok := settings["scope"]; ok {
		scope, err := parseScope(raw)
		if err != nil {
			return nil, err
		}
		builder.WithScope(scope)
	}

	return builder, nil
}

// ConfigFromEnv is ConfigFromMap sourced from environment variables
// prefixed with "BREAKERLINE_" + upper-snake-cased setting name (e.g.
// BREAKERLINE_FAILURE_RATE_THRESHOLD), for services that assemble their
// breaker configuration declaratively rather than in code.
func ConfigFromEnv(remoteServiceName string) (*CircuitBreakerConfigBuilder, error) {
	settings := map[string]string{}

	for key, envName := range envKeys {
		if value, ok := os.LookupEnv(envName); ok {
			settings[key] = value
		}
	}

	return ConfigFromMap(remoteServiceName, settings)
}

var envKeys = map[string]string{
	"failureRateThreshold":    "BREAKERLINE_FAILURE_RATE_THRESHOLD",
	"minimumRequestThreshold": "BREAKERLINE_MINIMUM_REQUEST_THRESHOLD",
	"trialRequestInterval":    "BREAKERLINE_TRIAL_REQUEST_INTERVAL",
	"circuitOpenWindow":       "BREAKERLINE_CIRCUIT_OPEN_WINDOW",
	"counterSlidingWindow":    "BREAKERLINE_COUNTER_SLIDING_WINDOW",
	"counterUpdateInterval":   "BREAKERLINE_COUNTER_UPDATE_INTERVAL",
	"scope":                   "BREAKERLINE_SCOPE",
}

func parseScope(raw string) (Scope, error) {
	switch strings.ToUpper(raw) {
	case "SERVICE":
		return ScopeService, nil
	case "PER_METHOD":
		return ScopePerMethod, nil
	default:
		return 0, fmt.Errorf("scope: unrecognized value %q", raw)
	}
}
