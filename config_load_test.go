package breakerline

import (
	"time"

	"github.com/aphistic/sweet"
	. "github.com/onsi/gomega"
)

func (s *ConfigSuite) TestConfigFromMapAppliesRecognizedKeys(t sweet.T) {
	builder, err := ConfigFromMap("svc", map[string]string{
		"failureRateThreshold":    "0.25",
		"minimumRequestThreshold": "5",
		"trialRequestInterval":    "2s",
		"circuitOpenWindow":       "15s",
		"counterSlidingWindow":    "30s",
		"counterUpdateInterval":   "1s",
		"scope":                  "PER_METHOD",
	})
	Expect(err).To(BeNil())

	config, err := builder.Build()
	Expect(err).To(BeNil())

	Expect(config.FailureRateThreshold()).To(Equal(0.25))
	Expect(config.MinimumRequestThreshold()).To(Equal(int64(5)))
	Expect(config.TrialRequestInterval()).To(Equal(2 * time.Second))
	Expect(config.CircuitOpenWindow()).To(Equal(15 * time.Second))
	Expect(config.Scope()).To(Equal(ScopePerMethod))
}

func (s *ConfigSuite) TestConfigFromMapRejectsBadScope(t sweet.T) {
	_, err := ConfigFromMap("svc", map[string]string{"scope": "GLOBAL"})
	Expect(err).NotTo(BeNil())
}

func (s *ConfigSuite) TestConfigFromMapRejectsUnparsableNumber(t sweet.T) {
	_, err := ConfigFromMap("svc", map[string]string{"failureRateThreshold": "not-a-number"})
	Expect(err).NotTo(BeNil())
}

func (s *ConfigSuite) TestConfigFromMapIgnoresUnrecognizedKeys(t sweet.T) {
	builder, err := ConfigFromMap("svc", map[string]string{"unused": "whatever"})
	Expect(err).To(BeNil())

	_, err = builder.Build()
	Expect(err).To(BeNil())
}
