package breakerline

// FailureFilter decides whether a failure cause observed by the invoker
// decorator should count toward a breaker's trip decision. Implementers
// may ignore causes that are application-level rather than
// infrastructure-level (e.g. a 404-equivalent) so they never count toward
// tripping.
type FailureFilter interface {
	// ShouldDealWith returns true if the given cause should be reported
	// to the breaker via OnFailure.
	ShouldDealWith(cause error) bool
}

// acceptAllFailureFilter is the default FailureFilter: every cause counts.
type acceptAllFailureFilter struct{}

// AcceptAllFailureFilter returns the default FailureFilter, which treats
// every observed cause as a breaker failure.
func AcceptAllFailureFilter() FailureFilter {
	return acceptAllFailureFilter{}
}

func (acceptAllFailureFilter) ShouldDealWith(cause error) bool {
	return true
}

// FailureFilterFunc adapts a plain func into a FailureFilter.
type FailureFilterFunc func(cause error) bool

// ShouldDealWith calls the underlying function.
func (f FailureFilterFunc) ShouldDealWith(cause error) bool {
	return f(cause)
}
