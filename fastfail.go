package breakerline

import "fmt"

// FailFastException is the sentinel failure the invoker decorator
// surfaces when a call is short-circuited because its breaker refused
// CanRequest. It is the only error type this subsystem generates at
// runtime; callers may recover from it, e.g. via a fallback path.
type FailFastException struct {
	RemoteServiceName string
	MethodName        string
}

// NewFailFastException creates a FailFastException for the given service
// and method.
func NewFailFastException(remoteServiceName, methodName string) *FailFastException {
	return &FailFastException{RemoteServiceName: remoteServiceName, MethodName: methodName}
}

func (e *FailFastException) Error() string {
	return fmt.Sprintf("circuit breaker open for %s#%s: call refused without reaching the remote service",
		e.RemoteServiceName, e.MethodName)
}
