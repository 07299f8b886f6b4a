package readiness

import "errors"

// ErrServiceUnavailable is returned when a service did not respond
// successfully within the configured probe budget.
var ErrServiceUnavailable = errors.New("readiness: service unavailable")

// IsServiceUnavailable checks if the error indicates an exhausted probe budget.
func IsServiceUnavailable(err error) bool {
	return errors.Is(err, ErrServiceUnavailable)
}
