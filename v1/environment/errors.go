package environment

import "errors"

// ErrEnvironmentFailed indicates the sandbox container or network could not
// be brought into the requested state.
var ErrEnvironmentFailed = errors.New("environment operation failed")

// IsEnvironmentFailed checks whether the error is ErrEnvironmentFailed.
func IsEnvironmentFailed(err error) bool {
	return errors.Is(err, ErrEnvironmentFailed)
}
