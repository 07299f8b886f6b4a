package kafka

import "errors"

// Common errors returned by the kafka package.
var (
	// ErrBrokerUnreachable is returned when the broker cannot be contacted
	// at all (infrastructure failure, fatal for a bootstrap sequence).
	ErrBrokerUnreachable = errors.New("kafka: broker unreachable")

	// ErrProvisionFailed is returned when a topic create call is rejected
	// for a reason other than the topic already existing.
	ErrProvisionFailed = errors.New("kafka: topic provisioning failed")
)

// IsBrokerUnreachable checks if the error indicates an unreachable broker.
func IsBrokerUnreachable(err error) bool {
	return errors.Is(err, ErrBrokerUnreachable)
}

// IsProvisionFailed checks if the error indicates a rejected topic create.
func IsProvisionFailed(err error) bool {
	return errors.Is(err, ErrProvisionFailed)
}
