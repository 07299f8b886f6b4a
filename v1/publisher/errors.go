package publisher

import "fmt"

// PublishError is returned when a single publish operation fails. It carries
// the raw key/value JSON so a failed message is diagnosable from the error
// alone. Publish failures are never retried automatically; drivers isolate
// them per message.
type PublishError struct {
	Topic string
	Key   string
	Value string
	Err   error
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("publisher: publishing to %q failed (key=%s value=%s): %v",
		e.Topic, e.Key, e.Value, e.Err)
}

func (e *PublishError) Unwrap() error {
	return e.Err
}
