package publisher

import "github.com/Aleph-Alpha/kafka-sandbox/v1/logger"

// Config defines the configuration for a schema-pinned publisher. One
// publisher is bound to one topic.
type Config struct {
	// Topic is the target topic.
	Topic string

	// KeySubject is the registry subject holding the key schema.
	// Default: "<Topic>-key"
	KeySubject string

	// ValueSubject is the registry subject holding the value schema.
	// Default: "<Topic>-value"
	ValueSubject string

	// Logger is an optional logger.
	Logger *logger.Logger
}

// applyDefaults fills in the conventional subject names.
func (c *Config) applyDefaults() {
	if c.KeySubject == "" {
		c.KeySubject = c.Topic + "-key"
	}
	if c.ValueSubject == "" {
		c.ValueSubject = c.Topic + "-value"
	}
}
