package generator

import (
	"time"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/logger"
)

// Default values applied by NewDriver when the corresponding Config field is
// left at its zero value.
var (
	// DefaultEventTypes is the fixed set cycled by Batch.
	DefaultEventTypes = []string{"login", "logout", "purchase", "page-view"}
)

const (
	// DefaultBatchDelay is the pause between consecutive batch publishes.
	// It is a courtesy to the target broker and registry, not a
	// correctness requirement.
	DefaultBatchDelay = 500 * time.Millisecond

	// DefaultUserPrefix prefixes the generated user IDs in batch mode.
	DefaultUserPrefix = "user"
)

// Config holds the configuration for a sample message Driver.
type Config struct {
	// EventTypes is the set of event types Batch cycles round-robin by
	// index. Default: DefaultEventTypes.
	EventTypes []string

	// BatchDelay is the fixed pause between batch publishes.
	// Default: 500 milliseconds.
	BatchDelay time.Duration

	// StopOnError aborts a batch on the first failed publish instead of
	// continuing with the remaining messages. Default: false — every
	// message is independently attempted and the report carries the
	// per-message outcome.
	StopOnError bool

	// Logger is an optional logger.
	Logger *logger.Logger
}

func (c *Config) applyDefaults() {
	if len(c.EventTypes) == 0 {
		c.EventTypes = DefaultEventTypes
	}
	if c.BatchDelay <= 0 {
		c.BatchDelay = DefaultBatchDelay
	}
}
