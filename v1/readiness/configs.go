package readiness

import (
	"time"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/logger"
)

// Default values applied by NewGate when the corresponding Config field is
// left at its zero value.
const (
	// DefaultInterval is the pause between consecutive probe attempts.
	DefaultInterval = 2 * time.Second
)

// Config holds the configuration for a readiness Gate.
type Config struct {
	// Interval is the fixed pause between probe attempts.
	// Default: 2 seconds
	Interval time.Duration

	// MaxAttempts bounds the number of probes per service. A value of zero
	// or less means unbounded polling; callers that need a guaranteed
	// return (tests, CI) must set a positive bound.
	MaxAttempts int

	// Logger is an optional logger. If nil, the gate stays silent and only
	// reports through its return values.
	Logger *logger.Logger
}
