package logger

// Level represents the minimum severity of log entries that will be emitted.
type Level string

const (
	Debug   Level = "debug"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// Config holds the configuration for the logger.
type Config struct {
	// Level is the minimum log level to emit.
	// Default: Info
	Level Level

	// ServiceName is added as a default field to every log entry.
	ServiceName string

	// Console switches the encoder from JSON to a human-readable console
	// format. The sandbox CLI enables this; services should keep JSON.
	Console bool
}
