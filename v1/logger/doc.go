// Package logger provides structured logging for the kafka-sandbox module.
//
// It wraps Uber's Zap logger behind a small set of leveled methods that take
// a message, an optional error, and optional structured field maps:
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:       logger.Info,
//		ServiceName: "kafka-sandbox",
//	})
//
//	log.Info("topic provisioned", nil, map[string]interface{}{
//		"topic":      "incoming-topic",
//		"partitions": 3,
//	})
//
// For fx-based wiring, use FXModule, which provides *Logger and registers a
// shutdown hook that flushes buffered entries:
//
//	app := fx.New(
//		logger.FXModule,
//		fx.Provide(func() logger.Config { return cfg }),
//		// ...
//	)
//
// Packages in this module that need logging declare their own narrow Logger
// interface (or take *logger.Logger directly) so tests can pass fakes.
//
// All methods are safe for concurrent use by multiple goroutines.
package logger
