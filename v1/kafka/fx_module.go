package kafka

import (
	"context"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/logger"
	"go.uber.org/fx"
)

// FXModule defines the Fx module for the kafka package.
//
// The module provides the Kafka client and the topic provisioner, and
// registers a lifecycle hook that flushes and closes the writer on shutdown.
//
// Dependencies required by this module:
//   - A kafka.Config instance must be available in the container
//   - A *logger.Logger instance (provided by logger.FXModule)
var FXModule = fx.Module("kafka",
	fx.Provide(
		NewClient,
		func(client *KafkaClient, log *logger.Logger) *Provisioner {
			return NewProvisioner(client, log)
		},
	),
	fx.Invoke(RegisterKafkaLifecycle),
)

// RegisterKafkaLifecycle registers the Kafka client with the fx lifecycle
// system so that pending messages are flushed before the application exits.
func RegisterKafkaLifecycle(lc fx.Lifecycle, client *KafkaClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.GracefulShutdown()
		},
	})
}
