package publisher

import (
	"github.com/Aleph-Alpha/kafka-sandbox/v1/kafka"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/schema_registry"
	"go.uber.org/fx"
)

// FXModule defines the Fx module for the publisher package.
//
// Dependencies required by this module:
//   - A publisher.Config instance
//   - schema_registry.Registry (provided by schema_registry.FXModule)
//   - *kafka.KafkaClient (provided by kafka.FXModule)
var FXModule = fx.Module("publisher",
	fx.Provide(
		func(registry schema_registry.Registry, client *kafka.KafkaClient, cfg Config) (*Publisher, error) {
			return NewPublisher(registry, client, cfg)
		},
	),
)
