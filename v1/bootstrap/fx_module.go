package bootstrap

import (
	"github.com/Aleph-Alpha/kafka-sandbox/v1/kafka"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/network"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/readiness"
	"github.com/Aleph-Alpha/kafka-sandbox/v1/schema_registry"
	"go.uber.org/fx"
)

// FXModule defines the Fx module for the bootstrap package.
//
// Dependencies required by this module:
//   - A bootstrap.Config instance
//   - *readiness.Gate (provided by readiness.FXModule)
//   - *kafka.KafkaClient and *kafka.Provisioner (provided by kafka.FXModule)
//   - *schema_registry.Client (provided by schema_registry.FXModule)
//   - *network.Reconciler (provided by network.FXModule)
var FXModule = fx.Module("bootstrap",
	fx.Provide(
		func(
			gate *readiness.Gate,
			client *kafka.KafkaClient,
			provisioner *kafka.Provisioner,
			registry *schema_registry.Client,
			reconciler *network.Reconciler,
			cfg Config,
		) *Orchestrator {
			probes := map[string]readiness.Probe{
				"broker":          client.Probe,
				"schema-registry": registry.Probe,
			}
			return NewOrchestrator(gate, provisioner, registry, reconciler, probes, cfg)
		},
	),
)
