// Package kafka provides the broker-facing client for the sandbox: topic
// administration, a readiness probe, and the raw produce path.
//
// The KafkaClient wraps segmentio/kafka-go's administrative client and
// writer. It deliberately exposes a narrow surface — list topics, create
// topic, probe, publish raw bytes — because everything above it (schema
// resolution, Avro encoding, message generation) lives in its own package.
//
// Basic usage:
//
//	client, err := kafka.NewClient(kafka.Config{
//		Brokers: []string{"localhost:9092"},
//	})
//	if err != nil {
//		return err
//	}
//	defer client.GracefulShutdown()
//
//	prov := kafka.NewProvisioner(client, log)
//	outcome, err := prov.EnsureTopic(ctx, kafka.TopicSpec{
//		Name:        "incoming-topic",
//		Partitions:  3,
//		Replication: 1,
//	})
//
// EnsureTopic is idempotent and race-tolerant: re-running it for an existing
// name returns TopicAlreadyExists without touching the topic's parameters,
// and two processes racing on the same name both succeed.
//
// SASL (PLAIN, SCRAM-SHA-256/512) and TLS are supported through Config, with
// the same shape as the other client packages in this module.
//
// FX Module Integration:
//
//	app := fx.New(
//		logger.FXModule,
//		kafka.FXModule,
//		fx.Provide(func() kafka.Config { return cfg }),
//	)
package kafka
