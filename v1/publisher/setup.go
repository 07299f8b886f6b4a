package publisher

import (
	"context"
	"fmt"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/schema_registry"
)

// Producer is the raw produce surface the publisher needs. *kafka.KafkaClient
// implements it; tests supply fakes.
type Producer interface {
	PublishRaw(ctx context.Context, topic string, key, value []byte) error
}

// Publisher emits messages whose key and value are each Avro-encoded against
// their own pinned schema ID.
//
// Schema IDs are resolved freshly at the start of every Publish call — never
// cached across operations, because the registry's latest pointer is mutable
// — and then held fixed through the encode and produce steps of that call.
/// The publish path is strictly read-only against the registry: it can never
// register a schema version as a side effect.
type Publisher struct {
	registry schema_registry.Registry
	producer Producer
	cfg      Config
}

// NewPublisher creates a publisher bound to the topic in cfg.
func NewPublisher(registry schema_registry.Registry, producer Producer, cfg Config) (*Publisher, error) {
	if cfg.Topic == "" {
		return nil, fmt.Errorf("publisher: topic is required")
	}
	cfg.applyDefaults()
	return &Publisher{
		registry: registry,
		producer: producer,
		cfg:      cfg,
	}, nil
}

// Topic returns the topic the publisher is bound to.
func (p *Publisher) Topic() string {
	return p.cfg.Topic
}

// Publish encodes one key/value pair and produces it.
//
// Steps: normalize both JSON payloads to canonical single-line form, resolve
// the current schema ID for the key and value subjects, encode each side in
// the Confluent envelope against its pinned ID, and hand the raw bytes to
// the producer. Any failure is wrapped in a *PublishError carrying the raw
// JSON; nothing is retried.
func (p *Publisher) Publish(ctx context.Context, keyJSON, valueJSON []byte) error {
	key, err := normalizeJSON(keyJSON)
	if err != nil {
		return p.fail(keyJSON, valueJSON, err)
	}
	value, err := normalizeJSON(valueJSON)
	if err != nil {
		return p.fail(keyJSON, valueJSON, err)
	}

	keySerializer, err := schema_registry.NewPinnedAvroSerializer(ctx, p.registry, p.cfg.KeySubject)
	if err != nil {
		return p.fail(key, value, err)
	}
	valueSerializer, err := schema_registry.NewPinnedAvroSerializer(ctx, p.registry, p.cfg.ValueSubject)
	if err != nil {
		return p.fail(key, value, err)
	}

	encodedKey, err := keySerializer.Serialize(key)
	if err != nil {
		return p.fail(key, value, err)
	}
	encodedValue, err := valueSerializer.Serialize(value)
	if err != nil {
		return p.fail(key, value, err)
	}

	if err := p.producer.PublishRaw(ctx, p.cfg.Topic, encodedKey, encodedValue); err != nil {
		return p.fail(key, value, err)
	}

	if p.cfg.Logger != nil {
		p.cfg.Logger.Info("message published", nil, map[string]interface{}{
			"topic":           p.cfg.Topic,
			"key_schema_id":   keySerializer.SchemaID(),
			"value_schema_id": valueSerializer.SchemaID(),
			"key":             string(key),
		})
	}
	return nil
}

func (p *Publisher) fail(key, value []byte, err error) error {
	pubErr := &PublishError{
		Topic: p.cfg.Topic,
		Key:   string(key),
		Value: string(value),
		Err:   err,
	}
	if p.cfg.Logger != nil {
		p.cfg.Logger.Error("publish failed", err, map[string]interface{}{
			"topic": p.cfg.Topic,
			"key":   pubErr.Key,
			"value": pubErr.Value,
		})
	}
	return pubErr
}
