package bootstrap

import (
	"github.com/Aleph-Alpha/kafka-sandbox/v1/kafka"
)

// Default Avro schema documents for the sample topics. The key carries the
// partitioning field only; the value is a flat, union-free event record so
// canonical JSON is also valid Avro textual input.
const (
	sampleKeySchema = `{
  "type": "record",
  "name": "EventKey",
  "namespace": "sandbox.events",
  "fields": [
    {"name": "partitionKey", "type": "string"}
  ]
}`

	sampleValueSchema = `{
  "type": "record",
  "name": "Event",
  "namespace": "sandbox.events",
  "fields": [
    {"name": "id", "type": "string"},
    {"name": "eventType", "type": "string"},
    {"name": "userId", "type": "string"},
    {"name": "timestamp", "type": "long"}
  ]
}`
)

// SchemaSpec is one subject to ensure in the registry.
type SchemaSpec struct {
	Subject    string
	Schema     string
	SchemaType string // "" means AVRO
}

// DefaultTopics returns the provisioning set a downstream consumer expects:
// an incoming topic and a response topic.
func DefaultTopics() []kafka.TopicSpec {
	return []kafka.TopicSpec{
		{Name: "incoming-topic", Partitions: 1, Replication: 1},
		{Name: "response-topic", Partitions: 1, Replication: 1},
	}
}

// DefaultSchemas returns the key and value subjects for every default topic,
// following the "<topic>-key" / "<topic>-value" convention.
func DefaultSchemas() []SchemaSpec {
	var specs []SchemaSpec
	for _, topic := range DefaultTopics() {
		specs = append(specs,
			SchemaSpec{Subject: topic.Name + "-key", Schema: sampleKeySchema},
			SchemaSpec{Subject: topic.Name + "-value", Schema: sampleValueSchema},
		)
	}
	return specs
}
