package publisher

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/Aleph-Alpha/kafka-sandbox/v1/schema_registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keySchema = `{"type":"record","name":"Key","fields":[
		{"name":"partitionKey","type":"string"}]}`
	valueSchema = `{"type":"record","name":"SampleEvent","fields":[
		{"name":"id","type":"string"},
		{"name":"eventType","type":"string"},
		{"name":"userId","type":"string"},
		{"name":"timestamp","type":"long"}]}`
)

// fakeRegistry serves fixed subjects and lets tests move the latest pointer.
type fakeRegistry struct {
	latest  map[string]int // subject -> schema ID
	schemas map[int]string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		latest: map[string]int{
			"incoming-topic-key":   3,
			"incoming-topic-value": 7,
		},
		schemas: map[int]string{
			3: keySchema,
			7: valueSchema,
			9: valueSchema,
		},
	}
}

func (f *fakeRegistry) GetSchemaByID(ctx context.Context, id int) (string, error) {
	schema, ok := f.schemas[id]
	if !ok {
		return "", fmt.Errorf("schema %d not found", id)
	}
	return schema, nil
}

func (f *fakeRegistry) GetLatestSchema(ctx context.Context, subject string) (*schema_registry.Metadata, error) {
	id, ok := f.latest[subject]
	if !ok {
		return nil, fmt.Errorf("%w: %s", schema_registry.ErrSubjectNotFound, subject)
	}
	return &schema_registry.Metadata{ID: id, Version: 1, Schema: f.schemas[id], Subject: subject}, nil
}

func (f *fakeRegistry) ResolveSchemaID(ctx context.Context, subject string) (int, error) {
	metadata, err := f.GetLatestSchema(ctx, subject)
	if err != nil {
		return 0, err
	}
	return metadata.ID, nil
}

func (f *fakeRegistry) RegisterSchema(ctx context.Context, subject, schema, schemaType string) (int, error) {
	return 0, errors.New("publish path must never register schemas")
}

func (f *fakeRegistry) EnsureSchema(ctx context.Context, subject, schema, schemaType string) (schema_registry.EnsureResult, error) {
	return schema_registry.EnsureResult{}, errors.New("publish path must never register schemas")
}

func (f *fakeRegistry) ListSubjects(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeRegistry) CheckCompatibility(ctx context.Context, subject, schema, schemaType string) (bool, error) {
	return true, nil
}

// fakeProducer records produced messages and can fail on demand.
type fakeProducer struct {
	messages []producedMessage
	err      error
}

type producedMessage struct {
	topic      string
	key, value []byte
}

func (f *fakeProducer) PublishRaw(ctx context.Context, topic string, key, value []byte) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, producedMessage{topic: topic, key: key, value: value})
	return nil
}

const (
	sampleKey   = `{"partitionKey": "user-1"}`
	sampleValue = `{"id": "m1", "eventType": "login", "userId": "user-1", "timestamp": 1724671800000}`
)

func TestPublishEncodesBothSidesAgainstPinnedIDs(t *testing.T) {
	registry := newFakeRegistry()
	producer := &fakeProducer{}

	pub, err := NewPublisher(registry, producer, Config{Topic: "incoming-topic"})
	require.NoError(t, err)

	require.NoError(t, pub.Publish(context.Background(), []byte(sampleKey), []byte(sampleValue)))
	require.Len(t, producer.messages, 1)

	msg := producer.messages[0]
	assert.Equal(t, "incoming-topic", msg.topic)

	keyID, _, err := schema_registry.DecodeSchemaID(msg.key)
	require.NoError(t, err)
	assert.Equal(t, 3, keyID)

	valueID, _, err := schema_registry.DecodeSchemaID(msg.value)
	require.NoError(t, err)
	assert.Equal(t, 7, valueID)
}

func TestPublishResolvesFreshIDsPerOperation(t *testing.T) {
	registry := newFakeRegistry()
	producer := &fakeProducer{}

	pub, err := NewPublisher(registry, producer, Config{Topic: "incoming-topic"})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, pub.Publish(ctx, []byte(sampleKey), []byte(sampleValue)))

	// The registry's latest moves between operations; the next publish
	// must pick it up rather than reuse a stale pin.
	registry.latest["incoming-topic-value"] = 9
	require.NoError(t, pub.Publish(ctx, []byte(sampleKey), []byte(sampleValue)))

	firstID, _, err := schema_registry.DecodeSchemaID(producer.messages[0].value)
	require.NoError(t, err)
	secondID, _, err := schema_registry.DecodeSchemaID(producer.messages[1].value)
	require.NoError(t, err)
	assert.Equal(t, 7, firstID)
	assert.Equal(t, 9, secondID)
}

func TestPublishFailureCarriesRawJSON(t *testing.T) {
	registry := newFakeRegistry()
	producer := &fakeProducer{err: errors.New("broker rejected the batch")}

	pub, err := NewPublisher(registry, producer, Config{Topic: "incoming-topic"})
	require.NoError(t, err)

	err = pub.Publish(context.Background(), []byte(sampleKey), []byte(sampleValue))
	require.Error(t, err)

	var pubErr *PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Equal(t, "incoming-topic", pubErr.Topic)
	assert.Contains(t, pubErr.Key, "user-1")
	assert.Contains(t, pubErr.Value, "login")
}

func TestPublishRejectsInvalidJSON(t *testing.T) {
	registry := newFakeRegistry()
	producer := &fakeProducer{}

	pub, err := NewPublisher(registry, producer, Config{Topic: "incoming-topic"})
	require.NoError(t, err)

	err = pub.Publish(context.Background(), []byte(`{not json`), []byte(sampleValue))
	require.Error(t, err)
	assert.Empty(t, producer.messages, "nothing may be produced for a malformed payload")
}

func TestPublishRejectsNonConformingValue(t *testing.T) {
	registry := newFakeRegistry()
	producer := &fakeProducer{}

	pub, err := NewPublisher(registry, producer, Config{Topic: "incoming-topic"})
	require.NoError(t, err)

	err = pub.Publish(context.Background(), []byte(sampleKey), []byte(`{"id": "m1"}`))
	require.Error(t, err)

	var pubErr *PublishError
	require.ErrorAs(t, err, &pubErr)
	assert.Empty(t, producer.messages)
}

func TestCustomSubjectsOverrideConvention(t *testing.T) {
	registry := newFakeRegistry()
	registry.latest["custom-key"] = 3
	registry.latest["custom-value"] = 7
	producer := &fakeProducer{}

	pub, err := NewPublisher(registry, producer, Config{
		Topic:        "some-topic",
		KeySubject:   "custom-key",
		ValueSubject: "custom-value",
	})
	require.NoError(t, err)

	require.NoError(t, pub.Publish(context.Background(), []byte(sampleKey), []byte(sampleValue)))
	require.Len(t, producer.messages, 1)
}
