package schema_registry

import (
	"context"
	"fmt"
	"testing"

	"github.com/linkedin/goavro/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const valueSchema = `{
	"type": "record",
	"name": "SampleEvent",
	"fields": [
		{"name": "id", "type": "string"},
		{"name": "eventType", "type": "string"},
		{"name": "userId", "type": "string"},
		{"name": "timestamp", "type": "long"}
	]
}`

// fakeRegistry lets tests move the latest pointer independently of already
// constructed serializers.
type fakeRegistry struct {
	latestID int
	schemas  map[int]string
}

func (f *fakeRegistry) GetSchemaByID(ctx context.Context, id int) (string, error) {
	schema, ok := f.schemas[id]
	if !ok {
		return "", fmt.Errorf("schema %d not found", id)
	}
	return schema, nil
}

func (f *fakeRegistry) GetLatestSchema(ctx context.Context, subject string) (*Metadata, error) {
	return &Metadata{ID: f.latestID, Version: 1, Schema: f.schemas[f.latestID], Subject: subject}, nil
}

func (f *fakeRegistry) ResolveSchemaID(ctx context.Context, subject string) (int, error) {
	return f.latestID, nil
}

func (f *fakeRegistry) RegisterSchema(ctx context.Context, subject, schema, schemaType string) (int, error) {
	return 0, fmt.Errorf("read-only fake")
}

func (f *fakeRegistry) EnsureSchema(ctx context.Context, subject, schema, schemaType string) (EnsureResult, error) {
	return EnsureResult{}, fmt.Errorf("read-only fake")
}

func (f *fakeRegistry) ListSubjects(ctx context.Context) ([]string, error) {
	return nil, nil
}

func (f *fakeRegistry) CheckCompatibility(ctx context.Context, subject, schema, schemaType string) (bool, error) {
	return true, nil
}

func TestSerializeProducesConfluentEnvelope(t *testing.T) {
	registry := &fakeRegistry{latestID: 7, schemas: map[int]string{7: valueSchema}}

	ser, err := NewPinnedAvroSerializer(context.Background(), registry, "v")
	require.NoError(t, err)
	assert.Equal(t, 7, ser.SchemaID())

	encoded, err := ser.Serialize([]byte(`{"id":"m1","eventType":"login","userId":"u1","timestamp":1724671800000}`))
	require.NoError(t, err)

	id, payload, err := DecodeSchemaID(encoded)
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	// The body is valid Avro binary for the pinned schema.
	codec, err := goavro.NewCodec(valueSchema)
	require.NoError(t, err)
	native, _, err := codec.NativeFromBinary(payload)
	require.NoError(t, err)
	record := native.(map[string]interface{})
	assert.Equal(t, "login", record["eventType"])
	assert.Equal(t, int64(1724671800000), record["timestamp"])
}

func TestSerializerHoldsPinWhenLatestMoves(t *testing.T) {
	registry := &fakeRegistry{latestID: 7, schemas: map[int]string{7: valueSchema, 9: valueSchema}}

	ser, err := NewPinnedAvroSerializer(context.Background(), registry, "v")
	require.NoError(t, err)
	require.Equal(t, 7, ser.SchemaID())

	// A new version becomes latest after the pin was captured.
	registry.latestID = 9

	encoded, err := ser.Serialize([]byte(`{"id":"m2","eventType":"logout","userId":"u1","timestamp":1}`))
	require.NoError(t, err)

	id, _, err := DecodeSchemaID(encoded)
	require.NoError(t, err)
	assert.Equal(t, 7, id, "serializer must keep encoding against the pinned ID, not the new latest")

	// A freshly built serializer picks up the new latest.
	fresh, err := NewPinnedAvroSerializer(context.Background(), registry, "v")
	require.NoError(t, err)
	assert.Equal(t, 9, fresh.SchemaID())
}

func TestSerializeRejectsNonConformingPayload(t *testing.T) {
	registry := &fakeRegistry{latestID: 7, schemas: map[int]string{7: valueSchema}}

	ser, err := NewPinnedAvroSerializer(context.Background(), registry, "v")
	require.NoError(t, err)

	_, err = ser.Serialize([]byte(`{"id":"m1"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `subject "v"`)
}

func TestDeserializeRoundTrip(t *testing.T) {
	registry := &fakeRegistry{latestID: 7, schemas: map[int]string{7: valueSchema}}

	ser, err := NewPinnedAvroSerializer(context.Background(), registry, "v")
	require.NoError(t, err)

	original := `{"id":"m1","eventType":"purchase","userId":"u9","timestamp":42}`
	encoded, err := ser.Serialize([]byte(original))
	require.NoError(t, err)

	decoded, err := ser.Deserialize(encoded)
	require.NoError(t, err)
	assert.JSONEq(t, original, string(decoded))
}

func TestDeserializeRejectsForeignSchemaID(t *testing.T) {
	registry := &fakeRegistry{latestID: 7, schemas: map[int]string{7: valueSchema, 9: valueSchema}}

	pinned7, err := NewAvroSerializerForID(context.Background(), registry, "v", 7)
	require.NoError(t, err)
	pinned9, err := NewAvroSerializerForID(context.Background(), registry, "v", 9)
	require.NoError(t, err)

	encoded, err := pinned9.Serialize([]byte(`{"id":"m1","eventType":"login","userId":"u1","timestamp":1}`))
	require.NoError(t, err)

	_, err = pinned7.Deserialize(encoded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pinned to 7")
}
