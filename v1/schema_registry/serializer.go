package schema_registry

import (
	"context"
	"fmt"

	"github.com/linkedin/goavro/v2"
)

// AvroSerializer encodes JSON payloads as Avro binary in the Confluent wire
// format against one pinned schema ID.
//
// The serializer is bound at construction time to the schema document the
// registry stores under that exact ID. It never consults the registry again,
// so registering a new version for the subject after construction has no
// effect on its output — the pin holds for the serializer's lifetime.
type AvroSerializer struct {
	subject  string
	schemaID int
	codec    *goavro.Codec
}

// NewPinnedAvroSerializer resolves the subject's current latest schema ID
// and builds a serializer pinned to it. The schema document is fetched by
// that exact ID (IDs are immutable) rather than through the mutable latest
// pointer, so the ID and document cannot diverge mid-construction.
func NewPinnedAvroSerializer(ctx context.Context, registry Registry, subject string) (*AvroSerializer, error) {
	id, err := registry.ResolveSchemaID(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("resolving schema id for subject %q: %w", subject, err)
	}
	return NewAvroSerializerForID(ctx, registry, subject, id)
}

// NewAvroSerializerForID builds a serializer pinned to an explicit schema ID.
func NewAvroSerializerForID(ctx context.Context, registry Registry, subject string, schemaID int) (*AvroSerializer, error) {
	schema, err := registry.GetSchemaByID(ctx, schemaID)
	if err != nil {
		return nil, fmt.Errorf("fetching schema %d for subject %q: %w", schemaID, subject, err)
	}

	codec, err := goavro.NewCodec(schema)
	if err != nil {
		return nil, fmt.Errorf("parsing schema %d for subject %q: %w", schemaID, subject, err)
	}

	return &AvroSerializer{
		subject:  subject,
		schemaID: schemaID,
		codec:    codec,
	}, nil
}

// SchemaID returns the pinned schema ID.
func (s *AvroSerializer) SchemaID() int {
	return s.schemaID
}

// Subject returns the subject the serializer was built for.
func (s *AvroSerializer) Subject() string {
	return s.subject
}

// Serialize converts a JSON document conforming to the pinned schema into
// Confluent wire format: [magic_byte][schema_id][avro_binary].
func (s *AvroSerializer) Serialize(jsonPayload []byte) ([]byte, error) {
	native, _, err := s.codec.NativeFromTextual(jsonPayload)
	if err != nil {
		return nil, fmt.Errorf("payload does not conform to schema %d (subject %q): %w",
			s.schemaID, s.subject, err)
	}

	binaryPayload, err := s.codec.BinaryFromNative(nil, native)
	if err != nil {
		return nil, fmt.Errorf("encoding payload against schema %d (subject %q): %w",
			s.schemaID, s.subject, err)
	}

	return append(EncodeSchemaID(s.schemaID), binaryPayload...), nil
}

// Deserialize decodes a Confluent wire format payload produced against the
// pinned schema back into its Avro textual (JSON) form.
func (s *AvroSerializer) Deserialize(data []byte) ([]byte, error) {
	id, payload, err := DecodeSchemaID(data)
	if err != nil {
		return nil, err
	}
	if id != s.schemaID {
		return nil, fmt.Errorf("payload encoded with schema %d, serializer pinned to %d (subject %q)",
			id, s.schemaID, s.subject)
	}

	native, _, err := s.codec.NativeFromBinary(payload)
	if err != nil {
		return nil, fmt.Errorf("decoding payload against schema %d (subject %q): %w",
			s.schemaID, s.subject, err)
	}

	return s.codec.TextualFromNative(nil, native)
}
