// Package schema_registry provides a client for the Confluent Schema
// Registry HTTP API, with a focus on idempotent first-registration and
// schema-pinned serialization.
//
// # Registrar semantics
//
// EnsureSchema handles the bootstrap path: a subject that already has a
// latest version is returned untouched (AlreadyExisted=true); only a subject
// with no versions gets the provided document registered. Repeated
// invocations therefore return the same schema ID and never grow the
// subject's version history:
//
//	result, err := client.EnsureSchema(ctx, "incoming-topic-value", schemaDoc, "AVRO")
//	// result.ID is stable across calls; result.AlreadyExisted flips to true
//
// # Pinning
//
// "Latest" is owned by the registry and mutable, so producer-facing code
// must never hold on to it. ResolveSchemaID re-queries the registry on every
// call; the AvroSerializer then pins the resolved ID for its lifetime:
//
//	ser, err := schema_registry.NewPinnedAvroSerializer(ctx, client, "incoming-topic-value")
//	encoded, err := ser.Serialize([]byte(`{"id":"42","eventType":"login","userId":"u1","timestamp":1}`))
//	// encoded: [0x00][4-byte big-endian schema id][avro binary]
//
// Registering a new version after the serializer was built does not change
// what it emits. Auto-registration never happens on the publish path: the
// serializer is constructed purely from registry reads.
//
// # Wire format
//
// All payloads use the Confluent envelope: a 0x00 magic byte, the schema ID
// as 4 big-endian bytes, then the Avro-binary body. EncodeSchemaID and
// DecodeSchemaID expose the header handling for consumers that need it.
//
// Only immutable data (schema documents by ID) is cached; everything
// reachable through a subject's latest pointer is re-fetched per call.
// The cache is thread-safe and all methods are safe for concurrent use.
package schema_registry
