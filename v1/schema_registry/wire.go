package schema_registry

import (
	"encoding/binary"
	"fmt"
)

// wireHeaderSize is the size of the Confluent envelope header:
// one magic byte plus a 4-byte big-endian schema ID.
const wireHeaderSize = 5

// magicByte marks a payload as Confluent wire format.
const magicByte = 0x0

// EncodeSchemaID encodes a schema ID in the Confluent wire format header:
// [magic_byte][schema_id], with the ID in 4-byte big-endian form.
func EncodeSchemaID(schemaID int) []byte {
	buf := make([]byte, wireHeaderSize)
	buf[0] = magicByte
	binary.BigEndian.PutUint32(buf[1:], uint32(schemaID))
	return buf
}

// DecodeSchemaID decodes a schema ID from a Confluent wire format payload.
// Returns the schema ID and the remaining payload after the header.
func DecodeSchemaID(data []byte) (int, []byte, error) {
	if len(data) < wireHeaderSize {
		return 0, nil, fmt.Errorf("data too short: expected at least %d bytes, got %d", wireHeaderSize, len(data))
	}
	if data[0] != magicByte {
		return 0, nil, fmt.Errorf("invalid magic byte: expected 0x%x, got 0x%x", magicByte, data[0])
	}

	schemaID := int(binary.BigEndian.Uint32(data[1:wireHeaderSize]))
	return schemaID, data[wireHeaderSize:], nil
}
