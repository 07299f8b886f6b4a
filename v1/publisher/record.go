package publisher

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// RecordSeparator joins a record's key and value JSON into one line. A pipe
// is reserved because, unlike the colon, it carries no meaning inside JSON
// syntax: splitting on the first pipe can never land inside an object or a
// key/value delimiter. JSON string contents must not contain the pipe; the
// sample generator never emits one.
const RecordSeparator = "|"

// JoinRecord renders a key/value pair as a single "key|value" line after
// normalizing both sides to canonical single-line JSON.
func JoinRecord(keyJSON, valueJSON []byte) (string, error) {
	key, err := normalizeJSON(keyJSON)
	if err != nil {
		return "", fmt.Errorf("record key: %w", err)
	}
	value, err := normalizeJSON(valueJSON)
	if err != nil {
		return "", fmt.Errorf("record value: %w", err)
	}
	return string(key) + RecordSeparator + string(value), nil
}

// SplitRecord parses a "key|value" line back into its key and value JSON.
// The line is split at the first separator and both halves must be valid
// JSON documents.
func SplitRecord(line string) (keyJSON, valueJSON []byte, err error) {
	key, value, found := strings.Cut(line, RecordSeparator)
	if !found {
		return nil, nil, fmt.Errorf("record %q has no %q separator", line, RecordSeparator)
	}

	keyJSON, err = normalizeJSON([]byte(key))
	if err != nil {
		return nil, nil, fmt.Errorf("record key: %w", err)
	}
	valueJSON, err = normalizeJSON([]byte(value))
	if err != nil {
		return nil, nil, fmt.Errorf("record value: %w", err)
	}
	return keyJSON, valueJSON, nil
}

// normalizeJSON validates a JSON document and compacts it to a canonical
// single-line form with no insignificant whitespace.
func normalizeJSON(raw []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("not a valid JSON document: %s", raw)
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, fmt.Errorf("compacting JSON: %w", err)
	}
	return buf.Bytes(), nil
}
