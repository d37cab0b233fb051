package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// marshalValue converts a stored value to JSON TEXT.
// HTML escaping is disabled so text fields are stored as written.
func marshalValue[T any](v T) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal value: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalValue parses JSON TEXT back into a value of type T.
// Numbers decode into the field types of T, so int64 fields keep full
// precision.
func unmarshalValue[T any](data string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return v, fmt.Errorf("unmarshal value: %w", err)
	}
	return v, nil
}
