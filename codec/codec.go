// Package codec converts host values to and from the serialized tree form
// that crosses the host/engine boundary.
//
// The tree is JSON text: null, booleans, numbers, strings, arrays and
// objects with ordered keys. Numbers are a single kind — decoding into
// `any` yields float64, and integers beyond ±2^53 lose precision at the
// boundary, as the format itself imposes.
package codec

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Value is a serialized tree in its JSON text form. It is produced by
// Encode before a call crosses into the engine and consumed by Decode
// after the result crosses back.
type Value = json.RawMessage

// Null is the canonical null tree.
var Null = Value("null")

// Encode serializes a host value into its tree form. It fails only when
// the value contains a shape the format cannot represent: non-finite
// numbers, cyclic structures, channels, functions.
func Encode(v any) (Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return Value(data), nil
}

// Decode deserializes a tree into out, which must be a non-nil pointer.
// It fails when the tree's shape does not match the target shape, e.g.
// an object where a slice is expected.
func Decode(data Value, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode into %T: %w", out, err)
	}
	return nil
}
