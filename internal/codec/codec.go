// Package codec turns serialized document bytes into the generic object graph
// and back. The rest of the tool never touches the wire format directly.
package codec

import (
	"bytes"
	"fmt"
	"math"

	"github.com/vmihailenco/msgpack/v5"
)

// Codec is the external object-graph serialization boundary.
type Codec interface {
	// Decode parses one document into a generic tree of
	// map[string]any / []any / scalars.
	Decode(data []byte) (any, error)
	// Encode serializes a generic tree back to document bytes.
	Encode(root any) ([]byte, error)
}

// Msgpack is the MessagePack-backed codec. The wire format distinguishes
// string and binary payloads, which preserves the byte-buffer representation
// of legacy-encoded text fields across a round trip.
type Msgpack struct{}

func (Msgpack) Decode(data []byte) (any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	root, err := dec.DecodeInterface()
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return normalize(root), nil
}

func (Msgpack) Encode(root any) ([]byte, error) {
	out, err := msgpack.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return out, nil
}

// normalize widens the width-dependent numeric types DecodeInterface emits so
// the graph carries one integer representation regardless of how compactly a
// value was stored. Strings and byte buffers pass through untouched: text
// extraction depends on the str/bin distinction.
func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, child := range t {
			t[k] = normalize(child)
		}
		return t
	case []any:
		for i, child := range t {
			t[i] = normalize(child)
		}
		return t
	case int:
		return int64(t)
	case int8:
		return int64(t)
	case int16:
		return int64(t)
	case int32:
		return int64(t)
	case uint8:
		return int64(t)
	case uint16:
		return int64(t)
	case uint32:
		return int64(t)
	case uint64:
		if t <= math.MaxInt64 {
			return int64(t)
		}
		return t
	case float32:
		return float64(t)
	}
	return v
}
