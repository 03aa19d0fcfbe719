// Package graph provides typed access to the generic object graph produced by
// the external document codec: maps with symbolic field names, ordered lists,
// and scalars (numbers, native text, raw byte buffers).
package graph

// Map returns v as a field map.
func Map(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

// List returns v as an ordered list.
func List(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// Int returns v as an int, accepting the integer widths the codec may
// produce for numeric scalars.
func Int(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case int32:
		return int(n), true
	case int16:
		return int(n), true
	case int8:
		return int(n), true
	case uint32:
		return int(n), true
	case uint16:
		return int(n), true
	case uint8:
		return int(n), true
	case float64:
		return int(n), n == float64(int(n))
	}
	return 0, false
}

// MapField looks up a sub-map field by name. Absence is reported, not an error.
func MapField(m map[string]any, key string) (map[string]any, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	return Map(v)
}

// ListField looks up a list field by name. Absence is reported, not an error.
func ListField(m map[string]any, key string) ([]any, bool) {
	v, ok := m[key]
	if !ok {
		return nil, false
	}
	return List(v)
}
