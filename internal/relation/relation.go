// Package relation decodes embedded relational records whose JSON shape
// depends on join cardinality. A to-one embed may arrive as an object, a
// list or null; a to-many embed may arrive as a list, a bare object or
// null. Both types normalise those shapes at the decoding boundary so
// nothing downstream has to inspect them.
package relation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

var null = []byte("null")

// One holds an optional related record.
type One[T any] struct {
	value   T
	present bool
}

// Some wraps a present record.
func Some[T any](v T) One[T] {
	return One[T]{value: v, present: true}
}

// Get returns the record and whether it was present.
func (o One[T]) Get() (T, bool) {
	return o.value, o.present
}

// Present reports whether a record was decoded.
func (o One[T]) Present() bool {
	return o.present
}

// UnmarshalJSON accepts an object, a list (first element wins) or null.
func (o *One[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*o = One[T]{}
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil
	}
	if data[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("decode to-one relation list: %w", err)
		}
		for _, raw := range list {
			if bytes.Equal(bytes.TrimSpace(raw), null) {
				continue
			}
			return o.UnmarshalJSON(raw)
		}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decode to-one relation: %w", err)
	}
	o.value = v
	o.present = true
	return nil
}

// MarshalJSON renders the record or null.
func (o One[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return null, nil
	}
	return json.Marshal(o.value)
}

// Many holds a list of related records. The zero value is an empty list.
type Many[T any] []T

// UnmarshalJSON accepts a list, a single object or null.
func (m *Many[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*m = nil
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil
	}
	if data[0] != '[' {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return fmt.Errorf("decode to-many relation: %w", err)
		}
		*m = Many[T]{v}
		return nil
	}
	var list []T
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("decode to-many relation list: %w", err)
	}
	*m = list
	return nil
}

// MarshalJSON always renders a list.
func (m Many[T]) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]T(m))
}

// First returns the first record of the list as a to-one value.
func (m Many[T]) First() One[T] {
	if len(m) == 0 {
		return One[T]{}
	}
	return Some(m[0])
}
