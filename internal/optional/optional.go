// Package optional models JSON fields whose absence and explicit null carry
// different meanings. A plain pointer cannot tell "field omitted" apart from
// "field: null", which matters for partial updates: a null parent_id moves a
// category to the root level, while an omitted parent_id leaves it untouched.
package optional

import "encoding/json"

// Field is a tri-state JSON value: unset, explicitly null, or set to a value.
// The zero Field is unset.
type Field[T any] struct {
	Set   bool
	Value *T
}

// UnmarshalJSON marks the field as present and records either null or the
// decoded value. encoding/json only calls this when the key appears in the
// payload, so an omitted key leaves Set false.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if string(data) == "null" {
		f.Value = nil
		return nil
	}
	return json.Unmarshal(data, &f.Value)
}

// MarshalJSON round-trips the value; unset fields encode as null.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Set || f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Some returns a Field set to the given value.
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: &v}
}

// Null returns a Field that was explicitly set to null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}
