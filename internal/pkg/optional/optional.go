// Package optional models partial-update fields that distinguish "not sent",
// "sent as null" and "sent with a value".
package optional

import (
	"bytes"
	"encoding/json"
)

type state uint8

const (
	absent state = iota
	null
	present
)

// Field is a tri-state value. The zero value is absent, so a struct field left
// untouched by a JSON decoder reads as "not sent".
type Field[T any] struct {
	state state
	value T
}

// Absent returns a field that was not sent.
func Absent[T any]() Field[T] {
	return Field[T]{}
}

// Null returns a field sent as an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{state: null}
}

// Of returns a field sent with v.
//
// Example:
//
//	fields := commands.TourFields{Color: optional.Of("#ff0000"), DriverID: optional.Null[kernel.UUID]()}
func Of[T any](v T) Field[T] {
	return Field[T]{state: present, value: v}
}

// IsSet reports whether the field was sent at all, null included.
func (f Field[T]) IsSet() bool {
	return f.state != absent
}

// IsNull reports whether the field was sent as null.
func (f Field[T]) IsNull() bool {
	return f.state == null
}

// Value returns the carried value; ok is false for absent and null fields.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.state == present
}

// Ptr returns nil for null, a pointer to the value otherwise. Callers check
// IsSet first.
func (f Field[T]) Ptr() *T {
	if f.state != present {
		return nil
	}
	v := f.value
	return &v
}

// UnmarshalJSON sets the field to null for a JSON null and to the decoded
// value otherwise. A key missing from the document never reaches this method,
// so the field stays absent.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		f.state, f.value = null, zero
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.state, f.value = present, v
	return nil
}

// MarshalJSON writes null for absent and null fields.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.state != present {
		return []byte("null"), nil
	}
	return json.Marshal(f.value)
}
