package nullable

import (
	"bytes"
	"encoding/json"
)

// Field distinguishes an absent JSON key from an explicit null for
// partial updates.
type Field[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Of returns a set, non-null field
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Valid: true, Value: v}
}

// Null returns a set field holding null
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

// UnmarshalJSON is only called when the key is present
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Valid = false
		var zero T
		f.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

// Ptr returns nil for null or absent, otherwise a pointer to the value
func (f Field[T]) Ptr() *T {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}
