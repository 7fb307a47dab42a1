package util

import (
	"bytes"
	"encoding/json"
)

// Nullable distinguishes an absent JSON field from an explicit null.
// Present is false when the key was missing; Valid is false when it was null.
type Nullable[T any] struct {
	Present bool
	Valid   bool
	Value   T
}

// Some returns a present, non-null value.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Present: true, Valid: true, Value: v}
}

// Null returns a present, explicit null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Present: true}
}

// UnmarshalJSON is only invoked for keys present in the payload.
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Present = true

	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		n.Valid = false
		n.Value = zero

		return nil
	}

	if err := json.Unmarshal(data, &n.Value); err != nil {
		return err
	}
	n.Valid = true

	return nil
}

// MarshalJSON writes null for absent or null values.
func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}

	return json.Marshal(n.Value)
}

// Ptr returns the value as a pointer, nil when null or absent.
func (n Nullable[T]) Ptr() *T {
	if !n.Valid {
		return nil
	}
	v := n.Value

	return &v
}
