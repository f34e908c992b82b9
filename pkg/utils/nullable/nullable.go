package nullable

import (
	"bytes"
	"encoding/json"
)

// Nullable is a value for partial updates.
//
// It distinguishes three states of a JSON field:
//
// - absent: the field does not appear. (IsSet() == false)
//
// - null: the field is `null`. (IsSet() == true, Value() == nil)
//
// - present: the field has a value. (IsSet() == true, Value() != nil)
//
// Zero value is absent.
type Nullable[T any] struct {
	set   bool
	value *T
}

func Absent[T any]() Nullable[T] {
	return Nullable[T]{}
}

func Null[T any]() Nullable[T] {
	return Nullable[T]{set: true}
}

func Of[T any](v T) Nullable[T] {
	return Nullable[T]{set: true, value: &v}
}

// IsSet returns true when the value is null or present.
func (n Nullable[T]) IsSet() bool {
	return n.set
}

// Value returns the pointer to the value, or nil when absent or null.
func (n Nullable[T]) Value() *T {
	return n.value
}

func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.value = nil
		return nil
	}
	v := new(T)
	if err := json.Unmarshal(b, v); err != nil {
		return err
	}
	n.value = v
	return nil
}

func (n Nullable[T]) MarshalJSON() ([]byte, error) {
	if n.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.value)
}
