package dto

import "encoding/json"

// Optional records whether a JSON field was present and whether it was null,
// so partial updates can tell "leave alone" from "clear".
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ptr returns the value when present and non-null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || o.Null {
		return nil
	}
	v := o.Value
	return &v
}

// Cleared reports an explicit null.
func (o Optional[T]) Cleared() bool {
	return o.Set && o.Null
}
