package domain

import (
	"encoding/json"
)

// NullableString is a patch value for an optional text column. A nil
// *NullableString means "leave unchanged".
type NullableString struct {
	String string
	IsNull bool
}

// NewNullableString returns a set (non-null) value
func NewNullableString(s string) *NullableString {
	return &NullableString{String: s}
}

// MarshalJSON implements json.Marshaler
func (ns NullableString) MarshalJSON() ([]byte, error) {
	if ns.IsNull {
		return []byte("null"), nil
	}
	return json.Marshal(ns.String)
}

// UnmarshalJSON implements json.Unmarshaler
func (ns *NullableString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		ns.String = ""
		ns.IsNull = true
		return nil
	}
	ns.IsNull = false
	return json.Unmarshal(data, &ns.String)
}

// applyTo writes the patch value into target. Null and empty strings clear it.
func (ns *NullableString) applyTo(target **string) {
	if ns == nil {
		return
	}
	if ns.IsNull || ns.String == "" {
		*target = nil
		return
	}
	v := ns.String
	*target = &v
}
