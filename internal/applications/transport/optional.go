package transport

import (
	"encoding/json"
)

// OptionalInt distinguishes an omitted field from an explicit null.
type OptionalInt struct {
	Value *int
	Set   bool
}

func (o OptionalInt) IsZero() bool {
	return !o.Set
}

func (o *OptionalInt) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}

	var parsed int
	if err := json.Unmarshal(data, &parsed); err != nil {
		return err
	}

	o.Value = &parsed
	return nil
}
