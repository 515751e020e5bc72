package services

import (
	"encoding/json"
)

// Fields is a partial update body keyed by JSON field name.
type Fields map[string]json.RawMessage

// only fails with ErrInvalidOperation when f holds a key outside allowed.
func (f Fields) only(allowed ...string) error {
	for k := range f {
		ok := false
		for _, a := range allowed {
			if k == a {
				ok = true
				break
			}
		}
		if !ok {
			return ErrInvalidOperation
		}
	}
	return nil
}

// decode unmarshals f[key] into dst when present and reports whether it was.
func (f Fields) decode(key string, dst any) (bool, error) {
	raw, ok := f[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return true, invalidField(key, "has the wrong type")
	}
	return true, nil
}
