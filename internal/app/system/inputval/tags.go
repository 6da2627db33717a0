package inputval

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Tags is a submitted tag list. JSON bodies may send it as an array or as
// one comma-separated string, the same as a form field; Clean splits and
// normalizes either shape.
type Tags []string

var errTagsShape = errors.New("tags must be a string or a list of strings")

// UnmarshalJSON accepts "a, b", ["a", "b"] and null.
func (t *Tags) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*t = nil
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Tags{s}
		return nil
	}
	var list []string
	if err := json.Unmarshal(b, &list); err != nil {
		return errTagsShape
	}
	*t = list
	return nil
}
