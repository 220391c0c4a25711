package documents

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Feed is a sequence of records that decodes from either a bare JSON array
// or an object exposing the array under "data".
type Feed []Record

// UnmarshalJSON implements json.Unmarshaler.
func (f *Feed) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	switch trimmed[0] {
	case '[':
		var records []Record
		if err := dec.Decode(&records); err != nil {
			return err
		}
		*f = records
		return nil
	case '{':
		var wrapper struct {
			Data []Record `json:"data"`
		}
		if err := dec.Decode(&wrapper); err != nil {
			return err
		}
		*f = wrapper.Data
		return nil
	default:
		return fmt.Errorf("%w: starts with %q", ErrUnsupportedShape, trimmed[0])
	}
}

// DecodeFeed decodes a document body into a Feed.
func DecodeFeed(data []byte) (Feed, error) {
	var f Feed
	if err := f.UnmarshalJSON(data); err != nil {
		return nil, err
	}
	return f, nil
}
