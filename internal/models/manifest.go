package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ManifestEntry is one item in the input manifest.
type ManifestEntry struct {
	Time     FlexString `json:"time"`
	Title    string     `json:"title"`
	Desc     string     `json:"desc"`
	VideoURL string     `json:"video_url"`
	Type     string     `json:"type"`
}

// FlexString accepts a JSON string or number and keeps its literal text.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = ""
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return fmt.Errorf("time must be a string or number, got %s", b)
		}
		*f = FlexString(n.String())
	}
	return nil
}

// String returns the literal text.
func (f FlexString) String() string {
	return string(f)
}

// IsType reports whether the entry carries exactly the given type tag.
func (m *ManifestEntry) IsType(t string) bool {
	return m.Type == t
}
