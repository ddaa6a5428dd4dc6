// Package parsing turns manifest fields into the pieces of an output file name.
package parsing

import (
	"fmt"
	"strings"

	"github.com/araddon/dateparse"
)

// NormalizeTime reformats a manifest time value using the Go layout.
//
// An empty layout returns raw unchanged.
func NormalizeTime(raw, layout string) (string, error) {
	raw = strings.TrimSpace(raw)
	if layout == "" || raw == "" {
		return raw, nil
	}

	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw, fmt.Errorf("unable to parse date %q: %w", raw, err)
	}
	return t.Format(layout), nil
}
