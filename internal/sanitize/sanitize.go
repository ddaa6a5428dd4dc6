// Package sanitize makes arbitrary text safe to use inside a file name.
package sanitize

import (
	"strings"
	"unicode"

	"postgrab/internal/domain/consts"
)

// illegal holds characters stripped from names on top of control characters.
const illegal = `<>:"/\|?*!`

// Sanitize strips characters illegal in file names and control characters,
// then truncates the result to 100 runes.
func Sanitize(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	n := 0
	for _, r := range text {
		if n == consts.MaxNameRune {
			break
		}
		if unicode.IsControl(r) || strings.ContainsRune(illegal, r) {
			continue
		}
		b.WriteRune(r)
		n++
	}
	return b.String()
}
