package sanitize_test

import (
	"strings"
	"testing"
	"testing/quick"
	"unicode/utf8"

	"postgrab/internal/sanitize"
)

const forbidden = "<>:\"/\\|?*\n\r\t"

// TestSanitize checks character stripping and truncation ------------------------------------------------------------------------
func TestSanitize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "My Clip", "My Clip"},
		{"exclamation", "My Clip!", "My Clip"},
		{"slash", "a/b", "ab"},
		{"all illegal", `<>:"/\|?*`, ""},
		{"control chars", "line\none\r\ttab\x00", "lineonetab"},
		{"unicode kept", "日本語 タイトル", "日本語 タイトル"},
		{"exactly limit", strings.Repeat("a", 100), strings.Repeat("a", 100)},
		{"over limit", strings.Repeat("b", 150), strings.Repeat("b", 100)},
		{"strip before truncate", strings.Repeat("/", 50) + strings.Repeat("c", 120), strings.Repeat("c", 100)},
		{"runes not bytes", strings.Repeat("é", 120), strings.Repeat("é", 100)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := sanitize.Sanitize(tt.in); got != tt.want {
				t.Fatalf("Sanitize(%q) = %q, expected %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestSanitizeNeverUnsafe checks the output for arbitrary input -----------------------------------------------------------------
func TestSanitizeNeverUnsafe(t *testing.T) {
	t.Parallel()

	f := func(s string) bool {
		out := sanitize.Sanitize(s)
		return !strings.ContainsAny(out, forbidden) && utf8.RuneCountInString(out) <= 100
	}
	if err := quick.Check(f, &quick.Config{MaxCount: 2000}); err != nil {
		t.Fatalf("sanitize produced unsafe output: %v", err)
	}
}

// TestSanitizeIdempotent checks a second pass changes nothing -------------------------------------------------------------------
func TestSanitizeIdempotent(t *testing.T) {
	t.Parallel()

	f := func(s string) bool {
		once := sanitize.Sanitize(s)
		return sanitize.Sanitize(once) == once
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatalf("sanitize not idempotent: %v", err)
	}
}
