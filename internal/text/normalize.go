// Package text normalizes free-form text exchanged with the generation service.
package text

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// controlCharsRegex matches ASCII control characters (including DEL 0x7F).
	controlCharsRegex = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)

	unicodeReplacer = strings.NewReplacer(
		// Invisible format characters are dropped.
		"\u2060", "",
		"\uFEFF", "",
		"\u00AD", "",
		"\u200E", "",
		"\u200F", "",
		"\u2061", "",
		"\u2062", "",
		"\u2063", "",
		"\u2064", "",

		// Separators and exotic spaces become regular whitespace.
		"\u2028", "\n",
		"\u2029", "\n",
		"\u200B", " ",
		"\u200C", " ",
		"\u205F", " ",
		"\u2009", " ",
		"\u200A", " ",
		"\u202F", " ",
		"\u3000", " ",
		"\u00A0", " ",
	)
)

// Normalize removes invisible and control characters from s and collapses
// every run of whitespace, line breaks included, into a single space.
// The result has no leading or trailing whitespace and may be empty.
func Normalize(s string) string {
	s = unicodeReplacer.Replace(s)
	s = controlCharsRegex.ReplaceAllString(s, " ")

	var b strings.Builder
	b.Grow(len(s))

	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteRune(' ')
				space = true
			}
			continue
		}
		b.WriteRune(r)
		space = false
	}

	return strings.TrimSpace(b.String())
}

// FirstWord returns the first whitespace-delimited token of the normalized
// form of s, or "" if s holds no visible text.
func FirstWord(s string) string {
	s = Normalize(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i]
	}
	return s
}
