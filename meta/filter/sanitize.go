/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sanitize removes ISO control characters (U+0000-U+001F and U+007F-U+009F)
// except tab and line feed, and drops bytes that are not valid UTF-8.
// Carriage returns are removed.
func Sanitize(s string) string {
	if isClean(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			continue
		}
		if dropped(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isClean(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if dropped(r) {
			return false
		}
	}
	return true
}

func dropped(r rune) bool {
	return unicode.IsControl(r) && r != '\t' && r != '\n'
}
