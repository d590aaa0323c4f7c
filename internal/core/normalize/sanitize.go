package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize drops NUL, ASCII controls other than newline, carriage return and
// tab, DEL, C1 controls and invalid UTF-8 bytes. Clean input is returned as is
func Sanitize(s string) string {
	i := firstDropped(s)
	if i < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	b.WriteString(s[:i])
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if keep(r, size) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func firstDropped(s string) int {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !keep(r, size) {
			return i
		}
		i += size
	}
	return -1
}

// keep reports whether a decoded rune survives; size 1 RuneError is a bad byte
func keep(r rune, size int) bool {
	switch {
	case r == utf8.RuneError && size == 1:
		return false
	case r == '\n' || r == '\r' || r == '\t':
		return true
	case r < 0x20, r >= 0x7f && r <= 0x9f:
		return false
	}
	return true
}
