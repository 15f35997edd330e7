package policy

import (
	"strings"
	"unicode"
)

// parseHex interprets s as a base-16 integer the way a lenient parser does:
// leading whitespace, an optional sign, an optional 0x prefix, then the
// longest run of hex digits. Trailing garbage is ignored. ok is false when no
// digits were found. Only zero-ness is reported, so values wider than any
// machine integer are handled.
func parseHex(s string) (zero bool, ok bool) {
	s = strings.TrimLeftFunc(s, isSpace)
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}

	zero = true
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isHexDigit(c) {
			break
		}
		ok = true
		if c != '0' {
			zero = false
		}
	}
	if !ok {
		return false, false
	}
	return zero, true
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// isSpace matches the whitespace a lenient integer parser skips, including
// the byte order mark.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}
