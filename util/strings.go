package util

import (
	"strings"
	"unicode"
)

// byteOrderMark is stripped from the start of input lines.
const byteOrderMark = "\ufeff"

// Coalesce returns the first non-zero value, or the zero value if all are zero.
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// SanitizeString trims s and removes control characters. Tabs become
// spaces, so "Ottawa\tON" stays two words.
func SanitizeString(s string) string {
	s = strings.TrimPrefix(s, byteOrderMark)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\t':
			return ' '
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}

// SanitizeEnvValue trims an environment value and removes one pair of
// matching surrounding quotes, as left behind by hand-written .env files.
func SanitizeEnvValue(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	return strings.TrimSpace(s)
}

// MaskSecret keeps the first visiblePrefix bytes of s and hides the rest.
// A secret no longer than visiblePrefix is hidden entirely.
func MaskSecret(s string, visiblePrefix int) string {
	if len(s) <= visiblePrefix {
		return "***"
	}
	return s[:visiblePrefix] + "***"
}
