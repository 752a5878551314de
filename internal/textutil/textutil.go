package textutil

import (
	"crypto/md5"
	"encoding/hex"
	"unicode"
)

// Hash computes the MD5 hex digest of a string, used for content-addressed ids.
func Hash(s string) string {
	h := md5.Sum([]byte(s))
	return hex.EncodeToString(h[:])
}

// Truncate shortens a string to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// Prefix returns the first n runes of a string.
func Prefix(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// HasLetter reports whether a string contains at least one alphabetic rune.
func HasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// IsUpperAlnum reports whether a string is entirely uppercase letters and
// digits, containing at least one of each.
func IsUpperAlnum(s string) bool {
	hasLetter := false
	hasDigit := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			return false
		}
	}
	return hasLetter && hasDigit
}
