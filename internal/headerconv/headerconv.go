// Package headerconv normalizes header keys written in option maps into wire
// form: underscores become hyphens and every hyphen-separated segment is
// capitalized with the remainder lowered (user_agent -> User-Agent).
package headerconv

import "strings"

// Canonical returns the normalized wire form of key. Keys that are already
// canonical pass through unchanged.
func Canonical(key string) string {
	if key == "" {
		return key
	}
	var b strings.Builder
	b.Grow(len(key))
	startOfSegment := true
	for i := 0; i < len(key); i++ {
		c := key[i]
		if c == '_' || c == '-' {
			b.WriteByte('-')
			startOfSegment = true
			continue
		}
		if startOfSegment {
			b.WriteByte(upper(c))
			startOfSegment = false
		} else {
			b.WriteByte(lower(c))
		}
	}
	return b.String()
}

func upper(c byte) byte {
	if 'a' <= c && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

func lower(c byte) byte {
	if 'A' <= c && c <= 'Z' {
		return c + ('a' - 'A')
	}
	return c
}
