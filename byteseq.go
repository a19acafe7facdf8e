package wire

import (
	"fmt"
	"strings"
)

// Latin1Bytes converts s to raw bytes, mapping each character to the
// byte with the same value. Characters above U+00FF cannot be
// represented and cause an error rather than silent truncation.
func Latin1Bytes(s string) ([]byte, error) {
	b := make([]byte, 0, len(s))
	for i, r := range s {
		if r > 0xFF {
			return nil, fmt.Errorf("character %q at index %d is outside the Latin-1 range", r, i)
		}
		b = append(b, byte(r))
	}
	return b, nil
}

// Latin1String is the inverse of Latin1Bytes. Each byte becomes the
// character with the same value, so the result is not a UTF-8
// interpretation of p.
func Latin1String(p []byte) string {
	var sb strings.Builder
	sb.Grow(len(p))
	for _, c := range p {
		sb.WriteRune(rune(c))
	}
	return sb.String()
}
