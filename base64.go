package wire

import (
	"fmt"
	"strings"
)

// base64Alphabet is the RFC 4648 standard alphabet.
const base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

var base64Reverse = makeBase64Reverse()

func makeBase64Reverse() (t [256]int8) {
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(base64Alphabet); i++ {
		t[base64Alphabet[i]] = int8(i)
	}
	return t
}

// Base64Encode encodes p with the RFC 4648 standard alphabet, padding
// the result with '=' to a multiple of 4 characters.
func Base64Encode(p []byte) string {
	var sb strings.Builder
	sb.Grow((len(p) + 2) / 3 * 4)

	for len(p) >= 3 {
		n := uint32(p[0])<<16 | uint32(p[1])<<8 | uint32(p[2])
		sb.WriteByte(base64Alphabet[n>>18])
		sb.WriteByte(base64Alphabet[n>>12&0x3F])
		sb.WriteByte(base64Alphabet[n>>6&0x3F])
		sb.WriteByte(base64Alphabet[n&0x3F])
		p = p[3:]
	}

	switch len(p) {
	case 1:
		n := uint32(p[0]) << 16
		sb.WriteByte(base64Alphabet[n>>18])
		sb.WriteByte(base64Alphabet[n>>12&0x3F])
		sb.WriteString("==")
	case 2:
		n := uint32(p[0])<<16 | uint32(p[1])<<8
		sb.WriteByte(base64Alphabet[n>>18])
		sb.WriteByte(base64Alphabet[n>>12&0x3F])
		sb.WriteByte(base64Alphabet[n>>6&0x3F])
		sb.WriteString("=")
	}

	return sb.String()
}

// Base64EncodeString encodes the Latin-1 bytes of s. It errors if s
// contains characters above U+00FF.
func Base64EncodeString(s string) (string, error) {
	p, err := Latin1Bytes(s)
	if err != nil {
		return "", err
	}
	return Base64Encode(p), nil
}

// Base64Decode decodes RFC 4648 Base64 text back to bytes. Padding
// characters are ignored wherever they appear; any other character
// outside the alphabet is an error. A trailing group of a single data
// character cannot encode a byte and is reported as truncated input.
func Base64Decode(s string) ([]byte, error) {
	out := make([]byte, 0, len(s)/4*3)

	var n uint32
	var have int
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '=' {
			continue
		}
		v := base64Reverse[c]
		if v < 0 {
			return nil, fmt.Errorf("invalid base64 character %q at index %d", c, i)
		}
		n = n<<6 | uint32(v)
		have++
		if have == 4 {
			out = append(out, byte(n>>16), byte(n>>8), byte(n))
			n, have = 0, 0
		}
	}

	switch have {
	case 1:
		return nil, fmt.Errorf("truncated base64 input: 1 leftover character")
	case 2:
		out = append(out, byte(n>>4))
	case 3:
		out = append(out, byte(n>>10), byte(n>>2))
	}

	return out, nil
}

// Base64DecodeString decodes s and reassembles the bytes as a Latin-1
// string, one character per byte. This is a raw byte mapping, not a
// UTF-8 decode, even when the decoded bytes happen to be UTF-8 text.
func Base64DecodeString(s string) (string, error) {
	p, err := Base64Decode(s)
	if err != nil {
		return "", err
	}
	return Latin1String(p), nil
}
