package wire

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// UTF8Options controls validation policy for DecodeUTF8 and
// DecodeUTF8Runes. The zero value is the lenient default: repair
// invalid input with U+FFFD, reject overlong encodings and surrogates.
type UTF8Options struct {
	// Strict makes any validation failure an error instead of a
	// U+FFFD substitution.
	Strict bool

	// AllowOverlong accepts sequences that encode a value using more
	// bytes than its minimal form.
	AllowOverlong bool

	// AllowSurrogates accepts decoded values in the UTF-16 surrogate
	// range 0xD800-0xDFFF.
	AllowSurrogates bool
}

// InvalidUTF8Error reports a malformed byte sequence: a bad lead byte,
// a missing or malformed continuation byte, or an overlong encoding.
// Offset is the position of the first byte that failed validation; for
// a truncated sequence it is where the missing byte would start.
type InvalidUTF8Error struct {
	Offset int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("invalid UTF-8 at offset %d", e.Offset)
}

// InvalidCodePointError reports a well-formed sequence whose decoded
// value is not a valid Unicode scalar: a surrogate half or a value
// above U+10FFFF.
type InvalidCodePointError struct {
	Offset int
	Value  uint32
}

func (e *InvalidCodePointError) Error() string {
	return fmt.Sprintf("invalid code point U+%04X at offset %d", e.Value, e.Offset)
}

// utf8LeadSize returns the sequence length implied by lead byte c, or
// 0 if c cannot begin a sequence. 0xC0 and 0xC1 would only ever begin
// overlong encodings and 0xF5-0xFF would only encode values beyond
// U+10FFFF, so all are invalid leads.
// See https://tools.ietf.org/html/rfc3629#section-4
func utf8LeadSize(c byte) int {
	switch {
	case c <= 0x7F:
		return 1
	case c >= 0xC2 && c <= 0xDF:
		return 2
	case c >= 0xE0 && c <= 0xEF:
		return 3
	case c >= 0xF0 && c <= 0xF4:
		return 4
	}
	return 0
}

// utf8Floor is the smallest value representable at each sequence
// length; anything below it is overlong.
var utf8Floor = [5]uint32{0, 0, 0x80, 0x800, 0x10000}

// DecodeUTF8Runes reads p as UTF-8 and returns the decoded scalar
// values.
//
// In lenient mode every invalid byte yields exactly one U+FFFD and
// scanning resumes at the following byte, so a four byte sequence that
// goes wrong at its third byte produces a replacement for the lead and
// is re-attempted from the third byte. The one exception is a
// well-formed 0xF4 sequence whose value exceeds U+10FFFF, which clamps
// to a single U+FFFD for the whole sequence.
//
// In strict mode the first failure is returned as *InvalidUTF8Error or
// *InvalidCodePointError.
func DecodeUTF8Runes(p []byte, opts UTF8Options) ([]rune, error) {
	out := make([]rune, 0, len(p))

	for i := 0; i < len(p); {
		c := p[i]
		size := utf8LeadSize(c)

		if size == 1 {
			out = append(out, rune(c))
			i++
			continue
		}
		if size == 0 {
			if opts.Strict {
				return nil, &InvalidUTF8Error{Offset: i}
			}
			out = append(out, utf8.RuneError)
			i++
			continue
		}

		// Locate the first byte that breaks the sequence, if any.
		fault := -1
		if i+size > len(p) {
			fault = len(p)
		} else {
			for j := i + 1; j < i+size; j++ {
				if p[j]&0xC0 != 0x80 {
					fault = j
					break
				}
			}
		}
		if fault >= 0 {
			if opts.Strict {
				return nil, &InvalidUTF8Error{Offset: fault}
			}
			out = append(out, utf8.RuneError)
			i++
			continue
		}

		v := uint32(c) & (0x7F >> size)
		for j := i + 1; j < i+size; j++ {
			v = v<<6 | uint32(p[j]&0x3F)
		}

		switch {
		case v < utf8Floor[size] && !opts.AllowOverlong:
			if opts.Strict {
				return nil, &InvalidUTF8Error{Offset: i}
			}
			out = append(out, utf8.RuneError)
			i++
		case v >= 0xD800 && v <= 0xDFFF && !opts.AllowSurrogates:
			if opts.Strict {
				return nil, &InvalidCodePointError{Offset: i, Value: v}
			}
			out = append(out, utf8.RuneError)
			i++
		case v > 0x10FFFF:
			// Only reachable through lead 0xF4.
			if opts.Strict {
				return nil, &InvalidCodePointError{Offset: i, Value: v}
			}
			out = append(out, utf8.RuneError)
			i += size
		default:
			out = append(out, rune(v))
			i += size
		}
	}

	return out, nil
}

// DecodeUTF8 reads p as UTF-8 and returns the decoded text, applying
// the same policies as DecodeUTF8Runes.
//
// The result is a native string, which cannot carry surrogate halves;
// values admitted by AllowSurrogates come back as U+FFFD here. Use
// DecodeUTF8Runes to observe them.
func DecodeUTF8(p []byte, opts UTF8Options) (string, error) {
	runes, err := DecodeUTF8Runes(p, opts)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.Grow(len(p))
	for _, r := range runes {
		sb.WriteRune(r)
	}
	return sb.String(), nil
}

// ReinterpretAsLatin1 re-emits the UTF-8 encoding of s's characters as
// a string of Latin-1 characters, one per encoded byte. It is the
// counterpart of Base64DecodeString's raw mapping: the result's
// characters are the individual UTF-8 bytes of s.
func ReinterpretAsLatin1(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	var buf [4]byte
	for _, r := range s {
		n := utf8.EncodeRune(buf[:], r)
		for _, c := range buf[:n] {
			sb.WriteRune(rune(c))
		}
	}
	return sb.String()
}
