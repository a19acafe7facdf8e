package wire

import (
	"encoding/binary"
	"encoding/hex"
)

// SHA1 returns the FIPS 180-4 SHA-1 digest of p as 40 lowercase hex
// characters.
//
// SHA-1 is cryptographically broken. It survives here for protocol
// compatibility (content addressing, legacy handshakes), not security.
func SHA1(p []byte) string {
	h := [5]uint32{0x67452301, 0xEFCDAB89, 0x98BADCFE, 0x10325476, 0xC3D2E1F0}

	// Pad to a 64-byte boundary: 0x80, zeros, then the original
	// length in bits as a big-endian 64-bit integer.
	padded := make([]byte, 0, len(p)+72)
	padded = append(padded, p...)
	padded = append(padded, 0x80)
	for len(padded)%64 != 56 {
		padded = append(padded, 0)
	}
	padded = binary.BigEndian.AppendUint64(padded, uint64(len(p))*8)

	var w [80]uint32
	for ; len(padded) > 0; padded = padded[64:] {
		for i := 0; i < 16; i++ {
			w[i] = binary.BigEndian.Uint32(padded[i*4:])
		}
		for i := 16; i < 80; i++ {
			w[i] = RotL32(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
		}

		a, b, c, d, e := h[0], h[1], h[2], h[3], h[4]
		for i := 0; i < 80; i++ {
			var f, k uint32
			switch {
			case i < 20:
				f = b&c | ^b&d
				k = 0x5A827999
			case i < 40:
				f = b ^ c ^ d
				k = 0x6ED9EBA1
			case i < 60:
				f = b&c | b&d | c&d
				k = 0x8F1BBCDC
			default:
				f = b ^ c ^ d
				k = 0xCA62C1D6
			}
			t := RotL32(a, 5) + f + e + k + w[i]
			e, d, c, b, a = d, c, RotL32(b, 30), a, t
		}
		h[0] += a
		h[1] += b
		h[2] += c
		h[3] += d
		h[4] += e
	}

	var digest [20]byte
	for i, v := range h {
		binary.BigEndian.PutUint32(digest[i*4:], v)
	}
	return hex.EncodeToString(digest[:])
}
