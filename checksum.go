package wire

import (
	"math/bits"
)

// adlerModulus is the largest prime smaller than 2^16.
// See https://tools.ietf.org/html/rfc1950#section-9
const adlerModulus = 65521

// Adler32 returns the RFC 1950 Adler-32 checksum of p.
// The high 16 bits hold the running sum of sums, the low 16 bits the
// running byte sum.
func Adler32(p []byte) uint32 {
	a, b := uint32(1), uint32(0)
	for _, c := range p {
		a = (a + uint32(c)) % adlerModulus
		b = (b + a) % adlerModulus
	}
	return b<<16 | a
}

// crcPoly is the reflected form of the CRC-32 generator polynomial
// used by zlib, PNG and Ethernet.
const crcPoly = 0xEDB88320

var crcTable = makeCRCTable()

func makeCRCTable() (t [256]uint32) {
	for i := range t {
		c := uint32(i)
		for k := 0; k < 8; k++ {
			if c&1 != 0 {
				c = crcPoly ^ c>>1
			} else {
				c >>= 1
			}
		}
		t[i] = c
	}
	return t
}

// CRC32 returns the reflected CRC-32 of p with initial value and final
// XOR of 0xFFFFFFFF.
//
// The result is the canonical 32 bit pattern. Environments that print
// CRCs through a signed 32-bit lens show the same bits as a negative
// number; cast to int32 to reproduce that rendering.
func CRC32(p []byte) uint32 {
	c := ^uint32(0)
	for _, b := range p {
		c = crcTable[byte(c)^b] ^ c>>8
	}
	return ^c
}

// RotL32 rotates x left by n bits. n is taken modulo 32, so
// RotL32(x, 33) == RotL32(x, 1).
func RotL32(x uint32, n int) uint32 {
	return bits.RotateLeft32(x, n)
}

// RotR32 rotates x right by n bits, modulo 32.
func RotR32(x uint32, n int) uint32 {
	return bits.RotateLeft32(x, -n)
}
