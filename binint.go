package wire

import (
	"encoding/binary"
)

// UnpackUint16 partitions p into 2-byte groups and reads each with
// order. A final short group is copied into the front of a zeroed
// 2-byte buffer before reading, so under big-endian the present bytes
// are the most significant and under little-endian they stand alone.
func UnpackUint16(order binary.ByteOrder, p []byte) []uint16 {
	vals := make([]uint16, 0, (len(p)+1)/2)
	for len(p) >= 2 {
		vals = append(vals, order.Uint16(p))
		p = p[2:]
	}
	if len(p) > 0 {
		var tail [2]byte
		copy(tail[:], p)
		vals = append(vals, order.Uint16(tail[:]))
	}
	return vals
}

// UnpackUint32 partitions p into 4-byte groups and reads each with
// order. A short final group follows the same rule as UnpackUint16:
// [0x34] unpacks to 0x34000000 big-endian and 0x9E unpacks little.
func UnpackUint32(order binary.ByteOrder, p []byte) []uint32 {
	vals := make([]uint32, 0, (len(p)+3)/4)
	for len(p) >= 4 {
		vals = append(vals, order.Uint32(p))
		p = p[4:]
	}
	if len(p) > 0 {
		var tail [4]byte
		copy(tail[:], p)
		vals = append(vals, order.Uint32(tail[:]))
	}
	return vals
}

// UnpackUint64 partitions p into 8-byte groups and reads each with
// order, handling a short final group like UnpackUint16.
func UnpackUint64(order binary.ByteOrder, p []byte) []uint64 {
	vals := make([]uint64, 0, (len(p)+7)/8)
	for len(p) >= 8 {
		vals = append(vals, order.Uint64(p))
		p = p[8:]
	}
	if len(p) > 0 {
		var tail [8]byte
		copy(tail[:], p)
		vals = append(vals, order.Uint64(tail[:]))
	}
	return vals
}

// PackUint16 writes each value as exactly 2 bytes in the given order,
// concatenated in argument order.
func PackUint16(order binary.ByteOrder, vals ...uint16) []byte {
	b := make([]byte, len(vals)*2)
	for i, v := range vals {
		order.PutUint16(b[i*2:], v)
	}
	return b
}

// PackUint32 writes each value as exactly 4 bytes in the given order,
// concatenated in argument order.
func PackUint32(order binary.ByteOrder, vals ...uint32) []byte {
	b := make([]byte, len(vals)*4)
	for i, v := range vals {
		order.PutUint32(b[i*4:], v)
	}
	return b
}

// PackUint64 writes each value as exactly 8 bytes in the given order,
// concatenated in argument order.
func PackUint64(order binary.ByteOrder, vals ...uint64) []byte {
	b := make([]byte, len(vals)*8)
	for i, v := range vals {
		order.PutUint64(b[i*8:], v)
	}
	return b
}
