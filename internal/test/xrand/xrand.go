// Package xrand generates random test data.
package xrand

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Bytes generates random bytes with length n.
func Bytes(n int) []byte {
	b := make([]byte, n)
	_, err := rand.Reader.Read(b)
	if err != nil {
		panic(fmt.Sprintf("failed to generate rand bytes: %v", err))
	}
	return b
}

// Bool returns a randomly generated boolean.
func Bool() bool {
	return Int(2) == 1
}

// Int returns a randomly generated integer in [0, max).
func Int(max int) int {
	x, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(fmt.Sprintf("failed to get random int: %v", err))
	}
	return int(x.Int64())
}

// Uint32 returns a randomly generated uint32.
func Uint32() uint32 {
	b := Bytes(4)
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

// Uint64 returns a randomly generated uint64.
func Uint64() uint64 {
	return uint64(Uint32())<<32 | uint64(Uint32())
}

// Latin1String generates a random string of n characters in the
// Latin-1 range, so it survives byte round-trips.
func Latin1String(n int) string {
	b := Bytes(n)
	r := make([]rune, n)
	for i, c := range b {
		r[i] = rune(c)
	}
	return string(r)
}
