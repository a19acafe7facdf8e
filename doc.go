// Package wire implements small, self-contained binary codecs:
// endian-aware integer packing, Adler-32, CRC-32 and SHA-1 checksums,
// RFC 4648 Base64, a validating UTF-8 decoder with configurable repair
// policies, and an RFC 6455 WebSocket frame codec.
//
// Every function is pure and operates on fully-buffered byte slices.
// Nothing here performs I/O or keeps state across calls, so all of it
// is safe for concurrent use. A WebSocket frame split across reads must
// be reassembled by the caller before decoding.
//
// Strings entering or leaving the binary functions use the Latin-1
// convention: each character maps to the byte with the same value. See
// Latin1Bytes and Latin1String.
package wire
