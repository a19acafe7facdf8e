package wire

import (
	"bytes"
	"math"
	"strconv"
	"testing"
	_ "unsafe"

	"github.com/gobwas/ws"
	_ "github.com/gorilla/websocket"

	"github.com/wirebyte/wire/internal/test/assert"
	"github.com/wirebyte/wire/internal/test/xrand"
)

func randHeader() Header {
	h := Header{
		Fin:    xrand.Bool(),
		RSV1:   xrand.Bool(),
		RSV2:   xrand.Bool(),
		RSV3:   xrand.Bool(),
		Opcode: Opcode(xrand.Int(16)),

		Masked:        xrand.Bool(),
		PayloadLength: int64(xrand.Uint64() >> 1),
	}
	if h.Masked {
		h.MaskKey = xrand.Uint32()
	}
	return h
}

func testHeader(t *testing.T, h Header) {
	t.Helper()

	b, err := h.AppendTo(nil)
	assert.Success(t, err)

	h2, n, err := ParseHeader(b)
	assert.Success(t, err)
	assert.Equal(t, "consumed", len(b), n)
	assert.Equal(t, "read header", h, h2)
}

func TestHeader(t *testing.T) {
	t.Parallel()

	t.Run("lengths", func(t *testing.T) {
		t.Parallel()

		lengths := []int{
			0,
			1,
			124,
			125,
			126,
			127,

			65534,
			65535,
			65536,
			65537,
		}

		for _, n := range lengths {
			n := n
			t.Run(strconv.Itoa(n), func(t *testing.T) {
				t.Parallel()

				testHeader(t, Header{
					PayloadLength: int64(n),
				})
			})
		}
	})

	t.Run("fuzz", func(t *testing.T) {
		t.Parallel()

		for i := 0; i < 10000; i++ {
			testHeader(t, randHeader())
		}
	})

	t.Run("minimalWidth", func(t *testing.T) {
		t.Parallel()

		widths := []struct {
			length int64
			header int
		}{
			{125, 2},
			{126, 4},
			{65535, 4},
			{65536, 10},
		}
		for _, w := range widths {
			b, err := Header{PayloadLength: w.length}.AppendTo(nil)
			assert.Success(t, err)
			assert.Equal(t, "header size", w.header, len(b))
		}
	})

	t.Run("payloadTooLarge", func(t *testing.T) {
		t.Parallel()

		_, err := Header{PayloadLength: -1}.AppendTo(nil)
		assert.ErrorIs(t, ErrPayloadTooLarge, err)
	})

	t.Run("negativeWireLength", func(t *testing.T) {
		t.Parallel()

		b, err := Header{PayloadLength: math.MaxInt64}.AppendTo(nil)
		assert.Success(t, err)

		// Set the disallowed most significant bit of the 64-bit
		// extended length.
		b[2] |= 1 << 7
		_, _, err = ParseHeader(b)
		assert.Error(t, err)
		assert.Contains(t, err, "negative payload length")
	})

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()

		full, err := Header{PayloadLength: 300, Masked: true, MaskKey: 0xDEADBEEF}.AppendTo(nil)
		assert.Success(t, err)

		for n := range full {
			_, _, err := ParseHeader(full[:n])
			assert.Error(t, err)
		}
	})
}

func TestOpcode(t *testing.T) {
	t.Parallel()

	names := map[Opcode]string{
		OpContinuation: "continue",
		OpText:         "text",
		OpBinary:       "binary",
		OpClose:        "close",
		OpPing:         "ping",
		OpPong:         "pong",
	}
	for op := Opcode(0); op < 16; op++ {
		exp, ok := names[op]
		if !ok {
			exp = "reserved"
		}
		assert.Equal(t, "opname", exp, op.String())
	}

	assert.Equal(t, "control", true, OpClose.Control())
	assert.Equal(t, "control", false, OpText.Control())
	assert.Equal(t, "data", true, OpBinary.Data())
	assert.Equal(t, "data", false, OpPing.Data())
}

func randFrame(masked bool) Frame {
	f := Frame{
		Fin:     xrand.Bool(),
		RSV1:    xrand.Bool(),
		RSV2:    xrand.Bool(),
		RSV3:    xrand.Bool(),
		Opcode:  Opcode(xrand.Int(16)),
		Payload: xrand.Bytes(xrand.Int(300)),
	}
	if masked {
		f.Masked = true
		f.MaskKey = xrand.Uint32()
	}
	return f
}

func TestFrameRoundTrip(t *testing.T) {
	t.Parallel()

	t.Run("unmasked", func(t *testing.T) {
		t.Parallel()

		for i := 0; i < 1000; i++ {
			f := randFrame(false)

			b, err := EncodeFrame(f, true)
			assert.Success(t, err)

			f2, err := DecodeFrame(b, false)
			assert.Success(t, err)
			assert.Equal(t, "frame", f, f2)
		}
	})

	t.Run("masked", func(t *testing.T) {
		t.Parallel()

		for i := 0; i < 1000; i++ {
			f := randFrame(true)

			b, err := EncodeFrame(f, true)
			assert.Success(t, err)

			f2, err := DecodeFrame(b, false)
			assert.Success(t, err)
			assert.Equal(t, "frame", f, f2)
		}
	})
}

func TestFrameMasking(t *testing.T) {
	t.Parallel()

	f := Frame{
		Fin:     true,
		Opcode:  OpBinary,
		Masked:  true,
		MaskKey: 0x0A0B0CFF,
		Payload: []byte{0xA, 0xB, 0xC, 0xF2, 0xC},
	}

	b, err := EncodeFrame(f, true)
	assert.Success(t, err)
	// The caller's payload must come back untouched.
	assert.Equal(t, "payload", []byte{0xA, 0xB, 0xC, 0xF2, 0xC}, f.Payload)

	t.Run("wireBytes", func(t *testing.T) {
		t.Parallel()

		kept, err := DecodeFrame(b, true)
		assert.Success(t, err)
		assert.Equal(t, "masked payload", []byte{0, 0, 0, 0x0D, 0x6}, kept.Payload)
	})

	t.Run("unmask", func(t *testing.T) {
		t.Parallel()

		got, err := DecodeFrame(b, false)
		assert.Success(t, err)
		assert.Equal(t, "frame", f, got)
	})

	t.Run("preMasked", func(t *testing.T) {
		t.Parallel()

		// With applyMask unset the payload goes out as supplied, so
		// an already masked payload produces the same wire bytes.
		pre := Frame{
			Fin:     true,
			Opcode:  OpBinary,
			Masked:  true,
			MaskKey: 0x0A0B0CFF,
			Payload: []byte{0, 0, 0, 0x0D, 0x6},
		}
		b2, err := EncodeFrame(pre, false)
		assert.Success(t, err)
		assert.Equal(t, "wire bytes", b, b2)
	})
}

func TestDecodeFrameErrors(t *testing.T) {
	t.Parallel()

	b, err := EncodeFrame(Frame{Fin: true, Opcode: OpText, Payload: []byte("hello")}, false)
	assert.Success(t, err)

	t.Run("truncated", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeFrame(b[:len(b)-2], false)
		assert.Error(t, err)
		assert.Contains(t, err, "truncated")
	})

	t.Run("trailing", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeFrame(append(b[:len(b):len(b)], 0xFF), false)
		assert.Error(t, err)
		assert.Contains(t, err, "trailing")
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		_, err := DecodeFrame(nil, false)
		assert.Error(t, err)
	})
}

func gobwasHeader(h Header) ws.Header {
	wh := ws.Header{
		Fin:    h.Fin,
		Rsv:    ws.Rsv(h.RSV1, h.RSV2, h.RSV3),
		OpCode: ws.OpCode(h.Opcode),
		Length: h.PayloadLength,
		Masked: h.Masked,
	}
	if h.Masked {
		wh.Mask = maskKeyBytes(h.MaskKey)
	}
	return wh
}

// gobwas/ws implements the same wire format, so headers must parse
// identically in both directions.
func TestHeaderCrossValidation(t *testing.T) {
	t.Parallel()

	t.Run("gobwasReadsOurs", func(t *testing.T) {
		t.Parallel()

		for i := 0; i < 1000; i++ {
			h := randHeader()

			b, err := h.AppendTo(nil)
			assert.Success(t, err)

			wh, err := ws.ReadHeader(bytes.NewReader(b))
			assert.Success(t, err)
			assert.Equal(t, "header", gobwasHeader(h), wh)
		}
	})

	t.Run("weReadGobwas", func(t *testing.T) {
		t.Parallel()

		for i := 0; i < 1000; i++ {
			h := randHeader()

			var buf bytes.Buffer
			err := ws.WriteHeader(&buf, gobwasHeader(h))
			assert.Success(t, err)

			h2, n, err := ParseHeader(buf.Bytes())
			assert.Success(t, err)
			assert.Equal(t, "consumed", buf.Len(), n)
			assert.Equal(t, "header", h, h2)
		}
	})
}

func basicMask(key [4]byte, pos int, b []byte) int {
	for i := range b {
		b[i] ^= key[pos&3]
		pos++
	}
	return pos & 3
}

//go:linkname gorillaMaskBytes github.com/gorilla/websocket.maskBytes
func gorillaMaskBytes(key [4]byte, pos int, b []byte) int

func Benchmark_maskBytes(b *testing.B) {
	sizes := []int{
		2,
		3,
		4,
		8,
		16,
		32,
		128,
		512,
		4096,
		16384,
	}

	fns := []struct {
		name string
		fn   func(b *testing.B, key [4]byte, p []byte)
	}{
		{
			name: "basic",
			fn: func(b *testing.B, key [4]byte, p []byte) {
				for i := 0; i < b.N; i++ {
					basicMask(key, 0, p)
				}
			},
		},
		{
			name: "wire",
			fn: func(b *testing.B, key [4]byte, p []byte) {
				for i := 0; i < b.N; i++ {
					maskBytes(key, 0, p)
				}
			},
		},
		{
			name: "gorilla",
			fn: func(b *testing.B, key [4]byte, p []byte) {
				for i := 0; i < b.N; i++ {
					gorillaMaskBytes(key, 0, p)
				}
			},
		},
		{
			name: "gobwas",
			fn: func(b *testing.B, key [4]byte, p []byte) {
				for i := 0; i < b.N; i++ {
					ws.Cipher(p, key, 0)
				}
			},
		},
	}

	key := [4]byte{1, 2, 3, 4}

	for _, size := range sizes {
		p := make([]byte, size)

		b.Run(strconv.Itoa(size), func(b *testing.B) {
			for _, fn := range fns {
				b.Run(fn.name, func(b *testing.B) {
					b.SetBytes(int64(size))

					fn.fn(b, key, p)
				})
			}
		})
	}
}
