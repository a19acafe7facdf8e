package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/wirebyte/wire/internal/errd"
)

// Opcode is a WebSocket frame opcode.
type Opcode int

// https://tools.ietf.org/html/rfc6455#section-11.8
const (
	OpContinuation Opcode = iota
	OpText
	OpBinary
	// 3 - 7 are reserved for further non-control frames.
	_
	_
	_
	_
	_
	OpClose
	OpPing
	OpPong
	// 11 - 15 are reserved for further control frames.
)

func (o Opcode) String() string {
	switch o {
	case OpContinuation:
		return "continue"
	case OpText:
		return "text"
	case OpBinary:
		return "binary"
	case OpClose:
		return "close"
	case OpPing:
		return "ping"
	case OpPong:
		return "pong"
	}
	return "reserved"
}

// Control reports whether o is a control opcode.
func (o Opcode) Control() bool {
	switch o {
	case OpClose, OpPing, OpPong:
		return true
	}
	return false
}

// Data reports whether o is a data opcode.
func (o Opcode) Data() bool {
	switch o {
	case OpText, OpBinary:
		return true
	}
	return false
}

// First two bytes carry the flag bits, opcode, mask bit and base
// length. Up to 8 more bytes of extended length, then 4 of mask key.
// See https://tools.ietf.org/html/rfc6455#section-5.2
const maxHeaderSize = 1 + 1 + 8 + 4

// ErrPayloadTooLarge is returned when a payload length cannot be
// represented in the frame's extended length field, whose most
// significant bit must be zero.
var ErrPayloadTooLarge = errors.New("payload too large for the frame length field")

// Header is a WebSocket frame header.
// See https://tools.ietf.org/html/rfc6455#section-5.2
type Header struct {
	Fin  bool
	RSV1 bool
	RSV2 bool
	RSV3 bool

	Opcode Opcode

	PayloadLength int64

	Masked bool
	// MaskKey holds the 4 key bytes in network order.
	MaskKey uint32
}

// AppendTo appends the wire encoding of h to b. The length field
// width is chosen minimally: 7 bits below 126, 16 bits below 65536,
// 64 bits beyond. A negative PayloadLength is ErrPayloadTooLarge.
func (h Header) AppendTo(b []byte) ([]byte, error) {
	if h.PayloadLength < 0 {
		return nil, ErrPayloadTooLarge
	}

	var b0 byte
	if h.Fin {
		b0 |= 1 << 7
	}
	if h.RSV1 {
		b0 |= 1 << 6
	}
	if h.RSV2 {
		b0 |= 1 << 5
	}
	if h.RSV3 {
		b0 |= 1 << 4
	}
	b0 |= byte(h.Opcode & 0xF)

	var b1 byte
	if h.Masked {
		b1 |= 1 << 7
	}

	switch {
	case h.PayloadLength < 126:
		b = append(b, b0, b1|byte(h.PayloadLength))
	case h.PayloadLength <= math.MaxUint16:
		b = append(b, b0, b1|126)
		b = append(b, PackUint16(binary.BigEndian, uint16(h.PayloadLength))...)
	default:
		b = append(b, b0, b1|127)
		b = append(b, PackUint64(binary.BigEndian, uint64(h.PayloadLength))...)
	}

	if h.Masked {
		b = append(b, PackUint32(binary.BigEndian, h.MaskKey)...)
	}

	return b, nil
}

// ParseHeader decodes a frame header from the front of p and returns
// it along with the number of bytes consumed.
func ParseHeader(p []byte) (_ Header, _ int, err error) {
	defer errd.Wrap(&err, "failed to parse frame header")

	if len(p) < 2 {
		return Header{}, 0, fmt.Errorf("need at least 2 bytes, have %d", len(p))
	}

	var h Header
	h.Fin = p[0]&(1<<7) != 0
	h.RSV1 = p[0]&(1<<6) != 0
	h.RSV2 = p[0]&(1<<5) != 0
	h.RSV3 = p[0]&(1<<4) != 0
	h.Opcode = Opcode(p[0] & 0xF)

	h.Masked = p[1]&(1<<7) != 0

	n := 2
	baseLength := p[1] &^ (1 << 7)
	switch baseLength {
	case 126:
		if len(p) < n+2 {
			return Header{}, 0, fmt.Errorf("missing 16-bit extended length")
		}
		h.PayloadLength = int64(UnpackUint16(binary.BigEndian, p[n:n+2])[0])
		n += 2
	case 127:
		if len(p) < n+8 {
			return Header{}, 0, fmt.Errorf("missing 64-bit extended length")
		}
		length := UnpackUint64(binary.BigEndian, p[n:n+8])[0]
		if length > math.MaxInt64 {
			return Header{}, 0, fmt.Errorf("received disallowed negative payload length %#x", length)
		}
		h.PayloadLength = int64(length)
		n += 8
	default:
		h.PayloadLength = int64(baseLength)
	}

	if h.Masked {
		if len(p) < n+4 {
			return Header{}, 0, fmt.Errorf("missing 4-byte mask key")
		}
		h.MaskKey = UnpackUint32(binary.BigEndian, p[n:n+4])[0]
		n += 4
	}

	return h, n, nil
}

// Frame is one WebSocket frame. The payload length is len(Payload);
// there is no independent length field to fall out of sync.
type Frame struct {
	Fin  bool
	RSV1 bool
	RSV2 bool
	RSV3 bool

	Opcode Opcode

	Masked bool
	// MaskKey holds the 4 key bytes in network order. Meaningful
	// only when Masked is set.
	MaskKey uint32

	Payload []byte
}

func (f Frame) header() Header {
	return Header{
		Fin:           f.Fin,
		RSV1:          f.RSV1,
		RSV2:          f.RSV2,
		RSV3:          f.RSV3,
		Opcode:        f.Opcode,
		PayloadLength: int64(len(f.Payload)),
		Masked:        f.Masked,
		MaskKey:       f.MaskKey,
	}
}

// EncodeFrame returns the wire encoding of f.
//
// The payload is XOR-masked before writing only when f.Masked and
// applyMask are both set. With applyMask unset the payload is emitted
// as supplied, for callers that masked it themselves; passing an
// unmasked payload with the mask bit set produces a frame that peers
// will unmask into garbage. f.Payload is never modified.
func EncodeFrame(f Frame, applyMask bool) ([]byte, error) {
	b, err := f.header().AppendTo(make([]byte, 0, maxHeaderSize+len(f.Payload)))
	if err != nil {
		return nil, err
	}

	if f.Masked && applyMask {
		n := len(b)
		b = append(b, f.Payload...)
		maskBytes(maskKeyBytes(f.MaskKey), 0, b[n:])
		return b, nil
	}
	return append(b, f.Payload...), nil
}

// DecodeFrame decodes one complete frame from p. The buffer must hold
// exactly one frame: a short buffer and trailing bytes are both
// errors, since the caller owns reassembly.
//
// A masked payload is unmasked unless keepMasked is set, in which
// case Payload is returned as it appeared on the wire. The returned
// frame never aliases p.
func DecodeFrame(p []byte, keepMasked bool) (_ Frame, err error) {
	defer errd.Wrap(&err, "failed to decode frame")

	h, n, err := ParseHeader(p)
	if err != nil {
		return Frame{}, err
	}

	rest := int64(len(p) - n)
	switch {
	case rest < h.PayloadLength:
		return Frame{}, fmt.Errorf("frame truncated: header announces %d payload bytes, %d remain", h.PayloadLength, rest)
	case rest > h.PayloadLength:
		return Frame{}, fmt.Errorf("%d trailing bytes after frame", rest-h.PayloadLength)
	}

	payload := make([]byte, h.PayloadLength)
	copy(payload, p[n:])
	if h.Masked && !keepMasked {
		maskBytes(maskKeyBytes(h.MaskKey), 0, payload)
	}

	return Frame{
		Fin:     h.Fin,
		RSV1:    h.RSV1,
		RSV2:    h.RSV2,
		RSV3:    h.RSV3,
		Opcode:  h.Opcode,
		Masked:  h.Masked,
		MaskKey: h.MaskKey,
		Payload: payload,
	}, nil
}
