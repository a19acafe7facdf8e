package wire

import (
	"encoding/binary"
	"fmt"

	"github.com/wirebyte/wire/internal/errd"
)

// StatusCode is a WebSocket close status code.
// https://tools.ietf.org/html/rfc6455#section-7.4
type StatusCode int

// These codes were retrieved from:
// https://www.iana.org/assignments/websocket/websocket.xhtml#close-code-number
//
// Only the codes registered with IANA are defined; 4000-4999 is
// reserved for arbitrary use by applications.
const (
	StatusNormalClosure   StatusCode = 1000
	StatusGoingAway       StatusCode = 1001
	StatusProtocolError   StatusCode = 1002
	StatusUnsupportedData StatusCode = 1003

	// 1004 is reserved and so not exported.
	statusReserved StatusCode = 1004

	// StatusNoStatusRcvd cannot appear on the wire. It is what
	// ParseClosePayload reports for an empty close payload.
	StatusNoStatusRcvd StatusCode = 1005

	// StatusAbnormalClosure likewise never appears on the wire.
	StatusAbnormalClosure StatusCode = 1006

	StatusInvalidFramePayloadData StatusCode = 1007
	StatusPolicyViolation         StatusCode = 1008
	StatusMessageTooBig           StatusCode = 1009
	StatusMandatoryExtension      StatusCode = 1010
	StatusInternalError           StatusCode = 1011
	StatusServiceRestart          StatusCode = 1012
	StatusTryAgainLater           StatusCode = 1013
	StatusBadGateway              StatusCode = 1014

	// 1015 is only used client side to signal a TLS failure, so it
	// cannot be sent either.
	statusTLSHandshake StatusCode = 1015
)

// maxControlPayload is the maximum length of a control frame payload.
// See https://tools.ietf.org/html/rfc6455#section-5.5
const maxControlPayload = 125

// validSendCode reports whether code may be written into a close
// payload.
func validSendCode(code StatusCode) bool {
	switch code {
	case statusReserved, StatusNoStatusRcvd, StatusAbnormalClosure, statusTLSHandshake:
		return false
	}
	if code >= StatusNormalClosure && code <= StatusBadGateway {
		return true
	}
	// 4000-4999 is free for applications; 3000-3999 needs
	// registration but is legal on the wire.
	return code >= 3000 && code <= 4999
}

// ParseClosePayload splits a close frame payload into its status code
// and reason. An empty payload is StatusNoStatusRcvd with no reason.
func ParseClosePayload(p []byte) (_ StatusCode, _ string, err error) {
	defer errd.Wrap(&err, "failed to parse close payload")

	switch {
	case len(p) == 0:
		return StatusNoStatusRcvd, "", nil
	case len(p) == 1:
		return 0, "", fmt.Errorf("1 byte cannot carry the 2 byte status code")
	case len(p) > maxControlPayload:
		return 0, "", fmt.Errorf("%d bytes exceeds the %d byte control frame limit", len(p), maxControlPayload)
	}

	// https://tools.ietf.org/html/rfc6455#section-5.5.1
	if _, err := DecodeUTF8Runes(p[2:], UTF8Options{Strict: true}); err != nil {
		return 0, "", fmt.Errorf("invalid utf-8 reason: %w", err)
	}

	code := StatusCode(UnpackUint16(binary.BigEndian, p[:2])[0])
	return code, string(p[2:]), nil
}

// AppendClosePayload appends a close frame payload carrying code and
// reason to b. The code must be sendable and the payload must fit a
// control frame.
func AppendClosePayload(b []byte, code StatusCode, reason string) (_ []byte, err error) {
	defer errd.Wrap(&err, "failed to build close payload")

	if !validSendCode(code) {
		return nil, fmt.Errorf("status code %v cannot be sent", int(code))
	}
	if 2+len(reason) > maxControlPayload {
		return nil, fmt.Errorf("reason of %d bytes overflows the %d byte control frame limit", len(reason), maxControlPayload)
	}

	b = append(b, PackUint16(binary.BigEndian, uint16(code))...)
	return append(b, reason...), nil
}
