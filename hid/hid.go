// Package hid implements the HID profile transactions the bridge speaks
// over the L2CAP control and interrupt channels: protocol selection on
// channel open, the per-vendor setup writes some controllers need before
// they report, and the DATA framing of input and feedback reports.
package hid

// Transaction type headers [HID profile, 7.3]. The low nibble carries the
// transaction parameter.
const (
	HdrHandshake   = 0x00
	HdrControl     = 0x10
	HdrGetReport   = 0x40
	HdrSetReport   = 0x50
	HdrGetProtocol = 0x60
	HdrSetProtocol = 0x70
	HdrSetIdle     = 0x90
	HdrData        = 0xA0
)

// Report types for GET_REPORT/SET_REPORT/DATA.
const (
	RptInput   = 0x01
	RptOutput  = 0x02
	RptFeature = 0x03
)

// Protocol parameters for SET_PROTOCOL.
const (
	ProtocolBoot   = 0x00
	ProtocolReport = 0x01
)

// Handshake result codes the device answers control transactions with.
const (
	HandshakeSuccess        = 0x00
	HandshakeNotReady       = 0x01
	HandshakeErrInvalidID   = 0x02
	HandshakeErrUnsupported = 0x03
)

// SetProtocol builds a SET_PROTOCOL transaction.
func SetProtocol(protocol uint8) []byte {
	return []byte{HdrSetProtocol | protocol}
}

// SetIdle builds a SET_IDLE transaction. Rate 0 means report only on
// change.
func SetIdle(rate uint8) []byte {
	return []byte{HdrSetIdle, rate}
}

// GetReport builds a GET_REPORT transaction for one report id.
func GetReport(typ, id uint8) []byte {
	return []byte{HdrGetReport | typ, id}
}

// DataOutput frames a feedback report for the interrupt channel.
func DataOutput(report []byte) []byte {
	out := make([]byte, 1+len(report))
	out[0] = HdrData | RptOutput
	copy(out[1:], report)
	return out
}

// Input is a decoded DATA input transaction.
type Input struct {
	ReportID uint8
	Payload  []byte
}

// ParseInput decodes an interrupt channel payload. Only DATA input
// transactions carry reports; everything else (handshakes to our own
// writes, mostly) returns false.
func ParseInput(b []byte) (Input, bool) {
	if len(b) < 2 || b[0] != HdrData|RptInput {
		return Input{}, false
	}
	return Input{ReportID: b[1], Payload: b[2:]}, true
}

// IsHandshake reports whether a control channel payload is a handshake,
// returning its result code.
func IsHandshake(b []byte) (uint8, bool) {
	if len(b) != 1 || b[0]&0xF0 != HdrHandshake {
		return 0, false
	}
	return b[0] & 0x0F, true
}
