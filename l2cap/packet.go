// Package l2cap implements the ACL data plane of the bridge: HCI ACL
// packet accessors, L2CAP PDU reassembly and the connection-oriented
// channel signaling used by SDP and the HID profile.
package l2cap

import "encoding/binary"

// Packet boundary flags of HCI ACL Data Packet [Vol 2, Part E, 5.4.2].
const (
	PbfHostToControllerStart = 0x00
	PbfContinuing            = 0x01
	PbfControllerToHostStart = 0x02
)

// Fixed channel ids and the dynamic allocation base [Vol 3, Part A, 2.1].
const (
	CIDSignal      = 0x0001
	CIDDynamicBase = 0x0040
)

// PSMs of the profiles the bridge connects.
const (
	PSMSDP          = 0x0001
	PSMHIDControl   = 0x0011
	PSMHIDInterrupt = 0x0013
)

// Packet implements HCI ACL Data Packet [Vol 2, Part E, 5.4.2].
// Packet boundary flags, bit[5:6] of handle field's MSB.
// Broadcast flags, bit[7:8] of handle field's MSB.
type Packet []byte

func (a Packet) Handle() uint16 { return uint16(a[0]) | (uint16(a[1]&0x0f) << 8) }
func (a Packet) PBF() int       { return (int(a[1]) >> 4) & 0x3 }
func (a Packet) BCF() int       { return (int(a[1]) >> 6) & 0x3 }
func (a Packet) DLen() int      { return int(a[2]) | (int(a[3]) << 8) }
func (a Packet) Data() []byte   { return a[4:] }

// PDU is one L2CAP basic frame: u16 length, u16 CID, payload.
type PDU []byte

func (p PDU) DLen() int       { return int(binary.LittleEndian.Uint16(p[0:2])) }
func (p PDU) CID() uint16     { return binary.LittleEndian.Uint16(p[2:4]) }
func (p PDU) Payload() []byte { return p[4:] }

// BuildFrame assembles a complete host-to-controller ACL packet carrying a
// single L2CAP basic frame.
func BuildFrame(handle uint16, cid uint16, payload []byte) []byte {
	dlen := 4 + len(payload)
	b := make([]byte, 4+dlen)
	binary.LittleEndian.PutUint16(b[0:2], handle&0x0fff|uint16(PbfHostToControllerStart)<<12)
	binary.LittleEndian.PutUint16(b[2:4], uint16(dlen))
	binary.LittleEndian.PutUint16(b[4:6], uint16(len(payload)))
	binary.LittleEndian.PutUint16(b[6:8], cid)
	copy(b[8:], payload)
	return b
}

// Fragment splits an L2CAP frame across ACL packets no larger than
// bufSize, first marked start-of-PDU and the rest continuing.
func Fragment(handle uint16, bufSize int, cid uint16, payload []byte) [][]byte {
	frame := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint16(frame[0:2], uint16(len(payload)))
	binary.LittleEndian.PutUint16(frame[2:4], cid)
	copy(frame[4:], payload)

	var out [][]byte
	pbf := uint16(PbfHostToControllerStart)
	for len(frame) > 0 {
		n := len(frame)
		if n > bufSize {
			n = bufSize
		}
		b := make([]byte, 4+n)
		binary.LittleEndian.PutUint16(b[0:2], handle&0x0fff|pbf<<12)
		binary.LittleEndian.PutUint16(b[2:4], uint16(n))
		copy(b[4:], frame[:n])
		out = append(out, b)

		frame = frame[n:]
		pbf = PbfContinuing
	}
	return out
}
