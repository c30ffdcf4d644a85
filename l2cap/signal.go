package l2cap

import "encoding/binary"

// Signal is one signaling command body.
type Signal interface {
	Code() int
	Marshal() []byte
}

// SigCmd is a raw signaling command as carried on CID 0x0001:
// u8 code, u8 identifier, u16 length, data.
type SigCmd []byte

func (s SigCmd) Code() int    { return int(s[0]) }
func (s SigCmd) ID() uint8    { return s[1] }
func (s SigCmd) Len() int     { return int(binary.LittleEndian.Uint16(s[2:4])) }
func (s SigCmd) Data() []byte { return s[4 : 4+s.Len()] }

// Valid reports whether the buffer holds at least one whole command.
func (s SigCmd) Valid() bool {
	return len(s) >= 4 && len(s) >= 4+s.Len()
}

// Next returns the buffer past this command; several commands may share
// one C-frame.
func (s SigCmd) Next() SigCmd {
	return SigCmd(s[4+s.Len():])
}

// MarshalSignal wraps a command body with the signaling header, yielding
// the payload for a CID 0x0001 frame.
func MarshalSignal(id uint8, sig Signal) []byte {
	data := sig.Marshal()
	b := make([]byte, 4+len(data))
	b[0] = uint8(sig.Code())
	b[1] = id
	binary.LittleEndian.PutUint16(b[2:4], uint16(len(data)))
	copy(b[4:], data)
	return b
}

// Configuration option types [Vol 3, Part A, 5].
const configOptMTU = 0x01

// MTUOption encodes the MTU configuration option.
func MTUOption(mtu uint16) []byte {
	return []byte{configOptMTU, 2, uint8(mtu), uint8(mtu >> 8)}
}

// ParseMTUOption walks a configuration option list for an MTU option.
func ParseMTUOption(opts []byte) (uint16, bool) {
	for len(opts) >= 2 {
		typ, olen := opts[0]&0x7f, int(opts[1])
		if len(opts) < 2+olen {
			return 0, false
		}
		if typ == configOptMTU && olen == 2 {
			return binary.LittleEndian.Uint16(opts[2:4]), true
		}
		opts = opts[2+olen:]
	}
	return 0, false
}
