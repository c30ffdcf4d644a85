package l2cap

import "github.com/openretro/bridge"

// fragBufSize bounds a reassembled PDU including its basic header.
const fragBufSize = 1024

// Reassembler recombines controller-to-host ACL fragments into L2CAP PDUs
// [Vol 3, Part A, 7.2.2]. A single buffer serves the whole link; fragments
// of different handles must not interleave. A fresh start packet while a
// recombination is pending abandons the pending one.
type Reassembler struct {
	log bridge.Logger

	buf      [fragBufSize]byte
	offset   int
	expected int
}

func NewReassembler(log bridge.Logger) *Reassembler {
	return &Reassembler{log: log}
}

// Feed consumes one ACL data packet. When the packet completes a PDU the
// PDU is returned; it stays valid until the next Feed call. Incomplete or
// dropped input returns nil.
func (r *Reassembler) Feed(pkt Packet) PDU {
	data := pkt.Data()

	if pkt.PBF()&PbfContinuing == 0 {
		if r.expected != 0 {
			r.log.Warnf("new ACL start with %d/%d bytes pending, dropping partial PDU",
				r.offset, r.expected)
			r.reset()
		}
		if len(data) < 4 {
			r.log.Warnf("short ACL start fragment (%d bytes)", len(data))
			return nil
		}

		total := 4 + PDU(data).DLen()
		if total > fragBufSize {
			r.log.Warnf("oversized L2CAP PDU (%d bytes), dropping", total)
			return nil
		}
		if len(data) >= total {
			return PDU(data[:total])
		}

		copy(r.buf[:], data)
		r.offset = len(data)
		r.expected = total
		return nil
	}

	if r.expected == 0 {
		r.log.Warn("ACL continuation without a pending PDU, dropping")
		return nil
	}
	if r.offset+len(data) > r.expected {
		r.log.Warnf("ACL continuation overruns PDU (%d+%d > %d), dropping",
			r.offset, len(data), r.expected)
		r.reset()
		return nil
	}

	copy(r.buf[r.offset:], data)
	r.offset += len(data)
	if r.offset < r.expected {
		return nil
	}

	p := PDU(r.buf[:r.expected])
	r.reset()
	return p
}

func (r *Reassembler) reset() {
	r.offset = 0
	r.expected = 0
}
