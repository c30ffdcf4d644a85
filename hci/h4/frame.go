package h4

import (
	"time"

	"github.com/openretro/bridge"
)

// HCI packet indicators carried on the wire.
const (
	aclPacket   = 0x02
	eventPacket = 0x04
)

// staleTimeout drops a half-assembled frame when the UART goes quiet mid
// packet, so one corrupted length byte cannot wedge the link.
const staleTimeout = 500 * time.Millisecond

// assembler rebuilds whole HCI packets from arbitrary UART read chunks.
// Complete frames, indicator byte included, are delivered on out.
type assembler struct {
	log  bridge.Logger
	out  chan []byte
	done <-chan struct{}

	buf      []byte
	deadline time.Time
}

func newAssembler(out chan []byte, done <-chan struct{}, log bridge.Logger) *assembler {
	return &assembler{
		log:  log,
		out:  out,
		done: done,
		buf:  make([]byte, 0, 256),
	}
}

func (a *assembler) feed(b []byte) {
	if len(b) == 0 {
		return
	}
	if len(a.buf) > 0 && time.Now().After(a.deadline) {
		a.log.Warnf("dropping stale partial frame (%d bytes)", len(a.buf))
		a.reset()
	}

	if len(a.buf) == 0 {
		b = a.findStart(b)
		if b == nil {
			return
		}
		a.deadline = time.Now().Add(staleTimeout)
	}
	a.buf = append(a.buf, b...)

	for {
		n, ok := a.frameLen()
		if !ok || len(a.buf) < n {
			return
		}

		frame := make([]byte, n)
		copy(frame, a.buf[:n])
		select {
		case a.out <- frame:
		case <-a.done:
			a.reset()
			return
		}

		rest := a.buf[n:]
		a.reset()
		if len(rest) == 0 {
			return
		}
		rest = a.findStart(rest)
		if rest == nil {
			return
		}
		a.deadline = time.Now().Add(staleTimeout)
		a.buf = append(a.buf, rest...)
	}
}

// findStart skips garbage up to the first packet indicator.
func (a *assembler) findStart(b []byte) []byte {
	for i, v := range b {
		if v == eventPacket || v == aclPacket {
			if i > 0 {
				a.log.Warnf("skipping %d bytes before frame start", i)
			}
			return b[i:]
		}
	}
	a.log.Warnf("no frame start in %d bytes", len(b))
	return nil
}

// frameLen returns the total length of the frame at the head of the
// buffer once enough header bytes arrived.
func (a *assembler) frameLen() (int, bool) {
	switch a.buf[0] {
	case eventPacket:
		if len(a.buf) < 3 {
			return 0, false
		}
		return 3 + int(a.buf[2]), true
	case aclPacket:
		if len(a.buf) < 5 {
			return 0, false
		}
		return 5 + (int(a.buf[3]) | int(a.buf[4])<<8), true
	}
	return 0, false
}

func (a *assembler) reset() {
	a.buf = a.buf[:0]
	a.deadline = time.Time{}
}
