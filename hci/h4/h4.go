// Package h4 is the UART HCI transport: H4 framing over a serial port,
// reassembling event and ACL packets from whatever chunk boundaries the
// port delivers.
package h4

import (
	"io"
	"sync"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"

	"github.com/openretro/bridge"
)

const rxQueueSize = 64

type h4 struct {
	log bridge.Logger
	sp  io.ReadWriteCloser

	rmu sync.Mutex
	wmu sync.Mutex
	cmu sync.Mutex

	rxQueue chan []byte
	done    chan struct{}
}

// New opens the serial port and starts the frame reassembly loop. Read
// returns one whole HCI packet per call, indicator byte included.
func New(path string, baud uint, log bridge.Logger) (io.ReadWriteCloser, error) {
	sp, err := serial.Open(serial.OpenOptions{
		PortName:              path,
		BaudRate:              baud,
		DataBits:              8,
		StopBits:              1,
		ParityMode:            serial.PARITY_NONE,
		InterCharacterTimeout: 100,
		MinimumReadSize:       0,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't open serial port")
	}

	h := &h4{
		log:     log.ChildLogger(map[string]interface{}{"pkg": "h4"}),
		sp:      sp,
		rxQueue: make(chan []byte, rxQueueSize),
		done:    make(chan struct{}),
	}

	// A controller mid conversation may still be streaming; a reset
	// quiets it and the pending bytes are drained before framing starts.
	sp.Write([]byte{0x01, 0x03, 0x0c, 0x00})
	time.Sleep(250 * time.Millisecond)
	drain := make([]byte, 2048)
	if _, err := sp.Read(drain); err != nil {
		sp.Close()
		return nil, errors.Wrap(err, "can't drain serial port")
	}

	go h.rxLoop()
	return h, nil
}

func (h *h4) Read(p []byte) (int, error) {
	if !h.isOpen() {
		return 0, io.EOF
	}

	h.rmu.Lock()
	defer h.rmu.Unlock()

	select {
	case frame := <-h.rxQueue:
		if len(p) < len(frame) {
			return 0, errors.New("h4: read buffer too small")
		}
		return copy(p, frame), nil
	case <-h.done:
		return 0, io.EOF
	case <-time.After(time.Second):
		return 0, nil
	}
}

func (h *h4) Write(p []byte) (int, error) {
	if !h.isOpen() {
		return 0, io.EOF
	}

	h.wmu.Lock()
	defer h.wmu.Unlock()
	n, err := h.sp.Write(p)
	return n, errors.Wrap(err, "can't write h4")
}

func (h *h4) Close() error {
	h.cmu.Lock()
	defer h.cmu.Unlock()

	select {
	case <-h.done:
		return nil
	default:
		close(h.done)
		h.rmu.Lock()
		err := h.sp.Close()
		h.rmu.Unlock()
		return errors.Wrap(err, "can't close h4")
	}
}

func (h *h4) isOpen() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *h4) rxLoop() {
	asm := newAssembler(h.rxQueue, h.done, h.log)
	tmp := make([]byte, 512)

	for {
		select {
		case <-h.done:
			return
		default:
		}

		n, err := h.sp.Read(tmp)
		if err != nil || n == 0 {
			continue
		}
		asm.feed(tmp[:n])
	}
}
