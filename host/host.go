// Package host is the bridge scheduler: it owns the transport, the HCI
// engine, the adapter manager and the queues between them, and runs the
// pump loops that move packets, input snapshots and feedback frames.
package host

import (
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/openretro/bridge"
	"github.com/openretro/bridge/adapter"
	"github.com/openretro/bridge/hci"
	"github.com/openretro/bridge/keystore"
	"github.com/openretro/bridge/sdp"
)

// Atomic flag bits.
const (
	flagCtrlReady      = 1 << 0
	flagDisconnInhibit = 1 << 1
)

const (
	defaultTxQueueLen = 32
	defaultFbQueueLen = 8
	defaultTick       = 10 * time.Millisecond

	// disconnInhibit keeps one switch press from disconnecting twice.
	disconnInhibit = 2 * time.Second
)

// Config tunes the scheduler and wires its edges.
type Config struct {
	// Name is the local Bluetooth device name.
	Name string

	// TxQueueLen bounds the outbound packet queue; a full queue drops.
	TxQueueLen int

	// FbQueueLen bounds the wired feedback queue.
	FbQueueLen int

	// Tick is the housekeeping interval.
	Tick time.Duration

	// BootPoll reports whether the disconnect switch is pressed. Nil
	// disables the switch.
	BootPoll func() bool

	// WiredSink receives the port's wired frame snapshot after every
	// bridged input report. Latest value wins; frames are not queued.
	WiredSink func(port int, frame []byte)
}

// Host runs the bridge.
type Host struct {
	log bridge.Logger
	cfg Config

	tr   io.ReadWriteCloser
	eng  *hci.Engine
	mgr  *adapter.Manager
	keys *keystore.Store

	datas [hci.MaxSlots]adapter.Data

	txq chan []byte
	fbq chan []byte

	flags uint32

	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

// New assembles a host around an open transport. The controller address
// comes from the persisted programming file when present, applying the
// base MAC offset; otherwise the engine reads it from the controller.
func New(cfg Config, tr io.ReadWriteCloser, mgr *adapter.Manager, keys *keystore.Store, cls *sdp.Classifier, log bridge.Logger) *Host {
	if cfg.TxQueueLen == 0 {
		cfg.TxQueueLen = defaultTxQueueLen
	}
	if cfg.FbQueueLen == 0 {
		cfg.FbQueueLen = defaultFbQueueLen
	}
	if cfg.Tick == 0 {
		cfg.Tick = defaultTick
	}

	h := &Host{
		log:  log.ChildLogger(map[string]interface{}{"pkg": "host"}),
		cfg:  cfg,
		tr:   tr,
		mgr:  mgr,
		keys: keys,
		txq:  make(chan []byte, cfg.TxQueueLen),
		fbq:  make(chan []byte, cfg.FbQueueLen),
		done: make(chan struct{}),
	}
	for i := range h.datas {
		h.datas[i].DevID = i
	}

	// The override file holds the advertised BDADDR itself; the base MAC
	// derivation only matters when programming a radio's base register.
	var local bridge.Addr
	if addr, ok := keys.BDAddr(); ok {
		local = addr
	}

	h.eng = hci.New(hci.Config{
		Name:      cfg.Name,
		LocalAddr: local,
		Tx:        h.transmit,
		OnReady: func() {
			h.log.Info("radio connectable")
		},
		OnInput:      h.bridgeInput,
		OnDisconnect: h.portClosed,
	}, keys, cls, &h.datas, log)

	mgr.SetStopFunc(h.rumbleStop)
	return h
}

// Run starts the pump loops and the controller boot sequence. It returns
// immediately; Close tears everything down.
func (h *Host) Run() {
	h.setFlag(flagCtrlReady, true)

	h.wg.Add(3)
	go h.txPump()
	go h.rxPump()
	go h.housekeeping()

	h.eng.Start()
}

// Close stops the pumps and the transport.
func (h *Host) Close() error {
	var err error
	h.closeOnce.Do(func() {
		h.setFlag(flagCtrlReady, false)
		close(h.done)
		err = h.tr.Close()
		h.wg.Wait()
	})
	return err
}

// Feedback hands one raw wired feedback frame to the scheduler. A full
// queue drops the frame; rumble state is refreshed continuously anyway.
func (h *Host) Feedback(raw []byte) {
	select {
	case h.fbq <- raw:
	default:
		h.log.Warn("feedback queue full, dropping frame")
	}
}

// CtrlReady reports whether the transmit side is up.
func (h *Host) CtrlReady() bool {
	return atomic.LoadUint32(&h.flags)&flagCtrlReady != 0
}

func (h *Host) setFlag(bit uint32, on bool) {
	for {
		old := atomic.LoadUint32(&h.flags)
		next := old &^ bit
		if on {
			next = old | bit
		}
		if atomic.CompareAndSwapUint32(&h.flags, old, next) {
			return
		}
	}
}

// transmit queues one outbound packet, dropping when the link stalls.
func (h *Host) transmit(pkt []byte) {
	select {
	case h.txq <- pkt:
	default:
		h.log.Warnf("tx queue full, dropping packet type 0x%02x", pkt[0])
	}
}

// txPump writes queued packets to the transport. A leading 0xFF byte is
// the sleep token: it delays the queue instead of hitting the wire, used
// to pace controllers that choke on back to back setup writes.
func (h *Host) txPump() {
	defer h.wg.Done()
	for {
		select {
		case <-h.done:
			return
		case pkt := <-h.txq:
			if !h.CtrlReady() {
				continue
			}
			if len(pkt) >= 2 && pkt[0] == 0xFF {
				time.Sleep(time.Duration(pkt[1]) * time.Millisecond)
				continue
			}
			if _, err := h.tr.Write(pkt); err != nil {
				h.log.Errorf("transport write: %v", err)
				return
			}
		}
	}
}

func (h *Host) rxPump() {
	defer h.wg.Done()
	buf := make([]byte, 1024)
	for {
		select {
		case <-h.done:
			return
		default:
		}

		n, err := h.tr.Read(buf)
		if err != nil {
			select {
			case <-h.done:
			default:
				h.log.Errorf("transport read: %v", err)
			}
			return
		}
		if n == 0 {
			continue
		}
		if err := h.eng.Receive(buf[:n]); err != nil {
			h.log.Warnf("rx: %v", err)
		}
	}
}

// housekeeping runs the periodic work: deferred SDP parsing, feedback
// frames and the disconnect switch.
func (h *Host) housekeeping() {
	defer h.wg.Done()
	tick := time.NewTicker(h.cfg.Tick)
	defer tick.Stop()

	for {
		select {
		case <-h.done:
			return

		case raw := <-h.fbq:
			h.bridgeFeedback(raw)

		case <-tick.C:
			h.eng.ProcessPending()
			h.pollDisconnSw()
		}
	}
}

func (h *Host) pollDisconnSw() {
	if h.cfg.BootPoll == nil || !h.cfg.BootPoll() {
		return
	}
	if atomic.LoadUint32(&h.flags)&flagDisconnInhibit != 0 {
		return
	}
	h.setFlag(flagDisconnInhibit, true)
	h.log.Info("disconnect switch pressed")
	h.eng.DisconnectAll()
	time.AfterFunc(disconnInhibit, func() {
		h.setFlag(flagDisconnInhibit, false)
	})
}

// bridgeInput translates the slot's fresh report into its wired frame.
func (h *Host) bridgeInput(devID int) {
	d := &h.datas[devID]
	if err := h.mgr.Bridge(d); err != nil {
		h.log.Warnf("dev %d: bridge: %v", devID, err)
		return
	}
	if h.cfg.WiredSink != nil {
		port := devID % adapter.WiredMaxDevices
		var out [16]byte
		n := h.mgr.Output(port, out[:])
		h.cfg.WiredSink(port, out[:n])
	}
}

// bridgeFeedback decodes one wired feedback frame and, when the rumble
// state changed, pushes the vendor payload to the device on that port.
func (h *Host) bridgeFeedback(raw []byte) {
	if len(raw) == 0 {
		return
	}
	port := int(raw[0]) % adapter.WiredMaxDevices
	for devID := port; devID < hci.MaxSlots; devID += adapter.WiredMaxDevices {
		d := &h.datas[devID]
		if !d.Initialized() {
			continue
		}
		if h.mgr.BridgeFb(raw, d) {
			h.eng.SendFeedback(devID, d.OutputID, d.Output[:d.OutputLen])
		}
	}
}

// rumbleStop is the manager's auto-stop callback: it routes a synthetic
// stop frame through the normal feedback path.
func (h *Host) rumbleStop(wiredID uint8) {
	h.Feedback([]byte{wiredID})
}

// portClosed resets the wired frame of a departed device.
func (h *Host) portClosed(devID int) {
	port := devID % adapter.WiredMaxDevices
	h.mgr.InitBuffer(port)
	if h.cfg.WiredSink != nil {
		var out [16]byte
		n := h.mgr.Output(port, out[:])
		h.cfg.WiredSink(port, out[:n])
	}
}
