// Package hci drives a BR/EDR controller for the bridge: the boot
// sequence that makes the radio connectable, the per-slot connection and
// pairing pipeline, and the routing of ACL data into the L2CAP and HID
// layers. The engine is event driven; outbound traffic goes through a
// transmit callback so the scheduler owns the actual link.
package hci

import (
	"fmt"
	"sync"

	"github.com/openretro/bridge"
	"github.com/openretro/bridge/adapter"
	"github.com/openretro/bridge/hci/cmd"
	"github.com/openretro/bridge/hci/evt"
	"github.com/openretro/bridge/keystore"
	"github.com/openretro/bridge/sdp"
)

// HCI packet indicators [Vol 4, Part A, 2].
const (
	pktTypeCommand = 0x01
	pktTypeACLData = 0x02
	pktTypeSCOData = 0x03
	pktTypeEvent   = 0x04
)

// defaultEventMask enables every event the pipeline handles. Same mask a
// general purpose host uses; the controller drops the LE bits on its own.
const defaultEventMask = 0x3dbff807fffbffff

// classOfDevice advertises a gamepad peripheral.
var classOfDevice = [3]byte{0x08, 0x05, 0x00}

const defaultName = "OpenRetro Bridge"

type handlerFn func(b []byte) error

// Config wires the engine to its surroundings.
type Config struct {
	// Name is the local device name pages see.
	Name string

	// LocalAddr is the programmed controller address. When zero the boot
	// sequence reads it from the controller instead.
	LocalAddr bridge.Addr

	// Tx transmits one whole packet, indicator byte included.
	Tx func(pkt []byte)

	// OnReady fires once the boot sequence completes and the radio is
	// connectable.
	OnReady func()

	// OnInput fires after a device input report landed in its adapter
	// data slot.
	OnInput func(devID int)

	// OnDisconnect fires after a slot was torn down.
	OnDisconnect func(devID int)
}

// Engine is the BR/EDR host state machine.
type Engine struct {
	mu sync.Mutex

	log  bridge.Logger
	cfg  Config
	keys *keystore.Store
	cls  *sdp.Classifier

	datas *[MaxSlots]adapter.Data
	slots [MaxSlots]Slot

	evth map[int]handlerFn

	localAddr bridge.Addr

	boot    []cmd.Command
	bootIdx int
	ready   bool
}

// New builds an engine around a keystore, a device classifier and the
// shared adapter data slots.
func New(cfg Config, keys *keystore.Store, cls *sdp.Classifier, datas *[MaxSlots]adapter.Data, log bridge.Logger) *Engine {
	if cfg.Name == "" {
		cfg.Name = defaultName
	}
	e := &Engine{
		log:       log.ChildLogger(map[string]interface{}{"pkg": "hci"}),
		cfg:       cfg,
		keys:      keys,
		cls:       cls,
		datas:     datas,
		evth:      map[int]handlerFn{},
		localAddr: cfg.LocalAddr,
	}
	for i := range e.slots {
		e.slots[i].ID = i
	}

	e.evth[evt.CommandCompleteCode] = e.handleCommandComplete
	e.evth[evt.CommandStatusCode] = e.handleCommandStatus
	e.evth[evt.ConnectionRequestCode] = e.handleConnectionRequest
	e.evth[evt.ConnectionCompleteCode] = e.handleConnectionComplete
	e.evth[evt.DisconnectionCompleteCode] = e.handleDisconnectionComplete
	e.evth[evt.AuthenticationCompleteCode] = e.handleAuthenticationComplete
	e.evth[evt.RemoteNameRequestCompleteCode] = e.handleRemoteNameRequestComplete
	e.evth[evt.EncryptionChangeCode] = e.handleEncryptionChange
	e.evth[evt.PINCodeRequestCode] = e.handlePINCodeRequest
	e.evth[evt.LinkKeyRequestCode] = e.handleLinkKeyRequest
	e.evth[evt.LinkKeyNotificationCode] = e.handleLinkKeyNotification
	e.evth[evt.IOCapabilityRequestCode] = e.handleIOCapabilityRequest
	e.evth[evt.UserConfirmationRequestCode] = e.handleUserConfirmationRequest
	e.evth[evt.SimplePairingCompleteCode] = e.handleSimplePairingComplete
	e.evth[evt.NumberOfCompletedPacketsCode] = e.handleNumberOfCompletedPackets
	e.evth[evt.MaxSlotsChangeCode] = e.handleMaxSlotsChange
	e.evth[evt.IOCapabilityResponseCode] = e.handleIOCapabilityResponse

	return e
}

// Ready reports whether the boot sequence completed.
func (e *Engine) Ready() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ready
}

// LocalAddr returns the controller address once known.
func (e *Engine) LocalAddr() bridge.Addr {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.localAddr
}

// Start kicks off the controller boot sequence.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()

	var name [248]byte
	copy(name[:], e.cfg.Name)

	e.boot = []cmd.Command{
		cmd.Reset{},
		cmd.ReadLocalSupportedFeatures{},
	}
	if e.localAddr.IsZero() {
		e.boot = append(e.boot, cmd.ReadBDADDR{})
	}
	e.boot = append(e.boot,
		cmd.WriteSimplePairingMode{SimplePairingMode: 1},
		cmd.SetEventMask{EventMask: defaultEventMask},
		cmd.WriteClassOfDevice{ClassOfDevice: classOfDevice},
		cmd.WriteLocalName{LocalName: name},
		cmd.WriteDefaultLinkPolicySettings{DefaultLinkPolicySettings: 0x000f},
		cmd.WriteScanEnable{ScanEnable: 0x03},
	)
	e.bootIdx = 0
	e.ready = false
	e.sendCmd(e.boot[0])
}

// Receive handles one inbound packet, indicator byte included. The
// scheduler's dispatch loop serializes calls.
func (e *Engine) Receive(b []byte) error {
	if len(b) < 1 {
		return fmt.Errorf("hci: empty packet")
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	t, b := b[0], b[1:]
	switch t {
	case pktTypeEvent:
		return e.handleEvt(b)
	case pktTypeACLData:
		return e.handleACL(b)
	case pktTypeSCOData:
		return nil // not carried
	default:
		return fmt.Errorf("hci: invalid packet: 0x%02X % X", t, b)
	}
}

func (e *Engine) handleEvt(b []byte) error {
	if len(b) < 2 {
		return fmt.Errorf("hci: short event: % X", b)
	}
	code, plen := int(b[0]), int(b[1])
	if plen != len(b[2:]) {
		return fmt.Errorf("hci: invalid event packet: % X", b)
	}

	if f := e.evth[code]; f != nil {
		return f(b[2:])
	}
	if code == 0xff { // vendor events
		return nil
	}
	e.log.Debugf("unhandled event 0x%02x", code)
	return nil
}

// sendCmd transmits one HCI command packet.
func (e *Engine) sendCmd(c cmd.Command) {
	b := make([]byte, 4+c.Len())
	b[0] = pktTypeCommand
	b[1] = byte(c.OpCode())
	b[2] = byte(c.OpCode() >> 8)
	b[3] = byte(c.Len())
	if err := c.Marshal(b[4:]); err != nil {
		e.log.Errorf("marshal cmd 0x%04x: %v", c.OpCode(), err)
		return
	}
	e.cfg.Tx(b)
}

// sendFor transmits a command on behalf of a slot and records it as the
// slot's single in-flight command.
func (e *Engine) sendFor(s *Slot, c cmd.Command) {
	s.pendingOp = c.OpCode()
	e.sendCmd(c)
}

func (e *Engine) handleCommandComplete(b []byte) error {
	ev := evt.CommandComplete(b)
	op := int(ev.CommandOpcode())
	if op == 0x0000 { // NOP, flow control only
		return nil
	}

	var status uint8
	if rp := ev.ReturnParameters(); len(rp) > 0 {
		status = rp[0]
	}

	if !e.ready && e.bootIdx < len(e.boot) && op == e.boot[e.bootIdx].OpCode() {
		return e.bootStep(ev, status)
	}

	return e.commandFinished(op, status)
}

func (e *Engine) handleCommandStatus(b []byte) error {
	ev := evt.CommandStatus(b)
	return e.commandFinished(int(ev.CommandOpcode()), ev.Status())
}

// bootStep advances the boot sequence by one completed command.
func (e *Engine) bootStep(ev evt.CommandComplete, status uint8) error {
	if status != 0 {
		return fmt.Errorf("hci: boot command 0x%04x failed: 0x%02x", ev.CommandOpcode(), status)
	}

	if _, ok := e.boot[e.bootIdx].(cmd.ReadBDADDR); ok {
		var rp cmd.ReadBDADDRRP
		if err := rp.Unmarshal(ev.ReturnParameters()); err != nil {
			return err
		}
		e.localAddr = bridge.AddrFromBytes(rp.BDADDR[:])
		e.log.Infof("controller address %s", e.localAddr)
	}

	e.bootIdx++
	if e.bootIdx < len(e.boot) {
		e.sendCmd(e.boot[e.bootIdx])
		return nil
	}

	e.ready = true
	e.log.Info("controller ready, scan enabled")
	if e.cfg.OnReady != nil {
		e.cfg.OnReady()
	}
	return nil
}

// commandFinished resolves a completed or rejected command against the
// slot it was sent for. A failure tears the slot down.
func (e *Engine) commandFinished(op int, status uint8) error {
	for i := range e.slots {
		s := &e.slots[i]
		if !s.Found || s.pendingOp != op {
			continue
		}
		s.pendingOp = 0
		if status != 0 && s.state != StateDisconnecting {
			e.log.Warnf("slot %d: command 0x%04x failed: 0x%02x", s.ID, op, status)
			e.disconnectSlot(s)
		}
		return nil
	}
	if status != 0 {
		e.log.Warnf("unmatched command 0x%04x failed: 0x%02x", op, status)
	}
	return nil
}

func (e *Engine) handleConnectionRequest(b []byte) error {
	ev := evt.ConnectionRequest(b)
	if ev.LinkType() != 0x01 { // ACL only
		return nil
	}

	addr := bridge.Addr(ev.BDADDR())
	s := e.slotByAddr(addr)
	if s == nil {
		s = e.freeSlot()
	}
	if s == nil {
		e.log.Warnf("no free slot for %s", addr)
		return nil
	}

	s.Found = true
	s.Addr = addr
	s.ClassOfDevice = ev.ClassOfDevice()
	s.LinkType = ev.LinkType()
	s.state = StateConnReq
	s.DevType = adapter.HIDGeneric
	e.log.Infof("slot %d: connection request from %s", s.ID, addr)

	e.sendFor(s, cmd.AcceptConnectionRequest{BDADDR: ev.BDADDR(), Role: 0x01})
	return nil
}

func (e *Engine) handleConnectionComplete(b []byte) error {
	ev := evt.ConnectionComplete(b)
	s := e.slotByAddr(bridge.Addr(ev.BDADDR()))
	if s == nil {
		return nil
	}
	if ev.Status() != 0 {
		e.log.Warnf("slot %d: connection failed: 0x%02x", s.ID, ev.Status())
		e.resetSlot(s)
		return nil
	}

	s.Handle = ev.ConnectionHandle()
	s.openLink()
	s.state = StateAuthenticating
	e.log.Infof("slot %d: connected, handle 0x%04x", s.ID, s.Handle)

	e.sendFor(s, cmd.AuthenticationRequested{ConnectionHandle: s.Handle})
	return nil
}

func (e *Engine) handleAuthenticationComplete(b []byte) error {
	ev := evt.AuthenticationComplete(b)
	s := e.slotByHandle(ev.ConnectionHandle())
	if s == nil {
		return nil
	}
	if ev.Status() != 0 {
		e.log.Warnf("slot %d: authentication failed: 0x%02x", s.ID, ev.Status())
		e.disconnectSlot(s)
		return nil
	}
	e.sendFor(s, cmd.SetConnectionEncryption{
		ConnectionHandle: s.Handle,
		EncryptionEnable: 1,
	})
	return nil
}

func (e *Engine) handleEncryptionChange(b []byte) error {
	ev := evt.EncryptionChange(b)
	s := e.slotByHandle(ev.ConnectionHandle())
	if s == nil {
		return nil
	}
	if ev.Status() != 0 || ev.EncryptionEnabled() == 0 {
		e.log.Warnf("slot %d: encryption failed: 0x%02x", s.ID, ev.Status())
		e.disconnectSlot(s)
		return nil
	}

	s.state = StateEncrypted
	var addr [6]byte
	copy(addr[:], s.Addr[:])
	e.sendFor(s, cmd.RemoteNameRequest{
		BDADDR:                 addr,
		PageScanRepetitionMode: 0x02,
	})
	return nil
}

func (e *Engine) handleRemoteNameRequestComplete(b []byte) error {
	ev := evt.RemoteNameRequestComplete(b)
	s := e.slotByAddr(bridge.Addr(ev.BDADDR()))
	if s == nil {
		return nil
	}
	if ev.Status() != 0 {
		e.disconnectSlot(s)
		return nil
	}

	s.Name = ev.RemoteName()
	s.state = StateNameQueried
	s.DevType = e.cls.Classify(0, 0, s.Name)
	e.datas[s.ID].DevType = s.DevType
	e.log.Infof("slot %d: %q (%s)", s.ID, s.Name, s.DevType)

	e.startSDP(s)
	return nil
}

func (e *Engine) handleLinkKeyRequest(b []byte) error {
	ev := evt.LinkKeyRequest(b)
	addr := bridge.Addr(ev.BDADDR())

	key, err := e.keys.LoadKey(addr)
	if err != nil {
		e.log.Infof("%s: no stored link key", addr)
		e.sendCmd(cmd.LinkKeyRequestNegativeReply{BDADDR: ev.BDADDR()})
		return nil
	}
	e.sendCmd(cmd.LinkKeyRequestReply{BDADDR: ev.BDADDR(), LinkKey: [16]byte(key)})
	return nil
}

func (e *Engine) handleLinkKeyNotification(b []byte) error {
	ev := evt.LinkKeyNotification(b)
	addr := bridge.Addr(ev.BDADDR())
	e.log.Infof("%s: new link key (type 0x%02x)", addr, ev.KeyType())
	e.keys.StoreKey(addr, keystore.LinkKey(ev.LinkKey()))
	return nil
}

func (e *Engine) handlePINCodeRequest(b []byte) error {
	ev := evt.PINCodeRequest(b)
	s := e.slotByAddr(bridge.Addr(ev.BDADDR()))

	reply := cmd.PINCodeRequestReply{BDADDR: ev.BDADDR()}
	if s != nil && isWiiClass(s.ClassOfDevice) {
		// Wiimotes sync against the PIN formed from the host address.
		reply.PINCodeLength = 6
		copy(reply.PINCode[:], e.localAddr[:])
	} else {
		reply.PINCodeLength = 4
		copy(reply.PINCode[:], "0000")
	}
	e.sendCmd(reply)
	return nil
}

func (e *Engine) handleIOCapabilityRequest(b []byte) error {
	ev := evt.IOCapabilityRequest(b)
	e.sendCmd(cmd.IOCapabilityRequestReply{
		BDADDR:                     ev.BDADDR(),
		IOCapability:               0x03, // NoInputNoOutput
		OOBDataPresent:             0x00,
		AuthenticationRequirements: 0x02, // dedicated bonding, no MITM
	})
	return nil
}

func (e *Engine) handleIOCapabilityResponse(b []byte) error {
	ev := evt.IOCapabilityResponse(b)
	e.log.Debugf("%s: io capability 0x%02x", bridge.Addr(ev.BDADDR()), ev.IOCapability())
	return nil
}

func (e *Engine) handleUserConfirmationRequest(b []byte) error {
	ev := evt.UserConfirmationRequest(b)
	e.sendCmd(cmd.UserConfirmationRequestReply{BDADDR: ev.BDADDR()})
	return nil
}

func (e *Engine) handleSimplePairingComplete(b []byte) error {
	ev := evt.SimplePairingComplete(b)
	if ev.Status() != 0 {
		s := e.slotByAddr(bridge.Addr(ev.BDADDR()))
		if s != nil {
			e.log.Warnf("slot %d: pairing failed: 0x%02x", s.ID, ev.Status())
			e.disconnectSlot(s)
		}
	}
	return nil
}

func (e *Engine) handleDisconnectionComplete(b []byte) error {
	ev := evt.DisconnectionComplete(b)
	s := e.slotByHandle(ev.ConnectionHandle())
	if s == nil {
		return nil
	}
	e.log.Infof("slot %d: disconnected (reason 0x%02x)", s.ID, ev.Reason())
	e.resetSlot(s)
	return nil
}

func (e *Engine) handleNumberOfCompletedPackets(b []byte) error {
	// No host side buffer accounting; payloads are single frames well
	// under the controller's ACL buffer size.
	return nil
}

func (e *Engine) handleMaxSlotsChange(b []byte) error {
	ev := evt.MaxSlotsChange(b)
	e.log.Debugf("handle 0x%04x: max slots %d", ev.ConnectionHandle(), ev.LMPMaxSlots())
	return nil
}

// DisconnectAll tears down every connected slot, used for the disconnect
// switch.
func (e *Engine) DisconnectAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.slots {
		if e.slots[i].Found && e.slots[i].state != StateDisconnecting {
			e.disconnectSlot(&e.slots[i])
		}
	}
}

// disconnectSlot starts an orderly teardown. The slot resets when the
// DisconnectionComplete event lands.
func (e *Engine) disconnectSlot(s *Slot) {
	if s.state == StateDisconnecting {
		return
	}
	s.state = StateDisconnecting
	e.sendFor(s, cmd.Disconnect{
		ConnectionHandle: s.Handle,
		Reason:           0x13, // remote user terminated
	})
}

// resetSlot clears slot and adapter state and notifies the scheduler.
func (e *Engine) resetSlot(s *Slot) {
	id := s.ID
	s.reset()
	e.datas[id].Reset()
	if e.cfg.OnDisconnect != nil {
		e.cfg.OnDisconnect(id)
	}
}

func (e *Engine) slotByAddr(addr bridge.Addr) *Slot {
	for i := range e.slots {
		if e.slots[i].Found && e.slots[i].Addr == addr {
			return &e.slots[i]
		}
	}
	return nil
}

func (e *Engine) slotByHandle(handle uint16) *Slot {
	for i := range e.slots {
		if e.slots[i].Found && e.slots[i].Handle == handle {
			return &e.slots[i]
		}
	}
	return nil
}

func (e *Engine) freeSlot() *Slot {
	for i := range e.slots {
		if !e.slots[i].Found {
			return &e.slots[i]
		}
	}
	return nil
}

// isWiiClass matches the joystick peripheral class Wiimotes page with.
func isWiiClass(cod [3]byte) bool {
	return cod[1]&0x1f == 0x05 && cod[0] == 0x04
}
