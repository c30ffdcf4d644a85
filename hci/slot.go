package hci

import (
	"github.com/openretro/bridge"
	"github.com/openretro/bridge/adapter"
	"github.com/openretro/bridge/l2cap"
)

// MaxSlots is the number of concurrently connected devices.
const MaxSlots = 7

// SlotState tracks one device through its connection pipeline.
type SlotState int

const (
	StateNone SlotState = iota
	StateConnReq
	StateAuthenticating
	StateEncrypted
	StateNameQueried
	StateSDP
	StateHIDSetup
	StateStreaming
	StateDisconnecting
)

func (s SlotState) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateConnReq:
		return "conn-req"
	case StateAuthenticating:
		return "authenticating"
	case StateEncrypted:
		return "encrypted"
	case StateNameQueried:
		return "name-queried"
	case StateSDP:
		return "sdp"
	case StateHIDSetup:
		return "hid-setup"
	case StateStreaming:
		return "streaming"
	case StateDisconnecting:
		return "disconnecting"
	}
	return "unknown"
}

// Slot is one device slot: link identity, the L2CAP channels riding the
// ACL link and the SDP transaction state.
type Slot struct {
	ID    int
	Found bool

	Addr          bridge.Addr
	ClassOfDevice [3]byte
	LinkType      uint8
	Handle        uint16
	Name          string

	DevType adapter.DevType

	state     SlotState
	pendingOp int // in flight HCI command, 0 when idle

	reasm *l2cap.Reassembler
	cids  l2cap.CIDAllocator
	sigID uint8

	SDPChan  l2cap.Channel
	CtrlChan l2cap.Channel
	IntrChan l2cap.Channel

	sdpTxn     uint16
	sdpUUIDIdx int // 0 = HID descriptor query, 1 = PnP query
	sdpData    []byte
	sdpDone    bool
	sdpApplied bool
}

func (s *Slot) State() SlotState { return s.state }

// nextSigID hands out the signaling identifier for the next request.
// Zero is illegal on the wire.
func (s *Slot) nextSigID() uint8 {
	s.sigID++
	if s.sigID == 0 {
		s.sigID = 1
	}
	return s.sigID
}

// channelBySCID resolves an L2CAP channel of this slot by our CID.
func (s *Slot) channelBySCID(scid uint16) *l2cap.Channel {
	switch scid {
	case 0:
		return nil
	case s.SDPChan.SCID:
		return &s.SDPChan
	case s.CtrlChan.SCID:
		return &s.CtrlChan
	case s.IntrChan.SCID:
		return &s.IntrChan
	}
	return nil
}

// openLink readies the L2CAP side of a fresh ACL connection.
func (s *Slot) openLink() {
	s.reasm = l2cap.NewReassembler(bridge.GetLogger())
	s.cids.Reset()
	s.sigID = 0
}

// reset clears the slot for reuse. The reassembler is dropped with it.
func (s *Slot) reset() {
	*s = Slot{ID: s.ID}
}
