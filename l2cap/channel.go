package l2cap

// ChanState tracks one connection-oriented channel through its signaling
// lifecycle. A channel carries traffic only in ChanOpen.
type ChanState int

const (
	ChanClosed ChanState = iota
	ChanWaitConnRsp
	ChanWaitConfig
	ChanOpen
	ChanWaitDisconnRsp
)

func (s ChanState) String() string {
	switch s {
	case ChanWaitConnRsp:
		return "wait-conn-rsp"
	case ChanWaitConfig:
		return "wait-config"
	case ChanOpen:
		return "open"
	case ChanWaitDisconnRsp:
		return "wait-disconn-rsp"
	default:
		return "closed"
	}
}

// Channel is one L2CAP connection-oriented channel of a device slot.
type Channel struct {
	PSM  uint16
	SCID uint16
	DCID uint16
	MTU  uint16

	state      ChanState
	localDone  bool // our configuration request accepted
	remoteDone bool // remote configuration request answered
}

func (c *Channel) State() ChanState { return c.state }

// Connecting marks a locally initiated connection request in flight.
func (c *Channel) Connecting() {
	c.state = ChanWaitConnRsp
	c.localDone = false
	c.remoteDone = false
}

// Connected records the accepted connection response; configuration of
// both directions follows.
func (c *Channel) Connected(dcid uint16) {
	c.DCID = dcid
	c.state = ChanWaitConfig
}

// AcceptedInbound records a remote connection request we accepted.
func (c *Channel) AcceptedInbound(psm, dcid, scid uint16) {
	c.PSM = psm
	c.DCID = dcid
	c.SCID = scid
	c.state = ChanWaitConfig
	c.localDone = false
	c.remoteDone = false
}

// LocalConfigDone records a successful configuration response to our
// request.
func (c *Channel) LocalConfigDone() {
	c.localDone = true
	c.update()
}

// RemoteConfigDone records that we answered the remote configuration
// request.
func (c *Channel) RemoteConfigDone() {
	c.remoteDone = true
	c.update()
}

func (c *Channel) update() {
	if c.state == ChanWaitConfig && c.localDone && c.remoteDone {
		c.state = ChanOpen
	}
}

// Disconnecting marks a locally initiated disconnection in flight.
func (c *Channel) Disconnecting() {
	c.state = ChanWaitDisconnRsp
}

// Close resets the channel for reuse.
func (c *Channel) Close() {
	*c = Channel{}
}

// CIDAllocator hands out dynamic source CIDs for one device slot,
// monotonically from the dynamic base. Slot lifetimes are short enough
// that wrap-around is not a concern.
type CIDAllocator struct {
	next uint16
}

func (a *CIDAllocator) Next() uint16 {
	if a.next < CIDDynamicBase {
		a.next = CIDDynamicBase
	}
	cid := a.next
	a.next++
	return cid
}

// Reset starts the allocation over, used when a slot is recycled.
func (a *CIDAllocator) Reset() {
	a.next = 0
}
