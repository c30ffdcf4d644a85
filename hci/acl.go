package hci

import (
	"fmt"

	"github.com/openretro/bridge/hid"
	"github.com/openretro/bridge/l2cap"
	"github.com/openretro/bridge/sdp"
)

// hidMTU is the MTU requested on every channel. Large enough for any
// controller report and the SDP fragments.
const hidMTU = 672

func (e *Engine) handleACL(b []byte) error {
	if len(b) < 4 {
		return fmt.Errorf("hci: short acl packet: % X", b)
	}
	pkt := l2cap.Packet(b)

	s := e.slotByHandle(pkt.Handle())
	if s == nil || s.reasm == nil {
		e.log.Warnf("acl packet for unknown handle 0x%04x", pkt.Handle())
		return nil
	}

	pdu := s.reasm.Feed(pkt)
	if pdu == nil {
		return nil
	}

	if pdu.CID() == l2cap.CIDSignal {
		e.handleSignal(s, pdu.Payload())
		return nil
	}

	switch ch := s.channelBySCID(pdu.CID()); ch {
	case &s.SDPChan:
		e.handleSDPResponse(s, pdu.Payload())
	case &s.CtrlChan:
		e.handleControl(s, pdu.Payload())
	case &s.IntrChan:
		e.handleInterrupt(s, pdu.Payload())
	default:
		e.log.Warnf("slot %d: data on unknown cid 0x%04x", s.ID, pdu.CID())
	}
	return nil
}

// sendACL transmits one L2CAP payload, fragmenting to the reassembly
// buffer size the peer is guaranteed to have.
func (e *Engine) sendACL(s *Slot, cid uint16, payload []byte) {
	for _, frame := range l2cap.Fragment(s.Handle, hidMTU, cid, payload) {
		pkt := make([]byte, 1+len(frame))
		pkt[0] = pktTypeACLData
		copy(pkt[1:], frame)
		e.cfg.Tx(pkt)
	}
}

func (e *Engine) sendSignal(s *Slot, sig l2cap.Signal) {
	e.sendACL(s, l2cap.CIDSignal, l2cap.MarshalSignal(s.nextSigID(), sig))
}

// openChannel starts the client side connection of one channel.
func (e *Engine) openChannel(s *Slot, ch *l2cap.Channel, psm uint16) {
	ch.PSM = psm
	ch.SCID = s.cids.Next()
	ch.Connecting()
	e.sendSignal(s, &l2cap.ConnectionRequest{PSM: psm, SourceCID: ch.SCID})
}

func (e *Engine) handleSignal(s *Slot, b []byte) {
	for sig := l2cap.SigCmd(b); sig.Valid(); sig = sig.Next() {
		switch sig.Code() {
		case l2cap.SignalConnectionRequest:
			var req l2cap.ConnectionRequest
			if req.Unmarshal(sig.Data()) == nil {
				e.acceptChannel(s, sig.ID(), req)
			}

		case l2cap.SignalConnectionResponse:
			var rsp l2cap.ConnectionResponse
			if rsp.Unmarshal(sig.Data()) == nil {
				e.channelConnected(s, rsp)
			}

		case l2cap.SignalConfigurationRequest:
			var req l2cap.ConfigurationRequest
			if req.Unmarshal(sig.Data()) == nil {
				e.remoteConfig(s, sig.ID(), req)
			}

		case l2cap.SignalConfigurationResponse:
			var rsp l2cap.ConfigurationResponse
			if rsp.Unmarshal(sig.Data()) == nil {
				e.localConfigDone(s, rsp)
			}

		case l2cap.SignalDisconnectionRequest:
			var req l2cap.DisconnectionRequest
			if req.Unmarshal(sig.Data()) == nil {
				e.sendACL(s, l2cap.CIDSignal, l2cap.MarshalSignal(sig.ID(), &l2cap.DisconnectionResponse{
					DestinationCID: req.DestinationCID,
					SourceCID:      req.SourceCID,
				}))
				if ch := s.channelBySCID(req.DestinationCID); ch != nil {
					ch.Close()
				}
			}

		case l2cap.SignalDisconnectionResponse:
			var rsp l2cap.DisconnectionResponse
			if rsp.Unmarshal(sig.Data()) == nil {
				if ch := s.channelBySCID(rsp.SourceCID); ch != nil {
					ch.Close()
				}
			}

		case l2cap.SignalCommandReject:
			e.log.Warnf("slot %d: signaling command rejected", s.ID)

		default:
			e.log.Debugf("slot %d: unhandled signal 0x%02x", s.ID, sig.Code())
		}
	}
}

// acceptChannel handles a device initiated channel open, the path paired
// controllers reconnect through.
func (e *Engine) acceptChannel(s *Slot, id uint8, req l2cap.ConnectionRequest) {
	var ch *l2cap.Channel
	switch req.PSM {
	case l2cap.PSMSDP:
		ch = &s.SDPChan
	case l2cap.PSMHIDControl:
		ch = &s.CtrlChan
	case l2cap.PSMHIDInterrupt:
		ch = &s.IntrChan
	}

	rsp := l2cap.ConnectionResponse{SourceCID: req.SourceCID}
	if ch == nil || ch.State() != l2cap.ChanClosed {
		rsp.Result = 0x0002 // PSM not supported / busy
		e.sendACL(s, l2cap.CIDSignal, l2cap.MarshalSignal(id, &rsp))
		return
	}

	scid := s.cids.Next()
	ch.AcceptedInbound(req.PSM, req.SourceCID, scid)
	rsp.DestinationCID = scid
	rsp.Result = l2cap.ConnResultSuccess
	e.sendACL(s, l2cap.CIDSignal, l2cap.MarshalSignal(id, &rsp))

	e.sendSignal(s, &l2cap.ConfigurationRequest{
		DestinationCID: ch.DCID,
		Options:        l2cap.MTUOption(hidMTU),
	})
}

func (e *Engine) channelConnected(s *Slot, rsp l2cap.ConnectionResponse) {
	ch := s.channelBySCID(rsp.SourceCID)
	if ch == nil {
		return
	}
	switch rsp.Result {
	case l2cap.ConnResultSuccess:
		ch.Connected(rsp.DestinationCID)
		e.sendSignal(s, &l2cap.ConfigurationRequest{
			DestinationCID: ch.DCID,
			Options:        l2cap.MTUOption(hidMTU),
		})
	case l2cap.ConnResultPending:
		// wait for the final response
	default:
		e.log.Warnf("slot %d: channel psm 0x%04x refused: 0x%04x", s.ID, ch.PSM, rsp.Result)
		if ch == &s.SDPChan {
			// no SDP server; classify on what we have
			ch.Close()
			e.finishSDP(s)
			return
		}
		e.disconnectSlot(s)
	}
}

func (e *Engine) remoteConfig(s *Slot, id uint8, req l2cap.ConfigurationRequest) {
	ch := s.channelBySCID(req.DestinationCID)
	if ch == nil {
		return
	}
	if mtu, ok := l2cap.ParseMTUOption(req.Options); ok {
		ch.MTU = mtu
	}
	e.sendACL(s, l2cap.CIDSignal, l2cap.MarshalSignal(id, &l2cap.ConfigurationResponse{
		SourceCID: ch.DCID,
		Result:    l2cap.ConfigResultSuccess,
		Options:   req.Options,
	}))
	ch.RemoteConfigDone()
	if ch.State() == l2cap.ChanOpen {
		e.channelOpen(s, ch)
	}
}

func (e *Engine) localConfigDone(s *Slot, rsp l2cap.ConfigurationResponse) {
	ch := s.channelBySCID(rsp.SourceCID)
	if ch == nil {
		return
	}
	if rsp.Result != l2cap.ConfigResultSuccess {
		e.log.Warnf("slot %d: channel psm 0x%04x config refused: 0x%04x", s.ID, ch.PSM, rsp.Result)
		e.disconnectSlot(s)
		return
	}
	ch.LocalConfigDone()
	if ch.State() == l2cap.ChanOpen {
		e.channelOpen(s, ch)
	}
}

// channelOpen advances the slot pipeline when a channel finishes
// configuration.
func (e *Engine) channelOpen(s *Slot, ch *l2cap.Channel) {
	e.log.Debugf("slot %d: channel psm 0x%04x open, mtu %d", s.ID, ch.PSM, ch.MTU)

	switch ch {
	case &s.SDPChan:
		e.sendSDPRequest(s, nil)

	case &s.CtrlChan:
		if s.IntrChan.State() == l2cap.ChanClosed {
			e.openChannel(s, &s.IntrChan, l2cap.PSMHIDInterrupt)
		}

	case &s.IntrChan:
		s.state = StateHIDSetup
		e.runHIDSetup(s)
	}
}

// startSDP opens the SDP channel; the interrupt pipeline continues once
// the transaction drains.
func (e *Engine) startSDP(s *Slot) {
	s.state = StateSDP
	s.sdpUUIDIdx = 0
	s.sdpData = s.sdpData[:0]
	s.sdpDone = false
	s.sdpApplied = false
	e.openChannel(s, &s.SDPChan, l2cap.PSMSDP)
}

func (e *Engine) sendSDPRequest(s *Slot, cont []byte) {
	uuid := uint16(sdp.UUIDHID)
	if s.sdpUUIDIdx == 1 {
		uuid = sdp.UUIDPnP
	}
	s.sdpTxn++
	e.sendACL(s, s.SDPChan.DCID, sdp.SearchAttributeRequest(s.sdpTxn, uuid, cont))
}

func (e *Engine) handleSDPResponse(s *Slot, b []byte) {
	resp := sdp.Response(b)
	attrs, err := resp.AttributeBytes()
	if err != nil {
		e.log.Warnf("slot %d: sdp: %v", s.ID, err)
		e.finishSDP(s)
		return
	}
	s.sdpData = append(s.sdpData, attrs...)

	cont, err := resp.Continuation()
	if err == nil && len(cont) > 0 {
		e.sendSDPRequest(s, cont)
		return
	}

	if s.sdpUUIDIdx == 0 {
		s.sdpUUIDIdx = 1
		e.sendSDPRequest(s, nil)
		return
	}
	e.finishSDP(s)
}

// finishSDP closes the SDP channel and moves on to the HID channels. The
// accumulated record bytes are parsed later by the scheduler.
func (e *Engine) finishSDP(s *Slot) {
	s.sdpDone = true
	if s.SDPChan.State() == l2cap.ChanOpen {
		s.SDPChan.Disconnecting()
		e.sendSignal(s, &l2cap.DisconnectionRequest{
			DestinationCID: s.SDPChan.DCID,
			SourceCID:      s.SDPChan.SCID,
		})
	}
	if s.CtrlChan.State() == l2cap.ChanClosed {
		e.openChannel(s, &s.CtrlChan, l2cap.PSMHIDControl)
	}
}

// runHIDSetup performs the protocol selection and vendor handshakes, then
// the slot streams.
func (e *Engine) runHIDSetup(s *Slot) {
	d := &e.datas[s.ID]
	for _, w := range hid.SetupWrites(s.DevType, len(d.Reports) > 0) {
		if w.Interrupt {
			e.sendACL(s, s.IntrChan.DCID, w.Payload)
		} else {
			e.sendACL(s, s.CtrlChan.DCID, w.Payload)
		}
	}
	s.state = StateStreaming
	e.log.Infof("slot %d: streaming as %s", s.ID, s.DevType)
}

func (e *Engine) handleControl(s *Slot, b []byte) {
	if code, ok := hid.IsHandshake(b); ok && code != hid.HandshakeSuccess {
		e.log.Debugf("slot %d: hid handshake 0x%02x", s.ID, code)
	}
}

func (e *Engine) handleInterrupt(s *Slot, b []byte) {
	in, ok := hid.ParseInput(b)
	if !ok {
		return
	}

	d := &e.datas[s.ID]
	if len(in.Payload) > len(d.Input) {
		e.log.Warnf("slot %d: oversized report %d", s.ID, len(in.Payload))
		return
	}
	d.ReportID = in.ReportID
	copy(d.Input[:], in.Payload)
	d.InputLen = len(in.Payload)

	if e.cfg.OnInput != nil {
		e.cfg.OnInput(s.ID)
	}
}

// SendFeedback transmits one HID output report to a streaming device.
func (e *Engine) SendFeedback(devID int, reportID uint8, payload []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if devID < 0 || devID >= MaxSlots {
		return
	}
	s := &e.slots[devID]
	if !s.Found || s.state != StateStreaming || s.IntrChan.State() != l2cap.ChanOpen {
		return
	}

	report := make([]byte, 1+len(payload))
	report[0] = reportID
	copy(report[1:], payload)
	e.sendACL(s, s.IntrChan.DCID, hid.DataOutput(report))
}

// ProcessPending parses SDP results that finished since the last call,
// reclassifying the device and rebuilding its report table. Called from
// the scheduler's housekeeping tick.
func (e *Engine) ProcessPending() {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.slots {
		s := &e.slots[i]
		if !s.Found || !s.sdpDone || s.sdpApplied {
			continue
		}
		s.sdpApplied = true

		rec, err := sdp.ParseRecord(s.sdpData)
		if err != nil {
			e.log.Warnf("slot %d: sdp record: %v", s.ID, err)
		}

		d := &e.datas[s.ID]
		if len(rec.ReportDescriptor) > 0 {
			d.Reports = sdp.ScanReportDescriptor(rec.ReportDescriptor)
		}

		t := e.cls.Classify(rec.VendorID, rec.ProductID, s.Name)
		if t == s.DevType {
			continue
		}
		e.log.Infof("slot %d: reclassified %s -> %s (vid 0x%04x pid 0x%04x)",
			s.ID, s.DevType, t, rec.VendorID, rec.ProductID)
		s.DevType = t
		d.DevType = t
		if s.state == StateStreaming {
			e.runHIDSetup(s)
		}
	}
}
