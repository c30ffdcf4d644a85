package l2cap

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openretro/bridge"
)

func aclPacket(handle uint16, pbf int, data []byte) Packet {
	b := make([]byte, 4+len(data))
	binary.LittleEndian.PutUint16(b[0:2], handle&0x0fff|uint16(pbf)<<12)
	binary.LittleEndian.PutUint16(b[2:4], uint16(len(data)))
	copy(b[4:], data)
	return Packet(b)
}

func pduBytes(cid uint16, payload []byte) []byte {
	b := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint16(b[0:2], uint16(len(payload)))
	binary.LittleEndian.PutUint16(b[2:4], cid)
	copy(b[4:], payload)
	return b
}

func TestPacketAccessors(t *testing.T) {
	p := aclPacket(0x0ABC, PbfControllerToHostStart, []byte{1, 2, 3})

	assert.Equal(t, uint16(0x0ABC), p.Handle())
	assert.Equal(t, PbfControllerToHostStart, p.PBF())
	assert.Equal(t, 0, p.BCF())
	assert.Equal(t, 3, p.DLen())
	assert.Equal(t, []byte{1, 2, 3}, p.Data())
}

func TestReassemblerComplete(t *testing.T) {
	r := NewReassembler(bridge.GetLogger())

	payload := []byte{0xAA, 0xBB}
	p := r.Feed(aclPacket(1, PbfControllerToHostStart, pduBytes(0x0040, payload)))
	require.NotNil(t, p)
	assert.Equal(t, uint16(0x0040), p.CID())
	assert.Equal(t, payload, p.Payload())
}

func TestReassemblerFragmented(t *testing.T) {
	r := NewReassembler(bridge.GetLogger())

	payload := make([]byte, 900)
	for i := range payload {
		payload[i] = byte(i)
	}
	whole := pduBytes(0x0041, payload)

	// 400 + 400 + 100 byte ACL fragments
	require.Nil(t, r.Feed(aclPacket(1, PbfControllerToHostStart, whole[:400])))
	require.Nil(t, r.Feed(aclPacket(1, PbfContinuing, whole[400:800])))
	p := r.Feed(aclPacket(1, PbfContinuing, whole[800:]))
	require.NotNil(t, p)

	assert.Equal(t, uint16(0x0041), p.CID())
	assert.Equal(t, 900, p.DLen())
	assert.True(t, bytes.Equal(payload, p.Payload()))
}

func TestReassemblerRestart(t *testing.T) {
	r := NewReassembler(bridge.GetLogger())

	payload := make([]byte, 600)
	whole := pduBytes(0x0040, payload)
	require.Nil(t, r.Feed(aclPacket(1, PbfControllerToHostStart, whole[:300])))

	// a second start abandons the pending PDU
	fresh := []byte{0xDE, 0xAD}
	p := r.Feed(aclPacket(1, PbfControllerToHostStart, pduBytes(0x0040, fresh)))
	require.NotNil(t, p)
	assert.Equal(t, fresh, p.Payload())

	// the abandoned continuation no longer completes anything
	assert.Nil(t, r.Feed(aclPacket(1, PbfContinuing, whole[300:])))
}

func TestReassemblerStrayContinuation(t *testing.T) {
	r := NewReassembler(bridge.GetLogger())
	assert.Nil(t, r.Feed(aclPacket(1, PbfContinuing, []byte{1, 2, 3})))
}

func TestReassemblerOversized(t *testing.T) {
	r := NewReassembler(bridge.GetLogger())

	huge := pduBytes(0x0040, make([]byte, 2000))
	assert.Nil(t, r.Feed(aclPacket(1, PbfControllerToHostStart, huge[:400])))
	// no pending state was recorded
	assert.Nil(t, r.Feed(aclPacket(1, PbfContinuing, huge[400:800])))
}

func TestBuildFrame(t *testing.T) {
	b := BuildFrame(0x0002, CIDSignal, []byte{0x06, 0x01, 0x04, 0x00})

	p := Packet(b)
	assert.Equal(t, uint16(0x0002), p.Handle())
	assert.Equal(t, PbfHostToControllerStart, p.PBF())
	assert.Equal(t, 8, p.DLen())

	pdu := PDU(p.Data())
	assert.Equal(t, uint16(CIDSignal), pdu.CID())
	assert.Equal(t, 4, pdu.DLen())
}

func TestFragmentRoundTrip(t *testing.T) {
	payload := make([]byte, 700)
	for i := range payload {
		payload[i] = byte(i * 3)
	}

	pkts := Fragment(0x0001, 256, 0x0044, payload)
	require.Len(t, pkts, 3)

	r := NewReassembler(bridge.GetLogger())
	var got PDU
	for _, raw := range pkts {
		got = r.Feed(Packet(raw))
	}
	require.NotNil(t, got)
	assert.Equal(t, uint16(0x0044), got.CID())
	assert.True(t, bytes.Equal(payload, got.Payload()))
}

func TestSignalRoundTrip(t *testing.T) {
	req := &ConnectionRequest{PSM: PSMHIDInterrupt, SourceCID: 0x0041}
	raw := MarshalSignal(0x05, req)

	sig := SigCmd(raw)
	require.True(t, sig.Valid())
	assert.Equal(t, SignalConnectionRequest, sig.Code())
	assert.Equal(t, uint8(0x05), sig.ID())

	var got ConnectionRequest
	require.NoError(t, got.Unmarshal(sig.Data()))
	assert.Equal(t, *req, got)
}

func TestConfigurationRequestOptions(t *testing.T) {
	req := &ConfigurationRequest{
		DestinationCID: 0x0040,
		Options:        MTUOption(672),
	}
	raw := req.Marshal()
	assert.Equal(t, []byte{0x40, 0x00, 0x00, 0x00, 0x01, 0x02, 0xA0, 0x02}, raw)

	var got ConfigurationRequest
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, uint16(0x0040), got.DestinationCID)

	mtu, ok := ParseMTUOption(got.Options)
	require.True(t, ok)
	assert.Equal(t, uint16(672), mtu)
}

func TestParseMTUOptionSkipsOthers(t *testing.T) {
	opts := []byte{0x02, 0x02, 0xFF, 0xFF, 0x01, 0x02, 0x00, 0x04}
	mtu, ok := ParseMTUOption(opts)
	require.True(t, ok)
	assert.Equal(t, uint16(0x0400), mtu)

	_, ok = ParseMTUOption([]byte{0x02, 0x02, 0xFF, 0xFF})
	assert.False(t, ok)
}

func TestSigCmdChain(t *testing.T) {
	raw := append(
		MarshalSignal(1, &ConnectionRequest{PSM: PSMSDP, SourceCID: 0x0040}),
		MarshalSignal(2, &DisconnectionRequest{DestinationCID: 0x0044, SourceCID: 0x0040})...,
	)

	sig := SigCmd(raw)
	require.True(t, sig.Valid())
	assert.Equal(t, SignalConnectionRequest, sig.Code())

	next := sig.Next()
	require.True(t, next.Valid())
	assert.Equal(t, SignalDisconnectionRequest, next.Code())
	assert.False(t, next.Next().Valid())
}

func TestChannelLifecycle(t *testing.T) {
	var alloc CIDAllocator
	ch := &Channel{PSM: PSMHIDControl, SCID: alloc.Next()}

	assert.Equal(t, uint16(0x0040), ch.SCID)
	assert.Equal(t, ChanClosed, ch.State())

	ch.Connecting()
	assert.Equal(t, ChanWaitConnRsp, ch.State())

	ch.Connected(0x0070)
	assert.Equal(t, ChanWaitConfig, ch.State())

	// one config direction alone does not open the channel
	ch.LocalConfigDone()
	assert.Equal(t, ChanWaitConfig, ch.State())
	ch.RemoteConfigDone()
	assert.Equal(t, ChanOpen, ch.State())

	ch.Disconnecting()
	assert.Equal(t, ChanWaitDisconnRsp, ch.State())
	ch.Close()
	assert.Equal(t, ChanClosed, ch.State())

	assert.Equal(t, uint16(0x0041), alloc.Next())
	alloc.Reset()
	assert.Equal(t, uint16(0x0040), alloc.Next())
}
