package hid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openretro/bridge/adapter"
)

func TestTransactionBytes(t *testing.T) {
	assert.Equal(t, []byte{0x71}, SetProtocol(ProtocolReport))
	assert.Equal(t, []byte{0x70}, SetProtocol(ProtocolBoot))
	assert.Equal(t, []byte{0x90, 0x00}, SetIdle(0))
	assert.Equal(t, []byte{0x43, 0x02}, GetReport(RptFeature, 0x02))
}

func TestDataOutput(t *testing.T) {
	assert.Equal(t, []byte{0xA2, 0x01, 0xAA}, DataOutput([]byte{0x01, 0xAA}))
}

func TestParseInput(t *testing.T) {
	in, ok := ParseInput([]byte{0xA1, 0x30, 0x11, 0x22})
	require.True(t, ok)
	assert.Equal(t, uint8(0x30), in.ReportID)
	assert.Equal(t, []byte{0x11, 0x22}, in.Payload)

	_, ok = ParseInput([]byte{0xA2, 0x01, 0x00}) // output, not input
	assert.False(t, ok)
	_, ok = ParseInput([]byte{0xA1})
	assert.False(t, ok)
	_, ok = ParseInput(nil)
	assert.False(t, ok)
}

func TestIsHandshake(t *testing.T) {
	code, ok := IsHandshake([]byte{0x00})
	require.True(t, ok)
	assert.Equal(t, uint8(HandshakeSuccess), code)

	code, ok = IsHandshake([]byte{0x03})
	require.True(t, ok)
	assert.Equal(t, uint8(HandshakeErrUnsupported), code)

	_, ok = IsHandshake([]byte{0xA1, 0x01})
	assert.False(t, ok)
	_, ok = IsHandshake([]byte{0x71})
	assert.False(t, ok)
}

func TestSetupWritesSwitch(t *testing.T) {
	w := SetupWrites(adapter.SwitchPro, true)
	require.Len(t, w, 2)

	for _, x := range w {
		assert.True(t, x.Interrupt)
		assert.Equal(t, uint8(0xA2), x.Payload[0])
		assert.Equal(t, uint8(0x01), x.Payload[1]) // output report id
		assert.Equal(t, swNeutralRumble, x.Payload[3:11])
	}
	// enable rumble, then input report mode 0x30
	assert.Equal(t, []byte{0x48, 0x01}, w[0].Payload[11:])
	assert.Equal(t, []byte{0x03, 0x30}, w[1].Payload[11:])
	assert.NotEqual(t, w[0].Payload[2], w[1].Payload[2])
}

func TestSetupWritesPS4(t *testing.T) {
	w := SetupWrites(adapter.PS4, true)
	require.Len(t, w, 2)
	assert.False(t, w[0].Interrupt)
	assert.Equal(t, SetProtocol(ProtocolReport), w[0].Payload)
	assert.Equal(t, GetReport(RptFeature, 0x02), w[1].Payload)
}

func TestSetupWritesGeneric(t *testing.T) {
	w := SetupWrites(adapter.HIDGeneric, false)
	require.Len(t, w, 2)
	assert.Equal(t, SetProtocol(ProtocolBoot), w[0].Payload)

	w = SetupWrites(adapter.HIDGeneric, true)
	assert.Equal(t, SetProtocol(ProtocolReport), w[0].Payload)
}

func TestSetupWritesWii(t *testing.T) {
	w := SetupWrites(adapter.Wii, true)
	require.Len(t, w, 1)
	assert.True(t, w[0].Interrupt)
	assert.Equal(t, []byte{0xA2, 0x12, 0x00, 0x30}, w[0].Payload)
}

func TestSetupWritesDefault(t *testing.T) {
	for _, typ := range []adapter.DevType{adapter.XB1, adapter.XB1Adaptive} {
		w := SetupWrites(typ, true)
		require.Len(t, w, 1)
		assert.False(t, w[0].Interrupt)
		assert.Equal(t, SetProtocol(ProtocolReport), w[0].Payload)
	}
}
