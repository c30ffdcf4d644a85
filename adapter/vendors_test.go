package adapter

import (
	"encoding/binary"
	"hash/crc32"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwStickUnpack(t *testing.T) {
	// 12-bit pair 0xABC / 0xDEF packed low-nibble first
	b := []byte{0xBC, 0xFA, 0xDE}
	x, y := swStick(b)
	assert.Equal(t, int32(0xABC), x)
	assert.Equal(t, int32(0xDEF), y)
}

func TestSwToGenericFullReport(t *testing.T) {
	d := &Data{DevType: SwitchPro, ReportID: 0x30}
	d.Input[2] = (1 << swRA) | (1 << swRX) // A and X
	d.Input[3] = 1 << swHome
	d.Input[4] = (1 << swLUp) | (1 << swZL)

	// both sticks at the encoded neutral 0x800
	copy(d.Input[5:8], []byte{0x00, 0x08, 0x80})
	copy(d.Input[8:11], []byte{0x00, 0x08, 0x80})

	var c Ctrl
	swToGeneric(d, &c)

	want := BIT(PadRBRight) | BIT(PadRBUp) | BIT(PadMT) | BIT(PadLDUp) | BIT(PadLM)
	assert.Equal(t, want, c.Btns[0])

	for i := 0; i < 4; i++ {
		assert.Equal(t, int32(0), c.Axes[i].Value, "axis %d", i)
	}
}

func TestSwSimpleReportHat(t *testing.T) {
	d := &Data{DevType: SwitchPro, ReportID: 0x3F}
	d.Input[2] = 0x08 // released
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint16(d.Input[3+2*i:], 0x8000)
	}

	var c Ctrl
	swToGeneric(d, &c)
	assert.Zero(t, c.Btns[0])

	d.Input[2] = 0x00 // north
	swToGeneric(d, &c)
	assert.Equal(t, BIT(PadLDUp), c.Btns[0])
}

func TestSwFbCounterNibble(t *testing.T) {
	d := &Data{DevType: SwitchPro, ReportCnt: 0x12}
	fb := Fb{State: 1}
	swFbFromGeneric(&fb, d)

	assert.Equal(t, uint8(swRumbleReportID), d.OutputID)
	assert.Equal(t, uint8(0x02), d.Output[0])
	assert.Equal(t, swRumbleOn[:], d.Output[1:d.OutputLen])
}

func TestPS4ToGeneric(t *testing.T) {
	d := &Data{DevType: PS4, ReportID: 0x11}
	in := d.Input[2:] // report 0x11 block offset

	in[0], in[1], in[2], in[3] = 0x80, 0x80, 0x80, 0x80
	in[4] = 0x08 | 2<<4 // hat released, cross pressed
	in[5] = (1 << ps4R1) | (1 << ps4Share)
	in[6] = 1 << ps4PS

	var c Ctrl
	ps4ToGeneric(d, &c)

	want := BIT(PadRBDown) | BIT(PadRS) | BIT(PadMS) | BIT(PadMT)
	assert.Equal(t, want, c.Btns[0])

	// report 0x01 carries the same block at offset 0
	d2 := &Data{DevType: PS4, ReportID: 0x01}
	copy(d2.Input[:], in[:9])
	var c2 Ctrl
	ps4ToGeneric(d2, &c2)
	assert.Equal(t, c.Btns[0], c2.Btns[0])
}

func TestPS4OutputCRC(t *testing.T) {
	d := &Data{DevType: PS4}
	fb := Fb{State: 1}
	ps4FbFromGeneric(&fb, d)

	require.Equal(t, ps4OutputLen, d.OutputLen)
	require.Equal(t, uint8(ps4OutputReportID), d.OutputID)

	crc := crc32.NewIEEE()
	crc.Write([]byte{0xA2, ps4OutputReportID})
	crc.Write(d.Output[:ps4OutputLen-4])
	assert.Equal(t, crc.Sum32(),
		binary.LittleEndian.Uint32(d.Output[ps4OutputLen-4:ps4OutputLen]))

	assert.Equal(t, uint8(0x3F), d.Output[5])
	assert.Equal(t, uint8(0xFF), d.Output[6])
}

func TestWiiToGeneric(t *testing.T) {
	d := &Data{DevType: Wii}
	d.Input[0] = wiiUp | wiiPlus
	d.Input[1] = wiiA | wiiB | wiiHome

	var c Ctrl
	wiiToGeneric(d, &c)

	want := BIT(PadLDUp) | BIT(PadMM) | BIT(PadRBDown) | BIT(PadLM) | BIT(PadMT)
	assert.Equal(t, want, c.Btns[0])
	assert.Equal(t, wiiMask, c.Mask)
}

func TestWiiFbKeepsPlayerLED(t *testing.T) {
	d := &Data{DevType: Wii}

	wiiFbFromGeneric(&Fb{State: 1}, d)
	assert.Equal(t, uint8(wiiLEDPlayer1|0x01), d.Output[0])

	wiiFbFromGeneric(&Fb{State: 0}, d)
	assert.Equal(t, uint8(wiiLEDPlayer1), d.Output[0])
}

func TestXB1AdaptiveExtraButtons(t *testing.T) {
	d := &Data{DevType: XB1Adaptive, ReportID: 0x01}
	copy(d.Input[:], xb1Report(xb1Centered, 0x0F, 0, 1<<0))

	var c Ctrl
	xb1ToGeneric(d, &c)

	assert.Equal(t, xb1AdaptiveMask, c.Mask)
	assert.Equal(t, BIT(PadRDUp), c.Btns[0])
}

func TestXB1GuideReport(t *testing.T) {
	d := &Data{DevType: XB1, ReportID: 0x02}
	d.Input[0] = 1 << xb1Xbox

	var c Ctrl
	xb1ToGeneric(d, &c)
	assert.Equal(t, BIT(PadMT), c.Btns[0])
	assert.Equal(t, xb1Mask2, c.Mask)
}

func TestExtractBits(t *testing.T) {
	data := []byte{0b10110100, 0b00000011}

	assert.Equal(t, uint32(0), extractBits(data, 0, 2))
	assert.Equal(t, uint32(0b1101), extractBits(data, 2, 4))
	assert.Equal(t, uint32(0b1101), extractBits(data, 5, 4))
	// reads past the buffer fall off to zero bits
	assert.Equal(t, uint32(0b11), extractBits(data, 8, 12))
}

func TestHidGenericReport(t *testing.T) {
	d := &Data{DevType: HIDGeneric, ReportID: 0x01}
	d.Reports = []Report{{
		ID:  0x01,
		Len: 5,
		Fields: []ReportField{
			{UsagePage: usagePageDesktop, Usage: usageX, BitOffset: 0, BitSize: 8, Count: 1},
			{UsagePage: usagePageDesktop, Usage: usageY, BitOffset: 8, BitSize: 8, Count: 1},
			{UsagePage: usagePageDesktop, Usage: usageHat, BitOffset: 16, BitSize: 4, Count: 1},
			{UsagePage: usagePageButton, BitOffset: 20, BitSize: 1, Count: 4},
		},
	}}

	d.Input[0] = 0x80 // X neutral
	d.Input[1] = 0x80
	d.Input[2] = 0x02 | 1<<4 // hat east, first button pressed

	var c Ctrl
	hidToGeneric(d, &c)

	// first declared button is the south face button
	assert.Equal(t, BIT(PadLDRight)|BIT(PadRBDown), c.Btns[0])
	assert.Equal(t, int32(0), c.Axes[AxisLX].Value)
	assert.True(t, c.Axes[AxisLY].Meta.Polarity)

	// unknown report id decodes to nothing
	d.ReportID = 0x09
	hidToGeneric(d, &c)
	assert.Zero(t, c.Btns[0])
}
