package adapter

import (
	"encoding/binary"
	"hash/crc32"
)

// DS4 input block, relative to the start of the stick bytes:
// {u8 sticks[4], u8 hat|face, u8 shoulder|menu, u8 ps|tp|counter,
//  u8 lt, u8 rt}. Report 0x01 carries the block at offset 0, the full
// Bluetooth report 0x11 at offset 2.
const (
	ps4L1 = iota // input[5]
	ps4R1
	ps4L2
	ps4R2
	ps4Share
	ps4Options
	ps4L3
	ps4R3
)

const (
	ps4PS = iota // input[6]
	ps4TP
)

var ps4AxesMeta = [MaxAxes]AxisMeta{
	{Neutral: 0x80, AbsMax: 0x80},
	{Neutral: 0x80, AbsMax: 0x80, Polarity: true},
	{Neutral: 0x80, AbsMax: 0x80},
	{Neutral: 0x80, AbsMax: 0x80, Polarity: true},
	{Neutral: 0x00, AbsMax: 0xFF},
	{Neutral: 0x00, AbsMax: 0xFF},
}

var ps4Mask = [4]uint32{0xBBFF0FFF, 0x00000000, 0x00000000, 0x00000000}
var ps4Desc = [4]uint32{0x110000FF, 0x00000000, 0x00000000, 0x00000000}

const (
	ps4OutputReportID = 0x11
	ps4OutputLen      = 77
)

func ps4Offset(reportID uint8) int {
	if reportID == 0x11 {
		return 2
	}
	return 0
}

func ps4ToGeneric(d *Data, c *Ctrl) {
	*c = Ctrl{Mask: ps4Mask, Desc: ps4Desc}

	in := d.Input[ps4Offset(d.ReportID):]

	// Hat in the low nibble of the face byte, 0=north 8=centre.
	c.Btns[0] |= HatToBtns((in[4] & 0x0F) + 1)

	face := in[4] >> 4
	if face&(1<<0) != 0 { // square
		c.Btns[0] |= BIT(PadRBLeft)
	}
	if face&(1<<1) != 0 { // cross
		c.Btns[0] |= BIT(PadRBDown)
	}
	if face&(1<<2) != 0 { // circle
		c.Btns[0] |= BIT(PadRBRight)
	}
	if face&(1<<3) != 0 { // triangle
		c.Btns[0] |= BIT(PadRBUp)
	}

	shoulder := in[5]
	if shoulder&(1<<ps4L1) != 0 {
		c.Btns[0] |= BIT(PadLS)
	}
	if shoulder&(1<<ps4R1) != 0 {
		c.Btns[0] |= BIT(PadRS)
	}
	if shoulder&(1<<ps4L2) != 0 {
		c.Btns[0] |= BIT(PadLM)
	}
	if shoulder&(1<<ps4R2) != 0 {
		c.Btns[0] |= BIT(PadRM)
	}
	if shoulder&(1<<ps4Share) != 0 {
		c.Btns[0] |= BIT(PadMS)
	}
	if shoulder&(1<<ps4Options) != 0 {
		c.Btns[0] |= BIT(PadMM)
	}
	if shoulder&(1<<ps4L3) != 0 {
		c.Btns[0] |= BIT(PadLJ)
	}
	if shoulder&(1<<ps4R3) != 0 {
		c.Btns[0] |= BIT(PadRJ)
	}

	sys := in[6]
	if sys&(1<<ps4PS) != 0 {
		c.Btns[0] |= BIT(PadMT)
	}
	if sys&(1<<ps4TP) != 0 {
		c.Btns[0] |= BIT(PadMQ)
	}

	raw := [MaxAxes]int32{
		int32(in[0]), int32(in[1]), int32(in[2]), int32(in[3]),
		int32(in[7]), int32(in[8]),
	}

	if !d.Initialized() {
		for i := 0; i < MaxAxes; i++ {
			d.AxesCal[i] = -(raw[i] - ps4AxesMeta[i].Neutral)
		}
		d.setInitialized()
	}

	for i := 0; i < MaxAxes; i++ {
		c.Axes[i].Meta = &ps4AxesMeta[i]
		c.Axes[i].Value = raw[i] - ps4AxesMeta[i].Neutral + d.AxesCal[i]
	}
}

// ps4FbFromGeneric builds the Bluetooth 0x11 output report: rumble
// magnitudes plus the light bar, with the CRC32 the DS4 requires over the
// HID framing and payload.
func ps4FbFromGeneric(fb *Fb, d *Data) {
	out := d.Output[:ps4OutputLen]
	for i := range out {
		out[i] = 0
	}

	out[0] = 0xC0 // HID + CRC, poll interval 0
	out[1] = 0x20
	out[2] = 0xF3 // enable rumble + led
	if fb.State != 0 {
		out[5] = 0x3F // weak motor
		out[6] = 0xFF // strong motor
	}
	// light bar: dim blue so a paired pad is visibly owned
	out[9] = 0x10

	crc := crc32.NewIEEE()
	crc.Write([]byte{0xA2, ps4OutputReportID})
	crc.Write(out[:ps4OutputLen-4])
	binary.LittleEndian.PutUint32(out[ps4OutputLen-4:], crc.Sum32())

	d.OutputID = ps4OutputReportID
	d.OutputLen = ps4OutputLen
}
