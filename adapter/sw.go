package adapter

import "encoding/binary"

// Switch Pro full report 0x30 button bytes.
const (
	swRY = iota // input[2]
	swRX
	swRB
	swRA
	swRSR
	swRSL
	swR
	swZR
)

const (
	swMinus = iota // input[3]
	swPlus
	swRStick
	swLStick
	swHome
	swCapture
)

const (
	swLDown = iota // input[4]
	swLUp
	swLRight
	swLLeft
	swLSR
	swLSL
	swL
	swZL
)

var swAxesMeta = [MaxAxes]AxisMeta{
	{Neutral: 0x800, AbsMax: 0x600},
	{Neutral: 0x800, AbsMax: 0x600},
	{Neutral: 0x800, AbsMax: 0x600},
	{Neutral: 0x800, AbsMax: 0x600},
	{Neutral: 0x000, AbsMax: 0x001},
	{Neutral: 0x000, AbsMax: 0x001},
}

var swSimpleAxesMeta = [MaxAxes]AxisMeta{
	{Neutral: 0x8000, AbsMax: 0x8000},
	{Neutral: 0x8000, AbsMax: 0x8000, Polarity: true},
	{Neutral: 0x8000, AbsMax: 0x8000},
	{Neutral: 0x8000, AbsMax: 0x8000, Polarity: true},
	{Neutral: 0x0000, AbsMax: 0x0001},
	{Neutral: 0x0000, AbsMax: 0x0001},
}

var swMask = [4]uint32{0xBBFF0FFF, 0x00000000, 0x00000000, 0x00000000}
var swDesc = [4]uint32{0x000000FF, 0x00000000, 0x00000000, 0x00000000}

// Rumble payloads for output report 0x10: low+high band data for both
// motors. The on pattern is the resonant "standard" pulse; off is the
// encoded neutral.
var swRumbleOn = [8]byte{0x28, 0x88, 0x60, 0x61, 0x28, 0x88, 0x60, 0x61}
var swRumbleOff = [8]byte{0x00, 0x01, 0x40, 0x40, 0x00, 0x01, 0x40, 0x40}

const swRumbleReportID = 0x10

// swStick unpacks one 12-bit packed stick pair.
func swStick(b []byte) (x, y int32) {
	x = int32(b[0]) | int32(b[1]&0x0F)<<8
	y = int32(b[1]>>4) | int32(b[2])<<4
	return x, y
}

func swToGeneric(d *Data, c *Ctrl) {
	*c = Ctrl{Mask: swMask, Desc: swDesc}

	switch d.ReportID {
	case 0x30, 0x31:
		right := d.Input[2]
		shared := d.Input[3]
		left := d.Input[4]

		// Positional face mapping: Switch A is the right position.
		if right&(1<<swRA) != 0 {
			c.Btns[0] |= BIT(PadRBRight)
		}
		if right&(1<<swRB) != 0 {
			c.Btns[0] |= BIT(PadRBDown)
		}
		if right&(1<<swRX) != 0 {
			c.Btns[0] |= BIT(PadRBUp)
		}
		if right&(1<<swRY) != 0 {
			c.Btns[0] |= BIT(PadRBLeft)
		}
		if right&(1<<swR) != 0 {
			c.Btns[0] |= BIT(PadRS)
		}
		if right&(1<<swZR) != 0 {
			c.Btns[0] |= BIT(PadRM)
		}

		if shared&(1<<swMinus) != 0 {
			c.Btns[0] |= BIT(PadMS)
		}
		if shared&(1<<swPlus) != 0 {
			c.Btns[0] |= BIT(PadMM)
		}
		if shared&(1<<swRStick) != 0 {
			c.Btns[0] |= BIT(PadRJ)
		}
		if shared&(1<<swLStick) != 0 {
			c.Btns[0] |= BIT(PadLJ)
		}
		if shared&(1<<swHome) != 0 {
			c.Btns[0] |= BIT(PadMT)
		}
		if shared&(1<<swCapture) != 0 {
			c.Btns[0] |= BIT(PadMQ)
		}

		if left&(1<<swLDown) != 0 {
			c.Btns[0] |= BIT(PadLDDown)
		}
		if left&(1<<swLUp) != 0 {
			c.Btns[0] |= BIT(PadLDUp)
		}
		if left&(1<<swLRight) != 0 {
			c.Btns[0] |= BIT(PadLDRight)
		}
		if left&(1<<swLLeft) != 0 {
			c.Btns[0] |= BIT(PadLDLeft)
		}
		if left&(1<<swL) != 0 {
			c.Btns[0] |= BIT(PadLS)
		}
		if left&(1<<swZL) != 0 {
			c.Btns[0] |= BIT(PadLM)
		}

		lx, ly := swStick(d.Input[5:8])
		rx, ry := swStick(d.Input[8:11])
		raw := [4]int32{lx, ly, rx, ry}

		if !d.Initialized() {
			for i := 0; i < 4; i++ {
				d.AxesCal[i] = -(raw[i] - swAxesMeta[i].Neutral)
			}
			d.setInitialized()
		}

		for i := 0; i < 4; i++ {
			c.Axes[i].Meta = &swAxesMeta[i]
			c.Axes[i].Value = raw[i] - swAxesMeta[i].Neutral + d.AxesCal[i]
		}

	case 0x3F:
		// Simple HID mode: u16 buttons, u8 hat, u16 sticks[4].
		buttons := binary.LittleEndian.Uint16(d.Input[0:2])
		simple := [16]int{
			PadRBDown, PadRBRight, PadRBLeft, PadRBUp,
			PadLS, PadRS, PadLM, PadRM,
			PadMS, PadMM, PadLJ, PadRJ,
			PadMT, PadMQ, 0, 0,
		}
		for i, btn := range simple {
			if btn != 0 && buttons&(1<<uint(i)) != 0 {
				c.Btns[0] |= BIT(btn)
			}
		}
		c.Btns[0] |= HatToBtns(d.Input[2] + 1)

		if !d.Initialized() {
			for i := 0; i < 4; i++ {
				raw := int32(binary.LittleEndian.Uint16(d.Input[3+2*i:]))
				d.AxesCal[i] = -(raw - swSimpleAxesMeta[i].Neutral)
			}
			d.setInitialized()
		}
		for i := 0; i < 4; i++ {
			raw := int32(binary.LittleEndian.Uint16(d.Input[3+2*i:]))
			c.Axes[i].Meta = &swSimpleAxesMeta[i]
			c.Axes[i].Value = raw - swSimpleAxesMeta[i].Neutral + d.AxesCal[i]
		}
	}
}

func swFbFromGeneric(fb *Fb, d *Data) {
	// Packet counter in the low nibble of the first byte.
	d.Output[0] = uint8(d.ReportCnt) & 0x0F
	if fb.State != 0 {
		copy(d.Output[1:], swRumbleOn[:])
	} else {
		copy(d.Output[1:], swRumbleOff[:])
	}
	d.OutputID = swRumbleReportID
	d.OutputLen = 1 + len(swRumbleOn)
}
