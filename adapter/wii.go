package adapter

// Wiimote core button bytes (reports 0x30/0x31).
const (
	wiiLeft  = 0x01 // input[0]
	wiiRight = 0x02
	wiiDown  = 0x04
	wiiUp    = 0x08
	wiiPlus  = 0x10
)

const (
	wiiTwo   = 0x01 // input[1]
	wiiOne   = 0x02
	wiiB     = 0x04
	wiiA     = 0x08
	wiiMinus = 0x10
	wiiHome  = 0x80
)

var wiiMask = [4]uint32{0x017D0F00, 0x00000000, 0x00000000, 0x00000000}
var wiiDesc = [4]uint32{0x00000000, 0x00000000, 0x00000000, 0x00000000}

// Player 1 LED in the high nibble, rumble in bit 0.
const (
	wiiLEDReportID = 0x11
	wiiLEDPlayer1  = 0x10
)

func wiiToGeneric(d *Data, c *Ctrl) {
	*c = Ctrl{Mask: wiiMask, Desc: wiiDesc}

	core := d.Input[0]
	if core&wiiLeft != 0 {
		c.Btns[0] |= BIT(PadLDLeft)
	}
	if core&wiiRight != 0 {
		c.Btns[0] |= BIT(PadLDRight)
	}
	if core&wiiDown != 0 {
		c.Btns[0] |= BIT(PadLDDown)
	}
	if core&wiiUp != 0 {
		c.Btns[0] |= BIT(PadLDUp)
	}
	if core&wiiPlus != 0 {
		c.Btns[0] |= BIT(PadMM)
	}

	core = d.Input[1]
	if core&wiiTwo != 0 {
		c.Btns[0] |= BIT(PadRBUp)
	}
	if core&wiiOne != 0 {
		c.Btns[0] |= BIT(PadRBLeft)
	}
	if core&wiiB != 0 {
		c.Btns[0] |= BIT(PadLM)
	}
	if core&wiiA != 0 {
		c.Btns[0] |= BIT(PadRBDown)
	}
	if core&wiiMinus != 0 {
		c.Btns[0] |= BIT(PadMS)
	}
	if core&wiiHome != 0 {
		c.Btns[0] |= BIT(PadMT)
	}
}

func wiiFbFromGeneric(fb *Fb, d *Data) {
	out := uint8(wiiLEDPlayer1)
	if fb.State != 0 {
		out |= 0x01
	}
	d.Output[0] = out
	d.OutputID = wiiLEDReportID
	d.OutputLen = 1
}
