package adapter

import "encoding/binary"

// xinput buttons (report 0x01 button dword).
const (
	xb1A = iota
	xb1B
	xb1X
	xb1Y
	xb1LB
	xb1RB
	xb1View
	xb1Menu
	xb1LJ
	xb1RJ
)

// dinput buttons (adaptive controller firmware).
const (
	xb1DiA    = 0
	xb1DiB    = 1
	xb1DiX    = 3
	xb1DiY    = 4
	xb1DiLB   = 6
	xb1DiRB   = 7
	xb1DiMenu = 11
	xb1DiLJ   = 13
	xb1DiRJ   = 14
	xb1DiView = 16
)

// report 0x02.
const xb1Xbox = 0

// adaptive extra buttons.
const (
	xb1AdaptiveX1 = iota
	xb1AdaptiveX2
	xb1AdaptiveX3
	xb1AdaptiveX4
)

// Report 0x01 layout: u16 axes[6], u8 hat, u32 buttons, u8 pad[15], u8 extra.
const (
	xb1HatOff     = 12
	xb1ButtonsOff = 13
	xb1ExtraOff   = 32
)

var xb1AxesIdx = [MaxAxes]int{
	//  LX LY RX RY LT RT
	0, 1, 2, 3, 4, 5,
}

var xb1AxesMeta = [MaxAxes]AxisMeta{
	{Neutral: 0x8000, AbsMax: 0x8000},
	{Neutral: 0x8000, AbsMax: 0x8000, Polarity: true},
	{Neutral: 0x8000, AbsMax: 0x8000},
	{Neutral: 0x8000, AbsMax: 0x8000, Polarity: true},
	{Neutral: 0x0000, AbsMax: 0x3FF},
	{Neutral: 0x0000, AbsMax: 0x3FF},
}

var xb1Mask = [4]uint32{0xBB3F0FFF, 0x00000000, 0x00000000, 0x00000000}
var xb1Mask2 = [4]uint32{0x00400000, 0x00000000, 0x00000000, 0x00000000}
var xb1AdaptiveMask = [4]uint32{0xBB3FFFFF, 0x00000000, 0x00000000, 0x00000000}
var xb1Desc = [4]uint32{0x110000FF, 0x00000000, 0x00000000, 0x00000000}

var xb1BtnsMask = [32]uint32{
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
	1 << xb1X, 1 << xb1B, 1 << xb1A, 1 << xb1Y,
	1 << xb1Menu, 1 << xb1View, 0, 0,
	0, 1 << xb1LB, 0, 1 << xb1LJ,
	0, 1 << xb1RB, 0, 1 << xb1RJ,
}

var xb1DinputBtnsMask = [32]uint32{
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
	1 << xb1DiX, 1 << xb1DiB, 1 << xb1DiA, 1 << xb1DiY,
	1 << xb1DiMenu, 1 << xb1DiView, 0, 0,
	0, 1 << xb1DiLB, 0, 1 << xb1DiLJ,
	0, 1 << xb1DiRB, 0, 1 << xb1DiRJ,
}

var xb1AdaptiveBtnsMask = [32]uint32{
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
	1 << xb1AdaptiveX4, 1 << xb1AdaptiveX3, 1 << xb1AdaptiveX2, 1 << xb1AdaptiveX1,
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
	0, 0, 0, 0,
}

// xb1 rumble payload: {enable, mag_lt, mag_rt, mag_l, mag_r, duration, delay, cnt}.
var xb1RumbleOn = [8]byte{0x03, 0x00, 0x00, 0x1E, 0x1E, 0xFF, 0x00, 0x00}
var xb1RumbleOff = [8]byte{0x03, 0x00, 0x00, 0x00, 0x00, 0xFF, 0x00, 0xFF}

const xb1RumbleReportID = 0x03

func xb1Axis(d *Data, i int) int32 {
	return int32(binary.LittleEndian.Uint16(d.Input[2*xb1AxesIdx[i]:]))
}

func xb1ToGeneric(d *Data, c *Ctrl) {
	*c = Ctrl{Desc: xb1Desc}

	switch d.ReportID {
	case 0x01:
		btnsMask := &xb1BtnsMask
		buttons := binary.LittleEndian.Uint32(d.Input[xb1ButtonsOff:])

		if d.DevType == XB1Adaptive {
			c.Mask = xb1AdaptiveMask
			btnsMask = &xb1DinputBtnsMask

			extra := uint32(d.Input[xb1ExtraOff])
			for i := 0; i < 32; i++ {
				if extra&xb1AdaptiveBtnsMask[i] != 0 {
					c.Btns[0] |= BIT(i)
				}
			}
		} else {
			c.Mask = xb1Mask
		}

		for i := 0; i < 32; i++ {
			if buttons&btnsMask[i] != 0 {
				c.Btns[0] |= BIT(i)
			}
		}

		// Convert hat to regular btns
		c.Btns[0] |= HatToBtns(d.Input[xb1HatOff])

		if !d.Initialized() {
			for i := 0; i < MaxAxes; i++ {
				d.AxesCal[i] = -(xb1Axis(d, i) - xb1AxesMeta[i].Neutral)
			}
			d.setInitialized()
		}

		for i := 0; i < MaxAxes; i++ {
			c.Axes[i].Meta = &xb1AxesMeta[i]
			c.Axes[i].Value = xb1Axis(d, i) - xb1AxesMeta[i].Neutral + d.AxesCal[i]
		}

	case 0x02:
		c.Mask = xb1Mask2

		if d.Input[0]&(1<<xb1Xbox) != 0 {
			c.Btns[0] |= BIT(PadMT)
		}
	}
}

func xb1FbFromGeneric(fb *Fb, d *Data) {
	if fb.State != 0 {
		copy(d.Output[:], xb1RumbleOn[:])
	} else {
		copy(d.Output[:], xb1RumbleOff[:])
	}
	d.OutputID = xb1RumbleReportID
	d.OutputLen = len(xb1RumbleOn)
}
