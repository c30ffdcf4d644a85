package adapter

import (
	"encoding/binary"
	"time"
)

// Dreamcast button bit positions in the 16-bit condition field.
const (
	dcZ = iota
	dcY
	dcX
	dcD
	dcRDUp
	dcRDDown
	dcRDLeft
	dcRDRight
	dcC
	dcB
	dcA
	dcStart
	dcLDUp
	dcLDDown
	dcLDLeft
	dcLDRight
)

// Frame layout: bytes 0..1 triggers, 2..3 buttons (active low), 4..7 sticks.
var dcAxesIdx = [MaxAxes]int{
	//  LX LY RX RY LT RT
	7, 6, 5, 4, 0, 1,
}

var dcAxesMeta = [MaxAxes]AxisMeta{
	{SizeMin: -128, SizeMax: 127, Neutral: 0x80, AbsMax: 0x80},
	{SizeMin: -128, SizeMax: 127, Neutral: 0x80, AbsMax: 0x80, Polarity: true},
	{SizeMin: -128, SizeMax: 127, Neutral: 0x80, AbsMax: 0x80},
	{SizeMin: -128, SizeMax: 127, Neutral: 0x80, AbsMax: 0x80, Polarity: true},
	{SizeMin: 0, SizeMax: 255, Neutral: 0x00, AbsMax: 0xFF},
	{SizeMin: 0, SizeMax: 255, Neutral: 0x00, AbsMax: 0xFF},
}

var dcMask = [4]uint32{0x333FFFFF, 0x00000000, 0x00000000, 0x00000000}
var dcDesc = [4]uint32{0x110000FF, 0x00000000, 0x00000000, 0x00000000}

var dcBtnsMask = [32]uint16{
	0, 0, 0, 0,
	0, 0, 0, 0,
	1 << dcLDLeft, 1 << dcLDRight, 1 << dcLDDown, 1 << dcLDUp,
	1 << dcRDLeft, 1 << dcRDRight, 1 << dcRDDown, 1 << dcRDUp,
	1 << dcX, 1 << dcB, 1 << dcA, 1 << dcY,
	1 << dcStart, 1 << dcD, 0, 0,
	0, 1 << dcZ, 0, 0,
	0, 1 << dcC, 0, 0,
}

func dcInitBuffer(w *WiredData) {
	binary.LittleEndian.PutUint16(w.Output[2:4], 0xFFFF)
	for i := 0; i < MaxAxes; i++ {
		w.Output[dcAxesIdx[i]] = uint8(dcAxesMeta[i].Neutral)
	}
}

func dcMetaInit(c *Ctrl) {
	*c = Ctrl{Mask: dcMask, Desc: dcDesc}
	for i := 0; i < MaxAxes; i++ {
		c.Axes[i].Meta = &dcAxesMeta[i]
	}
}

func dcFromGeneric(c *Ctrl, w *WiredData) {
	buttons := binary.LittleEndian.Uint16(w.Output[2:4])

	for i := 0; i < 32; i++ {
		if c.MapMask[0]&BIT(i) == 0 {
			continue
		}
		if c.Btns[0]&BIT(i) != 0 {
			buttons &^= dcBtnsMask[i]
		} else {
			buttons |= dcBtnsMask[i]
		}
	}
	binary.LittleEndian.PutUint16(w.Output[2:4], buttons)

	for i := 0; i < MaxAxes; i++ {
		if c.MapMask[0]&(AxisToBtnMask(i)&dcDesc[0]) == 0 {
			continue
		}
		meta := c.Axes[i].Meta
		switch {
		case c.Axes[i].Value > meta.SizeMax:
			w.Output[dcAxesIdx[i]] = 255
		case c.Axes[i].Value < meta.SizeMin:
			w.Output[dcAxesIdx[i]] = 0
		default:
			w.Output[dcAxesIdx[i]] = uint8(c.Axes[i].Value + meta.Neutral)
		}
	}
}

// dcFbToGeneric parses a puru-puru (rumble pack) frame. A bare 1-byte frame
// is a stop; otherwise magnitude/frequency/duration select an effect length
// and arm the auto-stop timer.
func dcFbToGeneric(m *Manager, raw []byte, fb *Fb) {
	fb.WiredID = raw[0]
	fb.Cycles = 0
	fb.Start = 0

	if len(raw) < 9 {
		fb.State = 0
		m.fbStopTimerStop(fb.WiredID)
		return
	}

	durUs := uint32(1000) * (uint32(binary.LittleEndian.Uint16(raw[1:3]))*250 + 250)
	freq := raw[6]
	mag0 := raw[7] & 0x07
	mag1 := (raw[7] >> 4) & 0x07

	if mag0 == 0 && mag1 == 0 {
		fb.State = 0
		m.fbStopTimerStop(fb.WiredID)
		return
	}

	if freq != 0 && ((raw[7]&0x88) != 0 || (raw[8]&0x01) == 0) {
		mag := mag0
		if mag1 > mag {
			mag = mag1
		}
		if raw[5] != 0 {
			durUs = 1000000 * uint32(raw[5]) * uint32(mag) / uint32(freq)
		} else {
			durUs = 1000000 / uint32(freq)
		}
	}

	fb.State = 1
	m.fbStopTimerStart(fb.WiredID, time.Duration(durUs)*time.Microsecond)
}
