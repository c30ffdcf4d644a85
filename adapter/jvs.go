package adapter

import "encoding/binary"

const jvsAxesMax = 2

// JVS input bit positions in the 16-bit switch field.
const (
	jvs2 = iota
	jvs1
	jvsLDRight
	jvsLDLeft
	jvsLDDown
	jvsLDUp
	jvsService
	jvsStart
	jvs10
	jvs9
	jvs8
	jvs7
	jvs6
	jvs5
	jvs4
	jvs3
)

const jvsCoinMax = 16383

// Frame layout: {u16be coins, u16 buttons, u16be axes[2], u8 test}.
var jvsAxesIdx = [jvsAxesMax]int{
	//  LX LY
	0, 1,
}

var jvsAxesMeta = [jvsAxesMax]AxisMeta{
	{SizeMin: -32768, SizeMax: 32767, Neutral: 0x8000, AbsMax: 0x8000},
	{SizeMin: -32768, SizeMax: 32767, Neutral: 0x8000, AbsMax: 0x8000},
}

var jvsMask = [4]uint32{0xBBFF0F0F, 0x00000000, 0x00000000, 0x00000000}
var jvsDesc = [4]uint32{0x0000000F, 0x00000000, 0x00000000, 0x00000000}

var jvsBtnsMask = [32]uint16{
	0, 0, 0, 0,
	0, 0, 0, 0,
	1 << jvsLDLeft, 1 << jvsLDRight, 1 << jvsLDDown, 1 << jvsLDUp,
	0, 0, 0, 0,
	1 << jvs3, 1 << jvs2, 1 << jvs1, 1 << jvs4,
	1 << jvsStart, 0, 1 << jvsService, 0,
	1 << jvs5, 1 << jvs7, 0, 1 << jvs9,
	1 << jvs6, 1 << jvs8, 0, 1 << jvs10,
}

func jvsInitBuffer(w *WiredData) {
	binary.BigEndian.PutUint16(w.Output[0:2], 0x0000)
	binary.LittleEndian.PutUint16(w.Output[2:4], 0x0000)
	for i := 0; i < jvsAxesMax; i++ {
		binary.BigEndian.PutUint16(w.Output[4+2*jvsAxesIdx[i]:], uint16(jvsAxesMeta[i].Neutral))
	}
	w.Output[8] = 0x00
}

func jvsMetaInit(c *Ctrl) {
	*c = Ctrl{Mask: jvsMask, Desc: jvsDesc}
	for i := 0; i < jvsAxesMax; i++ {
		c.Axes[i].Meta = &jvsAxesMeta[i]
	}
}

func jvsFromGeneric(c *Ctrl, w *WiredData) {
	buttons := binary.LittleEndian.Uint16(w.Output[2:4])
	mapMask := uint16(0xFFFF)

	for i := 0; i < 32; i++ {
		if c.MapMask[0]&BIT(i) == 0 {
			continue
		}
		if c.Btns[0]&BIT(i) != 0 {
			buttons |= jvsBtnsMask[i]
			mapMask &^= jvsBtnsMask[i]
		} else if mapMask&jvsBtnsMask[i] != 0 {
			buttons &^= jvsBtnsMask[i]
		}
	}
	binary.LittleEndian.PutUint16(w.Output[2:4], buttons)

	// Coin counter: counts the release edge of the select input, debounced
	// through the waiting-for-release flag, saturating at the JVS maximum.
	if c.MapMask[0]&BIT(PadMS) != 0 {
		if c.Btns[0]&BIT(PadMS) != 0 {
			if !w.waitingForRelease() {
				w.setWaitingForRelease(true)
			}
		} else if w.waitingForRelease() {
			w.setWaitingForRelease(false)
			coins := binary.BigEndian.Uint16(w.Output[0:2])
			if coins < jvsCoinMax {
				coins++
				binary.BigEndian.PutUint16(w.Output[0:2], coins)
			}
		}
	}

	if c.MapMask[0]&BIT(PadMQ) != 0 {
		if c.Btns[0]&BIT(PadMQ) != 0 {
			w.Output[8] |= 0x80
		} else {
			w.Output[8] &^= 0x80
		}
	}

	for i := 0; i < jvsAxesMax; i++ {
		if c.MapMask[0]&(AxisToBtnMask(i)&jvsDesc[0]) == 0 {
			continue
		}
		meta := c.Axes[i].Meta
		off := 4 + 2*jvsAxesIdx[i]
		switch {
		case c.Axes[i].Value > meta.SizeMax:
			binary.BigEndian.PutUint16(w.Output[off:], 0x7FFF)
		case c.Axes[i].Value < meta.SizeMin:
			binary.BigEndian.PutUint16(w.Output[off:], 0x8000)
		default:
			binary.BigEndian.PutUint16(w.Output[off:], uint16(c.Axes[i].Value+meta.Neutral))
		}
	}
}

// jvsFbToGeneric: JVS I/O boards have no rumble path; frames only name the
// port so the state machine can settle back to off.
func jvsFbToGeneric(m *Manager, raw []byte, fb *Fb) {
	fb.WiredID = raw[0]
	fb.State = 0
	m.fbStopTimerStop(fb.WiredID)
}
