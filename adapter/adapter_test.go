package adapter

import (
	"encoding/binary"
	"math/rand"
	"testing"
)

// xb1Report builds a report 0x01 input buffer.
func xb1Report(axes [6]uint16, hat uint8, buttons uint32, extra uint8) []byte {
	b := make([]byte, 33)
	for i, v := range axes {
		binary.LittleEndian.PutUint16(b[2*i:], v)
	}
	b[xb1HatOff] = hat
	binary.LittleEndian.PutUint32(b[xb1ButtonsOff:], buttons)
	b[xb1ExtraOff] = extra
	return b
}

var xb1Centered = [6]uint16{0x8000, 0x8000, 0x8000, 0x8000, 0x0000, 0x0000}

func feedXB1(t *testing.T, m *Manager, d *Data, raw []byte) {
	t.Helper()
	d.ReportID = 0x01
	copy(d.Input[:], raw)
	d.InputLen = len(raw)
	if err := m.Bridge(d); err != nil {
		t.Fatalf("bridge: %v", err)
	}
	d.ReportCnt++
}

func newDCManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(Dreamcast, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestHatTable(t *testing.T) {
	want := map[uint8]uint32{
		0x00: 0,
		0x01: BIT(PadLDUp),
		0x02: BIT(PadLDUp) | BIT(PadLDRight),
		0x03: BIT(PadLDRight),
		0x04: BIT(PadLDRight) | BIT(PadLDDown),
		0x05: BIT(PadLDDown),
		0x06: BIT(PadLDDown) | BIT(PadLDLeft),
		0x07: BIT(PadLDLeft),
		0x08: BIT(PadLDLeft) | BIT(PadLDUp),
		0x0F: 0,
	}
	for hat, bits := range want {
		if got := HatToBtns(hat); got != bits {
			t.Errorf("hat %#x: got %#x want %#x", hat, got, bits)
		}
	}
}

func TestXB1HatNorth(t *testing.T) {
	var d Data
	d.DevType = XB1
	d.ReportID = 0x01
	copy(d.Input[:], xb1Report(xb1Centered, 0x01, 0, 0))

	var c Ctrl
	xb1ToGeneric(&d, &c)

	if c.Btns[0]&BIT(PadLDUp) == 0 {
		t.Fatal("LD up not set for hat north")
	}
	dpad := BIT(PadLDLeft) | BIT(PadLDRight) | BIT(PadLDDown)
	if c.Btns[0]&dpad != 0 {
		t.Fatalf("unexpected d-pad bits: %#x", c.Btns[0])
	}
}

func TestDCXB1APress(t *testing.T) {
	m := newDCManager(t)
	d := &Data{DevType: XB1}

	feedXB1(t, m, d, xb1Report(xb1Centered, 0x0F, 1<<xb1A, 0))

	var out [16]byte
	m.Output(0, out[:])

	buttons := binary.LittleEndian.Uint16(out[2:4])
	if want := uint16(0xFFFF &^ (1 << dcA)); buttons != want {
		t.Fatalf("buttons: got %04x want %04x", buttons, want)
	}
	for _, i := range []int{4, 5, 6, 7} {
		if out[i] != 0x80 {
			t.Errorf("stick byte %d: got %02x want 80", i, out[i])
		}
	}
	for _, i := range []int{0, 1} {
		if out[i] != 0x00 {
			t.Errorf("trigger byte %d: got %02x want 00", i, out[i])
		}
	}
}

func TestDCXB1FullLeft(t *testing.T) {
	m := newDCManager(t)
	d := &Data{DevType: XB1}

	// first report captures calibration at centre
	feedXB1(t, m, d, xb1Report(xb1Centered, 0x0F, 0, 0))

	axes := xb1Centered
	axes[0] = 0x0000
	feedXB1(t, m, d, xb1Report(axes, 0x0F, 0, 0))

	var out [16]byte
	m.Output(0, out[:])
	if got := out[dcAxesIdx[AxisLX]]; got != 0x00 {
		t.Fatalf("LX: got %02x want 00", got)
	}
}

func TestDCPolarityAllReleased(t *testing.T) {
	m := newDCManager(t)
	d := &Data{DevType: XB1}
	feedXB1(t, m, d, xb1Report(xb1Centered, 0x0F, 0, 0))

	var out [16]byte
	m.Output(0, out[:])
	if buttons := binary.LittleEndian.Uint16(out[2:4]); buttons != 0xFFFF {
		t.Fatalf("active-low idle buttons: got %04x want ffff", buttons)
	}
}

func TestJVSPolarityAllReleased(t *testing.T) {
	m, err := NewManager(JVS, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	d := &Data{DevType: XB1}
	feedXB1(t, m, d, xb1Report(xb1Centered, 0x0F, 0, 0))

	var out [16]byte
	m.Output(0, out[:])
	if buttons := binary.LittleEndian.Uint16(out[2:4]); buttons != 0x0000 {
		t.Fatalf("active-high idle buttons: got %04x want 0000", buttons)
	}
}

func TestAxisClamp(t *testing.T) {
	// an off-centre first report biases the calibration so that a later
	// full-scale deflection lands outside the target range
	t.Run("overshoot", func(t *testing.T) {
		m := newDCManager(t)
		d := &Data{DevType: XB1}

		axes := xb1Centered
		axes[0] = 0x7000
		feedXB1(t, m, d, xb1Report(axes, 0x0F, 0, 0))

		var out [16]byte
		m.Output(0, out[:])
		if got := out[dcAxesIdx[AxisLX]]; got != 0x80 {
			t.Fatalf("calibrated neutral: got %02x want 80", got)
		}

		axes[0] = 0xFFFF
		feedXB1(t, m, d, xb1Report(axes, 0x0F, 0, 0))
		m.Output(0, out[:])
		if got := out[dcAxesIdx[AxisLX]]; got != 255 {
			t.Fatalf("overshoot clamp: got %02x want ff", got)
		}
	})

	t.Run("undershoot", func(t *testing.T) {
		m := newDCManager(t)
		d := &Data{DevType: XB1}

		axes := xb1Centered
		axes[0] = 0x9000
		feedXB1(t, m, d, xb1Report(axes, 0x0F, 0, 0))

		axes[0] = 0x0000
		feedXB1(t, m, d, xb1Report(axes, 0x0F, 0, 0))
		var out [16]byte
		m.Output(0, out[:])
		if got := out[dcAxesIdx[AxisLX]]; got != 0 {
			t.Fatalf("undershoot clamp: got %02x want 00", got)
		}
	})
}

func TestJVSAxisClamp(t *testing.T) {
	// off-centre first reports bias the calibration; full deflection then
	// lands outside the 16-bit target range and must clamp to the
	// two's-complement rails
	t.Run("overshoot", func(t *testing.T) {
		m, err := NewManager(JVS, testLogger())
		if err != nil {
			t.Fatal(err)
		}
		d := &Data{DevType: XB1}

		axes := xb1Centered
		axes[0] = 0x7000
		feedXB1(t, m, d, xb1Report(axes, 0x0F, 0, 0))

		axes[0] = 0xFFFF
		feedXB1(t, m, d, xb1Report(axes, 0x0F, 0, 0))

		var out [16]byte
		m.Output(0, out[:])
		if got := binary.BigEndian.Uint16(out[4:6]); got != 0x7FFF {
			t.Fatalf("overshoot clamp: got %04x want 7fff", got)
		}
	})

	t.Run("undershoot", func(t *testing.T) {
		m, err := NewManager(JVS, testLogger())
		if err != nil {
			t.Fatal(err)
		}
		d := &Data{DevType: XB1}

		axes := xb1Centered
		axes[0] = 0x9000
		feedXB1(t, m, d, xb1Report(axes, 0x0F, 0, 0))

		axes[0] = 0x0000
		feedXB1(t, m, d, xb1Report(axes, 0x0F, 0, 0))

		var out [16]byte
		m.Output(0, out[:])
		if got := binary.BigEndian.Uint16(out[4:6]); got != 0x8000 {
			t.Fatalf("undershoot clamp: got %04x want 8000", got)
		}
	})
}

func TestJVSCoinIncrement(t *testing.T) {
	m, err := NewManager(JVS, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	d := &Data{DevType: XB1}

	press := xb1Report(xb1Centered, 0x0F, 1<<xb1View, 0)
	release := xb1Report(xb1Centered, 0x0F, 0, 0)

	feedXB1(t, m, d, press)
	feedXB1(t, m, d, release)

	var out [16]byte
	m.Output(0, out[:])
	if coins := binary.BigEndian.Uint16(out[0:2]); coins != 0x0001 {
		t.Fatalf("coins after one press: got %04x want 0001", coins)
	}

	// held press does not re-count
	feedXB1(t, m, d, press)
	feedXB1(t, m, d, press)
	feedXB1(t, m, d, release)
	m.Output(0, out[:])
	if coins := binary.BigEndian.Uint16(out[0:2]); coins != 0x0002 {
		t.Fatalf("coins after held press: got %04x", binary.BigEndian.Uint16(out[0:2]))
	}
}

func TestJVSCoinSaturates(t *testing.T) {
	m, err := NewManager(JVS, testLogger())
	if err != nil {
		t.Fatal(err)
	}
	d := &Data{DevType: XB1}

	press := xb1Report(xb1Centered, 0x0F, 1<<xb1View, 0)
	release := xb1Report(xb1Centered, 0x0F, 0, 0)

	for i := 0; i < 16384; i++ {
		feedXB1(t, m, d, press)
		feedXB1(t, m, d, release)
	}

	var out [16]byte
	m.Output(0, out[:])
	if coins := binary.BigEndian.Uint16(out[0:2]); coins != 0x3FFF {
		t.Fatalf("saturated coins: got %04x want 3fff", coins)
	}
}

// TestRoundTripXB1DC drives random reports through the full matrix and
// checks that the wired button state matches the logical state for every
// button both sides support.
func TestRoundTripXB1DC(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	m := newDCManager(t)
	d := &Data{DevType: XB1}
	feedXB1(t, m, d, xb1Report(xb1Centered, 0x0F, 0, 0))

	for iter := 0; iter < 500; iter++ {
		buttons := rnd.Uint32()
		hat := uint8(rnd.Intn(16))
		feedXB1(t, m, d, xb1Report(xb1Centered, hat, buttons, 0))

		// logical state implied by the raw report
		var logical uint32
		for i := 0; i < 32; i++ {
			if buttons&xb1BtnsMask[i] != 0 {
				logical |= BIT(i)
			}
		}
		logical |= HatToBtns(hat)

		var out [16]byte
		m.Output(0, out[:])
		wire := binary.LittleEndian.Uint16(out[2:4])

		both := xb1Mask[0] & dcMask[0]
		for i := 0; i < 32; i++ {
			if both&BIT(i) == 0 || dcBtnsMask[i] == 0 {
				continue
			}
			pressedOut := wire&dcBtnsMask[i] == 0 // active low
			pressedIn := logical&BIT(i) != 0
			if pressedOut != pressedIn {
				t.Fatalf("iter %d btn %d: wire %v logical %v (buttons %08x hat %x)",
					iter, i, pressedOut, pressedIn, buttons, hat)
			}
		}
	}
}
