// Package adapter implements the generic controller model and the
// translation matrix between Bluetooth gamepad HID reports and wired
// console frames. Every supported source device decodes into the same
// pivot snapshot (Ctrl); every wired target encodes out of it.
package adapter

// DevType classifies a connected Bluetooth device. It selects the source
// adapter used for report translation.
type DevType int

const (
	HIDGeneric DevType = iota
	XB1
	XB1Adaptive
	PS4
	SwitchPro
	Wii
)

func (t DevType) String() string {
	switch t {
	case XB1:
		return "xb1"
	case XB1Adaptive:
		return "xb1-adaptive"
	case PS4:
		return "ps4"
	case SwitchPro:
		return "switch"
	case Wii:
		return "wii"
	default:
		return "hid-generic"
	}
}

// System identifies the wired target the bridge impersonates.
type System int

const (
	Dreamcast System = iota
	JVS
)

func (s System) String() string {
	switch s {
	case Dreamcast:
		return "dc"
	case JVS:
		return "jvs"
	default:
		return "unknown"
	}
}

const (
	// MaxDevices is the number of Bluetooth device slots.
	MaxDevices = 7
	// WiredMaxDevices is the number of wired output ports.
	WiredMaxDevices = 4
	// MaxAxes is the axis count of the generic model.
	MaxAxes = 6
	// ReportMax bounds the per-device discovered HID report table.
	ReportMax = 8
)

// Axis indices of the generic model.
const (
	AxisLX = iota
	AxisLY
	AxisRX
	AxisRY
	TrigL
	TrigR
)

// Logical button namespace. Indices 0-7 are axis-direction pseudo buttons,
// the rest are physical buttons grouped by pad quadrant. Every adapter pivots
// through these positions.
const (
	PadLXLeft = iota
	PadLXRight
	PadLYDown
	PadLYUp
	PadRXLeft
	PadRXRight
	PadRYDown
	PadRYUp
	PadLDLeft
	PadLDRight
	PadLDDown
	PadLDUp
	PadRDLeft
	PadRDRight
	PadRDDown
	PadRDUp
	PadRBLeft  // X
	PadRBRight // B
	PadRBDown  // A
	PadRBUp    // Y
	PadMM // menu/start
	PadMS // select/view
	PadMT // home/guide
	PadMQ // capture/test
	PadLM // left trigger (digital)
	PadLS // left shoulder
	PadLT // left paddle
	PadLJ // left stick click
	PadRM // right trigger (digital)
	PadRS // right shoulder
	PadRT // right paddle
	PadRJ // right stick click
)

// BIT returns the logical-button bitmask for index i.
func BIT(i int) uint32 {
	return 1 << uint(i)
}

// AxisToBtnMask maps a generic axis index to its pseudo-button bits in the
// logical namespace. Sticks own a direction pair; triggers alias their
// digital buttons.
func AxisToBtnMask(axis int) uint32 {
	switch axis {
	case TrigL:
		return BIT(PadLM)
	case TrigR:
		return BIT(PadRM)
	default:
		return BIT(axis*2) | BIT(axis*2+1)
	}
}

// hatToLDBtns converts a HID hat switch to left D-pad bits. The table is
// addressed with (hat-1)&0xF so the idle encodings 0x00 and 0x0F both land
// on an all-zero entry.
var hatToLDBtns = [16]uint32{
	BIT(PadLDUp),
	BIT(PadLDUp) | BIT(PadLDRight),
	BIT(PadLDRight),
	BIT(PadLDRight) | BIT(PadLDDown),
	BIT(PadLDDown),
	BIT(PadLDDown) | BIT(PadLDLeft),
	BIT(PadLDLeft),
	BIT(PadLDLeft) | BIT(PadLDUp),
	0, 0, 0, 0, 0, 0, 0, 0,
}

// HatToBtns exposes the hat conversion for adapters and tests.
func HatToBtns(hat uint8) uint32 {
	return hatToLDBtns[(hat-1)&0xF]
}

// AxisMeta describes one axis of a device or target. The values capture the
// entire numeric behavior of the axis; adapters apply clamp, neutral add and
// byte order but no other arithmetic.
type AxisMeta struct {
	SizeMin  int32
	SizeMax  int32
	Neutral  int32
	AbsMax   int32
	Polarity bool
}

// Axis is one generic axis sample: a neutral-relative value plus its
// immutable metadata.
type Axis struct {
	Value int32
	Meta  *AxisMeta
}

// Ctrl is the generic controller snapshot, the pivot between any supported
// source and any supported target.
type Ctrl struct {
	Mask    [4]uint32 // buttons the source device supports
	Desc    [4]uint32 // axes present and orientation hints
	Btns    [4]uint32 // currently pressed logical buttons
	Axes    [MaxAxes]Axis
	MapMask [4]uint32 // logical inputs the target consumes
}

// Fb is the generic feedback record flowing target -> Bluetooth device.
type Fb struct {
	WiredID uint8
	State   uint8
	Cycles  uint32
	Start   uint32
}
