package adapter

import "sync"

// HID usage pages and usages the generic adapter understands.
const (
	usagePageDesktop = 0x01
	usagePageButton  = 0x09

	usageX   = 0x30
	usageY   = 0x31
	usageZ   = 0x32
	usageRX  = 0x33
	usageRY  = 0x34
	usageRZ  = 0x35
	usageHat = 0x39
)

// Buttons of an unknown report map onto the logical namespace in this order.
var hidDefaultBtns = [16]int{
	PadRBDown, PadRBRight, PadRBLeft, PadRBUp,
	PadLS, PadRS, PadLM, PadRM,
	PadMS, PadMM, PadLJ, PadRJ,
	PadMT, PadMQ, PadLT, PadRT,
}

// Desktop-page axis usages map onto generic axes.
var hidAxisForUsage = map[uint16]int{
	usageX:  AxisLX,
	usageY:  AxisLY,
	usageZ:  AxisRX,
	usageRZ: AxisRY,
	usageRX: TrigL,
	usageRY: TrigR,
}

// Axis metadata is synthesized per field from its bit size; metas are cached
// per size so Axis.Meta stays pointer-comparable.
var (
	hidAxisMetaMu     sync.Mutex
	hidAxisMetaBySize = map[int]*AxisMeta{}
)

func hidMetaForSize(bits int, polarity bool) *AxisMeta {
	key := bits
	if polarity {
		key = -bits
	}
	hidAxisMetaMu.Lock()
	defer hidAxisMetaMu.Unlock()
	if m, ok := hidAxisMetaBySize[key]; ok {
		return m
	}
	neutral := int32(1) << uint(bits-1)
	m := &AxisMeta{
		SizeMin:  -neutral,
		SizeMax:  neutral - 1,
		Neutral:  neutral,
		AbsMax:   neutral,
		Polarity: polarity,
	}
	hidAxisMetaBySize[key] = m
	return m
}

// extractBits pulls an unsigned little-endian bit field out of a report.
func extractBits(data []byte, off, size int) uint32 {
	var v uint32
	for i := 0; i < size; i++ {
		bit := off + i
		if bit/8 >= len(data) {
			break
		}
		if data[bit/8]&(1<<uint(bit%8)) != 0 {
			v |= 1 << uint(i)
		}
	}
	return v
}

// hidToGeneric decodes an input report using the field layout discovered
// from the device's HID report descriptor. Unknown devices get a
// best-effort mapping: buttons in declaration order, desktop axes by usage,
// hat converted to the D-pad.
func hidToGeneric(d *Data, c *Ctrl) {
	*c = Ctrl{}

	_, rep := d.ReportByID(d.ReportID)
	if rep == nil {
		return
	}

	btnIdx := 0
	var raw [MaxAxes]int32
	var metas [MaxAxes]*AxisMeta

	for _, f := range rep.Fields {
		switch f.UsagePage {
		case usagePageButton:
			for n := 0; n < f.Count && btnIdx < len(hidDefaultBtns); n++ {
				btn := hidDefaultBtns[btnIdx]
				btnIdx++
				c.Mask[0] |= BIT(btn)
				if extractBits(d.Input[:], f.BitOffset+n*f.BitSize, f.BitSize) != 0 {
					c.Btns[0] |= BIT(btn)
				}
			}

		case usagePageDesktop:
			if f.Usage == usageHat {
				c.Mask[0] |= BIT(PadLDLeft) | BIT(PadLDRight) | BIT(PadLDDown) | BIT(PadLDUp)
				hat := uint8(extractBits(d.Input[:], f.BitOffset, f.BitSize))
				c.Btns[0] |= HatToBtns(hat + 1)
				continue
			}
			axis, ok := hidAxisForUsage[f.Usage]
			if !ok {
				continue
			}
			// Y grows downward in HID desktop coordinates.
			metas[axis] = hidMetaForSize(f.BitSize, axis == AxisLY || axis == AxisRY)
			raw[axis] = int32(extractBits(d.Input[:], f.BitOffset, f.BitSize))
			c.Desc[0] |= AxisToBtnMask(axis)
			c.Mask[0] |= AxisToBtnMask(axis)
		}
	}

	if !d.Initialized() {
		for i := 0; i < MaxAxes; i++ {
			if metas[i] != nil {
				d.AxesCal[i] = -(raw[i] - metas[i].Neutral)
			}
		}
		d.setInitialized()
	}

	for i := 0; i < MaxAxes; i++ {
		if metas[i] == nil {
			continue
		}
		c.Axes[i].Meta = metas[i]
		c.Axes[i].Value = raw[i] - metas[i].Neutral + d.AxesCal[i]
	}
}

// hidFbFromGeneric: no vendor-neutral rumble payload exists for arbitrary
// HID devices, so generic devices get no feedback frames.
func hidFbFromGeneric(fb *Fb, d *Data) {
	d.OutputLen = 0
}
