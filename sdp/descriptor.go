package sdp

import "github.com/openretro/bridge/adapter"

// HID report descriptor item prefixes, short form.
const (
	itemTypeMain   = 0
	itemTypeGlobal = 1
	itemTypeLocal  = 2

	mainInput         = 8
	mainOutput        = 9
	mainCollection    = 10
	mainFeature       = 11
	mainEndCollection = 12

	globalUsagePage   = 0
	globalReportSize  = 7
	globalReportID    = 8
	globalReportCount = 9

	localUsage    = 0
	localUsageMin = 1
	localUsageMax = 2
)

const inputConst = 0x01

// ScanReportDescriptor walks a HID report descriptor and builds the input
// report table the generic adapter decodes with. The scan understands the
// subset gamepads use: short items, one usage per axis, usage ranges for
// buttons. Anything else just consumes bits.
func ScanReportDescriptor(desc []byte) []adapter.Report {
	type reportState struct {
		report adapter.Report
		bits   int
	}

	var order []uint8
	states := map[uint8]*reportState{}
	get := func(id uint8) *reportState {
		if s, ok := states[id]; ok {
			return s
		}
		s := &reportState{report: adapter.Report{ID: id}}
		states[id] = s
		order = append(order, id)
		return s
	}

	var usagePage uint16
	var reportSize, reportCount int
	var reportID uint8

	var usages []uint16
	var usageMin, usageMax uint16
	var haveRange bool

	clearLocals := func() {
		usages = usages[:0]
		usageMin, usageMax = 0, 0
		haveRange = false
	}

	for i := 0; i < len(desc); {
		prefix := desc[i]
		if prefix == 0xFE { // long item: skip
			if i+2 >= len(desc) {
				break
			}
			i += 3 + int(desc[i+1])
			continue
		}

		size := int(prefix & 0x03)
		if size == 3 {
			size = 4
		}
		typ := int(prefix>>2) & 0x03
		tag := int(prefix >> 4)
		if i+1+size > len(desc) {
			break
		}

		var data uint32
		for j := 0; j < size; j++ {
			data |= uint32(desc[i+1+j]) << uint(8*j)
		}
		i += 1 + size

		switch typ {
		case itemTypeGlobal:
			switch tag {
			case globalUsagePage:
				usagePage = uint16(data)
			case globalReportSize:
				reportSize = int(data)
			case globalReportID:
				reportID = uint8(data)
			case globalReportCount:
				reportCount = int(data)
			}

		case itemTypeLocal:
			switch tag {
			case localUsage:
				usages = append(usages, uint16(data))
			case localUsageMin:
				usageMin = uint16(data)
			case localUsageMax:
				usageMax = uint16(data)
				haveRange = true
			}

		case itemTypeMain:
			switch tag {
			case mainInput:
				s := get(reportID)
				if data&inputConst != 0 {
					// padding
					s.bits += reportSize * reportCount
				} else if haveRange {
					// the range can name fewer usages than the count;
					// the rest is padding
					count := reportCount
					if r := int(usageMax-usageMin) + 1; r < count {
						count = r
					}
					s.report.Fields = append(s.report.Fields, adapter.ReportField{
						UsagePage: usagePage,
						Usage:     usageMin,
						BitOffset: s.bits,
						BitSize:   reportSize,
						Count:     count,
					})
					s.bits += reportSize * reportCount
				} else if len(usages) > 0 {
					for n := 0; n < reportCount; n++ {
						usage := usages[len(usages)-1]
						if n < len(usages) {
							usage = usages[n]
						}
						s.report.Fields = append(s.report.Fields, adapter.ReportField{
							UsagePage: usagePage,
							Usage:     usage,
							BitOffset: s.bits,
							BitSize:   reportSize,
							Count:     1,
						})
						s.bits += reportSize
					}
				} else {
					s.bits += reportSize * reportCount
				}
				clearLocals()
			case mainOutput, mainFeature:
				clearLocals()
			case mainCollection, mainEndCollection:
				clearLocals()
			}
		}
	}

	var out []adapter.Report
	for _, id := range order {
		s := states[id]
		if len(s.report.Fields) == 0 {
			continue
		}
		s.report.Len = (s.bits + 7) / 8
		out = append(out, s.report)
		if len(out) == adapter.ReportMax {
			break
		}
	}
	return out
}
