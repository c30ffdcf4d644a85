package adapter

import "sync/atomic"

// Data flags.
const (
	flagInit = 1 << iota
)

// WiredData flags.
const (
	flagWaitingForRelease = 1 << iota
)

// ReportField is one extracted item of a HID report descriptor, enough to
// drive the generic HID source adapter.
type ReportField struct {
	UsagePage uint16
	Usage     uint16
	BitOffset int
	BitSize   int
	Count     int
}

// Report is one discovered HID input report: id, payload length and the
// decoded field layout.
type Report struct {
	ID     uint8
	Len    int
	Fields []ReportField
}

// Data is the per-slot adapter state shared between the Bluetooth pipeline
// and the bridge.
type Data struct {
	DevID      int
	DevType    DevType
	ReportID   uint8
	ReportType int
	ReportCnt  uint32

	Input    [128]byte
	InputLen int

	Reports []Report

	AxesCal [MaxAxes]int32

	// Output holds the pending HID output payload (feedback), OutputID the
	// report id it belongs to.
	Output    [80]byte
	OutputLen int
	OutputID  uint8

	flags uint32
}

// Initialized reports whether the first input report has been seen and the
// axis calibration captured.
func (d *Data) Initialized() bool {
	return atomic.LoadUint32(&d.flags)&flagInit != 0
}

func (d *Data) setInitialized() {
	for {
		old := atomic.LoadUint32(&d.flags)
		if atomic.CompareAndSwapUint32(&d.flags, old, old|flagInit) {
			return
		}
	}
}

// Reset zeroes the adapter state for slot reuse.
func (d *Data) Reset() {
	*d = Data{}
}

// ReportByID looks up a discovered report in the table.
func (d *Data) ReportByID(id uint8) (int, *Report) {
	for i := range d.Reports {
		if d.Reports[i].ID == id {
			return i, &d.Reports[i]
		}
	}
	return -1, nil
}

// WiredData is the per-port wired output state: the current frame buffer and
// the feedback bookkeeping bits.
type WiredData struct {
	Output  [16]byte
	FbState uint8

	flags uint32
}

func (w *WiredData) waitingForRelease() bool {
	return atomic.LoadUint32(&w.flags)&flagWaitingForRelease != 0
}

func (w *WiredData) setWaitingForRelease(on bool) {
	for {
		old := atomic.LoadUint32(&w.flags)
		var next uint32
		if on {
			next = old | flagWaitingForRelease
		} else {
			next = old &^ flagWaitingForRelease
		}
		if atomic.CompareAndSwapUint32(&w.flags, old, next) {
			return
		}
	}
}
