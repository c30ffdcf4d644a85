package sdp

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openretro/bridge"
	"github.com/openretro/bridge/adapter"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, ioutil.WriteFile(path, []byte(data), 0644))
}

func TestSearchAttributeRequest(t *testing.T) {
	b := SearchAttributeRequest(0x0001, UUIDHID, nil)

	assert.Equal(t, uint8(PDUServiceSearchAttributeRequest), b[0])
	assert.Equal(t, []byte{0x00, 0x01}, b[1:3])
	// plen covers everything after the header
	assert.Equal(t, int(b[3])<<8|int(b[4]), len(b)-5)
	// search pattern carries the HID UUID big-endian
	assert.Equal(t, []byte{0x35, 0x03, 0x19, 0x11, 0x24}, b[5:10])
	// empty continuation state
	assert.Equal(t, uint8(0), b[len(b)-1])

	cont := []byte{0xAB, 0xCD}
	b = SearchAttributeRequest(0x0002, UUIDPnP, cont)
	assert.Equal(t, []byte{0x02, 0xAB, 0xCD}, b[len(b)-3:])
}

func TestResponseAccessors(t *testing.T) {
	attrs := []byte{0x35, 0x00} // empty record sequence
	raw := []byte{PDUServiceSearchAttributeResponse, 0x00, 0x01, 0x00, 0x07,
		0x00, 0x02}
	raw = append(raw, attrs...)
	raw = append(raw, 0x02, 0x11, 0x22) // continuation

	r := Response(raw)
	got, err := r.AttributeBytes()
	require.NoError(t, err)
	assert.Equal(t, attrs, got)

	cont, err := r.Continuation()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x11, 0x22}, cont)
}

func TestResponseErrors(t *testing.T) {
	_, err := Response([]byte{PDUErrorResponse, 0, 1, 0, 2, 0, 0}).AttributeBytes()
	assert.Error(t, err)

	truncated := []byte{PDUServiceSearchAttributeResponse, 0, 1, 0, 7, 0x10, 0x00}
	_, err = Response(truncated).AttributeBytes()
	assert.Error(t, err)
}

// pnpRecord builds a PnP service record the way real controllers answer:
// DES { DES { attr/value pairs } }.
func pnpRecord(vid, pid uint16) []byte {
	rec := []byte{
		0x09, 0x02, 0x01, 0x09, uint8(vid >> 8), uint8(vid), // VendorID
		0x09, 0x02, 0x02, 0x09, uint8(pid >> 8), uint8(pid), // ProductID
	}
	inner := append([]byte{0x35, uint8(len(rec))}, rec...)
	return append([]byte{0x35, uint8(len(inner))}, inner...)
}

// hidRecord wraps a report descriptor in the HIDDescriptorList shape:
// attr 0x0206 -> DES { DES { u8 0x22, str descriptor } }.
func hidRecord(desc []byte) []byte {
	data := append([]byte{0x08, 0x22, 0x25, uint8(len(desc))}, desc...)
	descSeq := append([]byte{0x35, uint8(len(data))}, data...)
	attr := append([]byte{0x09, 0x02, 0x06, 0x35, uint8(len(descSeq))}, descSeq...)
	inner := append([]byte{0x35, uint8(len(attr))}, attr...)
	return append([]byte{0x35, uint8(len(inner))}, inner...)
}

func TestParseRecordPnP(t *testing.T) {
	rec, err := ParseRecord(pnpRecord(0x045E, 0x02FD))
	require.NoError(t, err)
	assert.Equal(t, uint16(0x045E), rec.VendorID)
	assert.Equal(t, uint16(0x02FD), rec.ProductID)
	assert.Nil(t, rec.ReportDescriptor)
}

func TestParseRecordConcatenated(t *testing.T) {
	desc := []byte{0x05, 0x01, 0x09, 0x05}
	b := append(pnpRecord(0x054C, 0x09CC), hidRecord(desc)...)

	rec, err := ParseRecord(b)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x054C), rec.VendorID)
	assert.Equal(t, desc, rec.ReportDescriptor)
}

// gamepadDescriptor is a minimal but realistic report descriptor:
// report id 1, two 8-bit axes (X/Y), a 4-bit hat, 4 bits padding,
// 8 buttons.
var gamepadDescriptor = []byte{
	0x05, 0x01, // usage page (desktop)
	0x09, 0x05, // usage (gamepad)
	0xA1, 0x01, // collection (application)
	0x85, 0x01, //   report id 1
	0x09, 0x30, //   usage X
	0x09, 0x31, //   usage Y
	0x75, 0x08, //   report size 8
	0x95, 0x02, //   report count 2
	0x81, 0x02, //   input (data,var,abs)
	0x09, 0x39, //   usage hat
	0x75, 0x04, //   report size 4
	0x95, 0x01, //   report count 1
	0x81, 0x42, //   input (data,var,abs,null)
	0x75, 0x04, //   report size 4
	0x95, 0x01,
	0x81, 0x01, //   input (const)
	0x05, 0x09, //   usage page (button)
	0x19, 0x01, //   usage min 1
	0x29, 0x08, //   usage max 8
	0x75, 0x01, //   report size 1
	0x95, 0x08, //   report count 8
	0x81, 0x02, //   input
	0xC0, // end collection
}

func TestScanReportDescriptor(t *testing.T) {
	reports := ScanReportDescriptor(gamepadDescriptor)
	require.Len(t, reports, 1)

	rep := reports[0]
	assert.Equal(t, uint8(1), rep.ID)
	assert.Equal(t, 4, rep.Len) // 16 + 4 + 4 + 8 bits
	require.Len(t, rep.Fields, 4)

	assert.Equal(t, adapter.ReportField{
		UsagePage: 0x01, Usage: 0x30, BitOffset: 0, BitSize: 8, Count: 1,
	}, rep.Fields[0])
	assert.Equal(t, adapter.ReportField{
		UsagePage: 0x01, Usage: 0x31, BitOffset: 8, BitSize: 8, Count: 1,
	}, rep.Fields[1])
	assert.Equal(t, adapter.ReportField{
		UsagePage: 0x01, Usage: 0x39, BitOffset: 16, BitSize: 4, Count: 1,
	}, rep.Fields[2])
	// buttons start after the 4 padding bits
	assert.Equal(t, adapter.ReportField{
		UsagePage: 0x09, Usage: 0x01, BitOffset: 24, BitSize: 1, Count: 8,
	}, rep.Fields[3])
}

func TestScanReportDescriptorRangeNarrowerThanCount(t *testing.T) {
	// 6 buttons padded to a byte inside one main item: the field keeps
	// the named usages, the bit cursor advances the full count
	desc := []byte{
		0x05, 0x09, // usage page (button)
		0x19, 0x01, // usage min 1
		0x29, 0x06, // usage max 6
		0x75, 0x01, // report size 1
		0x95, 0x08, // report count 8
		0x81, 0x02, // input
		0x09, 0x30, // usage X
		0x75, 0x08,
		0x95, 0x01,
		0x81, 0x02,
	}

	reports := ScanReportDescriptor(desc)
	require.Len(t, reports, 1)
	require.Len(t, reports[0].Fields, 2)
	assert.Equal(t, 6, reports[0].Fields[0].Count)
	assert.Equal(t, 8, reports[0].Fields[1].BitOffset)
}

func TestScanReportDescriptorGarbage(t *testing.T) {
	assert.Nil(t, ScanReportDescriptor(nil))
	assert.Nil(t, ScanReportDescriptor([]byte{0x85}))
	assert.Nil(t, ScanReportDescriptor([]byte{0xFE, 0x10, 0x00}))
}

func TestClassifyBuiltin(t *testing.T) {
	c := NewClassifier("", bridge.GetLogger())

	assert.Equal(t, adapter.XB1, c.Classify(0x045E, 0x02FD, ""))
	assert.Equal(t, adapter.XB1Adaptive, c.Classify(0x045E, 0x0B0A, ""))
	assert.Equal(t, adapter.XB1, c.Classify(0x045E, 0x9999, "")) // vendor fallback
	assert.Equal(t, adapter.PS4, c.Classify(0x054C, 0x09CC, ""))
	assert.Equal(t, adapter.SwitchPro, c.Classify(0x057E, 0x2009, ""))
	assert.Equal(t, adapter.Wii, c.Classify(0x057E, 0x0306, ""))
	assert.Equal(t, adapter.Wii, c.Classify(0, 0, "Nintendo RVL-CNT-01"))
	assert.Equal(t, adapter.HIDGeneric, c.Classify(0x1234, 0x5678, "Some Pad"))
}

func TestClassifyOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "devices.json")
	writeFile(t, path, `[{"vid":4660,"pid":22136,"type":"ps4"},{"vid":1,"pid":0,"type":"bogus"}]`)

	c := NewClassifier(path, bridge.GetLogger())
	assert.Equal(t, adapter.PS4, c.Classify(0x1234, 0x5678, ""))
	// unknown type names are skipped, not fatal
	assert.Equal(t, adapter.HIDGeneric, c.Classify(0x0001, 0x0001, ""))

	// missing file is fine
	c = NewClassifier(filepath.Join(dir, "nope.json"), bridge.GetLogger())
	assert.Equal(t, adapter.HIDGeneric, c.Classify(0x1234, 0x5678, ""))
}
