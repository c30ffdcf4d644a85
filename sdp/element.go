package sdp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Data element type descriptors [Vol 3, Part B, 3.2].
const (
	typeNil      = 0
	typeUint     = 1
	typeInt      = 2
	typeUUID     = 3
	typeString   = 4
	typeBool     = 5
	typeSequence = 6
	typeAlt      = 7
	typeURL      = 8
)

// element is one decoded data element: its type descriptor and raw value
// bytes (for sequences, the still-encoded member elements).
type element struct {
	typ   int
	value []byte
}

// uint16Val decodes an unsigned element of up to two bytes.
func (e element) uint16Val() uint16 {
	switch len(e.value) {
	case 1:
		return uint16(e.value[0])
	case 2:
		return binary.BigEndian.Uint16(e.value)
	default:
		return 0
	}
}

// readElement decodes the element at the head of b and returns it with
// the remainder of the buffer.
func readElement(b []byte) (element, []byte, error) {
	if len(b) < 1 {
		return element{}, nil, errors.New("sdp: empty element")
	}

	typ := int(b[0] >> 3)
	sizeIdx := int(b[0] & 0x07)
	b = b[1:]

	var n int
	switch sizeIdx {
	case 0:
		if typ == typeNil {
			return element{typ: typ}, b, nil
		}
		n = 1
	case 1:
		n = 2
	case 2:
		n = 4
	case 3:
		n = 8
	case 4:
		n = 16
	case 5, 6, 7:
		need := 1 << uint(sizeIdx-5) // 1, 2 or 4 length bytes
		if len(b) < need {
			return element{}, nil, errors.New("sdp: truncated element length")
		}
		switch need {
		case 1:
			n = int(b[0])
		case 2:
			n = int(binary.BigEndian.Uint16(b))
		default:
			n = int(binary.BigEndian.Uint32(b))
		}
		b = b[need:]
	}

	if len(b) < n {
		return element{}, nil, errors.New("sdp: truncated element value")
	}
	return element{typ: typ, value: b[:n]}, b[n:], nil
}

// attrVisitor receives each attribute of each service record.
type attrVisitor func(id uint16, val element)

// walkAttributeLists walks the outer sequence-of-records of a
// ServiceSearchAttributeResponse, calling fn per attribute. Records the
// walker cannot decode are skipped, not fatal; the device may still
// classify on what was read.
func walkAttributeLists(b []byte, fn attrVisitor) error {
	outer, _, err := readElement(b)
	if err != nil {
		return errors.Wrap(err, "attribute lists")
	}
	if outer.typ != typeSequence {
		return errors.Errorf("sdp: expected record sequence, got type %d", outer.typ)
	}

	records := outer.value
	for len(records) > 0 {
		var rec element
		rec, records, err = readElement(records)
		if err != nil {
			return errors.Wrap(err, "service record")
		}
		if rec.typ != typeSequence {
			continue
		}

		attrs := rec.value
		for len(attrs) > 0 {
			var id, val element
			id, attrs, err = readElement(attrs)
			if err != nil {
				break
			}
			val, attrs, err = readElement(attrs)
			if err != nil {
				break
			}
			if id.typ != typeUint {
				continue
			}
			fn(id.uint16Val(), val)
		}
	}
	return nil
}

// hidDescriptorBytes digs the report descriptor out of the
// HIDDescriptorList attribute value: DES { DES { u8 type, string data } }.
func hidDescriptorBytes(val element) []byte {
	if val.typ != typeSequence {
		return nil
	}
	inner := val.value
	for len(inner) > 0 {
		var desc element
		var err error
		desc, inner, err = readElement(inner)
		if err != nil || desc.typ != typeSequence {
			return nil
		}

		rest := desc.value
		var typ, data element
		if typ, rest, err = readElement(rest); err != nil {
			continue
		}
		if data, _, err = readElement(rest); err != nil {
			continue
		}
		// class descriptor type 0x22 = report
		if typ.typ == typeUint && typ.uint16Val() == 0x22 && data.typ == typeString {
			return data.value
		}
	}
	return nil
}

// Record is what the bridge learns about a device from SDP.
type Record struct {
	VendorID         uint16
	ProductID        uint16
	ReportDescriptor []byte
}

// ParseRecord extracts the identification attributes from accumulated
// attribute list bytes (HID and PnP responses may be concatenated).
func ParseRecord(b []byte) (Record, error) {
	var rec Record
	var firstErr error

	for len(b) > 0 {
		_, rest, err := readElement(b)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			break
		}

		err = walkAttributeLists(b[:len(b)-len(rest)], func(id uint16, val element) {
			switch id {
			case AttrVendorID:
				rec.VendorID = val.uint16Val()
			case AttrProductID:
				rec.ProductID = val.uint16Val()
			case AttrHIDDescriptorLst:
				if d := hidDescriptorBytes(val); d != nil {
					rec.ReportDescriptor = append([]byte(nil), d...)
				}
			}
		})
		if err != nil && firstErr == nil {
			firstErr = err
		}
		b = rest
	}

	return rec, firstErr
}
