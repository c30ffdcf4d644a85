// Package sdp implements the minimal SDP client the bridge needs: a
// ServiceSearchAttribute transaction against a freshly connected device,
// a data element walker to pull VID/PID and the HID descriptor out of the
// records, and the device classification built on them.
package sdp

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// SDP PDU ids [Vol 3, Part B, 4.2].
const (
	PDUErrorResponse                  = 0x01
	PDUServiceSearchAttributeRequest  = 0x06
	PDUServiceSearchAttributeResponse = 0x07
)

// Service class UUIDs and the attribute ids the bridge asks for.
const (
	UUIDHID = 0x1124
	UUIDPnP = 0x1200

	AttrVendorID         = 0x0201
	AttrProductID        = 0x0202
	AttrHIDDescriptorLst = 0x0206
)

// maxAttrByteCount caps one response; larger records continue.
const maxAttrByteCount = 0x00F8

// SearchAttributeRequest builds a ServiceSearchAttributeRequest PDU for
// one service class, asking for the full attribute range. cont is the
// continuation state from the previous response, empty on the first
// request.
func SearchAttributeRequest(txn uint16, uuid uint16, cont []byte) []byte {
	params := make([]byte, 0, 16+len(cont))

	// service search pattern: DES { UUID16 }
	params = append(params, 0x35, 0x03, 0x19, uint8(uuid>>8), uint8(uuid))
	// maximum attribute byte count
	params = append(params, uint8(maxAttrByteCount>>8), uint8(maxAttrByteCount))
	// attribute id list: DES { u32 range 0x0000-0xFFFF }
	params = append(params, 0x35, 0x05, 0x0A, 0x00, 0x00, 0xFF, 0xFF)
	// continuation state
	params = append(params, uint8(len(cont)))
	params = append(params, cont...)

	b := make([]byte, 5+len(params))
	b[0] = PDUServiceSearchAttributeRequest
	binary.BigEndian.PutUint16(b[1:3], txn)
	binary.BigEndian.PutUint16(b[3:5], uint16(len(params)))
	copy(b[5:], params)
	return b
}

// Response is a raw SDP response PDU.
type Response []byte

func (r Response) PDUID() uint8 { return r[0] }
func (r Response) Txn() uint16  { return binary.BigEndian.Uint16(r[1:3]) }
func (r Response) PLen() int    { return int(binary.BigEndian.Uint16(r[3:5])) }

// AttributeBytes returns the attribute list fragment of a
// ServiceSearchAttributeResponse.
func (r Response) AttributeBytes() ([]byte, error) {
	if len(r) < 7 || r.PDUID() != PDUServiceSearchAttributeResponse {
		return nil, errors.Errorf("sdp: not an attribute response (pdu 0x%02x)", r[0])
	}
	n := int(binary.BigEndian.Uint16(r[5:7]))
	if 7+n > len(r) {
		return nil, errors.New("sdp: truncated attribute response")
	}
	return r[7 : 7+n], nil
}

// Continuation returns the continuation state of the response; empty when
// the transaction is drained.
func (r Response) Continuation() ([]byte, error) {
	attrs, err := r.AttributeBytes()
	if err != nil {
		return nil, err
	}
	rest := r[7+len(attrs):]
	if len(rest) < 1 || len(rest) < 1+int(rest[0]) {
		return nil, errors.New("sdp: truncated continuation state")
	}
	return rest[1 : 1+rest[0]], nil
}
