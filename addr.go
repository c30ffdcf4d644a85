package bridge

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/openretro/bridge/sliceops"
)

// Addr is a 48-bit Bluetooth device address in wire order
// (least significant byte first, as it appears in HCI packets).
type Addr [6]byte

// NewAddr parses a colon-separated address string ("aa:bb:cc:dd:ee:ff",
// most significant byte first) into wire order.
func NewAddr(s string) (Addr, error) {
	var a Addr
	hexStr := strings.Replace(strings.ToLower(s), ":", "", -1)

	out, err := hex.DecodeString(hexStr)
	if err != nil || len(out) != 6 {
		return a, fmt.Errorf("invalid address %q", s)
	}

	copy(a[:], sliceops.SwapBuf(out))
	return a, nil
}

// AddrFromBytes copies a wire-order address out of a packet.
func AddrFromBytes(b []byte) Addr {
	var a Addr
	copy(a[:], b)
	return a
}

func (a Addr) String() string {
	sw := sliceops.SwapBuf(a[:])
	parts := make([]string, 6)
	for i, v := range sw {
		parts[i] = fmt.Sprintf("%02x", v)
	}
	return strings.Join(parts, ":")
}

// Bytes returns the address in wire order.
func (a Addr) Bytes() []byte {
	out := make([]byte, 6)
	copy(out, a[:])
	return out
}

// IsZero reports whether the address is all zeroes.
func (a Addr) IsZero() bool {
	return a == Addr{}
}
