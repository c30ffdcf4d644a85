// Package sliceops holds small byte-slice helpers shared across the stack,
// mostly for flipping addresses between wire order and display order.
package sliceops

// SwapBuf returns a reversed copy of in.
func SwapBuf(in []byte) []byte {
	a := make([]byte, 0, len(in))
	a = append(a, in...)
	Swap(a)
	return a
}

// Swap reverses b in place.
func Swap(b []byte) {
	for i := len(b)/2 - 1; i >= 0; i-- {
		opp := len(b) - 1 - i
		b[i], b[opp] = b[opp], b[i]
	}
}
