package h4

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openretro/bridge"
)

func newTestAssembler(t *testing.T) (*assembler, chan []byte) {
	out := make(chan []byte, 8)
	done := make(chan struct{})
	t.Cleanup(func() { close(done) })
	log := bridge.GetLogger().ChildLogger(map[string]interface{}{"test": true})
	return newAssembler(out, done, log), out
}

func pop(t *testing.T, out chan []byte) []byte {
	t.Helper()
	select {
	case f := <-out:
		return f
	default:
		t.Fatal("expected an assembled frame")
		return nil
	}
}

func TestAssembleWholeEvent(t *testing.T) {
	asm, out := newTestAssembler(t)

	frame := []byte{eventPacket, 0x0E, 0x03, 0x01, 0x03, 0x0C}
	asm.feed(frame)
	assert.Equal(t, frame, pop(t, out))
	assert.Empty(t, asm.buf)
}

func TestAssembleSplitEvent(t *testing.T) {
	asm, out := newTestAssembler(t)

	frame := []byte{eventPacket, 0x0E, 0x04, 0x01, 0x03, 0x0C, 0x00}
	for _, b := range frame[:len(frame)-1] {
		asm.feed([]byte{b})
		assert.Empty(t, out)
	}
	asm.feed(frame[len(frame)-1:])
	assert.Equal(t, frame, pop(t, out))
}

func TestAssembleACLLength(t *testing.T) {
	asm, out := newTestAssembler(t)

	payload := make([]byte, 0x0104)
	frame := append([]byte{aclPacket, 0x0B, 0x20, 0x04, 0x01}, payload...)
	asm.feed(frame[:3]) // header split inside the length field
	assert.Empty(t, out)
	asm.feed(frame[3:])
	assert.Equal(t, frame, pop(t, out))
}

func TestAssembleBackToBackFrames(t *testing.T) {
	asm, out := newTestAssembler(t)

	f1 := []byte{eventPacket, 0x13, 0x02, 0xAA, 0xBB}
	f2 := []byte{aclPacket, 0x0B, 0x00, 0x01, 0x00, 0xCC}
	asm.feed(append(append([]byte{}, f1...), f2...))
	assert.Equal(t, f1, pop(t, out))
	assert.Equal(t, f2, pop(t, out))
}

func TestAssembleSkipsGarbage(t *testing.T) {
	asm, out := newTestAssembler(t)

	frame := []byte{eventPacket, 0x0E, 0x01, 0x00}
	asm.feed(append([]byte{0x00, 0xFF, 0x4F}, frame...))
	assert.Equal(t, frame, pop(t, out))

	// chunk with no start byte at all is dropped
	asm.feed([]byte{0x00, 0x00, 0x00})
	assert.Empty(t, out)
	assert.Empty(t, asm.buf)
}

func TestAssembleUnblocksOnDone(t *testing.T) {
	out := make(chan []byte) // no capacity: delivery must block
	done := make(chan struct{})
	log := bridge.GetLogger().ChildLogger(map[string]interface{}{"test": true})
	asm := newAssembler(out, done, log)

	fed := make(chan struct{})
	go func() {
		asm.feed([]byte{eventPacket, 0x0E, 0x01, 0x00})
		close(fed)
	}()

	select {
	case <-fed:
		t.Fatal("feed returned with no receiver")
	case <-time.After(20 * time.Millisecond):
	}

	close(done)
	select {
	case <-fed:
	case <-time.After(time.Second):
		t.Fatal("feed still blocked after close")
	}
	assert.Empty(t, asm.buf)
}

func TestAssembleStaleFrameDropped(t *testing.T) {
	asm, out := newTestAssembler(t)

	asm.feed([]byte{eventPacket, 0x0E, 0x10, 0x01})
	require.Empty(t, out)

	asm.deadline = time.Now().Add(-time.Millisecond)
	frame := []byte{eventPacket, 0x13, 0x01, 0x00}
	asm.feed(frame)
	assert.Equal(t, frame, pop(t, out))
}
