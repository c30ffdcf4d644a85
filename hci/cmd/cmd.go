// Package cmd defines the BR/EDR HCI commands the bridge issues, with
// marshalling per command. Opcodes combine OGF and OCF as
// (OGF << 10) | OCF.
package cmd

import (
	"bytes"
	"encoding/binary"
	"io"
)

// Command is implemented by every HCI command in the package.
type Command interface {
	OpCode() int
	Len() int
	Marshal(b []byte) error
}

func marshal(c interface{}, b []byte) error {
	buf := bytes.NewBuffer(b)
	buf.Reset()
	if buf.Cap() < binary.Size(c) {
		return io.ErrShortBuffer
	}
	return binary.Write(buf, binary.LittleEndian, c)
}

func unmarshal(c interface{}, b []byte) error {
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, c)
}
