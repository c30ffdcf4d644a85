package cmd

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryCommandSatisfiesCommand(t *testing.T) {
	cmds := []Command{
		Disconnect{},
		AcceptConnectionRequest{},
		LinkKeyRequestReply{},
		LinkKeyRequestNegativeReply{},
		PINCodeRequestReply{},
		AuthenticationRequested{},
		SetConnectionEncryption{},
		RemoteNameRequest{},
		IOCapabilityRequestReply{},
		UserConfirmationRequestReply{},
		WriteDefaultLinkPolicySettings{},
		SetEventMask{},
		Reset{},
		WriteLocalName{},
		WriteScanEnable{},
		WriteClassOfDevice{},
		WriteSimplePairingMode{},
		ReadLocalSupportedFeatures{},
		ReadBDADDR{},
	}
	for _, c := range cmds {
		assert.NotZero(t, c.OpCode())
		assert.GreaterOrEqual(t, c.Len(), 0)
	}
}

func TestMarshalDisconnect(t *testing.T) {
	c := Disconnect{ConnectionHandle: 0x0042, Reason: 0x13}
	require.Equal(t, 0x01<<10|0x0006, c.OpCode())
	require.Equal(t, 3, c.Len())

	b := make([]byte, c.Len())
	require.NoError(t, c.Marshal(b))
	assert.Equal(t, []byte{0x42, 0x00, 0x13}, b)
}

func TestMarshalShortBuffer(t *testing.T) {
	c := Disconnect{ConnectionHandle: 0x0042, Reason: 0x13}
	err := c.Marshal(make([]byte, 1))
	assert.Equal(t, io.ErrShortBuffer, err)
}
