package cmd

// Disconnect implements Disconnect (0x01|0x0006) [Vol 2, Part E, 7.1.6].
type Disconnect struct {
	ConnectionHandle uint16
	Reason           uint8
}

// OpCode returns the opcode of the command.
func (c Disconnect) OpCode() int { return 0x01<<10 | 0x0006 }

// Len returns the length of the command parameters.
func (c Disconnect) Len() int { return 3 }

// Marshal serializes the command parameters into binary form.
func (c Disconnect) Marshal(b []byte) error { return marshal(c, b) }

// AcceptConnectionRequest implements Accept Connection Request (0x01|0x0009) [Vol 2, Part E, 7.1.8].
type AcceptConnectionRequest struct {
	BDADDR [6]byte
	Role   uint8
}

// OpCode returns the opcode of the command.
func (c AcceptConnectionRequest) OpCode() int { return 0x01<<10 | 0x0009 }

// Len returns the length of the command parameters.
func (c AcceptConnectionRequest) Len() int { return 7 }

// Marshal serializes the command parameters into binary form.
func (c AcceptConnectionRequest) Marshal(b []byte) error { return marshal(c, b) }

// LinkKeyRequestReply implements Link Key Request Reply (0x01|0x000B) [Vol 2, Part E, 7.1.10].
type LinkKeyRequestReply struct {
	BDADDR  [6]byte
	LinkKey [16]byte
}

// OpCode returns the opcode of the command.
func (c LinkKeyRequestReply) OpCode() int { return 0x01<<10 | 0x000B }

// Len returns the length of the command parameters.
func (c LinkKeyRequestReply) Len() int { return 22 }

// Marshal serializes the command parameters into binary form.
func (c LinkKeyRequestReply) Marshal(b []byte) error { return marshal(c, b) }

// LinkKeyRequestReplyRP returns the status and address of the reply.
type LinkKeyRequestReplyRP struct {
	Status uint8
	BDADDR [6]byte
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (c *LinkKeyRequestReplyRP) Unmarshal(b []byte) error { return unmarshal(c, b) }

// LinkKeyRequestNegativeReply implements Link Key Request Negative Reply (0x01|0x000C) [Vol 2, Part E, 7.1.11].
type LinkKeyRequestNegativeReply struct {
	BDADDR [6]byte
}

// OpCode returns the opcode of the command.
func (c LinkKeyRequestNegativeReply) OpCode() int { return 0x01<<10 | 0x000C }

// Len returns the length of the command parameters.
func (c LinkKeyRequestNegativeReply) Len() int { return 6 }

// Marshal serializes the command parameters into binary form.
func (c LinkKeyRequestNegativeReply) Marshal(b []byte) error { return marshal(c, b) }

// PINCodeRequestReply implements PIN Code Request Reply (0x01|0x000D) [Vol 2, Part E, 7.1.12].
type PINCodeRequestReply struct {
	BDADDR        [6]byte
	PINCodeLength uint8
	PINCode       [16]byte
}

// OpCode returns the opcode of the command.
func (c PINCodeRequestReply) OpCode() int { return 0x01<<10 | 0x000D }

// Len returns the length of the command parameters.
func (c PINCodeRequestReply) Len() int { return 23 }

// Marshal serializes the command parameters into binary form.
func (c PINCodeRequestReply) Marshal(b []byte) error { return marshal(c, b) }

// AuthenticationRequested implements Authentication Requested (0x01|0x0011) [Vol 2, Part E, 7.1.15].
type AuthenticationRequested struct {
	ConnectionHandle uint16
}

// OpCode returns the opcode of the command.
func (c AuthenticationRequested) OpCode() int { return 0x01<<10 | 0x0011 }

// Len returns the length of the command parameters.
func (c AuthenticationRequested) Len() int { return 2 }

// Marshal serializes the command parameters into binary form.
func (c AuthenticationRequested) Marshal(b []byte) error { return marshal(c, b) }

// SetConnectionEncryption implements Set Connection Encryption (0x01|0x0013) [Vol 2, Part E, 7.1.16].
type SetConnectionEncryption struct {
	ConnectionHandle uint16
	EncryptionEnable uint8
}

// OpCode returns the opcode of the command.
func (c SetConnectionEncryption) OpCode() int { return 0x01<<10 | 0x0013 }

// Len returns the length of the command parameters.
func (c SetConnectionEncryption) Len() int { return 3 }

// Marshal serializes the command parameters into binary form.
func (c SetConnectionEncryption) Marshal(b []byte) error { return marshal(c, b) }

// RemoteNameRequest implements Remote Name Request (0x01|0x0019) [Vol 2, Part E, 7.1.19].
type RemoteNameRequest struct {
	BDADDR                 [6]byte
	PageScanRepetitionMode uint8
	Reserved               uint8
	ClockOffset            uint16
}

// OpCode returns the opcode of the command.
func (c RemoteNameRequest) OpCode() int { return 0x01<<10 | 0x0019 }

// Len returns the length of the command parameters.
func (c RemoteNameRequest) Len() int { return 10 }

// Marshal serializes the command parameters into binary form.
func (c RemoteNameRequest) Marshal(b []byte) error { return marshal(c, b) }

// IOCapabilityRequestReply implements IO Capability Request Reply (0x01|0x002B) [Vol 2, Part E, 7.1.29].
type IOCapabilityRequestReply struct {
	BDADDR                     [6]byte
	IOCapability               uint8
	OOBDataPresent             uint8
	AuthenticationRequirements uint8
}

// OpCode returns the opcode of the command.
func (c IOCapabilityRequestReply) OpCode() int { return 0x01<<10 | 0x002B }

// Len returns the length of the command parameters.
func (c IOCapabilityRequestReply) Len() int { return 9 }

// Marshal serializes the command parameters into binary form.
func (c IOCapabilityRequestReply) Marshal(b []byte) error { return marshal(c, b) }

// UserConfirmationRequestReply implements User Confirmation Request Reply (0x01|0x002C) [Vol 2, Part E, 7.1.30].
type UserConfirmationRequestReply struct {
	BDADDR [6]byte
}

// OpCode returns the opcode of the command.
func (c UserConfirmationRequestReply) OpCode() int { return 0x01<<10 | 0x002C }

// Len returns the length of the command parameters.
func (c UserConfirmationRequestReply) Len() int { return 6 }

// Marshal serializes the command parameters into binary form.
func (c UserConfirmationRequestReply) Marshal(b []byte) error { return marshal(c, b) }

// WriteDefaultLinkPolicySettings implements Write Default Link Policy Settings (0x02|0x000F) [Vol 2, Part E, 7.2.12].
type WriteDefaultLinkPolicySettings struct {
	DefaultLinkPolicySettings uint16
}

// OpCode returns the opcode of the command.
func (c WriteDefaultLinkPolicySettings) OpCode() int { return 0x02<<10 | 0x000F }

// Len returns the length of the command parameters.
func (c WriteDefaultLinkPolicySettings) Len() int { return 2 }

// Marshal serializes the command parameters into binary form.
func (c WriteDefaultLinkPolicySettings) Marshal(b []byte) error { return marshal(c, b) }

// SetEventMask implements Set Event Mask (0x03|0x0001) [Vol 2, Part E, 7.3.1].
type SetEventMask struct {
	EventMask uint64
}

// OpCode returns the opcode of the command.
func (c SetEventMask) OpCode() int { return 0x03<<10 | 0x0001 }

// Len returns the length of the command parameters.
func (c SetEventMask) Len() int { return 8 }

// Marshal serializes the command parameters into binary form.
func (c SetEventMask) Marshal(b []byte) error { return marshal(c, b) }

// Reset implements Reset (0x03|0x0003) [Vol 2, Part E, 7.3.2].
type Reset struct{}

// OpCode returns the opcode of the command.
func (c Reset) OpCode() int { return 0x03<<10 | 0x0003 }

// Len returns the length of the command parameters.
func (c Reset) Len() int { return 0 }

// Marshal serializes the command parameters into binary form.
func (c Reset) Marshal(b []byte) error { return marshal(c, b) }

// WriteLocalName implements Write Local Name (0x03|0x0013) [Vol 2, Part E, 7.3.11].
type WriteLocalName struct {
	LocalName [248]byte
}

// OpCode returns the opcode of the command.
func (c WriteLocalName) OpCode() int { return 0x03<<10 | 0x0013 }

// Len returns the length of the command parameters.
func (c WriteLocalName) Len() int { return 248 }

// Marshal serializes the command parameters into binary form.
func (c WriteLocalName) Marshal(b []byte) error { return marshal(c, b) }

// WriteScanEnable implements Write Scan Enable (0x03|0x001A) [Vol 2, Part E, 7.3.18].
type WriteScanEnable struct {
	ScanEnable uint8
}

// OpCode returns the opcode of the command.
func (c WriteScanEnable) OpCode() int { return 0x03<<10 | 0x001A }

// Len returns the length of the command parameters.
func (c WriteScanEnable) Len() int { return 1 }

// Marshal serializes the command parameters into binary form.
func (c WriteScanEnable) Marshal(b []byte) error { return marshal(c, b) }

// WriteClassOfDevice implements Write Class of Device (0x03|0x0024) [Vol 2, Part E, 7.3.26].
type WriteClassOfDevice struct {
	ClassOfDevice [3]byte
}

// OpCode returns the opcode of the command.
func (c WriteClassOfDevice) OpCode() int { return 0x03<<10 | 0x0024 }

// Len returns the length of the command parameters.
func (c WriteClassOfDevice) Len() int { return 3 }

// Marshal serializes the command parameters into binary form.
func (c WriteClassOfDevice) Marshal(b []byte) error { return marshal(c, b) }

// WriteSimplePairingMode implements Write Simple Pairing Mode (0x03|0x0056) [Vol 2, Part E, 7.3.59].
type WriteSimplePairingMode struct {
	SimplePairingMode uint8
}

// OpCode returns the opcode of the command.
func (c WriteSimplePairingMode) OpCode() int { return 0x03<<10 | 0x0056 }

// Len returns the length of the command parameters.
func (c WriteSimplePairingMode) Len() int { return 1 }

// Marshal serializes the command parameters into binary form.
func (c WriteSimplePairingMode) Marshal(b []byte) error { return marshal(c, b) }

// ReadLocalSupportedFeatures implements Read Local Supported Features (0x04|0x0003) [Vol 2, Part E, 7.4.3].
type ReadLocalSupportedFeatures struct{}

// OpCode returns the opcode of the command.
func (c ReadLocalSupportedFeatures) OpCode() int { return 0x04<<10 | 0x0003 }

// Len returns the length of the command parameters.
func (c ReadLocalSupportedFeatures) Len() int { return 0 }

// Marshal serializes the command parameters into binary form.
func (c ReadLocalSupportedFeatures) Marshal(b []byte) error { return marshal(c, b) }

// ReadLocalSupportedFeaturesRP returns the LMP feature bits.
type ReadLocalSupportedFeaturesRP struct {
	Status      uint8
	LMPFeatures uint64
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (c *ReadLocalSupportedFeaturesRP) Unmarshal(b []byte) error { return unmarshal(c, b) }

// ReadBDADDR implements Read BD_ADDR (0x04|0x0009) [Vol 2, Part E, 7.4.6].
type ReadBDADDR struct{}

// OpCode returns the opcode of the command.
func (c ReadBDADDR) OpCode() int { return 0x04<<10 | 0x0009 }

// Len returns the length of the command parameters.
func (c ReadBDADDR) Len() int { return 0 }

// Marshal serializes the command parameters into binary form.
func (c ReadBDADDR) Marshal(b []byte) error { return marshal(c, b) }

// ReadBDADDRRP returns the controller address.
type ReadBDADDRRP struct {
	Status uint8
	BDADDR [6]byte
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (c *ReadBDADDRRP) Unmarshal(b []byte) error { return unmarshal(c, b) }
