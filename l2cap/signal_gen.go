package l2cap

import (
	"bytes"
	"encoding/binary"
)

// SignalCommandReject is the code of Command Reject signaling packet.
const SignalCommandReject = 0x01

// CommandReject implements Command Reject (0x01) [Vol 3, Part A, 4.1].
type CommandReject struct {
	Reason uint16
}

// Code returns the code of the signaling command.
func (s CommandReject) Code() int { return 0x01 }

// Marshal serializes the command parameters into binary form.
func (s *CommandReject) Marshal() []byte {
	buf := bytes.NewBuffer(make([]byte, 0))
	binary.Write(buf, binary.LittleEndian, s)
	return buf.Bytes()
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *CommandReject) Unmarshal(b []byte) error {
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, s)
}

// SignalConnectionRequest is the code of Connection Request signaling packet.
const SignalConnectionRequest = 0x02

// ConnectionRequest implements Connection Request (0x02) [Vol 3, Part A, 4.2].
type ConnectionRequest struct {
	PSM       uint16
	SourceCID uint16
}

// Code returns the code of the signaling command.
func (s ConnectionRequest) Code() int { return 0x02 }

// Marshal serializes the command parameters into binary form.
func (s *ConnectionRequest) Marshal() []byte {
	buf := bytes.NewBuffer(make([]byte, 0))
	binary.Write(buf, binary.LittleEndian, s)
	return buf.Bytes()
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConnectionRequest) Unmarshal(b []byte) error {
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, s)
}

// SignalConnectionResponse is the code of Connection Response signaling packet.
const SignalConnectionResponse = 0x03

// Connection response results [Vol 3, Part A, 4.3].
const (
	ConnResultSuccess = 0x0000
	ConnResultPending = 0x0001
)

// ConnectionResponse implements Connection Response (0x03) [Vol 3, Part A, 4.3].
type ConnectionResponse struct {
	DestinationCID uint16
	SourceCID      uint16
	Result         uint16
	Status         uint16
}

// Code returns the code of the signaling command.
func (s ConnectionResponse) Code() int { return 0x03 }

// Marshal serializes the command parameters into binary form.
func (s *ConnectionResponse) Marshal() []byte {
	buf := bytes.NewBuffer(make([]byte, 0))
	binary.Write(buf, binary.LittleEndian, s)
	return buf.Bytes()
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConnectionResponse) Unmarshal(b []byte) error {
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, s)
}

// SignalConfigurationRequest is the code of Configuration Request signaling packet.
const SignalConfigurationRequest = 0x04

// ConfigurationRequest implements Configuration Request (0x04) [Vol 3, Part A, 4.4].
type ConfigurationRequest struct {
	DestinationCID uint16
	Flags          uint16
	Options        []byte
}

// Code returns the code of the signaling command.
func (s ConfigurationRequest) Code() int { return 0x04 }

// Marshal serializes the command parameters into binary form.
func (s *ConfigurationRequest) Marshal() []byte {
	buf := bytes.NewBuffer(make([]byte, 0))
	binary.Write(buf, binary.LittleEndian, s.DestinationCID)
	binary.Write(buf, binary.LittleEndian, s.Flags)
	buf.Write(s.Options)
	return buf.Bytes()
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConfigurationRequest) Unmarshal(b []byte) error {
	buf := bytes.NewBuffer(b)
	if err := binary.Read(buf, binary.LittleEndian, &s.DestinationCID); err != nil {
		return err
	}
	if err := binary.Read(buf, binary.LittleEndian, &s.Flags); err != nil {
		return err
	}
	s.Options = append([]byte(nil), buf.Bytes()...)
	return nil
}

// SignalConfigurationResponse is the code of Configuration Response signaling packet.
const SignalConfigurationResponse = 0x05

// Configuration response results [Vol 3, Part A, 4.5].
const (
	ConfigResultSuccess      = 0x0000
	ConfigResultUnacceptable = 0x0001
)

// ConfigurationResponse implements Configuration Response (0x05) [Vol 3, Part A, 4.5].
type ConfigurationResponse struct {
	SourceCID uint16
	Flags     uint16
	Result    uint16
	Options   []byte
}

// Code returns the code of the signaling command.
func (s ConfigurationResponse) Code() int { return 0x05 }

// Marshal serializes the command parameters into binary form.
func (s *ConfigurationResponse) Marshal() []byte {
	buf := bytes.NewBuffer(make([]byte, 0))
	binary.Write(buf, binary.LittleEndian, s.SourceCID)
	binary.Write(buf, binary.LittleEndian, s.Flags)
	binary.Write(buf, binary.LittleEndian, s.Result)
	buf.Write(s.Options)
	return buf.Bytes()
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *ConfigurationResponse) Unmarshal(b []byte) error {
	buf := bytes.NewBuffer(b)
	if err := binary.Read(buf, binary.LittleEndian, &s.SourceCID); err != nil {
		return err
	}
	if err := binary.Read(buf, binary.LittleEndian, &s.Flags); err != nil {
		return err
	}
	if err := binary.Read(buf, binary.LittleEndian, &s.Result); err != nil {
		return err
	}
	s.Options = append([]byte(nil), buf.Bytes()...)
	return nil
}

// SignalDisconnectionRequest is the code of Disconnection Request signaling packet.
const SignalDisconnectionRequest = 0x06

// DisconnectionRequest implements Disconnection Request (0x06) [Vol 3, Part A, 4.6].
type DisconnectionRequest struct {
	DestinationCID uint16
	SourceCID      uint16
}

// Code returns the code of the signaling command.
func (s DisconnectionRequest) Code() int { return 0x06 }

// Marshal serializes the command parameters into binary form.
func (s *DisconnectionRequest) Marshal() []byte {
	buf := bytes.NewBuffer(make([]byte, 0))
	binary.Write(buf, binary.LittleEndian, s)
	return buf.Bytes()
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *DisconnectionRequest) Unmarshal(b []byte) error {
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, s)
}

// SignalDisconnectionResponse is the code of Disconnection Response signaling packet.
const SignalDisconnectionResponse = 0x07

// DisconnectionResponse implements Disconnection Response (0x07) [Vol 3, Part A, 4.7].
type DisconnectionResponse struct {
	DestinationCID uint16
	SourceCID      uint16
}

// Code returns the code of the signaling command.
func (s DisconnectionResponse) Code() int { return 0x07 }

// Marshal serializes the command parameters into binary form.
func (s *DisconnectionResponse) Marshal() []byte {
	buf := bytes.NewBuffer(make([]byte, 0))
	binary.Write(buf, binary.LittleEndian, s)
	return buf.Bytes()
}

// Unmarshal de-serializes the binary data and stores the result in the receiver.
func (s *DisconnectionResponse) Unmarshal(b []byte) error {
	return binary.Read(bytes.NewBuffer(b), binary.LittleEndian, s)
}
