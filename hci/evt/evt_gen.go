// Package evt provides accessor types over raw BR/EDR HCI event
// parameters. Each event is a byte slice aliased to a named type; the
// accessors decode fields in place.
package evt

// ConnectionCompleteCode is the HCI event code of Connection Complete.
const ConnectionCompleteCode = 0x03

// ConnectionComplete implements Connection Complete (0x03) [Vol 2, Part E, 7.7.3].
type ConnectionComplete []byte

// ConnectionRequestCode is the HCI event code of Connection Request.
const ConnectionRequestCode = 0x04

// ConnectionRequest implements Connection Request (0x04) [Vol 2, Part E, 7.7.4].
type ConnectionRequest []byte

// DisconnectionCompleteCode is the HCI event code of Disconnection Complete.
const DisconnectionCompleteCode = 0x05

// DisconnectionComplete implements Disconnection Complete (0x05) [Vol 2, Part E, 7.7.5].
type DisconnectionComplete []byte

// AuthenticationCompleteCode is the HCI event code of Authentication Complete.
const AuthenticationCompleteCode = 0x06

// AuthenticationComplete implements Authentication Complete (0x06) [Vol 2, Part E, 7.7.6].
type AuthenticationComplete []byte

// RemoteNameRequestCompleteCode is the HCI event code of Remote Name Request Complete.
const RemoteNameRequestCompleteCode = 0x07

// RemoteNameRequestComplete implements Remote Name Request Complete (0x07) [Vol 2, Part E, 7.7.7].
type RemoteNameRequestComplete []byte

// EncryptionChangeCode is the HCI event code of Encryption Change.
const EncryptionChangeCode = 0x08

// EncryptionChange implements Encryption Change (0x08) [Vol 2, Part E, 7.7.8].
type EncryptionChange []byte

// CommandCompleteCode is the HCI event code of Command Complete.
const CommandCompleteCode = 0x0E

// CommandComplete implements Command Complete (0x0E) [Vol 2, Part E, 7.7.14].
type CommandComplete []byte

// CommandStatusCode is the HCI event code of Command Status.
const CommandStatusCode = 0x0F

// CommandStatus implements Command Status (0x0F) [Vol 2, Part E, 7.7.15].
type CommandStatus []byte

// NumberOfCompletedPacketsCode is the HCI event code of Number Of Completed Packets.
const NumberOfCompletedPacketsCode = 0x13

// NumberOfCompletedPackets implements Number Of Completed Packets (0x13) [Vol 2, Part E, 7.7.19].
type NumberOfCompletedPackets []byte

// PINCodeRequestCode is the HCI event code of PIN Code Request.
const PINCodeRequestCode = 0x16

// PINCodeRequest implements PIN Code Request (0x16) [Vol 2, Part E, 7.7.22].
type PINCodeRequest []byte

// LinkKeyRequestCode is the HCI event code of Link Key Request.
const LinkKeyRequestCode = 0x17

// LinkKeyRequest implements Link Key Request (0x17) [Vol 2, Part E, 7.7.23].
type LinkKeyRequest []byte

// LinkKeyNotificationCode is the HCI event code of Link Key Notification.
const LinkKeyNotificationCode = 0x18

// LinkKeyNotification implements Link Key Notification (0x18) [Vol 2, Part E, 7.7.24].
type LinkKeyNotification []byte

// MaxSlotsChangeCode is the HCI event code of Max Slots Change.
const MaxSlotsChangeCode = 0x1B

// MaxSlotsChange implements Max Slots Change (0x1B) [Vol 2, Part E, 7.7.27].
type MaxSlotsChange []byte

// IOCapabilityRequestCode is the HCI event code of IO Capability Request.
const IOCapabilityRequestCode = 0x31

// IOCapabilityRequest implements IO Capability Request (0x31) [Vol 2, Part E, 7.7.40].
type IOCapabilityRequest []byte

// IOCapabilityResponseCode is the HCI event code of IO Capability Response.
const IOCapabilityResponseCode = 0x32

// IOCapabilityResponse implements IO Capability Response (0x32) [Vol 2, Part E, 7.7.41].
type IOCapabilityResponse []byte

// UserConfirmationRequestCode is the HCI event code of User Confirmation Request.
const UserConfirmationRequestCode = 0x33

// UserConfirmationRequest implements User Confirmation Request (0x33) [Vol 2, Part E, 7.7.42].
type UserConfirmationRequest []byte

// SimplePairingCompleteCode is the HCI event code of Simple Pairing Complete.
const SimplePairingCompleteCode = 0x36

// SimplePairingComplete implements Simple Pairing Complete (0x36) [Vol 2, Part E, 7.7.45].
type SimplePairingComplete []byte
