package hid

import "github.com/openretro/bridge/adapter"

// Write is one queued HID setup transaction: the payload and the channel
// it goes out on.
type Write struct {
	Interrupt bool
	Payload   []byte
}

// swNeutralRumble is the 8-byte neutral rumble block every Switch Pro
// output report carries.
var swNeutralRumble = []byte{0x00, 0x01, 0x40, 0x40, 0x00, 0x01, 0x40, 0x40}

// swSubcommand builds the 0x01 output report carrying one subcommand.
// Packet counters start at zero; the controller only checks that the
// nibble changes, and the first report of a fresh link always does.
func swSubcommand(counter, subcmd, arg uint8) []byte {
	out := make([]byte, 0, 13)
	out = append(out, 0x01, counter&0x0F)
	out = append(out, swNeutralRumble...)
	out = append(out, subcmd, arg)
	return DataOutput(out)
}

// SetupWrites returns the transactions to run once the interrupt channel
// opens, in order. Devices without a usable report descriptor fall back
// to boot protocol so their reports at least have a known shape.
func SetupWrites(t adapter.DevType, hasDescriptor bool) []Write {
	switch t {
	case adapter.SwitchPro:
		// The Pro Controller ignores SET_PROTOCOL. It needs rumble
		// enabled (subcommand 0x48) and the full 0x30 input report
		// mode (subcommand 0x03) before it streams sticks.
		return []Write{
			{Interrupt: true, Payload: swSubcommand(0, 0x48, 0x01)},
			{Interrupt: true, Payload: swSubcommand(1, 0x03, 0x30)},
		}

	case adapter.Wii:
		// Wiimotes predate the profile transactions. Report mode 0x30
		// (core buttons) is selected with output report 0x12.
		return []Write{
			{Interrupt: true, Payload: DataOutput([]byte{0x12, 0x00, 0x30})},
		}

	case adapter.PS4:
		// Reading the calibration feature report flips the DS4 from
		// the basic 0x01 report to the full 0x11 report.
		return []Write{
			{Payload: SetProtocol(ProtocolReport)},
			{Payload: GetReport(RptFeature, 0x02)},
		}

	case adapter.HIDGeneric:
		if !hasDescriptor {
			return []Write{
				{Payload: SetProtocol(ProtocolBoot)},
				{Payload: SetIdle(0)},
			}
		}
		return []Write{
			{Payload: SetProtocol(ProtocolReport)},
			{Payload: SetIdle(0)},
		}

	default:
		return []Write{
			{Payload: SetProtocol(ProtocolReport)},
		}
	}
}
