package eeprom

import "fmt"

// Mode is the OHCI version the chip reports after reset.
type Mode int

const (
	// ModeUnknown is any flag value other than the two known ones.
	ModeUnknown Mode = iota

	// ModeOHCI10 reports OHCI 1.0.
	ModeOHCI10

	// ModeOHCI11 reports OHCI 1.1.
	ModeOHCI11
)

// Flag values stored at FlagOffset.
const (
	FlagOHCI10 = 0x00
	FlagOHCI11 = 0x08
)

// ParseMode accepts the command line spelling "1.0" or "1.1".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "1.0":
		return ModeOHCI10, nil
	case "1.1":
		return ModeOHCI11, nil
	default:
		return ModeUnknown, fmt.Errorf("invalid mode %q: must be 1.0 or 1.1", s)
	}
}

// ModeFromFlag decodes a flag byte.
func ModeFromFlag(b byte) Mode {
	switch b {
	case FlagOHCI10:
		return ModeOHCI10
	case FlagOHCI11:
		return ModeOHCI11
	default:
		return ModeUnknown
	}
}

// Flag returns the byte to store for m. ModeUnknown has no flag.
func (m Mode) Flag() (byte, bool) {
	switch m {
	case ModeOHCI10:
		return FlagOHCI10, true
	case ModeOHCI11:
		return FlagOHCI11, true
	default:
		return 0, false
	}
}

func (m Mode) String() string {
	switch m {
	case ModeOHCI10:
		return "OHCI 1.0"
	case ModeOHCI11:
		return "OHCI 1.1"
	default:
		return "unknown"
	}
}
