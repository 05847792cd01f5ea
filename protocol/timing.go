package protocol

import "time"

// TwoWireTiming holds the delays of the two-wire waveform. Shorter values
// than the defaults risk the EEPROM misreading bits.
type TwoWireTiming struct {
	// InitSettle follows the first init state (clock low, data high)
	InitSettle time.Duration `yaml:"init_settle"`

	// BusIdle follows the second init state (clock and data high)
	BusIdle time.Duration `yaml:"bus_idle"`

	// StartHold follows each of the two START states
	StartHold time.Duration `yaml:"start_hold"`

	// BitHold follows each of the three phases of a bit
	BitHold time.Duration `yaml:"bit_hold"`

	// StopHold follows each of the three STOP states
	StopHold time.Duration `yaml:"stop_hold"`

	// WriteCycle is waited after the last byte and again after STOP
	WriteCycle time.Duration `yaml:"write_cycle"`
}

// DefaultTwoWireTiming returns the delays validated against 24C01 parts.
func DefaultTwoWireTiming() TwoWireTiming {
	return TwoWireTiming{
		InitSettle: 100 * time.Microsecond,
		BusIdle:    2 * time.Millisecond,
		StartHold:  1 * time.Millisecond,
		BitHold:    100 * time.Microsecond,
		StopHold:   100 * time.Microsecond,
		WriteCycle: 2 * time.Millisecond,
	}
}

// FourWireTiming holds the delays of the four-wire waveform.
type FourWireTiming struct {
	// SelectHold follows the deselect before a session and each chip select assertion
	SelectHold time.Duration `yaml:"select_hold"`

	// BitHold follows each of the three phases of a bit
	BitHold time.Duration `yaml:"bit_hold"`

	// CommandPause follows deselection after EWEN and EWDS
	CommandPause time.Duration `yaml:"command_pause"`

	// WriteCycle follows deselection after WRITE while the part programs itself
	WriteCycle time.Duration `yaml:"write_cycle"`
}

// DefaultFourWireTiming returns the delays validated against 93C46 parts.
func DefaultFourWireTiming() FourWireTiming {
	return FourWireTiming{
		SelectHold:   10 * time.Microsecond,
		BitHold:      10 * time.Microsecond,
		CommandPause: 10 * time.Microsecond,
		WriteCycle:   1 * time.Millisecond,
	}
}
