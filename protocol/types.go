package protocol

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Port is raw 32-bit access to the chip's I/O space. Offsets are relative to
// the I/O base address.
type Port interface {
	// In32 reads the 32-bit register at offset.
	In32(offset uint16) (uint32, error)

	// Out32 writes value to the 32-bit register at offset.
	Out32(offset uint16, value uint32) error
}

// Clock provides the hold delays between line states.
type Clock interface {
	Sleep(d time.Duration)
}

// SystemClock sleeps on the wall clock.
type SystemClock struct{}

// Sleep blocks for d.
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// LineState is one complete state of the four EEPROM lines.
type LineState struct {
	// ChipSelect gates the EEPROM.
	ChipSelect gpio.Level

	// Clock is SCL on two-wire parts and SK on four-wire parts.
	Clock gpio.Level

	// Data is SDA on two-wire parts and DI on four-wire parts.
	Data gpio.Level

	// OutputEnable lets the other three lines reach the pins.
	OutputEnable gpio.Level
}

// Value encodes the state as a control register value.
func (s LineState) Value() uint32 {
	var v uint32
	if s.OutputEnable {
		v |= LineOutputEnable
	}
	if s.ChipSelect {
		v |= LineChipSelect
	}
	if s.Clock {
		v |= LineClock
	}
	if s.Data {
		v |= LineData
	}
	return v
}

// String renders the state like " c1" (selected, clock high, data 1) or "-  0".
func (s LineState) String() string {
	cs, clk, data := '-', ' ', '0'
	if s.ChipSelect {
		cs = ' '
	}
	if s.Clock {
		clk = 'c'
	}
	if s.Data {
		data = '1'
	}
	if !s.OutputEnable {
		return fmt.Sprintf("%c%c%c(off)", cs, clk, data)
	}
	return fmt.Sprintf("%c%c%c", cs, clk, data)
}

// DecodeLineState decodes a control register value.
func DecodeLineState(v uint32) LineState {
	return LineState{
		ChipSelect:   v&LineChipSelect != 0,
		Clock:        v&LineClock != 0,
		Data:         v&LineData != 0,
		OutputEnable: v&LineOutputEnable != 0,
	}
}

// Family identifies which EEPROM type is wired to the chip.
type Family int

const (
	// FamilyTwoWire is a 24C01-style I2C EEPROM.
	FamilyTwoWire Family = iota

	// FamilyFourWire is a 93C46 Microwire EEPROM.
	FamilyFourWire
)

// String returns a human-readable part description.
func (f Family) String() string {
	switch f {
	case FamilyTwoWire:
		return "I^2C (24c01 or similar)"
	case FamilyFourWire:
		return "93c46"
	default:
		return fmt.Sprintf("unknown family %d", int(f))
	}
}

// FamilyFromStatus decodes the family from a control register value.
func FamilyFromStatus(control uint32) Family {
	if control&FamilyStatusBit != 0 {
		return FamilyFourWire
	}
	return FamilyTwoWire
}

// Step is one line state as seen by a Recorder, with the time it was held
// before the next state.
type Step struct {
	State LineState
	Hold  time.Duration
}
