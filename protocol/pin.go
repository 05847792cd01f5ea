package protocol

import (
	"fmt"
	"math/bits"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/pin"
)

var (
	_ gpio.PinOut = (*Pin)(nil)
	_ pin.PinFunc = (*Pin)(nil)
)

// Pin is one of the four EEPROM lines as a periph.io output pin. Out
// rewrites the whole control register with only this line changed, so a
// Pin shares the last state with Lines.Set and the other pins.
//
// Pins are not safe for concurrent use with each other or with their Lines.
type Pin struct {
	lines *Lines
	name  string
	mask  uint32
}

// ChipSelectPin returns the chip select line.
func (l *Lines) ChipSelectPin() *Pin {
	return &Pin{lines: l, name: "CS", mask: LineChipSelect}
}

// ClockPin returns SCL/SK.
func (l *Lines) ClockPin() *Pin {
	return &Pin{lines: l, name: "SK", mask: LineClock}
}

// DataPin returns SDA/DI.
func (l *Lines) DataPin() *Pin {
	return &Pin{lines: l, name: "DI", mask: LineData}
}

// OutputEnablePin returns the output enable. Driving it low floats the
// other three lines without giving the pins back to the chip.
func (l *Lines) OutputEnablePin() *Pin {
	return &Pin{lines: l, name: "OE", mask: LineOutputEnable}
}

// Pins returns chip select, clock, data and output enable in that order.
func (l *Lines) Pins() []gpio.PinOut {
	return []gpio.PinOut{l.ChipSelectPin(), l.ClockPin(), l.DataPin(), l.OutputEnablePin()}
}

// String implements conn.Resource.
func (p *Pin) String() string {
	return "VT6307/" + p.name
}

// Halt implements conn.Resource. It does nothing.
func (p *Pin) Halt() error {
	return nil
}

// Name implements pin.Pin.
func (p *Pin) Name() string {
	return p.name
}

// Number is the bit of the line in the control register.
func (p *Pin) Number() int {
	return bits.TrailingZeros32(p.mask)
}

// Function implements pin.Pin.
func (p *Pin) Function() string {
	return string(p.Func())
}

// Func reports the level last driven on the line.
func (p *Pin) Func() pin.Func {
	if p.Level() {
		return gpio.OUT_HIGH
	}
	return gpio.OUT_LOW
}

// SupportedFuncs implements pin.PinFunc.
func (p *Pin) SupportedFuncs() []pin.Func {
	return []pin.Func{gpio.OUT}
}

// SetFunc accepts the output functions only.
func (p *Pin) SetFunc(f pin.Func) error {
	switch f {
	case gpio.OUT, gpio.OUT_LOW:
		return p.Out(gpio.Low)
	case gpio.OUT_HIGH:
		return p.Out(gpio.High)
	default:
		return fmt.Errorf("%s: unsupported function %q", p, f)
	}
}

// Level returns the level last written to the line.
func (p *Pin) Level() gpio.Level {
	return p.lines.state.Value()&p.mask != 0
}

// Out drives the line to l, keeping the other three lines as they are.
func (p *Pin) Out(l gpio.Level) error {
	v := p.lines.state.Value()
	if l {
		v |= p.mask
	} else {
		v &^= p.mask
	}
	return p.lines.apply(DecodeLineState(v))
}

// PWM always fails with ErrNoPWM.
func (p *Pin) PWM(gpio.Duty, physic.Frequency) error {
	return fmt.Errorf("%s: %w", p, ErrNoPWM)
}
