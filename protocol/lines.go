package protocol

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// Lines drives the four EEPROM lines through the GPIO control register.
// It remembers the last state it wrote so single lines can be changed
// through a Pin.
type Lines struct {
	port  Port
	clock Clock
	state LineState
}

// NewLines returns a line driver writing to port and holding states on clock.
func NewLines(port Port, clock Clock) *Lines {
	if port == nil {
		panic("port cannot be nil")
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Lines{port: port, clock: clock}
}

// Set drives chip select, clock and data with output enable asserted. All
// four lines change in one register write.
func (l *Lines) Set(cs, clk, data bool) error {
	return l.apply(LineState{
		ChipSelect:   gpio.Level(cs),
		Clock:        gpio.Level(clk),
		Data:         gpio.Level(data),
		OutputEnable: gpio.High,
	})
}

// State returns the last state written to the control register.
func (l *Lines) State() LineState {
	return l.state
}

func (l *Lines) apply(state LineState) error {
	if err := l.port.Out32(ControlOffset, state.Value()); err != nil {
		return &PortError{Op: "out", Offset: ControlOffset, Err: err}
	}
	l.state = state
	return nil
}

// Hold sets the lines and then waits d.
func (l *Lines) Hold(cs, clk, data bool, d time.Duration) error {
	if err := l.Set(cs, clk, data); err != nil {
		return err
	}
	l.Wait(d)
	return nil
}

// Wait sleeps without touching the lines.
func (l *Lines) Wait(d time.Duration) {
	if d > 0 {
		l.clock.Sleep(d)
	}
}

// Family reads the control register and reports the fitted EEPROM family.
func (l *Lines) Family() (Family, error) {
	v, err := l.port.In32(ControlOffset)
	if err != nil {
		return 0, &PortError{Op: "in", Offset: ControlOffset, Err: err}
	}
	return FamilyFromStatus(v), nil
}

// EnablePinAccess routes the EEPROM pins to the control register.
func (l *Lines) EnablePinAccess() error {
	v, err := l.port.In32(PinAccessOffset)
	if err != nil {
		return &PortError{Op: "in", Offset: PinAccessOffset, Err: err}
	}
	if err := l.port.Out32(PinAccessOffset, v|PinAccessEnable); err != nil {
		return &PortError{Op: "out", Offset: PinAccessOffset, Err: err}
	}
	return nil
}

// ReleasePins returns the EEPROM pins to the chip.
func (l *Lines) ReleasePins() error {
	if err := l.port.Out32(ControlOffset, PinRelease); err != nil {
		return &PortError{Op: "out", Offset: ControlOffset, Err: err}
	}
	l.state = DecodeLineState(PinRelease)
	return nil
}
