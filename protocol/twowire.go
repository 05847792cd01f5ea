package protocol

import (
	"fmt"

	"tinygo.org/x/drivers"
)

var _ drivers.I2C = (*TwoWire)(nil)

// TwoWire writes to a 24Cxx EEPROM by bit-banging an I2C-style waveform.
// Chip select stays asserted for the whole session and gates SDA.
//
// Only writes are supported. The acknowledge slot after every byte is driven
// low and never sampled, so a missing EEPROM is not detected.
type TwoWire struct {
	lines  *Lines
	timing TwoWireTiming
}

// NewTwoWire returns a two-wire engine on lines.
func NewTwoWire(lines *Lines, timing TwoWireTiming) *TwoWire {
	return &TwoWire{lines: lines, timing: timing}
}

// Store writes value at byte address reg of the EEPROM at DeviceAddress.
func (t *TwoWire) Store(reg, value byte) error {
	return StoreByte(t, reg, value)
}

// StoreByte writes value at byte address reg of a 24C01 at DeviceAddress
// on bus. The 24C01 takes a one-byte word address, so the whole write is a
// single transaction.
func StoreByte(bus drivers.I2C, reg, value byte) error {
	return bus.Tx(DeviceAddress, []byte{reg, value}, nil)
}

// WriteRegister sends reg followed by buf to the device at addr.
func (t *TwoWire) WriteRegister(addr uint8, reg uint8, buf []byte) error {
	w := make([]byte, 0, len(buf)+1)
	w = append(w, reg)
	w = append(w, buf...)
	return t.Tx(uint16(addr), w, nil)
}

// ReadRegister always fails with ErrReadUnsupported.
func (t *TwoWire) ReadRegister(addr uint8, reg uint8, buf []byte) error {
	return ErrReadUnsupported
}

// Tx runs one framed write session to the 7-bit address addr: init, START,
// device select, every byte of w, STOP. r must be empty.
func (t *TwoWire) Tx(addr uint16, w, r []byte) error {
	if len(r) > 0 {
		return ErrReadUnsupported
	}
	if len(w) == 0 {
		return ErrEmptyWrite
	}
	if addr > 0x7F {
		return fmt.Errorf("device address 0x%X: %w", addr, ErrFieldOverflow)
	}

	if err := t.init(); err != nil {
		return err
	}
	if err := t.start(); err != nil {
		return err
	}
	if err := t.sendByte(byte(addr << 1)); err != nil {
		return err
	}
	for _, b := range w {
		if err := t.sendByte(b); err != nil {
			return err
		}
	}
	t.lines.Wait(t.timing.WriteCycle)
	if err := t.stop(); err != nil {
		return err
	}
	t.lines.Wait(t.timing.WriteCycle)
	return nil
}

// init brings the bus from an unknown state to idle with SCL and SDA high.
func (t *TwoWire) init() error {
	if err := t.lines.Hold(true, false, true, t.timing.InitSettle); err != nil {
		return err
	}
	return t.lines.Hold(true, true, true, t.timing.BusIdle)
}

// start pulls SDA low while SCL is high, then drops SCL.
func (t *TwoWire) start() error {
	if err := t.lines.Hold(true, true, false, t.timing.StartHold); err != nil {
		return err
	}
	return t.lines.Hold(true, false, false, t.timing.StartHold)
}

// stop raises SDA while SCL is high.
func (t *TwoWire) stop() error {
	if err := t.lines.Hold(true, false, false, t.timing.StopHold); err != nil {
		return err
	}
	if err := t.lines.Hold(true, true, false, t.timing.StopHold); err != nil {
		return err
	}
	return t.lines.Hold(true, true, true, t.timing.StopHold)
}

// sendByte shifts v out MSB first and clocks the acknowledge slot.
func (t *TwoWire) sendByte(v byte) error {
	for i := 7; i >= 0; i-- {
		if err := t.sendBit(v&(1<<i) != 0); err != nil {
			return err
		}
	}
	return t.sendBit(AckBit != 0)
}

// sendBit holds data steady across a low-high-low clock pulse.
func (t *TwoWire) sendBit(v bool) error {
	if err := t.lines.Hold(true, false, v, t.timing.BitHold); err != nil {
		return err
	}
	if err := t.lines.Hold(true, true, v, t.timing.BitHold); err != nil {
		return err
	}
	return t.lines.Hold(true, false, v, t.timing.BitHold)
}
