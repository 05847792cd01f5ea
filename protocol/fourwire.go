package protocol

import (
	"fmt"
	"time"
)

// Command is one four-wire command: opcode, address and data fields.
type Command struct {
	Opcode  uint32
	Address uint32
	Data    uint32
}

// FourWire writes to a 93C46 EEPROM by bit-banging a Microwire waveform.
// There is no START/STOP pattern; each command is framed by chip select.
type FourWire struct {
	lines  *Lines
	timing FourWireTiming

	// enableAddress is the address field sent with EWEN.
	enableAddress uint32
}

// FourWireOption configures a FourWire engine.
type FourWireOption func(*FourWire)

// WithEnableAddress sets the address field sent with the write-enable
// command. The default is zero, identical to write-disable.
func WithEnableAddress(addr uint8) FourWireOption {
	return func(f *FourWire) {
		f.enableAddress = uint32(addr)
	}
}

// NewFourWire returns a four-wire engine on lines.
func NewFourWire(lines *Lines, timing FourWireTiming, opts ...FourWireOption) *FourWire {
	f := &FourWire{lines: lines, timing: timing}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// EnableCommand returns the EWEN command this engine sends.
func (f *FourWire) EnableCommand() Command {
	return Command{Opcode: OpcodeExtended, Address: f.enableAddress, Data: 0}
}

// DisableCommand returns the EWDS command.
func (f *FourWire) DisableCommand() Command {
	return Command{Opcode: OpcodeExtended, Address: 0, Data: 0}
}

// WriteCommand returns the WRITE command for value at word address addr.
func WriteCommand(addr uint8, value uint16) Command {
	return Command{Opcode: OpcodeWrite, Address: uint32(addr), Data: uint32(value)}
}

// WriteWord stores value at word address addr: a deselect, then EWEN, WRITE
// and EWDS.
func (f *FourWire) WriteWord(addr uint8, value uint16) error {
	if err := validateCommand(WriteCommand(addr, value)); err != nil {
		return err
	}
	if err := f.validate(); err != nil {
		return err
	}

	if err := f.lines.Hold(false, false, false, f.timing.SelectHold); err != nil {
		return err
	}
	if err := f.EnableWrite(); err != nil {
		return err
	}
	if err := f.Write(addr, value); err != nil {
		return err
	}
	return f.DisableWrite()
}

// EnableWrite sends EWEN. The bus must be deselected.
func (f *FourWire) EnableWrite() error {
	return f.Send(f.EnableCommand(), f.timing.CommandPause)
}

// Write sends WRITE and waits out the internal write cycle. Write enable
// must have been sent first.
func (f *FourWire) Write(addr uint8, value uint16) error {
	return f.Send(WriteCommand(addr, value), f.timing.WriteCycle)
}

// DisableWrite sends EWDS.
func (f *FourWire) DisableWrite() error {
	return f.Send(f.DisableCommand(), f.timing.CommandPause)
}

// Send selects the chip, shifts the three fields and deselects it, holding
// the deselected state for pause.
func (f *FourWire) Send(cmd Command, pause time.Duration) error {
	if err := validateCommand(cmd); err != nil {
		return err
	}

	if err := f.lines.Hold(true, false, false, f.timing.SelectHold); err != nil {
		return err
	}
	if err := f.SendField(OpcodeWidth, cmd.Opcode); err != nil {
		return err
	}
	if err := f.SendField(AddressWidth, cmd.Address); err != nil {
		return err
	}
	if err := f.SendField(DataWidth, cmd.Data); err != nil {
		return err
	}
	return f.lines.Hold(false, false, false, pause)
}

// SendField shifts the low width bits of value out MSB first. Chip select
// stays asserted for every phase.
func (f *FourWire) SendField(width int, value uint32) error {
	if err := validateField(width, value); err != nil {
		return err
	}

	v := value << (32 - width)
	for i := 0; i < width; i++ {
		bit := v&0x80000000 != 0
		if err := f.lines.Hold(true, false, bit, f.timing.BitHold); err != nil {
			return err
		}
		if err := f.lines.Hold(true, true, bit, f.timing.BitHold); err != nil {
			return err
		}
		if err := f.lines.Hold(true, false, bit, f.timing.BitHold); err != nil {
			return err
		}
		v <<= 1
	}
	return nil
}

func (f *FourWire) validate() error {
	if err := validateCommand(f.EnableCommand()); err != nil {
		return fmt.Errorf("write enable: %w", err)
	}
	return nil
}

func validateCommand(cmd Command) error {
	if err := validateField(OpcodeWidth, cmd.Opcode); err != nil {
		return fmt.Errorf("opcode: %w", err)
	}
	if err := validateField(AddressWidth, cmd.Address); err != nil {
		return fmt.Errorf("address: %w", err)
	}
	if err := validateField(DataWidth, cmd.Data); err != nil {
		return fmt.Errorf("data: %w", err)
	}
	return nil
}

func validateField(width int, value uint32) error {
	if width < 1 || width > 32 {
		return fmt.Errorf("%d bits: %w", width, ErrFieldWidth)
	}
	if width < 32 && value>>width != 0 {
		return fmt.Errorf("0x%X in %d bits: %w", value, width, ErrFieldOverflow)
	}
	return nil
}
