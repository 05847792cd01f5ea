// Package protocol implements the bit-banged serial EEPROM protocols used to
// reprogram the configuration EEPROM behind a VIA VT6307 IEEE-1394 OHCI chip.
//
// The chip exposes four EEPROM pins through one 32-bit GPIO control register
// in its I/O space. Every waveform in this package is produced by writing
// complete pin states to that register and holding each state for a fixed
// delay; the EEPROM never signals back.
//
// # Line State
//
// A write to the control register sets all four lines at once:
//
//	bit 4 (0x10) output enable, always set while driving
//	bit 3 (0x08) chip select
//	bit 2 (0x04) clock
//	bit 1 (0x02) data out
//
// Lines drives that register through a Port and sleeps through a Clock:
//
//	lines := protocol.NewLines(port, protocol.SystemClock{})
//	err := lines.Set(true, false, true)
//
// Each line is also a periph.io gpio.PinOut, for code that drives single
// lines:
//
//	var sk gpio.PinOut = lines.ClockPin()
//	err := sk.Out(gpio.High)
//
// # Two-Wire (I2C-style, 24C01)
//
// A session is init, START, device select byte, register address, value,
// STOP. Each byte is shifted MSB first and followed by one clocked low bit in
// the acknowledge slot. The acknowledge is never sampled.
//
//	tw := protocol.NewTwoWire(lines, protocol.DefaultTwoWireTiming())
//	err := tw.Store(0x22, 0x08)
//
// TwoWire is a tinygo drivers.I2C, and StoreByte runs the same write on any
// other drivers.I2C bus.
//
// # Four-Wire (Microwire, 93C46)
//
// Framing is carried by chip select. Each command is a 3-bit opcode, a 6-bit
// address and a 16-bit data field. A word write is EWEN, WRITE, EWDS:
//
//	fw := protocol.NewFourWire(lines, protocol.DefaultFourWireTiming())
//	err := fw.WriteWord(0x11, 0x0008)
//
// # Testing
//
// Recorder implements both Port and Clock in memory. Its Trace lists every
// line state with the time it was held, and Samples decodes the bits seen on
// each rising clock edge.
package protocol
