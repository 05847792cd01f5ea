package eeprom

// GUID PROM register layout.
const (
	// RegisterOffset is the register's offset from the memory base.
	RegisterOffset = 0x04

	// CmdReset rewinds the byte counter to zero.
	CmdReset = 0x80 << 24

	// CmdNext fetches the byte at the counter and advances it.
	CmdNext = 0x02 << 24

	// DataShift is the position of the fetched byte in the register.
	DataShift = 16

	// DataMask masks the fetched byte after shifting.
	DataMask = 0xFF
)

// EEPROM geometry.
const (
	// Size is the number of bytes exposed through the register.
	Size = 0x30

	// FlagOffset is the byte holding the OHCI version flag.
	FlagOffset = 0x22

	// BytesPerLine is the width of a text dump line.
	BytesPerLine = 16
)

// DefaultMaxPolls bounds every busy wait.
const DefaultMaxPolls = 1000000
