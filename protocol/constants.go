package protocol

// I/O space layout of the VT6307 per the chip's undocumented GPIO bridge.
const (
	// PinAccessOffset is the register whose PinAccessEnable bit routes the
	// EEPROM pins to the GPIO control register.
	PinAccessOffset = 0x00

	// ControlOffset is the GPIO control register driving the EEPROM pins.
	ControlOffset = 0x20

	// PinAccessEnable is set in the PinAccessOffset register to take over the pins.
	PinAccessEnable = 0x80

	// PinRelease is written to the control register to hand the pins back.
	PinRelease = 0x20

	// FamilyStatusBit is set in the control register when a 93C46
	// (four-wire) EEPROM is fitted and clear for a 24C01 (two-wire) part.
	FamilyStatusBit = 0x80
)

// Control register line bits.
const (
	// LineOutputEnable must be set for any other line bit to reach the pins.
	LineOutputEnable = 0x10

	// LineChipSelect drives the EEPROM chip select (SDA gate on 24C01).
	LineChipSelect = 0x08

	// LineClock drives SCL / SK.
	LineClock = 0x04

	// LineData drives SDA / DI.
	LineData = 0x02
)

// Two-wire EEPROM addressing.
const (
	// DeviceAddress is the 7-bit bus address of a 24Cxx EEPROM with A0-A2 low.
	DeviceAddress = 0x50

	// DeviceSelectWrite is the device select byte for a write transfer.
	DeviceSelectWrite = DeviceAddress << 1

	// DeviceSelectRead is the device select byte for a read transfer.
	DeviceSelectRead = DeviceAddress<<1 | 1

	// AckBit is the value clocked into the acknowledge slot after each byte.
	AckBit = 0
)

// Four-wire (93C46, x16 organisation) command fields.
const (
	// OpcodeWidth is the start bit plus the 2-bit opcode.
	OpcodeWidth = 3

	// AddressWidth is the word address width of a 93C46 in x16 mode.
	AddressWidth = 6

	// DataWidth is the word width in x16 mode.
	DataWidth = 16

	// OpcodeExtended selects the EWEN/EWDS/ERAL/WRAL group; the address field
	// picks the command.
	OpcodeExtended = 0x4

	// EnableWriteAddress is the address field a 93C46 decodes as EWEN. An
	// all-zero field is EWDS.
	EnableWriteAddress = 0x30

	// OpcodeWrite writes one word.
	OpcodeWrite = 0x5

	// MaxWordAddress is the highest addressable word.
	MaxWordAddress = 1<<AddressWidth - 1
)

// Location of the OHCI version flag in each EEPROM family.
const (
	// FlagByteAddress is the flag's byte address in a two-wire EEPROM.
	FlagByteAddress = 0x22

	// FlagWordAddress is the word holding the same byte in a four-wire EEPROM.
	FlagWordAddress = FlagByteAddress / 2
)
