// Package programmer provides a high-level API for switching a VT6307
// FireWire controller between OHCI 1.0 and OHCI 1.1 mode.
//
// # Overview
//
// The mode lives in one flag of the configuration EEPROM hanging off the
// chip's GPIO pins. This package orchestrates the complete write:
//   - Detecting which EEPROM family the board is strapped for
//   - Taking over the EEPROM pins from the chip
//   - Running one two-wire (24Cxx) or four-wire (93C46) write session
//   - Handing the pins back, also when the session fails
//
// # Basic Usage
//
//	dev, err := device.Open("02:00.0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	prog := programmer.New(dev.Port())
//	family, err := prog.SetMode(context.Background(), eeprom.ModeOHCI11)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%s EEPROM updated, please reboot\n", family)
//
// # Progress Tracking
//
//	prog := programmer.New(port,
//	    programmer.WithProgressCallback(func(p programmer.Progress) {
//	        fmt.Printf("[%s] %s\n", p.Phase, p.Family)
//	    }),
//	)
//
// # Configuration Options
//
//	prog := programmer.New(port,
//	    programmer.WithLogger(slog.Default()),
//	    programmer.WithEnableAddress(0x30),
//	    programmer.WithFourWireTiming(protocol.FourWireTiming{
//	        SelectHold:   20 * time.Microsecond,
//	        BitHold:      20 * time.Microsecond,
//	        CommandPause: 20 * time.Microsecond,
//	        WriteCycle:   5 * time.Millisecond,
//	    }),
//	)
//
// The same settings can be read from a YAML profile with LoadProfile.
//
// # Error Handling
//
//	var sessErr *programmer.SessionError
//	if errors.As(err, &sessErr) {
//	    fmt.Printf("write to 0x%02X failed: %v\n", sessErr.Address, sessErr.Err)
//	}
//
// # Thread Safety
//
// Programmer is not safe for concurrent use. Two writers on the same chip
// would interleave their line states.
package programmer
