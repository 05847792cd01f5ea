package programmer

import (
	"tinygo.org/x/drivers"

	"github.com/moffa90/go-vt6307/protocol"
)

// Config holds the programmer configuration.
type Config struct {
	// ProgressCallback is called at every phase change (optional)
	ProgressCallback ProgressCallback

	// Logger is used for logging operations (optional)
	Logger Logger

	// Clock provides every protocol delay
	Clock protocol.Clock

	// TwoWireTiming is used for 24Cxx parts
	TwoWireTiming protocol.TwoWireTiming

	// FourWireTiming is used for 93C46 parts
	FourWireTiming protocol.FourWireTiming

	// EnableAddress is the address field of the four-wire EWEN command
	EnableAddress uint8

	// TwoWireBus carries the 24Cxx session instead of the built-in
	// bit-banged engine (optional)
	TwoWireBus drivers.I2C
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Clock:          protocol.SystemClock{},
		TwoWireTiming:  protocol.DefaultTwoWireTiming(),
		FourWireTiming: protocol.DefaultFourWireTiming(),
	}
}

// Option is a functional option for configuring the Programmer.
type Option func(*Config)

// WithProgressCallback sets a callback function to track progress.
//
// Example:
//
//	prog := programmer.New(port,
//	    programmer.WithProgressCallback(func(p programmer.Progress) {
//	        fmt.Println(p.Phase)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for the programmer operations.
//
// Example:
//
//	prog := programmer.New(port, programmer.WithLogger(slog.Default()))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithClock replaces the clock used for protocol delays. Tests pass a
// protocol.Recorder to capture timing without sleeping.
func WithClock(clock protocol.Clock) Option {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// WithTwoWireTiming overrides the 24Cxx waveform delays.
func WithTwoWireTiming(t protocol.TwoWireTiming) Option {
	return func(c *Config) {
		c.TwoWireTiming = t
	}
}

// WithFourWireTiming overrides the 93C46 waveform delays.
func WithFourWireTiming(t protocol.FourWireTiming) Option {
	return func(c *Config) {
		c.FourWireTiming = t
	}
}

// WithEnableAddress sets the address field of the four-wire write-enable
// command. Values above protocol.MaxWordAddress are ignored.
//
// Example:
//
//	prog := programmer.New(port, programmer.WithEnableAddress(0x30))
func WithEnableAddress(addr uint8) Option {
	return func(c *Config) {
		if addr <= protocol.MaxWordAddress {
			c.EnableAddress = addr
		}
	}
}

// WithTwoWireBus sends the 24Cxx flag write over bus. Pin access is still
// taken and released through the programmer's port around the transfer.
//
// Example:
//
//	lines := protocol.NewLines(port, nil)
//	bus := protocol.NewTwoWire(lines, protocol.DefaultTwoWireTiming())
//	prog := programmer.New(port, programmer.WithTwoWireBus(bus))
func WithTwoWireBus(bus drivers.I2C) Option {
	return func(c *Config) {
		c.TwoWireBus = bus
	}
}
