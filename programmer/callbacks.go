package programmer

import (
	"time"

	"github.com/moffa90/go-vt6307/protocol"
)

// Progress contains information about a flag write in progress.
// Passed to ProgressCallback between sessions.
type Progress struct {
	// Phase describes the current operation phase:
	//   "detecting" - Reading the EEPROM family from the control register
	//   "enabling"  - Taking over the EEPROM pins
	//   "writing"   - Running the protocol session
	//   "releasing" - Handing the pins back to the chip
	//   "complete"  - Operation completed successfully
	Phase string

	// Family is the EEPROM family, valid from the "enabling" phase on
	Family protocol.Family

	// Address is the byte (two-wire) or word (four-wire) address written
	Address uint8

	// Value is the value written
	Value uint16

	// ElapsedTime is the time elapsed since the operation started
	ElapsedTime time.Duration
}

// ProgressCallback is called at every phase change. It runs between
// protocol sessions and must not touch the device.
//
// Example:
//
//	prog := programmer.New(port,
//	    programmer.WithProgressCallback(func(p programmer.Progress) {
//	        fmt.Printf("[%s] %s\n", p.Phase, p.Family)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the programmer.
// *slog.Logger satisfies it.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	prog := programmer.New(port, programmer.WithLogger(logger))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
