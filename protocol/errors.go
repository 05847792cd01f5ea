package protocol

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldWidth is returned for a four-wire field width outside 1..32.
	ErrFieldWidth = errors.New("field width out of range")

	// ErrFieldOverflow is returned when a value does not fit its field.
	ErrFieldOverflow = errors.New("value does not fit field")

	// ErrReadUnsupported is returned for two-wire reads; the data line is
	// never sampled.
	ErrReadUnsupported = errors.New("two-wire reads are not supported")

	// ErrEmptyWrite is returned for a two-wire transfer with nothing to send.
	ErrEmptyWrite = errors.New("nothing to write")

	// ErrNoPWM is returned by Pin.PWM; the lines are plain outputs.
	ErrNoPWM = errors.New("line has no PWM")
)

// PortError reports a failed register access. A failed write leaves the
// EEPROM in an unknown state and is not retried.
type PortError struct {
	// Op is "in" or "out"
	Op string

	// Offset is the register offset from the I/O base
	Offset uint16

	// Err is the underlying error
	Err error
}

func (e *PortError) Error() string {
	return fmt.Sprintf("port %s at offset 0x%02X: %v", e.Op, e.Offset, e.Err)
}

func (e *PortError) Unwrap() error {
	return e.Err
}

// IsPortError returns true if err is or wraps a PortError.
func IsPortError(err error) bool {
	var pe *PortError
	return errors.As(err, &pe)
}
