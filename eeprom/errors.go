package eeprom

import (
	"errors"
	"fmt"
)

// ErrBusyTimeout is returned when the register stays busy for MaxPolls reads.
var ErrBusyTimeout = errors.New("register stayed busy")

// IndexError reports a byte index outside the EEPROM.
type IndexError struct {
	Index int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("byte index %d out of range: valid range is 0-%d", e.Index, Size-1)
}
