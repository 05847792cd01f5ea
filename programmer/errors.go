package programmer

import (
	"fmt"

	"github.com/moffa90/go-vt6307/eeprom"
	"github.com/moffa90/go-vt6307/protocol"
)

// UnknownFamilyError indicates a family value with no protocol engine.
type UnknownFamilyError struct {
	Family protocol.Family
}

func (e *UnknownFamilyError) Error() string {
	return fmt.Sprintf("no protocol engine for EEPROM family %d", int(e.Family))
}

// InvalidModeError indicates a mode with no flag value.
type InvalidModeError struct {
	Mode eeprom.Mode
}

func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("cannot program mode %s", e.Mode)
}

// SessionError wraps a failed protocol session. The EEPROM contents are
// unknown after it.
type SessionError struct {
	Family  protocol.Family
	Address uint8
	Value   uint16
	Err     error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("%s write of 0x%04X at 0x%02X: %v", e.Family, e.Value, e.Address, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}
