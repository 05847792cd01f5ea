package programmer

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/moffa90/go-vt6307/eeprom"
	"github.com/moffa90/go-vt6307/protocol"
)

func TestUnknownFamilyError(t *testing.T) {
	err := &UnknownFamilyError{Family: protocol.Family(3)}

	errMsg := err.Error()

	if !strings.Contains(errMsg, "family 3") {
		t.Errorf("error message should contain the family, got: %s", errMsg)
	}
}

func TestInvalidModeError(t *testing.T) {
	err := &InvalidModeError{Mode: eeprom.ModeUnknown}

	if !strings.Contains(err.Error(), "cannot program mode") {
		t.Errorf("unexpected error message: %s", err.Error())
	}
}

func TestSessionError(t *testing.T) {
	underlying := errors.New("bus stuck")
	err := &SessionError{
		Family:  protocol.FamilyFourWire,
		Address: 0x11,
		Value:   0x0008,
		Err:     underlying,
	}

	errMsg := err.Error()

	if !strings.Contains(errMsg, "93c46") {
		t.Errorf("error message should contain the family, got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "0x0008") {
		t.Errorf("error message should contain the value, got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "0x11") {
		t.Errorf("error message should contain the address, got: %s", errMsg)
	}

	if !errors.Is(err, underlying) {
		t.Error("SessionError should unwrap to the underlying error")
	}
}

func TestErrorTypes(t *testing.T) {
	var err error

	err = &UnknownFamilyError{}
	if _, ok := err.(*UnknownFamilyError); !ok {
		t.Error("UnknownFamilyError type assertion failed")
	}

	err = fmt.Errorf("wrapped: %w", &SessionError{Err: protocol.ErrInjected})
	var sessErr *SessionError
	if !errors.As(err, &sessErr) {
		t.Error("wrapped SessionError should be found with errors.As")
	}
	if !errors.Is(err, protocol.ErrInjected) {
		t.Error("wrapped SessionError should unwrap to its cause")
	}
}
