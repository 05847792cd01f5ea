package eeprom

import "errors"

// ErrSimulated is returned by a Simulated register told to fail.
var ErrSimulated = errors.New("simulated register failure")

// Simulated is an in-memory GUID PROM register backed by an Image.
type Simulated struct {
	// Contents is what the register serves.
	Contents Image

	// ClearAfter is the read on which a pending command reports idle;
	// values below 1 clear on the first read.
	ClearAfter int

	// Stuck keeps every command busy forever.
	Stuck bool

	// FailReads makes Read32 return ErrSimulated.
	FailReads bool

	// Reads and Writes count register accesses.
	Reads  int
	Writes int

	counter int
	pending uint32
	data    byte
	busy    int
}

// NewSimulated returns a register serving img.
func NewSimulated(img *Image) *Simulated {
	s := &Simulated{}
	if img != nil {
		s.Contents = *img
	}
	return s
}

// Write32 starts a command.
func (s *Simulated) Write32(v uint32) error {
	s.Writes++
	switch {
	case v&CmdReset != 0:
		s.counter = 0
		s.pending = CmdReset
	case v&CmdNext != 0:
		s.data = s.Contents.Bytes[s.counter%Size]
		s.counter++
		s.pending = CmdNext
	default:
		return nil
	}
	s.busy = s.ClearAfter - 1
	return nil
}

// Read32 reports the pending command bit until it clears, with the last
// fetched byte in the data field.
func (s *Simulated) Read32() (uint32, error) {
	if s.FailReads {
		return 0, ErrSimulated
	}
	s.Reads++
	v := uint32(s.data) << DataShift
	if s.Stuck || s.busy > 0 {
		s.busy--
		return v | s.pending, nil
	}
	return v, nil
}
