package protocol

import (
	"errors"
	"time"
)

// ErrInjected is returned by a Recorder once its write budget is spent.
var ErrInjected = errors.New("injected port failure")

// Write is one register write seen by a Recorder.
type Write struct {
	Offset uint16
	Value  uint32
}

// Recorder is an in-memory Port and Clock. Control register writes become
// Steps; the time slept after each write is added to that step's Hold.
// Recorder never sleeps for real.
type Recorder struct {
	// Registers is returned by In32; missing offsets read as zero.
	Registers map[uint16]uint32

	// Writes lists every Out32 in order, for all offsets.
	Writes []Write

	// Trace lists control register states in order.
	Trace []Step

	// Lead is time slept before the first control write.
	Lead time.Duration

	// FailAfter, when positive, makes every Out32 after that many
	// successful writes fail with ErrInjected.
	FailAfter int
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{Registers: make(map[uint16]uint32)}
}

// In32 returns the preset register value.
func (r *Recorder) In32(offset uint16) (uint32, error) {
	return r.Registers[offset], nil
}

// Out32 records the write and latches value as the register contents.
func (r *Recorder) Out32(offset uint16, value uint32) error {
	if r.FailAfter > 0 && len(r.Writes) >= r.FailAfter {
		return ErrInjected
	}
	if r.Registers == nil {
		r.Registers = make(map[uint16]uint32)
	}
	r.Writes = append(r.Writes, Write{Offset: offset, Value: value})
	if offset == ControlOffset {
		r.Trace = append(r.Trace, Step{State: DecodeLineState(value)})
	}
	// keep the family status bit readable after the lines are driven
	r.Registers[offset] = value | r.Registers[offset]&FamilyStatusBit
	return nil
}

// Sleep extends the hold time of the latest state.
func (r *Recorder) Sleep(d time.Duration) {
	if len(r.Trace) == 0 {
		r.Lead += d
		return
	}
	r.Trace[len(r.Trace)-1].Hold += d
}

// Elapsed is the sum of all recorded holds.
func (r *Recorder) Elapsed() time.Duration {
	total := r.Lead
	for _, s := range r.Trace {
		total += s.Hold
	}
	return total
}

// Reset clears everything recorded but keeps Registers.
func (r *Recorder) Reset() {
	r.Writes = nil
	r.Trace = nil
	r.Lead = 0
}

// Samples returns the data line value at every rising clock edge in steps.
// The first step is compared against a low clock.
func Samples(steps []Step) []bool {
	var bits []bool
	prevClock := false
	for _, s := range steps {
		if bool(s.State.Clock) && !prevClock {
			bits = append(bits, bool(s.State.Data))
		}
		prevClock = bool(s.State.Clock)
	}
	return bits
}

// Bits expands the low width bits of v MSB first.
func Bits(width int, v uint32) []bool {
	bits := make([]bool, width)
	for i := 0; i < width; i++ {
		bits[i] = v&(1<<(width-1-i)) != 0
	}
	return bits
}

// Sessions splits steps at every deselect, returning the runs of states
// that keep chip select asserted.
func Sessions(steps []Step) [][]Step {
	var out [][]Step
	var cur []Step
	for _, s := range steps {
		if !s.State.ChipSelect {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, s)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
