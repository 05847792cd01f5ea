package protocol

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFourWire(opts ...FourWireOption) (*FourWire, *Recorder) {
	rec := NewRecorder()
	return NewFourWire(NewLines(rec, rec), DefaultFourWireTiming(), opts...), rec
}

func TestFourWireSendField(t *testing.T) {
	tests := []struct {
		name  string
		width int
		value uint32
	}{
		{name: "ewen opcode", width: 3, value: 0x4},
		{name: "write opcode", width: 3, value: 0x5},
		{name: "zero address", width: 6, value: 0x00},
		{name: "flag address", width: 6, value: 0x11},
		{name: "max address", width: 6, value: 0x3F},
		{name: "ewen address", width: 6, value: 0x30},
		{name: "ohci 1.1 word", width: 16, value: 0x0008},
		{name: "alternating word", width: 16, value: 0xA55A},
		{name: "full word", width: 16, value: 0xFFFF},
		{name: "single bit", width: 1, value: 1},
		{name: "full register", width: 32, value: 0x80000001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw, rec := newFourWire()
			require.NoError(t, fw.SendField(tt.width, tt.value))

			require.Len(t, rec.Trace, 3*tt.width)
			assert.Equal(t, Bits(tt.width, tt.value), Samples(rec.Trace))

			for i, s := range rec.Trace {
				assert.True(t, bool(s.State.ChipSelect), "chip select dropped mid-field at step %d", i)
				assert.Equal(t, 10*time.Microsecond, s.Hold)
			}
			assert.False(t, bool(rec.Trace[len(rec.Trace)-1].State.Clock))
		})
	}
}

func TestFourWireSendFieldRejects(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		value   uint32
		wantErr error
	}{
		{name: "zero width", width: 0, value: 0, wantErr: ErrFieldWidth},
		{name: "too wide", width: 33, value: 0, wantErr: ErrFieldWidth},
		{name: "opcode overflow", width: 3, value: 0x8, wantErr: ErrFieldOverflow},
		{name: "address overflow", width: 6, value: 0x40, wantErr: ErrFieldOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fw, rec := newFourWire()
			require.ErrorIs(t, fw.SendField(tt.width, tt.value), tt.wantErr)
			assert.Empty(t, rec.Writes)
		})
	}
}

func TestFourWireWriteWord(t *testing.T) {
	fw, rec := newFourWire()
	require.NoError(t, fw.WriteWord(FlagWordAddress, 0x0008))

	// init deselect + 3 x (select + 25 bits + deselect)
	require.Len(t, rec.Trace, 1+3*(1+3*25+1))

	sessions := Sessions(rec.Trace)
	require.Len(t, sessions, 3)

	field := func(op, addr, data uint32) []bool {
		var bits []bool
		bits = append(bits, Bits(OpcodeWidth, op)...)
		bits = append(bits, Bits(AddressWidth, addr)...)
		return append(bits, Bits(DataWidth, data)...)
	}

	assert.Equal(t, field(0x4, 0x00, 0x0000), Samples(sessions[0]), "EWEN")
	assert.Equal(t, field(0x5, 0x11, 0x0008), Samples(sessions[1]), "WRITE")
	assert.Equal(t, field(0x4, 0x00, 0x0000), Samples(sessions[2]), "EWDS")

	for _, s := range sessions {
		require.Len(t, s, 1+3*25)
		// selected with clock and data low before the first bit
		assert.Equal(t, uint32(0x18), s[0].State.Value())
	}
}

func TestFourWireEnableDisableIdentical(t *testing.T) {
	fw, _ := newFourWire()
	assert.Equal(t, fw.EnableCommand(), fw.DisableCommand())

	enable, enRec := newFourWire()
	require.NoError(t, enable.EnableWrite())
	disable, disRec := newFourWire()
	require.NoError(t, disable.DisableWrite())

	assert.Equal(t, enRec.Trace, disRec.Trace)
}

func TestFourWireEnableAddressOption(t *testing.T) {
	fw, rec := newFourWire(WithEnableAddress(0x30))
	require.NoError(t, fw.WriteWord(FlagWordAddress, 0))

	sessions := Sessions(rec.Trace)
	require.Len(t, sessions, 3)

	ewen := Samples(sessions[0])
	assert.Equal(t, Bits(AddressWidth, 0x30), ewen[OpcodeWidth:OpcodeWidth+AddressWidth])
	ewds := Samples(sessions[2])
	assert.Equal(t, Bits(AddressWidth, 0x00), ewds[OpcodeWidth:OpcodeWidth+AddressWidth])
}

func TestFourWireWritePauseIsLongest(t *testing.T) {
	fw, rec := newFourWire()
	require.NoError(t, fw.WriteWord(FlagWordAddress, 0x0008))

	var pauses []time.Duration
	for _, s := range rec.Trace {
		if !s.State.ChipSelect {
			pauses = append(pauses, s.Hold)
		}
	}
	// init, after EWEN, after WRITE, after EWDS
	require.Len(t, pauses, 4)

	writePause := pauses[2]
	for i, p := range pauses {
		if i == 2 {
			continue
		}
		assert.Greater(t, writePause, p)
	}
	assert.Equal(t, time.Millisecond, writePause)
}

func TestFourWireWriteWordRejects(t *testing.T) {
	fw, rec := newFourWire()
	require.ErrorIs(t, fw.WriteWord(0x40, 0), ErrFieldOverflow)
	assert.Empty(t, rec.Writes)

	fw, rec = newFourWire(WithEnableAddress(0xFF))
	err := fw.WriteWord(FlagWordAddress, 0)
	require.ErrorIs(t, err, ErrFieldOverflow)
	assert.Contains(t, err.Error(), "write enable")
	assert.Empty(t, rec.Writes)
}

func TestFourWirePortFailure(t *testing.T) {
	fw, rec := newFourWire()
	rec.FailAfter = 30

	err := fw.WriteWord(FlagWordAddress, 8)
	require.Error(t, err)
	assert.True(t, IsPortError(err))
	assert.ErrorIs(t, err, ErrInjected)
	assert.Len(t, rec.Writes, 30)
}
