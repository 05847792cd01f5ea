package programmer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-vt6307/eeprom"
	"github.com/moffa90/go-vt6307/protocol"
)

func TestParseProfileEmpty(t *testing.T) {
	pr, err := ParseProfile(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultProfile(), pr)
}

func TestParseProfileOverrides(t *testing.T) {
	const doc = `
two_wire:
  bit_hold: 150us
  write_cycle: 5ms
four_wire:
  write_cycle: 10ms
enable_address: 0x30
dump:
  max_polls: 500
  poll_interval: 1us
`
	pr, err := ParseProfile(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 150*time.Microsecond, pr.TwoWire.BitHold)
	assert.Equal(t, 5*time.Millisecond, pr.TwoWire.WriteCycle)
	// untouched fields keep their defaults
	assert.Equal(t, protocol.DefaultTwoWireTiming().BusIdle, pr.TwoWire.BusIdle)

	assert.Equal(t, 10*time.Millisecond, pr.FourWire.WriteCycle)
	assert.Equal(t, protocol.DefaultFourWireTiming().BitHold, pr.FourWire.BitHold)

	require.NotNil(t, pr.EnableAddress)
	assert.Equal(t, uint8(0x30), *pr.EnableAddress)

	assert.Equal(t, 500, pr.Dump.MaxPolls)
	assert.Equal(t, time.Microsecond, pr.Dump.PollInterval)
}

func TestParseProfileErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"unknown key", "bogus: 1\n", "invalid profile"},
		{"bad duration", "two_wire:\n  bit_hold: fast\n", "invalid profile"},
		{"negative duration", "four_wire:\n  bit_hold: -1us\n", "negative duration"},
		{"negative polls", "dump:\n  max_polls: -3\n", "max_polls"},
		{"address too large", "enable_address: 0x40\n", "enable_address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseProfile(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("enable_address: 0x30\n"), 0o644))

	pr, err := LoadProfile(path)
	require.NoError(t, err)
	require.NotNil(t, pr.EnableAddress)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read profile")
}

func TestProfileOptions(t *testing.T) {
	pr, err := ParseProfile(strings.NewReader("enable_address: 0x30\nfour_wire:\n  write_cycle: 4ms\n"))
	require.NoError(t, err)

	prog := New(protocol.NewRecorder(), pr.Options()...)
	assert.Equal(t, uint8(0x30), prog.config.EnableAddress)
	assert.Equal(t, 4*time.Millisecond, prog.config.FourWireTiming.WriteCycle)
	assert.Equal(t, protocol.DefaultTwoWireTiming(), prog.config.TwoWireTiming)
}

func TestProfileEnableAddressDefault(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want uint8
	}{
		{"unset", "", protocol.EnableWriteAddress},
		{"explicit zero", "enable_address: 0\n", 0},
		{"explicit", "enable_address: 0x3F\n", 0x3F},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pr, err := ParseProfile(strings.NewReader(tt.doc))
			require.NoError(t, err)
			require.NotNil(t, pr.EnableAddress)
			assert.Equal(t, tt.want, *pr.EnableAddress)

			prog := New(protocol.NewRecorder(), pr.Options()...)
			assert.Equal(t, tt.want, prog.config.EnableAddress)
		})
	}

	// the programmer alone keeps the all-zero field
	assert.Equal(t, uint8(0), New(protocol.NewRecorder()).config.EnableAddress)
}

func TestProfileReaderOptions(t *testing.T) {
	pr, err := ParseProfile(strings.NewReader("dump:\n  max_polls: 2\n"))
	require.NoError(t, err)

	sim := eeprom.NewSimulated(nil)
	sim.Stuck = true
	r := eeprom.NewReader(sim, pr.ReaderOptions()...)

	_, err = r.Next(context.Background())
	require.ErrorIs(t, err, eeprom.ErrBusyTimeout)
	assert.Equal(t, 2, r.Polls())
}
