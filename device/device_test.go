package device

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSlot(t *testing.T) {
	tests := []struct {
		in   string
		want Slot
	}{
		{"", AnySlot},
		{"02:00.0", Slot{Domain: -1, Bus: 0x02, Device: 0x00, Function: 0}},
		{"0000:02:00.0", Slot{Domain: 0, Bus: 0x02, Device: 0x00, Function: 0}},
		{"1f", Slot{Domain: -1, Bus: -1, Device: 0x1F, Function: -1}},
		{"03:", Slot{Domain: -1, Bus: 0x03, Device: -1, Function: -1}},
		{".1", Slot{Domain: -1, Bus: -1, Device: -1, Function: 1}},
		{"*:0a.*", Slot{Domain: -1, Bus: -1, Device: 0x0A, Function: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSlot(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSlotErrors(t *testing.T) {
	for _, in := range []string{
		"zz:00.0",
		"02:20.0",
		"100:00.0",
		"02:00.8",
		"0:0:0:0",
		"10000:00:00.0",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseSlot(in)
			require.ErrorIs(t, err, ErrInvalidSlot)
		})
	}
}

func TestSlotMatch(t *testing.T) {
	slot, err := ParseSlot("02:00")
	require.NoError(t, err)

	assert.True(t, slot.Match("0000:02:00.0"))
	assert.True(t, slot.Match("0001:02:00.1"))
	assert.False(t, slot.Match("0000:03:00.0"))
	assert.False(t, slot.Match("garbage"))

	assert.True(t, AnySlot.Match("0000:ff:1f.7"))
}

func TestSlotString(t *testing.T) {
	assert.Equal(t, "*:02:00.0", Slot{Domain: -1, Bus: 2, Device: 0, Function: 0}.String())
	assert.Equal(t, "*:*:*.*", AnySlot.String())
}

const vt6307Resources = `0x00000000fbfff000 0x00000000fbfff7ff 0x0000000000040200
0x000000000000e000 0x000000000000e07f 0x0000000000040101
0x0000000000000000 0x0000000000000000 0x0000000000000000
`

func TestParseResources(t *testing.T) {
	regions, err := ParseResources(strings.NewReader(vt6307Resources))
	require.NoError(t, err)
	require.Len(t, regions, 3)

	assert.Equal(t, uint64(MemSize), regions[0].Size())
	assert.True(t, regions[0].IsMem())
	assert.Equal(t, uint64(IOSize), regions[1].Size())
	assert.True(t, regions[1].IsIO())
	assert.Equal(t, uint64(0), regions[2].Size())
}

func TestParseResourcesErrors(t *testing.T) {
	_, err := ParseResources(strings.NewReader("0x0 0x1\n"))
	assert.ErrorContains(t, err, "expected 3 fields")

	_, err = ParseResources(strings.NewReader("0x0 0xzz 0x0\n"))
	assert.ErrorContains(t, err, "resource line 1")
}

func TestCheckRegions(t *testing.T) {
	regions, err := ParseResources(strings.NewReader(vt6307Resources))
	require.NoError(t, err)

	mem, io, err := CheckRegions(regions)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xFBFFF000), mem)
	assert.Equal(t, uint16(0xE000), io)
}

func TestCheckRegionsMismatch(t *testing.T) {
	tests := []struct {
		name    string
		regions []Region
	}{
		{"none", nil},
		{"memory only", []Region{{Start: 0x1000, End: 0x17FF, Flags: resourceMem}}},
		{"wrong io size", []Region{
			{Start: 0x1000, End: 0x17FF, Flags: resourceMem},
			{Start: 0xE000, End: 0xE0FF, Flags: resourceIO},
		}},
		{"swapped", []Region{
			{Start: 0xE000, End: 0xE07F, Flags: resourceIO},
			{Start: 0x1000, End: 0x17FF, Flags: resourceMem},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := CheckRegions(tt.regions)
			var sizeErr *RegionSizeError
			require.True(t, errors.As(err, &sizeErr), "got %v", err)
			assert.Contains(t, err.Error(), "is it VT6307 chip?")
		})
	}
}

func TestDeviceClose(t *testing.T) {
	calls := 0
	d := &Device{close: func() error {
		calls++
		return nil
	}}

	require.NoError(t, d.Close())
	require.NoError(t, d.Close())
	assert.Equal(t, 1, calls)

	assert.NoError(t, (&Device{}).Close())
}

func TestOpenInvalidSlot(t *testing.T) {
	_, err := Open("not-a-slot")
	require.ErrorIs(t, err, ErrInvalidSlot)
}
