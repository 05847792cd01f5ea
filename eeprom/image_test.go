package eeprom

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestImageWriteText(t *testing.T) {
	img := &Image{}
	img.Bytes[0] = 0x06
	img.Bytes[0x10] = 0xFF
	img.Bytes[FlagOffset] = FlagOHCI10

	var buf bytes.Buffer
	require.NoError(t, img.WriteText(&buf))

	lines := strings.Split(buf.String(), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "00: 06 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00", lines[0])
	assert.Equal(t, "10: FF 00 00 00 00 00 00 00 00 00 00 00 00 00 00 00", lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "20: 00 00 00"))
	assert.Equal(t, "", lines[3])
	assert.Equal(t, "Your VT6307 chip is in OHCI 1.0 mode", lines[4])
}

func TestImageMode(t *testing.T) {
	tests := []struct {
		name string
		flag byte
		want Mode
	}{
		{name: "ohci 1.0", flag: 0x00, want: ModeOHCI10},
		{name: "ohci 1.1", flag: 0x08, want: ModeOHCI11},
		{name: "erased", flag: 0xFF, want: ModeUnknown},
		{name: "other bit", flag: 0x04, want: ModeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := &Image{}
			img.Bytes[FlagOffset] = tt.flag
			assert.Equal(t, tt.flag, img.Flag())
			assert.Equal(t, tt.want, img.Mode())
		})
	}
}

func TestImageYAML(t *testing.T) {
	img := testImage()

	out, err := yaml.Marshal(img)
	require.NoError(t, err)

	var got struct {
		Size  int               `yaml:"size"`
		Mode  string            `yaml:"mode"`
		Flag  string            `yaml:"flag"`
		Bytes map[string]string `yaml:"bytes"`
	}
	require.NoError(t, yaml.Unmarshal(out, &got))

	assert.Equal(t, Size, got.Size)
	assert.Equal(t, "OHCI 1.1", got.Mode)
	assert.Equal(t, "0x08", got.Flag)
	require.Len(t, got.Bytes, 3)
	assert.True(t, strings.HasPrefix(got.Bytes["00"], "A0 A1 A2"))
	assert.Len(t, strings.Fields(got.Bytes["20"]), BytesPerLine)
}

func TestModeParse(t *testing.T) {
	tests := []struct {
		arg      string
		want     Mode
		wantFlag byte
		wantErr  bool
	}{
		{arg: "1.0", want: ModeOHCI10, wantFlag: 0x00},
		{arg: "1.1", want: ModeOHCI11, wantFlag: 0x08},
		{arg: "1.2", wantErr: true},
		{arg: "", wantErr: true},
		{arg: "1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			m, err := ParseMode(tt.arg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "must be 1.0 or 1.1")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)

			flag, ok := m.Flag()
			require.True(t, ok)
			assert.Equal(t, tt.wantFlag, flag)
			assert.Equal(t, m, ModeFromFlag(flag))
		})
	}

	_, ok := ModeUnknown.Flag()
	assert.False(t, ok)
	assert.Equal(t, "unknown", ModeUnknown.String())
}
