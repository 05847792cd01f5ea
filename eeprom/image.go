package eeprom

import (
	"bufio"
	"fmt"
	"io"
)

// Image is a full copy of the EEPROM contents.
type Image struct {
	Bytes [Size]byte
}

// Flag returns the OHCI version flag byte.
func (img *Image) Flag() byte {
	return img.Bytes[FlagOffset]
}

// Mode decodes the OHCI version flag.
func (img *Image) Mode() Mode {
	return ModeFromFlag(img.Flag())
}

// WriteText writes the hex dump followed by the decoded mode.
func (img *Image) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for i, b := range img.Bytes {
		if i%BytesPerLine == 0 {
			fmt.Fprintf(bw, "%02X:", i)
		}
		fmt.Fprintf(bw, " %02X", b)
		if i%BytesPerLine == BytesPerLine-1 {
			bw.WriteByte('\n')
		}
	}
	if Size%BytesPerLine != 0 {
		bw.WriteByte('\n')
	}
	fmt.Fprintf(bw, "\nYour VT6307 chip is in %s mode\n", img.Mode())
	return bw.Flush()
}

// yamlImage is the YAML rendering of an Image.
type yamlImage struct {
	Size  int               `yaml:"size"`
	Mode  string            `yaml:"mode"`
	Flag  string            `yaml:"flag"`
	Bytes map[string]string `yaml:"bytes"`
}

// MarshalYAML renders the image as offset-keyed lines of hex bytes.
func (img *Image) MarshalYAML() (interface{}, error) {
	out := yamlImage{
		Size:  Size,
		Mode:  img.Mode().String(),
		Flag:  fmt.Sprintf("0x%02X", img.Flag()),
		Bytes: make(map[string]string, Size/BytesPerLine+1),
	}
	for off := 0; off < Size; off += BytesPerLine {
		end := off + BytesPerLine
		if end > Size {
			end = Size
		}
		out.Bytes[fmt.Sprintf("%02X", off)] = fmt.Sprintf("% X", img.Bytes[off:end])
	}
	return out, nil
}
