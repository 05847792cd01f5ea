package eeprom

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Parse reads a text dump, as written by Image.WriteText, from path.
//
// Example:
//
//	img, err := eeprom.Parse("vt6307.dump")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(img.Mode())
func Parse(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f)
}

// ParseReader reads a text dump from any io.Reader. Lines without an
// "XX:" offset prefix are skipped. Every byte of the EEPROM must be present.
func ParseReader(r io.Reader) (*Image, error) {
	scanner := bufio.NewScanner(r)

	img := &Image{}
	var seen [Size]bool
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		offset, rest, ok := splitOffset(line)
		if !ok {
			continue
		}

		data, err := parseBytes(rest)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if offset+len(data) > Size {
			return nil, fmt.Errorf("line %d: %d bytes at 0x%02X overrun the %d byte EEPROM",
				lineNum, len(data), offset, Size)
		}

		for i, b := range data {
			img.Bytes[offset+i] = b
			seen[offset+i] = true
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read dump: %w", err)
	}

	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("byte 0x%02X missing from dump", i)
		}
	}

	return img, nil
}

// splitOffset splits "10: 00 01" into 0x10 and "00 01".
func splitOffset(line string) (int, string, bool) {
	head, rest, found := strings.Cut(line, ":")
	if !found || len(head) == 0 || len(head) > 2 {
		return 0, "", false
	}
	offset, err := strconv.ParseUint(head, 16, 8)
	if err != nil {
		return 0, "", false
	}
	return int(offset), rest, true
}

// parseBytes decodes space separated hex bytes.
func parseBytes(s string) ([]byte, error) {
	fields := strings.Fields(s)
	out := make([]byte, 0, len(fields))
	for _, f := range fields {
		if len(f) != 2 {
			return nil, fmt.Errorf("invalid byte %q", f)
		}
		b, err := hex.DecodeString(f)
		if err != nil {
			return nil, fmt.Errorf("invalid hex data: %w", err)
		}
		out = append(out, b[0])
	}
	return out, nil
}
