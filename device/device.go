// Package device finds a VT6307 on the PCI bus and exposes its I/O space
// and GUID PROM register to the protocol and eeprom packages.
//
// Open needs root on Linux x86. On every other platform it returns
// ErrUnsupported; the slot and region helpers work everywhere.
package device

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/moffa90/go-vt6307/eeprom"
	"github.com/moffa90/go-vt6307/protocol"
)

// PCI identity and region sizes of a VT6307.
const (
	VendorID = 0x1106
	DeviceID = 0x3044

	// MemSize is the size of BAR0, the memory-mapped register window.
	MemSize = 0x800

	// IOSize is the size of BAR1, the I/O port window.
	IOSize = 0x80
)

// PCI command register.
const (
	CommandOffset = 0x04
	CommandIO     = 0x0001
)

// Resource flag bits as reported by sysfs.
const (
	resourceIO  = 0x100
	resourceMem = 0x200
)

var (
	// ErrNotFound is returned when no VT6307 matches the selector.
	ErrNotFound = errors.New("device not found")

	// ErrUnsupported is returned by Open on platforms without port I/O.
	ErrUnsupported = errors.New("direct hardware access not supported on this platform")

	// ErrPrivilege is returned when I/O privilege cannot be acquired.
	ErrPrivilege = errors.New("iopl() failed (must be root)")

	// ErrInvalidSlot is returned by ParseSlot.
	ErrInvalidSlot = errors.New("invalid pci_device")
)

// RegionSizeError reports BAR sizes that do not match a VT6307.
type RegionSizeError struct {
	MemSize uint64
	IOSize  uint64
}

func (e *RegionSizeError) Error() string {
	return fmt.Sprintf("unexpected MEM/IO region size 0x%X/0x%X, is it VT6307 chip?", e.MemSize, e.IOSize)
}

// Slot selects PCI functions the way lspci -s does. Negative fields match
// anything.
type Slot struct {
	Domain   int
	Bus      int
	Device   int
	Function int
}

// AnySlot matches every function on every bus.
var AnySlot = Slot{Domain: -1, Bus: -1, Device: -1, Function: -1}

// ParseSlot parses "[[[domain]:]bus:][device][.[func]]" with hexadecimal
// fields. Empty fields and "*" match anything.
func ParseSlot(s string) (Slot, error) {
	slot := AnySlot

	addr, fn, hasFn := strings.Cut(s, ".")
	if hasFn {
		v, err := slotField(fn, 7)
		if err != nil {
			return Slot{}, fmt.Errorf("%w: function %q: %v", ErrInvalidSlot, fn, err)
		}
		slot.Function = v
	}

	parts := strings.Split(addr, ":")
	if len(parts) > 3 {
		return Slot{}, fmt.Errorf("%w: too many fields in %q", ErrInvalidSlot, s)
	}

	fields := []struct {
		dst  *int
		max  int
		name string
	}{
		{&slot.Device, 0x1F, "device"},
		{&slot.Bus, 0xFF, "bus"},
		{&slot.Domain, 0xFFFF, "domain"},
	}
	for i := range parts {
		part := parts[len(parts)-1-i]
		f := fields[i]
		v, err := slotField(part, f.max)
		if err != nil {
			return Slot{}, fmt.Errorf("%w: %s %q: %v", ErrInvalidSlot, f.name, part, err)
		}
		*f.dst = v
	}
	return slot, nil
}

func slotField(s string, limit int) (int, error) {
	if s == "" || s == "*" {
		return -1, nil
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, err
	}
	if v > uint64(limit) {
		return 0, fmt.Errorf("exceeds 0x%X", limit)
	}
	return int(v), nil
}

// Match reports whether addr, in "dddd:bb:dd.f" form, is selected.
func (s Slot) Match(addr string) bool {
	var domain, bus, dev, fn int
	if _, err := fmt.Sscanf(addr, "%x:%x:%x.%x", &domain, &bus, &dev, &fn); err != nil {
		return false
	}
	return matchField(s.Domain, domain) &&
		matchField(s.Bus, bus) &&
		matchField(s.Device, dev) &&
		matchField(s.Function, fn)
}

func matchField(want, got int) bool {
	return want < 0 || want == got
}

func (s Slot) String() string {
	f := func(v int, width int) string {
		if v < 0 {
			return "*"
		}
		return fmt.Sprintf("%0*x", width, v)
	}
	return fmt.Sprintf("%s:%s:%s.%s", f(s.Domain, 4), f(s.Bus, 2), f(s.Device, 2), f(s.Function, 1))
}

// Region is one PCI base address region.
type Region struct {
	Start uint64
	End   uint64
	Flags uint64
}

// Size returns the region length, zero for an unassigned region.
func (r Region) Size() uint64 {
	if r.Start == 0 && r.End == 0 {
		return 0
	}
	return r.End - r.Start + 1
}

// IsIO reports whether the region lives in I/O port space.
func (r Region) IsIO() bool { return r.Flags&resourceIO != 0 }

// IsMem reports whether the region is memory mapped.
func (r Region) IsMem() bool { return r.Flags&resourceMem != 0 }

// ParseResources reads a sysfs "resource" file: one line per region with
// hexadecimal start, end and flags.
func ParseResources(r io.Reader) ([]Region, error) {
	var regions []Region
	scanner := bufio.NewScanner(r)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("resource line %d: expected 3 fields, got %d", lineNum, len(fields))
		}
		var vals [3]uint64
		for i, f := range fields {
			v, err := strconv.ParseUint(strings.TrimPrefix(f, "0x"), 16, 64)
			if err != nil {
				return nil, fmt.Errorf("resource line %d: %w", lineNum, err)
			}
			vals[i] = v
		}
		regions = append(regions, Region{Start: vals[0], End: vals[1], Flags: vals[2]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read resources: %w", err)
	}
	return regions, nil
}

// CheckRegions verifies BAR0 and BAR1 and returns their base addresses.
func CheckRegions(regions []Region) (memBase uint64, ioBase uint16, err error) {
	var mem, ports Region
	if len(regions) > 0 {
		mem = regions[0]
	}
	if len(regions) > 1 {
		ports = regions[1]
	}
	if mem.Size() != MemSize || ports.Size() != IOSize || !mem.IsMem() || !ports.IsIO() {
		return 0, 0, &RegionSizeError{MemSize: mem.Size(), IOSize: ports.Size()}
	}
	if ports.End > 0xFFFF {
		return 0, 0, fmt.Errorf("I/O region 0x%X outside port space", ports.Start)
	}
	return mem.Start, uint16(ports.Start), nil
}

// Logger receives status messages from Open and Close. *slog.Logger
// satisfies it.
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
}

type config struct {
	logger Logger
}

// Option configures Open.
type Option func(*config)

// WithLogger reports enumeration and enable/restore steps to logger.
func WithLogger(logger Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func (c *config) info(msg string, keysAndValues ...interface{}) {
	if c.logger != nil {
		c.logger.Info(msg, keysAndValues...)
	}
}

// Device is an opened VT6307. Close restores the PCI command register.
type Device struct {
	// Addr is the PCI address, "dddd:bb:dd.f".
	Addr string

	// IOBase is the start of the I/O port window (BAR1).
	IOBase uint16

	// MemBase is the start of the register window (BAR0).
	MemBase uint64

	port     protocol.Port
	register eeprom.Register
	close    func() error
}

// Port returns the chip's I/O space, offsets relative to IOBase.
func (d *Device) Port() protocol.Port {
	return d.port
}

// Register returns the GUID PROM register at MemBase + eeprom.RegisterOffset.
func (d *Device) Register() eeprom.Register {
	return d.register
}

// Close restores the PCI command register if Open changed it.
func (d *Device) Close() error {
	if d.close == nil {
		return nil
	}
	err := d.close()
	d.close = nil
	return err
}
