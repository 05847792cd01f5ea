//go:build linux && (amd64 || 386)

package device

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/u-root/u-root/pkg/memio"
	"github.com/u-root/u-root/pkg/pci"
	"golang.org/x/sys/unix"

	"github.com/moffa90/go-vt6307/eeprom"
)

// Open finds the VT6307 matching selector, checks its regions and enables
// I/O decoding if the BIOS left it off.
//
// Example:
//
//	dev, err := device.Open("02:00.0", device.WithLogger(slog.Default()))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
func Open(selector string, opts ...Option) (*Device, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	slot, err := ParseSlot(selector)
	if err != nil {
		return nil, err
	}

	if unix.Geteuid() != 0 {
		return nil, ErrPrivilege
	}
	if err := unix.Iopl(3); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPrivilege, err)
	}

	bus, err := pci.NewBusReader()
	if err != nil {
		return nil, fmt.Errorf("failed to scan PCI bus: %w", err)
	}
	devs, err := bus.Read(func(p *pci.PCI) bool {
		return p.Vendor == VendorID && p.Device == DeviceID && slot.Match(p.Addr)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan PCI bus: %w", err)
	}
	if len(devs) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, selector)
	}
	p := devs[0]

	regions, err := readResources(p.FullPath)
	if err != nil {
		return nil, err
	}
	memBase, ioBase, err := CheckRegions(regions)
	if err != nil {
		return nil, err
	}

	mem, err := memio.NewMMap("/dev/mem")
	if err != nil {
		return nil, fmt.Errorf("open /dev/mem: %w", err)
	}
	ports := &memio.ArchPort{}

	command, err := p.ReadConfigRegister(CommandOffset, 16)
	if err != nil {
		mem.Close()
		return nil, fmt.Errorf("read PCI command: %w", err)
	}
	if command&CommandIO == 0 {
		cfg.info("device disabled, trying to enable it", "addr", p.Addr)
		if err := p.WriteConfigRegister(CommandOffset, 16, command|CommandIO); err != nil {
			mem.Close()
			return nil, fmt.Errorf("enable I/O decoding: %w", err)
		}
	}

	cfg.info("found VT6307",
		"addr", p.Addr,
		"io", fmt.Sprintf("0x%04X", ioBase),
		"mem", fmt.Sprintf("0x%08X", memBase),
	)

	return &Device{
		Addr:     p.Addr,
		IOBase:   ioBase,
		MemBase:  memBase,
		port:     &ioPort{rw: ports, base: ioBase},
		register: &mmioRegister{mem: mem, addr: int64(memBase + eeprom.RegisterOffset)},
		close: func() error {
			err := errors.Join(mem.Close(), ports.Close())
			if command&CommandIO != 0 {
				return err
			}
			cfg.info("disabling device", "addr", p.Addr)
			return errors.Join(err, p.WriteConfigRegister(CommandOffset, 16, command))
		},
	}, nil
}

func readResources(sysfsPath string) ([]Region, error) {
	f, err := os.Open(filepath.Join(sysfsPath, "resource"))
	if err != nil {
		return nil, fmt.Errorf("failed to read regions: %w", err)
	}
	defer f.Close()
	return ParseResources(f)
}
