// Command vt6307ohciver dumps the configuration EEPROM of a VIA VT6307
// FireWire controller, or switches the chip between OHCI 1.0 and 1.1.
//
// Usage:
//
//	vt6307ohciver [flags] <pci_device>          dump the EEPROM
//	vt6307ohciver [flags] <pci_device> 1.0|1.1  program the mode flag
//
// pci_device uses the lspci -s syntax, e.g. "02:00.0".
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-vt6307/device"
	"github.com/moffa90/go-vt6307/eeprom"
	"github.com/moffa90/go-vt6307/programmer"
	"github.com/moffa90/go-vt6307/protocol"
)

const banner = `VT6307 OHCI mode config
Version 1.0

Usage: vt6307ohciver [flags] <pci_device> [ 1.0 | 1.1 ]
`

// hardware is what the command needs from an opened chip.
type hardware interface {
	Port() protocol.Port
	Register() eeprom.Register
	Close() error
}

var openDevice = func(selector string, opts ...device.Option) (hardware, error) {
	dev, err := device.Open(selector, opts...)
	if err != nil {
		return nil, err
	}
	return dev, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	verbose    bool
	format     string
	maxPolls   int
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var opts options
	fs := flag.NewFlagSet("vt6307ohciver", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, banner, "\nFlags:\n")
		fs.PrintDefaults()
	}
	fs.StringVar(&opts.configPath, "config", "", "YAML timing profile")
	fs.BoolVar(&opts.verbose, "v", false, "verbose logging")
	fs.StringVar(&opts.format, "format", "text", "dump format: text or yaml")
	fs.IntVar(&opts.maxPolls, "max-polls", 0, "register polls per dump byte before giving up (0 = profile default)")

	if err := fs.Parse(args); err != nil {
		return 1
	}

	positional := fs.Args()
	mode := eeprom.ModeUnknown
	switch len(positional) {
	case 1:
	case 2:
		m, err := eeprom.ParseMode(positional[1])
		if err != nil {
			fs.Usage()
			return 1
		}
		mode = m
	default:
		fs.Usage()
		return 1
	}
	if opts.format != "text" && opts.format != "yaml" {
		fmt.Fprintf(stderr, "unknown format %q\n", opts.format)
		return 1
	}

	profile := programmer.DefaultProfile()
	if opts.configPath != "" {
		var err error
		if profile, err = programmer.LoadProfile(opts.configPath); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
	}
	if opts.maxPolls > 0 {
		profile.Dump.MaxPolls = opts.maxPolls
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	dev, err := openDevice(positional[0], device.WithLogger(logger))
	if err != nil {
		reportOpenError(stderr, positional[0], err)
		return 1
	}

	code := execute(ctx, dev, mode, profile, opts.format, logger, stdout, stderr)
	if err := dev.Close(); err != nil {
		fmt.Fprintf(stderr, "Failed to restore PCI command register: %v\n", err)
		return 1
	}
	return code
}

func execute(ctx context.Context, dev hardware, mode eeprom.Mode, profile *programmer.Profile,
	format string, logger *slog.Logger, stdout, stderr io.Writer) int {
	prog := programmer.New(dev.Port(), append(profile.Options(), programmer.WithLogger(logger))...)

	family, err := prog.DetectFamily()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stderr, "It seems your VT6307 chip is connected to %s EEPROM\n", family)

	if mode != eeprom.ModeUnknown {
		flagValue, _ := mode.Flag()
		if err := prog.WriteFlag(ctx, family, flagValue); err != nil {
			fmt.Fprintf(stderr, "Failed to write %s flag: %v\n", mode, err)
			return 1
		}
		fmt.Fprintln(stderr, "Please reboot")
		return 0
	}

	reader := eeprom.NewReader(dev.Register(), profile.ReaderOptions()...)
	img, err := reader.Dump(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "EEPROM dump failed: %v\n", err)
		return 1
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		err = enc.Encode(img)
		if err == nil {
			err = enc.Close()
		}
	default:
		fmt.Fprintln(stderr, "EEPROM dump:")
		err = img.WriteText(stdout)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func reportOpenError(w io.Writer, selector string, err error) {
	var sizeErr *device.RegionSizeError
	switch {
	case errors.Is(err, device.ErrInvalidSlot):
		fmt.Fprintln(w, "Invalid pci_device")
	case errors.Is(err, device.ErrNotFound):
		fmt.Fprintf(w, "Device %s not found\n", selector)
	case errors.As(err, &sizeErr):
		fmt.Fprintln(w, "Unexpected MEM/IO region size, is it VT6307 chip?")
	default:
		fmt.Fprintln(w, err)
	}
}
