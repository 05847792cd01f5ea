package programmer

import (
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-vt6307/eeprom"
	"github.com/moffa90/go-vt6307/protocol"
)

// Phase names reported through Progress.
const (
	PhaseDetecting = "detecting"
	PhaseEnabling  = "enabling"
	PhaseWriting   = "writing"
	PhaseReleasing = "releasing"
	PhaseComplete  = "complete"
)

// Programmer writes the OHCI version flag into the VT6307 configuration
// EEPROM, picking the protocol engine that matches the fitted part.
//
// Programmer is not safe for concurrent use; it owns the GPIO control
// register for the duration of every call.
type Programmer struct {
	port   protocol.Port
	lines  *protocol.Lines
	config Config
}

// New creates a new Programmer on the chip's I/O space.
//
// Example:
//
//	dev, _ := device.Open("02:00.0")
//	prog := programmer.New(dev.Port(),
//	    programmer.WithLogger(slog.Default()),
//	)
func New(port protocol.Port, opts ...Option) *Programmer {
	if port == nil {
		panic("port cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Programmer{
		port:   port,
		lines:  protocol.NewLines(port, cfg.Clock),
		config: cfg,
	}
}

// DetectFamily reads which EEPROM family the chip is strapped for.
func (p *Programmer) DetectFamily() (protocol.Family, error) {
	family, err := p.lines.Family()
	if err != nil {
		return 0, fmt.Errorf("detect family: %w", err)
	}
	p.logDebug("detected EEPROM", "family", family.String())
	return family, nil
}

// SetMode detects the EEPROM family and stores the flag for mode. The chip
// picks up the new mode after a reboot.
//
// Example:
//
//	family, err := prog.SetMode(ctx, eeprom.ModeOHCI11)
func (p *Programmer) SetMode(ctx context.Context, mode eeprom.Mode) (protocol.Family, error) {
	flag, ok := mode.Flag()
	if !ok {
		return 0, &InvalidModeError{Mode: mode}
	}

	p.reportProgress(Progress{Phase: PhaseDetecting})
	family, err := p.DetectFamily()
	if err != nil {
		return 0, err
	}

	if err := p.WriteFlag(ctx, family, flag); err != nil {
		return family, err
	}
	return family, nil
}

// WriteFlag takes over the EEPROM pins, runs one write session for family
// and hands the pins back. The pins are released even when the session
// fails.
//
// ctx is only checked before the session starts. Once the first line state
// is written the session always runs to the end; stopping half way leaves
// the EEPROM's command latch in an undefined state.
func (p *Programmer) WriteFlag(ctx context.Context, family protocol.Family, flag byte) error {
	write, addr, err := p.engine(family, flag)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	startTime := time.Now()
	progress := Progress{Family: family, Address: addr, Value: uint16(flag)}

	progress.Phase = PhaseEnabling
	p.reportProgress(progress)
	if err := p.lines.EnablePinAccess(); err != nil {
		return fmt.Errorf("enable pin access: %w", err)
	}

	p.logInfo("writing flag",
		"family", family.String(),
		"address", fmt.Sprintf("0x%02X", addr),
		"value", fmt.Sprintf("0x%02X", flag),
	)

	progress.Phase = PhaseWriting
	progress.ElapsedTime = time.Since(startTime)
	p.reportProgress(progress)
	sessionErr := write()
	if sessionErr != nil {
		p.logError("session failed", "error", sessionErr)
	}

	progress.Phase = PhaseReleasing
	progress.ElapsedTime = time.Since(startTime)
	p.reportProgress(progress)
	releaseErr := p.lines.ReleasePins()

	if sessionErr != nil {
		if releaseErr != nil {
			p.logError("release pins failed", "error", releaseErr)
		}
		return &SessionError{Family: family, Address: addr, Value: uint16(flag), Err: sessionErr}
	}
	if releaseErr != nil {
		return fmt.Errorf("release pins: %w", releaseErr)
	}

	p.logInfo("flag written",
		"family", family.String(),
		"elapsed", time.Since(startTime).String(),
	)

	progress.Phase = PhaseComplete
	progress.ElapsedTime = time.Since(startTime)
	p.reportProgress(progress)
	return nil
}

// engine returns the session for family and the address it writes.
func (p *Programmer) engine(family protocol.Family, flag byte) (func() error, uint8, error) {
	switch family {
	case protocol.FamilyTwoWire:
		bus := p.config.TwoWireBus
		if bus == nil {
			bus = protocol.NewTwoWire(p.lines, p.config.TwoWireTiming)
		}
		return func() error {
			return protocol.StoreByte(bus, protocol.FlagByteAddress, flag)
		}, protocol.FlagByteAddress, nil
	case protocol.FamilyFourWire:
		fw := protocol.NewFourWire(p.lines, p.config.FourWireTiming,
			protocol.WithEnableAddress(p.config.EnableAddress))
		return func() error {
			return fw.WriteWord(protocol.FlagWordAddress, uint16(flag))
		}, protocol.FlagWordAddress, nil
	default:
		return nil, 0, &UnknownFamilyError{Family: family}
	}
}

// reportProgress calls the progress callback if configured.
func (p *Programmer) reportProgress(progress Progress) {
	if p.config.ProgressCallback != nil {
		p.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (p *Programmer) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (p *Programmer) logInfo(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (p *Programmer) logError(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Error(msg, keysAndValues...)
	}
}
