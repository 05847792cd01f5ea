package programmer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-vt6307/eeprom"
	"github.com/moffa90/go-vt6307/protocol"
)

// Profile overrides the built-in timing and polling defaults. It is read
// from YAML:
//
//	two_wire:
//	  bit_hold: 150us
//	  write_cycle: 5ms
//	four_wire:
//	  write_cycle: 10ms
//	enable_address: 0x30
//	dump:
//	  max_polls: 100000
//	  poll_interval: 1us
//
// Durations left out or set to zero keep their defaults. enable_address
// defaults to protocol.EnableWriteAddress, the EWEN code a real 93C46
// expects; programmers built without a profile send zero instead.
type Profile struct {
	TwoWire       protocol.TwoWireTiming  `yaml:"two_wire"`
	FourWire      protocol.FourWireTiming `yaml:"four_wire"`
	EnableAddress *uint8                  `yaml:"enable_address"`
	Dump          DumpProfile             `yaml:"dump"`
}

// DumpProfile configures the EEPROM dump reader.
type DumpProfile struct {
	MaxPolls     int           `yaml:"max_polls"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// DefaultProfile returns the built-in timing with the EWEN enable address.
func DefaultProfile() *Profile {
	addr := uint8(protocol.EnableWriteAddress)
	return &Profile{
		TwoWire:       protocol.DefaultTwoWireTiming(),
		FourWire:      protocol.DefaultFourWireTiming(),
		EnableAddress: &addr,
		Dump:          DumpProfile{MaxPolls: eeprom.DefaultMaxPolls},
	}
}

// LoadProfile reads a YAML profile from path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	pr, err := ParseProfile(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return pr, nil
}

// ParseProfile decodes a YAML profile. Unknown keys are rejected.
func ParseProfile(r io.Reader) (*Profile, error) {
	pr := &Profile{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(pr); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	pr.fillDefaults()
	if err := pr.validate(); err != nil {
		return nil, err
	}
	return pr, nil
}

// Options converts the profile into programmer options.
func (pr *Profile) Options() []Option {
	opts := []Option{
		WithTwoWireTiming(pr.TwoWire),
		WithFourWireTiming(pr.FourWire),
	}
	if pr.EnableAddress != nil {
		opts = append(opts, WithEnableAddress(*pr.EnableAddress))
	}
	return opts
}

// ReaderOptions converts the dump section into reader options.
func (pr *Profile) ReaderOptions() []eeprom.Option {
	return []eeprom.Option{
		eeprom.WithMaxPolls(pr.Dump.MaxPolls),
		eeprom.WithPollInterval(pr.Dump.PollInterval),
	}
}

func (pr *Profile) fillDefaults() {
	def := DefaultProfile()
	fill := func(d *time.Duration, v time.Duration) {
		if *d == 0 {
			*d = v
		}
	}

	fill(&pr.TwoWire.InitSettle, def.TwoWire.InitSettle)
	fill(&pr.TwoWire.BusIdle, def.TwoWire.BusIdle)
	fill(&pr.TwoWire.StartHold, def.TwoWire.StartHold)
	fill(&pr.TwoWire.BitHold, def.TwoWire.BitHold)
	fill(&pr.TwoWire.StopHold, def.TwoWire.StopHold)
	fill(&pr.TwoWire.WriteCycle, def.TwoWire.WriteCycle)

	fill(&pr.FourWire.SelectHold, def.FourWire.SelectHold)
	fill(&pr.FourWire.BitHold, def.FourWire.BitHold)
	fill(&pr.FourWire.CommandPause, def.FourWire.CommandPause)
	fill(&pr.FourWire.WriteCycle, def.FourWire.WriteCycle)

	if pr.Dump.MaxPolls == 0 {
		pr.Dump.MaxPolls = def.Dump.MaxPolls
	}
	if pr.EnableAddress == nil {
		pr.EnableAddress = def.EnableAddress
	}
}

func (pr *Profile) validate() error {
	durations := map[string]time.Duration{
		"two_wire.init_settle":    pr.TwoWire.InitSettle,
		"two_wire.bus_idle":       pr.TwoWire.BusIdle,
		"two_wire.start_hold":     pr.TwoWire.StartHold,
		"two_wire.bit_hold":       pr.TwoWire.BitHold,
		"two_wire.stop_hold":      pr.TwoWire.StopHold,
		"two_wire.write_cycle":    pr.TwoWire.WriteCycle,
		"four_wire.select_hold":   pr.FourWire.SelectHold,
		"four_wire.bit_hold":      pr.FourWire.BitHold,
		"four_wire.command_pause": pr.FourWire.CommandPause,
		"four_wire.write_cycle":   pr.FourWire.WriteCycle,
		"dump.poll_interval":      pr.Dump.PollInterval,
	}
	for name, d := range durations {
		if d < 0 {
			return fmt.Errorf("%s: negative duration %s", name, d)
		}
	}
	if pr.Dump.MaxPolls < 0 {
		return fmt.Errorf("dump.max_polls: must be positive, got %d", pr.Dump.MaxPolls)
	}
	if pr.EnableAddress != nil && *pr.EnableAddress > protocol.MaxWordAddress {
		return fmt.Errorf("enable_address: 0x%02X exceeds 0x%02X", *pr.EnableAddress, protocol.MaxWordAddress)
	}
	return nil
}
