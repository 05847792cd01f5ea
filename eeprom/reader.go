package eeprom

import (
	"context"
	"fmt"
	"time"

	"github.com/moffa90/go-vt6307/protocol"
)

// Register is 32-bit access to the GUID PROM register. Write32 must not
// return before the write has reached the chip.
type Register interface {
	Read32() (uint32, error)
	Write32(value uint32) error
}

// Config holds the reader configuration.
type Config struct {
	// MaxPolls bounds the register reads spent waiting for one command
	MaxPolls int

	// PollInterval is slept between busy reads; zero spins
	PollInterval time.Duration

	// Clock provides PollInterval sleeps
	Clock protocol.Clock
}

func defaultConfig() Config {
	return Config{
		MaxPolls: DefaultMaxPolls,
		Clock:    protocol.SystemClock{},
	}
}

// Option is a functional option for configuring the Reader.
type Option func(*Config)

// WithMaxPolls sets the busy wait bound. Non-positive values are ignored.
func WithMaxPolls(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxPolls = n
		}
	}
}

// WithPollInterval sets the sleep between busy reads.
func WithPollInterval(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.PollInterval = d
		}
	}
}

// WithClock replaces the clock used for poll sleeps.
func WithClock(clock protocol.Clock) Option {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// Reader fetches EEPROM bytes one at a time through the GUID PROM register.
// It is not safe for concurrent use; the chip has a single byte counter.
type Reader struct {
	reg    Register
	config Config

	// next is the index the chip's counter points at, -1 if unknown.
	next int

	// polls is the number of reads the last wait took.
	polls int
}

// NewReader returns a Reader on reg.
func NewReader(reg Register, opts ...Option) *Reader {
	if reg == nil {
		panic("register cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Reader{reg: reg, config: cfg, next: -1}
}

// Polls returns how many register reads the last command waited.
func (r *Reader) Polls() int {
	return r.polls
}

// Reset rewinds the chip's byte counter to zero.
func (r *Reader) Reset(ctx context.Context) error {
	if _, err := r.command(ctx, CmdReset); err != nil {
		return fmt.Errorf("reset counter: %w", err)
	}
	r.next = 0
	return nil
}

// Next fetches the byte at the chip's counter and advances it.
func (r *Reader) Next(ctx context.Context) (byte, error) {
	v, err := r.command(ctx, CmdNext)
	if err != nil {
		return 0, fmt.Errorf("fetch byte: %w", err)
	}
	if r.next >= 0 {
		r.next++
	}
	return byte(v >> DataShift & DataMask), nil
}

// ReadByte implements io.ByteReader on top of Next.
func (r *Reader) ReadByte() (byte, error) {
	return r.Next(context.Background())
}

// ReadAt returns the byte at index, rewinding the counter when it is
// already past index.
func (r *Reader) ReadAt(ctx context.Context, index int) (byte, error) {
	if index < 0 || index >= Size {
		return 0, &IndexError{Index: index}
	}
	if r.next < 0 || r.next > index {
		if err := r.Reset(ctx); err != nil {
			return 0, err
		}
	}
	for r.next < index {
		if _, err := r.Next(ctx); err != nil {
			return 0, err
		}
	}
	return r.Next(ctx)
}

// Dump rewinds the counter and reads the whole EEPROM.
func (r *Reader) Dump(ctx context.Context) (*Image, error) {
	if err := r.Reset(ctx); err != nil {
		return nil, err
	}

	img := &Image{}
	for i := range img.Bytes {
		b, err := r.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("byte 0x%02X: %w", i, err)
		}
		img.Bytes[i] = b
	}
	return img, nil
}

// command writes cmd and polls until its busy bit clears, returning the
// first register value seen idle.
func (r *Reader) command(ctx context.Context, cmd uint32) (uint32, error) {
	r.polls = 0
	if err := r.reg.Write32(cmd); err != nil {
		r.next = -1
		return 0, err
	}

	for r.polls < r.config.MaxPolls {
		if err := ctx.Err(); err != nil {
			r.next = -1
			return 0, err
		}

		r.polls++
		v, err := r.reg.Read32()
		if err != nil {
			r.next = -1
			return 0, err
		}
		if v&cmd == 0 {
			return v, nil
		}

		if r.config.PollInterval > 0 {
			r.config.Clock.Sleep(r.config.PollInterval)
		}
	}

	r.next = -1
	return 0, fmt.Errorf("command 0x%08X after %d polls: %w", cmd, r.polls, ErrBusyTimeout)
}
