package device

import (
	"github.com/u-root/u-root/pkg/memio"
)

// ioPort is the chip's I/O port window. Every access is a full 32-bit
// in/out at base+offset.
type ioPort struct {
	rw   memio.PortReadWriter
	base uint16
}

func (p *ioPort) In32(offset uint16) (uint32, error) {
	var v memio.Uint32
	if err := p.rw.In(p.base+offset, &v); err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func (p *ioPort) Out32(offset uint16, value uint32) error {
	v := memio.Uint32(value)
	return p.rw.Out(p.base+offset, &v)
}

// physMem is random access to physical memory. *memio.MMap satisfies it.
type physMem interface {
	ReadAt(addr int64, data memio.UintN) error
	WriteAt(addr int64, data memio.UintN) error
	Close() error
}

// mmioRegister is one 32-bit register in physical memory.
type mmioRegister struct {
	mem  physMem
	addr int64
}

func (r *mmioRegister) Read32() (uint32, error) {
	var v memio.Uint32
	if err := r.mem.ReadAt(r.addr, &v); err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Write32 reads the register back to flush posted writes.
func (r *mmioRegister) Write32(value uint32) error {
	v := memio.Uint32(value)
	if err := r.mem.WriteAt(r.addr, &v); err != nil {
		return err
	}
	_, err := r.Read32()
	return err
}
