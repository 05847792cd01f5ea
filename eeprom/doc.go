// Package eeprom reads back the VT6307 configuration EEPROM through the
// chip's GUID PROM register.
//
// # Register Protocol
//
// The GUID PROM register sits at memory base + 4. Its top byte takes
// commands and each command bit stays set while the chip is busy:
//
//	0x80000000  reset the internal byte counter
//	0x02000000  fetch the next byte into bits 23..16
//
// Reader polls the register until the command bit clears. Every wait is
// bounded by MaxPolls and by the caller's context; a register that never
// clears yields ErrBusyTimeout instead of hanging.
//
// # Usage
//
//	r := eeprom.NewReader(reg, eeprom.WithMaxPolls(10000))
//	img, err := r.Dump(ctx)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(img.Mode())
//
// # Dump Format
//
// Image.WriteText renders 16 bytes per line behind the hex offset, the same
// layout ParseReader accepts:
//
//	00: 06 11 00 00 ...
//	10: ...
package eeprom
