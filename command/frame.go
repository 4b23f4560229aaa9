package command

import (
	"github.com/wippyai/ev3dc/errors"
	"github.com/wippyai/ev3dc/internal/wire"
)

// Reply flag values of the header type byte
const (
	FlagReply   byte = 0x00
	FlagNoReply byte = 0x80
)

// HeaderSize is the number of bytes counted by the length field before the bytecode.
const HeaderSize = 5

// MaxBytecode is the longest bytecode whose length still fits the u16 length field.
const MaxBytecode = 0xFFFF - HeaderSize

// Bytes frames the command for the transport:
//
//	[length:u16][id:u16][flag:u8][allocation:u16][bytecode...]
//
// All fields are little-endian. length counts every byte after itself.
func (c *Command) Bytes() ([]byte, error) {
	if len(c.Bytecode) > MaxBytecode {
		return nil, errors.InvalidRange(errors.PhaseFrame, []string{"bytecode"}, len(c.Bytecode), 0, MaxBytecode)
	}

	w := wire.NewWriterSize(2 + HeaderSize + len(c.Bytecode))
	w.WriteU16LE(0) // patched below
	w.WriteU16LE(c.ID)
	if c.Reply {
		w.Byte(FlagReply)
	} else {
		w.Byte(FlagNoReply)
	}
	w.WriteU16LE(c.alloc.Word())
	w.WriteBytes(c.Bytecode)
	w.PatchU16LE(0, uint16(HeaderSize+len(c.Bytecode)))
	return w.Bytes(), nil
}
