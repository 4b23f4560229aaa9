// Package command builds direct-command packets.
//
// A Command owns the bytecode of one direct command and accounts for the
// local and global variable memory the program uses. Allocate hands out
// stack addresses; Bytes frames the finished program for the transport.
//
//	cmd := command.New()
//	addr, err := cmd.Allocate(command.Data8{}, true)
//	cmd.Bytecode = append([]byte{0x81, 0x12}, addr...)
//	packet, err := cmd.Bytes()
//	buf := make([]byte, cmd.ReplySize())
//
// A Command is not safe for concurrent use. Call Free before reusing a
// Command for an unrelated exchange: the allocation counters are written to
// every packet header and stale offsets corrupt the remote stack frame.
package command

import (
	"github.com/wippyai/ev3dc/errors"
	"github.com/wippyai/ev3dc/param"
)

// DefaultID is the message counter used by a new Command.
const DefaultID uint16 = 170

// Memory axis limits. The allocation word is a uint16 holding the global
// counter in its low 10 bits and the local counter in the upper 6 bits.
const (
	GlobalBits  = 10
	LocalBits   = 16 - GlobalBits
	GlobalLimit = 1<<GlobalBits - 1
	LocalLimit  = 1<<LocalBits - 1
)

// Allocation holds the two independently bounded stack counters.
type Allocation struct {
	Local  uint16
	Global uint16
}

// Word packs the counters into the header's allocation field.
func (a Allocation) Word() uint16 {
	return a.Local<<GlobalBits | a.Global&GlobalLimit
}

// AllocationFromWord unpacks a header allocation field.
func AllocationFromWord(w uint16) Allocation {
	return Allocation{Local: w >> GlobalBits, Global: w & GlobalLimit}
}

// Command is a direct command under construction.
type Command struct {
	Bytecode []byte
	ID       uint16
	Reply    bool

	alloc Allocation
}

// New returns an empty command expecting a reply.
func New() *Command {
	return &Command{ID: DefaultID, Reply: true}
}

// Allocation returns the current counters.
func (c *Command) Allocation() Allocation {
	return c.alloc
}

// Allocate reserves memory for dt and returns the encoded address of the
// new variable. Addresses are assigned before the counter advances, so the
// first allocation on an axis gets address 0. Global variables are the ones
// readable back in the reply; locals are scratch space for this command.
//
// Only the axis being allocated is checked against its limit, so a full
// local stack does not block a global allocation.
//
// On failure the counters are left unchanged.
func (c *Command) Allocate(dt DataType, global bool) ([]byte, error) {
	if n := declaredLength(dt); n < 0 {
		return nil, errors.InvalidRange(errors.PhaseAllocate, []string{dt.String()}, n, 0, GlobalLimit)
	}
	size := dt.Size()
	if size < 0 || size > GlobalLimit {
		return nil, errors.InvalidRange(errors.PhaseAllocate, []string{dt.String()}, size, 0, GlobalLimit)
	}
	mem := uint16(size)

	var addr uint16
	if global {
		if int(c.alloc.Global)+size > GlobalLimit {
			return nil, &errors.AllocationError{Axis: errors.AxisGlobal, Requested: size, Used: int(c.alloc.Global), Limit: GlobalLimit}
		}
		addr = c.alloc.Global
	} else {
		if int(c.alloc.Local)+size > LocalLimit {
			return nil, &errors.AllocationError{Axis: errors.AxisLocal, Requested: size, Used: int(c.alloc.Local), Limit: LocalLimit}
		}
		addr = c.alloc.Local
	}

	enc, err := addressEncoding(addr, global)
	if err != nil {
		return nil, err
	}
	out, err := param.Encode(enc)
	if err != nil {
		return nil, err
	}

	if global {
		c.alloc.Global += mem
	} else {
		c.alloc.Local += mem
	}
	return out, nil
}

// Free releases all allocated memory. Bytecode that references addresses
// handed out before Free must not be sent again.
func (c *Command) Free() {
	c.alloc = Allocation{}
}

// ReservedBytes returns the memory reserved on both axes.
func (c *Command) ReservedBytes() int {
	return int(c.alloc.Local) + int(c.alloc.Global)
}

// ReplySize returns the size of a buffer able to hold the reply.
func (c *Command) ReplySize() int {
	return 5 + c.ReservedBytes()
}

// declaredLength returns the element count of array and string types, 0 otherwise.
func declaredLength(dt DataType) int {
	switch d := dt.(type) {
	case DataN:
		return d.N
	case DataS:
		return d.N
	}
	return 0
}

// addressEncoding picks the narrowest address form for addr.
func addressEncoding(addr uint16, global bool) (param.Encoding, error) {
	switch {
	case addr <= param.MaxShortAddress:
		if global {
			return param.GV0(addr), nil
		}
		return param.LV0(addr), nil
	case addr <= param.MaxByteAddress:
		if global {
			return param.GV1(addr), nil
		}
		return param.LV1(addr), nil
	case global:
		return param.GV2(addr), nil
	default:
		return nil, errors.New(errors.PhaseAllocate, errors.KindInvalidRange).
			Value(addr).
			Detail("local address %d has no wire form", addr).
			Build()
	}
}
