// Package reply decodes direct-command replies.
//
// A reply is a fixed 5-byte header followed by the global memory of the
// command that produced it:
//
//	[length:u16][id:u16][status:u8][memory...]
//
// The memory is opaque until sliced with the same DataType layout that was
// used to allocate it; see Cursor.
package reply

import (
	"github.com/wippyai/ev3dc/errors"
	"github.com/wippyai/ev3dc/internal/wire"
)

// HeaderSize is the size of the fixed reply header.
const HeaderSize = 5

// Status byte values
const (
	StatusOK    byte = 0x02
	StatusError byte = 0x20
)

// Reply is an immutable decoded reply.
type Reply struct {
	memory []byte
	length uint16
	id     uint16
	status byte
}

// Parse decodes a reply packet. Every byte after the header is memory, so
// the caller sizes the buffer with command.Command.ReplySize.
func Parse(packet []byte) (*Reply, error) {
	if len(packet) < HeaderSize {
		return nil, errors.DimensionMismatch(errors.PhaseDecode, len(packet), HeaderSize)
	}

	r := wire.NewReader(packet)
	length, err := r.ReadU16LE()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindDimensionMismatch, err, "read length")
	}
	id, err := r.ReadU16LE()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindDimensionMismatch, err, "read id")
	}
	status, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindDimensionMismatch, err, "read status")
	}
	mem, err := r.ReadRemaining()
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindDimensionMismatch, err, "read memory")
	}

	return &Reply{length: length, id: id, status: status, memory: mem}, nil
}

// Length returns the reply length field, which excludes its own 2 bytes.
func (r *Reply) Length() uint16 { return r.length }

// ID returns the reply id. A reply answers the command with the same id.
func (r *Reply) ID() uint16 { return r.id }

// Status returns the raw status byte.
func (r *Reply) Status() byte { return r.status }

// Error reports whether the brick flagged the command as failed.
func (r *Reply) Error() bool { return r.status == StatusError }

// Memory returns the global memory payload. The slice must not be modified.
func (r *Reply) Memory() []byte { return r.memory }
