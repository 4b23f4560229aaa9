package reply

import (
	"github.com/wippyai/ev3dc/command"
	"github.com/wippyai/ev3dc/errors"
	"github.com/wippyai/ev3dc/internal/wire"
)

// Cursor walks reply memory in allocation order.
type Cursor struct {
	r *wire.Reader
}

// NewCursor returns a cursor at the start of mem.
func NewCursor(mem []byte) *Cursor {
	return &Cursor{r: wire.NewReader(mem)}
}

// Offset returns the number of bytes consumed.
func (c *Cursor) Offset() int {
	return c.r.Position()
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return c.r.Len()
}

// Next returns the raw bytes of the next variable of type dt.
func (c *Cursor) Next(dt command.DataType) ([]byte, error) {
	if err := c.need(dt); err != nil {
		return nil, err
	}
	return c.r.ReadBytes(dt.Size())
}

// Split slices mem into one entry per data type.
func Split(mem []byte, types ...command.DataType) ([][]byte, error) {
	c := NewCursor(mem)
	out := make([][]byte, 0, len(types))
	for _, dt := range types {
		b, err := c.Next(dt)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// U8 reads a DATA8 variable.
func (c *Cursor) U8() (uint8, error) {
	if err := c.need(command.Data8{}); err != nil {
		return 0, err
	}
	return c.r.ReadByte()
}

// U16 reads a DATA16 variable.
func (c *Cursor) U16() (uint16, error) {
	if err := c.need(command.Data16{}); err != nil {
		return 0, err
	}
	return c.r.ReadU16LE()
}

// U32 reads a DATA32 variable.
func (c *Cursor) U32() (uint32, error) {
	if err := c.need(command.Data32{}); err != nil {
		return 0, err
	}
	return c.r.ReadU32LE()
}

// F32 reads a DATAF variable.
func (c *Cursor) F32() (float32, error) {
	if err := c.need(command.DataF{}); err != nil {
		return 0, err
	}
	return c.r.ReadF32LE()
}

// String reads a DATAS(n) variable and returns the text before the first NUL.
func (c *Cursor) String(n int) (string, error) {
	b, err := c.Next(command.DataS{N: n})
	if err != nil {
		return "", err
	}
	return ReadString(b), nil
}

// need fails without consuming input when dt does not fit.
func (c *Cursor) need(dt command.DataType) error {
	if dt.Size() <= c.r.Len() && dt.Size() >= 0 {
		return nil
	}
	return errors.New(errors.PhaseDecode, errors.KindDimensionMismatch).
		Path(dt.String()).
		Value(c.r.Position()).
		Detail("need %d bytes at offset %d, have %d", dt.Size(), c.r.Position(), c.r.Len()).
		Build()
}
