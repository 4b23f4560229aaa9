package display

import (
	"fmt"

	"github.com/wippyai/ev3dc/internal/wire"
	"github.com/wippyai/ev3dc/param"
)

// Draw opcode and sub-commands used by the printer
const (
	OpDraw    byte = 0x84
	DrawPixel byte = 0x02
	DrawLine  byte = 0x03
)

// Printer converts segments into draw fragments, one per segment:
//
//	single pixel: 0x84 0x02 LC0(color) LC2(x) LC2(y)
//	line:         0x84 0x03 LC0(color) LC2(x1) LC2(y1) LC2(x2) LC2(y2)
func Printer(segs []Segment) ([][]byte, error) {
	out := make([][]byte, 0, len(segs))
	for i, s := range segs {
		frag, err := Fragment(s)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		out = append(out, frag)
	}
	return out, nil
}

// Fragment encodes one segment.
func Fragment(s Segment) ([]byte, error) {
	w := wire.NewWriterSize(15)
	w.Byte(OpDraw)
	params := []param.Encoding{param.LC0(s.Color), param.LC2(s.X1), param.LC2(s.Y1)}
	if s.Single() {
		w.Byte(DrawPixel)
	} else {
		w.Byte(DrawLine)
		params = append(params, param.LC2(s.X2), param.LC2(s.Y2))
	}
	b, err := param.EncodeAll(params...)
	if err != nil {
		return nil, err
	}
	w.WriteBytes(b)
	return w.Bytes(), nil
}
