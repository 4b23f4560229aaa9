package display

import "github.com/wippyai/ev3dc/errors"

// unchanged marks pixels that are equal in both frames of a delta.
const unchanged uint8 = 2

// Segment is a horizontal run on row Y1 (Y1 == Y2) from column X1 to X2
// inclusive, drawn in Color.
type Segment struct {
	X1, Y1, X2, Y2 uint8
	Color          uint8
}

// Single reports whether the segment covers one pixel.
func (s Segment) Single() bool {
	return s.X1 == s.X2
}

// RunLength returns the runs of set pixels in bitmap, in row then column
// order. Every segment has Color 1.
func RunLength(bitmap Bitmap) ([]Segment, error) {
	if err := bitmap.Validate(); err != nil {
		return nil, err
	}

	var segs []Segment
	for y := 0; y < Height; y++ {
		row := bitmap[y*Width : (y+1)*Width]
		open := false
		start := 0
		for x, p := range row {
			switch {
			case p == 1 && !open:
				open = true
				start = x
			case p == 0 && open:
				open = false
				segs = append(segs, Segment{X1: uint8(start), Y1: uint8(y), X2: uint8(x - 1), Y2: uint8(y), Color: 1})
			}
		}
		if open {
			segs = append(segs, Segment{X1: uint8(start), Y1: uint8(y), X2: Width - 1, Y2: uint8(y), Color: 1})
		}
	}
	return segs, nil
}

// Delta returns the runs of changed pixels between prev and next. A run is
// a maximal span of changed pixels sharing the same new value; unchanged
// pixels end a run and are never drawn.
func Delta(prev, next Bitmap) ([]Segment, error) {
	if len(prev) != len(next) {
		return nil, errors.DimensionMismatch(errors.PhaseImage, len(next), len(prev))
	}
	if err := prev.Validate(); err != nil {
		return nil, err
	}
	if err := next.Validate(); err != nil {
		return nil, err
	}

	diff := make([]uint8, Pixels)
	for i := range diff {
		if prev[i] == next[i] {
			diff[i] = unchanged
		} else {
			diff[i] = next[i]
		}
	}

	var segs []Segment
	for y := 0; y < Height; y++ {
		row := diff[y*Width : (y+1)*Width]
		start := 0
		for x := 1; x <= Width; x++ {
			if x < Width && row[x] == row[start] {
				continue
			}
			if row[start] != unchanged {
				segs = append(segs, Segment{X1: uint8(start), Y1: uint8(y), X2: uint8(x - 1), Y2: uint8(y), Color: row[start]})
			}
			start = x
		}
	}
	return segs, nil
}
