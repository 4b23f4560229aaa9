package param

import (
	"fmt"
	"math"
	"strings"

	"github.com/wippyai/ev3dc/errors"
	"github.com/wippyai/ev3dc/internal/wire"
)

// Encode encodes a parameter to its wire representation.
// Use command.Command.Allocate to get addresses that track the stack.
func Encode(e Encoding) ([]byte, error) {
	w := wire.NewWriterSize(5)
	if err := encodeTo(w, e); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// EncodeAll encodes each parameter in order and concatenates the results.
func EncodeAll(es ...Encoding) ([]byte, error) {
	w := wire.NewWriterSize(len(es) * 3)
	for i, e := range es {
		if err := encodeTo(w, e); err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
	}
	return w.Bytes(), nil
}

// AutoConst encodes val with the narrowest constant form that holds it.
func AutoConst(val int32) ([]byte, error) {
	mag := int64(val)
	if mag < 0 {
		mag = -mag
	}
	switch {
	case mag <= MaxShortConst:
		return Encode(LC0(val))
	case mag <= math.MaxInt8:
		return Encode(LC1(val))
	case mag <= math.MaxInt16:
		return Encode(LC2(val))
	default:
		return Encode(LC4(val))
	}
}

func encodeTo(w *wire.Writer, e Encoding) error {
	switch v := e.(type) {
	case LC0:
		if v > MaxShortConst {
			return errors.PositiveOverflow(errors.PhaseEncode, int8(v), MaxShortConst)
		}
		if v < MinShortConst {
			return errors.NegativeUnderflow(errors.PhaseEncode, int8(v), MinShortConst)
		}
		head, mag := signMagnitude(int64(v))
		w.Byte(head | byte(mag)&shortMask)

	case LC1:
		if v == math.MinInt8 {
			return errors.NegativeUnderflow(errors.PhaseEncode, int8(v), math.MinInt8)
		}
		head, mag := signMagnitude(int64(v))
		w.Byte(FlagLong | head | WidthByte)
		w.Byte(byte(mag))

	case LC2:
		if v == math.MinInt16 {
			return errors.NegativeUnderflow(errors.PhaseEncode, int16(v), math.MinInt16)
		}
		head, mag := signMagnitude(int64(v))
		w.Byte(FlagLong | head | WidthShort)
		w.WriteU16LE(uint16(mag))

	case LC4:
		if v == math.MinInt32 {
			return errors.NegativeUnderflow(errors.PhaseEncode, int32(v), math.MinInt32)
		}
		head, mag := signMagnitude(int64(v))
		w.Byte(FlagLong | head | WidthWord)
		w.WriteU32LE(uint32(mag))

	case LCF:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return errors.InvalidValue(errors.PhaseEncode, []string{"lcf"}, float32(v), "finite float")
		}
		w.Byte(FlagLong | WidthWord)
		w.WriteU32LE(math.Float32bits(float32(v)))

	case LV0:
		if v > MaxShortAddress {
			return errors.PositiveOverflow(errors.PhaseEncode, uint8(v), MaxShortAddress)
		}
		w.Byte(FlagVariable | byte(v))

	case GV0:
		if v > MaxShortAddress {
			return errors.PositiveOverflow(errors.PhaseEncode, uint8(v), MaxShortAddress)
		}
		w.Byte(FlagVariable | FlagGlobal | byte(v))

	case LV1:
		w.Byte(FlagLong | FlagVariable | WidthByte)
		w.Byte(byte(v))

	case GV1:
		w.Byte(FlagLong | FlagVariable | FlagGlobal | WidthByte)
		w.Byte(byte(v))

	case GV2:
		w.Byte(FlagLong | FlagVariable | FlagGlobal | WidthShort)
		w.WriteU16LE(uint16(v))

	case LCS:
		if i := strings.IndexByte(string(v), 0); i >= 0 {
			return errors.New(errors.PhaseEncode, errors.KindInvalidValue).
				Path("lcs").
				Value(string(v)).
				Detail("string contains NUL at byte %d", i).
				Build()
		}
		w.Byte(HeaderString)
		w.WriteCString(string(v))

	default:
		return errors.New(errors.PhaseEncode, errors.KindInvalidValue).
			Detail("unsupported encoding %T", e).
			Build()
	}
	return nil
}

// signMagnitude splits v into the negative header bit and its absolute value.
func signMagnitude(v int64) (byte, uint64) {
	if v < 0 {
		return FlagNegative, uint64(-v)
	}
	return 0, uint64(v)
}
