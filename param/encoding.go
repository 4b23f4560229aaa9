package param

// Encoding is a typed parameter value. The set of variants is closed.
type Encoding interface {
	isEncoding()
}

// LC0 is a short constant in -31..31 carried inside the header byte.
type LC0 int8

// LC1 is a one-byte constant in -127..127.
type LC1 int8

// LC2 is a two-byte constant excluding math.MinInt16.
type LC2 int16

// LC4 is a four-byte constant excluding math.MinInt32.
type LC4 int32

// LCF is a four-byte IEEE-754 single constant.
type LCF float32

// LV0 is a short local variable address in 0..31.
type LV0 uint8

// LV1 is a one-byte local variable address.
type LV1 uint8

// GV0 is a short global variable address in 0..31.
type GV0 uint8

// GV1 is a one-byte global variable address.
type GV1 uint8

// GV2 is a two-byte global variable address.
// Locals have no two-byte form in direct commands.
type GV2 uint16

// LCS is a zero-terminated string constant.
type LCS string

func (LC0) isEncoding() {}
func (LC1) isEncoding() {}
func (LC2) isEncoding() {}
func (LC4) isEncoding() {}
func (LCF) isEncoding() {}
func (LV0) isEncoding() {}
func (LV1) isEncoding() {}
func (GV0) isEncoding() {}
func (GV1) isEncoding() {}
func (GV2) isEncoding() {}
func (LCS) isEncoding() {}

// Header bits
const (
	FlagLong     byte = 0x80
	FlagVariable byte = 0x40
	FlagGlobal   byte = 0x20
	FlagNegative byte = 0x20

	WidthByte  byte = 0x01
	WidthShort byte = 0x02
	WidthWord  byte = 0x03

	HeaderString byte = 0x84

	shortMask byte = 0x1F
)

// Short form limits
const (
	MaxShortConst   = 31
	MinShortConst   = -31
	MaxShortAddress = 31
	MaxByteAddress  = 254
)
