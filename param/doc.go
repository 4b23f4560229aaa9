// Package param encodes direct-command parameters.
//
// Every opcode argument on the wire starts with a header byte that tells the
// brick whether the argument is a constant or a variable address, and how
// many bytes follow:
//
//	0b00sxxxxx   short constant, s = sign, x = magnitude (LC0)
//	0b01gxxxxx   short address, g = global, x = address (LV0, GV0)
//	0b1000_0www  long constant, www = width code (LC1, LC2, LC4, LCF)
//	0b1010_0www  long negative constant (sign bit set)
//	0b110_00www  long local address (LV1)
//	0b111_00www  long global address (GV1, GV2)
//	0b1000_0100  zero-terminated string constant (LCS)
//
// Long constants use sign-magnitude: the header carries the sign and the
// payload carries the absolute value, so the minimum of each width has no
// encoding and is rejected.
//
// Encode a value:
//
//	b, err := param.Encode(param.LC2(-300)) // [0xA2 0x2C 0x01]
//
// Pick the narrowest constant form automatically:
//
//	b, err := param.AutoConst(1000) // LC2
package param
