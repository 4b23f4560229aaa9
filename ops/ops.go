// Package ops builds bytecode for a handful of common brick operations.
//
// Fire-and-forget builders return plain bytecode. Query builders allocate
// their result variables on the given Command and also return the layout
// of those variables, ready for reply.Split.
package ops

import (
	"github.com/wippyai/ev3dc/command"
	"github.com/wippyai/ev3dc/errors"
	"github.com/wippyai/ev3dc/internal/wire"
	"github.com/wippyai/ev3dc/param"
)

// Opcodes
const (
	OpUIRead          byte = 0x81
	OpUIWrite         byte = 0x82
	OpUIDraw          byte = 0x84
	OpSound           byte = 0x94
	OpInputDeviceList byte = 0x98
	OpOutputStop      byte = 0xA3
	OpOutputSpeed     byte = 0xA5
	OpOutputStart     byte = 0xA6
	OpComGet          byte = 0xD3
)

// Sub-commands
const (
	uiReadHardware byte = 0x09 // GET_HW_VERS
	uiReadFirmware byte = 0x0A // GET_FW_VERS
	uiReadBattery  byte = 0x12 // GET_LBATT
	uiWriteLED     byte = 0x1B
	drawUpdate     byte = 0x00
	drawTopline    byte = 0x12
	drawFillWindow byte = 0x13
	soundTone      byte = 0x01
	comGetBrick    byte = 0x0D // GET_BRICKNAME
)

// Output ports, combinable with |
const (
	PortA   uint8 = 1
	PortB   uint8 = 2
	PortC   uint8 = 4
	PortD   uint8 = 8
	PortAll uint8 = PortA | PortB | PortC | PortD
)

// Parameter limits
const (
	MaxLayer     = 3
	MaxSpeed     = 100
	MaxVolume    = 100
	MinFrequency = 250
	MaxFrequency = 10000
	NameLength   = 12
	VersionSize  = 6
	DeviceSlots  = 32
)

func checkRange(name string, v, minimum, maximum int) error {
	if v < minimum || v > maximum {
		return errors.InvalidRange(errors.PhaseEncode, []string{name}, v, minimum, maximum)
	}
	return nil
}

func build(op byte, sub []byte, params ...param.Encoding) ([]byte, error) {
	enc, err := param.EncodeAll(params...)
	if err != nil {
		return nil, err
	}
	w := wire.NewWriterSize(1 + len(sub) + len(enc))
	w.Byte(op)
	w.WriteBytes(sub)
	w.WriteBytes(enc)
	return w.Bytes(), nil
}

// MotorSpeed sets the speed of the motors on port and starts them.
func MotorSpeed(port uint8, speed int8, layer uint8) ([]byte, error) {
	if err := checkRange("port", int(port), 0, int(PortAll)); err != nil {
		return nil, err
	}
	if err := checkRange("speed", int(speed), -MaxSpeed, MaxSpeed); err != nil {
		return nil, err
	}
	if err := checkRange("layer", int(layer), 0, MaxLayer); err != nil {
		return nil, err
	}

	set, err := build(OpOutputSpeed, nil, param.LC0(layer), param.LC0(port), param.LC1(speed))
	if err != nil {
		return nil, err
	}
	start, err := build(OpOutputStart, nil, param.LC0(layer), param.LC0(port))
	if err != nil {
		return nil, err
	}
	return append(set, start...), nil
}

// StopMotor stops the motors on port. brake holds the shaft instead of
// letting it coast.
func StopMotor(port uint8, layer uint8, brake bool) ([]byte, error) {
	if err := checkRange("port", int(port), 0, int(PortAll)); err != nil {
		return nil, err
	}
	if err := checkRange("layer", int(layer), 0, MaxLayer); err != nil {
		return nil, err
	}
	var b param.LC0
	if brake {
		b = 1
	}
	return build(OpOutputStop, nil, param.LC0(layer), param.LC0(port), b)
}

// PlayTone plays a tone of freq Hz for ms milliseconds.
func PlayTone(volume uint8, freq, ms uint16) ([]byte, error) {
	if err := checkRange("volume", int(volume), 0, MaxVolume); err != nil {
		return nil, err
	}
	if err := checkRange("frequency", int(freq), MinFrequency, MaxFrequency); err != nil {
		return nil, err
	}
	if err := checkRange("duration", int(ms), 0, 0x7FFF); err != nil {
		return nil, err
	}
	return build(OpSound, []byte{soundTone}, param.LC1(volume), param.LC2(freq), param.LC2(ms))
}

// ClearScreen fills the whole LCD buffer with the background color and
// hides the status line, leaving all 128 rows to the program.
func ClearScreen() []byte {
	return []byte{
		OpUIDraw, drawFillWindow, 0x00, 0x00, 0x00, // color 0, from row 0, to the bottom
		OpUIDraw, drawTopline, 0x00,
	}
}

// UpdateScreen copies the LCD buffer to the screen.
func UpdateScreen() []byte {
	return []byte{OpUIDraw, drawUpdate}
}

// BatteryPercentage reads the battery level into one DATA8 global.
func BatteryPercentage(cmd *command.Command) ([]byte, []command.DataType, error) {
	return query(cmd, OpUIRead, []byte{uiReadBattery}, nil, command.Data8{})
}

// BrickName reads the brick name into a DATAS(12) global.
func BrickName(cmd *command.Command) ([]byte, []command.DataType, error) {
	return query(cmd, OpComGet, []byte{comGetBrick}, []param.Encoding{param.LC0(NameLength + 1)},
		command.DataS{N: NameLength})
}

// FirmwareVersion reads the firmware version string into a DATAS(6) global.
func FirmwareVersion(cmd *command.Command) ([]byte, []command.DataType, error) {
	return query(cmd, OpUIRead, []byte{uiReadFirmware}, []param.Encoding{param.LC0(VersionSize + 1)},
		command.DataS{N: VersionSize})
}

// HardwareVersion reads the hardware version string into a DATAS(6) global.
func HardwareVersion(cmd *command.Command) ([]byte, []command.DataType, error) {
	return query(cmd, OpUIRead, []byte{uiReadHardware}, []param.Encoding{param.LC0(VersionSize + 1)},
		command.DataS{N: VersionSize})
}

// InputDeviceList reads the device type table into a DATAN(32) global
// followed by a DATA8 change flag. Decode the table with reply.PortTable.
func InputDeviceList(cmd *command.Command) ([]byte, []command.DataType, error) {
	return query(cmd, OpInputDeviceList, nil, []param.Encoding{param.LC1(DeviceSlots)},
		command.DataN{N: DeviceSlots}, command.Data8{})
}

func query(cmd *command.Command, op byte, sub []byte, params []param.Encoding, results ...command.DataType) ([]byte, []command.DataType, error) {
	head, err := build(op, sub, params...)
	if err != nil {
		return nil, nil, err
	}
	w := wire.NewWriter()
	w.WriteBytes(head)
	for _, dt := range results {
		addr, err := cmd.Allocate(dt, true)
		if err != nil {
			return nil, nil, err
		}
		w.WriteBytes(addr)
	}
	return w.Bytes(), results, nil
}
