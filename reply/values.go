package reply

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/wippyai/ev3dc/errors"
)

// MaxLayer is the highest daisy-chain layer index.
const MaxLayer = 3

// ReadString returns the text before the first NUL in b.
// Invalid UTF-8 is replaced rather than rejected.
func ReadString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return strings.ToValidUTF8(string(b), "�")
}

// PortTable extracts the device types of one layer from an input device
// list reply. Entries 0-3 are the input ports 1-4, entries 4-7 the output
// ports A-D. Inputs of layer l start at 4*l, outputs at 16+4*l.
func PortTable(mem []byte, layer int) ([8]byte, error) {
	var ports [8]byte
	if layer < 0 || layer > MaxLayer {
		return ports, errors.InvalidRange(errors.PhaseDecode, []string{"layer"}, layer, 0, MaxLayer)
	}
	need := 20 + 4*layer
	if len(mem) < need {
		return ports, errors.New(errors.PhaseDecode, errors.KindDimensionMismatch).
			Path("ports").
			Value(len(mem)).
			Detail("layer %d needs %d bytes, got %d", layer, need, len(mem)).
			Build()
	}
	copy(ports[0:4], mem[4*layer:4*layer+4])
	copy(ports[4:8], mem[16+4*layer:16+4*layer+4])
	return ports, nil
}

// Device type ids reported by the input device list
const (
	DeviceLargeMotor  byte = 7
	DeviceMediumMotor byte = 8
	DeviceUnknown     byte = 10
	DeviceTouch       byte = 16
	DeviceColor       byte = 29
	DeviceUltrasonic  byte = 30
	DeviceGyro        byte = 32
	DeviceInfrared    byte = 33
	DeviceNone        byte = 126
	DevicePortError   byte = 127
)

var deviceNames = map[byte]string{
	DeviceLargeMotor:  "Large-Motor",
	DeviceMediumMotor: "Medium-Motor",
	DeviceUnknown:     "Unknown",
	DeviceTouch:       "Touch-Sensor",
	DeviceColor:       "Color-Sensor",
	DeviceUltrasonic:  "Ultrasonic-Sensor",
	DeviceGyro:        "Gyro-Sensor",
	DeviceInfrared:    "IR-Sensor",
	DeviceNone:        "None",
	DevicePortError:   "Port-Error",
}

// DeviceName returns a readable name for a device type id.
func DeviceName(id byte) string {
	if name, ok := deviceNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Type-%d", id)
}
