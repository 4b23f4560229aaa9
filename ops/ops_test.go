package ops_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/wippyai/ev3dc/command"
	ev3errors "github.com/wippyai/ev3dc/errors"
	"github.com/wippyai/ev3dc/ops"
)

func TestMotorSpeed(t *testing.T) {
	got, err := ops.MotorSpeed(ops.PortA|ops.PortD, -50, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xA5, 0x00, 0x09, 0x81 | 0x20, 0x32, 0xA6, 0x00, 0x09}
	if !bytes.Equal(got, want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestStopMotor(t *testing.T) {
	got, err := ops.StopMotor(ops.PortAll, 1, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xA3, 0x01, 0x0F, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestRangeErrors(t *testing.T) {
	tests := []struct {
		name string
		fn   func() ([]byte, error)
	}{
		{"port", func() ([]byte, error) { return ops.MotorSpeed(16, 0, 0) }},
		{"speed high", func() ([]byte, error) { return ops.MotorSpeed(1, 101, 0) }},
		{"speed low", func() ([]byte, error) { return ops.MotorSpeed(1, -101, 0) }},
		{"layer", func() ([]byte, error) { return ops.MotorSpeed(1, 10, 4) }},
		{"stop port", func() ([]byte, error) { return ops.StopMotor(20, 0, false) }},
		{"stop layer", func() ([]byte, error) { return ops.StopMotor(1, 9, false) }},
		{"volume", func() ([]byte, error) { return ops.PlayTone(101, 440, 100) }},
		{"frequency", func() ([]byte, error) { return ops.PlayTone(50, 100, 100) }},
		{"color", func() ([]byte, error) { return ops.ShowLED(ops.LEDColor(9), ops.LEDStatic) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			if !errors.Is(err, &ev3errors.Error{Phase: ev3errors.PhaseEncode, Kind: ev3errors.KindInvalidRange}) {
				t.Errorf("got %v, want invalid range", err)
			}
		})
	}
}

func TestShowLED(t *testing.T) {
	tests := []struct {
		color  ops.LEDColor
		effect ops.LEDEffect
		code   byte
	}{
		{ops.LEDOff, ops.LEDStatic, 0},
		{ops.LEDOff, ops.LEDPulse, 0},
		{ops.LEDGreen, ops.LEDStatic, 1},
		{ops.LEDRed, ops.LEDBlink, 5},
		{ops.LEDOrange, ops.LEDPulse, 9},
	}

	for _, tt := range tests {
		t.Run(tt.color.String()+"/"+tt.effect.String(), func(t *testing.T) {
			got, err := ops.ShowLED(tt.color, tt.effect)
			if err != nil {
				t.Fatal(err)
			}
			want := []byte{0x82, 0x1B, tt.code}
			if !bytes.Equal(got, want) {
				t.Errorf("got % X, want % X", got, want)
			}
		})
	}

	_, err := ops.ShowLED(ops.LEDGreen, ops.LEDEffect(2))
	if !errors.Is(err, &ev3errors.Error{Kind: ev3errors.KindInvalidValue}) {
		t.Errorf("bad effect: got %v", err)
	}
}

func TestPlayTone(t *testing.T) {
	got, err := ops.PlayTone(2, 1000, 500)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x94, 0x01, 0x81, 0x02, 0x82, 0xE8, 0x03, 0x82, 0xF4, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("got % X, want % X", got, want)
	}
}

func TestScreen(t *testing.T) {
	if !bytes.Equal(ops.ClearScreen(), []byte{0x84, 0x13, 0x00, 0x00, 0x00, 0x84, 0x12, 0x00}) {
		t.Errorf("ClearScreen = % X", ops.ClearScreen())
	}
	if !bytes.Equal(ops.UpdateScreen(), []byte{0x84, 0x00}) {
		t.Errorf("UpdateScreen = % X", ops.UpdateScreen())
	}
}

func TestQueries(t *testing.T) {
	tests := []struct {
		name     string
		build    func(*command.Command) ([]byte, []command.DataType, error)
		want     []byte
		reserved int
	}{
		{"battery", ops.BatteryPercentage, []byte{0x81, 0x12, 0x60}, 1},
		{"brick name", ops.BrickName, []byte{0xD3, 0x0D, 0x0D, 0x60}, 13},
		{"firmware", ops.FirmwareVersion, []byte{0x81, 0x0A, 0x07, 0x60}, 7},
		{"hardware", ops.HardwareVersion, []byte{0x81, 0x09, 0x07, 0x60}, 7},
		{"device list", ops.InputDeviceList, []byte{0x98, 0x81, 0x20, 0x60}, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := command.New()
			code, layout, err := tt.build(cmd)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.HasPrefix(code, tt.want) {
				t.Errorf("bytecode % X does not start with % X", code, tt.want)
			}
			if cmd.ReservedBytes() != tt.reserved {
				t.Errorf("reserved %d, want %d", cmd.ReservedBytes(), tt.reserved)
			}
			if command.Layout(layout...) != tt.reserved {
				t.Errorf("layout size %d, want %d", command.Layout(layout...), tt.reserved)
			}
		})
	}
}

func TestInputDeviceList_Addresses(t *testing.T) {
	cmd := command.New()
	code, _, err := ops.InputDeviceList(cmd)
	if err != nil {
		t.Fatal(err)
	}
	// table at global 0, change flag at global 32 (long form)
	want := []byte{0x98, 0x81, 0x20, 0x60, 0xE1, 0x20}
	if !bytes.Equal(code, want) {
		t.Errorf("got % X, want % X", code, want)
	}
}
