package ops

import (
	"github.com/wippyai/ev3dc/errors"
	"github.com/wippyai/ev3dc/param"
)

// LEDColor is a brick status light color.
type LEDColor uint8

const (
	LEDOff LEDColor = iota
	LEDGreen
	LEDRed
	LEDOrange
)

// LEDEffect is a status light animation.
type LEDEffect uint8

const (
	LEDStatic LEDEffect = 0
	LEDBlink  LEDEffect = 3
	LEDPulse  LEDEffect = 6
)

func (c LEDColor) String() string {
	switch c {
	case LEDOff:
		return "off"
	case LEDGreen:
		return "green"
	case LEDRed:
		return "red"
	case LEDOrange:
		return "orange"
	}
	return "unknown"
}

func (e LEDEffect) String() string {
	switch e {
	case LEDStatic:
		return "static"
	case LEDBlink:
		return "blink"
	case LEDPulse:
		return "pulse"
	}
	return "unknown"
}

// ShowLED sets the status light. Off ignores effect.
func ShowLED(color LEDColor, effect LEDEffect) ([]byte, error) {
	if err := checkRange("color", int(color), int(LEDOff), int(LEDOrange)); err != nil {
		return nil, err
	}
	switch effect {
	case LEDStatic, LEDBlink, LEDPulse:
	default:
		return nil, errors.InvalidValue(errors.PhaseEncode, []string{"effect"}, uint8(effect), "0, 3 or 6")
	}

	code := uint8(color)
	if color != LEDOff {
		code += uint8(effect)
	}
	return build(OpUIWrite, []byte{uiWriteLED}, param.LC0(code))
}
