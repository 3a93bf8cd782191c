package axis

import (
	"testing"

	"github.com/holoplot/go-evdev"
)

func TestFromCode(t *testing.T) {
	tests := map[evdev.EvCode]Axis{
		evdev.ABS_X:     LeftJoystickX,
		evdev.ABS_Y:     LeftJoystickY,
		evdev.ABS_RX:    RightJoystickX,
		evdev.ABS_RY:    RightJoystickY,
		evdev.ABS_HAT0X: LeftTrackpadX,
		evdev.ABS_HAT0Y: LeftTrackpadY,
		evdev.ABS_HAT1X: RightTrackpadX,
		evdev.ABS_HAT1Y: RightTrackpadY,
		evdev.ABS_HAT2Y: LeftTrigger,
		evdev.ABS_HAT2X: RightTrigger,
		evdev.ABS_Z:     Unknown,
		evdev.ABS_HAT3X: Unknown,
	}

	for code, want := range tests {
		if got := FromCode(code); got != want {
			t.Errorf("FromCode(%s) = %v, want %v", evdev.CodeName(evdev.EV_ABS, code), got, want)
		}
	}
}

func TestString(t *testing.T) {
	if got := RightTrackpadY.String(); got != "RightTrackpadY" {
		t.Errorf("String() = %q", got)
	}
	if Count != 11 {
		t.Errorf("Count = %d, want 11", Count)
	}
}
