// Package axis はコントローラーのアナログ入力面を識別する。
package axis

import (
	"fmt"

	"github.com/holoplot/go-evdev"
)

// Axis はアナログ入力面（トリガー、スティック、トラックパッド）の軸
type Axis uint8

const (
	LeftTrigger Axis = iota
	RightTrigger
	LeftJoystickX
	LeftJoystickY
	RightJoystickX
	RightJoystickY
	LeftTrackpadX
	LeftTrackpadY
	RightTrackpadX
	RightTrackpadY
	Unknown

	// Count は Axis の種類数（Unknown を含む）
	Count = int(Unknown) + 1
)

var axisNames = [Count]string{
	LeftTrigger:    "LeftTrigger",
	RightTrigger:   "RightTrigger",
	LeftJoystickX:  "LeftJoystickX",
	LeftJoystickY:  "LeftJoystickY",
	RightJoystickX: "RightJoystickX",
	RightJoystickY: "RightJoystickY",
	LeftTrackpadX:  "LeftTrackpadX",
	LeftTrackpadY:  "LeftTrackpadY",
	RightTrackpadX: "RightTrackpadX",
	RightTrackpadY: "RightTrackpadY",
	Unknown:        "Unknown",
}

// FromCode は生の絶対座標コードを Axis に変換する。
// 未知のコードは Unknown になる。
func FromCode(code evdev.EvCode) Axis {
	switch code {
	case evdev.ABS_X:
		return LeftJoystickX
	case evdev.ABS_Y:
		return LeftJoystickY
	case evdev.ABS_RX:
		return RightJoystickX
	case evdev.ABS_RY:
		return RightJoystickY
	case evdev.ABS_HAT0X:
		return LeftTrackpadX
	case evdev.ABS_HAT0Y:
		return LeftTrackpadY
	case evdev.ABS_HAT1X:
		return RightTrackpadX
	case evdev.ABS_HAT1Y:
		return RightTrackpadY
	case evdev.ABS_HAT2Y:
		return LeftTrigger
	case evdev.ABS_HAT2X:
		return RightTrigger
	default:
		return Unknown
	}
}

func (a Axis) String() string {
	if int(a) < Count {
		return axisNames[a]
	}
	return fmt.Sprintf("Axis(%d)", uint8(a))
}
