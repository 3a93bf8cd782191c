package key

import (
	"fmt"

	"github.com/holoplot/go-evdev"
)

// SteamDeckKey はコントローラーの物理ボタンを表す列挙型
type SteamDeckKey uint8

const (
	X SteamDeckKey = iota
	Y
	A
	B

	Up
	Right
	Down
	Left

	LeftTrackpad
	RightTrackpad
	LeftStick
	RightStick

	L1
	L2
	L3
	L4
	R1
	R2
	R3
	R4

	Select
	Start
	Steam
	Dots

	Unknown
)

var keyNames = [...]string{
	X: "X", Y: "Y", A: "A", B: "B",
	Up: "Up", Right: "Right", Down: "Down", Left: "Left",
	LeftTrackpad: "LeftTrackpad", RightTrackpad: "RightTrackpad",
	LeftStick: "LeftStick", RightStick: "RightStick",
	L1: "L1", L2: "L2", L3: "L3", L4: "L4",
	R1: "R1", R2: "R2", R3: "R3", R4: "R4",
	Select: "Select", Start: "Start", Steam: "Steam", Dots: "Dots",
	Unknown: "Unknown",
}

// 生のボタンコードからの変換表（Steam Deck内蔵コントローラーの配置）
var fromCode = map[evdev.EvCode]SteamDeckKey{
	evdev.BTN_NORTH:          X,
	evdev.BTN_WEST:           Y,
	evdev.BTN_SOUTH:          A,
	evdev.BTN_EAST:           B,
	evdev.BTN_DPAD_UP:        Up,
	evdev.BTN_DPAD_RIGHT:     Right,
	evdev.BTN_DPAD_DOWN:      Down,
	evdev.BTN_DPAD_LEFT:      Left,
	evdev.BTN_THUMB:          LeftTrackpad,
	evdev.BTN_THUMB2:         RightTrackpad,
	evdev.BTN_THUMBL:         LeftStick,
	evdev.BTN_THUMBR:         RightStick,
	evdev.BTN_TL:             L1,
	evdev.BTN_TL2:            L2,
	evdev.BTN_TRIGGER_HAPPY1: L3,
	evdev.BTN_TRIGGER_HAPPY3: L4,
	evdev.BTN_TR:             R1,
	evdev.BTN_TR2:            R2,
	evdev.BTN_TRIGGER_HAPPY2: R3,
	evdev.BTN_TRIGGER_HAPPY4: R4,
	evdev.BTN_SELECT:         Select,
	evdev.BTN_START:          Start,
	evdev.BTN_MODE:           Steam,
	evdev.BTN_BASE:           Dots,
}

// FromCode は生のボタンコードを SteamDeckKey に変換する。
// 未知のコードは Unknown になる。
func FromCode(code evdev.EvCode) SteamDeckKey {
	if k, ok := fromCode[code]; ok {
		return k
	}
	return Unknown
}

func (k SteamDeckKey) String() string {
	if int(k) < len(keyNames) {
		return keyNames[k]
	}
	return fmt.Sprintf("SteamDeckKey(%d)", uint8(k))
}

// MarshalText は設定ファイル用の名前を返す
func (k SteamDeckKey) MarshalText() ([]byte, error) {
	if k >= Unknown {
		return nil, fmt.Errorf("キー %v は設定に書き出せません", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText は設定ファイルのキー名を解釈する。
// Unknown は設定から参照できない。
func (k *SteamDeckKey) UnmarshalText(text []byte) error {
	name := string(text)
	for i, n := range keyNames {
		if n == name && SteamDeckKey(i) != Unknown {
			*k = SteamDeckKey(i)
			return nil
		}
	}
	return fmt.Errorf("unknown steam deck key %q", name)
}
