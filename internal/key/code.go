package key

import (
	"fmt"

	"github.com/holoplot/go-evdev"
)

// Code は仮想デバイスから送出するキーコード（KEY_* / BTN_*）
type Code evdev.EvCode

// ParseCode はカーネルのキー名（例: "KEY_ESC"）をキーコードに変換する
func ParseCode(name string) (Code, error) {
	code, ok := evdev.KEYFromString[name]
	if !ok {
		return 0, fmt.Errorf("unknown key code %q", name)
	}
	return Code(code), nil
}

func (c Code) String() string {
	return evdev.CodeName(evdev.EV_KEY, evdev.EvCode(c))
}

func (c Code) MarshalText() ([]byte, error) {
	name, ok := evdev.KEYToString[evdev.EvCode(c)]
	if !ok {
		return nil, fmt.Errorf("key code %d has no name", uint16(c))
	}
	return []byte(name), nil
}

func (c *Code) UnmarshalText(text []byte) error {
	code, err := ParseCode(string(text))
	if err != nil {
		return err
	}
	*c = code
	return nil
}
