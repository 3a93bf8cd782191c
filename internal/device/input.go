package device

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"syscall"
	"unsafe"

	"github.com/holoplot/go-evdev"
)

// input_event 構造体のサイズ（64bit環境）
const eventSize = 24

// Controller は入力元となるコントローラーの evdev デバイス
type Controller struct {
	path    string
	file    *os.File
	buf     [eventSize]byte
	grabbed bool
}

// OpenController は指定されたパスの evdev デバイスを開く
func OpenController(path string) (*Controller, error) {
	f, err := os.OpenFile(path, syscall.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("デバイスファイルを開くのに失敗しました[path=%s]: %w", path, err)
	}
	return &Controller{path: path, file: f}, nil
}

// Path はデバイスファイルのパスを返す
func (c *Controller) Path() string {
	return c.path
}

// ReadEvent は次の入力イベントが届くまで待って返す
func (c *Controller) ReadEvent() (evdev.InputEvent, error) {
	return readEvent(c.file, c.buf[:])
}

func readEvent(r io.Reader, buf []byte) (evdev.InputEvent, error) {
	var e evdev.InputEvent
	if _, err := io.ReadFull(r, buf); err != nil {
		return e, err
	}

	e.Time.Sec = int64(binary.LittleEndian.Uint64(buf[0:8]))
	e.Time.Usec = int64(binary.LittleEndian.Uint64(buf[8:16]))
	e.Type = evdev.EvType(binary.LittleEndian.Uint16(buf[16:18]))
	e.Code = evdev.EvCode(binary.LittleEndian.Uint16(buf[18:20]))
	e.Value = int32(binary.LittleEndian.Uint32(buf[20:24]))
	return e, nil
}

// Grab は入力元デバイスを専有し、他のアプリケーションにイベントが届かないようにする
func (c *Controller) Grab() error {
	if c.grabbed {
		return nil
	}
	if err := IOCtl(c.file, EVIOCGRAB, 1); err != nil {
		return fmt.Errorf("failed to grab device: %w", err)
	}
	c.grabbed = true
	return nil
}

// Release は専有を解除する
func (c *Controller) Release() error {
	if !c.grabbed {
		return nil
	}
	if err := IOCtl(c.file, EVIOCGRAB, 0); err != nil {
		return fmt.Errorf("failed to release device: %w", err)
	}
	c.grabbed = false
	return nil
}

// HeldKeys は現在押下中のボタンのコードを返す
func (c *Controller) HeldKeys() ([]evdev.EvCode, error) {
	keyBits := make([]byte, KeyMax/8+1)
	if err := IOCtl(c.file, EVIOCGKEY(len(keyBits)), uintptr(unsafe.Pointer(&keyBits[0]))); err != nil {
		return nil, fmt.Errorf("押下中のキーの取得に失敗しました: %w", err)
	}
	return pressedCodes(keyBits), nil
}

func pressedCodes(keyBits []byte) []evdev.EvCode {
	var pressed []evdev.EvCode
	for keyCode := 0; keyCode <= KeyMax && keyCode/8 < len(keyBits); keyCode++ {
		if keyBits[keyCode/8]&(1<<(keyCode%8)) != 0 {
			pressed = append(pressed, evdev.EvCode(keyCode))
		}
	}
	return pressed
}

// Close は専有を解除してデバイスを閉じる。
// 別のゴルーチンで ReadEvent が待機中の場合はエラーで戻る。
func (c *Controller) Close() error {
	_ = c.Release()
	return c.file.Close()
}
