package device

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/holoplot/go-evdev"

	"github.com/char5742/deck-remap/internal/key"
)

// 仮想デバイスが送出する相対軸（カーソルとスクロール）
var relativeAxes = []evdev.EvCode{
	evdev.REL_X,
	evdev.REL_Y,
	evdev.REL_WHEEL,
	evdev.REL_HWHEEL,
}

// VirtualDevice はキーボードとマウスを兼ねる uinput 仮想デバイス
type VirtualDevice struct {
	name string
	file *os.File
}

// CreateVirtualDevice は uinput に仮想デバイスを登録する。
// keys には送出しうるキーコードをすべて渡す。
func CreateVirtualDevice(path string, name string, keys []key.Code) (*VirtualDevice, error) {
	deviceFile, err := os.OpenFile(path, syscall.O_WRONLY|syscall.O_NONBLOCK, 0660)
	if err != nil {
		return nil, fmt.Errorf("uinput デバイスファイルを開くのに失敗しました: %w", err)
	}

	if err := setupDevice(deviceFile, name, keys); err != nil {
		_ = deviceFile.Close()
		return nil, err
	}

	return &VirtualDevice{name: name, file: deviceFile}, nil
}

func setupDevice(deviceFile *os.File, name string, keys []key.Code) error {
	// キー入力イベント(EV_KEY)を登録する
	if err := IOCtl(deviceFile, SetEvBit, uintptr(evdev.EV_KEY)); err != nil {
		return fmt.Errorf("キー入力イベント(EV_KEY)の登録に失敗しました: %w", err)
	}
	for _, k := range keys {
		if err := IOCtl(deviceFile, SetKeyBit, uintptr(k)); err != nil {
			return fmt.Errorf("キーコードの登録に失敗しました %v: %w", k, err)
		}
	}

	// 相対座標イベント(EV_REL)を登録する
	if err := IOCtl(deviceFile, SetEvBit, uintptr(evdev.EV_REL)); err != nil {
		return fmt.Errorf("相対座標イベント(EV_REL)の登録に失敗しました: %w", err)
	}
	for _, rel := range relativeAxes {
		if err := IOCtl(deviceFile, SetRelBit, uintptr(rel)); err != nil {
			return fmt.Errorf("相対軸の登録に失敗しました %s: %w", evdev.CodeName(evdev.EV_REL, rel), err)
		}
	}

	userDev := UserDev{
		Name: toUinputName(name),
		ID: InputID{
			Bustype: BusUsb,
			Vendor:  0x4711,
			Product: 0x0818,
			Version: 1,
		},
	}

	buf := new(bytes.Buffer)
	if err := binary.Write(buf, binary.LittleEndian, userDev); err != nil {
		return fmt.Errorf("ユーザーデバイスバッファの書き込みに失敗しました: %w", err)
	}
	if _, err := deviceFile.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("デバイス構造体をデバイスファイルに書き込むのに失敗しました: %w", err)
	}

	if err := IOCtl(deviceFile, DevCreate, 0); err != nil {
		return fmt.Errorf("デバイスの作成に失敗しました: %w", err)
	}
	return nil
}

// Name は仮想デバイス名を返す
func (vd *VirtualDevice) Name() string {
	return vd.name
}

// Emit はイベント列と SYN_REPORT を1回の書き込みで送出する
func (vd *VirtualDevice) Emit(events []evdev.InputEvent) error {
	return writeEvents(vd.file, events)
}

func (vd *VirtualDevice) Close() error {
	return errors.Join(IOCtl(vd.file, DevDestroy, 0), vd.file.Close())
}

// encodeEvents はイベント列の末尾に SYN_REPORT を付けてバイト列にする
func encodeEvents(events []evdev.InputEvent) ([]byte, error) {
	buf := new(bytes.Buffer)
	for _, ev := range events {
		if err := binary.Write(buf, binary.LittleEndian, ev); err != nil {
			return nil, fmt.Errorf("イベントをバッファに書き込むのに失敗しました: %w", err)
		}
	}
	syn := evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT}
	if err := binary.Write(buf, binary.LittleEndian, syn); err != nil {
		return nil, fmt.Errorf("イベントをバッファに書き込むのに失敗しました: %w", err)
	}
	return buf.Bytes(), nil
}

// writeEvents はイベントを書き込む
func writeEvents(w io.Writer, events []evdev.InputEvent) error {
	data, err := encodeEvents(events)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("イベントの書き込みに失敗しました: %w", err)
	}
	return nil
}

// 名前をuinput用の固定長配列に変換する
func toUinputName(name string) (uinputName [MaxNameSize]byte) {
	copy(uinputName[:MaxNameSize-1], name)
	return uinputName
}
