// Package remap はコントローラーの生イベントをキーボード・マウスのイベントへ変換する。
package remap

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/holoplot/go-evdev"

	"github.com/char5742/deck-remap/internal/axis"
	"github.com/char5742/deck-remap/internal/config"
	"github.com/char5742/deck-remap/internal/key"
)

// Source は入力元デバイスの生イベント列
type Source interface {
	ReadEvent() (evdev.InputEvent, error)
}

// Sink は変換後のイベントを送出する仮想デバイス。
// Emit は渡されたイベント列と SYN_REPORT を一度に書き込む。
type Sink interface {
	Emit(events []evdev.InputEvent) error
}

// Launcher は同時押しに割り当てられたコマンドを起動する。
// 起動の成否は呼び出し元に返さない。
type Launcher interface {
	Launch(command string)
}

// Daemon は変換エンジン本体。
// 状態はすべて Run を実行する単一のゴルーチンが所有する。
type Daemon struct {
	cfg      *config.Config
	sink     Sink
	launcher Launcher
	log      *slog.Logger

	history AxisHistory
	pressed []key.SteamDeckKey
	batch   []evdev.InputEvent
}

// NewDaemon は変換エンジンを作成する
func NewDaemon(cfg *config.Config, sink Sink, launcher Launcher, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	return &Daemon{
		cfg:      cfg,
		sink:     sink,
		launcher: launcher,
		log:      logger,
	}
}

// Run は入力元からイベントを読み続け、変換して送出する。
// 読み込みまたは一括送出に失敗した場合、あるいは ctx が終了した場合に戻る。
func (d *Daemon) Run(ctx context.Context, src Source) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		ev, err := src.ReadEvent()
		if err != nil {
			return fmt.Errorf("入力イベントの読み込みに失敗しました: %w", err)
		}

		if err := d.HandleEvent(ev); err != nil {
			return err
		}
	}
}

// HandleEvent は生イベント1つを処理する。
// エラーを返すのは同期イベントでの一括送出に失敗した場合のみ。
func (d *Daemon) HandleEvent(ev evdev.InputEvent) error {
	switch ev.Type {
	case evdev.EV_ABS:
		if out, ok := d.handleAbsAxis(axis.FromCode(ev.Code), ev.Value); ok {
			d.batch = append(d.batch, out)
		}

	case evdev.EV_KEY:
		d.handleKey(key.FromCode(ev.Code), ev.Value == 1)

	case evdev.EV_SYN:
		if err := d.sink.Emit(d.batch); err != nil {
			return fmt.Errorf("イベントの送出に失敗しました: %w", err)
		}
		d.batch = nil

	default:
		d.log.Debug("未処理のイベント", "type", evdev.TypeName(ev.Type), "code", evdev.CodeName(ev.Type, ev.Code), "value", ev.Value)
	}
	return nil
}

// PressedKeys は押下中のボタンを押した順に返す
func (d *Daemon) PressedKeys() []key.SteamDeckKey {
	return slices.Clone(d.pressed)
}

// PressedCount は押下中のボタン数を返す
func (d *Daemon) PressedCount() int {
	return len(d.pressed)
}

// History は各軸の履歴を返す
func (d *Daemon) History() AxisHistory {
	return d.history
}

func (d *Daemon) handleKey(k key.SteamDeckKey, pressed bool) {
	if pressed {
		d.keyDown(k)
	} else {
		d.keyUp(k)
	}
}

func (d *Daemon) keyDown(k key.SteamDeckKey) {
	d.pressed = append(d.pressed, k)

	// 同時押しは単独の割り当てより優先する
	for _, combo := range d.cfg.Combo {
		if len(combo.Keys) != len(d.pressed) {
			continue
		}
		if !d.heldWithin(combo.Keys) {
			continue
		}

		d.log.Info("コマンドを起動します", "command", combo.Launch, "keys", combo.Keys)
		d.launcher.Launch(combo.Launch)
		return
	}

	for _, m := range d.cfg.Mapping {
		if m.From != k {
			continue
		}

		events := make([]evdev.InputEvent, 0, len(m.To))
		for _, code := range m.To {
			events = append(events, keyEvent(code, 1))
		}
		d.emitDirect(events)
		return
	}
}

func (d *Daemon) keyUp(k key.SteamDeckKey) {
	// 解放時は一致するすべての割り当てについて逆順に離す
	for _, m := range d.cfg.Mapping {
		if m.From != k {
			continue
		}

		events := make([]evdev.InputEvent, 0, len(m.To))
		for i := len(m.To) - 1; i >= 0; i-- {
			events = append(events, keyEvent(m.To[i], 0))
		}
		d.emitDirect(events)
	}

	i := slices.Index(d.pressed, k)
	if i < 0 {
		d.log.Debug("押下されていないボタンが離されました", "key", k)
		return
	}
	d.pressed = slices.Delete(d.pressed, i, i+1)
}

// heldWithin は押下中のボタンがすべて keys に含まれるかを返す
func (d *Daemon) heldWithin(keys []key.SteamDeckKey) bool {
	for _, held := range d.pressed {
		if !slices.Contains(keys, held) {
			return false
		}
	}
	return true
}

// emitDirect はキー割り当ての出力を同期単位を待たずに送出する。
// 失敗しても処理は続行する。
func (d *Daemon) emitDirect(events []evdev.InputEvent) {
	if err := d.sink.Emit(events); err != nil {
		d.log.Debug("キーイベントの送出に失敗しました", "error", err)
	}
}

func (d *Daemon) handleAbsAxis(a axis.Axis, value int32) (evdev.InputEvent, bool) {
	// スティックとトリガーは変換しない
	surface, ok := relativeSurfaces[a]
	if !ok {
		return evdev.InputEvent{}, false
	}

	delta, ok := d.history.AbsToRel(a, value, surface.scale)
	if !ok {
		return evdev.InputEvent{}, false
	}
	return evdev.InputEvent{Type: evdev.EV_REL, Code: surface.rel, Value: delta}, true
}

func keyEvent(code key.Code, value int32) evdev.InputEvent {
	return evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.EvCode(code), Value: value}
}
