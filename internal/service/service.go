// Package service はデバイス、設定、変換エンジンを組み立ててデーモンとして動かす。
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/holoplot/go-evdev"

	"github.com/char5742/deck-remap/internal/config"
	"github.com/char5742/deck-remap/internal/device"
	"github.com/char5742/deck-remap/internal/key"
	"github.com/char5742/deck-remap/internal/launch"
	"github.com/char5742/deck-remap/internal/remap"
)

// RemapService はリマップデーモンを管理する構造体
type RemapService struct {
	settings   *config.Settings
	cfg        *config.Config
	log        *slog.Logger
	controller *device.Controller
	output     *device.VirtualDevice
}

// NewRemapService は新しいリマップサービスを作成する
func NewRemapService(settings *config.Settings, cfg *config.Config, logger *slog.Logger) *RemapService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RemapService{
		settings: settings,
		cfg:      cfg,
		log:      logger,
	}
}

// Start は入力元デバイスを開き、仮想デバイスを作成する
func (s *RemapService) Start(ctx context.Context) error {
	path, err := s.findController(ctx)
	if err != nil {
		return err
	}

	controller, err := device.OpenController(path)
	if err != nil {
		return err
	}
	s.controller = controller
	s.log.Info("入力デバイスを開きました", "device", s.settings.DeviceName, "path", path)

	if held, err := controller.HeldKeys(); err != nil {
		s.log.Warn("押下中のボタンを確認できませんでした", "error", err)
	} else if len(held) > 0 {
		names := make([]string, 0, len(held))
		for _, code := range held {
			names = append(names, key.FromCode(code).String()+"("+evdev.CodeName(evdev.EV_KEY, code)+")")
		}
		s.log.Warn("起動時に押されているボタンがあります。離した時のイベントは対応する押下なしで届きます", "keys", names)
	}

	if s.settings.Grab {
		if err := controller.Grab(); err != nil {
			s.Close()
			return err
		}
		s.log.Info("入力デバイスを専有しました")
	}

	output, err := device.CreateVirtualDevice(s.settings.UinputPath, s.settings.OutputName, s.cfg.OutputKeys())
	if err != nil {
		s.Close()
		return fmt.Errorf("仮想デバイスの作成に失敗しました: %w", err)
	}
	s.output = output
	s.log.Info("仮想デバイスを作成しました", "name", output.Name(), "keys", len(s.cfg.OutputKeys()))

	return nil
}

func (s *RemapService) findController(ctx context.Context) (string, error) {
	if s.settings.Wait {
		return device.WaitForController(ctx, s.settings.DeviceName, s.log)
	}
	return device.FindController(s.settings.DeviceName)
}

// Run は変換ループを実行する。
// ctx が終了すると入力デバイスを閉じて待機中の読み込みを解除し、nil を返す。
func (s *RemapService) Run(ctx context.Context) error {
	if s.controller == nil || s.output == nil {
		return errors.New("サービスが開始されていません")
	}

	stop := context.AfterFunc(ctx, func() {
		_ = s.controller.Close()
	})
	defer stop()

	daemon := remap.NewDaemon(s.cfg, s.output, launch.New(s.log), s.log)
	s.log.Info("リマップを開始しました", "combos", len(s.cfg.Combo), "mappings", len(s.cfg.Mapping))

	err := daemon.Run(ctx, s.controller)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Close はデバイスを解放する
func (s *RemapService) Close() {
	if s.output != nil {
		if err := s.output.Close(); err != nil {
			s.log.Debug("仮想デバイスの破棄に失敗しました", "error", err)
		}
		s.output = nil
	}
	if s.controller != nil {
		_ = s.controller.Close()
		s.controller = nil
	}
	s.log.Info("リマップサービスを停止しました")
}
