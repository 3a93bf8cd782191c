package device

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/holoplot/go-evdev"
)

const (
	inputDir          = "/dev/input"
	eventDebounceTime = 500 * time.Millisecond
	pollingInterval   = 2 * time.Second
)

// ErrNotFound は指定された名前のデバイスが接続されていないことを表す
var ErrNotFound = errors.New("device not found")

// FindController は接続中の入力デバイスから名前が一致するものを探し、そのパスを返す
func FindController(name string) (string, error) {
	paths, err := evdev.ListDevicePaths()
	if err != nil {
		return "", fmt.Errorf("デバイス一覧の取得に失敗しました: %w", err)
	}
	return matchDevice(paths, name)
}

func matchDevice(paths []evdev.InputPath, name string) (string, error) {
	for _, p := range paths {
		if p.Name == name {
			return p.Path, nil
		}
	}
	return "", fmt.Errorf("%q: %w", name, ErrNotFound)
}

// WaitForController は指定された名前のデバイスが現れるまで待つ。
// /dev/input の変化を監視し、取りこぼしに備えて定期的にも再スキャンする。
func WaitForController(ctx context.Context, name string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return "", fmt.Errorf("ファイル監視の初期化に失敗しました: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(inputDir); err != nil {
		return "", fmt.Errorf("ディレクトリの監視に失敗しました: %s: %w", inputDir, err)
	}

	// 監視開始後に一度スキャンして、開始前に接続されていた場合も拾う
	if path, err := FindController(name); err == nil {
		return path, nil
	} else if !errors.Is(err, ErrNotFound) {
		return "", err
	}
	logger.Info("デバイスの接続を待機します", "device", name)

	// 一時的なファイルシステムイベントをまとめて処理する
	eventTimer := time.NewTimer(eventDebounceTime)
	eventTimer.Stop()
	pollingTicker := time.NewTicker(pollingInterval)
	defer pollingTicker.Stop()

	rescan := func() (string, bool, error) {
		path, err := FindController(name)
		switch {
		case err == nil:
			return path, true, nil
		case errors.Is(err, ErrNotFound):
			return "", false, nil
		default:
			return "", false, err
		}
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case <-eventTimer.C:
			if path, ok, err := rescan(); err != nil || ok {
				return path, err
			}

		case <-pollingTicker.C:
			if path, ok, err := rescan(); err != nil || ok {
				return path, err
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return "", errors.New("イベントチャネルが閉じられました")
			}
			if !strings.HasPrefix(event.Name, inputDir+"/event") {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Chmod) != 0 {
				logger.Debug("ファイルシステムイベント", "op", event.Op.String(), "name", event.Name)
				eventTimer.Reset(eventDebounceTime)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return "", errors.New("エラーチャネルが閉じられました")
			}
			logger.Warn("ファイルシステム監視エラー", "error", err)
		}
	}
}
