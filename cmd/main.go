package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/pflag"

	"github.com/char5742/deck-remap/internal/config"
	"github.com/char5742/deck-remap/internal/service"
)

func main() {
	// コマンドライン引数と環境変数の解析
	settings, err := config.LoadSettings(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		slog.Error("起動設定の読み込みに失敗しました", "error", err)
		os.Exit(2)
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      settings.LogLevel,
		TimeFormat: time.TimeOnly,
	}))
	slog.SetDefault(logger)

	// 設定ファイルの読み込み（存在しない場合はサンプルを書き出す）
	cfg, err := config.LoadConfig(settings.ConfigPath)
	if err != nil {
		logger.Error("設定ファイルの読み込みに失敗しました", "error", err)
		os.Exit(1)
	}
	logger.Info("設定ファイルを読み込みました", "path", settings.ConfigPath)

	// シグナルで終了する
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, settings, cfg, logger); err != nil {
		logger.Error("リマップを継続できません", "error", err)
		os.Exit(1)
	}
	logger.Info("シャットダウンします...")
}

func run(ctx context.Context, settings *config.Settings, cfg *config.Config, logger *slog.Logger) error {
	svc := service.NewRemapService(settings, cfg, logger)

	if err := svc.Start(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer svc.Close()

	return svc.Run(ctx)
}
