package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "DECK_REMAP"

// Settings はデーモンの起動設定（リマップ表とは別）
type Settings struct {
	ConfigPath string     // リマップ設定ファイルのパス
	DeviceName string     // 入力元のデバイス名
	OutputName string     // 仮想デバイス名
	UinputPath string     // uinput デバイスファイルのパス
	Grab       bool       // 入力元デバイスを専有するか
	Wait       bool       // 入力元デバイスが現れるまで待機するか
	LogLevel   slog.Level // ログレベル
}

// LoadSettings はコマンドライン引数と環境変数（DECK_REMAP_*）から起動設定を読み込む。
// フラグが優先され、次に環境変数、最後にデフォルト値が使われる。
func LoadSettings(args []string) (*Settings, error) {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		defaultPath = ""
	}

	flags := pflag.NewFlagSet("deck-remap", pflag.ContinueOnError)
	flags.StringP("config", "c", defaultPath, "リマップ設定ファイルのパス")
	flags.String("device", "Steam Deck", "入力元デバイスの名前")
	flags.String("output-name", "Steam Deck Remapper Device", "仮想デバイスの名前")
	flags.String("uinput", "/dev/uinput", "uinput デバイスファイルのパス")
	flags.Bool("grab", false, "入力元デバイスを専有する")
	flags.Bool("wait", true, "入力元デバイスが接続されるまで待機する")
	flags.String("log-level", "info", "ログレベル (debug, info, warn, error)")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("フラグの登録に失敗しました: %w", err)
	}

	s := &Settings{
		ConfigPath: v.GetString("config"),
		DeviceName: v.GetString("device"),
		OutputName: v.GetString("output-name"),
		UinputPath: v.GetString("uinput"),
		Grab:       v.GetBool("grab"),
		Wait:       v.GetBool("wait"),
	}
	if s.ConfigPath == "" {
		return nil, fmt.Errorf("設定ファイルのパスを決定できません: --config を指定してください")
	}
	if err := s.LogLevel.UnmarshalText([]byte(v.GetString("log-level"))); err != nil {
		return nil, fmt.Errorf("不正なログレベルです: %w", err)
	}
	return s, nil
}
