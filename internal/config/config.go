package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/char5742/deck-remap/internal/key"
)

const (
	appDirName     = "steam-deck-remapper"
	configFileName = "config.toml"
)

//go:embed config.example.toml
var exampleConfig []byte

// Config はリマップ設定全体を表す構造体
type Config struct {
	Combo   []Combo   `toml:"combo"`
	Mapping []Mapping `toml:"mapping"`
}

// Combo は同時押しで外部コマンドを起動する設定
type Combo struct {
	Keys   []key.SteamDeckKey `toml:"keys"`
	Launch string             `toml:"launch"`
}

// Mapping はボタン1つを送出キー列に割り当てる設定
type Mapping struct {
	From key.SteamDeckKey `toml:"from"`
	To   []key.Code       `toml:"to"`
}

// mapping.from の欠落を検出するための一時構造体
type rawMapping struct {
	From *key.SteamDeckKey `toml:"from"`
	To   []key.Code        `toml:"to"`
}

type rawConfig struct {
	Combo   []Combo      `toml:"combo"`
	Mapping []rawMapping `toml:"mapping"`
}

// DefaultConfig は埋め込みのサンプル設定を返す
func DefaultConfig() *Config {
	cfg, err := Parse(exampleConfig)
	if err != nil {
		panic(fmt.Sprintf("サンプル設定の解析に失敗しました: %v", err))
	}
	return cfg
}

// GetDefaultConfigDir はユーザー設定ディレクトリ配下のアプリ用ディレクトリを返す
func GetDefaultConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("設定ディレクトリが見つかりません: %w", err)
	}
	return filepath.Join(dir, appDirName), nil
}

// GetDefaultConfigPath はデフォルトの設定ファイルパスを返す
func GetDefaultConfigPath() (string, error) {
	dir, err := GetDefaultConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// LoadConfig は設定ファイルから設定を読み込む。
// ファイルが存在しない場合はサンプル設定を書き出してから読み込む。
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
			return nil, fmt.Errorf("設定ディレクトリの作成に失敗しました: %w", err)
		}
		if err := os.WriteFile(configPath, exampleConfig, 0644); err != nil {
			return nil, fmt.Errorf("サンプル設定の書き出しに失敗しました: %w", err)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("設定ファイルの読み込みに失敗しました: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	return cfg, nil
}

// Parse はTOML形式の設定を解析する。
// 未知のキー名、未知のボタン名・キーコード名、from のない mapping はエラーになる。
func Parse(data []byte) (*Config, error) {
	var raw rawConfig
	md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&raw)
	if err != nil {
		return nil, err
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
	}

	cfg := &Config{Combo: raw.Combo}
	for i, m := range raw.Mapping {
		if m.From == nil {
			return nil, fmt.Errorf("mapping[%d]: missing \"from\"", i)
		}
		cfg.Mapping = append(cfg.Mapping, Mapping{From: *m.From, To: m.To})
	}
	return cfg, nil
}

// SaveConfig は設定をTOMLファイルに保存する
func SaveConfig(configPath string, config *Config) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return err
	}

	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(config)
}

// OutputKeys は mapping で送出されうるキーコードを重複なしで昇順に返す。
// 仮想デバイスのキー能力の登録に使う。
func (c *Config) OutputKeys() []key.Code {
	var codes []key.Code
	for _, m := range c.Mapping {
		codes = append(codes, m.To...)
	}
	slices.Sort(codes)
	return slices.Compact(codes)
}
