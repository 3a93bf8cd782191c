package config

import (
	"log/slog"
	"testing"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	s, err := LoadSettings(nil)
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if s.DeviceName != "Steam Deck" {
		t.Errorf("DeviceName = %q", s.DeviceName)
	}
	if s.OutputName != "Steam Deck Remapper Device" {
		t.Errorf("OutputName = %q", s.OutputName)
	}
	if s.UinputPath != "/dev/uinput" {
		t.Errorf("UinputPath = %q", s.UinputPath)
	}
	if s.Grab || !s.Wait {
		t.Errorf("Grab = %v, Wait = %v", s.Grab, s.Wait)
	}
	if s.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", s.LogLevel)
	}
	if s.ConfigPath == "" {
		t.Error("ConfigPath should default to the user config dir")
	}
}

func TestLoadSettingsFlagsAndEnv(t *testing.T) {
	t.Setenv("DECK_REMAP_DEVICE", "Steam Deck Controller")
	t.Setenv("DECK_REMAP_LOG_LEVEL", "debug")

	s, err := LoadSettings([]string{"--config", "/tmp/remap.toml", "--grab", "--output-name", "pad"})
	if err != nil {
		t.Fatalf("LoadSettings error: %v", err)
	}
	if s.ConfigPath != "/tmp/remap.toml" {
		t.Errorf("ConfigPath = %q", s.ConfigPath)
	}
	if s.DeviceName != "Steam Deck Controller" {
		t.Errorf("DeviceName = %q, want value from env", s.DeviceName)
	}
	if s.OutputName != "pad" || !s.Grab {
		t.Errorf("OutputName = %q, Grab = %v", s.OutputName, s.Grab)
	}
	if s.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", s.LogLevel)
	}
}

func TestLoadSettingsBadLevel(t *testing.T) {
	if _, err := LoadSettings([]string{"--config", "x.toml", "--log-level", "loud"}); err == nil {
		t.Error("LoadSettings should reject unknown log levels")
	}
}
