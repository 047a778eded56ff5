package config

import (
	"testing"
	"time"
)

func TestGetPlayerConfig_Defaults(t *testing.T) {
	cfg := &Config{}
	pc := cfg.GetPlayerConfig()

	if pc.Binary != "mpv" {
		t.Errorf("Binary = %q, want mpv", pc.Binary)
	}
	if pc.SeekStepSeconds != 10 {
		t.Errorf("SeekStepSeconds = %v, want 10", pc.SeekStepSeconds)
	}
	if pc.Volume != 1.0 {
		t.Errorf("Volume = %v, want 1.0", pc.Volume)
	}
}

func TestGetPlayerConfig_Overrides(t *testing.T) {
	cfg := &Config{Player: PlayerConfig{Binary: "mpv-custom", SeekStepSeconds: 5, Volume: 0.5}}
	pc := cfg.GetPlayerConfig()

	if pc.Binary != "mpv-custom" {
		t.Errorf("Binary = %q, want mpv-custom", pc.Binary)
	}
	if pc.SeekStepSeconds != 5 {
		t.Errorf("SeekStepSeconds = %v, want 5", pc.SeekStepSeconds)
	}
	if pc.Volume != 0.5 {
		t.Errorf("Volume = %v, want 0.5", pc.Volume)
	}
}

func TestGetPlayerConfig_InvalidVolumeClamped(t *testing.T) {
	cfg := &Config{Player: PlayerConfig{Volume: 1.5}}
	if got := cfg.GetPlayerConfig().Volume; got != 1.0 {
		t.Errorf("Volume = %v, want 1.0", got)
	}
}

func TestAutosaveInterval(t *testing.T) {
	cfg := &Config{}
	if got := cfg.AutosaveInterval(); got != 5*time.Second {
		t.Errorf("AutosaveInterval() = %v, want 5s", got)
	}

	cfg.Progress.AutosaveSeconds = 30
	if got := cfg.AutosaveInterval(); got != 30*time.Second {
		t.Errorf("AutosaveInterval() = %v, want 30s", got)
	}
}

func TestGetUserName_Configured(t *testing.T) {
	cfg := &Config{UserName: "alex"}
	if got := cfg.GetUserName(); got != "alex" {
		t.Errorf("GetUserName() = %q, want alex", got)
	}
}

func TestGetLogLevel_Default(t *testing.T) {
	cfg := &Config{}
	if got := cfg.GetLogLevel(); got != "info" {
		t.Errorf("GetLogLevel() = %q, want info", got)
	}
}

func TestExpandPath(t *testing.T) {
	if got := expandPath("/absolute/path"); got != "/absolute/path" {
		t.Errorf("expandPath changed an absolute path: %q", got)
	}
	if got := expandPath(""); got != "" {
		t.Errorf("expandPath(\"\") = %q, want empty", got)
	}
}
