package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	UserName   string `koanf:"user_name"`   // identity used for progress checkpoints
	CourseFile string `koanf:"course_file"` // path to the course manifest (toml)
	LogLevel   string `koanf:"log_level"`   // logrus level name (default: "info")
	Icons      string `koanf:"icons"`       // icon set: "nerd", "unicode" or "none"

	// Player settings
	Player PlayerConfig `koanf:"player"`

	// Progress persistence settings
	Progress ProgressConfig `koanf:"progress"`
}

// PlayerConfig holds playback-engine configuration.
type PlayerConfig struct {
	Binary          string  `koanf:"binary"`            // embedded player binary (default: "mpv")
	SeekStepSeconds float64 `koanf:"seek_step_seconds"` // skip forward/backward step (default: 10)
	Volume          float64 `koanf:"volume"`            // initial volume 0.0-1.0 (default: 1.0)
}

// ProgressConfig holds checkpoint autosave configuration.
type ProgressConfig struct {
	AutosaveSeconds int `koanf:"autosave_seconds"` // autosave interval (default: 5)
}

func Load() (*Config, error) {
	k := koanf.New(".")

	// Try config files in order of priority (last wins)
	configPaths := getConfigPaths()

	for _, path := range configPaths {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	// Expand ~ in course_file
	if cfg.CourseFile != "" {
		cfg.CourseFile = expandPath(cfg.CourseFile)
	}

	return cfg, nil
}

func getConfigPaths() []string {
	paths := []string{}

	// 1. ~/.config/lectern/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "lectern", "config.toml"))
	}

	// 2. ./config.toml (pwd, highest priority)
	paths = append(paths, "config.toml")

	return paths
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetUserName returns the checkpoint identity, falling back to $USER.
func (c *Config) GetUserName() string {
	if c.UserName != "" {
		return c.UserName
	}
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "default"
}

// GetLogLevel returns the configured log level with the default applied.
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// GetPlayerConfig returns the player configuration with defaults applied.
func (c *Config) GetPlayerConfig() PlayerConfig {
	cfg := c.Player

	if cfg.Binary == "" {
		cfg.Binary = "mpv"
	}
	if cfg.SeekStepSeconds <= 0 {
		cfg.SeekStepSeconds = 10
	}
	if cfg.Volume <= 0 || cfg.Volume > 1 {
		cfg.Volume = 1.0
	}

	return cfg
}

// AutosaveInterval returns the checkpoint autosave interval with the default applied.
func (c *Config) AutosaveInterval() time.Duration {
	s := c.Progress.AutosaveSeconds
	if s <= 0 {
		s = 5
	}
	return time.Duration(s) * time.Second
}
