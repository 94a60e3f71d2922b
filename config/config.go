package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// PreviewConfig controls the piano-roll image written with --preview
type PreviewConfig struct {
	Width      int `json:"width,omitempty"`
	LaneHeight int `json:"laneHeight,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	MaxMemoryMB    int           `json:"maxMemoryMB,omitempty"`
	HardLimitMB    int           `json:"hardLimitMB,omitempty"` // 0 = off
	ReclaimPauseMs int           `json:"reclaimPauseMs,omitempty"`
	OutputSuffix   string        `json:"outputSuffix,omitempty"`
	DebugLog       bool          `json:"debugLog,omitempty"`
	Preview        PreviewConfig `json:"preview,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		MaxMemoryMB:    1024,
		ReclaimPauseMs: 50,
		OutputSuffix:   "_converted",
		Preview: PreviewConfig{
			Width:      1600,
			LaneHeight: 96,
		},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-midisplit"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Missing fields keep their defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Ceiling returns the soft memory ceiling in bytes
func (c *Config) Ceiling() uint64 {
	if c.MaxMemoryMB <= 0 {
		return 0
	}
	return uint64(c.MaxMemoryMB) << 20
}

// HardLimit returns the hard memory limit in bytes (0 = off)
func (c *Config) HardLimit() uint64 {
	if c.HardLimitMB <= 0 {
		return 0
	}
	return uint64(c.HardLimitMB) << 20
}

// ReclaimPause returns the pause after a forced collection
func (c *Config) ReclaimPause() time.Duration {
	if c.ReclaimPauseMs < 0 {
		return 0
	}
	return time.Duration(c.ReclaimPauseMs) * time.Millisecond
}

// OutputPath returns the default output path for input:
// <dir>/<stem><suffix>.mid
func (c *Config) OutputPath(input string) string {
	dir := filepath.Dir(input)
	stem := filepath.Base(input)
	stem = stem[:len(stem)-len(filepath.Ext(stem))]
	return filepath.Join(dir, stem+c.OutputSuffix+".mid")
}
