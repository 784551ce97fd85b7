// photosync ⸻ internal/config/config.go
// config loading & management

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ErrNotConfigured marks a feature whose config section is absent.
// Callers depending on that feature fail fast instead of dereferencing
// missing state; everything else keeps working.
var ErrNotConfigured = errors.New("not configured")

// Config maps photosync.toml. Loaded once at startup, immutable after.
type Config struct {
	General struct {
		Artist string `toml:"artist"`
		Source string `toml:"source"`
		Log    string `toml:"log"`
	} `toml:"general"`
	Plex struct {
		URL   string `toml:"url"`
		Token string `toml:"token"`
	} `toml:"plex"`
	Filesystem struct {
		DataVolume string `toml:"data_volume"`
		CopyVolume string `toml:"copy_volume"`
	} `toml:"filesystem"`
	Writer struct {
		Strategy       string `toml:"strategy"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
	} `toml:"writer"`
	Daemon struct {
		Watch string `toml:"watch"`
	} `toml:"daemon"`
}

// loads the config, searching common locations
func Load() (*Config, error) {
	paths := []string{
		"./photosync.toml",
		"config/photosync.toml",
		filepath.Join(os.Getenv("HOME"), ".photosync/config/photosync.toml"),
	}

	var configPath string
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			configPath = path
			break
		}
	}

	// a missing config file is not fatal: features degrade one by one
	if configPath == "" {
		return Default(), nil
	}

	return LoadFile(configPath)
}

// loads the config from an explicit path
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// returns default config values
func Default() *Config {
	cfg := &Config{}
	cfg.General.Log = "photosync.log"
	cfg.Writer.Strategy = "exiftool"
	cfg.Writer.TimeoutSeconds = 30
	return cfg
}

// LogPath always resolves; the log must exist even with no config file.
func (c *Config) LogPath() string {
	if c.General.Log == "" {
		return "photosync.log"
	}
	return c.General.Log
}

// root against which relative descriptor paths are resolved
func (c *Config) DataRoot() (string, error) {
	if c.Filesystem.DataVolume == "" {
		return "", fmt.Errorf("filesystem data_volume: %w", ErrNotConfigured)
	}
	return c.Filesystem.DataVolume, nil
}

// destination for staging copies
func (c *Config) CopyRoot() (string, error) {
	if c.Filesystem.CopyVolume == "" {
		return "", fmt.Errorf("filesystem copy_volume: %w", ErrNotConfigured)
	}
	return c.Filesystem.CopyVolume, nil
}

// Plex connection parameters, both required together
func (c *Config) PlexServer() (url, token string, err error) {
	if c.Plex.URL == "" || c.Plex.Token == "" {
		return "", "", fmt.Errorf("plex url/token: %w", ErrNotConfigured)
	}
	return c.Plex.URL, c.Plex.Token, nil
}

// directory the daemon watches for dropped descriptor files
func (c *Config) WatchDir() (string, error) {
	if c.Daemon.Watch == "" {
		return "", fmt.Errorf("daemon watch: %w", ErrNotConfigured)
	}
	return c.Daemon.Watch, nil
}
