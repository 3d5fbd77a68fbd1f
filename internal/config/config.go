// Package config provides YAML-based configuration loading for merge2048:
// board shape, logging, the run journal, and the SSH server.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/merge2048/internal/grid"
	"github.com/vovakirdan/merge2048/internal/registry"
)

// Config contains all merge2048 configuration.
type Config struct {
	Board   BoardConfig   `yaml:"board"`
	Log     LogConfig     `yaml:"log"`
	Storage StorageConfig `yaml:"storage"`
	SSH     SSHConfig     `yaml:"ssh"`
}

// BoardConfig defines the board shape and win threshold.
type BoardConfig struct {
	Rows     int `yaml:"rows"`
	Cols     int `yaml:"cols"`
	WinValue int `yaml:"win_value"`
}

// LogConfig defines logger output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file"`  // empty disables file logging
}

// StorageConfig defines where finished runs are journaled.
type StorageConfig struct {
	Path string `yaml:"path"`
}

// SSHConfig defines the multi-session SSH server.
type SSHConfig struct {
	Address     string        `yaml:"address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
}

// Overrides holds command-line values that take precedence over the file.
// Zero fields are left alone.
type Overrides struct {
	Rows     int
	Cols     int
	WinValue int
	LogLevel string
	LogFile  string
	DBPath   string
}

// Apply copies every non-zero override into cfg.
func (o Overrides) Apply(cfg *Config) {
	if o.Rows > 0 {
		cfg.Board.Rows = o.Rows
	}
	if o.Cols > 0 {
		cfg.Board.Cols = o.Cols
	}
	if o.WinValue > 0 {
		cfg.Board.WinValue = o.WinValue
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
	if o.DBPath != "" {
		cfg.Storage.Path = o.DBPath
	}
}

// ApplyPreset replaces the board section with a named preset's shape.
func (c *Config) ApplyPreset(p registry.Preset) {
	c.Board = BoardConfig{Rows: p.Rows, Cols: p.Cols, WinValue: p.WinValue}
}

// Validate checks the configuration for values the game cannot run with.
func (c Config) Validate() error {
	if c.Board.Rows < 1 || c.Board.Cols < 1 {
		return fmt.Errorf("config: board must be at least 1x1, got %dx%d", c.Board.Rows, c.Board.Cols)
	}
	if !grid.ValidWinValue(c.Board.WinValue) {
		return fmt.Errorf("config: win_value %d is not a power of two >= 4", c.Board.WinValue)
	}
	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return fmt.Errorf("config: log level: %w", err)
		}
	}
	if c.SSH.IdleTimeout < 0 {
		return fmt.Errorf("config: ssh idle_timeout must not be negative")
	}
	return nil
}
