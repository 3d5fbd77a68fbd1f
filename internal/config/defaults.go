package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/merge2048/internal/grid"
)

//go:embed defaults/merge2048.yaml
var defaultYAML []byte

// Default returns the built-in configuration: a single strip of eight
// cells played to 2048.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Rows:     1,
			Cols:     8,
			WinValue: grid.DefaultWinValue,
		},
		Log: LogConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			Path: "~/.merge2048/runs.db",
		},
		SSH: SSHConfig{
			Address:     ":23234",
			HostKeyPath: ".ssh/merge2048_ed25519",
			IdleTimeout: 30 * time.Minute,
		},
	}
}
