// merge2048 is a tile-merging puzzle for the terminal.
//
// Usage:
//
//	merge2048                  - Play the default board
//	merge2048 play [preset]    - Play a board preset
//	merge2048 list             - List board presets
//	merge2048 history          - Browse finished runs
//	merge2048 serve            - Start SSH server for remote play
//	merge2048 mcp              - Serve games to MCP clients over stdio
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.merge2048/config.yaml)
//	--db <path>         - Run journal path (default: ~/.merge2048/runs.db)
//	--log-level <lvl>   - debug, info, warn, error
//	--log-file <path>   - Write logs to a file
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/registry"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "merge2048",
	Short: "merge2048 - Slide and merge tiles in your terminal",
	Long: `merge2048 is a sliding-tile puzzle. Every key press is one turn:
a new tile appears, then your move shifts and merges the board.
Reach the target tile to win, and keep going until the board fills up.

Available commands:
  play     - Play a board (default command)
  list     - Show board presets
  history  - Browse finished runs
  serve    - Start SSH server for remote play
  mcp      - Serve games to MCP clients over stdio

Examples:
  merge2048
  merge2048 play classic
  merge2048 play --rows 5 --cols 5 --win 1024
  merge2048 serve --ssh :2222`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to run journal database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")

	addPlayFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}

// loadConfig resolves the configuration: file, then preset, then flags.
func loadConfig(preset string, over config.Overrides) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if preset != "" {
		p, lookupErr := registry.Lookup(preset)
		if lookupErr != nil {
			return cfg, lookupErr
		}
		cfg.ApplyPreset(p)
	}

	over.LogLevel = flagLogLevel
	over.LogFile = flagLogFile
	over.DBPath = flagDBPath
	over.Apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// checkPreset exits with a hint when a named preset is not registered.
func checkPreset(preset string) {
	if preset == "" || registry.Exists(preset) {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: unknown preset %q\n", preset)
	fmt.Fprintln(os.Stderr, "Run 'merge2048 list' to see available presets.")
	os.Exit(1)
}

// exitOnError prints err to stderr and exits.
func exitOnError(context string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}
