package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/logging"
	"github.com/vovakirdan/merge2048/internal/platform/mcpserver"
	"github.com/vovakirdan/merge2048/internal/storage"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve games to MCP clients over stdio",
	Long: `Run a Model Context Protocol server on stdin/stdout.

Clients start games with the new_game tool and play them with shift.
Each game is an independent session; open games are journaled as quit
when the client disconnects. Logs go to stderr or --log-file.

Example client entry:
  {"command": "merge2048", "args": ["mcp"]}`,
	Args: cobra.NoArgs,
	Run:  runMCP,
}

func runMCP(_ *cobra.Command, _ []string) {
	cfg, err := loadConfig("", config.Overrides{})
	exitOnError("loading config", err)

	// stdout carries the protocol
	logger, closeLog, err := logging.New(cfg.Log, "merge2048-mcp", os.Stderr)
	exitOnError("opening log", err)
	defer closeLog()

	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		logger.Warn("could not open run journal", "error", err)
		store = nil
	}

	srv := mcpserver.New(cfg.Board, store, logger)
	runErr := srv.ServeStdio()

	if store != nil {
		store.Close()
	}
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", runErr)
		os.Exit(1)
	}
}
