package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/logging"
	"github.com/vovakirdan/merge2048/internal/platform/tui"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
)

var serveCmd = &cobra.Command{
	Use:   "serve [preset]",
	Short: "Start the merge2048 SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own board. Runs from every session are
journaled to the same database.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, uses ssh.host_key_path from the config

Examples:
  merge2048 serve                           # Listen on the configured address
  merge2048 serve classic --ssh :2222       # Serve 4x4 boards on port 2222
  merge2048 serve --host-key ./my_host_key  # Use specific host key

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.MaximumNArgs(1),
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 0, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().IntVar(&flagRows, "rows", 0, "Board rows")
	serveCmd.Flags().IntVar(&flagCols, "cols", 0, "Board columns")
	serveCmd.Flags().IntVar(&flagWin, "win", 0, "Winning tile value")
}

func runServe(_ *cobra.Command, args []string) {
	preset := ""
	if len(args) > 0 {
		preset = args[0]
	}
	checkPreset(preset)

	cfg, err := loadConfig(preset, config.Overrides{Rows: flagRows, Cols: flagCols, WinValue: flagWin})
	exitOnError("loading config", err)

	serverCfg := tui.SSHServerConfigFrom(cfg)
	if flagSSHAddr != "" {
		serverCfg.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		serverCfg.HostKeyPath = flagHostKey
	}
	if flagIdleTimeout > 0 {
		serverCfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	}

	logger, closeLog, err := logging.New(cfg.Log, "merge2048-ssh", os.Stderr)
	exitOnError("opening log", err)
	defer closeLog()

	server, err := tui.NewSSHServer(serverCfg, logger)
	exitOnError("creating server", err)

	fmt.Printf("Starting merge2048 SSH server on %s (%dx%d boards)\n", server.Addr(), cfg.Board.Rows, cfg.Board.Cols)
	fmt.Println("Connect with: ssh localhost -p <port>")
	fmt.Println("Press Ctrl+C to stop")

	if err := server.ListenAndServe(); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
