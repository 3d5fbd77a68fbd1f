package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/core"
	"github.com/vovakirdan/merge2048/internal/game"
	"github.com/vovakirdan/merge2048/internal/grid"
	"github.com/vovakirdan/merge2048/internal/logging"
	plainterm "github.com/vovakirdan/merge2048/internal/platform/term"
	"github.com/vovakirdan/merge2048/internal/platform/tui"
	"github.com/vovakirdan/merge2048/internal/storage"
)

var (
	flagPlain bool
	flagRows  int
	flagCols  int
	flagWin   int
	flagSeed  int64
)

var playCmd = &cobra.Command{
	Use:   "play [preset]",
	Short: "Play a board",
	Long: `Start a game on the configured board, or on a named preset.

Every key press is one turn. A tile spawns first, then your move shifts
the board. Keys that are not moves still spend the turn.

Controls:
  Arrows/WASD/HJKL  - Shift tiles
  Q/Esc/Ctrl+C      - Quit
  Ctrl+S            - Save a screenshot (full-screen mode)

Use --plain for the line-printed board, which also reads piped input.

Examples:
  merge2048 play
  merge2048 play classic
  merge2048 play --rows 5 --cols 5 --win 1024
  merge2048 play strip --plain --seed 42`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func init() {
	addPlayFlags(playCmd)
}

// addPlayFlags registers the board flags on cmd. The root command shares
// them so that a bare "merge2048" plays.
func addPlayFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&flagPlain, "plain", false, "Print the board as text instead of the full-screen UI")
	cmd.Flags().IntVar(&flagRows, "rows", 0, "Board rows (overrides config and preset)")
	cmd.Flags().IntVar(&flagCols, "cols", 0, "Board columns (overrides config and preset)")
	cmd.Flags().IntVar(&flagWin, "win", 0, "Winning tile value, a power of two >= 4")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
}

func runPlay(cmd *cobra.Command, args []string) {
	preset := ""
	if len(args) > 0 {
		preset = args[0]
	}
	checkPreset(preset)

	cfg, err := loadConfig(preset, config.Overrides{Rows: flagRows, Cols: flagCols, WinValue: flagWin})
	exitOnError("loading config", err)

	g, err := grid.New(cfg.Board.Rows, cfg.Board.Cols, cfg.Board.WinValue)
	exitOnError("creating board", err)

	runtime := screenConfig()
	runtime.Seed = flagSeed
	// Resolve once so the journal records the seed actually played.
	runtime.Seed = runtime.ResolveSeed()

	// Logs must not draw over the board unless they go to a file.
	logger, closeLog, err := logging.New(cfg.Log, "merge2048", io.Discard)
	exitOnError("opening log", err)
	defer closeLog()

	// Open run journal
	store, err := storage.Open(cfg.Storage.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open run journal: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	ctrl := game.NewController(g, game.WithSeed(runtime.Seed), game.WithLogger(logger))

	var runErr error
	if flagPlain {
		runErr = playPlain(ctrl, store, runtime.Seed, logger)
	} else {
		_, runErr = tui.Run(ctrl, runtime, tui.Options{
			Store:  store,
			Logger: logger,
			Source: storage.SourceLocal,
		})
	}

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// screenConfig sizes the runtime config to the terminal, keeping the
// defaults when stdout is not one.
func screenConfig() core.RuntimeConfig {
	cfg := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		cfg.ScreenW = w
		cfg.ScreenH = h
	}
	return cfg
}

// playPlain runs the game on the raw terminal and journals the result.
// Quitting and running out of input end the game normally.
func playPlain(ctrl *game.Controller, store *storage.Store, seed int64, logger *log.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver, err := plainterm.Open(os.Stdin, os.Stdout, logger)
	if err != nil {
		return err
	}

	logger.Debug("plain mode", "raw", driver.Raw())
	snap, runErr := ctrl.Run(ctx, driver, driver)
	if closeErr := driver.Close(); closeErr != nil {
		logger.Warn("could not restore terminal", "error", closeErr)
	}

	if store != nil {
		if _, saveErr := store.SaveRun(storage.NewRun(snap, storage.SourceLocal, seed)); saveErr != nil {
			logger.Warn("could not journal run", "error", saveErr)
		}
	}

	switch {
	case runErr == nil, errors.Is(runErr, game.ErrQuit), plainterm.IsEOF(runErr), errors.Is(runErr, context.Canceled):
		return nil
	default:
		return runErr
	}
}
