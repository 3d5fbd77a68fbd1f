package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/config"
	"github.com/vovakirdan/merge2048/internal/platform/tui"
	"github.com/vovakirdan/merge2048/internal/storage"
)

var (
	flagHistoryPlain bool
	flagHistoryBest  bool
	flagHistoryLimit int
	flagHistoryClear bool
	flagHistoryRun   int64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse finished runs",
	Long: `Show the run journal: every finished or abandoned game with its board,
turns, and largest tile.

Without flags an interactive browser opens. Use --plain to print the
journal instead.

Examples:
  merge2048 history
  merge2048 history --plain --limit 20
  merge2048 history --plain --best --rows 4 --cols 4
  merge2048 history --run 12
  merge2048 history --clear`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().BoolVar(&flagHistoryPlain, "plain", false, "Print runs as text")
	historyCmd.Flags().BoolVar(&flagHistoryBest, "best", false, "Show the best runs for the configured board instead of the latest")
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 10, "Number of runs to print")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete every journaled run")
	historyCmd.Flags().Int64Var(&flagHistoryRun, "run", 0, "Print the details of one run by ID")
	historyCmd.Flags().IntVar(&flagRows, "rows", 0, "Board rows for --best")
	historyCmd.Flags().IntVar(&flagCols, "cols", 0, "Board columns for --best")
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig("", config.Overrides{Rows: flagRows, Cols: flagCols})
	exitOnError("loading config", err)

	store, err := storage.Open(cfg.Storage.Path)
	exitOnError("opening run journal", err)
	defer store.Close()

	if flagHistoryClear {
		if err := store.ClearRuns(); err != nil {
			store.Close()
			exitOnError("clearing runs", err)
		}
		fmt.Println("Run journal cleared.")
		return
	}

	if flagHistoryRun > 0 {
		run, err := store.RunByID(flagHistoryRun)
		if errors.Is(err, storage.ErrNotFound) {
			store.Close()
			fmt.Fprintf(os.Stderr, "Error: no run with ID %d\n", flagHistoryRun)
			os.Exit(1)
		}
		if err != nil {
			store.Close()
			exitOnError("retrieving run", err)
		}
		printRun(run)
		return
	}

	if !flagHistoryPlain {
		screen := screenConfig()
		if err := tui.RunHistory(store, screen.ScreenW, screen.ScreenH); err != nil {
			store.Close()
			exitOnError("running history", err)
		}
		return
	}

	var runs []storage.Run
	if flagHistoryBest {
		fmt.Printf("Best runs - %dx%d\n", cfg.Board.Rows, cfg.Board.Cols)
		runs, err = store.BestRuns(cfg.Board.Rows, cfg.Board.Cols, flagHistoryLimit)
	} else {
		fmt.Println("Recent runs")
		runs, err = store.RecentRuns(flagHistoryLimit)
	}
	if err != nil {
		store.Close()
		exitOnError("retrieving runs", err)
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'merge2048 play' to record the first one!")
		return
	}

	printRuns(runs)

	stats, err := store.Stats()
	if err != nil || len(stats) == 0 {
		return
	}
	fmt.Println()
	printStats(stats)
}

func printRuns(runs []storage.Run) {
	fmt.Printf("  %-5s  %-5s  %-6s  %-6s  %-3s  %-7s  %-5s  %s\n", "ID", "Board", "Turns", "Max", "Won", "Outcome", "From", "Date")
	fmt.Printf("  %-5s  %-5s  %-6s  %-6s  %-3s  %-7s  %-5s  %s\n", "--", "-----", "-----", "---", "---", "-------", "----", "----")

	for _, r := range runs {
		won := "no"
		if r.ReachedWin {
			won = "yes"
		}
		dateStr := r.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-5d  %-5s  %-6d  %-6d  %-3s  %-7s  %-5s  %s\n",
			r.ID, r.Board(), r.Turns, r.MaxTile, won, r.Outcome, r.Source, dateStr)
	}
}

func printRun(r storage.Run) {
	fmt.Printf("Run %d\n", r.ID)
	fmt.Println()
	fmt.Printf("  Board:    %s, win at %d\n", r.Board(), r.WinValue)
	fmt.Printf("  Turns:    %d\n", r.Turns)
	fmt.Printf("  Max tile: %d\n", r.MaxTile)
	fmt.Printf("  Won:      %t\n", r.ReachedWin)
	fmt.Printf("  Outcome:  %s (%s)\n", r.Outcome, r.Source)
	fmt.Printf("  Seed:     %d\n", r.Seed)
	fmt.Printf("  Played:   %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Println()
	fmt.Printf("Same board and spawn seed: merge2048 play --rows %d --cols %d --win %d --seed %d\n", r.Rows, r.Cols, r.WinValue, r.Seed)
}

func printStats(stats map[string]*storage.BoardStats) {
	boards := make([]string, 0, len(stats))
	for b := range stats {
		boards = append(boards, b)
	}
	sort.Strings(boards)

	for _, b := range boards {
		st := stats[b]
		fmt.Printf("%s: %d runs, %d won, best tile %d, avg %.1f turns\n",
			b, st.Runs, st.Wins, st.BestTile, st.AvgTurns)
	}
}
