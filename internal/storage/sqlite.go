// Package storage provides SQLite-based persistence for finished runs.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/merge2048/internal/game"
)

// Outcome describes how a run ended.
type Outcome string

const (
	OutcomeLost Outcome = "lost" // board filled up
	OutcomeQuit Outcome = "quit" // player or session stopped before a loss
)

// Source identifies the front end a run was played on.
type Source string

const (
	SourceLocal Source = "local"
	SourceSSH   Source = "ssh"
	SourceMCP   Source = "mcp"
)

// Store manages the SQLite database connection for the run journal.
type Store struct {
	db *sql.DB
}

// Run represents a single finished run.
type Run struct {
	ID         int64
	Rows       int
	Cols       int
	WinValue   int
	Turns      int
	MaxTile    int
	ReachedWin bool
	Outcome    Outcome
	Source     Source
	Seed       int64
	CreatedAt  time.Time
}

// Board returns the board size formatted as "RxC".
func (r Run) Board() string {
	return fmt.Sprintf("%dx%d", r.Rows, r.Cols)
}

// NewRun builds a journal entry from the final snapshot of a run.
func NewRun(s game.Snapshot, source Source, seed int64) Run {
	outcome := OutcomeQuit
	if s.State == game.StateLost {
		outcome = OutcomeLost
	}
	return Run{
		Rows:       s.Rows,
		Cols:       s.Cols,
		WinValue:   s.WinValue,
		Turns:      s.Turn,
		MaxTile:    s.MaxTile,
		ReachedWin: s.ReachedWin,
		Outcome:    outcome,
		Source:     source,
		Seed:       seed,
	}
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			board_rows INTEGER NOT NULL,
			board_cols INTEGER NOT NULL,
			win_value INTEGER NOT NULL,
			turns INTEGER NOT NULL DEFAULT 0,
			max_tile INTEGER NOT NULL DEFAULT 0,
			reached_win INTEGER NOT NULL DEFAULT 0,
			outcome TEXT NOT NULL,
			source TEXT NOT NULL,
			seed INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_runs_board ON runs(board_rows, board_cols);
		CREATE INDEX IF NOT EXISTS idx_runs_best ON runs(board_rows, board_cols, max_tile DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveRun records a finished run.
// Returns the ID of the inserted record.
func (s *Store) SaveRun(r Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (board_rows, board_cols, win_value, turns, max_tile, reached_win, outcome, source, seed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Rows, r.Cols, r.WinValue, r.Turns, r.MaxTile, r.ReachedWin, string(r.Outcome), string(r.Source), r.Seed,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

const runColumns = `id, board_rows, board_cols, win_value, turns, max_tile, reached_win, outcome, source, seed, created_at`

// RecentRuns retrieves the most recent runs, newest first.
func (s *Store) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	return scanRuns(rows)
}

// BestRuns retrieves the runs with the highest tile on a board size.
func (s *Store) BestRuns(boardRows, boardCols, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(
		`SELECT `+runColumns+`
		 FROM runs
		 WHERE board_rows = ? AND board_cols = ?
		 ORDER BY max_tile DESC, turns ASC, id ASC
		 LIMIT ?`,
		boardRows, boardCols, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best runs: %w", err)
	}
	return scanRuns(rows)
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var outcome, source string
		var createdAt any
		if err := rows.Scan(
			&r.ID,
			&r.Rows,
			&r.Cols,
			&r.WinValue,
			&r.Turns,
			&r.MaxTile,
			&r.ReachedWin,
			&outcome,
			&source,
			&r.Seed,
			&createdAt,
		); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		r.Outcome = Outcome(outcome)
		r.Source = Source(source)
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return runs, nil
}

// ClearRuns deletes every journaled run.
func (s *Store) ClearRuns() error {
	if _, err := s.db.Exec("DELETE FROM runs"); err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// BoardStats contains aggregated statistics for one board size.
type BoardStats struct {
	Rows       int
	Cols       int
	Runs       int
	Wins       int
	BestTile   int
	AvgTurns   float64
	LastPlayed time.Time
}

// Board returns the board size formatted as "RxC".
func (b BoardStats) Board() string {
	return fmt.Sprintf("%dx%d", b.Rows, b.Cols)
}

// Stats retrieves statistics for every board size that has been played,
// keyed by "RxC".
func (s *Store) Stats() (map[string]*BoardStats, error) {
	rows, err := s.db.Query(
		`SELECT board_rows, board_cols, COUNT(*), SUM(reached_win), MAX(max_tile), AVG(turns), MAX(created_at)
		 FROM runs
		 GROUP BY board_rows, board_cols`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get board stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]*BoardStats)
	for rows.Next() {
		var b BoardStats
		var lastPlayed any
		if err := rows.Scan(&b.Rows, &b.Cols, &b.Runs, &b.Wins, &b.BestTile, &b.AvgTurns, &lastPlayed); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		b.LastPlayed = parseTime(lastPlayed)
		stats[b.Board()] = &b
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return stats, nil
}

// RunByID retrieves a single run. Returns ErrNotFound when absent.
func (s *Store) RunByID(id int64) (Run, error) {
	rows, err := s.db.Query(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	if err != nil {
		return Run{}, fmt.Errorf("storage: cannot query run: %w", err)
	}
	runs, err := scanRuns(rows)
	if err != nil {
		return Run{}, err
	}
	if len(runs) == 0 {
		return Run{}, ErrNotFound
	}
	return runs[0], nil
}

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("storage: run not found")

// parseTime handles the datetime column arriving as time.Time or string.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
