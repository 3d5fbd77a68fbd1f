package game

import "github.com/vovakirdan/merge2048/internal/grid"

// StateType represents the current game state.
type StateType string

const (
	StatePlaying StateType = "playing"
	StateWon     StateType = "won"  // a tile equal to the win value is on the board; play continues
	StateLost    StateType = "lost" // the board was full at the start of a turn
)

// Snapshot captures the observable game state after a turn.
// Drivers render it; tests compare it.
type Snapshot struct {
	Turn     int       `json:"turn"`
	Rows     int       `json:"rows"`
	Cols     int       `json:"cols"`
	WinValue int       `json:"win_value"`
	Cells    [][]int   `json:"cells"`
	MaxTile  int       `json:"max_tile"`
	Sum      int       `json:"sum"`
	Winning  bool      `json:"winning"`
	State    StateType `json:"state"`

	// ReachedWin stays true once any turn has shown a winning board.
	ReachedWin bool `json:"reached_win"`

	// LastMove is the direction applied on the previous turn, empty when
	// the input carried no direction.
	LastMove string `json:"last_move,omitempty"`

	Spawned   bool          `json:"spawned"`
	LastSpawn grid.Position `json:"last_spawn"`
}

// Over reports whether the run has ended.
func (s Snapshot) Over() bool {
	return s.State == StateLost
}

// Snapshot returns the current game snapshot.
func (c *Controller) Snapshot() Snapshot {
	state := c.state
	if state == "" {
		state = StatePlaying
	}

	return Snapshot{
		Turn:       c.turn,
		Rows:       c.grid.Rows(),
		Cols:       c.grid.Cols(),
		WinValue:   c.grid.WinValue(),
		Cells:      c.grid.Cells(),
		MaxTile:    c.grid.MaxTile(),
		Sum:        c.grid.Sum(),
		Winning:    c.grid.IsWinning(),
		State:      state,
		ReachedWin: c.reachedWin,
		LastMove:   c.lastMove,
		Spawned:    c.spawned,
		LastSpawn:  c.lastSpawn,
	}
}
