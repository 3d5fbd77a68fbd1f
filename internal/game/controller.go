// Package game drives a board through the turn cycle: spawn a tile,
// check for loss, show the board, read one input, shift. Front ends plug
// in through Renderer and InputSource, or step the Controller directly.
package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/merge2048/internal/grid"
)

// ErrQuit is returned by Run when the player asks to stop.
var ErrQuit = errors.New("game: quit")

// Renderer presents a snapshot to the player.
type Renderer interface {
	Render(s Snapshot) error
}

// InputSource blocks until the player presses a key.
type InputSource interface {
	Next(ctx context.Context) (Input, error)
}

// Controller owns a board and applies the turn cycle to it.
// It is not safe for concurrent use.
type Controller struct {
	grid   *grid.Grid
	rng    *rand.Rand
	logger *log.Logger

	started    bool
	state      StateType
	turn       int
	reachedWin bool
	lastMove   string
	spawned    bool
	lastSpawn  grid.Position
}

// Option configures a Controller.
type Option func(*Controller)

// WithSeed seeds a private random source for deterministic spawning.
func WithSeed(seed int64) Option {
	return func(c *Controller) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithLogger sets the logger for turn events.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewController creates a controller for g. The board is used as is; an
// empty board gets its first tile from Start.
func NewController(g *grid.Grid, opts ...Option) *Controller {
	c := &Controller{
		grid:  g,
		state: StatePlaying,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard)
	}
	return c
}

// Start performs the first spawn. Calling it again has no effect.
func (c *Controller) Start() Snapshot {
	if !c.started {
		c.started = true
		c.logger.Info("game started", "rows", c.grid.Rows(), "cols", c.grid.Cols(), "win", c.grid.WinValue())
		c.advance()
	}
	return c.Snapshot()
}

// Apply consumes one input and runs the rest of the turn. A direction
// shifts the board; any other input leaves it unchanged. Either way the
// next turn begins, so a tile spawns if there is room.
// Quit inputs are the driver's concern and are treated as unrecognized.
// Apply on a lost game returns the final snapshot unchanged.
func (c *Controller) Apply(in Input) Snapshot {
	if !c.started {
		c.Start()
	}
	if c.state == StateLost {
		return c.Snapshot()
	}

	c.lastMove = ""
	if in.HasDirection {
		c.grid.Shift(in.Direction)
		c.lastMove = in.Direction.String()
		c.logger.Debug("shift", "turn", c.turn, "dir", c.lastMove, "max", c.grid.MaxTile())
	} else {
		c.logger.Debug("input ignored", "turn", c.turn)
	}

	c.advance()
	return c.Snapshot()
}

// advance begins a turn: a full board ends the game, otherwise one tile
// spawns and the win flag is refreshed.
func (c *Controller) advance() {
	c.spawned = false

	if c.grid.IsFull() {
		c.state = StateLost
		c.logger.Info("board full", "turns", c.turn, "max", c.grid.MaxTile())
		return
	}

	p, err := c.grid.SpawnTile(c.rng)
	if err != nil {
		c.state = StateLost
		c.logger.Error("spawn failed", "err", err)
		return
	}
	c.turn++
	c.spawned = true
	c.lastSpawn = p

	if c.grid.IsWinning() {
		if !c.reachedWin {
			c.logger.Info("win value reached", "turn", c.turn, "win", c.grid.WinValue())
		}
		c.reachedWin = true
		c.state = StateWon
	} else {
		c.state = StatePlaying
	}
}

// Run plays the game to completion. After a loss it renders the final
// board and waits for one more key before returning.
func (c *Controller) Run(ctx context.Context, r Renderer, src InputSource) (Snapshot, error) {
	snap := c.Start()

	for !snap.Over() {
		if err := r.Render(snap); err != nil {
			return snap, fmt.Errorf("game: render: %w", err)
		}
		in, err := src.Next(ctx)
		if err != nil {
			return snap, fmt.Errorf("game: read input: %w", err)
		}
		if in.Quit {
			c.logger.Info("quit", "turns", snap.Turn)
			return snap, ErrQuit
		}
		snap = c.Apply(in)
	}

	if err := r.Render(snap); err != nil {
		return snap, fmt.Errorf("game: render: %w", err)
	}
	if _, err := src.Next(ctx); err != nil {
		return snap, fmt.Errorf("game: read input: %w", err)
	}
	return snap, nil
}
