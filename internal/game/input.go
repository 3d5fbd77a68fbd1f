package game

import (
	"github.com/vovakirdan/merge2048/internal/core"
	"github.com/vovakirdan/merge2048/internal/grid"
)

// Input is one decoded player keystroke.
// An Input with neither a direction nor Quit is an unrecognized key.
type Input struct {
	Direction    grid.Direction
	HasDirection bool
	Quit         bool
}

// Move returns an Input carrying a direction.
func Move(d grid.Direction) Input {
	return Input{Direction: d, HasDirection: true}
}

// Quit returns an Input asking the driver to stop.
func Quit() Input {
	return Input{Quit: true}
}

// InputFromAction translates an abstract front-end action.
func InputFromAction(a core.Action) Input {
	switch a {
	case core.ActionUp:
		return Move(grid.Up)
	case core.ActionLeft:
		return Move(grid.Left)
	case core.ActionDown:
		return Move(grid.Down)
	case core.ActionRight:
		return Move(grid.Right)
	case core.ActionQuit:
		return Quit()
	default:
		return Input{}
	}
}
