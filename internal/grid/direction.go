package grid

import "strings"

// Direction represents a shift direction.
type Direction int

const (
	Up Direction = iota
	Left
	Down
	Right
)

// Directions lists every direction in declaration order.
var Directions = []Direction{Up, Left, Down, Right}

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Left:
		return "left"
	case Down:
		return "down"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection maps a name ("up", "L", "Right", ...) to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, true
	case "left", "l":
		return Left, true
	case "down", "d":
		return Down, true
	case "right", "r":
		return Right, true
	}
	return 0, false
}

// step returns the row/column offset pointing at the edge the direction names.
func (d Direction) step() (dr, dc int, ok bool) {
	switch d {
	case Up:
		return -1, 0, true
	case Down:
		return 1, 0, true
	case Left:
		return 0, -1, true
	case Right:
		return 0, 1, true
	}
	return 0, 0, false
}
