// Package grid implements the tile board: shift-and-merge in four
// directions, tile spawning, and the full/winning queries the game loop
// is driven by.
package grid

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
)

const (
	// SpawnValue is the value of every spawned tile.
	SpawnValue = 2

	// DefaultWinValue is the tile value that marks a winning board.
	DefaultWinValue = 2048
)

var (
	// ErrBoardFull is returned when a tile is spawned on a board with no empty cell.
	ErrBoardFull = errors.New("grid: spawn on full board")

	// ErrInvalidDimensions is returned for boards with fewer than one row or column.
	ErrInvalidDimensions = errors.New("grid: rows and cols must be at least 1")

	// ErrInvalidWinValue is returned when the win value is not a power of two >= 4.
	ErrInvalidWinValue = errors.New("grid: win value must be a power of two >= 4")
)

// Position addresses a single cell.
type Position struct {
	Row int
	Col int
}

// Grid is a rows x cols board of tile values. Zero is an empty cell.
// Cells are stored row-major and never reallocated after construction.
type Grid struct {
	rows     int
	cols     int
	winValue int
	cells    []int
}

// New creates an empty board.
func New(rows, cols, winValue int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, rows, cols)
	}
	if !ValidWinValue(winValue) {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWinValue, winValue)
	}
	return &Grid{
		rows:     rows,
		cols:     cols,
		winValue: winValue,
		cells:    make([]int, rows*cols),
	}, nil
}

// FromCells creates a board from a row-major layout. All rows must have
// the same length and every value must be zero or a power of two.
func FromCells(layout [][]int, winValue int) (*Grid, error) {
	if len(layout) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidDimensions)
	}
	g, err := New(len(layout), len(layout[0]), winValue)
	if err != nil {
		return nil, err
	}
	for r, row := range layout {
		if len(row) != g.cols {
			return nil, fmt.Errorf("grid: row %d has %d cells, want %d", r, len(row), g.cols)
		}
		for c, v := range row {
			if v != 0 && !isPowerOfTwo(v) {
				return nil, fmt.Errorf("grid: cell (%d,%d) value %d is not a power of two", r, c, v)
			}
			g.cells[g.index(r, c)] = v
		}
	}
	return g, nil
}

// ValidWinValue reports whether v can be used as a win value.
func ValidWinValue(v int) bool {
	return v >= 4 && isPowerOfTwo(v)
}

func isPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// Rows returns the number of rows.
func (g *Grid) Rows() int {
	return g.rows
}

// Cols returns the number of columns.
func (g *Grid) Cols() int {
	return g.cols
}

// WinValue returns the tile value that marks a winning board.
func (g *Grid) WinValue() int {
	return g.winValue
}

// At returns the value at (row, col). Out-of-range coordinates read as 0.
func (g *Grid) At(row, col int) int {
	if !g.inBounds(row, col) {
		return 0
	}
	return g.cells[g.index(row, col)]
}

// IsFull reports whether every cell holds a tile.
func (g *Grid) IsFull() bool {
	for _, v := range g.cells {
		if v == 0 {
			return false
		}
	}
	return true
}

// IsWinning reports whether any cell equals the win value.
func (g *Grid) IsWinning() bool {
	for _, v := range g.cells {
		if v == g.winValue {
			return true
		}
	}
	return false
}

// EmptyCells returns the positions of all empty cells in row-major order.
func (g *Grid) EmptyCells() []Position {
	var empty []Position
	for i, v := range g.cells {
		if v == 0 {
			empty = append(empty, Position{Row: i / g.cols, Col: i % g.cols})
		}
	}
	return empty
}

// EmptyCount returns the number of empty cells.
func (g *Grid) EmptyCount() int {
	n := 0
	for _, v := range g.cells {
		if v == 0 {
			n++
		}
	}
	return n
}

// SpawnTile places a SpawnValue tile on an empty cell chosen uniformly
// at random and returns its position.
func (g *Grid) SpawnTile(rng *rand.Rand) (Position, error) {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return Position{}, ErrBoardFull
	}
	p := empty[rng.Intn(len(empty))]
	g.cells[g.index(p.Row, p.Col)] = SpawnValue
	return p, nil
}

// Sum returns the total of all tile values.
func (g *Grid) Sum() int {
	total := 0
	for _, v := range g.cells {
		total += v
	}
	return total
}

// MaxTile returns the highest tile value on the board.
func (g *Grid) MaxTile() int {
	maxVal := 0
	for _, v := range g.cells {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// Cells returns a copy of the board as rows.
func (g *Grid) Cells() [][]int {
	out := make([][]int, g.rows)
	for r := range g.rows {
		out[r] = make([]int, g.cols)
		copy(out[r], g.cells[r*g.cols:(r+1)*g.cols])
	}
	return out
}

// Clone returns an independent copy of the board.
func (g *Grid) Clone() *Grid {
	cells := make([]int, len(g.cells))
	copy(cells, g.cells)
	return &Grid{rows: g.rows, cols: g.cols, winValue: g.winValue, cells: cells}
}

// Equal reports whether both boards have the same shape and tiles.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.rows != other.rows || g.cols != other.cols {
		return false
	}
	for i, v := range g.cells {
		if other.cells[i] != v {
			return false
		}
	}
	return true
}

// String renders the board as space-separated rows.
func (g *Grid) String() string {
	var sb strings.Builder
	for r := range g.rows {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := range g.cols {
			if c > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(g.cells[g.index(r, c)]))
		}
	}
	return sb.String()
}

func (g *Grid) index(row, col int) int {
	return row*g.cols + col
}

func (g *Grid) inBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}
