package grid

import (
	"math/rand"
	"reflect"
	"testing"
)

func mustGrid(t *testing.T, layout [][]int) *Grid {
	t.Helper()
	g, err := FromCells(layout, DefaultWinValue)
	if err != nil {
		t.Fatalf("FromCells(%v) failed: %v", layout, err)
	}
	return g
}

func TestShiftRowScenarios(t *testing.T) {
	tests := []struct {
		name     string
		input    []int
		dir      Direction
		expected []int
	}{
		{
			name:     "simple merge",
			input:    []int{2, 2, 0, 0, 0, 0, 0, 0},
			dir:      Left,
			expected: []int{4, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:     "two independent merges",
			input:    []int{2, 2, 2, 2, 0, 0, 0, 0},
			dir:      Left,
			expected: []int{4, 4, 0, 0, 0, 0, 0, 0},
		},
		{
			name:     "pure compaction",
			input:    []int{0, 0, 0, 0, 0, 0, 0, 2},
			dir:      Left,
			expected: []int{2, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:     "merge with trailing tile",
			input:    []int{2, 2, 2, 0, 0, 0, 0, 0},
			dir:      Left,
			expected: []int{4, 2, 0, 0, 0, 0, 0, 0},
		},
		{
			name:     "slide with multiple gaps",
			input:    []int{2, 0, 0, 2, 0, 0, 0, 0},
			dir:      Left,
			expected: []int{4, 0, 0, 0, 0, 0, 0, 0},
		},
		{
			name:     "merged tile keeps sliding but does not merge again",
			input:    []int{0, 4, 4, 8, 0, 0, 0, 0},
			dir:      Left,
			expected: []int{8, 8, 0, 0, 0, 0, 0, 0},
		},
		{
			name:     "nearest pair to the edge merges first",
			input:    []int{0, 0, 0, 0, 0, 2, 2, 2},
			dir:      Right,
			expected: []int{0, 0, 0, 0, 0, 0, 2, 4},
		},
		{
			name:     "right mirrors left",
			input:    []int{2, 2, 2, 2, 0, 0, 0, 0},
			dir:      Right,
			expected: []int{0, 0, 0, 0, 0, 0, 4, 4},
		},
		{
			name:     "vertical shift on a single row is a no-op",
			input:    []int{0, 2, 2, 0, 4, 0, 0, 8},
			dir:      Up,
			expected: []int{0, 2, 2, 0, 4, 0, 0, 8},
		},
		{
			name:     "empty row",
			input:    []int{0, 0, 0, 0, 0, 0, 0, 0},
			dir:      Left,
			expected: []int{0, 0, 0, 0, 0, 0, 0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGrid(t, [][]int{tt.input})
			g.Shift(tt.dir)
			if got := g.Cells()[0]; !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Shift(%s) on %v = %v, want %v", tt.dir, tt.input, got, tt.expected)
			}
		})
	}
}

func TestShiftFullAlternatingRowIsStable(t *testing.T) {
	row := []int{2, 4, 2, 4, 2, 4, 2, 4}
	for _, d := range Directions {
		g := mustGrid(t, [][]int{row})
		g.Shift(d)
		if got := g.Cells()[0]; !reflect.DeepEqual(got, row) {
			t.Errorf("Shift(%s) changed %v into %v", d, row, got)
		}
	}
}

func TestShiftLeft(t *testing.T) {
	g := mustGrid(t, [][]int{
		{2, 2, 0, 0},
		{4, 0, 4, 0},
		{2, 2, 2, 2},
		{0, 0, 0, 2},
	})
	expected := [][]int{
		{4, 0, 0, 0},
		{8, 0, 0, 0},
		{4, 4, 0, 0},
		{2, 0, 0, 0},
	}

	g.Shift(Left)

	if got := g.Cells(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Shift(Left): got\n%v\nwant\n%v", got, expected)
	}
}

func TestShiftRight(t *testing.T) {
	g := mustGrid(t, [][]int{
		{2, 2, 0, 0},
		{4, 0, 4, 0},
		{2, 2, 2, 2},
		{0, 0, 0, 2},
	})
	expected := [][]int{
		{0, 0, 0, 4},
		{0, 0, 0, 8},
		{0, 0, 4, 4},
		{0, 0, 0, 2},
	}

	g.Shift(Right)

	if got := g.Cells(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Shift(Right): got\n%v\nwant\n%v", got, expected)
	}
}

func TestShiftUp(t *testing.T) {
	g := mustGrid(t, [][]int{
		{2, 4, 2, 0},
		{2, 0, 2, 0},
		{0, 4, 2, 0},
		{0, 0, 2, 2},
	})
	expected := [][]int{
		{4, 8, 4, 2},
		{0, 0, 4, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	g.Shift(Up)

	if got := g.Cells(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Shift(Up): got\n%v\nwant\n%v", got, expected)
	}
}

func TestShiftDown(t *testing.T) {
	g := mustGrid(t, [][]int{
		{2, 4, 2, 2},
		{2, 0, 2, 0},
		{0, 4, 2, 0},
		{0, 0, 2, 0},
	})
	expected := [][]int{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 4, 0},
		{4, 8, 4, 2},
	}

	g.Shift(Down)

	if got := g.Cells(); !reflect.DeepEqual(got, expected) {
		t.Errorf("Shift(Down): got\n%v\nwant\n%v", got, expected)
	}
}

func TestShiftOneMergePerTile(t *testing.T) {
	// [4, 4, 4, 4] sliding left should become [8, 8, 0, 0], not [16, 0, 0, 0]
	g := mustGrid(t, [][]int{{4, 4, 4, 4}})
	g.Shift(Left)

	expected := []int{8, 8, 0, 0}
	if got := g.Cells()[0]; !reflect.DeepEqual(got, expected) {
		t.Errorf("Shift(Left) = %v, want %v", got, expected)
	}
}

func TestShiftUnknownDirectionIsNoop(t *testing.T) {
	g := mustGrid(t, [][]int{{0, 2, 2, 0}})
	before := g.Clone()

	g.Shift(Direction(42))

	if !g.Equal(before) {
		t.Errorf("unknown direction changed board to %v", g.Cells())
	}
}

// slideLine is the single-pass left slide: each tile merges at most once.
func slideLine(line []int) []int {
	result := make([]int, len(line))
	writePos := 0
	mergedAt := -1
	for _, v := range line {
		if v == 0 {
			continue
		}
		if writePos > 0 && result[writePos-1] == v && mergedAt != writePos-1 {
			result[writePos-1] *= 2
			mergedAt = writePos - 1
			continue
		}
		result[writePos] = v
		writePos++
	}
	return result
}

// referenceShift applies slideLine to every line read from the target edge.
func referenceShift(cells [][]int, d Direction) [][]int {
	rows, cols := len(cells), len(cells[0])
	out := make([][]int, rows)
	for r := range out {
		out[r] = make([]int, cols)
	}

	switch d {
	case Left, Right:
		for r := range rows {
			line := make([]int, cols)
			for i := range cols {
				c := i
				if d == Right {
					c = cols - 1 - i
				}
				line[i] = cells[r][c]
			}
			slid := slideLine(line)
			for i := range cols {
				c := i
				if d == Right {
					c = cols - 1 - i
				}
				out[r][c] = slid[i]
			}
		}
	case Up, Down:
		for c := range cols {
			line := make([]int, rows)
			for i := range rows {
				r := i
				if d == Down {
					r = rows - 1 - i
				}
				line[i] = cells[r][c]
			}
			slid := slideLine(line)
			for i := range rows {
				r := i
				if d == Down {
					r = rows - 1 - i
				}
				out[r][c] = slid[i]
			}
		}
	}
	return out
}

func randomLayout(rng *rand.Rand, rows, cols int) [][]int {
	values := []int{0, 0, 0, 2, 2, 4, 4, 8, 16}
	layout := make([][]int, rows)
	for r := range layout {
		layout[r] = make([]int, cols)
		for c := range layout[r] {
			layout[r][c] = values[rng.Intn(len(values))]
		}
	}
	return layout
}

func TestShiftMatchesSinglePassReference(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	shapes := [][2]int{{1, 8}, {4, 4}, {3, 6}, {6, 2}, {5, 5}}

	for _, shape := range shapes {
		for range 200 {
			layout := randomLayout(rng, shape[0], shape[1])
			for _, d := range Directions {
				g := mustGrid(t, layout)
				g.Shift(d)
				want := referenceShift(layout, d)
				if got := g.Cells(); !reflect.DeepEqual(got, want) {
					t.Fatalf("Shift(%s) on %v = %v, want %v", d, layout, got, want)
				}
			}
		}
	}
}

func TestShiftPreservesSum(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for range 300 {
		layout := randomLayout(rng, 4, 4)
		for _, d := range Directions {
			g := mustGrid(t, layout)
			before := g.Sum()
			g.Shift(d)
			if after := g.Sum(); after != before {
				t.Fatalf("Shift(%s) on %v changed sum %d -> %d", d, layout, before, after)
			}
		}
	}
}

// hasAxisPair reports whether two equal tiles sit next to each other
// along the axis d shifts on, skipping empty cells between them.
func hasAxisPair(g *Grid, d Direction) bool {
	cells := g.Cells()
	horizontal := d == Left || d == Right

	lines := g.Rows()
	length := g.Cols()
	if !horizontal {
		lines, length = length, lines
	}
	for i := 0; i < lines; i++ {
		prev := 0
		for j := 0; j < length; j++ {
			var v int
			if horizontal {
				v = cells[i][j]
			} else {
				v = cells[j][i]
			}
			if v == 0 {
				continue
			}
			if v == prev {
				return true
			}
			prev = v
		}
	}
	return false
}

func TestShiftSettlesToFixedPoint(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	for range 300 {
		layout := randomLayout(rng, 3, 5)
		for _, d := range Directions {
			g := mustGrid(t, layout)
			prev := g.Clone()
			g.Shift(d)

			// Every extra shift merges at least one pair, so a 3x5 board
			// settles within 15 repeats.
			for i := 0; !g.Equal(prev); i++ {
				if i > 15 {
					t.Fatalf("Shift(%s) on %v never settled", d, layout)
				}
				prev = g.Clone()
				g.Shift(d)
			}
			if hasAxisPair(g, d) {
				t.Fatalf("settled board still has a mergeable pair for %s:\n%v", d, g)
			}
		}
	}
}

func TestShiftWithoutPairsIsFixedPoint(t *testing.T) {
	rng := rand.New(rand.NewSource(19))
	for range 300 {
		layout := randomLayout(rng, 3, 5)
		for _, d := range Directions {
			g := mustGrid(t, layout)
			g.Shift(d)
			if hasAxisPair(g, d) {
				// Only pairs created by the first shift may merge next.
				continue
			}
			settled := g.Clone()
			g.Shift(d)
			if !g.Equal(settled) {
				t.Fatalf("second Shift(%s) changed\n%v\ninto\n%v", d, settled, g)
			}
		}
	}
}

func TestShiftSecondMoveMergesNewPairs(t *testing.T) {
	g := mustGrid(t, [][]int{{2, 2, 2, 2, 0, 0, 0, 0}})

	g.Shift(Left)
	if got, want := g.Cells()[0], []int{4, 4, 0, 0, 0, 0, 0, 0}; !reflect.DeepEqual(got, want) {
		t.Fatalf("first Shift(left) = %v, want %v", got, want)
	}
	g.Shift(Left)
	if got, want := g.Cells()[0], []int{8, 0, 0, 0, 0, 0, 0, 0}; !reflect.DeepEqual(got, want) {
		t.Fatalf("second Shift(left) = %v, want %v", got, want)
	}
	g.Shift(Left)
	if got, want := g.Cells()[0], []int{8, 0, 0, 0, 0, 0, 0, 0}; !reflect.DeepEqual(got, want) {
		t.Fatalf("third Shift(left) = %v, want %v", got, want)
	}
}

func TestShiftNeverOverflowsMerge(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for range 300 {
		layout := randomLayout(rng, 4, 4)
		for _, d := range Directions {
			g := mustGrid(t, layout)
			maxBefore := g.MaxTile()
			g.Shift(d)
			if maxAfter := g.MaxTile(); maxAfter > 2*maxBefore {
				t.Fatalf("Shift(%s) on %v produced %d from max %d", d, layout, maxAfter, maxBefore)
			}
		}
	}
}
