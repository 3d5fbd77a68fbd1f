package game

import (
	"strings"
	"testing"

	"github.com/vovakirdan/merge2048/internal/core"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name     string
		snap     Snapshot
		expected []string
	}{
		{
			name: "playing strip",
			snap: Snapshot{Rows: 1, Cols: 3, Cells: [][]int{{2, 0, 16}}, State: StatePlaying},
			expected: []string{
				"Use the arrow keys to shift the tiles!",
				"",
				"+----+----+----+",
				"|   2|    |  16|",
				"+----+----+----+",
				"",
			},
		},
		{
			name: "winning",
			snap: Snapshot{Rows: 1, Cols: 2, Cells: [][]int{{2048, 4}}, Winning: true, State: StateWon},
			expected: []string{
				"Use the arrow keys to shift the tiles!",
				"",
				"+----+----+",
				"|2048|   4|",
				"+----+----+",
				"",
				"You won! Keep going",
			},
		},
		{
			name: "lost with two rows",
			snap: Snapshot{Rows: 2, Cols: 2, Cells: [][]int{{2, 4}, {8, 128}}, State: StateLost},
			expected: []string{
				"Use the arrow keys to shift the tiles!",
				"",
				"+----+----+",
				"|   2|   4|",
				"+----+----+",
				"|   8| 128|",
				"+----+----+",
				"",
				"You lost the game.",
				"Press any key to exit.",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Lines(tc.snap)
			if len(got) != len(tc.expected) {
				t.Fatalf("Lines() returned %d lines, expected %d:\n%s", len(got), len(tc.expected), strings.Join(got, "\n"))
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("line %d = %q, expected %q", i, got[i], tc.expected[i])
				}
			}
		})
	}
}

func TestSnapshotText(t *testing.T) {
	s := Snapshot{Rows: 1, Cols: 1, Cells: [][]int{{0}}}
	expected := "Use the arrow keys to shift the tiles!\n\n+----+\n|    |\n+----+\n"
	if got := s.Text(); got != expected {
		t.Errorf("Text() = %q, expected %q", got, expected)
	}
}

func TestSnapshotRenderColorsTiles(t *testing.T) {
	s := Snapshot{Rows: 1, Cols: 4, Cells: [][]int{{2048, 0, 8, 0}}, Winning: true, State: StateWon}
	screen := core.NewScreen(80, 24)
	s.Render(screen)

	found := false
	for y := 0; y < screen.Height(); y++ {
		row := screen.Row(y)
		x := strings.Index(row, "2048")
		if x < 0 {
			continue
		}
		found = true
		if c := screen.GetCell(x, y).Color; c != TileColor(2048) {
			t.Errorf("tile 2048 color = %v, expected %v", c, TileColor(2048))
		}
		if !strings.HasPrefix(row[x-1:], "|2048|    |   8|") {
			t.Errorf("board row = %q", row)
		}
	}
	if !found {
		t.Fatalf("rendered screen has no 2048 tile:\n%s", screen.String())
	}
	if !strings.Contains(screen.String(), "You won! Keep going") {
		t.Error("win message missing")
	}
}

func TestSnapshotRenderTooSmall(t *testing.T) {
	s := Snapshot{Rows: 6, Cols: 6, Cells: make([][]int, 6)}
	for i := range s.Cells {
		s.Cells[i] = make([]int, 6)
	}
	screen := core.NewScreen(30, 10)
	s.Render(screen)

	if !strings.Contains(screen.String(), "Window too small") {
		t.Errorf("expected too-small notice, got:\n%s", screen.String())
	}
}

func TestTileColor(t *testing.T) {
	seen := map[core.Color]int{}
	for v := 2; v <= 2048; v *= 2 {
		c := TileColor(v)
		if c == core.ColorDefault {
			t.Errorf("TileColor(%d) should not be the default color", v)
		}
		if prev, ok := seen[c]; ok {
			t.Errorf("TileColor(%d) reuses the color of %d", v, prev)
		}
		seen[c] = v
	}
	if TileColor(4096) == core.ColorDefault {
		t.Error("tiles above 2048 should be colored")
	}
}

func TestPresets(t *testing.T) {
	tests := []struct {
		id         string
		rows, cols int
	}{
		{"strip", 1, 8},
		{"classic", 4, 4},
		{"wide", 3, 6},
		{"large", 6, 6},
	}

	for _, tc := range tests {
		g, err := NewFromPreset(tc.id)
		if err != nil {
			t.Fatalf("NewFromPreset(%q) failed: %v", tc.id, err)
		}
		if g.Rows() != tc.rows || g.Cols() != tc.cols {
			t.Errorf("%s: got %dx%d, expected %dx%d", tc.id, g.Rows(), g.Cols(), tc.rows, tc.cols)
		}
		if g.EmptyCount() != tc.rows*tc.cols {
			t.Errorf("%s: preset board should start empty", tc.id)
		}
	}

	if _, err := NewFromPreset("nope"); err == nil {
		t.Error("unknown preset should fail")
	}
}
