package term

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vovakirdan/merge2048/internal/game"
	"github.com/vovakirdan/merge2048/internal/grid"
)

func TestDecode(t *testing.T) {
	up, left, down, right := game.Move(grid.Up), game.Move(grid.Left), game.Move(grid.Down), game.Move(grid.Right)
	none := game.Input{}
	quit := game.Quit()

	tests := []struct {
		name     string
		data     string
		skipNL   bool
		expected []game.Input
		consumed int
	}{
		{"csi arrows", "\x1b[A\x1b[D\x1b[B\x1b[C", false, []game.Input{up, left, down, right}, 12},
		{"ss3 arrows", "\x1bOA\x1bOD", false, []game.Input{up, left}, 6},
		{"letters", "wasdhjklq", false, []game.Input{up, left, down, right, left, down, up, right, quit}, 9},
		{"ctrl+c", "\x03", false, []game.Input{quit}, 1},
		{"unknown key", "x", false, []game.Input{none}, 1},
		{"delete key is one input", "\x1b[3~", false, []game.Input{none}, 4},
		{"modified arrow", "\x1b[1;5C", false, []game.Input{right}, 6},
		{"enter counts in raw mode", "\r", false, []game.Input{none}, 1},
		{"newlines skipped when piped", "a\nd\n", true, []game.Input{left, right}, 4},
		{"alt key", "\x1bx", false, []game.Input{none}, 2},
		{"incomplete csi waits", "w\x1b[", false, []game.Input{up}, 1},
		{"trailing escape waits", "d\x1b", false, []game.Input{right}, 1},
		{"double escape", "\x1b\x1b[A", false, []game.Input{quit, up}, 4},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, consumed := Decoder{SkipNewlines: tc.skipNL}.Decode([]byte(tc.data))
			if consumed != tc.consumed {
				t.Errorf("consumed = %d, expected %d", consumed, tc.consumed)
			}
			if len(got) != len(tc.expected) {
				t.Fatalf("Decode(%q) = %v, expected %v", tc.data, got, tc.expected)
			}
			for i := range got {
				if got[i] != tc.expected[i] {
					t.Errorf("input %d = %+v, expected %+v", i, got[i], tc.expected[i])
				}
			}
		})
	}
}

func TestFlushLoneEscape(t *testing.T) {
	dec := Decoder{}
	if got := dec.Flush([]byte{keyEscape}); len(got) != 1 || !got[0].Quit {
		t.Errorf("Flush(ESC) = %v, expected quit", got)
	}
	if got := dec.Flush([]byte("\x1b[")); got != nil {
		t.Errorf("Flush of a partial sequence = %v, expected nothing", got)
	}
}

func TestWriteFrame(t *testing.T) {
	s := game.Snapshot{Rows: 1, Cols: 2, Cells: [][]int{{2, 0}}, State: game.StatePlaying}

	var buf bytes.Buffer
	if err := WriteFrame(&buf, s, true); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, clearScreen) {
		t.Error("frame should start by clearing the screen")
	}
	expected := "Use the arrow keys to shift the tiles!\r\n\r\n+----+----+\r\n|   2|    |\r\n+----+----+\r\n\r\n"
	if got := strings.TrimPrefix(out, clearScreen); got != expected {
		t.Errorf("frame = %q, expected %q", got, expected)
	}

	buf.Reset()
	if err := WriteFrame(&buf, s, false); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "\r") {
		t.Error("non-raw frames should use plain newlines")
	}
}
