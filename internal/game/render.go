package game

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/merge2048/internal/core"
)

const (
	cellWidth = 4 // digits per cell, right-aligned

	headerText = "Use the arrow keys to shift the tiles!"
	wonText    = "You won! Keep going"
	lostText   = "You lost the game."
	exitText   = "Press any key to exit."
)

// BoardLines draws the board as ASCII: a "+----" border per column
// closed by "+", and each row as "|" plus the value right-aligned in four
// columns, blank for empty cells.
func BoardLines(s Snapshot) []string {
	sep := strings.Repeat("+"+strings.Repeat("-", cellWidth), s.Cols) + "+"

	lines := make([]string, 0, 2*s.Rows+1)
	lines = append(lines, sep)
	for _, row := range s.Cells {
		var b strings.Builder
		for _, v := range row {
			b.WriteByte('|')
			if v == 0 {
				b.WriteString(strings.Repeat(" ", cellWidth))
			} else {
				fmt.Fprintf(&b, "%*d", cellWidth, v)
			}
		}
		b.WriteByte('|')
		lines = append(lines, b.String(), sep)
	}
	return lines
}

// StatusLines returns the messages shown under the board.
func StatusLines(s Snapshot) []string {
	var lines []string
	if s.Winning {
		lines = append(lines, wonText)
	}
	if s.State == StateLost {
		lines = append(lines, lostText, exitText)
	}
	return lines
}

// Lines returns the full text frame: header, blank line, board, blank
// line, then status messages.
func Lines(s Snapshot) []string {
	lines := []string{headerText, ""}
	lines = append(lines, BoardLines(s)...)
	lines = append(lines, "")
	return append(lines, StatusLines(s)...)
}

// Text joins Lines with newlines.
func (s Snapshot) Text() string {
	return strings.Join(Lines(s), "\n")
}

// FrameSize returns the width and height Render needs.
func (s Snapshot) FrameSize() (int, int) {
	w := s.Cols*(cellWidth+1) + 1
	if len(headerText) > w {
		w = len(headerText)
	}
	if len(exitText) > w {
		w = len(exitText)
	}
	// header, blank, board, blank, up to three status lines
	h := 2 + 2*s.Rows + 1 + 1 + 3
	return w, h
}

// Render draws the snapshot onto dst with tiles colored by value.
func (s Snapshot) Render(dst *core.Screen) {
	dst.Clear()

	w, h := s.FrameSize()
	if dst.Width() < w || dst.Height() < h {
		renderTooSmall(dst)
		return
	}

	x := core.CenterOffset(dst.Width(), w)
	y := core.CenterOffset(dst.Height(), h)

	dst.DrawText(x, y, headerText)
	y += 2

	for i, line := range BoardLines(s) {
		dst.DrawTextColored(x, y+i, line, core.ColorGray)
	}
	for r, row := range s.Cells {
		for c, v := range row {
			if v == 0 {
				continue
			}
			cx := x + c*(cellWidth+1) + 1
			dst.DrawTextColored(cx, y+2*r+1, fmt.Sprintf("%*d", cellWidth, v), TileColor(v))
		}
	}
	y += 2*s.Rows + 2

	for _, line := range StatusLines(s) {
		color := core.ColorBrightYellow
		if s.State == StateLost {
			color = core.ColorBrightRed
		}
		dst.DrawTextColored(x, y, line, color)
		y++
	}
}

func renderTooSmall(dst *core.Screen) {
	y := dst.Height() / 2
	dst.DrawTextCentered(y, "Window too small")
	dst.DrawTextCentered(y+1, "Please resize terminal")
}

// TileColor returns the display color for a tile value.
func TileColor(v int) core.Color {
	switch v {
	case 2:
		return core.ColorWhite
	case 4:
		return core.ColorYellow
	case 8:
		return core.ColorOrange
	case 16:
		return core.ColorBrightRed
	case 32:
		return core.ColorRed
	case 64:
		return core.ColorMagenta
	case 128:
		return core.ColorBrightMagenta
	case 256:
		return core.ColorCyan
	case 512:
		return core.ColorBrightCyan
	case 1024:
		return core.ColorGreen
	case 2048:
		return core.ColorBrightYellow
	default:
		if v > 2048 {
			return core.ColorBlue
		}
		return core.ColorDefault
	}
}
