package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/merge2048/internal/core"
)

// palette holds the ANSI code for each core.Color. Bright tile colors are
// drawn bold so large tiles stand out on dim terminals.
var palette = [...]struct {
	code string
	bold bool
}{
	core.ColorDefault:       {"", false},
	core.ColorRed:           {"1", false},
	core.ColorGreen:         {"2", false},
	core.ColorYellow:        {"3", false},
	core.ColorBlue:          {"4", true},
	core.ColorMagenta:       {"5", false},
	core.ColorCyan:          {"6", false},
	core.ColorWhite:         {"7", false},
	core.ColorBrightRed:     {"9", true},
	core.ColorBrightYellow:  {"11", true},
	core.ColorBrightMagenta: {"13", true},
	core.ColorBrightCyan:    {"14", true},
	core.ColorOrange:        {"208", false},
	core.ColorGray:          {"245", false},
}

var cellStyles = buildCellStyles()

func buildCellStyles() []lipgloss.Style {
	styles := make([]lipgloss.Style, len(palette))
	for i, p := range palette {
		st := lipgloss.NewStyle()
		if p.code != "" {
			st = st.Foreground(lipgloss.Color(p.code))
		}
		styles[i] = st.Bold(p.bold)
	}
	return styles
}

func styleFor(c core.Color) lipgloss.Style {
	if int(c) < len(cellStyles) {
		return cellStyles[c]
	}
	return cellStyles[core.ColorDefault]
}

// RenderScreen converts a Screen buffer to a styled string for display.
// Each row is split into runs of one color, and each run is styled once.
func RenderScreen(s *core.Screen) string {
	lines := make([]string, s.Height())

	for y := range lines {
		var row strings.Builder
		start := 0
		for x := 1; x <= s.Width(); x++ {
			if x < s.Width() && s.GetCell(x, y).Color == s.GetCell(start, y).Color {
				continue
			}
			runes := make([]rune, 0, x-start)
			for i := start; i < x; i++ {
				runes = append(runes, s.GetCell(i, y).Rune)
			}
			row.WriteString(styleFor(s.GetCell(start, y).Color).Render(string(runes)))
			start = x
		}
		lines[y] = row.String()
	}
	return strings.Join(lines, "\n")
}
