package term

import (
	"github.com/vovakirdan/merge2048/internal/game"
	"github.com/vovakirdan/merge2048/internal/grid"
)

const (
	keyCtrlC  = 0x03
	keyEscape = 0x1b
)

// Decoder turns raw terminal bytes into game inputs.
type Decoder struct {
	// SkipNewlines drops '\r' and '\n'. Set it for piped input, where
	// line endings are not keystrokes.
	SkipNewlines bool
}

// Decode parses every complete key in data and returns the inputs along
// with the number of bytes consumed. An escape sequence cut off at the
// end of data is left unconsumed.
func (d Decoder) Decode(data []byte) ([]game.Input, int) {
	var out []game.Input
	i := 0

	for i < len(data) {
		b := data[i]

		if b == keyEscape {
			if i+1 >= len(data) {
				// Could be a bare ESC or the start of a sequence.
				return out, i
			}
			consumed, in, ok := parseEscape(data[i:])
			if consumed == 0 {
				return out, i
			}
			if ok {
				out = append(out, in)
			}
			i += consumed
			continue
		}

		i++
		if d.SkipNewlines && (b == '\r' || b == '\n') {
			continue
		}
		out = append(out, decodeByte(b))
	}

	return out, i
}

// Flush reports a pending lone ESC as a quit request.
func (d Decoder) Flush(pending []byte) []game.Input {
	if len(pending) == 1 && pending[0] == keyEscape {
		return []game.Input{game.Quit()}
	}
	return nil
}

func decodeByte(b byte) game.Input {
	switch b {
	case keyCtrlC, 'q', 'Q':
		return game.Quit()
	case 'w', 'W', 'k':
		return game.Move(grid.Up)
	case 'a', 'A', 'h':
		return game.Move(grid.Left)
	case 's', 'S', 'j':
		return game.Move(grid.Down)
	case 'd', 'D', 'l':
		return game.Move(grid.Right)
	}
	return game.Input{}
}

// parseEscape decodes a sequence starting with ESC. It returns the bytes
// consumed (0 when incomplete) and whether the sequence maps to an input.
// Unknown complete sequences count as one unrecognized key.
func parseEscape(data []byte) (int, game.Input, bool) {
	switch data[1] {
	case '[':
		// CSI: parameters 0x30-0x3f, intermediates 0x20-0x2f, final 0x40-0x7e
		for j := 2; j < len(data); j++ {
			c := data[j]
			if c >= 0x40 && c <= 0x7e {
				return j + 1, arrow(c), true
			}
			if c < 0x20 || c > 0x3f {
				// Malformed; swallow what we saw.
				return j, game.Input{}, false
			}
		}
		return 0, game.Input{}, false
	case 'O':
		// SS3, sent by terminals in application cursor mode
		if len(data) < 3 {
			return 0, game.Input{}, false
		}
		return 3, arrow(data[2]), true
	case keyEscape:
		// ESC ESC: the first is a bare escape
		return 1, game.Quit(), true
	default:
		// Alt+key
		return 2, game.Input{}, true
	}
}

func arrow(final byte) game.Input {
	switch final {
	case 'A':
		return game.Move(grid.Up)
	case 'B':
		return game.Move(grid.Down)
	case 'C':
		return game.Move(grid.Right)
	case 'D':
		return game.Move(grid.Left)
	}
	return game.Input{}
}
