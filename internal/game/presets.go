package game

import (
	"github.com/vovakirdan/merge2048/internal/grid"
	"github.com/vovakirdan/merge2048/internal/registry"
)

// DefaultPreset is the board played when no preset is named.
const DefaultPreset = "strip"

func init() {
	registry.Register(registry.Preset{ID: "strip", Title: "Single strip", Rows: 1, Cols: 8, WinValue: grid.DefaultWinValue})
	registry.Register(registry.Preset{ID: "classic", Title: "Classic", Rows: 4, Cols: 4, WinValue: grid.DefaultWinValue})
	registry.Register(registry.Preset{ID: "wide", Title: "Wide", Rows: 3, Cols: 6, WinValue: grid.DefaultWinValue})
	registry.Register(registry.Preset{ID: "large", Title: "Large", Rows: 6, Cols: 6, WinValue: grid.DefaultWinValue})
}

// NewFromPreset builds an empty board for the named preset.
func NewFromPreset(id string) (*grid.Grid, error) {
	p, err := registry.Lookup(id)
	if err != nil {
		return nil, err
	}
	return grid.New(p.Rows, p.Cols, p.WinValue)
}
