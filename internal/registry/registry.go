// Package registry provides a global registry of board presets.
// Presets register themselves in init() functions, allowing the CLI and
// front ends to discover named board shapes without hardcoded lists.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Preset is a named board shape with its win threshold.
type Preset struct {
	// ID is a unique identifier used on the command line (e.g., "classic").
	ID string

	// Title is a human-readable name for display.
	Title string

	Rows     int
	Cols     int
	WinValue int
}

// Size returns the preset dimensions formatted as "RxC".
func (p Preset) Size() string {
	return fmt.Sprintf("%dx%d", p.Rows, p.Cols)
}

var (
	presets = make(map[string]Preset)
	mu      sync.RWMutex
)

// Register adds a preset to the registry.
// Typically called from an init() function.
// Panics if a preset with the same ID is already registered.
func Register(p Preset) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := presets[p.ID]; exists {
		panic(fmt.Sprintf("registry: preset %q already registered", p.ID))
	}

	presets[p.ID] = p
}

// List returns all registered presets, sorted by ID.
func List() []Preset {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]Preset, 0, len(presets))
	for _, p := range presets {
		result = append(result, p)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Lookup returns the preset with the given ID.
// Returns an error if the ID is not registered.
func Lookup(id string) (Preset, error) {
	mu.RLock()
	defer mu.RUnlock()

	p, ok := presets[id]
	if !ok {
		return Preset{}, fmt.Errorf("registry: unknown preset %q", id)
	}

	return p, nil
}

// Exists checks if a preset with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := presets[id]
	return ok
}
