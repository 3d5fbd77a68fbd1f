package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/merge2048/internal/game"
	"github.com/vovakirdan/merge2048/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List board presets",
	Long:  `Shows the board presets that can be passed to 'merge2048 play'.`,
	Run:   runList,
}

func runList(cmd *cobra.Command, args []string) {
	presets := registry.List()

	if len(presets) == 0 {
		fmt.Println("No presets available.")
		return
	}

	fmt.Println("Available presets:")
	fmt.Println()

	// Calculate column widths
	maxIDLen := 2 // "ID" header
	for _, p := range presets {
		if len(p.ID) > maxIDLen {
			maxIDLen = len(p.ID)
		}
	}

	fmt.Printf("  %-*s  %-5s  %-5s  %s\n", maxIDLen, "ID", "Size", "Win", "Title")
	fmt.Printf("  %-*s  %-5s  %-5s  %s\n", maxIDLen, "--", "----", "---", "-----")

	for _, p := range presets {
		marker := ""
		if p.ID == game.DefaultPreset {
			marker = " (default)"
		}
		fmt.Printf("  %-*s  %-5s  %-5d  %s%s\n", maxIDLen, p.ID, p.Size(), p.WinValue, p.Title, marker)
	}

	fmt.Println()
	fmt.Println("Run 'merge2048 play <id>' to play a preset.")
}
