// Package core provides fundamental types shared by the board logic and
// the terminal front ends. It contains no external dependencies
// (especially no Bubble Tea) to keep game logic pure and testable.
package core

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// CenterOffset returns the offset that centers a span of size inner
// within outer. Never negative.
func CenterOffset(outer, inner int) int {
	return Max((outer-inner)/2, 0)
}
